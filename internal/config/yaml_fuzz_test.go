// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package config

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func FuzzConfigParse(f *testing.F) {
	f.Add([]byte("output_format: json\nconcurrency: 4\n"))
	f.Add([]byte(""))
	f.Add([]byte("---"))
	f.Add([]byte("rules:\n  syllabus-ai-policy:\n    enabled: false\n"))
	f.Add([]byte("{invalid"))

	f.Fuzz(func(t *testing.T, data []byte) {
		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return
		}
		yaml.Marshal(&cfg) //nolint:errcheck,gosec // fuzz: testing crash-freedom
		_ = cfg.DisabledRules()
	})
}
