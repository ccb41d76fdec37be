// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package rules

import (
	"github.com/davetashner/coursefix/internal/rule"
	"github.com/davetashner/coursefix/internal/settingsrule"
)

func settingsRules() []rule.Rule {
	return []rule.Rule{
		settingsrule.CreateSettingsValidation("settings-hide-final-grades", "hide_final_grades", true,
			"Students cannot see a computed final grade."),
		settingsrule.CreateSettingsValidation("settings-hide-distribution-graphs", "hide_distribution_graphs", true,
			"Grade distribution graphs are hidden from students."),
		settingsrule.CreateSettingsValidation("settings-no-student-forum-attachments", "allow_student_forum_attachments", false,
			"Students cannot attach files to discussion posts."),
		settingsrule.CreateTabVisibilityValidation("tabs-hide-outcomes", "Outcomes", true,
			"The Outcomes tab is hidden from course navigation."),
		settingsrule.CreateTabVisibilityValidation("tabs-show-syllabus", "Syllabus", false,
			"The Syllabus tab is visible in course navigation."),
	}
}
