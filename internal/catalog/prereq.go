// Package catalog is the loading boundary for subject data: it parses the
// CSV interchange format, resolves the labeled prerequisite grammar, and
// normalizes weekday, hour, and code values exactly once, so everything
// downstream works on strict types.
package catalog

import (
	"regexp"
	"strings"

	"github.com/gradeufla/planner-api/internal/models"
)

var (
	codeCleaner = regexp.MustCompile(`[^A-Za-z0-9_-]`)
	labelRe     = regexp.MustCompile(`(?i)^\s*(strong|forte|minimum|minimo|mínimo|coreq|co-?requisito)\s*:\s*(.*)$`)
	hasLabelRe  = regexp.MustCompile(`(?i)\b(strong|forte|minimum|minimo|mínimo|coreq|co-?requisito)\s*:`)
)

// NormalizeCode uppercases a subject code and strips stray punctuation.
// Returns "" when nothing survives.
func NormalizeCode(raw string) string {
	return strings.ToUpper(codeCleaner.ReplaceAllString(strings.TrimSpace(raw), ""))
}

// ParsePrerequisites parses a prerequisite cell such as
//
//	strong: GCC100, GCC101; minimum: GEX101; coreq: GAC124
//
// Groups are separated by semicolons or newlines; codes inside a group by
// commas. Portuguese labels (forte, minimo, co-requisito) are accepted as
// aliases. A cell with no label at all is a plain code list and defaults
// to strong severity.
func ParsePrerequisites(raw string) models.Prerequisites {
	var p models.Prerequisites
	s := strings.TrimSpace(raw)
	if s == "" {
		return p
	}

	if !hasLabelRe.MatchString(s) {
		p.Strong = splitCodes(s)
		return p
	}

	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == '\n' }) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m := labelRe.FindStringSubmatch(part)
		if m == nil {
			// unlabeled fragment inside a labeled cell keeps the default
			p.Strong = append(p.Strong, splitCodes(part)...)
			continue
		}
		codes := splitCodes(m[2])
		switch normalizeLabel(m[1]) {
		case "strong":
			p.Strong = append(p.Strong, codes...)
		case "minimum":
			p.Minimum = append(p.Minimum, codes...)
		case "coreq":
			p.Coreq = append(p.Coreq, codes...)
		}
	}
	return p
}

func normalizeLabel(label string) string {
	switch strings.ToLower(strings.ReplaceAll(label, "í", "i")) {
	case "strong", "forte":
		return "strong"
	case "minimum", "minimo":
		return "minimum"
	default:
		return "coreq"
	}
}

func splitCodes(s string) []string {
	var out []string
	for _, raw := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '|' || r == '/'
	}) {
		if code := NormalizeCode(raw); code != "" {
			out = append(out, code)
		}
	}
	return out
}
