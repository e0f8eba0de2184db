// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package inference

import (
	"strings"
)

// ParseFields reads a constrained `Key: value` response. Keys are normalized
// with NormalizeKey; list markers and markdown emphasis are stripped. Lines
// without a colon are ignored. The first occurrence of a key wins.
func ParseFields(text string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		line = cleanLine(line)
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = NormalizeKey(key)
		value = strings.TrimSpace(strings.Trim(strings.TrimSpace(value), "*"))
		if key == "" || value == "" {
			continue
		}
		if _, seen := fields[key]; !seen {
			fields[key] = value
		}
	}
	return fields
}

// NormalizeKey lowercases a label and joins its words with underscores:
// "Admission Rate" becomes "admission_rate".
func NormalizeKey(label string) string {
	label = strings.ToLower(strings.TrimSpace(strings.Trim(label, "*# ")))
	label = strings.NewReplacer("/", " ", "-", " ").Replace(label)
	return strings.Join(strings.Fields(label), "_")
}

// SplitList splits a comma or semicolon separated value into trimmed items.
func SplitList(value string) []string {
	parts := strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == ';' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func cleanLine(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, "-*• ")
	// numbered list markers such as "1." or "2)"
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		line = line[i+1:]
	}
	return strings.TrimSpace(line)
}
