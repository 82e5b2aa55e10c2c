package ticket

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Grade and category bounds accepted by the registry.
const (
	GradeMin = 9
	GradeMax = 12

	GradeCategoryMin = 'A'
	GradeCategoryMax = 'F'
)

// FormatEntry validates entry and rewrites its fields into canonical form:
// the grade must lie in [GradeMin, GradeMax], the category is uppercased and
// must lie in [GradeCategoryMin, GradeCategoryMax], and both names are
// canonicalized by formatName. FormatEntry is idempotent: formatting an
// already-canonical entry leaves it unchanged.
func FormatEntry(entry *Entry) error {
	if err := entry.checkCorrupted(CodeCorruptedEntry); err != nil {
		return err
	}

	if entry.Grade < GradeMin || entry.Grade > GradeMax {
		return NewError(CodeInvalidEntryField,
			"grade %d outside allowed range [%d, %d]", entry.Grade, GradeMin, GradeMax)
	}

	category := entry.GradeCategory
	if category >= 'a' && category <= 'z' {
		category -= 'a' - 'A'
	}
	if category < GradeCategoryMin || category > GradeCategoryMax {
		return NewError(CodeInvalidEntryField,
			"grade category %q outside allowed range [%c, %c]",
			category, GradeCategoryMin, GradeCategoryMax)
	}
	entry.GradeCategory = category

	firstName, err := formatName(entry.FirstName)
	if err != nil {
		return err
	}
	lastName, err := formatName(entry.LastName)
	if err != nil {
		return err
	}
	entry.FirstName = firstName
	entry.LastName = lastName
	return nil
}

// formatName canonicalizes a name field. Only letters, spaces, and dashes are
// accepted; anything else fails with CodeInvalidString. The result lowercases
// every run of letters and capitalizes its first letter, where runs are
// separated by a space or dash. Consecutive separators collapse into one, and
// a leading or trailing separator is trimmed.
func formatName(name string) (string, error) {
	// Compose combining sequences first so that decomposed input is rejected
	// or accepted identically to its precomposed form.
	name = norm.NFC.String(name)

	var formatted strings.Builder
	formatted.Grow(len(name))

	upperNext := true
	lastWritten := byte('-')

	for i := 0; i < len(name); i++ {
		c := name[i]
		isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if !isLetter && c != ' ' && c != '-' {
			return "", NewError(CodeInvalidString,
				"name contains character %q; only letters, spaces, and dashes are allowed", c)
		}

		if isLetter {
			if upperNext {
				if c >= 'a' && c <= 'z' {
					c -= 'a' - 'A'
				}
				upperNext = false
			} else if c >= 'A' && c <= 'Z' {
				c += 'a' - 'A'
			}
		} else {
			upperNext = true
			if lastWritten == '-' || lastWritten == ' ' {
				continue
			}
		}

		lastWritten = c
		formatted.WriteByte(c)
	}

	result := formatted.String()
	if n := len(result); n > 0 && (result[n-1] == '-' || result[n-1] == ' ') {
		result = result[:n-1]
	}
	return result, nil
}
