// Package format renders document numbers from configurable templates.
package format

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var seqPadRe = regexp.MustCompile(`\{(0+)\}`)

// DefaultNumberTemplate matches the factory settings of the application.
const DefaultNumberTemplate = "FAC-{YYYY}-{000}"

var ErrInvalidTemplate = errors.New("invalid_template")

// FormatNumber formats a human-readable document number based on a
// template, the issue year and a per-year monotonic sequence.
//
// Tokens:
//   - {YYYY}  4-digit year
//   - {0...}  sequence, zero-padded to the token's digit count
//
// This function is PURE: no side effects, fully deterministic. Sequence
// uniqueness within a year is the numbering authority's responsibility,
// not the formatter's.
func FormatNumber(template string, year int, seq int64) (string, error) {
	if err := Validate(template); err != nil {
		return "", err
	}

	if seq < 0 {
		return "", fmt.Errorf("invalid sequence: %d", seq)
	}

	out := strings.ReplaceAll(template, "{YYYY}", fmt.Sprintf("%04d", year))

	out = seqPadRe.ReplaceAllStringFunc(out, func(m string) string {
		match := seqPadRe.FindStringSubmatch(m)
		if len(match) != 2 {
			return m // should never happen
		}

		width := len(match[1])
		s := strconv.FormatInt(seq, 10)
		if len(s) >= width {
			return s
		}
		return strings.Repeat("0", width-len(s)) + s
	})

	return out, nil
}

// Validate reports whether the template carries at least one known token.
func Validate(template string) error {
	if !strings.Contains(template, "{YYYY}") && !seqPadRe.MatchString(template) {
		return ErrInvalidTemplate
	}
	return nil
}
