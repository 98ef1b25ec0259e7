package phone

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	// CountryPrefix is the UK international dialing prefix.
	CountryPrefix = "+44"

	// MaxNationalDigits is the longest UK national number, leading 0 included.
	MaxNationalDigits = 11

	// groupAfter is the digit position followed by the display separator (07700 900000).
	groupAfter = 5
)

var (
	// Optional leading 0, then 9-10 digits starting 1-9. Covers 07xxx mobiles and 01/02 landlines.
	ukNationalRegex = regexp.MustCompile(`^0?[1-9][0-9]{8,9}$`)

	ukInternationalRegex = regexp.MustCompile(`^\+44[1-9][0-9]{8,9}$`)
)

// NormalizeLiveInput runs one keystroke through the live-input pipeline.
// A rejected value leaves the display untouched, so previous is returned as is.
func NormalizeLiveInput(previous, raw string) string {
	display, ok := ParseLiveInput(raw)
	if !ok {
		return previous
	}
	return display
}

// ParseLiveInput converts raw field contents into the national display format.
// ok is false when the input must be dropped: more than 11 digits, or digits
// that do not start with 0 once any UK country prefix has been folded away.
func ParseLiveInput(raw string) (string, bool) {
	value := keepDialable(raw)

	switch {
	case strings.HasPrefix(value, CountryPrefix):
		value = "0" + stripSpaces(value[len(CountryPrefix):])
	case strings.HasPrefix(value, "44") && len(value) > 2:
		value = "0" + stripSpaces(value[2:])
	}

	digits := stripSpaces(value)
	if len(digits) > MaxNationalDigits {
		return "", false
	}
	if digits != "" && digits[0] != '0' {
		return "", false
	}

	return group(digits), true
}

// Internationalize converts a national display string into +44 form. A valid
// number typed without its trunk 0 gets the prefix too.
func Internationalize(display string) string {
	digits := stripSpaces(display)
	switch {
	case strings.HasPrefix(digits, "0"):
		return CountryPrefix + digits[1:]
	case ukNationalRegex.MatchString(digits):
		return CountryPrefix + digits
	}
	return digits
}

// Nationalize reverses Internationalize.
func Nationalize(international string) string {
	digits := stripSpaces(international)
	if strings.HasPrefix(digits, CountryPrefix) {
		return "0" + digits[len(CountryPrefix):]
	}
	return digits
}

// IsValidUK reports whether value is an acceptable UK number in national form,
// with or without the leading 0. Whitespace is ignored.
func IsValidUK(value string) bool {
	return ukNationalRegex.MatchString(stripSpaces(value))
}

// IsInternationalUK reports whether value is a UK number in +44 form.
func IsInternationalUK(value string) bool {
	return ukInternationalRegex.MatchString(value)
}

// Format re-groups a digit string for display.
func Format(digits string) string {
	return group(stripSpaces(digits))
}

// keepDialable drops everything except ASCII digits, whitespace and a leading +.
func keepDialable(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(r)
		case r == '+' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func group(digits string) string {
	if len(digits) <= groupAfter {
		return digits
	}
	return digits[:groupAfter] + " " + digits[groupAfter:]
}
