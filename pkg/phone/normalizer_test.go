package phone_test

import (
	"strings"
	"testing"

	"signup-funnel-backend/pkg/phone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLiveInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"empty", "", "", true},
		{"single zero", "0", "0", true},
		{"five digits stay ungrouped", "07700", "07700", true},
		{"sixth digit adds separator", "077009", "07700 9", true},
		{"full mobile", "07700900000", "07700 900000", true},
		{"already formatted", "07700 900000", "07700 900000", true},
		{"letters and dashes dropped", "07a700-900(000)", "07700 900000", true},
		{"pasted international", "+447700900000", "07700 900000", true},
		{"international with spaces", "+44 7700 900 000", "07700 900000", true},
		{"bare country code", "447700900000", "07700 900000", true},
		{"bare 44 alone is not a prefix", "44", "", false},
		{"too many digits", "077009000001", "", false},
		{"must start with zero", "7700900000", "", false},
		{"foreign prefix", "+33612345678", "", false},
		{"lone plus", "+", "", false},
		{"plus in the middle is dropped", "077+00", "07700", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := phone.ParseLiveInput(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNormalizeLiveInput_RejectKeepsPrevious(t *testing.T) {
	assert.Equal(t, "07700 900000", phone.NormalizeLiveInput("07700 900000", "07700 9000001"))
	assert.Equal(t, "07700", phone.NormalizeLiveInput("07700", "1"))
	assert.Equal(t, "", phone.NormalizeLiveInput("", "x"))
}

func TestNormalizeLiveInput_SingleSeparator(t *testing.T) {
	digits := "0"
	for i := 1; i <= phone.MaxNationalDigits; i++ {
		got := phone.NormalizeLiveInput("", digits)
		if len(digits) > 5 {
			require.Equal(t, 1, strings.Count(got, " "), "input %q", digits)
			assert.Equal(t, 5, strings.Index(got, " "), "input %q", digits)
		} else {
			assert.NotContains(t, got, " ")
		}
		digits += string(rune('0' + i%10))
	}
}

func TestNormalizeLiveInput_PrefixEquivalence(t *testing.T) {
	for _, rest := range []string{"7", "77009", "7700900000", "2079460000", "1632960000"} {
		withPrefix := phone.NormalizeLiveInput("", "+44"+rest)
		withZero := phone.NormalizeLiveInput("", "0"+rest)
		assert.Equal(t, withZero, withPrefix, "rest %q", rest)
	}
}

func TestNormalizeLiveInput_RejectionMonotonic(t *testing.T) {
	display := ""
	typed := ""
	for _, r := range "0770090000012345" {
		typed += string(r)
		display = phone.NormalizeLiveInput(display, typed)
	}
	assert.Equal(t, "07700 900000", display)
}

func TestInternationalizeRoundTrip(t *testing.T) {
	for _, display := range []string{"07700 900000", "02079 460000", "01632 96000"} {
		intl := phone.Internationalize(display)
		assert.True(t, strings.HasPrefix(intl, "+44"))
		assert.NotContains(t, intl, " ")
		assert.Equal(t, strings.ReplaceAll(display, " ", ""), phone.Nationalize(intl))
	}
	assert.Equal(t, "+447700900000", phone.Internationalize("07700 900000"))
}

func TestInternationalize_WithoutTrunkZero(t *testing.T) {
	intl := phone.Internationalize("7700 900000")

	assert.Equal(t, "+447700900000", intl)
	assert.True(t, phone.IsInternationalUK(intl))
	assert.Equal(t, "", phone.Internationalize(""))
	assert.Equal(t, "123", phone.Internationalize("123"))
}

func TestIsValidUK(t *testing.T) {
	valid := []string{"07700900000", "07700 900000", "7700900000", "0207946000", "020 7946 0000"}
	invalid := []string{"", "123", "00700900000", "077009000001", "+447700900000", "0770090000a"}

	for _, v := range valid {
		assert.True(t, phone.IsValidUK(v), v)
	}
	for _, v := range invalid {
		assert.False(t, phone.IsValidUK(v), v)
	}
}

func TestIsInternationalUK(t *testing.T) {
	assert.True(t, phone.IsInternationalUK("+447700900000"))
	assert.True(t, phone.IsInternationalUK("+44207946000"))
	assert.False(t, phone.IsInternationalUK("07700900000"))
	assert.False(t, phone.IsInternationalUK("+4407700900000"))
	assert.False(t, phone.IsInternationalUK("+33612345678"))
}

func TestDescribe(t *testing.T) {
	d, err := phone.Describe("+447700900000")
	require.NoError(t, err)
	assert.Equal(t, int32(44), d.CountryCode)
	assert.Equal(t, "+447700900000", d.E164)

	_, err = phone.Describe("")
	assert.ErrorIs(t, err, phone.ErrInvalidNumber)

	_, err = phone.Describe("not a number")
	assert.ErrorIs(t, err, phone.ErrInvalidNumber)
}
