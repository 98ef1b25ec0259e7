package phone

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// ErrInvalidNumber is returned when a number cannot be parsed at all.
var ErrInvalidNumber = errors.New("invalid phone number")

// DefaultRegion is used when a number arrives without a country prefix.
const DefaultRegion = "GB"

// Line types reported by Describe.
const (
	LineMobile    = "mobile"
	LineFixed     = "fixed_line"
	LineFixedOrMo = "fixed_line_or_mobile"
	LineVoIP      = "voip"
	LineOther     = "other"
	LineUnknown   = "unknown"
)

// Details is the libphonenumber view of a submitted number. It annotates a
// signup for operators and never decides whether a submission is accepted.
type Details struct {
	E164        string `json:"e164"`
	CountryCode int32  `json:"country_code"`
	Region      string `json:"region,omitempty"`
	LineType    string `json:"line_type"`
	Valid       bool   `json:"valid"`
}

// Describe parses number (national or international) and reports what
// libphonenumber knows about it.
func Describe(number string) (Details, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return Details{}, ErrInvalidNumber
	}

	parsed, err := phonenumbers.Parse(number, DefaultRegion)
	if err != nil {
		return Details{}, ErrInvalidNumber
	}

	return Details{
		E164:        phonenumbers.Format(parsed, phonenumbers.E164),
		CountryCode: parsed.GetCountryCode(),
		Region:      phonenumbers.GetRegionCodeForNumber(parsed),
		LineType:    lineType(phonenumbers.GetNumberType(parsed)),
		Valid:       phonenumbers.IsValidNumber(parsed),
	}, nil
}

func lineType(t phonenumbers.PhoneNumberType) string {
	switch t {
	case phonenumbers.MOBILE:
		return LineMobile
	case phonenumbers.FIXED_LINE:
		return LineFixed
	case phonenumbers.FIXED_LINE_OR_MOBILE:
		return LineFixedOrMo
	case phonenumbers.VOIP:
		return LineVoIP
	case phonenumbers.UNKNOWN:
		return LineUnknown
	default:
		return LineOther
	}
}
