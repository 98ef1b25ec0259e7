package funnel_test

import (
	"testing"

	"signup-funnel-backend/internal/funnel"

	"github.com/stretchr/testify/assert"
)

func TestSignupForm_SetFullNameCapitalizes(t *testing.T) {
	var form funnel.SignupForm

	form.SetFullName("jo SMITH")
	assert.Equal(t, "Jo Smith", form.FullName)

	form.SetFullName("jo ")
	assert.Equal(t, "Jo ", form.FullName, "trailing space kept while typing")

	form.SetFullName("élodie  o'neil")
	assert.Equal(t, "Élodie  O'neil", form.FullName)
}

func TestSignupForm_SetPhoneKeystrokes(t *testing.T) {
	var form funnel.SignupForm

	for _, v := range []string{"0", "07", "077", "0770", "07700", "077009"} {
		form.SetPhone(v)
	}
	assert.Equal(t, "07700 9", form.PhoneDisplay)

	form.SetPhone("07700 9x")
	assert.Equal(t, "07700 9", form.PhoneDisplay)

	form.SetPhone("9")
	assert.Equal(t, "07700 9", form.PhoneDisplay, "rejected input leaves display as is")

	form.SetPhone("+44 7700 900000")
	assert.Equal(t, "07700 900000", form.PhoneDisplay)
}

func TestSignupForm_Payload(t *testing.T) {
	form := funnel.SignupForm{
		FullName:     "  Jo   van  Smith ",
		Email:        "jo@smith.com",
		PhoneDisplay: "07700 900000",
	}

	payload := form.Payload()

	assert.Equal(t, "Jo van Smith", payload.FullName)
	assert.Equal(t, "jo@smith.com", payload.Email)
	assert.Equal(t, "+447700900000", payload.Phone)
}

func TestSignupForm_PayloadWithoutTrunkZero(t *testing.T) {
	form := funnel.SignupForm{
		FullName:      "Jo Smith",
		Email:         "jo@smith.com",
		PhoneDisplay:  "7700900000",
		TermsAccepted: true,
	}
	assert.True(t, funnel.NewValidator().Validate(form).Valid())

	assert.Equal(t, "+447700900000", form.Payload().Phone)
}

func TestSignupForm_CanSubmit(t *testing.T) {
	var form funnel.SignupForm
	assert.False(t, form.CanSubmit())

	form.SetTermsAccepted(true)
	assert.True(t, form.CanSubmit())
}

func TestSignupForm_IsSpam(t *testing.T) {
	var form funnel.SignupForm
	assert.False(t, form.IsSpam())

	form.SetHoneypot("x")
	assert.True(t, form.IsSpam())
}
