package funnel

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"signup-funnel-backend/internal/domain"
	"signup-funnel-backend/pkg/phone"
)

// SignupForm is the state of one visit to the signup form. It is owned by a
// single form session and is not safe for concurrent edits.
type SignupForm struct {
	FullName      string `json:"fullName" validate:"required,full_name"`
	Email         string `json:"email" validate:"required,email"`
	PhoneDisplay  string `json:"phone" validate:"required,uk_phone"`
	TermsAccepted bool   `json:"termsAccepted" validate:"accepted"`

	// Honeypot is never shown to people; bots fill it in.
	Honeypot string `json:"company" validate:"-"`
}

// SetFullName stores the name with each word capitalized for display.
func (f *SignupForm) SetFullName(raw string) {
	f.FullName = CapitalizeWords(raw)
}

// SetEmail stores the email as typed.
func (f *SignupForm) SetEmail(raw string) {
	f.Email = raw
}

// SetPhone feeds one keystroke through the live phone normalizer. Rejected
// input leaves PhoneDisplay unchanged.
func (f *SignupForm) SetPhone(raw string) {
	f.PhoneDisplay = phone.NormalizeLiveInput(f.PhoneDisplay, raw)
}

func (f *SignupForm) SetTermsAccepted(accepted bool) {
	f.TermsAccepted = accepted
}

func (f *SignupForm) SetHoneypot(value string) {
	f.Honeypot = value
}

// CanSubmit mirrors the submit button: disabled until the terms are ticked.
func (f *SignupForm) CanSubmit() bool {
	return f.TermsAccepted
}

// IsSpam reports whether the honeypot was filled in.
func (f *SignupForm) IsSpam() bool {
	return f.Honeypot != ""
}

// Payload builds the body posted to the signup endpoint.
func (f *SignupForm) Payload() *domain.SignupRequest {
	return &domain.SignupRequest{
		FullName: CollapseSpaces(f.FullName),
		Email:    f.Email,
		Phone:    phone.Internationalize(f.PhoneDisplay),
	}
}

// CapitalizeWords upper-cases the first letter of every space-separated word
// and lower-cases the rest. Runs of spaces are kept so typing is not disturbed.
func CapitalizeWords(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

// CollapseSpaces trims s and folds internal whitespace runs to one space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
