package domain

import (
	"context"
	"time"
)

// SignupRequest is the payload posted by the signup form
type SignupRequest struct {
	FullName string `json:"fullName" binding:"required" example:"Jo Smith"`
	Email    string `json:"email" binding:"required" example:"jo@smith.com"`
	Phone    string `json:"phone" binding:"required" example:"+447700900000"` // +44 form
	// Honeypot; browsers leave it empty
	Company string `json:"company,omitempty" swaggerignore:"true"`
}

// SignupMeta carries request details recorded alongside a signup
type SignupMeta struct {
	IP        string
	UserAgent string
	RequestID string
}

// Signup is a stored registration
type Signup struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	LineType  string    `json:"line_type"`
	IP        string    `json:"ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SignupResult acknowledges a processed registration
type SignupResult struct {
	ID        string `json:"id,omitempty"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

// SignupExport is a rendered spreadsheet of signups
type SignupExport struct {
	Filename    string
	ContentType string
	Data        []byte
	Rows        int
}

type SignupRepository interface {
	Create(ctx context.Context, signup *Signup) error
	List(ctx context.Context, limit int) ([]Signup, error)
}

// SignupNotifier tells operators about a new signup
type SignupNotifier interface {
	NotifySignup(ctx context.Context, signup *Signup) error
}

// SubmissionGuard claims a key once per window. Claim returns false when
// the key was already claimed; Release gives a claim back after a failure.
type SubmissionGuard interface {
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type SignupUsecase interface {
	// Register re-validates, de-duplicates, stores and announces a signup
	Register(ctx context.Context, req *SignupRequest, meta SignupMeta) (*SignupResult, error)
	List(ctx context.Context, limit int) ([]Signup, error)
	Export(ctx context.Context) (*SignupExport, error)
}
