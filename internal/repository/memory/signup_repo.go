package memory

import (
	"context"
	"sync"

	"signup-funnel-backend/internal/domain"
	"signup-funnel-backend/pkg/logger"
	"signup-funnel-backend/pkg/security"
)

// DefaultCapacity is how many signups the store keeps before dropping the oldest.
const DefaultCapacity = 1000

// signupRepo logs every signup and keeps the most recent ones in memory.
// It stands in for the database when DATABASE_URL is not set.
type signupRepo struct {
	mu       sync.RWMutex
	capacity int
	signups  []domain.Signup
}

func NewSignupRepository(capacity int) domain.SignupRepository {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &signupRepo{capacity: capacity}
}

func (r *signupRepo) Create(ctx context.Context, signup *domain.Signup) error {
	logger.Log.Info("[Signup] New user registration",
		"id", signup.ID,
		"full_name", signup.FullName,
		"email", security.MaskEmail(signup.Email),
		"phone", security.MaskPhone(signup.Phone),
		"timestamp", signup.CreatedAt,
	)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.signups = append(r.signups, *signup)
	if over := len(r.signups) - r.capacity; over > 0 {
		r.signups = append([]domain.Signup(nil), r.signups[over:]...)
	}
	return nil
}

// List returns newest first.
func (r *signupRepo) List(ctx context.Context, limit int) ([]domain.Signup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.signups)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]domain.Signup, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, r.signups[i])
	}
	return out, nil
}
