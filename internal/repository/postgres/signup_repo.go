package postgres

import (
	"context"
	"errors"
	"signup-funnel-backend/internal/domain"
	"signup-funnel-backend/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes
const (
	pgUniqueViolation = "23505"
)

type signupRepo struct {
	db *pgxpool.Pool
}

func NewSignupRepository(db *pgxpool.Pool) domain.SignupRepository {
	return &signupRepo{db: db}
}

func (r *signupRepo) Create(ctx context.Context, signup *domain.Signup) error {
	query := `INSERT INTO signups (id, full_name, email, phone, line_type, ip_address, user_agent, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	var ip interface{}
	if signup.IP != "" {
		ip = signup.IP
	}

	_, err := r.db.Exec(ctx, query,
		signup.ID, signup.FullName, signup.Email, signup.Phone,
		signup.LineType, ip, signup.UserAgent, signup.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.Conflict("Signup already recorded")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (r *signupRepo) List(ctx context.Context, limit int) ([]domain.Signup, error) {
	query := `SELECT id, full_name, email, phone, line_type,
                     COALESCE(host(ip_address), ''), COALESCE(user_agent, ''), created_at
              FROM signups
              ORDER BY created_at DESC
              LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	defer rows.Close()

	var signups []domain.Signup
	for rows.Next() {
		var s domain.Signup
		if err := rows.Scan(
			&s.ID, &s.FullName, &s.Email, &s.Phone, &s.LineType,
			&s.IP, &s.UserAgent, &s.CreatedAt,
		); err != nil {
			return nil, apperror.Internal(err)
		}
		signups = append(signups, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Internal(err)
	}
	return signups, nil
}
