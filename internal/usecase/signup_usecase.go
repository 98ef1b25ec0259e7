package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"signup-funnel-backend/internal/domain"
	"signup-funnel-backend/pkg/apperror"
	"signup-funnel-backend/pkg/logger"
	"signup-funnel-backend/pkg/phone"
	"signup-funnel-backend/pkg/security"
	"signup-funnel-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
	maxExportRows    = 10000
)

// registration is what the endpoint re-checks before storing anything
type registration struct {
	FullName string `json:"fullName" validate:"required,full_name"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,uk_e164"`
}

type signupUsecase struct {
	repo     domain.SignupRepository
	guard    domain.SubmissionGuard
	notifier domain.SignupNotifier
	validate *validator.Validate
	now      func() time.Time
}

// NewSignupUsecase creates a new signup usecase. validate must have the
// custom tags from pkg/validation registered.
func NewSignupUsecase(repo domain.SignupRepository, guard domain.SubmissionGuard, notifier domain.SignupNotifier, validate *validator.Validate) domain.SignupUsecase {
	return &signupUsecase{
		repo:     repo,
		guard:    guard,
		notifier: notifier,
		validate: validate,
		now:      time.Now,
	}
}

func (u *signupUsecase) Register(ctx context.Context, req *domain.SignupRequest, meta domain.SignupMeta) (*domain.SignupResult, error) {
	// Bots get the same acknowledgement as people
	if req.Company != "" {
		security.DefaultLogger().LogSpamDetected(ctx, req.Email, meta.IP, meta.UserAgent, meta.RequestID)
		return &domain.SignupResult{}, nil
	}

	reg := registration{
		FullName: strings.Join(strings.Fields(req.FullName), " "),
		Email:    strings.TrimSpace(req.Email),
		Phone:    strings.TrimSpace(req.Phone),
	}
	if err := u.validate.Struct(reg); err != nil {
		return nil, apperror.BadRequest("Invalid signup details").WithDetails(validation.FormatFieldErrors(err))
	}

	// One signup per email per window; repeats are acknowledged, not reprocessed
	dedupeKey := security.HashValue(strings.ToLower(reg.Email))
	claimed, err := u.guard.Claim(ctx, dedupeKey)
	if err != nil {
		logger.Log.Warn("Duplicate guard unavailable, continuing", "error", err)
		claimed = true
	}
	if !claimed {
		security.DefaultLogger().LogDuplicateSubmission(ctx, reg.Email, meta.IP, meta.RequestID)
		return &domain.SignupResult{Duplicate: true}, nil
	}

	lineType := phone.LineUnknown
	if details, err := phone.Describe(reg.Phone); err == nil {
		lineType = details.LineType
	}

	signup := &domain.Signup{
		ID:        uuid.NewString(),
		FullName:  reg.FullName,
		Email:     reg.Email,
		Phone:     reg.Phone,
		LineType:  lineType,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		CreatedAt: u.now().UTC(),
	}

	if err := u.repo.Create(ctx, signup); err != nil {
		if relErr := u.guard.Release(ctx, dedupeKey); relErr != nil {
			logger.Log.Warn("Failed to release duplicate guard", "error", relErr)
		}
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.Internal(err)
	}

	logger.Log.Info("Signup registered",
		"id", signup.ID,
		"email", security.MaskEmail(signup.Email),
		"line_type", signup.LineType,
		"request_id", meta.RequestID,
	)

	if err := u.notifier.NotifySignup(ctx, signup); err != nil {
		logger.Log.Error("Failed to notify operators of signup", "id", signup.ID, "error", err)
	}

	return &domain.SignupResult{ID: signup.ID}, nil
}

func (u *signupUsecase) List(ctx context.Context, limit int) ([]domain.Signup, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return u.repo.List(ctx, limit)
}

// Export renders the most recent signups as an Excel workbook
func (u *signupUsecase) Export(ctx context.Context) (*domain.SignupExport, error) {
	signups, err := u.repo.List(ctx, maxExportRows)
	if err != nil {
		return nil, err
	}

	data, err := buildSignupWorkbook(signups)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &domain.SignupExport{
		Filename:    fmt.Sprintf("signups_%s.xlsx", u.now().Format("20060102_150405")),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        data,
		Rows:        len(signups),
	}, nil
}

var exportColumns = []string{"ID", "FULL NAME", "EMAIL", "PHONE", "NATIONAL", "LINE TYPE", "IP", "CREATED AT"}

func buildSignupWorkbook(signups []domain.Signup) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Signups"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#F34D4E"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, s := range signups {
		values := []interface{}{
			s.ID,
			s.FullName,
			s.Email,
			s.Phone,
			phone.Format(phone.Nationalize(s.Phone)),
			s.LineType,
			s.IP,
			s.CreatedAt.Format(time.RFC3339),
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	for i := range exportColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 22)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}
