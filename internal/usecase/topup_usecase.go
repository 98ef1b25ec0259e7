package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"signup-funnel-backend/internal/domain"
	"signup-funnel-backend/pkg/apperror"
	"signup-funnel-backend/pkg/logger"
)

// PresetAmounts are the top-up choices in whole pounds
var PresetAmounts = []int64{5, 10, 15, 20}

// DefaultBonusPercentage applies when none is configured
const DefaultBonusPercentage = 59

type topUpUsecase struct {
	bonusPercentage int64
}

func NewTopUpUsecase(bonusPercentage int64) domain.TopUpUsecase {
	if bonusPercentage <= 0 {
		bonusPercentage = DefaultBonusPercentage
	}
	return &topUpUsecase{bonusPercentage: bonusPercentage}
}

func (u *topUpUsecase) Options() domain.TopUpOptions {
	quotes := make([]domain.TopUpQuote, 0, len(PresetAmounts))
	for _, amount := range PresetAmounts {
		quotes = append(quotes, u.quote(amount))
	}
	return domain.TopUpOptions{
		Amounts:         append([]int64(nil), PresetAmounts...),
		DefaultAmount:   PresetAmounts[0],
		BonusPercentage: u.bonusPercentage,
		Quotes:          quotes,
	}
}

func (u *topUpUsecase) Quote(pounds int64) (*domain.TopUpQuote, error) {
	if !slices.Contains(PresetAmounts, pounds) {
		return nil, apperror.BadRequest("Amount must be one of: " + presetList())
	}
	q := u.quote(pounds)
	return &q, nil
}

// TopUp only records the request. Payment processing is not implemented.
func (u *topUpUsecase) TopUp(ctx context.Context, pounds int64) (*domain.TopUpQuote, string, error) {
	q, err := u.Quote(pounds)
	if err != nil {
		return nil, "", err
	}
	logger.Log.Info(fmt.Sprintf("Processing top-up of £%d with %d%% bonus", pounds, u.bonusPercentage),
		"amount_pence", q.Amount,
		"total_pence", q.Total,
	)
	return q, fmt.Sprintf("Successfully topped up %s!", FormatPence(q.Total)), nil
}

func (u *topUpUsecase) quote(pounds int64) domain.TopUpQuote {
	amount := pounds * 100
	bonus := amount * u.bonusPercentage / 100
	total := amount + bonus
	return domain.TopUpQuote{
		Amount:          amount,
		BonusPercentage: u.bonusPercentage,
		Bonus:           bonus,
		Total:           total,
		Display:         FormatPence(total),
	}
}

// FormatPence renders an amount in pence as pounds, e.g. 795 -> "£7.95"
func FormatPence(pence int64) string {
	sign := ""
	if pence < 0 {
		sign = "-"
		pence = -pence
	}
	return fmt.Sprintf("%s£%d.%02d", sign, pence/100, pence%100)
}

func presetList() string {
	parts := make([]string, len(PresetAmounts))
	for i, p := range PresetAmounts {
		parts[i] = fmt.Sprintf("£%d", p)
	}
	return strings.Join(parts, ", ")
}
