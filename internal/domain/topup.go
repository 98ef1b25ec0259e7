package domain

import "context"

// TopUpQuote is the bonus breakdown for one top-up amount. Money is in pence.
type TopUpQuote struct {
	Amount          int64  `json:"amount"`
	BonusPercentage int64  `json:"bonus_percentage"`
	Bonus           int64  `json:"bonus"`
	Total           int64  `json:"total"`
	Display         string `json:"display"`
}

// TopUpOptions lists what the top-up screen offers
type TopUpOptions struct {
	Amounts         []int64      `json:"amounts"`
	DefaultAmount   int64        `json:"default_amount"`
	BonusPercentage int64        `json:"bonus_percentage"`
	Quotes          []TopUpQuote `json:"quotes"`
}

// TopUpRequest selects a preset amount in whole pounds
type TopUpRequest struct {
	Amount int64 `json:"amount" binding:"required,min=1" example:"10"`
}

type TopUpUsecase interface {
	Options() TopUpOptions
	Quote(pounds int64) (*TopUpQuote, error)
	// TopUp records the request; no payment is taken
	TopUp(ctx context.Context, pounds int64) (*TopUpQuote, string, error)
}
