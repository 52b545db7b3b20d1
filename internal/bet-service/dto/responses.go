package dto

import "time"

type PlaceBetResponse struct {
	BetID              string  `json:"betId"`
	UpdatedYesStake    float64 `json:"updatedYesStake"`
	UpdatedNoStake     float64 `json:"updatedNoStake"`
	ImpliedProbability float64 `json:"impliedProbability"`
}

type BetResponse struct {
	BetID     string    `json:"betId"`
	MarketID  string    `json:"marketId"`
	Bettor    string    `json:"bettor,omitempty"`
	Amount    float64   `json:"amount"`
	Side      string    `json:"side"`
	CreatedAt time.Time `json:"createdAt"`
}

type MarketBetsResponse struct {
	MarketID string        `json:"marketId"`
	YesStake float64       `json:"yesStake"`
	NoStake  float64       `json:"noStake"`
	Bets     []BetResponse `json:"bets"`
}

type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
