package dto

type PlaceBetRequest struct {
	MarketID      string  `json:"marketId"`
	BettorAddress string  `json:"bettorAddress,omitempty"` // opcional: aposta anônima
	Amount        float64 `json:"amount"`
	Side          string  `json:"side"` // "yes" | "no"
}
