package events

import "time"

// Evento emitido pelo market-service quando um mercado é resolvido.
type MarketResolved struct {
	MarketID string    `json:"marketId"`
	Outcome  string    `json:"outcome"` // "yes" | "no"
	Ts       time.Time `json:"ts"`
}
