package events

import "time"

// Payload cacheado no Redis e transmitido via WebSocket para os clientes.
// Derivado de BetPlaced pelo odds-projector-worker.
type OddsUpdate struct {
	MarketID    string    `json:"market_id"`
	YesStake    float64   `json:"yes_stake"`
	NoStake     float64   `json:"no_stake"`
	Probability float64   `json:"probability"` // 0..100
	Seq         int64     `json:"seq"`
	UpdatedAt   time.Time `json:"updated_at"`
	Source      string    `json:"source"` // ex: "odds-projector-worker"
}
