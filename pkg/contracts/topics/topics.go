package topics

const (
	// Bets
	BetPlaced = "bet_placed"

	// Mercados
	MarketResolved = "market_resolved"

	// DLQs
	BetPlacedDLQ = "bet_placed_dlq"
)
