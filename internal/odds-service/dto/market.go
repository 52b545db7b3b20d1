package dto

// Market representa um mercado de previsão binário (sim/não)
type Market struct {
	MarketID           string  `json:"marketId"`
	Title              string  `json:"title"`
	Content            string  `json:"content"`
	Creator            string  `json:"creator,omitempty"`
	YesStake           float64 `json:"yesStake"`
	NoStake            float64 `json:"noStake"`
	ImpliedProbability float64 `json:"impliedProbability"`
	Deadline           string  `json:"deadline"`
	Resolved           bool    `json:"resolved"`
	Outcome            string  `json:"outcome,omitempty"`
	CreatedAt          string  `json:"createdAt"`
}

// Odds é a resposta de getCurrentOdds
type Odds struct {
	MarketID           string  `json:"marketId"`
	YesStake           float64 `json:"yesStake"`
	NoStake            float64 `json:"noStake"`
	ImpliedProbability float64 `json:"impliedProbability"`
}

// Sample é um ponto (tempo, probabilidade) do gráfico de odds
type Sample struct {
	Timestamp   int64   `json:"timestamp"` // unix ms
	Probability float64 `json:"probability"`
}

// History é a resposta de getHistory, amostras em ordem cronológica
type History struct {
	MarketID string   `json:"marketId"`
	Samples  []Sample `json:"samples"`
}

// Bet é uma aposta formatada para exibição
type Bet struct {
	BetID       string  `json:"betId"`
	MarketID    string  `json:"marketId"`
	MarketTitle string  `json:"marketTitle,omitempty"`
	Bettor      string  `json:"bettor"`
	Amount      float64 `json:"amount"`
	Side        string  `json:"side"`
	CreatedAt   string  `json:"createdAt"`
}
