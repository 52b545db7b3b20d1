package events

// Evento publicado no tópico "bet_placed" após o commit da aposta no ledger.
// Carrega os totais recém-derivados para que as projeções nunca apliquem
// totais mais antigos que a própria aposta.
type BetPlaced struct {
	BetID       string  `json:"bet_id"`
	MarketID    string  `json:"market_id"`
	Bettor      string  `json:"bettor,omitempty"` // wallet address; vazio = anônimo
	Amount      float64 `json:"amount"`
	Side        string  `json:"side"` // "yes" | "no"
	YesStake    float64 `json:"yes_stake"`
	NoStake     float64 `json:"no_stake"`
	Probability float64 `json:"probability"` // 0..100, derivada dos totais acima
	Seq         int64   `json:"seq"`         // ordem de inserção no ledger (desempate)
	TsUnixMs    int64   `json:"ts_unix_ms"`
}
