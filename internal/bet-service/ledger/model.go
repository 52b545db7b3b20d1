package ledger

import "time"

// Bet é o evento imutável do ledger. Nunca é editado nem removido;
// o mercado é dono do seu conjunto ordenado de apostas.
type Bet struct {
	ID        string
	MarketID  string
	Bettor    string // wallet address; vazio = anônimo
	Amount    float64
	Side      string // "yes" | "no"
	Seq       int64  // ordem de inserção; desempate quando timestamps empatam
	CreatedAt time.Time
}
