package repo

import "time"

// Market é o modelo persistido no Postgres.
// yes_stake/no_stake são derivados das apostas; só mudam dentro da
// transação de ingestão (bet-service) ou do stake inicial na criação.
type Market struct {
	ID        string
	Creator   string
	Title     string
	Content   string
	YesStake  float64
	NoStake   float64
	Deadline  time.Time
	Resolved  bool
	Outcome   string // "yes" | "no" | "" (não resolvido)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// User identifica um usuário pelo wallet address.
type User struct {
	WalletAddress string
	CreatedAt     time.Time
	LastLogin     time.Time
}

// Comment é um comentário em um mercado, com contadores de votos.
type Comment struct {
	ID        string
	MarketID  string
	Author    string
	Content   string
	Upvotes   int
	Downvotes int
	CreatedAt time.Time
}
