package history

import (
	"context"
	"database/sql"
	"time"
)

// Postgres grava o log append-only de amostras de odds (market_history).
// bet-service é o único escritor; o odds-service apenas lê. Misturar replay
// e snapshot sem reconciliação produz gráficos divergentes.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// Append registra os totais correntes como uma amostra do gráfico.
// A amostra armazena os totais, não o percentual: o valor é derivado na
// leitura, junto com a validação de invariantes.
func (p *Postgres) Append(ctx context.Context, marketID string, yesStake, noStake float64, ts time.Time) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO market_history (market_id, yes_stake, no_stake, created_at)
		VALUES ($1,$2,$3,$4)`,
		marketID, yesStake, noStake, ts)
	return err
}
