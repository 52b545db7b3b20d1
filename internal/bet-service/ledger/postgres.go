package ledger

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Postgres implementa o ledger de apostas em banco Postgres.
// Os totais agregados (yes_stake/no_stake) são denormalizados na linha do
// mercado e só mudam dentro da transação de AppendBet, então nunca divergem
// da soma das apostas além das transações em voo.
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do ledger de apostas
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

var (
	ErrMarketNotFound = errors.New("market not found")
	ErrMarketClosed   = errors.New("market closed")
	ErrBetNotFound    = errors.New("bet not found")
)

// AppendBet insere a aposta e incrementa o total do lado correspondente em
// uma única transação. O SELECT ... FOR UPDATE na linha do mercado serializa
// escritas concorrentes por mercado (sem lost update); mercados distintos
// não se bloqueiam.
//
// Retorna a aposta persistida e os totais recém-derivados (read-after-write).
func (p *Postgres) AppendBet(ctx context.Context, marketID, bettor string, amount float64, side string) (*Bet, float64, float64, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, 0, err
	}
	defer tx.Rollback()

	var resolved bool
	var deadline time.Time
	err = tx.QueryRowContext(ctx,
		`SELECT resolved, deadline FROM markets WHERE id=$1 FOR UPDATE`,
		marketID).Scan(&resolved, &deadline)
	if err == sql.ErrNoRows {
		return nil, 0, 0, ErrMarketNotFound
	} else if err != nil {
		return nil, 0, 0, err
	}

	// Enforced no servidor; o check de deadline do cliente não é confiável
	if resolved || time.Now().After(deadline) {
		return nil, 0, 0, ErrMarketClosed
	}

	b := &Bet{
		ID:       uuid.NewString(),
		MarketID: marketID,
		Bettor:   bettor,
		Amount:   amount,
		Side:     side,
	}

	var bettorArg any
	if bettor != "" {
		bettorArg = bettor
	}
	// clock_timestamp(), não now(): now() é o início da transação, e uma
	// aposta que esperou no lock ficaria com created_at anterior ao da que
	// commitou antes dela, invertendo a ordem da série do gráfico
	err = tx.QueryRowContext(ctx, `
		INSERT INTO bets (id, market_id, bettor, amount, side, created_at)
		VALUES ($1,$2,$3,$4,$5, clock_timestamp())
		RETURNING seq, created_at`,
		b.ID, marketID, bettorArg, amount, side,
	).Scan(&b.Seq, &b.CreatedAt)
	if err != nil {
		return nil, 0, 0, err
	}

	column := "yes_stake"
	if side == "no" {
		column = "no_stake"
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE markets SET `+column+` = `+column+` + $1, updated_at = NOW() WHERE id=$2`,
		amount, marketID); err != nil {
		return nil, 0, 0, err
	}

	var yes, no float64
	if err = tx.QueryRowContext(ctx,
		`SELECT yes_stake, no_stake FROM markets WHERE id=$1`,
		marketID).Scan(&yes, &no); err != nil {
		return nil, 0, 0, err
	}

	if err = tx.Commit(); err != nil {
		return nil, 0, 0, err
	}
	return b, yes, no, nil
}

// CurrentTotals retorna os totais agregados correntes do mercado
func (p *Postgres) CurrentTotals(ctx context.Context, marketID string) (yes, no float64, err error) {
	err = p.db.QueryRowContext(ctx,
		`SELECT yes_stake, no_stake FROM markets WHERE id=$1`,
		marketID).Scan(&yes, &no)
	if err == sql.ErrNoRows {
		return 0, 0, ErrMarketNotFound
	}
	return yes, no, err
}

// ListBets retorna as apostas de um mercado em ordem de tempo de evento,
// com desempate determinístico por seq para timestamps iguais
func (p *Postgres) ListBets(ctx context.Context, marketID string) ([]Bet, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, market_id, COALESCE(bettor,''), amount, side, seq, created_at
		FROM bets
		WHERE market_id=$1
		ORDER BY created_at, seq`,
		marketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Bet
	for rows.Next() {
		var b Bet
		if err := rows.Scan(&b.ID, &b.MarketID, &b.Bettor, &b.Amount, &b.Side, &b.Seq, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetBet retorna uma aposta pelo id. Ausência e falha de storage são erros
// distintos: este é o caminho de reconsulta pós-timeout, e "não achei"
// durante uma indisponibilidade não pode parecer "a aposta não existe".
func (p *Postgres) GetBet(ctx context.Context, betID string) (*Bet, error) {
	var b Bet
	err := p.db.QueryRowContext(ctx, `
		SELECT id, market_id, COALESCE(bettor,''), amount, side, seq, created_at
		FROM bets WHERE id=$1`,
		betID).Scan(&b.ID, &b.MarketID, &b.Bettor, &b.Amount, &b.Side, &b.Seq, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrBetNotFound
	} else if err != nil {
		return nil, err
	}
	return &b, nil
}
