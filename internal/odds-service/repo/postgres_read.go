package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/adabets/ada-bets-platform/internal/odds-service/dto"
	"github.com/adabets/ada-bets-platform/internal/odds-service/history"
	"github.com/adabets/ada-bets-platform/internal/shared/odds"
)

type ReadRepo struct {
	DB *sql.DB
}

const tsFormat = `YYYY-MM-DD"T"HH24:MI:SSZ`

func (r *ReadRepo) ListMarkets(ctx context.Context) ([]dto.Market, error) {
	const q = `
		SELECT id, title, content, COALESCE(creator,''), yes_stake, no_stake,
		       to_char(deadline, '` + tsFormat + `'),
		       resolved, COALESCE(outcome,''),
		       to_char(created_at, '` + tsFormat + `')
		FROM markets
		ORDER BY created_at DESC;
	`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []dto.Market
	for rows.Next() {
		var m dto.Market
		if err := rows.Scan(&m.MarketID, &m.Title, &m.Content, &m.Creator,
			&m.YesStake, &m.NoStake, &m.Deadline, &m.Resolved, &m.Outcome, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.ImpliedProbability = odds.ImpliedProbability(m.YesStake, m.NoStake)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *ReadRepo) GetOddsByMarket(ctx context.Context, marketID string) (dto.Odds, error) {
	var o dto.Odds
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, yes_stake, no_stake FROM markets WHERE id = $1`,
		marketID).Scan(&o.MarketID, &o.YesStake, &o.NoStake)
	if err != nil {
		return dto.Odds{}, err
	}
	o.ImpliedProbability = odds.ImpliedProbability(o.YesStake, o.NoStake)
	return o, nil
}

func (r *ReadRepo) MarketCreatedAt(ctx context.Context, marketID string) (time.Time, error) {
	var t time.Time
	err := r.DB.QueryRowContext(ctx,
		`SELECT created_at FROM markets WHERE id = $1`, marketID).Scan(&t)
	return t, err
}

// HistoryRows retorna o log de amostras em ordem de emissão, com desempate
// determinístico por seq para timestamps iguais
func (r *ReadRepo) HistoryRows(ctx context.Context, marketID string) ([]history.Row, error) {
	const q = `
		SELECT yes_stake, no_stake, id, created_at
		FROM market_history
		WHERE market_id = $1
		ORDER BY created_at, id;
	`
	rows, err := r.DB.QueryContext(ctx, q, marketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []history.Row
	for rows.Next() {
		var h history.Row
		if err := rows.Scan(&h.YesStake, &h.NoStake, &h.Seq, &h.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// RecentBets retorna as últimas apostas de um mercado, mais novas primeiro
func (r *ReadRepo) RecentBets(ctx context.Context, marketID string, limit int) ([]dto.Bet, error) {
	const q = `
		SELECT id, market_id, COALESCE(bettor,''), amount, side,
		       to_char(created_at, '` + tsFormat + `')
		FROM bets
		WHERE market_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT $2;
	`
	return r.scanBets(ctx, q, marketID, limit)
}

// LatestBets retorna as últimas apostas da plataforma, com título do mercado
func (r *ReadRepo) LatestBets(ctx context.Context, limit int) ([]dto.Bet, error) {
	const q = `
		SELECT b.id, b.market_id, COALESCE(b.bettor,''), b.amount, b.side,
		       to_char(b.created_at, '` + tsFormat + `'),
		       m.title
		FROM bets b
		JOIN markets m ON m.id = b.market_id
		ORDER BY b.created_at DESC, b.seq DESC
		LIMIT $1;
	`
	rows, err := r.DB.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []dto.Bet
	for rows.Next() {
		var b dto.Bet
		if err := rows.Scan(&b.BetID, &b.MarketID, &b.Bettor, &b.Amount, &b.Side, &b.CreatedAt, &b.MarketTitle); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UserBets retorna as apostas de um bettor, mais novas primeiro
func (r *ReadRepo) UserBets(ctx context.Context, bettor string) ([]dto.Bet, error) {
	const q = `
		SELECT b.id, b.market_id, COALESCE(b.bettor,''), b.amount, b.side,
		       to_char(b.created_at, '` + tsFormat + `'),
		       m.title
		FROM bets b
		JOIN markets m ON m.id = b.market_id
		WHERE b.bettor = $1
		ORDER BY b.created_at DESC, b.seq DESC;
	`
	rows, err := r.DB.QueryContext(ctx, q, bettor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []dto.Bet
	for rows.Next() {
		var b dto.Bet
		if err := rows.Scan(&b.BetID, &b.MarketID, &b.Bettor, &b.Amount, &b.Side, &b.CreatedAt, &b.MarketTitle); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *ReadRepo) scanBets(ctx context.Context, q string, args ...any) ([]dto.Bet, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []dto.Bet
	for rows.Next() {
		var b dto.Bet
		if err := rows.Scan(&b.BetID, &b.MarketID, &b.Bettor, &b.Amount, &b.Side, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
