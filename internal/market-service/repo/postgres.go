package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Postgres implementa operações de mercados e usuários em banco
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyResolved = errors.New("market already resolved")
)

// CreateMarket insere o mercado e, havendo stake inicial, a aposta "yes" do
// criador e o incremento do total na mesma transação: os totais nunca
// divergem da soma das apostas. A primeira amostra de histórico também é
// semeada aqui para o gráfico nunca nascer vazio.
func (p *Postgres) CreateMarket(ctx context.Context, creator, title, content string, deadline time.Time, initialStake float64) (*Market, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	m := &Market{
		ID:       uuid.NewString(),
		Creator:  creator,
		Title:    title,
		Content:  content,
		Deadline: deadline,
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO markets (id, creator, title, content, yes_stake, no_stake, deadline)
		VALUES ($1,$2,$3,$4,0,0,$5)
		RETURNING created_at, updated_at`,
		m.ID, creator, title, content, deadline,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if initialStake > 0 {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO bets (id, market_id, bettor, amount, side)
			VALUES ($1,$2,$3,$4,'yes')`,
			uuid.NewString(), m.ID, creator, initialStake); err != nil {
			return nil, err
		}
		if _, err = tx.ExecContext(ctx,
			`UPDATE markets SET yes_stake = yes_stake + $1 WHERE id=$2`,
			initialStake, m.ID); err != nil {
			return nil, err
		}
		m.YesStake = initialStake
	}

	// Primeira amostra do gráfico com os totais de criação
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO market_history (market_id, yes_stake, no_stake, created_at)
		VALUES ($1,$2,$3,$4)`,
		m.ID, m.YesStake, m.NoStake, m.CreatedAt); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return m, nil
}

// GetMarket retorna um mercado pelo id
func (p *Postgres) GetMarket(ctx context.Context, id string) (*Market, error) {
	var m Market
	err := p.db.QueryRowContext(ctx, `
		SELECT id, COALESCE(creator,''), title, content, yes_stake, no_stake,
		       deadline, resolved, COALESCE(outcome,''), created_at, updated_at
		FROM markets WHERE id=$1`,
		id).Scan(&m.ID, &m.Creator, &m.Title, &m.Content, &m.YesStake, &m.NoStake,
		&m.Deadline, &m.Resolved, &m.Outcome, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByCreator retorna os mercados criados por um wallet address
func (p *Postgres) ListByCreator(ctx context.Context, creator string) ([]Market, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, COALESCE(creator,''), title, content, yes_stake, no_stake,
		       deadline, resolved, COALESCE(outcome,''), created_at, updated_at
		FROM markets
		WHERE creator=$1
		ORDER BY created_at DESC`,
		creator)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Market
	for rows.Next() {
		var m Market
		if err := rows.Scan(&m.ID, &m.Creator, &m.Title, &m.Content, &m.YesStake, &m.NoStake,
			&m.Deadline, &m.Resolved, &m.Outcome, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Resolve marca o mercado como resolvido com o desfecho dado
// Idempotente para o mesmo desfecho; resolver de novo com outro desfecho falha
func (p *Postgres) Resolve(ctx context.Context, id, outcome string) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var resolved bool
	var current sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT resolved, outcome FROM markets WHERE id=$1 FOR UPDATE`,
		id).Scan(&resolved, &current)
	if err == sql.ErrNoRows {
		return ErrNotFound
	} else if err != nil {
		return err
	}

	if resolved {
		if current.String == outcome {
			return nil // idempotente
		}
		return ErrAlreadyResolved
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE markets SET resolved=TRUE, outcome=$1, updated_at=NOW() WHERE id=$2`,
		outcome, id); err != nil {
		return err
	}

	return tx.Commit()
}

// GetOrCreateUser retorna o usuário do wallet address, criando se não existir,
// e atualiza o last_login (fluxo de conexão de carteira)
func (p *Postgres) GetOrCreateUser(ctx context.Context, walletAddress string) (*User, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var u User
	err = tx.QueryRowContext(ctx,
		`SELECT wallet_address, created_at, last_login FROM users WHERE wallet_address=$1`,
		walletAddress).Scan(&u.WalletAddress, &u.CreatedAt, &u.LastLogin)
	if err == sql.ErrNoRows {
		err = tx.QueryRowContext(ctx, `
			INSERT INTO users (wallet_address, last_login)
			VALUES ($1, NOW())
			RETURNING wallet_address, created_at, last_login`,
			walletAddress).Scan(&u.WalletAddress, &u.CreatedAt, &u.LastLogin)
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	} else {
		if err = tx.QueryRowContext(ctx, `
			UPDATE users SET last_login = NOW() WHERE wallet_address=$1
			RETURNING last_login`,
			walletAddress).Scan(&u.LastLogin); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return &u, nil
}

// TouchLastLogin atualiza o last_login de um usuário existente
func (p *Postgres) TouchLastLogin(ctx context.Context, walletAddress string) error {
	res, err := p.db.ExecContext(ctx,
		`UPDATE users SET last_login = NOW() WHERE wallet_address=$1`,
		walletAddress)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
