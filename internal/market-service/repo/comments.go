package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
)

// CreateComment insere um comentário em um mercado
func (p *Postgres) CreateComment(ctx context.Context, marketID, author, content string) (*Comment, error) {
	c := &Comment{
		ID:       uuid.NewString(),
		MarketID: marketID,
		Author:   author,
		Content:  content,
	}
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO comments (id, market_id, author, content)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at`,
		c.ID, marketID, author, content,
	).Scan(&c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListComments retorna os comentários de um mercado, mais novos primeiro
func (p *Postgres) ListComments(ctx context.Context, marketID string) ([]Comment, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, market_id, author, content, upvotes, downvotes, created_at
		FROM comments
		WHERE market_id=$1
		ORDER BY created_at DESC`,
		marketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.MarketID, &c.Author, &c.Content,
			&c.Upvotes, &c.Downvotes, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Vote registra o voto de um usuário em um comentário, garantindo no máximo
// um voto ativo por votante: trocar de up para down remove o up anterior.
// O FOR UPDATE serializa votos concorrentes no mesmo comentário.
func (p *Postgres) Vote(ctx context.Context, commentID, voter, vote string) (*Comment, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var c Comment
	var votersRaw []byte
	err = tx.QueryRowContext(ctx, `
		SELECT id, market_id, author, content, upvotes, downvotes, voters, created_at
		FROM comments WHERE id=$1 FOR UPDATE`,
		commentID).Scan(&c.ID, &c.MarketID, &c.Author, &c.Content,
		&c.Upvotes, &c.Downvotes, &votersRaw, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	voters := map[string]string{}
	if len(votersRaw) > 0 {
		if err := json.Unmarshal(votersRaw, &voters); err != nil {
			return nil, err
		}
	}

	c.Upvotes, c.Downvotes = applyVote(voters, c.Upvotes, c.Downvotes, voter, vote)

	updated, err := json.Marshal(voters)
	if err != nil {
		return nil, err
	}
	if _, err = tx.ExecContext(ctx, `
		UPDATE comments SET upvotes=$1, downvotes=$2, voters=$3, updated_at=NOW()
		WHERE id=$4`,
		c.Upvotes, c.Downvotes, updated, commentID); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return &c, nil
}

// applyVote aplica o voto aos contadores, removendo antes o efeito do voto
// anterior do mesmo votante. Muta o mapa voters.
func applyVote(voters map[string]string, upvotes, downvotes int, voter, vote string) (int, int) {
	switch voters[voter] {
	case "up":
		upvotes--
	case "down":
		downvotes--
	}
	switch vote {
	case "up":
		upvotes++
	case "down":
		downvotes++
	}
	voters[voter] = vote
	return upvotes, downvotes
}
