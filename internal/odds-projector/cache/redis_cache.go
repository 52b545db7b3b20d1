package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adabets/ada-bets-platform/internal/odds-service/dto"
	"github.com/adabets/ada-bets-platform/pkg/contracts/events"
)

// RedisCache mantém as odds correntes de cada mercado no Redis
// Client: cliente Redis
// TTL: tempo de expiração dos registros
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisCache cria uma instância de cache Redis com TTL configurável
func NewRedisCache(c *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: c, TTL: ttl}
}

// key gera a chave Redis das odds correntes de um mercado; mesma chave que o
// odds-service lê no read-through
func key(marketID string) string { return "odds:market:" + marketID }

// SetCurrent armazena os totais e a probabilidade corrente de um mercado.
// Grava no formato de resposta do getCurrentOdds para o odds-service servir
// direto do cache.
func (r *RedisCache) SetCurrent(ctx context.Context, e events.OddsUpdate) error {
	o := dto.Odds{
		MarketID:           e.MarketID,
		YesStake:           e.YesStake,
		NoStake:            e.NoStake,
		ImpliedProbability: e.Probability,
	}
	b, err := json.Marshal(o)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, key(e.MarketID), b, r.TTL).Err()
}

// Invalidate remove a entrada de um mercado (ex: mercado resolvido)
func (r *RedisCache) Invalidate(ctx context.Context, marketID string) error {
	return r.Client.Del(ctx, key(marketID)).Err()
}
