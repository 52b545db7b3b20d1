package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/adabets/ada-bets-platform/internal/odds-projector/cache"
	"github.com/adabets/ada-bets-platform/internal/odds-projector/pubsub"
	skafka "github.com/adabets/ada-bets-platform/internal/shared/kafka"
	"github.com/adabets/ada-bets-platform/pkg/contracts/events"
)

// Processor consome eventos bet_placed, atualiza o cache de odds correntes
// e publica a atualização no Redis Pub/Sub para o WebSocket do odds-service.
// Mensagens indecifráveis vão para a DLQ em vez de travar a partição.
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa.
type Processor struct {
	Log         *zap.Logger
	Reader      *kafka.Reader
	Cache       *cache.RedisCache
	Broadcaster *pubsub.RedisBroadcaster
	DLQ         *kafka.Writer // opcional
	Channel     string        // canal Redis Pub/Sub
	Source      string        // nome do serviço, carimbado no OddsUpdate

	OnConsumed  func()       // métricas (counter++)
	OnCached    func()       // métricas
	OnBroadcast func()       // métricas
	OnError     func(string) // métricas por fase
}

// Run inicia o loop principal de consumo e projeção dos eventos bet_placed
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("read")
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed() // callback de métrica: mensagem consumida
		}

		var ev events.BetPlaced
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			p.Log.Warn("invalid bet_placed message", zap.Error(err))
			if p.OnError != nil {
				p.OnError("decode")
			}
			p.toDLQ(ctx, m)
			continue
		}

		upd := events.OddsUpdate{
			MarketID:    ev.MarketID,
			YesStake:    ev.YesStake,
			NoStake:     ev.NoStake,
			Probability: ev.Probability,
			Seq:         ev.Seq,
			UpdatedAt:   time.UnixMilli(ev.TsUnixMs).UTC(),
			Source:      p.Source,
		}

		// Atualiza cache Redis com as odds correntes do mercado
		if err := p.Cache.SetCurrent(ctx, upd); err != nil {
			p.Log.Warn("redis set failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("cache")
			}
			// não bloqueia o broadcast se falhar o cache
		} else if p.OnCached != nil {
			p.OnCached() // callback de métrica: cache atualizado
		}

		// Publica a atualização no canal do WebSocket
		msg := pubsub.WSUpdate{MarketID: ev.MarketID, Payload: upd}
		b, _ := json.Marshal(msg)
		if err := p.Broadcaster.Publish(ctx, p.Channel, b); err != nil {
			p.Log.Warn("ws broadcast publish failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("broadcast")
			}
			continue
		}
		if p.OnBroadcast != nil {
			p.OnBroadcast() // callback de métrica: broadcast publicado
		}
	}
}

// toDLQ encaminha a mensagem crua para a DLQ, se configurada
func (p *Processor) toDLQ(ctx context.Context, m kafka.Message) {
	if p.DLQ == nil {
		return
	}
	if err := skafka.WriteJSON(ctx, p.DLQ, string(m.Key), m.Value); err != nil {
		p.Log.Error("dlq write failed", zap.Error(err))
		if p.OnError != nil {
			p.OnError("dlq")
		}
	}
}

// ResolvedProcessor consome market_resolved: invalida o cache de odds e
// avisa os clientes WebSocket inscritos no mercado.
type ResolvedProcessor struct {
	Log         *zap.Logger
	Reader      *kafka.Reader
	Cache       *cache.RedisCache
	Broadcaster *pubsub.RedisBroadcaster
	Channel     string

	OnConsumed func()
	OnError    func(string)
}

// Run inicia o loop de consumo de resoluções de mercado
func (p *ResolvedProcessor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("read")
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed()
		}

		var ev events.MarketResolved
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			p.Log.Warn("invalid market_resolved message", zap.Error(err))
			if p.OnError != nil {
				p.OnError("decode")
			}
			continue
		}

		if err := p.Cache.Invalidate(ctx, ev.MarketID); err != nil {
			p.Log.Warn("cache invalidate failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("cache")
			}
		}

		msg := pubsub.WSUpdate{MarketID: ev.MarketID, Payload: ev}
		b, _ := json.Marshal(msg)
		if err := p.Broadcaster.Publish(ctx, p.Channel, b); err != nil {
			p.Log.Warn("resolved broadcast publish failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("broadcast")
			}
		}
	}
}
