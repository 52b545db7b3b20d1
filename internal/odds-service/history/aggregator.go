package history

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/adabets/ada-bets-platform/internal/odds-service/dto"
	"github.com/adabets/ada-bets-platform/internal/shared/odds"
)

// Row é uma linha crua do log market_history, já ordenada por
// (created_at, seq) na consulta. seq desempata timestamps iguais.
type Row struct {
	YesStake  float64
	NoStake   float64
	Seq       int64
	CreatedAt time.Time
}

// Aggregator deriva a série (tempo, probabilidade) do log de amostras.
// Estratégia snapshot-log: o bet-service grava uma amostra por aposta e o
// market-service semeia a primeira na criação; aqui só lemos e validamos.
type Aggregator struct {
	log *zap.Logger
}

func NewAggregator(log *zap.Logger) *Aggregator { return &Aggregator{log: log} }

// Samples converte as linhas em pontos do gráfico, oldest first.
// Amostras corrompidas (valor fora de [0,100], stake negativo, timestamp
// regredindo) são descartadas com log: ponto errado no gráfico é pior que
// ponto ausente. Log vazio vira uma única amostra sintética de 50 na
// criação do mercado, pra sinalizar "sem informação" em vez de gráfico vazio.
func (a *Aggregator) Samples(marketID string, createdAt time.Time, rows []Row) []dto.Sample {
	out := make([]dto.Sample, 0, len(rows))
	var lastMs int64
	for _, r := range rows {
		if r.YesStake < 0 || r.NoStake < 0 {
			a.log.Warn("dropping history sample with negative stake",
				zap.String("marketId", marketID), zap.Int64("seq", r.Seq))
			continue
		}
		v := odds.ImpliedProbability(r.YesStake, r.NoStake)
		if math.IsNaN(v) || v < 0 || v > 100 {
			a.log.Warn("dropping history sample with invalid value",
				zap.String("marketId", marketID), zap.Int64("seq", r.Seq), zap.Float64("value", v))
			continue
		}
		ts := r.CreatedAt.UnixMilli()
		if len(out) > 0 && ts < lastMs {
			a.log.Warn("dropping out-of-order history sample",
				zap.String("marketId", marketID), zap.Int64("seq", r.Seq))
			continue
		}
		lastMs = ts
		out = append(out, dto.Sample{Timestamp: ts, Probability: v})
	}

	if len(out) == 0 {
		return []dto.Sample{{Timestamp: createdAt.UnixMilli(), Probability: 50.0}}
	}
	return out
}
