package ingest

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/adabets/ada-bets-platform/internal/bet-service/ledger"
	"github.com/adabets/ada-bets-platform/internal/shared/odds"
	"github.com/adabets/ada-bets-platform/pkg/contracts/events"
)

// Ledger é o contrato mínimo que a ingestão consome do armazenamento durável
type Ledger interface {
	AppendBet(ctx context.Context, marketID, bettor string, amount float64, side string) (*ledger.Bet, float64, float64, error)
}

// HistoryLog recebe a amostra do gráfico derivada de cada aposta
type HistoryLog interface {
	Append(ctx context.Context, marketID string, yesStake, noStake float64, ts time.Time) error
}

// Publisher publica o evento bet_placed para as projeções (cache/WS)
type Publisher interface {
	PublishBetPlaced(ctx context.Context, e events.BetPlaced) error
}

// Receipt é o comprovante devolvido ao cliente com os totais pós-aposta
type Receipt struct {
	BetID       string
	YesStake    float64
	NoStake     float64
	Probability float64
}

// Service é o único caminho de mutação do core: valida, aplica a aposta no
// ledger e projeta a amostra de histórico e o evento Kafka.
type Service struct {
	log     *zap.Logger
	ledger  Ledger
	history HistoryLog
	publ    Publisher
}

func NewService(log *zap.Logger, l Ledger, h HistoryLog, p Publisher) *Service {
	return &Service{log: log, ledger: l, history: h, publ: p}
}

// PlaceBet aplica uma aposta a um mercado aberto.
//
// Depois que o AppendBet commita, a aposta está feita: falha na amostra de
// histórico ou na publicação não desfaz nada, só é logada. Um timeout depois
// do commit é desfecho desconhecido; o chamador reconsulta em vez de
// reenviar, senão duplica a aposta.
func (s *Service) PlaceBet(ctx context.Context, marketID, bettor string, amount float64, side string) (Receipt, error) {
	if marketID == "" {
		return Receipt{}, newError(KindValidation, "marketId required")
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Receipt{}, newError(KindValidation, "amount must be a positive finite number")
	}
	if side != "yes" && side != "no" {
		return Receipt{}, newError(KindValidation, "side must be \"yes\" or \"no\"")
	}

	b, yes, no, err := s.ledger.AppendBet(ctx, marketID, bettor, amount, side)
	if err != nil {
		return Receipt{}, s.classify(err)
	}

	prob := odds.ImpliedProbability(yes, no)

	// Amostra de histórico: melhor esforço, a aposta é a verdade e o gráfico
	// é projeção derivada
	if err := s.history.Append(ctx, marketID, yes, no, b.CreatedAt); err != nil {
		s.log.Warn("history sample append failed",
			zap.String("marketId", marketID),
			zap.String("betId", b.ID),
			zap.Error(err),
		)
	}

	if s.publ != nil {
		ev := events.BetPlaced{
			BetID:       b.ID,
			MarketID:    marketID,
			Bettor:      bettor,
			Amount:      amount,
			Side:        side,
			YesStake:    yes,
			NoStake:     no,
			Probability: prob,
			Seq:         b.Seq,
			TsUnixMs:    b.CreatedAt.UnixMilli(),
		}
		if err := s.publ.PublishBetPlaced(ctx, ev); err != nil {
			s.log.Warn("bet_placed publish failed", zap.String("betId", b.ID), zap.Error(err))
		}
	}

	return Receipt{BetID: b.ID, YesStake: yes, NoStake: no, Probability: prob}, nil
}

// classify traduz falhas do ledger para a taxonomia do contrato externo
func (s *Service) classify(err error) error {
	switch {
	case errors.Is(err, ledger.ErrMarketNotFound):
		return newError(KindValidation, "market not found")
	case errors.Is(err, ledger.ErrMarketClosed):
		return newError(KindMarketClosed, "market resolved or past its deadline")
	case errors.Is(err, context.DeadlineExceeded):
		return newError(KindTimeout, "storage timed out; outcome unknown, re-query before retrying")
	default:
		return newError(KindPersistence, err.Error())
	}
}
