package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/adabets/ada-bets-platform/internal/bet-service/dto"
	"github.com/adabets/ada-bets-platform/internal/bet-service/ingest"
	"github.com/adabets/ada-bets-platform/internal/bet-service/ledger"
)

// Ingestor é o serviço de ingestão consumido pelo handler HTTP
type Ingestor interface {
	PlaceBet(ctx context.Context, marketID, bettor string, amount float64, side string) (ingest.Receipt, error)
}

// BetReader resolve consultas no ledger: aposta por id, apostas e totais
// por mercado (caminho de reconsulta após TimeoutError)
type BetReader interface {
	GetBet(ctx context.Context, betID string) (*ledger.Bet, error)
	ListBets(ctx context.Context, marketID string) ([]ledger.Bet, error)
	CurrentTotals(ctx context.Context, marketID string) (yes, no float64, err error)
}

type Server struct {
	log     *zap.Logger
	svc     Ingestor
	bets    BetReader
	timeout time.Duration
}

func NewServer(log *zap.Logger, svc Ingestor, bets BetReader, timeout time.Duration) *Server {
	return &Server{log: log, svc: svc, bets: bets, timeout: timeout}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/bets", s.handleBets) // POST cria, GET ?marketId=...
	mux.HandleFunc("/bets/", s.getBet) // GET /bets/{id}
	return mux
}

func (s *Server) handleBets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.placeBet(w, r)
	case http.MethodGet:
		s.listMarketBets(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ingest.KindValidation, "bad json")
		return
	}

	// Timeout do chamador: placeBet nunca bloqueia indefinidamente
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	receipt, err := s.svc.PlaceBet(ctx, req.MarketID, req.BettorAddress, req.Amount, req.Side)
	if err != nil {
		s.writeIngestError(w, err)
		return
	}

	writeJSON(w, dto.PlaceBetResponse{
		BetID:              receipt.BetID,
		UpdatedYesStake:    receipt.YesStake,
		UpdatedNoStake:     receipt.NoStake,
		ImpliedProbability: receipt.Probability,
	})
}

func (s *Server) getBet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	// path: /bets/{id}
	id := r.URL.Path[len("/bets/"):]
	if id == "" {
		writeError(w, http.StatusBadRequest, ingest.KindValidation, "betId required")
		return
	}

	// Caminho de reconsulta pós-timeout: 404 só quando a aposta
	// comprovadamente não existe, senão o chamador reenvia e duplica
	b, err := s.bets.GetBet(r.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrBetNotFound) {
			writeError(w, http.StatusNotFound, ingest.KindValidation, "bet not found")
			return
		}
		writeError(w, http.StatusInternalServerError, ingest.KindPersistence, err.Error())
		return
	}

	writeJSON(w, dto.BetResponse{
		BetID:     b.ID,
		MarketID:  b.MarketID,
		Bettor:    b.Bettor,
		Amount:    b.Amount,
		Side:      b.Side,
		CreatedAt: b.CreatedAt,
	})
}

// listMarketBets retorna o log de apostas e os totais correntes de um
// mercado, em ordem de ingestão
func (s *Server) listMarketBets(w http.ResponseWriter, r *http.Request) {
	marketID := r.URL.Query().Get("marketId")
	if marketID == "" {
		writeError(w, http.StatusBadRequest, ingest.KindValidation, "marketId required")
		return
	}

	yes, no, err := s.bets.CurrentTotals(r.Context(), marketID)
	if err != nil {
		if errors.Is(err, ledger.ErrMarketNotFound) {
			writeError(w, http.StatusNotFound, ingest.KindValidation, "market not found")
			return
		}
		writeError(w, http.StatusInternalServerError, ingest.KindPersistence, err.Error())
		return
	}

	list, err := s.bets.ListBets(r.Context(), marketID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ingest.KindPersistence, err.Error())
		return
	}

	resp := dto.MarketBetsResponse{MarketID: marketID, YesStake: yes, NoStake: no}
	for _, b := range list {
		resp.Bets = append(resp.Bets, dto.BetResponse{
			BetID:     b.ID,
			MarketID:  b.MarketID,
			Bettor:    b.Bettor,
			Amount:    b.Amount,
			Side:      b.Side,
			CreatedAt: b.CreatedAt,
		})
	}
	writeJSON(w, resp)
}

// writeIngestError mapeia a taxonomia de erros da ingestão para HTTP
func (s *Server) writeIngestError(w http.ResponseWriter, err error) {
	kind := ingest.KindOf(err)
	var status int
	switch kind {
	case ingest.KindValidation:
		status = http.StatusBadRequest
	case ingest.KindMarketClosed:
		status = http.StatusConflict
	case ingest.KindTimeout:
		status = http.StatusGatewayTimeout
	default:
		kind = ingest.KindPersistence
		status = http.StatusInternalServerError
	}
	msg := err.Error()
	var ie *ingest.Error
	if errors.As(err, &ie) {
		msg = ie.Message
	}
	writeError(w, status, kind, msg)
}

func writeError(w http.ResponseWriter, status int, kind ingest.Kind, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Kind: string(kind), Message: msg})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
