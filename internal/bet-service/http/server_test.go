package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/adabets/ada-bets-platform/internal/bet-service/dto"
	"github.com/adabets/ada-bets-platform/internal/bet-service/ingest"
	"github.com/adabets/ada-bets-platform/internal/bet-service/ledger"
)

type fakeIngestor struct {
	receipt ingest.Receipt
	err     error
}

func (f *fakeIngestor) PlaceBet(_ context.Context, _, _ string, _ float64, _ string) (ingest.Receipt, error) {
	return f.receipt, f.err
}

type fakeBets struct {
	bet      *ledger.Bet
	getErr   error
	list     []ledger.Bet
	yes, no  float64
	totalErr error
}

func (f *fakeBets) GetBet(_ context.Context, _ string) (*ledger.Bet, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.bet == nil {
		return nil, ledger.ErrBetNotFound
	}
	return f.bet, nil
}

func (f *fakeBets) ListBets(_ context.Context, _ string) ([]ledger.Bet, error) {
	return f.list, nil
}

func (f *fakeBets) CurrentTotals(_ context.Context, _ string) (float64, float64, error) {
	return f.yes, f.no, f.totalErr
}

func newTestServer(svc Ingestor) *Server {
	return NewServer(zap.NewNop(), svc, &fakeBets{}, time.Second)
}

func TestPlaceBet_OK(t *testing.T) {
	srv := newTestServer(&fakeIngestor{receipt: ingest.Receipt{
		BetID: "b1", YesStake: 10, NoStake: 30, Probability: 25.0,
	}})

	req := httptest.NewRequest("POST", "/bets",
		strings.NewReader(`{"marketId":"m1","amount":10,"side":"yes"}`))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp dto.PlaceBetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.BetID != "b1" || resp.UpdatedYesStake != 10 || resp.UpdatedNoStake != 30 || resp.ImpliedProbability != 25.0 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestPlaceBet_BadJSON(t *testing.T) {
	srv := newTestServer(&fakeIngestor{})
	req := httptest.NewRequest("POST", "/bets", strings.NewReader(`{`))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != 400 {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPlaceBet_ErrorKinds(t *testing.T) {
	cases := []struct {
		kind   ingest.Kind
		status int
	}{
		{ingest.KindValidation, 400},
		{ingest.KindMarketClosed, 409},
		{ingest.KindTimeout, 504},
		{ingest.KindPersistence, 500},
	}
	for _, c := range cases {
		srv := newTestServer(&fakeIngestor{err: &ingest.Error{Kind: c.kind, Message: "boom"}})
		req := httptest.NewRequest("POST", "/bets",
			strings.NewReader(`{"marketId":"m1","amount":10,"side":"yes"}`))
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		if rec.Code != c.status {
			t.Errorf("%s: expected %d, got %d", c.kind, c.status, rec.Code)
		}
		var er dto.ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
			t.Fatalf("%s: decode: %v", c.kind, err)
		}
		if er.Kind != string(c.kind) {
			t.Errorf("expected kind %s in body, got %s", c.kind, er.Kind)
		}
	}
}

func TestPlaceBet_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(&fakeIngestor{})
	req := httptest.NewRequest("DELETE", "/bets", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != 405 {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestGetBet_OK(t *testing.T) {
	bets := &fakeBets{bet: &ledger.Bet{
		ID: "b1", MarketID: "m1", Amount: 10, Side: "yes", Seq: 1, CreatedAt: time.Now(),
	}}
	srv := NewServer(zap.NewNop(), &fakeIngestor{}, bets, time.Second)

	req := httptest.NewRequest("GET", "/bets/b1", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp dto.BetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.BetID != "b1" || resp.MarketID != "m1" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestGetBet_NotFound(t *testing.T) {
	srv := newTestServer(&fakeIngestor{})

	req := httptest.NewRequest("GET", "/bets/missing", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != 404 {
		t.Fatalf("expected 404 for an absent bet, got %d", rec.Code)
	}
}

// Falha de storage na reconsulta não pode virar 404: o chamador concluiria
// que a aposta não existe e reenviaria, duplicando a aposta
func TestGetBet_StorageErrorIsNot404(t *testing.T) {
	bets := &fakeBets{getErr: errors.New("pq: connection refused")}
	srv := NewServer(zap.NewNop(), &fakeIngestor{}, bets, time.Second)

	req := httptest.NewRequest("GET", "/bets/b1", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != 500 {
		t.Fatalf("expected 500 for a storage failure, got %d: %s", rec.Code, rec.Body.String())
	}
	var er dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if er.Kind != string(ingest.KindPersistence) {
		t.Errorf("expected PersistenceError kind, got %s", er.Kind)
	}
}

func TestListMarketBets(t *testing.T) {
	bets := &fakeBets{
		yes: 40, no: 10,
		list: []ledger.Bet{
			{ID: "b1", MarketID: "m1", Amount: 40, Side: "yes", Seq: 1},
			{ID: "b2", MarketID: "m1", Amount: 10, Side: "no", Seq: 2},
		},
	}
	srv := NewServer(zap.NewNop(), &fakeIngestor{}, bets, time.Second)

	req := httptest.NewRequest("GET", "/bets?marketId=m1", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp dto.MarketBetsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.YesStake != 40 || resp.NoStake != 10 || len(resp.Bets) != 2 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestListMarketBets_MissingMarketID(t *testing.T) {
	srv := newTestServer(&fakeIngestor{})
	req := httptest.NewRequest("GET", "/bets", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != 400 {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListMarketBets_UnknownMarket(t *testing.T) {
	bets := &fakeBets{totalErr: ledger.ErrMarketNotFound}
	srv := NewServer(zap.NewNop(), &fakeIngestor{}, bets, time.Second)

	req := httptest.NewRequest("GET", "/bets?marketId=nope", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != 404 {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
