package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/adabets/ada-bets-platform/internal/market-service/repo"
	"github.com/adabets/ada-bets-platform/pkg/contracts/events"
)

type fakeRepo struct {
	created  *repo.Market
	resolved map[string]string
}

func (f *fakeRepo) CreateMarket(_ context.Context, creator, title, content string, deadline time.Time, initialStake float64) (*repo.Market, error) {
	f.created = &repo.Market{
		ID:        "m1",
		Creator:   creator,
		Title:     title,
		Content:   content,
		YesStake:  initialStake,
		Deadline:  deadline,
		CreatedAt: time.Now(),
	}
	return f.created, nil
}

func (f *fakeRepo) GetMarket(context.Context, string) (*repo.Market, error) {
	return nil, repo.ErrNotFound
}

func (f *fakeRepo) ListByCreator(context.Context, string) ([]repo.Market, error) {
	return nil, nil
}

func (f *fakeRepo) Resolve(_ context.Context, id, outcome string) error {
	if prev, ok := f.resolved[id]; ok && prev != outcome {
		return repo.ErrAlreadyResolved
	}
	if f.resolved == nil {
		f.resolved = map[string]string{}
	}
	f.resolved[id] = outcome
	return nil
}

func (f *fakeRepo) GetOrCreateUser(_ context.Context, addr string) (*repo.User, error) {
	return &repo.User{WalletAddress: addr, CreatedAt: time.Now(), LastLogin: time.Now()}, nil
}

func (f *fakeRepo) CreateComment(context.Context, string, string, string) (*repo.Comment, error) {
	return &repo.Comment{ID: "c1"}, nil
}

func (f *fakeRepo) ListComments(context.Context, string) ([]repo.Comment, error) {
	return nil, nil
}

func (f *fakeRepo) Vote(context.Context, string, string, string) (*repo.Comment, error) {
	return &repo.Comment{ID: "c1"}, nil
}

type fakePublisher struct{ published []events.MarketResolved }

func (f *fakePublisher) PublishMarketResolved(_ context.Context, e events.MarketResolved) error {
	f.published = append(f.published, e)
	return nil
}

func newTestServer(f *fakeRepo, p *fakePublisher) *Server {
	return NewServer(zap.NewNop(), f, p)
}

func TestParseDeadline_DateOnlyNormalizesToEndOfDay(t *testing.T) {
	d, err := parseDeadline("2026-12-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Hour() != 23 || d.Minute() != 59 || d.Second() != 59 {
		t.Errorf("expected end of day, got %v", d)
	}
	if d.Year() != 2026 || d.Month() != time.December || d.Day() != 31 {
		t.Errorf("date changed: %v", d)
	}
}

func TestParseDeadline_RFC3339KeepsDateButSnapsToEndOfDay(t *testing.T) {
	d, err := parseDeadline("2026-06-15T10:30:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Day() != 15 || d.Hour() != 23 || d.Second() != 59 {
		t.Errorf("expected 2026-06-15 23:59:59, got %v", d)
	}
}

func TestParseDeadline_Invalid(t *testing.T) {
	if _, err := parseDeadline("next tuesday"); err == nil {
		t.Fatal("expected error for unparseable deadline")
	}
}

func TestCreateMarket_RejectsPastDeadline(t *testing.T) {
	srv := newTestServer(&fakeRepo{}, &fakePublisher{})

	body := `{"title":"t","content":"c","deadline":"2020-01-01","initialStake":10,"creatorWalletAddress":"addr1"}`
	req := httptest.NewRequest(http.MethodPost, "/markets", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateMarket_OK(t *testing.T) {
	f := &fakeRepo{}
	srv := newTestServer(f, &fakePublisher{})

	body := `{"title":"Chuva amanhã?","content":"c","deadline":"2099-01-01","initialStake":25,"creatorWalletAddress":"addr1"}`
	req := httptest.NewRequest(http.MethodPost, "/markets", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if f.created == nil || f.created.YesStake != 25 {
		t.Errorf("initial stake not forwarded: %+v", f.created)
	}
	if h := f.created.Deadline.Hour(); h != 23 {
		t.Errorf("deadline not normalized to end of day: %v", f.created.Deadline)
	}
}

func TestResolveMarket_PublishesEvent(t *testing.T) {
	p := &fakePublisher{}
	srv := newTestServer(&fakeRepo{}, p)

	req := httptest.NewRequest(http.MethodPost, "/markets/m1/resolve", strings.NewReader(`{"outcome":"yes"}`))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(p.published) != 1 || p.published[0].MarketID != "m1" || p.published[0].Outcome != "yes" {
		t.Errorf("market_resolved not published: %+v", p.published)
	}
}

func TestResolveMarket_InvalidOutcome(t *testing.T) {
	srv := newTestServer(&fakeRepo{}, &fakePublisher{})

	req := httptest.NewRequest(http.MethodPost, "/markets/m1/resolve", strings.NewReader(`{"outcome":"maybe"}`))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
