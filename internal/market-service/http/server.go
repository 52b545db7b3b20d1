package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/adabets/ada-bets-platform/internal/market-service/dto"
	"github.com/adabets/ada-bets-platform/internal/market-service/repo"
	"github.com/adabets/ada-bets-platform/pkg/contracts/events"
)

// Repo define a interface de operações de mercados/usuários/comentários
// usadas pelo handler HTTP
type Repo interface {
	CreateMarket(ctx context.Context, creator, title, content string, deadline time.Time, initialStake float64) (*repo.Market, error)
	GetMarket(ctx context.Context, id string) (*repo.Market, error)
	ListByCreator(ctx context.Context, creator string) ([]repo.Market, error)
	Resolve(ctx context.Context, id, outcome string) error
	GetOrCreateUser(ctx context.Context, walletAddress string) (*repo.User, error)
	CreateComment(ctx context.Context, marketID, author, content string) (*repo.Comment, error)
	ListComments(ctx context.Context, marketID string) ([]repo.Comment, error)
	Vote(ctx context.Context, commentID, voter, vote string) (*repo.Comment, error)
}

// Server expõe endpoints HTTP para criação e gestão de mercados
type Server struct {
	log  *zap.Logger
	repo Repo
	publ interface {
		PublishMarketResolved(context.Context, events.MarketResolved) error
	}
}

// NewServer instancia o servidor HTTP de mercados
func NewServer(log *zap.Logger, repo Repo, p interface {
	PublishMarketResolved(context.Context, events.MarketResolved) error
}) *Server {
	return &Server{log: log, repo: repo, publ: p}
}

// Router retorna o mux HTTP com as rotas da API de mercados
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/markets", s.markets)        // POST cria, GET ?creator=...
	mux.HandleFunc("/markets/", s.marketByID)    // GET /markets/{id}, POST /markets/{id}/resolve
	mux.HandleFunc("/users", s.connectUser)      // POST
	mux.HandleFunc("/comments", s.comments)      // POST cria, GET ?marketId=...
	mux.HandleFunc("/comments/vote", s.voteComm) // POST
	return mux
}

func (s *Server) markets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createMarket(w, r)
	case http.MethodGet:
		s.listMarkets(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// createMarket cria um mercado; deadline é normalizada para o fim do dia
func (s *Server) createMarket(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMarketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.Content == "" || req.Deadline == "" || req.InitialStake < 0 {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		http.Error(w, "invalid deadline", http.StatusBadRequest)
		return
	}
	if deadline.Before(time.Now()) {
		http.Error(w, "deadline in the past", http.StatusBadRequest)
		return
	}

	m, err := s.repo.CreateMarket(r.Context(), req.CreatorWalletAddress, req.Title, req.Content, deadline, req.InitialStake)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, marketResponse(m))
}

// listMarkets retorna os mercados de um criador
func (s *Server) listMarkets(w http.ResponseWriter, r *http.Request) {
	creator := r.URL.Query().Get("creator")
	if creator == "" {
		http.Error(w, "creator required", http.StatusBadRequest)
		return
	}
	ms, err := s.repo.ListByCreator(r.Context(), creator)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]dto.MarketResponse, 0, len(ms))
	for i := range ms {
		out = append(out, marketResponse(&ms[i]))
	}
	writeJSON(w, out)
}

// marketByID trata GET /markets/{id} e POST /markets/{id}/resolve
func (s *Server) marketByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/markets/")
	if rest == "" {
		http.Error(w, "marketId required", http.StatusBadRequest)
		return
	}

	if id, ok := strings.CutSuffix(rest, "/resolve"); ok {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.resolveMarket(w, r, id)
		return
	}

	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	m, err := s.repo.GetMarket(r.Context(), rest)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			http.Error(w, "market not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, marketResponse(m))
}

// resolveMarket marca o desfecho de um mercado e publica market_resolved
func (s *Server) resolveMarket(w http.ResponseWriter, r *http.Request, id string) {
	var req dto.ResolveMarketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.Outcome != "yes" && req.Outcome != "no" {
		http.Error(w, "outcome must be \"yes\" or \"no\"", http.StatusBadRequest)
		return
	}

	if err := s.repo.Resolve(r.Context(), id, req.Outcome); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			http.Error(w, "market not found", http.StatusNotFound)
		case errors.Is(err, repo.ErrAlreadyResolved):
			http.Error(w, "market already resolved", http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	s.log.Info("market resolved", zap.String("market_id", id), zap.String("outcome", req.Outcome))

	if s.publ != nil {
		if err := s.publ.PublishMarketResolved(r.Context(), events.MarketResolved{
			MarketID: id,
			Outcome:  req.Outcome,
			Ts:       time.Now().UTC(),
		}); err != nil {
			s.log.Warn("market_resolved publish failed", zap.String("market_id", id), zap.Error(err))
		}
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"RESOLVED"}`))
}

// connectUser cria (ou retorna) o usuário do wallet e atualiza o last_login
func (s *Server) connectUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.ConnectUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.WalletAddress == "" {
		http.Error(w, "walletAddress required", http.StatusBadRequest)
		return
	}
	u, err := s.repo.GetOrCreateUser(r.Context(), req.WalletAddress)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, dto.UserResponse{
		WalletAddress: u.WalletAddress,
		CreatedAt:     u.CreatedAt,
		LastLogin:     u.LastLogin,
	})
}

func (s *Server) comments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createComment(w, r)
	case http.MethodGet:
		s.listComments(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.MarketID == "" || req.Content == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	c, err := s.repo.CreateComment(r.Context(), req.MarketID, req.Author, req.Content)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, commentResponse(c))
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	marketID := r.URL.Query().Get("marketId")
	if marketID == "" {
		http.Error(w, "marketId required", http.StatusBadRequest)
		return
	}
	cs, err := s.repo.ListComments(r.Context(), marketID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]dto.CommentResponse, 0, len(cs))
	for i := range cs {
		out = append(out, commentResponse(&cs[i]))
	}
	writeJSON(w, out)
}

// voteComm registra o voto de um usuário, no máximo um voto ativo por votante
func (s *Server) voteComm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.VoteCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.CommentID == "" || req.VoterAddress == "" || (req.Vote != "up" && req.Vote != "down") {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	c, err := s.repo.Vote(r.Context(), req.CommentID, req.VoterAddress, req.Vote)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			http.Error(w, "comment not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, commentResponse(c))
}

// parseDeadline aceita data simples ou RFC3339 e normaliza para o fim do dia,
// enforced aqui no servidor (o check do cliente não conta)
func parseDeadline(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, err
		}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location()), nil
}

func marketResponse(m *repo.Market) dto.MarketResponse {
	return dto.MarketResponse{
		MarketID:  m.ID,
		Creator:   m.Creator,
		Title:     m.Title,
		Content:   m.Content,
		YesStake:  m.YesStake,
		NoStake:   m.NoStake,
		Deadline:  m.Deadline,
		Resolved:  m.Resolved,
		Outcome:   m.Outcome,
		CreatedAt: m.CreatedAt,
	}
}

func commentResponse(c *repo.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		CommentID: c.ID,
		MarketID:  c.MarketID,
		Author:    c.Author,
		Content:   c.Content,
		Upvotes:   c.Upvotes,
		Downvotes: c.Downvotes,
		CreatedAt: c.CreatedAt,
	}
}

// writeJSON serializa e envia resposta JSON
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
