package httpapi

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/adabets/ada-bets-platform/internal/odds-service/cache"
	"github.com/adabets/ada-bets-platform/internal/odds-service/dto"
	"github.com/adabets/ada-bets-platform/internal/odds-service/history"
	"github.com/adabets/ada-bets-platform/internal/odds-service/repo"
)

// API expõe os endpoints REST de consulta de mercados, odds e histórico
// Utiliza um repositório de leitura (Postgres) e cache (Redis)
type API struct {
	ReadRepo *repo.ReadRepo      // acesso ao banco de dados
	Cache    *cache.Cache        // cache de odds correntes
	Agg      *history.Aggregator // série temporal do gráfico
}

// Router retorna o roteador HTTP com os endpoints REST
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/markets", a.listMarkets)              // Lista mercados
	r.Get("/v1/markets/{id}/odds", a.getOdds)        // Odds correntes de um mercado
	r.Get("/v1/markets/{id}/history", a.getHistory)  // Série (tempo, probabilidade)
	r.Get("/v1/markets/{id}/bets", a.getRecentBets)  // Últimas apostas do mercado
	r.Get("/v1/bets/latest", a.getLatestBets)        // Últimas apostas da plataforma
	r.Get("/v1/users/{address}/bets", a.getUserBets) // Apostas de um usuário
	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// listMarkets retorna todos os mercados, mais novos primeiro
func (a *API) listMarkets(w http.ResponseWriter, r *http.Request) {
	mk, err := a.ReadRepo.ListMarkets(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, mk)
}

// getOdds retorna os totais e a probabilidade implícita, preferencialmente
// do cache (atualizado pelo odds-projector-worker a cada aposta)
func (a *API) getOdds(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var fromCache dto.Odds
	if ok, _ := a.Cache.GetOdds(r.Context(), id, &fromCache); ok {
		writeJSON(w, http.StatusOK, fromCache)
		return
	}

	od, err := a.ReadRepo.GetOddsByMarket(r.Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	_ = a.Cache.SetOdds(r.Context(), id, od, 5*time.Second) // TTL curto, projetor renova
	writeJSON(w, http.StatusOK, od)
}

// getHistory retorna a série de amostras do gráfico, oldest first
func (a *API) getHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	createdAt, err := a.ReadRepo.MarketCreatedAt(r.Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	rows, err := a.ReadRepo.HistoryRows(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, dto.History{
		MarketID: id,
		Samples:  a.Agg.Samples(id, createdAt, rows),
	})
}

// getRecentBets retorna as últimas apostas de um mercado
func (a *API) getRecentBets(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	limit := parseLimit(r, 10)

	bets, err := a.ReadRepo.RecentBets(r.Context(), id, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, formatBettors(bets))
}

// getLatestBets retorna as últimas apostas de toda a plataforma
func (a *API) getLatestBets(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 10)

	bets, err := a.ReadRepo.LatestBets(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, formatBettors(bets))
}

// getUserBets retorna as apostas de um wallet address
func (a *API) getUserBets(w http.ResponseWriter, r *http.Request) {
	addr := chi.URLParam(r, "address")

	bets, err := a.ReadRepo.UserBets(r.Context(), addr)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, bets)
}

func parseLimit(r *http.Request, def int) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			return n
		}
	}
	return def
}

// formatBettors trunca o wallet address para exibição pública
func formatBettors(bets []dto.Bet) []dto.Bet {
	for i := range bets {
		if bets[i].Bettor == "" {
			bets[i].Bettor = "Anonymous"
		} else if len(bets[i].Bettor) > 8 {
			bets[i].Bettor = bets[i].Bettor[:8] + "..."
		}
	}
	return bets
}
