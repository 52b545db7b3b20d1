package main

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"go.uber.org/zap"

	"github.com/adabets/ada-bets-platform/internal/shared/config"
	"github.com/adabets/ada-bets-platform/internal/shared/logger"
)

func rp(to string) *httputil.ReverseProxy {
	u, _ := url.Parse(to)
	return httputil.NewSingleHostReverseProxy(u)
}

func main() {
	cfg := config.Load()
	log, _ := logger.New("api-gateway", cfg.Env)
	defer log.Sync()

	// targets
	odds := rp(cfg.OddsServiceURL)
	market := rp(cfg.MarketServiceURL)
	bet := rp(cfg.BetServiceURL)

	mux := http.NewServeMux()

	// odds/leitura (ex.: /api/odds/v1/markets -> odds-service)
	mux.Handle("/api/odds/", http.StripPrefix("/api/odds", odds))

	// mercados, usuários e comentários (ex.: /api/markets/* -> market-service)
	mux.Handle("/api/markets", http.StripPrefix("/api", market))
	mux.Handle("/api/markets/", http.StripPrefix("/api", market))
	mux.Handle("/api/users", http.StripPrefix("/api", market))
	mux.Handle("/api/comments", http.StripPrefix("/api", market))
	mux.Handle("/api/comments/", http.StripPrefix("/api", market))

	// apostas (ex.: /api/bets/* -> bet-service)
	mux.Handle("/api/bets", http.StripPrefix("/api", bet))
	mux.Handle("/api/bets/", http.StripPrefix("/api", bet))

	// WebSocket de odds segue para o odds-service sem reescrita de path
	mux.Handle("/ws", odds)

	addr := ":" + cfg.HTTPPort
	log.Info("api-gateway listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, withCORS(mux)); err != nil && err != http.ErrServerClosed {
		log.Fatal("gateway failed", zap.Error(err))
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}
