package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	bdto "github.com/adabets/ada-bets-platform/internal/bet-service/dto"
	"github.com/adabets/ada-bets-platform/internal/shared/config"
	"github.com/adabets/ada-bets-platform/internal/shared/logger"
)

var (
	// Métricas Prometheus para monitoramento do tráfego gerado
	betsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "simulator_bets_sent_total",
		Help: "Total de apostas enviadas ao bet-service",
	}, []string{"status"})
	betLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "simulator_bet_latency_seconds",
		Help:    "Latência do POST /bets",
		Buckets: prometheus.DefBuckets,
	})
)

// Carteiras fictícias que alternam entre apostadores identificados e anônimos
var walletCatalog = []string{
	"addr1qxsimulado001",
	"addr1qxsimulado002",
	"addr1qxsimulado003",
	"addr1qxsimulado004",
	"", // aposta anônima
}

// gera número aleatório entre min e max
func rnd(min, max float64) float64 {
	return (rand.Float64() * (max - min)) + min
}

func main() {
	cfg := config.Load()
	log, err := logger.New("bet-simulator", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	rand.Seed(time.Now().UnixNano())

	prometheus.MustRegister(betsSent, betLatency)

	// Mercados alvo: ids fixos via env ou gerados na partida
	var markets []string
	if v := os.Getenv("SIM_MARKET_IDS"); v != "" {
		markets = strings.Split(v, ",")
	} else {
		for i := 0; i < 4; i++ {
			markets = append(markets, uuid.NewString())
		}
		log.Warn("SIM_MARKET_IDS not set, using random ids (bets will fail until markets exist)",
			zap.Strings("markets", markets))
	}

	interval := 3 * time.Second
	if v := os.Getenv("SIM_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			interval = d
		}
	}

	client := &http.Client{Timeout: cfg.RequestTimeout}
	betsURL := cfg.BetServiceURL + "/bets"

	// Gera e envia apostas aleatórias num ritmo fixo
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			req := bdto.PlaceBetRequest{
				MarketID:      markets[rand.Intn(len(markets))],
				BettorAddress: walletCatalog[rand.Intn(len(walletCatalog))],
				Amount:        rnd(1.0, 250.0),
				Side:          []string{"yes", "no"}[rand.Intn(2)],
			}
			b, _ := json.Marshal(req)

			start := time.Now()
			resp, err := client.Post(betsURL, "application/json", bytes.NewReader(b))
			betLatency.Observe(time.Since(start).Seconds())
			if err != nil {
				betsSent.WithLabelValues("error").Inc()
				log.Warn("bet post failed", zap.Error(err))
				continue
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()

			betsSent.WithLabelValues(fmt.Sprintf("%d", resp.StatusCode)).Inc()
			log.Debug("bet sent",
				zap.String("market_id", req.MarketID),
				zap.String("side", req.Side),
				zap.Float64("amount", req.Amount),
				zap.Int("status", resp.StatusCode),
			)
		}
	}()

	// ==== MUX DE MÉTRICAS (/healthz, /metrics)
	metricsMux := http.NewServeMux()
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	metricsMux.Handle("/metrics", promhttp.Handler())

	metricsAddr := fmt.Sprintf(":%s", cfg.MetricsPort)
	log.Info("bet simulator running",
		zap.String("addr", metricsAddr),
		zap.String("target", betsURL),
		zap.Duration("interval", interval),
	)
	if err := http.ListenAndServe(metricsAddr, metricsMux); err != nil {
		log.Fatal("metrics server error", zap.Error(err))
	}
}
