package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/adabets/ada-bets-platform/internal/bet-service/history"
	bhttp "github.com/adabets/ada-bets-platform/internal/bet-service/http"
	"github.com/adabets/ada-bets-platform/internal/bet-service/ingest"
	"github.com/adabets/ada-bets-platform/internal/bet-service/ledger"
	kpub "github.com/adabets/ada-bets-platform/internal/bet-service/producer"
	"github.com/adabets/ada-bets-platform/internal/shared/config"
	"github.com/adabets/ada-bets-platform/internal/shared/db"
	skafka "github.com/adabets/ada-bets-platform/internal/shared/kafka"
	"github.com/adabets/ada-bets-platform/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log, _ := logger.New("bet-service", cfg.Env)
	defer log.Sync()

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	// Kafka writer (topic bet_placed, chave = marketId)
	writer := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetPlaced)
	defer writer.Close()

	// deps
	led := ledger.NewPostgres(pg)
	hist := history.NewPostgres(pg)
	publ := kpub.NewKafkaPublisher(writer, cfg.TopicBetPlaced)
	svc := ingest.NewService(log, led, hist, publ)

	// HTTP público
	api := bhttp.NewServer(log, svc, led, cfg.RequestTimeout)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// metrics/health
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := pg.PingContext(ctx); err != nil {
			http.Error(w, "pg", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	go func() {
		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, metricsMux)
	}()

	log.Info("bet-service listening", zap.String("addr", fmt.Sprintf(":%s", cfg.HTTPPort)))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
