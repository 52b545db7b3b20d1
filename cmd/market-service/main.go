package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	mhttp "github.com/adabets/ada-bets-platform/internal/market-service/http"
	mpub "github.com/adabets/ada-bets-platform/internal/market-service/producer"
	mrepo "github.com/adabets/ada-bets-platform/internal/market-service/repo"
	"github.com/adabets/ada-bets-platform/internal/shared/config"
	"github.com/adabets/ada-bets-platform/internal/shared/db"
	skafka "github.com/adabets/ada-bets-platform/internal/shared/kafka"
	"github.com/adabets/ada-bets-platform/internal/shared/logger"
	"github.com/adabets/ada-bets-platform/internal/shared/metrics"
)

func main() {
	cfg := config.Load()

	// Inicializa logger estruturado
	log, err := logger.New("market-service", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("service", "market-service"), zap.String("env", cfg.Env))

	// Conexão com Postgres para mercados, usuários e comentários
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	// Writer Kafka para eventos market_resolved
	writer := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicMarketResolved)
	defer writer.Close()

	// Instancia repositório, publisher e servidor HTTP
	repo := mrepo.NewPostgres(pg)
	publ := mpub.NewKafkaPublisher(writer, cfg.TopicMarketResolved)
	api := mhttp.NewServer(log, repo, publ)

	// Servidor HTTP público (API de mercados)
	apiSrv := &http.Server{
		Addr:    ":" + cfg.HTTPPort, // ex: 8082
		Handler: api.Router(),
	}

	// Servidor de métricas e health check (goroutine própria)
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})
	log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))

	// Inicia servidor principal da API de mercados
	log.Info("api listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api srv", zap.Error(err))
	}
}
