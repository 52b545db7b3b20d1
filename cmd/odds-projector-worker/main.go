package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/adabets/ada-bets-platform/internal/odds-projector/cache"
	"github.com/adabets/ada-bets-platform/internal/odds-projector/consumer"
	"github.com/adabets/ada-bets-platform/internal/odds-projector/pubsub"
	sharedcache "github.com/adabets/ada-bets-platform/internal/shared/cache"
	"github.com/adabets/ada-bets-platform/internal/shared/config"
	skafka "github.com/adabets/ada-bets-platform/internal/shared/kafka"
	"github.com/adabets/ada-bets-platform/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log, err := logger.New("odds-projector-worker", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Redis: cache de odds correntes e Pub/Sub para o WS
	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	ttl := 60 * time.Second
	rcache := cache.NewRedisCache(redisClient, ttl)
	broadcaster := pubsub.NewRedisBroadcaster(redisClient)

	// Consumers Kafka (grupo odds-projector); DLQ para mensagens indecifráveis
	betReader := skafka.NewReader(cfg.KafkaBrokers, cfg.TopicBetPlaced, "odds-projector")
	defer betReader.Close()
	resolvedReader := skafka.NewReader(cfg.KafkaBrokers, cfg.TopicMarketResolved, "odds-projector")
	defer resolvedReader.Close()
	dlq := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetPlacedDLQ)
	defer dlq.Close()

	// Métricas Prometheus para monitoramento do processamento
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "odds_projector_messages_consumed_total", Help: "mensagens consumidas"})
	cached := prometheus.NewCounter(prometheus.CounterOpts{Name: "odds_projector_cache_sets_total", Help: "sets no cache"})
	broadcasts := prometheus.NewCounter(prometheus.CounterOpts{Name: "odds_projector_broadcasts_total", Help: "broadcasts publicados"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "odds_projector_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, cached, broadcasts, errorsBy)

	proc := &consumer.Processor{
		Log:         log,
		Reader:      betReader,
		Cache:       rcache,
		Broadcaster: broadcaster,
		DLQ:         dlq,
		Channel:     cfg.RedisPubSubChannel,
		Source:      "odds-projector-worker",

		OnConsumed:  func() { consumed.Inc() },
		OnCached:    func() { cached.Inc() },
		OnBroadcast: func() { broadcasts.Inc() },
		OnError:     func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	resolvedProc := &consumer.ResolvedProcessor{
		Log:         log,
		Reader:      resolvedReader,
		Cache:       rcache,
		Broadcaster: broadcaster,
		Channel:     cfg.RedisPubSubChannel,

		OnConsumed: func() { consumed.Inc() },
		OnError:    func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	// Servidor HTTP para métricas e health check
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			if err := redisClient.Ping(ctx).Err(); err != nil {
				http.Error(w, "redis", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health listening", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, mux)
	}()

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// market_resolved roda em goroutine própria; bet_placed no loop principal
	go func() {
		if err := resolvedProc.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("resolved processor stopped with error", zap.Error(err))
		}
	}()

	log.Info("odds-projector started")
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped with error", zap.Error(err))
	}
	log.Info("odds-projector stopped")
}
