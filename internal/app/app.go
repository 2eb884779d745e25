// Package app assembles the registry service and its infrastructure from
// configuration. cmd/server and cmd/seed share it so both talk to the same
// backend the same way.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	jwttoken "secreg/internal/jwt_token"
	"secreg/internal/platform/config"
	httpmetrics "secreg/internal/platform/metrics"
	platformpg "secreg/internal/platform/postgres"
	platformredis "secreg/internal/platform/redis"
	"secreg/internal/registry/handler"
	registrymetrics "secreg/internal/registry/metrics"
	"secreg/internal/registry/service"
	"secreg/internal/registry/store/memory"
	pgstore "secreg/internal/registry/store/postgres"
	"secreg/pkg/platform/events"
	"secreg/pkg/platform/events/publisher"
	"secreg/pkg/platform/events/relay"
	"secreg/pkg/platform/events/sink/redisstream"
	eventsmemory "secreg/pkg/platform/events/store/memory"
	eventspg "secreg/pkg/platform/events/store/postgres"
	"secreg/pkg/platform/httputil"
	"secreg/pkg/platform/middleware/admin"
)

const healthCheckTimeout = 2 * time.Second

// eventStore is both ends of the event log: the publisher appends, the relay drains.
type eventStore interface {
	events.Store
	events.Outbox
}

// App is a fully wired registry.
type App struct {
	Config    config.Server
	Logger    *slog.Logger
	Service   *service.Service
	Publisher *publisher.Publisher
	Tokens    *jwttoken.JWTService
	Router    http.Handler
	// Relay is nil when no event destination is configured.
	Relay *relay.Relay

	registry *prometheus.Registry
	db       *sql.DB
	redis    *platformredis.Client
	kafka    *kgo.Client
}

// Build connects every configured backend and wires the service, the HTTP
// router and the outbox relay. On error everything opened so far is closed.
func Build(ctx context.Context, cfg config.Server, logger *slog.Logger) (_ *App, err error) {
	a := &App{
		Config:   cfg,
		Logger:   logger,
		Tokens:   jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer),
		registry: prometheus.NewRegistry(),
	}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	tx, store, err := a.openBackend(ctx)
	if err != nil {
		return nil, err
	}
	a.Publisher = publisher.NewPublisher(store, publisher.WithLogger(logger))

	a.Service, err = service.New(tx,
		service.WithLogger(logger),
		service.WithEventPublisher(a.Publisher),
		service.WithMetrics(registrymetrics.NewWith(a.registry)),
		service.WithPolicy(service.Policy{
			VerifierNameScope:         service.VerifierNameScope(cfg.Policy.VerifierNameScope),
			MintWithReservation:       cfg.Policy.MintWithReservation,
			StrictCompanyRegistration: cfg.Policy.StrictCompanyRegistration,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("build registry service: %w", err)
	}

	destinations, err := a.openDestinations(ctx)
	if err != nil {
		return nil, err
	}
	if len(destinations) > 0 {
		a.Relay, err = relay.New(store, destinations,
			relay.WithInterval(cfg.Relay.Interval),
			relay.WithBatchSize(cfg.Relay.BatchSize),
			relay.WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("build event relay: %w", err)
		}
	}

	a.Router = a.router()
	return a, nil
}

func (a *App) openBackend(ctx context.Context) (service.StoreTx, eventStore, error) {
	switch a.Config.Backend {
	case config.BackendPostgres:
		db, err := platformpg.Open(ctx, a.Config.Database)
		if err != nil {
			return nil, nil, err
		}
		a.db = db
		if a.Config.Database.MigrateOnStart {
			if err := platformpg.Migrate(ctx, db); err != nil {
				return nil, nil, err
			}
		}
		a.Logger.InfoContext(ctx, "using postgres backend")
		stores := service.StoresOf(pgstore.NewPostgres(db))
		return pgstore.NewTx(db, stores), eventspg.New(db), nil
	default:
		a.Logger.InfoContext(ctx, "using in-memory backend")
		stores := service.StoresOf(memory.New())
		return service.NewInMemoryTx(stores), eventsmemory.NewInMemoryStore(), nil
	}
}

func (a *App) openDestinations(ctx context.Context) ([]relay.Destination, error) {
	var destinations []relay.Destination

	if len(a.Config.Kafka.Brokers) > 0 {
		client, err := kgo.NewClient(
			kgo.SeedBrokers(a.Config.Kafka.Brokers...),
			kgo.ProducerBatchCompression(kgo.SnappyCompression()),
			kgo.RequiredAcks(kgo.AllISRAcks()),
		)
		if err != nil {
			return nil, fmt.Errorf("kafka client: %w", err)
		}
		a.kafka = client
		kafka := a.Config.Kafka
		if err := relay.EnsureTopic(ctx, kadm.NewClient(client), kafka.Topic, kafka.Partitions, kafka.ReplicationFactor); err != nil {
			return nil, err
		}
		destinations = append(destinations, relay.NewKafkaDestination(client, kafka.Topic))
		a.Logger.InfoContext(ctx, "relaying events to kafka", "topic", kafka.Topic)
	}

	client, err := platformredis.New(ctx, a.Config.Redis)
	if err != nil {
		return nil, err
	}
	if client != nil {
		a.redis = client
		destinations = append(destinations, redisstream.New(client, a.Config.Redis.Stream, a.Config.Redis.StreamMaxLen))
		a.Logger.InfoContext(ctx, "relaying events to redis stream", "stream", a.Config.Redis.Stream)
	}

	return destinations, nil
}

func (a *App) router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", a.handleHealth)
	r.With(admin.RequireAdminToken(a.Config.Auth.AdminToken, a.Logger)).
		Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

	handler.New(a.Service, a.Publisher, a.Logger, httpmetrics.NewWith(a.registry), a.Tokens).Register(r)
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	checks := map[string]string{}
	healthy := true
	check := func(name string, fn func(context.Context) error) {
		if err := fn(ctx); err != nil {
			checks[name] = err.Error()
			healthy = false
			return
		}
		checks[name] = "ok"
	}
	if a.db != nil {
		check("postgres", a.db.PingContext)
	}
	if a.redis != nil {
		check("redis", a.redis.Health)
	}
	if a.kafka != nil {
		check("kafka", a.kafka.Ping)
	}

	if !healthy {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Checks: checks})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Checks: checks})
}

// Close releases every connection Build opened.
func (a *App) Close() error {
	var errs []error
	if a.Publisher != nil {
		a.Publisher.Close()
	}
	if a.kafka != nil {
		a.kafka.Close()
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
