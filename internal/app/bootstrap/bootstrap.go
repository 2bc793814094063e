package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	electionservice "ballotbox/contexts/governance/election-service"
	boltadapter "ballotbox/contexts/governance/election-service/adapters/bolt"
	electionmemory "ballotbox/contexts/governance/election-service/adapters/memory"
	electionmetrics "ballotbox/contexts/governance/election-service/adapters/metrics"
	postgresadapter "ballotbox/contexts/governance/election-service/adapters/postgres"
	"ballotbox/contexts/governance/election-service/adapters/tokengate"
	"ballotbox/contexts/governance/election-service/application/commands"
	"ballotbox/contexts/governance/election-service/application/queries"
	"ballotbox/contexts/governance/election-service/application/workers"
	"ballotbox/contexts/governance/election-service/domain/entities"
	"ballotbox/contexts/governance/election-service/domain/services"
	"ballotbox/contexts/governance/election-service/ports"
	"ballotbox/internal/platform/config"
	"ballotbox/internal/platform/db"
	"ballotbox/internal/platform/httpserver"
	"ballotbox/internal/platform/messaging"

	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

const metricsNamespace = "ballotbox"

type APIApp struct {
	server       *httpserver.Server
	module       electionservice.Module
	bus          *messaging.Kafka
	closeJournal func() error
	enableRelay  bool
	pollInterval time.Duration
	logger       *slog.Logger
}

// WorkerApp audits a durable journal: it replays every event into a fresh
// election and checks the ranking and ledger invariants.
type WorkerApp struct {
	journal      ports.EventJournal
	closeJournal func() error
	owner        string
	logger       *slog.Logger
}

// AuditReport summarizes one audit run.
type AuditReport struct {
	Events    int
	Votes     int
	Standings []entities.Standing
}

func BuildAPI(ctx context.Context) (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	journal, closeJournal, err := openJournal(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var (
		metrics        ports.Metrics
		metricsHandler http.Handler
	)
	if cfg.EnableMetrics {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		recorder, err := electionmetrics.NewPrometheus(metricsNamespace, registry)
		if err != nil {
			_ = closeJournal()
			return nil, err
		}
		metrics = recorder
		metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}

	grants, err := cfg.Grants()
	if err != nil {
		_ = closeJournal()
		return nil, err
	}
	ledger := tokengate.NewLedger(cfg.ElectionOwner, logger)
	for account, amount := range grants {
		ledger.Grant(account, amount)
		ledger.Approve(account, amount)
	}

	bus, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		_ = closeJournal()
		return nil, err
	}

	store := electionmemory.NewStore(cfg.ElectionOwner)
	module := electionservice.NewModule(electionservice.Dependencies{
		State:     store,
		Gate:      ledger,
		Tokens:    ledger,
		Outbox:    store,
		Journal:   journal,
		Publisher: bus,
		Clock:     postgresadapter.SystemClock{},
		IDGen:     postgresadapter.UUIDGenerator{},
		Metrics:   metrics,
		BatchSize: cfg.OutboxBatchSize,
		Logger:    logger,
	})
	module.Store = store

	replayed, err := module.Replay.Run(ctx)
	if err != nil {
		_ = bus.Close()
		_ = closeJournal()
		return nil, fmt.Errorf("replay election journal: %w", err)
	}
	store.MarkReplayed()

	if metrics != nil {
		// The subscription ends when Close shuts the bus down.
		tally := &workers.VoteTallyConsumer{Subscriber: bus, Metrics: metrics, Logger: logger}
		if err := tally.Start(context.WithoutCancel(ctx)); err != nil {
			_ = bus.Close()
			_ = closeJournal()
			return nil, err
		}
	}

	logger.Info("api app built",
		"event", "bootstrap_api_built",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"journal_driver", cfg.Journal,
		"kafka_brokers", strings.Join(bus.Brokers(), ","),
		"replayed_count", replayed,
		"token_accounts", len(grants),
		"metrics_enabled", cfg.EnableMetrics,
	)

	return &APIApp{
		server:       httpserver.New(module, metricsHandler, logger, normalizeAddr(cfg.HTTPPort)),
		module:       module,
		bus:          bus,
		closeJournal: closeJournal,
		enableRelay:  cfg.EnableOutboxRelay,
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}, nil
}

func BuildWorker(ctx context.Context) (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if cfg.Journal == config.JournalMemory {
		logger.Warn("auditor has no durable journal to read",
			"event", "bootstrap_worker_memory_journal",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	journal, closeJournal, err := openJournal(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &WorkerApp{
		journal:      journal,
		closeJournal: closeJournal,
		owner:        cfg.ElectionOwner,
		logger:       logger,
	}, nil
}

// Run serves HTTP and relays the outbox until ctx is done, an interrupt
// arrives or an actor fails.
func (a *APIApp) Run(ctx context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"relay_enabled", a.enableRelay,
		"poll_interval", a.pollInterval.String(),
	)

	var g run.Group
	{
		g.Add(a.server.Start, func(error) {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := a.server.Shutdown(shutdownCtx); err != nil {
				a.logger.Error("http server shutdown failed",
					"event", "bootstrap_api_shutdown_failed",
					"module", "internal/app/bootstrap",
					"layer", "platform",
					"error", err.Error(),
				)
			}
		})
	}
	if a.enableRelay {
		relayCtx, cancel := context.WithCancel(ctx)
		g.Add(func() error {
			a.relayLoop(relayCtx)
			return nil
		}, func(error) {
			cancel()
		})
	}
	{
		signalCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		g.Add(func() error {
			<-signalCtx.Done()
			a.logger.Info("api app stopping",
				"event", "bootstrap_api_stopping",
				"module", "internal/app/bootstrap",
				"layer", "platform",
			)
			return nil
		}, func(error) {
			stop()
		})
	}
	return g.Run()
}

// Flush relays pending events until the outbox is empty.
func (a *APIApp) Flush(ctx context.Context) error {
	return a.module.Relay.Drain(ctx)
}

func (a *APIApp) Handler() http.Handler {
	return a.server.Handler()
}

func (a *APIApp) Close() error {
	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var errs []error
	if a.enableRelay {
		errs = append(errs, a.Flush(flushCtx))
	}
	if a.bus != nil {
		errs = append(errs, a.bus.Close())
	}
	if a.closeJournal != nil {
		errs = append(errs, a.closeJournal())
	}
	return errors.Join(errs...)
}

func (a *APIApp) relayLoop(ctx context.Context) {
	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()

	for {
		// Failures are logged by the relay; the next tick retries from the
		// first unpublished event.
		_ = a.module.Relay.Drain(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Run(ctx context.Context) error {
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	report, err := w.Audit(ctx)
	if err != nil {
		return err
	}
	for _, standing := range report.Standings {
		w.logger.Info("election standing",
			"event", "election_audit_standing",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"rank", standing.Rank,
			"candidate_id", standing.Candidate.ID,
			"name", standing.Candidate.Name,
			"votes", standing.Candidate.Votes,
		)
	}
	return nil
}

// Audit replays the journal into a fresh election and reports its standings.
// Replay verifies the ranking and ledger invariants before returning.
func (w *WorkerApp) Audit(ctx context.Context) (AuditReport, error) {
	store := electionmemory.NewStore(w.owner)
	replayed, err := commands.ReplayUseCase{
		Journal: w.journal,
		State:   store,
		Logger:  w.logger,
	}.Run(ctx)
	if err != nil {
		w.logger.Error("election audit failed",
			"event", "election_audit_failed",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"error", err.Error(),
		)
		return AuditReport{}, fmt.Errorf("audit election journal: %w", err)
	}

	report := AuditReport{Events: replayed}
	if err := store.View(ctx, func(election *services.Election) error {
		report.Votes = election.VoteCount()
		return nil
	}); err != nil {
		return AuditReport{}, err
	}
	report.Standings, err = queries.ElectionQueries{State: store}.SortedCandidates(ctx)
	if err != nil {
		return AuditReport{}, err
	}

	w.logger.Info("election audit passed",
		"event", "election_audit_passed",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"events", report.Events,
		"votes", report.Votes,
		"candidates", len(report.Standings),
	)
	return report, nil
}

func (w *WorkerApp) Close() error {
	if w.closeJournal != nil {
		return w.closeJournal()
	}
	return nil
}

func openJournal(ctx context.Context, cfg config.Config, logger *slog.Logger) (ports.EventJournal, func() error, error) {
	switch cfg.Journal {
	case config.JournalPostgres:
		pg, err := db.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		repo := postgresadapter.NewRepository(pg.DB, logger)
		if err := repo.Migrate(ctx); err != nil {
			_ = pg.Close()
			return nil, nil, err
		}
		return repo, pg.Close, nil
	case config.JournalBolt:
		store, err := db.OpenBolt(cfg.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		journal, err := boltadapter.NewJournal(store.DB, logger)
		if err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		return journal, store.Close, nil
	default:
		return electionmemory.NewJournal(), func() error { return nil }, nil
	}
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.Contains(value, ":") {
		return value
	}
	return ":" + value
}
