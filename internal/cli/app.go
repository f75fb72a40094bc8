package cli

import (
	"go.uber.org/zap"

	"github.com/veridex/veridex/internal/adapter"
	"github.com/veridex/veridex/internal/config"
	"github.com/veridex/veridex/internal/factcheck"
	"github.com/veridex/veridex/internal/ingest"
	"github.com/veridex/veridex/internal/nlp"
	"github.com/veridex/veridex/internal/queue"
	"github.com/veridex/veridex/internal/search"
	"github.com/veridex/veridex/internal/store"
)

// app holds the wired components shared by the subcommands.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
}

// newApp loads configuration, builds the logger, and opens the content
// store with an up-to-date schema.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if err := st.AutoMigrate(); err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, store: st}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

func (a *app) coordinator() *ingest.Coordinator {
	registry := adapter.DefaultRegistry(a.cfg)
	return ingest.NewCoordinator(a.store, registry, a.cfg.Collect.DefaultMaxItems, a.logger)
}

func (a *app) orchestrator() (*factcheck.Orchestrator, error) {
	annotator, err := nlp.New(a.cfg.NLP)
	if err != nil {
		return nil, err
	}
	provider, err := search.New(a.cfg.Search)
	if err != nil {
		return nil, err
	}

	extractor := factcheck.NewExtractor(annotator, a.logger)
	aggregator := factcheck.NewAggregator(a.store, provider, a.cfg.Search.MaxResults, a.logger)
	return factcheck.NewOrchestrator(a.store, extractor, aggregator, a.logger), nil
}

func (a *app) handler() (*queue.Handler, error) {
	orchestrator, err := a.orchestrator()
	if err != nil {
		return nil, err
	}
	return queue.NewHandler(a.coordinator(), orchestrator, a.logger), nil
}
