// Package app wires the response pipeline from configuration. Both the
// HTTP trigger service and the worker build the same processor through it.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/Raphi52/OnlyVIP-sub000/common/distlock"
	"github.com/Raphi52/OnlyVIP-sub000/common/llm"
	"github.com/Raphi52/OnlyVIP-sub000/core/config"
	"github.com/Raphi52/OnlyVIP-sub000/core/db"
	"github.com/Raphi52/OnlyVIP-sub000/internal/brain"
	"github.com/Raphi52/OnlyVIP-sub000/internal/metrics"
	"github.com/Raphi52/OnlyVIP-sub000/internal/queue"
	"github.com/Raphi52/OnlyVIP-sub000/internal/service"
	"github.com/Raphi52/OnlyVIP-sub000/internal/store"
	"github.com/Raphi52/OnlyVIP-sub000/internal/worker"
)

const conversationLockPrefix = "lock:conversation"

type App struct {
	Stores     *store.Stores
	Services   *service.Services
	Intents    *brain.IntentDetector
	Attributor *brain.Attributor
	Processor  *worker.Processor
	Producer   queue.Producer
	Metrics    *metrics.Metrics
}

// New builds the processor and its collaborators. reg may be nil, in which
// case metrics are collected but never exported.
func New(ctx context.Context, cfg config.Config, database *db.DB, redisClient *redis.Client, reg prometheus.Registerer) (*App, error) {
	if !cfg.LLM.Enabled() {
		return nil, fmt.Errorf("LLM provider %q is not configured", cfg.LLM.Provider)
	}

	textClient, err := llm.NewTextClient(ctx, llm.Config{
		Provider:  cfg.LLM.Provider,
		APIKey:    cfg.LLM.APIKey,
		BaseURL:   cfg.LLM.BaseURL,
		Model:     cfg.LLM.Model,
		Region:    cfg.Bedrock.Region,
		MaxTokens: cfg.LLM.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("creating text client: %w", err)
	}
	slog.InfoContext(ctx, "llm client ready", "provider", cfg.LLM.Provider, "model", textClient.Model())

	stores := store.NewStores(database.Pool())
	services := service.NewServices(stores, service.NewTxRunner(database), redisClient, service.Config{
		RealtimePrefix:       cfg.Redis.RealtimePrefix,
		HighSpenderThreshold: cfg.Handoff.HighSpenderThreshold,
	})

	intents := brain.NewIntentDetector(brain.DefaultIntents())
	rnd := brain.NewRand()
	attributor := brain.NewAttributor(brain.NewTxRunner(database), cfg.Queue.AttributionWindow)
	producer := queue.NewRedisProducer(redisClient, cfg.Redis.TaskStream, slog.Default())
	m := metrics.New(reg)

	processor := worker.NewProcessor(worker.Deps{
		Queue:         stores.Queue(),
		Messages:      stores.Messages(),
		Conversations: stores.Conversations(),
		Creators:      stores.Creators(),
		Fans:          stores.Fans(),
		FanMemories:   stores.FanMemories(),
		Suggestions:   stores.Suggestions(),

		Handoffs: services.Handoffs(),
		Credits:  services.Credits(),
		Media:    services.Media(),
		Notifier: services.Notifier(),

		Router:     brain.NewRouter(stores.Conversations(), stores.Personalities(), services.PersonalitySelector(), time.Now),
		Objections: brain.NewObjectionHandler(stores.Objections(), services.ObjectionResolver(), rnd, time.Now),
		Matcher:    brain.NewScriptMatcher(stores.Scripts(), intents),
		Generator:  brain.NewGenerator(textClient, cfg.LLM.MaxTokens),
		Usage:      attributor,

		Tasks:   producer,
		Locker:  worker.NewConversationLocker(distlock.NewLocker(redisClient, conversationLockPrefix, cfg.Queue.LockTTL)),
		Pacer:   worker.NewPacer(cfg.Pacing, rnd),
		Rand:    rnd,
		Metrics: m,
		Now:     time.Now,
	}, worker.ProcessorConfig{
		BatchSize:     cfg.Queue.BatchSize,
		MaxAttempts:   cfg.Queue.MaxAttempts,
		RetryDelay:    cfg.Queue.RetryDelay,
		SuggestionTTL: cfg.Queue.SuggestionTTL,
	})

	return &App{
		Stores:     stores,
		Services:   services,
		Intents:    intents,
		Attributor: attributor,
		Processor:  processor,
		Producer:   producer,
		Metrics:    m,
	}, nil
}

// Close releases the task producer.
func (a *App) Close() error {
	return a.Producer.Close()
}

// NewBackgroundHandler builds the fan enrichment handler run by the task
// worker. It needs the structured output client.
func (a *App) NewBackgroundHandler(cfg config.Config) (*worker.BackgroundHandler, error) {
	client, err := llm.New(llm.Config{
		APIKey:    cfg.MemoryLLM.APIKey,
		BaseURL:   cfg.MemoryLLM.BaseURL,
		Model:     cfg.MemoryLLM.Model,
		MaxTokens: cfg.MemoryLLM.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("creating memory llm client: %w", err)
	}
	return worker.NewBackgroundHandler(
		brain.NewMemoryExtractor(client, a.Stores.Messages(), a.Stores.FanMemories()),
		brain.NewNoteUpdater(client, a.Stores.Messages(), a.Stores.Fans()),
		brain.NewQualifier(a.Stores.Fans(), a.Stores.Messages(), a.Intents),
		a.Metrics,
	), nil
}
