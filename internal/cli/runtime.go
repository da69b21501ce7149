package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"finchat/config"
	"finchat/internal/dataflows"
	"finchat/internal/interp"
	"finchat/internal/render"
	"finchat/internal/session"
	"finchat/internal/tools"
)

// runtime bundles the shared pipeline dependencies the commands wire up.
type runtime struct {
	cfg         *config.Config
	log         *zap.Logger
	store       session.Store
	provider    *dataflows.YahooProvider
	interpreter *interp.Switchable
	registry    *tools.Registry
	generator   *render.Generator
}

func newRuntime(ctx context.Context, cfg *config.Config) (*runtime, error) {
	log, err := newLogger(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	store, err := session.NewSQLiteStore(cfg.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	provider := dataflows.NewYahooProvider(cfg.DataCacheDir, cfg.CacheEnabled, log)

	rt := &runtime{
		cfg:         cfg,
		log:         log,
		store:       store,
		provider:    provider,
		interpreter: interp.NewSwitchable(buildInterpreter(ctx, cfg, log)),
		registry:    tools.NewRegistry(provider, log),
		generator:   render.NewGenerator(log),
	}
	return rt, nil
}

// applyConfig picks up a changed config at runtime: the interpreter is
// rebuilt (LLM settings may have changed) and the provider cache toggled.
// Paths and addresses stay as they were at startup.
func (rt *runtime) applyConfig(ctx context.Context, cfg config.Config) {
	rt.interpreter.Swap(buildInterpreter(ctx, &cfg, rt.log))
	rt.provider.SetCacheEnabled(cfg.CacheEnabled)
	rt.log.Info("config reloaded",
		zap.Bool("llm_enabled", cfg.LLMEnabled && cfg.LLMAPIKey != ""),
		zap.Bool("cache_enabled", cfg.CacheEnabled))
}

func buildInterpreter(ctx context.Context, cfg *config.Config, log *zap.Logger) interp.Interpreter {
	rules := interp.NewRuleInterpreter(log)
	chatModel, err := interp.NewChatModel(ctx, cfg)
	if err != nil {
		log.Warn("chat model unavailable, using rule interpreter only", zap.Error(err))
		return rules
	}
	if chatModel == nil {
		return rules
	}
	return interp.NewHybridInterpreter(rules, chatModel, cfg.LLMConfidenceThreshold, log)
}

func (rt *runtime) Close() {
	if err := rt.store.Close(); err != nil {
		rt.log.Warn("close session store", zap.Error(err))
	}
	_ = rt.log.Sync()
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
