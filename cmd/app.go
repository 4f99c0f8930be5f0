package cmd

import (
	"context"
	"fmt"

	"datamilo/classifier"
	"datamilo/config"
	"datamilo/database"
	"datamilo/insights"
	"datamilo/logger"
	"datamilo/services"
)

// app is the wired dependency graph shared by the commands.
type app struct {
	cfg       *config.Config
	log       logger.Logger
	executor  database.Executor
	assistant *services.Assistant
}

func loadConfig(opts *RootOptions) (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.NewStructured(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	if cfg.EnvFile == "" {
		log.Debug(".env file not found, using system environment variables", nil)
	} else {
		log.Debug("Loaded .env", map[string]interface{}{"path": cfg.EnvFile})
	}
	return cfg, log, nil
}

func newApp(ctx context.Context, opts *RootOptions) (*app, error) {
	cfg, log, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	store, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	var executor database.Executor = store
	if cfg.Cache.Enabled {
		client, err := database.NewRedisClient(ctx, cfg.Cache.RedisURL)
		if err != nil {
			store.Close()
			return nil, err
		}
		executor = database.NewCachedExecutor(store, client, cfg.Cache.TTL, log)
		log.Info("Query cache enabled", map[string]interface{}{"ttl": cfg.Cache.TTL.String()})
	}

	gen, err := services.NewGenerator(cfg.LLM, log)
	if err != nil {
		executor.Close()
		return nil, err
	}

	return &app{
		cfg:       cfg,
		log:       log,
		executor:  executor,
		assistant: buildAssistant(cfg, gen, executor, log),
	}, nil
}

// buildAssistant picks the model-backed strategies when gen is set and the
// deterministic ones otherwise.
func buildAssistant(cfg *config.Config, gen services.Generator, executor database.Executor, log logger.Logger) *services.Assistant {
	c := classifier.New()
	rules := insights.NewGenerator(cfg.Insights)

	var (
		router    services.Router    = services.NewTemplateRouter(c)
		insighter services.Insighter = services.NewRuleInsighter(rules)
		charter   services.Charter   = services.RuleCharter{}
	)
	if gen != nil {
		sqlOpts := services.GenerationOptions{
			Temperature: cfg.LLM.SQLTemperature,
			TopP:        cfg.LLM.TopP,
			MaxTokens:   cfg.LLM.SQLMaxTokens,
		}
		insightOpts := services.GenerationOptions{
			Temperature: cfg.LLM.InsightTemperature,
			TopP:        cfg.LLM.TopP,
			MaxTokens:   cfg.LLM.InsightMaxTokens,
		}
		router = services.NewModelRouter(gen, c, sqlOpts, log)
		insighter = services.NewModelInsighter(gen, rules, insightOpts, log)
		if cfg.LLM.Charts {
			charter = services.NewModelCharter(gen, insightOpts, log)
		}
	}
	return services.NewAssistant(router, executor, insighter, charter, log)
}

func (a *app) Close() error {
	// zap cannot sync a terminal stderr; that error is noise
	_ = a.log.Sync()
	return a.executor.Close()
}
