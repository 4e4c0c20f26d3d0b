package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/collab-matcher/internal/ai"
	"github.com/spigell/collab-matcher/internal/ai/claude"
	"github.com/spigell/collab-matcher/internal/ai/gemini"
	"github.com/spigell/collab-matcher/internal/ai/openai"
	"github.com/spigell/collab-matcher/internal/connection"
	"github.com/spigell/collab-matcher/internal/logger"
	"github.com/spigell/collab-matcher/internal/matching"
	"github.com/spigell/collab-matcher/internal/profile"
	"github.com/spigell/collab-matcher/internal/secrets"
	"github.com/spigell/collab-matcher/internal/storage"
)

const (
	providerGemini = "gemini"
	providerOpenAI = "openai"
	providerClaude = "claude"
)

// application holds every collaborator a command may need. Nothing here is package-level state.
type application struct {
	config       *Config
	logger       *zap.Logger
	store        *storage.Store
	orchestrator *matching.Orchestrator
	connections  *connection.Manager
	generator    ai.Generator
	embedder     ai.Embedder
}

// provider is the generator plus, when the backend supports it, the embedder.
type provider struct {
	generator ai.Generator
	embedder  ai.Embedder
}

// newApplication builds the application. With withAI set and ai.enabled in the
// config the configured provider is created; a provider failure is fatal only
// when requireAI is set.
func newApplication(ctx context.Context, withAI, requireAI bool) *application {
	logger := logger.New(viper.GetBool("json"), viper.GetBool("debug"))

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil || config.Database == nil || config.Matching == nil || config.AI == nil {
		logger.Fatal("config is incomplete")
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	store, err := storage.Open(config.Database.Driver, config.Database.DSN)
	if err != nil {
		logger.Fatal("opening the profile store",
			zap.Error(err),
			zap.String("driver", config.Database.Driver),
		)
	}

	a := &application{
		config:      config,
		logger:      logger,
		store:       store,
		connections: connection.NewManager(store, logger),
	}

	if withAI && config.AI.Enabled {
		p, err := newProvider(ctx, config.AI, logger)
		switch {
		case err != nil && requireAI:
			logger.Fatal("creating the ai provider", zap.Error(err))
		case err != nil:
			logger.Warn("continuing without ai provider", zap.Error(err))
		default:
			a.generator = p.generator
			a.embedder = p.embedder
		}
	}

	strategy, err := matching.NewStrategy(config.Matching.Strategy)
	if err != nil {
		logger.Fatal("selecting the matching strategy", zap.Error(err))
	}

	var explainer ai.Explainer
	if a.generator != nil {
		explainer = ai.NewReasonWriter(a.generator, config.AI.MaxLogLength, logger)
	}

	a.orchestrator = matching.New(store, strategy, explainer, matching.Config{
		Workers:     config.Matching.Workers,
		ExcludeFile: config.Matching.ExcludeFile,
	}, logger)

	return a
}

func (a *application) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("closing the profile store", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// fail logs err with a hint for the known error kinds and exits.
func (a *application) fail(msg string, err error) {
	fields := []zap.Field{zap.Error(err)}
	switch {
	case errors.Is(err, profile.ErrNotFound):
		fields = append(fields, zap.String("hint", "check the profile id or run the import command first"))
	case errors.Is(err, matching.ErrNotReady):
		fields = append(fields, zap.String("hint", "re-import the profile with --embed"))
	case errors.Is(err, profile.ErrConflict), errors.Is(err, profile.ErrInvalidTransition), errors.Is(err, profile.ErrSelfConnection):
		fields = append(fields, zap.String("hint", "run the connections command to see the current state"))
	}
	a.logger.Fatal(msg, fields...)
}

func newProvider(ctx context.Context, cfg *AIConfig, log *zap.Logger) (provider, error) {
	name := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if name == "" {
		name = providerGemini
	}

	pc := providerConfig(cfg, name)
	if pc == nil {
		pc = &ProviderConfig{}
	}

	providerLog := logger.ForProvider(log, name, pc.Model).With(zap.Int("ai_retry_attempts", cfg.MaxRetries))

	switch name {
	case providerGemini:
		apiKey, err := secrets.Load(secrets.Source{Name: "gemini api key", Value: pc.APIKey, File: pc.APIKeyFile, Env: "GEMINI_API_KEY"})
		if err != nil {
			return provider{}, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
		}
		g, err := gemini.NewGenerator(ctx, apiKey, pc.Model, pc.EmbeddingModel, cfg.MaxRetries, providerLog)
		if err != nil {
			return provider{}, err
		}
		return provider{generator: g, embedder: g}, nil

	case providerOpenAI:
		apiKey, err := secrets.Load(secrets.Source{Name: "openai api key", Value: pc.APIKey, File: pc.APIKeyFile, Env: "OPENAI_API_KEY"})
		if err != nil {
			return provider{}, fmt.Errorf("%w (set ai.openai.api-key-file or OPENAI_API_KEY_FILE)", err)
		}
		c, err := openai.NewClient(apiKey, pc.BaseURL, pc.Model, pc.EmbeddingModel, cfg.MaxRetries, providerLog)
		if err != nil {
			return provider{}, err
		}
		return provider{generator: c, embedder: c}, nil

	case providerClaude:
		apiKey, err := secrets.Load(secrets.Source{Name: "claude api key", Value: pc.APIKey, File: pc.APIKeyFile, Env: "ANTHROPIC_API_KEY"})
		if err != nil {
			return provider{}, fmt.Errorf("%w (set ai.claude.api-key-file or ANTHROPIC_API_KEY_FILE)", err)
		}
		c, err := claude.NewClient(apiKey, pc.Model, cfg.MaxRetries, providerLog)
		if err != nil {
			return provider{}, err
		}
		return provider{generator: c}, nil

	default:
		return provider{}, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

func providerConfig(cfg *AIConfig, name string) *ProviderConfig {
	switch name {
	case providerGemini:
		return cfg.Gemini
	case providerOpenAI:
		return cfg.OpenAI
	case providerClaude:
		return cfg.Claude
	default:
		return nil
	}
}

// redacted returns a copy of cfg safe for logging.
func redacted(cfg *Config) *Config {
	out := *cfg
	if cfg.AI == nil {
		return &out
	}
	aiCfg := *cfg.AI
	for _, pc := range []**ProviderConfig{&aiCfg.Gemini, &aiCfg.OpenAI, &aiCfg.Claude} {
		if *pc == nil {
			continue
		}
		copied := **pc
		if copied.APIKey != "" {
			copied.APIKey = "***"
		}
		*pc = &copied
	}
	out.AI = &aiCfg
	return &out
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
