package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "collab-matcher"
)

type Config struct {
	Database *DatabaseConfig `mapstructure:"database"`
	Matching *MatchingConfig `mapstructure:"matching"`
	AI       *AIConfig       `mapstructure:"ai"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type MatchingConfig struct {
	Strategy         string  `mapstructure:"strategy"`
	Limit            int     `mapstructure:"limit"`
	MinScore         float64 `mapstructure:"min-score"`
	ExcludeConnected bool    `mapstructure:"exclude-connected"`
	Workers          int     `mapstructure:"workers"`
	ExcludeFile      string  `mapstructure:"exclude-file"`
}

type AIConfig struct {
	Enabled      bool            `mapstructure:"enabled"`
	Provider     string          `mapstructure:"provider"`
	MaxRetries   int             `mapstructure:"max-retries"`
	MaxLogLength int             `mapstructure:"max-log-length"`
	Gemini       *ProviderConfig `mapstructure:"gemini"`
	OpenAI       *ProviderConfig `mapstructure:"openai"`
	Claude       *ProviderConfig `mapstructure:"claude"`
}

type ProviderConfig struct {
	APIKey         string `mapstructure:"api-key"`
	APIKeyFile     string `mapstructure:"api-key-file"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding-model"`
	BaseURL        string `mapstructure:"base-url"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "collab-matcher ranks professional profiles by how well they could collaborate",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	setDefaults()

	viper.SetEnvPrefix("COLLAB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	envBindings := map[string]string{
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
		"ai.openai.api-key-file": "OPENAI_API_KEY_FILE",
		"ai.claude.api-key-file": "ANTHROPIC_API_KEY_FILE",
	}
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is collab-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("db", "", "database DSN (overrides database.dsn)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("database.dsn", rootCmd.PersistentFlags().Lookup("db"))
}

func setDefaults() {
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "collab.db")

	viper.SetDefault("matching.strategy", "heuristic")
	viper.SetDefault("matching.limit", 5)
	viper.SetDefault("matching.min-score", 0.3)
	viper.SetDefault("matching.exclude-connected", true)
	viper.SetDefault("matching.workers", 8)
	viper.SetDefault("matching.exclude-file", "")

	viper.SetDefault("ai.enabled", false)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.max-retries", 2)
	viper.SetDefault("ai.max-log-length", 200)
	for _, provider := range []string{"gemini", "openai", "claude"} {
		viper.SetDefault("ai."+provider+".api-key", "")
		viper.SetDefault("ai."+provider+".api-key-file", "")
		viper.SetDefault("ai."+provider+".model", "")
		viper.SetDefault("ai."+provider+".embedding-model", "")
	}
	viper.SetDefault("ai.openai.base-url", "")
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Defaults apply without a config file, but a broken one is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
