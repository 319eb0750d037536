package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all engine configuration.
type Config struct {
	Storage  StorageConfig `yaml:"storage"`
	Rating   RatingConfig  `yaml:"rating"`
	Graph    GraphConfig   `yaml:"graph"`
	LogLevel string        `yaml:"log_level"`
}

// StorageConfig selects and parameterizes the object store backend.
type StorageConfig struct {
	Type          string `yaml:"type"` // "sqlite" or "postgres"
	PostgresDSN   string `yaml:"postgres_dsn"`
	SQLitePath    string `yaml:"sqlite_path"`
	DuelCachePath string `yaml:"duel_cache_path"` // bbolt file
}

// RatingConfig carries the Elo and qualification constants.
type RatingConfig struct {
	EloInitial         float64 `yaml:"elo_initial"`
	EloK               float64 `yaml:"elo_k"`
	MinVotes           int     `yaml:"min_votes"`
	QualificationDelta float64 `yaml:"qualification_delta"`
}

// GraphConfig configures the optional Neo4j mirror. An empty URI disables
// the mirror; it is never required for correctness.
type GraphConfig struct {
	Neo4jURI      string `yaml:"neo4j_uri"`
	Neo4jUser     string `yaml:"neo4j_user"`
	Neo4jPassword string `yaml:"neo4j_password"`
	Neo4jDatabase string `yaml:"neo4j_database"`
}

// Default returns the configuration described by defaults.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Storage: StorageConfig{
			Type:          "sqlite",
			SQLitePath:    filepath.Join(homeDir, ".hronir", "ledger.db"),
			DuelCachePath: filepath.Join(homeDir, ".hronir", "duels.bolt"),
		},
		Rating: RatingConfig{
			EloInitial:         1500,
			EloK:               32,
			MinVotes:           1,
			QualificationDelta: 0,
		},
		Graph: GraphConfig{
			Neo4jDatabase: "neo4j",
		},
		LogLevel: "info",
	}
}

// Load loads configuration from an optional file plus environment overrides,
// falling back to Default() for anything unset.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("storage", cfg.Storage)
	v.SetDefault("rating", cfg.Rating)
	v.SetDefault("graph", cfg.Graph)
	v.SetDefault("log_level", cfg.LogLevel)

	v.SetEnvPrefix("HRONIR")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".hronir")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".hronir"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

func loadEnvFiles() {
	envFiles := []string{".env.local", ".env"}
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}
}

func applyEnvOverrides(cfg *Config) {
	if t := os.Getenv("HRONIR_STORAGE_TYPE"); t != "" {
		cfg.Storage.Type = t
	}
	if dsn := os.Getenv("HRONIR_POSTGRES_DSN"); dsn != "" {
		cfg.Storage.PostgresDSN = dsn
	}
	if path := os.Getenv("HRONIR_SQLITE_PATH"); path != "" {
		cfg.Storage.SQLitePath = expandPath(path)
	}
	if path := os.Getenv("HRONIR_DUEL_CACHE_PATH"); path != "" {
		cfg.Storage.DuelCachePath = expandPath(path)
	}
	if uri := os.Getenv("HRONIR_NEO4J_URI"); uri != "" {
		cfg.Graph.Neo4jURI = uri
	}
	if user := os.Getenv("HRONIR_NEO4J_USER"); user != "" {
		cfg.Graph.Neo4jUser = user
	}
	if pass := os.Getenv("HRONIR_NEO4J_PASSWORD"); pass != "" {
		cfg.Graph.Neo4jPassword = pass
	}
	if k := os.Getenv("HRONIR_ELO_K"); k != "" {
		if v, err := strconv.ParseFloat(k, 64); err == nil {
			cfg.Rating.EloK = v
		}
	}
	if mv := os.Getenv("HRONIR_MIN_VOTES"); mv != "" {
		if v, err := strconv.Atoi(mv); err == nil {
			cfg.Rating.MinVotes = v
		}
	}
	if lvl := os.Getenv("HRONIR_LOG_LEVEL"); lvl != "" {
		cfg.LogLevel = lvl
	}
}

func expandPath(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, path[1:])
}

// Save writes the configuration to a YAML file, creating parent directories
// as needed.
func (c *Config) Save(path string) error {
	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("storage", c.Storage)
	v.Set("rating", c.Rating)
	v.Set("graph", c.Graph)
	v.Set("log_level", c.LogLevel)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
