package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ericogr/arcane-clash/internal/constants"
	"github.com/ericogr/arcane-clash/internal/game"
)

// Catalog backends.
const (
	CatalogSQLite    = "sqlite"
	CatalogFirestore = "firestore"
)

// LoadedConfig contains everything the server and the seed tool need.
type LoadedConfig struct {
	ServerAddress string
	DatabasePath  string

	// RedisAddress selects the Redis snapshot store; empty keeps games in
	// memory.
	RedisAddress string
	RedisTTL     time.Duration

	CatalogBackend   string
	CatalogSeedFile  string
	FirestoreProject string

	// Optional prompt templates. Use the token {{title}} for the card title
	// and {{type}} for the card type.
	ImagePromptTemplate       string
	DescriptionPromptTemplate string
	OpenAITimeout             time.Duration

	GameFlow          game.Flow
	HandSize          int
	CombatDelay       time.Duration
	GenerationTimeout time.Duration

	LogLevel       string
	LogDevelopment bool

	SessionSecret string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", constants.DefaultServerAddress)
	v.SetDefault("database.path", constants.DefaultDatabasePath)
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.ttl", constants.DefaultRedisTTL)
	v.SetDefault("catalog.backend", CatalogSQLite)
	v.SetDefault("catalog.seed_file", "")
	v.SetDefault("catalog.firestore_project", "")
	v.SetDefault("openai.image_prompt", "")
	v.SetDefault("openai.description_prompt", "")
	v.SetDefault("openai.timeout", constants.DefaultOpenAITimeout)
	v.SetDefault("game.flow", string(game.FlowSelect))
	v.SetDefault("game.hand_size", game.DefaultHandSize)
	v.SetDefault("game.combat_delay", constants.DefaultCombatDelay)
	v.SetDefault("game.generation_timeout", constants.DefaultGenerationTimeout)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)
	v.SetDefault("auth.session_secret", "")
}

// LoadConfig reads the configuration file at path (JSON or YAML, by
// extension) and applies ARCANE_* environment overrides, e.g.
// ARCANE_SERVER_ADDRESS. An empty path uses defaults and the environment
// only.
func LoadConfig(path string) (*LoadedConfig, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	flow, err := game.ParseFlow(strings.TrimSpace(v.GetString("game.flow")))
	if err != nil {
		return nil, fmt.Errorf("config game.flow: %w", err)
	}

	cfg := &LoadedConfig{
		ServerAddress:             strings.TrimSpace(v.GetString("server.address")),
		DatabasePath:              strings.TrimSpace(v.GetString("database.path")),
		RedisAddress:              strings.TrimSpace(v.GetString("redis.address")),
		RedisTTL:                  v.GetDuration("redis.ttl"),
		CatalogBackend:            strings.ToLower(strings.TrimSpace(v.GetString("catalog.backend"))),
		CatalogSeedFile:           strings.TrimSpace(v.GetString("catalog.seed_file")),
		FirestoreProject:          strings.TrimSpace(v.GetString("catalog.firestore_project")),
		ImagePromptTemplate:       strings.TrimSpace(v.GetString("openai.image_prompt")),
		DescriptionPromptTemplate: strings.TrimSpace(v.GetString("openai.description_prompt")),
		OpenAITimeout:             v.GetDuration("openai.timeout"),
		GameFlow:                  flow,
		HandSize:                  v.GetInt("game.hand_size"),
		CombatDelay:               v.GetDuration("game.combat_delay"),
		GenerationTimeout:         v.GetDuration("game.generation_timeout"),
		LogLevel:                  strings.ToLower(strings.TrimSpace(v.GetString("logging.level"))),
		LogDevelopment:            v.GetBool("logging.development"),
		SessionSecret:             v.GetString("auth.session_secret"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *LoadedConfig) validate() error {
	var errs []error
	if c.ServerAddress == "" {
		errs = append(errs, errors.New("config server.address: must not be empty"))
	}
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("config database.path: must not be empty"))
	}
	switch c.CatalogBackend {
	case CatalogSQLite:
	case CatalogFirestore:
		if c.FirestoreProject == "" {
			errs = append(errs, errors.New("config catalog.firestore_project: required for the firestore backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("config catalog.backend: unknown backend %q", c.CatalogBackend))
	}
	if c.HandSize < 1 || c.HandSize > 20 {
		errs = append(errs, fmt.Errorf("config game.hand_size: %d out of range 1..20", c.HandSize))
	}
	for key, d := range map[string]time.Duration{
		"redis.ttl":               c.RedisTTL,
		"openai.timeout":          c.OpenAITimeout,
		"game.combat_delay":       c.CombatDelay,
		"game.generation_timeout": c.GenerationTimeout,
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("config %s: must not be negative", key))
		}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("config logging.level: unknown level %q", c.LogLevel))
	}
	return errors.Join(errs...)
}
