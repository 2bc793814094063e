package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	JournalMemory   = "memory"
	JournalPostgres = "postgres"
	JournalBolt     = "bolt"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string   `env:"SERVICE_NAME" envDefault:"ballotbox"`
	HTTPPort     string   `env:"HTTP_PORT" envDefault:"8080"`
	PostgresDSN  string   `env:"POSTGRES_DSN"`
	BoltPath     string   `env:"BOLT_PATH" envDefault:"ballotbox.db"`
	Journal      string   `env:"JOURNAL_DRIVER" envDefault:"memory"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`

	ElectionOwner string `env:"ELECTION_OWNER"`
	TokenGrants   string `env:"TOKEN_GRANTS"`

	OutboxPollInterval time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"2s"`
	OutboxBatchSize    int           `env:"OUTBOX_BATCH_SIZE" envDefault:"100"`
	EnableOutboxRelay  bool          `env:"ENABLE_OUTBOX_RELAY" envDefault:"true"`
	EnableMetrics      bool          `env:"ENABLE_METRICS" envDefault:"true"`
}

// Load reads an optional .env file from the working directory and then parses
// the process environment. Variables already set in the environment win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse builds Config from the current environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg.normalize()
}

func (c Config) normalize() (Config, error) {
	c.ElectionOwner = strings.TrimSpace(c.ElectionOwner)
	if c.ElectionOwner == "" {
		return Config{}, errors.New("ELECTION_OWNER is required")
	}

	c.Journal = strings.ToLower(strings.TrimSpace(c.Journal))
	switch c.Journal {
	case JournalMemory, JournalBolt:
	case JournalPostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return Config{}, errors.New("POSTGRES_DSN is required for the postgres journal")
		}
	default:
		return Config{}, fmt.Errorf("unsupported JOURNAL_DRIVER %q", c.Journal)
	}

	brokers := make([]string, 0, len(c.KafkaBrokers))
	for _, value := range c.KafkaBrokers {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	c.KafkaBrokers = brokers

	if c.OutboxPollInterval <= 0 {
		c.OutboxPollInterval = 2 * time.Second
	}
	if c.OutboxBatchSize <= 0 {
		c.OutboxBatchSize = 100
	}
	if _, err := c.Grants(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Grants parses TOKEN_GRANTS, a comma separated list of account=amount pairs.
// An account listed twice receives the sum.
func (c Config) Grants() (map[string]uint64, error) {
	grants := make(map[string]uint64)
	for _, entry := range strings.Split(c.TokenGrants, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		account, rawAmount, ok := strings.Cut(entry, "=")
		account = strings.TrimSpace(account)
		if !ok || account == "" {
			return nil, fmt.Errorf("TOKEN_GRANTS entry %q: want account=amount", entry)
		}
		amount, err := strconv.ParseUint(strings.TrimSpace(rawAmount), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TOKEN_GRANTS entry %q: %w", entry, err)
		}
		grants[account] += amount
	}
	return grants, nil
}
