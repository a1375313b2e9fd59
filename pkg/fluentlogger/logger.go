package fluentlogger

import (
	"fmt"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// Config - connection settings for Fluent Bit.
type Config struct {
	Host      string
	Port      int
	TagPrefix string // usually the service name

	// Async buffers records and sends them in the background, so a down collector
	// does not block request handling.
	Async bool
}

// NewClient creates a Fluent Bit client. The forward protocol has no ping, so a
// successful return does not mean the collector is reachable.
func NewClient(cfg Config) (*fluent.Fluent, error) {
	if cfg.TagPrefix == "" {
		return nil, fmt.Errorf("fluentd tag prefix is required")
	}

	logger, err := fluent.New(fluent.Config{
		FluentHost: cfg.Host,
		FluentPort: cfg.Port,
		TagPrefix:  cfg.TagPrefix,
		Async:      cfg.Async,
		Timeout:    3 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fluentd logger: %w", err)
	}

	return logger, nil
}
