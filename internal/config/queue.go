package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	defaultQueuePrefetch          = 1
	defaultQueueProcessingTimeout = 30 * time.Second
	defaultQueueMaxRetryAttempts  = 5
	defaultQueueRetryInterval     = 500 * time.Millisecond
)

type QueueConfig struct {
	Url               string        `mapstructure:"url"`
	User              string        `mapstructure:"user"`
	Password          string        `mapstructure:"password"`
	QueueName         string        `mapstructure:"queue-name"`
	Prefetch          int           `mapstructure:"prefetch"`
	ProcessingTimeout time.Duration `mapstructure:"processing-timeout"`
	MaxRetryAttempts  uint          `mapstructure:"max-retry-attempts"`
	RetryInterval     time.Duration `mapstructure:"retry-interval"`
}

func (cfg *QueueConfig) Validate() error {
	if cfg.Url == "" {
		return errors.New("queue url is required")
	}
	if cfg.QueueName == "" {
		return errors.New("queue name is required")
	}
	if _, err := cfg.AmqpURI(); err != nil {
		return err
	}

	if cfg.Prefetch <= 0 {
		cfg.Prefetch = defaultQueuePrefetch
	}
	if cfg.ProcessingTimeout <= 0 {
		cfg.ProcessingTimeout = defaultQueueProcessingTimeout
	}
	if cfg.MaxRetryAttempts == 0 {
		cfg.MaxRetryAttempts = defaultQueueMaxRetryAttempts
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = defaultQueueRetryInterval
	}

	return nil
}

// AmqpURI builds the broker uri, credentials are injected when configured
// separately from the url. A url without a scheme is taken as host:port.
func (cfg *QueueConfig) AmqpURI() (string, error) {
	raw := cfg.Url
	if !strings.Contains(raw, "://") {
		raw = "amqp://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid queue url: %w", err)
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", fmt.Errorf("invalid queue url scheme %q", u.Scheme)
	}
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	return u.String(), nil
}
