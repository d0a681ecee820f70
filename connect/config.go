package connect

import (
	"errors"
	"time"
)

// CreateRelPath is the store endpoint that creates a relationship.
const CreateRelPath = "/createRel"

// DefaultErrorMessageTimeout is used when Config.ErrorMessageTimeout is unset.
const DefaultErrorMessageTimeout = 3 * time.Second

// Config is supplied by the host when it constructs a Dialogue.
type Config struct {
	// Host is the base URL of the graph store, e.g. http://localhost:3000.
	Host string
	// ErrorMessageTimeout is how long an error notice stays visible.
	ErrorMessageTimeout time.Duration
	// RequestTimeout bounds the POST /createRel call. Zero means no limit.
	RequestTimeout time.Duration
}

// Validate reports configuration that cannot work.
func (c Config) Validate() error {
	if c.Host == "" {
		return errors.New("connect: host is required")
	}
	if c.ErrorMessageTimeout < 0 || c.RequestTimeout < 0 {
		return errors.New("connect: timeouts must not be negative")
	}
	return nil
}
