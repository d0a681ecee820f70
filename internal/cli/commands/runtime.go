// Package commands holds the graphrel subcommands.
package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/meikuraledutech/graphrel/internal/config"
)

// Runtime is what the root command hands to every subcommand.
type Runtime struct {
	Config *config.Config
	Logger *zap.Logger
}

type runtimeKey struct{}

// WithRuntime stores rt in ctx.
func WithRuntime(ctx context.Context, rt *Runtime) context.Context {
	return context.WithValue(ctx, runtimeKey{}, rt)
}

// runtimeFrom returns the runtime set by the root command, or defaults
// with a no-op logger when none is set.
func runtimeFrom(ctx context.Context) *Runtime {
	if rt, ok := ctx.Value(runtimeKey{}).(*Runtime); ok {
		return rt
	}
	return &Runtime{
		Config: &config.Config{
			Host:                config.DefaultHost,
			Listen:              config.DefaultListen,
			ErrorMessageTimeout: config.DefaultErrorMessageTimeout,
			RequestTimeout:      config.DefaultRequestTimeout,
			LogLevel:            config.DefaultLogLevel,
			LogFormat:           config.DefaultLogFormat,
		},
		Logger: zap.NewNop(),
	}
}
