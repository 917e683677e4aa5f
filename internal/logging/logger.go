// Package logging builds the categorized zap loggers used by the CLI.
// Logs go to stderr so they never mix with table output on stdout.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryConfig   Category = "config"   // paranoia.yml and value pools
	CategoryOrganize Category = "organize" // assignment generation
	CategoryStore    Category = "store"    // organization file reads and writes
	CategoryLayout   Category = "layout"   // card layout
	CategoryRender   Category = "render"   // PDF output
	CategoryWatch    Category = "watch"    // re-render on change
)

// Options selects verbosity, encoding and destination.
type Options struct {
	Verbose bool   // forces debug level
	Level   string // debug, info, warn, error; empty means info
	Format  string // console or json
	Output  zapcore.WriteSyncer
}

// New builds a logger from opts.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		l, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q", opts.Level)
		}
		level = l
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch strings.ToLower(opts.Format) {
	case "", "console":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encCfg.CallerKey = zapcore.OmitKey
		enc = zapcore.NewConsoleEncoder(encCfg)
	case "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	default:
		return nil, fmt.Errorf("invalid log format %q (want console or json)", opts.Format)
	}

	out := opts.Output
	if out == nil {
		out = zapcore.Lock(os.Stderr)
	}
	return zap.New(zapcore.NewCore(enc, out, level)), nil
}

// For returns the logger for a category. A nil base yields a no-op logger.
func For(base *zap.Logger, category Category) *zap.Logger {
	if base == nil {
		return zap.NewNop()
	}
	return base.Named(string(category))
}
