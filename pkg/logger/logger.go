// Package logger holds the process-wide zerolog logger. Call Init once from
// the CLI, then hand Component loggers to services and adapters.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const defaultService = "storefront"

type Options struct {
	// Level is trace, debug, info, warn or error. Anything else means info.
	Level string
	// Pretty switches to the coloured console writer for local runs.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service tags every entry; defaults to "storefront".
	Service string
}

var (
	mu     sync.RWMutex
	once   sync.Once
	root   zerolog.Logger
	inited bool
)

// Init builds the logger on the first call and returns it. Later calls
// return the existing logger unchanged.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		out := opts.Output
		if out == nil {
			out = os.Stdout
		}
		if opts.Pretty {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
		}
		service := opts.Service
		if service == "" {
			service = defaultService
		}

		lvl := ParseLevel(opts.Level)
		zerolog.SetGlobalLevel(lvl)

		mu.Lock()
		root = zerolog.New(out).Level(lvl).With().
			Timestamp().
			Str("service", service).
			Caller().
			Logger()
		inited = true
		mu.Unlock()
	})
	return Get()
}

// Get returns the root logger. It panics before Init.
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if !inited {
		panic("logger: Get called before Init")
	}
	return root
}

// Component returns the root logger tagged with component=name.
func Component(name string) zerolog.Logger {
	return Get().With().Str("component", name).Logger()
}

// Reset forgets the logger so the next Init rebuilds it. Tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	once = sync.Once{}
	root = zerolog.Logger{}
	inited = false
}

// ParseLevel maps a level name to zerolog, accepting "warning" for warn.
func ParseLevel(s string) zerolog.Level {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "warning" {
		name = "warn"
	}
	switch name {
	case "trace", "debug", "info", "warn", "error":
		lvl, _ := zerolog.ParseLevel(name)
		return lvl
	}
	return zerolog.InfoLevel
}
