// Package logger owns the process wide zerolog root and the context helpers that enrich it
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"livetakip/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the root logger
type Options struct {
	Level   string
	Format  string // console or json
	Service string
	Writer  io.Writer
	Caller  bool
	File    FileOptions
	Static  map[string]string
}

// FileOptions enables a rotating log file next to stdout
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// FromEnv reads LOG_* through the raw view
func FromEnv() Options {
	rc := raw.New().Prefix("LOG_")
	return Options{
		Level:   strings.ToLower(rc.Get("LEVEL", "info")),
		Format:  strings.ToLower(rc.Get("FORMAT", "console")),
		Service: rc.Get("SERVICE", "livetakip"),
		Caller:  rc.GetBool("CALLER", false),
		File: FileOptions{
			Path:       rc.Get("FILE", ""),
			MaxSizeMB:  rc.GetInt("FILE_MAX_MB", 100),
			MaxBackups: rc.GetInt("FILE_MAX_BACKUPS", 5),
			MaxAgeDays: rc.GetInt("FILE_MAX_AGE_DAYS", 14),
			Compress:   rc.GetBool("FILE_COMPRESS", true),
		},
	}
}

// Logger is the project logging type
type Logger = zerolog.Logger

var (
	once sync.Once
	root atomic.Pointer[zerolog.Logger]
)

// Get returns the root logger, initializing it from env on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

// Init builds the root logger once; later calls are ignored
func Init(opt Options) {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano

		l := zerolog.New(sink(opt)).Level(parseLevel(opt.Level)).With().Timestamp().Logger()
		if opt.Service != "" {
			l = l.With().Str("service", opt.Service).Logger()
		}
		for k, v := range opt.Static {
			l = l.With().Str(k, v).Logger()
		}
		if opt.Caller {
			l = l.With().Caller().Logger()
		}
		root.Store(&l)
	})
}

// sink picks stdout (or opt.Writer), wraps it for console output and tees into the rotating file
func sink(opt Options) io.Writer {
	var out io.Writer = os.Stdout
	if opt.Writer != nil {
		out = opt.Writer
	}
	if opt.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	if opt.File.Path == "" {
		return out
	}
	// file output is always json
	return zerolog.MultiLevelWriter(out, RotatingFile(opt.File))
}

// RotatingFile returns a lumberjack writer for opt
func RotatingFile(opt FileOptions) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   opt.Path,
		MaxSize:    opt.MaxSizeMB,
		MaxBackups: opt.MaxBackups,
		MaxAge:     opt.MaxAgeDays,
		Compress:   opt.Compress,
	}
}

func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

type ctxKey int

const (
	keyRequestID ctxKey = iota
	keyJobID
)

// WithRequestID stores the inbound request id on ctx
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, keyRequestID, id)
}

// WithJobID stores the sync job id on ctx so every pipeline line carries it
func WithJobID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, keyJobID, id)
}

// JobID returns the job id stored on ctx
func JobID(ctx context.Context) string {
	s, _ := ctx.Value(keyJobID).(string)
	return s
}

// RequestIDFrom returns the request id stored on ctx
func RequestIDFrom(ctx context.Context) string {
	s, _ := ctx.Value(keyRequestID).(string)
	return s
}

// C returns a child of the root enriched with request_id and job_id from ctx
func C(ctx context.Context) *Logger {
	b := Get().With()
	if s, _ := ctx.Value(keyRequestID).(string); s != "" {
		b = b.Str("request_id", s)
	}
	if s, _ := ctx.Value(keyJobID).(string); s != "" {
		b = b.Str("job_id", s)
	}
	l := b.Logger()
	return &l
}

// Named returns a child logger tagged with component
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}
