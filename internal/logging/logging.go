package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options override the environment-derived defaults. Empty fields fall back
// to LOG_LEVEL / LOG_FORMAT and then to the environment name.
type Options struct {
	Level       string
	Format      string
	Environment string
}

// Setup configures the global structured logger and returns it.
func Setup(opts Options) *slog.Logger {
	logger := slog.New(NewHandler(os.Stdout, opts))
	slog.SetDefault(logger)
	return logger
}

// NewHandler builds the handler Setup installs, writing to w.
func NewHandler(w io.Writer, opts Options) slog.Handler {
	prod := isProduction(opts.Environment)
	handlerOpts := &slog.HandlerOptions{
		Level:     parseLevel(firstNonEmpty(opts.Level, os.Getenv("LOG_LEVEL")), prod),
		AddSource: os.Getenv("LOG_SOURCE") == "true",
	}

	switch format(opts.Format, prod) {
	case "json":
		return slog.NewJSONHandler(w, handlerOpts)
	case "text":
		return slog.NewTextHandler(w, handlerOpts)
	default:
		handlerOpts.ReplaceAttr = func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String("time", a.Value.Time().Format("15:04:05.000"))
			}
			return a
		}
		return slog.NewTextHandler(w, handlerOpts)
	}
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(level string, prod bool) slog.Level {
	if level == "" {
		if prod {
			return slog.LevelInfo
		}
		return slog.LevelDebug
	}

	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func format(explicit string, prod bool) string {
	if f := firstNonEmpty(explicit, os.Getenv("LOG_FORMAT")); f != "" {
		return strings.ToLower(f)
	}
	if prod {
		return "json"
	}
	return "pretty"
}

// EnvironmentName returns the detected runtime environment (dev/prod/etc).
func EnvironmentName() string {
	for _, key := range []string{"TMF_ENVIRONMENT", "ENV", "GO_ENV", "APP_ENV"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return "kubernetes"
	}
	return "development"
}

func isProduction(env string) bool {
	if env == "" {
		env = EnvironmentName()
	}
	env = strings.ToLower(env)
	return strings.HasPrefix(env, "prod") || env == "kubernetes"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
