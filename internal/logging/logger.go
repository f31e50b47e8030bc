package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"sharehub/internal/config"
)

// Build constructs the root logger for one of the two binaries. Every
// line carries the app identity plus the component name ("server" or
// "gateway") so interleaved output from both tiers stays attributable.
// The returned closer is non-nil only for file sinks.
func Build(cfg config.LoggingConfig, app config.AppConfig, component string) (zerolog.Logger, io.Closer, error) {
	sink, closer, err := openSink(cfg)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	if normalize(cfg.Format) == "console" {
		sink = zerolog.ConsoleWriter{Out: sink, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	logger := zerolog.New(sink).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("app", app.Name).
		Str("env", app.Environment).
		Str("version", app.Version).
		Str("component", component).
		Logger()
	return logger, closer, nil
}

// parseLevel falls back to info on anything zerolog does not recognize.
func parseLevel(raw string) zerolog.Level {
	level, err := zerolog.ParseLevel(normalize(raw))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

func openSink(cfg config.LoggingConfig) (io.Writer, io.Closer, error) {
	switch normalize(cfg.Output) {
	case "", "stdout":
		return os.Stdout, nil, nil
	case "stderr":
		return os.Stderr, nil, nil
	case "file":
		if cfg.FilePath == "" {
			return nil, nil, errors.New("logging.output=file requires logging.file_path")
		}
		file, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return file, file, nil
	default:
		return nil, nil, fmt.Errorf("unknown logging output %q", cfg.Output)
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
