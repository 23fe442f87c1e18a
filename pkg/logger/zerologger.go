package logger

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
)

type ZeroLogger struct {
	logger zerolog.Logger
}

func NewZeroLog(env string) *ZeroLogger {
	return NewWithWriter(env, os.Stdout)
}

func NewWithWriter(env string, w io.Writer) *ZeroLogger {
	level := zerolog.DebugLevel
	if env == "production" {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()

	return &ZeroLogger{logger: logger}
}

// Nop discards everything
func Nop() *ZeroLogger {
	return &ZeroLogger{logger: zerolog.Nop()}
}

// helper to convert our abstraction []Field -> zerolog fields
func convert(ctx context.Context, fields []Field) map[string]any {
	items := make(map[string]any, len(fields)+1)
	for _, f := range fields {
		items[f.Key] = f.Value
	}
	if id := RequestID(ctx); id != "" {
		items["request_id"] = id
	}
	return items
}

func (l *ZeroLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.logger.Debug().Fields(convert(ctx, fields)).Msg(msg)
}

func (l *ZeroLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.logger.Info().Fields(convert(ctx, fields)).Msg(msg)
}

func (l *ZeroLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.logger.Warn().Fields(convert(ctx, fields)).Msg(msg)
}

func (l *ZeroLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.logger.Error().Fields(convert(ctx, fields)).Msg(msg)
}
