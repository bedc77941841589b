package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/labstack/echo/v4"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ctxKey struct{}

const echoKey = "logger"

var (
	once sync.Once
	base *slog.Logger
)

// Init は全体のloggerを1回だけ作る（stdout + ローテーションするファイル）。
// main で logging.Init("pos", cfg.LogFile)
func Init(component, filePath string) *slog.Logger {
	once.Do(func() {
		_ = os.MkdirAll(filepath.Dir(filePath), 0755)

		rot := &lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
			Compress:   false,
		}
		mw := io.MultiWriter(os.Stdout, rot)

		h := slog.NewJSONHandler(mw, &slog.HandlerOptions{Level: slog.LevelInfo})
		base = slog.New(h).With("component", component)
	})
	return base
}

// 全体のlogger。Init前は slog.Default
func Base() *slog.Logger {
	if base == nil {
		return slog.Default()
	}
	return base
}

// componentを付けた子logger
func New(component string) *slog.Logger {
	return Base().With("component", component)
}

// contextにloggerを入れる
func WithCtx(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// contextのlogger。無ければ全体のlogger
func FromCtx(ctx context.Context) *slog.Logger {
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return Base()
}

// リクエストのloggerを echo.Context とリクエストのcontextの両方に入れる
func With(c echo.Context, l *slog.Logger) {
	c.Set(echoKey, l)
	c.SetRequest(c.Request().WithContext(WithCtx(c.Request().Context(), l)))
}

// echo.Contextのlogger。無ければ全体のlogger
func From(c echo.Context) *slog.Logger {
	if l, ok := c.Get(echoKey).(*slog.Logger); ok && l != nil {
		return l
	}
	return Base()
}
