// Package logger 负责任务进程本地的日志 (stderr)。发给平台的进度日志走宿主的 Log 服务，不经过这里。
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"cafe_task/internal/shared/types"
)

const timeFormat = "2006-01-02 15:04:05"

// Init 按 cfg.Level 设置全局 logger。无法识别的级别回退到 info，并提示一次。
func Init(cfg types.LogConf) error {
	return initTo(os.Stderr, cfg)
}

func initTo(out io.Writer, cfg types.LogConf) error {
	name := strings.ToLower(strings.TrimSpace(cfg.Level))
	level, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		level = zerolog.InfoLevel
		fmt.Fprintf(out, "Unknown log level '%s', defaulting to 'info'\n", name)
	}

	// 时间统一用 UTC，和平台侧日志对齐
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: timeFormat}).
		Level(level).
		With().
		Timestamp().
		Logger()

	log.Debug().Str("level", level.String()).Msg("Local logger ready.")
	return nil
}

// WithComponent 返回带有 component 字段的子 logger，用于区分不同模块的输出。
func WithComponent(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}

// Info, Error and Fatal are shorthands for the commands, which log without a component.
func Info() *zerolog.Event { return log.Info() }

func Error() *zerolog.Event { return log.Error() }

// Fatal exits the process with status 1 once the event is sent.
func Fatal() *zerolog.Event { return log.Fatal() }
