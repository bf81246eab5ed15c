package logger

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

var traced atomic.Bool

// Setup 根据 log 段配置全局 logger
// log.level: trace/debug/info/warn/error，log.pretty: 控制台格式，log.traced: 打开逐个动作的跟踪日志
func Setup(v *viper.Viper) zerolog.Logger {
	return SetupWriter(v, os.Stderr)
}

// SetupWriter 同 Setup，可以指定输出
func SetupWriter(v *viper.Viper, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cast.ToString(v.Get("log.level"))))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if cast.ToBool(v.Get("log.pretty")) {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000"}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	traced.Store(cast.ToBool(v.Get("log.traced")))

	log.Debug().Str("level", level.String()).Bool("traced", traced.Load()).Msg("logger configured")
	return log.Logger
}

// Traced 是否输出逐个动作的跟踪日志
func Traced() bool {
	return traced.Load()
}

// SetTraced 运行时切换跟踪日志
func SetTraced(on bool) {
	traced.Store(on)
}
