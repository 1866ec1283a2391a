package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the process-wide structured logger. It discards everything until
// Init is called, which keeps tests quiet.
var Log = zerolog.Nop()

// Init sets up the global zerolog logger with JSON output on stdout and, when
// logFile is non-empty, a size-rotated copy on disk.
func Init(level, service, logFile string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.DurationFieldUnit = time.Millisecond
	zerolog.DurationFieldInteger = true

	var out io.Writer = os.Stdout
	if logFile != "" {
		out = zerolog.MultiLevelWriter(os.Stdout, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    100,
			MaxAge:     30,
			MaxBackups: 3,
			Compress:   true,
		})
	}

	Log = zerolog.New(out).With().
		Timestamp().
		Str("service", service).
		Logger()
}
