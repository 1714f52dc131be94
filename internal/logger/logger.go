package logger

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Fields = logrus.Fields

type Options struct {
	Level string
	// File enables rotated file output next to stderr. Empty disables it.
	File   string
	AppEnv string
}

func New(opts Options) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	log.SetFormatter(&formatter.Formatter{
		NoColors:        opts.File != "",
		TimestampFormat: "02 Jan 06 - 15:04:05",
		HideKeys:        false,
		CallerFirst:     true,
		CustomCallerFormatter: func(f *runtime.Frame) string {
			s := strings.Split(f.Function, ".")
			funcName := s[len(s)-1]
			return fmt.Sprintf(" [%s:%d][%s()]", path.Base(f.File), f.Line, funcName)
		},
	})

	writers := []io.Writer{os.Stderr}
	if opts.File != "" && opts.AppEnv != "test" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   opts.File,
			LocalTime:  true,
			Compress:   true,
			MaxSize:    50,
			MaxAge:     14,
			MaxBackups: 5,
		})
	}
	log.SetOutput(io.MultiWriter(writers...))
	log.SetReportCaller(true)

	return log
}

// ErrorWithTraceID logs msg at error level under a fresh trace id and
// returns the id so it can be shown to the user.
func ErrorWithTraceID(log logrus.FieldLogger, fields Fields, msg string) string {
	traceID := "unknown"
	if id, err := uuid.NewRandom(); err == nil {
		traceID = id.String()[:8]
	}
	if fields == nil {
		fields = Fields{}
	}
	fields["trace_id"] = traceID
	log.WithFields(fields).Error(msg)
	return traceID
}
