package hlog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/kardianos/service"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Logger logr.Logger

func LogToStderr() bool {
	return os.Getenv("TIGO_LOG") == "stderr"
}

func Init(verbose bool) {
	InitWithLevel(verbose, false, zerolog.ErrorLevel)
}

func InitWithDebug(verbose bool, debug bool) {
	InitWithLevel(verbose, debug, zerolog.ErrorLevel)
}

// InitForDaemon initializes logging for daemon processes with info level as default (verbose by default)
func InitForDaemon(verbose bool) {
	InitWithLevel(verbose, false, zerolog.InfoLevel)
}

// InitWithLevel initializes logging with a specific default level
func InitWithLevel(verbose bool, debug bool, defaultLevel zerolog.Level) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	zerologr.NameFieldName = "logger"
	zerologr.NameSeparator = "/"

	var w io.Writer

	isTerminal := IsTerminal()

	if LogToStderr() || isTerminal {
		w = os.Stderr
	} else {
		var err error
		w, err = logWriter()
		if err != nil {
			panic(err)
		}
	}

	zl := zerolog.New(w)

	if isTerminal {
		zl = zl.Output(zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    !isColorTerminal(),
			TimeFormat: time.RFC3339,
		})
	}

	level := defaultLevel
	if debug {
		// --debug shows V(1) logs
		level = zerolog.DebugLevel
	} else if verbose {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zl = zl.Level(level)

	zl = zl.With().Caller().Timestamp().Logger()
	Logger = zerologr.New(&zl)
}

func isColorTerminal() bool {
	if term := os.Getenv("TERM"); term == "dumb" {
		return false
	}

	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}

	if _, exists := os.LookupEnv("CLICOLOR_FORCE"); exists {
		return true
	}

	if os.Getenv("CLICOLOR") == "0" {
		return false
	}

	if term := os.Getenv("TERM"); term != "" {
		if strings.HasSuffix(term, "-256color") ||
			strings.HasSuffix(term, "-color") ||
			strings.HasPrefix(term, "xterm") ||
			strings.HasPrefix(term, "screen") ||
			strings.HasPrefix(term, "vt100") ||
			strings.HasPrefix(term, "ansi") {
			return true
		}
	}

	return IsTerminal()
}

func logWriter() (io.Writer, error) {
	if service.Interactive() {
		return os.Stderr, nil
	}

	// Under systemd (JOURNAL_STREAM or INVOCATION_ID set), stderr goes to journald
	if os.Getenv("JOURNAL_STREAM") != "" || os.Getenv("INVOCATION_ID") != "" {
		return os.Stderr, nil
	}

	logDir := getLogDir()
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	logger := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "tigo.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 5,  // number of backups
		MaxAge:     28, // days
		Compress:   true,
	}

	return logger, nil
}

// GetLogger returns a logger for the given package name
func GetLogger(packageName string) logr.Logger {
	return Logger.WithName(packageName)
}

// IsContextCancellation checks if an error is due to context cancellation
func IsContextCancellation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ErrorIfNotCanceled logs an error only if it's not due to context cancellation
func ErrorIfNotCanceled(log logr.Logger, err error, msg string, keysAndValues ...interface{}) {
	if err != nil && !IsContextCancellation(err) {
		log.Error(err, msg, keysAndValues...)
	}
}
