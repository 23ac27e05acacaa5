package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/morikuni/failure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Stdout as a log file keeps logs on the terminal; only useful outside the TUI.
const Stdout = "-"

func formatFrame(frame failure.Frame) string {
	return frame.Pkg() + "." + frame.Func() + ":" + strconv.Itoa(frame.Line())
}

func errorStackMarshaller(err error) interface{} {
	if cs, ok := failure.CallStackOf(err); ok {
		frames := cs.Frames()
		res := make([]string, 0, len(frames))
		for _, frame := range frames {
			res = append(res, formatFrame(frame))
		}
		return res
	}
	return err
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// SetUpLogger installs the global zerolog logger. The bubbletea program owns
// the terminal, so logs normally go to a rotated file.
func SetUpLogger(logLevel, logFormat, logFile string) (io.Closer, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(logLevel))
	if err != nil {
		return nil, err
	}

	var (
		out      io.Writer
		closer   io.Closer = nopCloser{}
		terminal bool
	)
	if logFile == "" || logFile == Stdout {
		out = os.Stdout
		terminal = isatty.IsTerminal(os.Stdout.Fd())
	} else {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		rotator := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    5, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		out, closer = rotator, rotator
	}

	var writer io.Writer
	switch logFormat {
	case "auto":
		if terminal {
			writer = zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = out })
		} else {
			writer = out
		}
	case "human":
		writer = zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.Out = out
			w.NoColor = !terminal
		})
	case "json":
		writer = out
	default:
		return nil, fmt.Errorf("invalid log format: %s, expected: [auto, json, human]", logFormat)
	}

	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(writer).With().Timestamp().Logger()
	zerolog.ErrorStackMarshaler = errorStackMarshaller
	return closer, nil
}
