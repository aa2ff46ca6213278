package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// runId tags every record of a single CLI invocation.
var runId = uuid.NewString()

func TrySetupGlobalLevel(level string) error {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(l)
	return nil
}

// defaults to INFO
func SetLogSeverityFromEnv() {
	if lvl, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err != nil || os.Getenv("LOG_LEVEL") == "" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(lvl)
	}
}

func makeBold(str any, disabled bool) string {
	const colorBold = 1

	if disabled {
		return fmt.Sprintf("%s", str)
	}
	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", colorBold, str)
}

func makeComponentFormatter(noColor bool) zerolog.Formatter {
	return func(c any) string {
		return makeBold(fmt.Sprintf("[%s]\t", c), noColor)
	}
}

func NewLogger(component string) zerolog.Logger {
	noColor := os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stderr.Fd()))
	return NewLoggerWithWriter(component, os.Stderr, noColor)
}

// NewLoggerWithWriter builds the console logger on top of an arbitrary writer.
func NewLoggerWithWriter(component string, out io.Writer, noColor bool) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.DateTime,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			FieldComponent,
			zerolog.CallerFieldName,
			zerolog.MessageFieldName,
		},
		FieldsExclude:    []string{FieldComponent, FieldReqId},
		FormatFieldValue: makeComponentFormatter(noColor),
		NoColor:          noColor,
	}).
		With().
		Str(FieldComponent, component).
		Str(FieldReqId, runId).
		Caller().
		Timestamp().
		Logger()
}
