package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const (
	permission = 0664
)

type LogBuild struct {
	writer  io.Writer
	path    string
	level   string
	console bool
}

type LogData struct {
	LogFile *os.File
	Logger  zerolog.Logger
}

func New() *LogBuild {
	return &LogBuild{}
}

func (build *LogBuild) FromPath(path string) *LogBuild {
	build.path = path
	return build
}

func (build *LogBuild) FromWriter(w io.Writer) *LogBuild {
	build.writer = w
	return build
}

// Level acepta debug, info, warn, error (sin distinguir mayúsculas); vacío es info.
func (build *LogBuild) Level(level string) *LogBuild {
	build.level = level
	return build
}

// Console usa la salida legible de zerolog en lugar de JSON.
func (build *LogBuild) Console(enabled bool) *LogBuild {
	build.console = enabled
	return build
}

func (build *LogBuild) Make() (logData *LogData, err error) {
	logData = new(LogData)
	writer := build.writer
	if writer == nil {
		writer = os.Stderr
	}
	if build.path != "" {
		logData.LogFile, err = os.OpenFile(build.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		writer = zerolog.SyncWriter(logData.LogFile)
	}
	if build.console {
		writer = zerolog.ConsoleWriter{Out: writer, NoColor: true}
	}

	level, err := ParseLevel(build.level)
	if err != nil {
		return nil, err
	}
	logData.Logger = zerolog.New(writer).Level(level).With().Timestamp().Logger()
	return logData, nil
}

// Close cierra el archivo de log si se abrió uno.
func (logData *LogData) Close() error {
	if logData.LogFile == nil {
		return nil
	}
	return logData.LogFile.Close()
}

// ParseLevel traduce el nivel de configuración a zerolog.
func ParseLevel(level string) (zerolog.Level, error) {
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(strings.ToLower(level))
}
