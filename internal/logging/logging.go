// Package logging builds the zap logger. The terminal belongs to the TUI, so
// logs go to a file unless told otherwise.
package logging

import (
	"fmt"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ramanasai/sereni/internal/config"
)

// FileName is the log file created in the data directory.
const FileName = "sereni.log"

// New returns a JSON logger at cfg.Level writing to cfg.File. An empty file
// means the data directory; "-" means stderr.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.EncoderConfig.TimeKey = "ts"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.Sampling = nil

	out, err := outputPath(cfg.File)
	if err != nil {
		return nil, err
	}
	zapConfig.OutputPaths = []string{out}
	zapConfig.ErrorOutputPaths = []string{"stderr"}

	return zapConfig.Build()
}

func outputPath(file string) (string, error) {
	switch file {
	case "-":
		return "stderr", nil
	case "":
		dir, err := config.DataDir()
		if err != nil {
			return "", fmt.Errorf("log directory: %w", err)
		}
		return filepath.Join(dir, FileName), nil
	}
	return homedir.Expand(file)
}
