// Package logging builds the zap logger shared by the commands.
package logging

import (
	"fmt"
	"os"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"graph_scene/pkg/config"
)

// New builds a logger from cfg. Output goes to stderr, or to a rotating
// file when cfg.File is set.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var encCfg zapcore.EncoderConfig
	var opts []zap.Option
	if cfg.Development {
		encCfg = zap.NewDevelopmentEncoderConfig()
		opts = append(opts, zap.Development(), zap.AddCaller())
	} else {
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	var enc zapcore.Encoder
	var sink zapcore.WriteSyncer
	if cfg.File != "" {
		enc = zapcore.NewJSONEncoder(encCfg)
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename: cfg.File,
			MaxSize:  cfg.MaxSize, // megabytes
			MaxAge:   cfg.MaxAge,  // days
		})
	} else {
		if cfg.Development {
			enc = zapcore.NewConsoleEncoder(encCfg)
		} else {
			enc = zapcore.NewJSONEncoder(encCfg)
		}
		sink = zapcore.Lock(os.Stderr)
	}

	return zap.New(zapcore.NewCore(enc, sink, level), opts...), nil
}
