// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ava-labs/countervm/config"
)

const logFileName = "countervm.log"

// New returns a logger writing colored output to stdout and, if [cfg] names
// a log directory, JSON to a rotating file.
func New(prefix string, cfg *config.Config) (logging.Logger, error) {
	cores := []logging.WrappedCore{
		logging.NewWrappedCore(cfg.LogDisplayLevel, os.Stdout, logging.Colors.ConsoleEncoder()),
	}
	if len(cfg.LogDir) > 0 {
		if err := os.MkdirAll(cfg.LogDir, 0o750); err != nil {
			return nil, err
		}
		rotator := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.LogDir, logFileName),
			MaxSize:    cfg.LogMaxSize,
			MaxBackups: cfg.LogMaxFiles,
			MaxAge:     cfg.LogMaxAge,
			Compress:   cfg.LogCompress,
		}
		cores = append(cores, logging.NewWrappedCore(cfg.LogLevel, rotator, logging.JSON.FileEncoder()))
	}
	return logging.NewLogger(prefix, cores...), nil
}
