// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/config"
)

func TestFileLogger(t *testing.T) {
	require := require.New(t)

	cfg, err := config.New(nil)
	require.NoError(err)
	cfg.LogDir = filepath.Join(t.TempDir(), "logs")

	log, err := New("test", cfg)
	require.NoError(err)
	log.Info("written to file")
	log.Stop()

	b, err := os.ReadFile(filepath.Join(cfg.LogDir, logFileName))
	require.NoError(err)
	require.Contains(string(b), "written to file")
}
