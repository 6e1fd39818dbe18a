// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/consts"
)

func TestDisabledTracer(t *testing.T) {
	require := require.New(t)

	for _, cfg := range []*Config{nil, {Enabled: false, AppName: "countervm"}} {
		tracer, err := New(cfg)
		require.NoError(err)

		_, span := tracer.Start(context.Background(), "noop")
		require.False(span.IsRecording())
		span.End()
		require.NoError(tracer.Close())
	}
}

func TestEnabledTracer(t *testing.T) {
	require := require.New(t)

	tracer, err := New(&Config{
		Enabled:         true,
		TraceSampleRate: 1,
		AppName:         "countervm",
		Agent:           "test",
	})
	require.NoError(err)

	_, span := tracer.Start(context.Background(), "sampled")
	require.True(span.IsRecording())
	span.End()
}

func TestConfigDefaults(t *testing.T) {
	require := require.New(t)

	cfg := Config{Enabled: true}.withDefaults()
	require.Equal(DefaultEndpoint, cfg.Endpoint)
	require.Equal(consts.Name, cfg.AppName)
	require.Equal(consts.Name, cfg.Agent)
	require.Equal(consts.Version.String(), cfg.Version)

	set := Config{Endpoint: "http://collector:9411/api/v2/spans", Agent: "node-1"}.withDefaults()
	require.Equal("http://collector:9411/api/v2/spans", set.Endpoint)
	require.Equal("node-1", set.Agent)
}
