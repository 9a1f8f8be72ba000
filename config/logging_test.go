package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSetupLogging(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())

	require.NoError(t, SetupLogging(LogConfig{Level: "debug"}))
	require.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	require.NoError(t, SetupLogging(LogConfig{}))
	require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	err := SetupLogging(LogConfig{Level: "loud"})
	require.ErrorIs(t, err, ErrInvalid)
}
