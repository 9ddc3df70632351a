package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestSetup_Modes(t *testing.T) {
	defer Setup("debug")

	Setup("release")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	assert.Equal(t, zerolog.InfoLevel, Log.GetLevel())
	assert.Equal(t, Log.GetLevel(), log.Logger.GetLevel())

	Setup("test")
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	Setup("debug")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestSetup_UnknownModeFallsBackToDebug(t *testing.T) {
	defer Setup("debug")

	Setup("verbose")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}
