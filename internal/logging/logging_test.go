package logging

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLevels(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	tests := []struct {
		level     string
		want      zerolog.Level
		wantDebug bool
	}{
		{"debug", zerolog.DebugLevel, true},
		{"WARN", zerolog.WarnLevel, false},
		{"", zerolog.InfoLevel, false},
		{"loud", zerolog.InfoLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			Init(tt.level, &bytes.Buffer{})
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
			assert.Equal(t, tt.wantDebug, DebugEnabled())
		})
	}
}

func TestInitWritesToWriter(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	Init("info", &buf)
	log.Info().Str("task", "write docs").Msg("task added")
	log.Debug().Msg("hidden")

	out := buf.String()
	assert.Contains(t, out, "task added")
	assert.Contains(t, out, "write docs")
	assert.NotContains(t, out, "hidden")
}

func TestOpenFileCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tomodo.log")
	f, err := OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.WriteString("hello\n")
	require.NoError(t, err)
}
