package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/tomodo/internal/adapters/storage"
	"github.com/xvierd/tomodo/internal/domain"
)

func writeSoundFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bell.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF"), 0o644))
	return path
}

func TestPreferenceService_LoadMissing(t *testing.T) {
	repo := storage.NewPreferenceStore(filepath.Join(t.TempDir(), storage.PreferenceFileName))
	svc := NewPreferenceService(repo, zerolog.Nop())

	pref := svc.Load(context.Background())
	assert.False(t, pref.HasAudio())
	assert.True(t, svc.NeedsSelection())
	assert.Empty(t, svc.AudioFile())
}

func TestPreferenceService_SelectPermanent(t *testing.T) {
	ctx := context.Background()
	prefPath := filepath.Join(t.TempDir(), storage.PreferenceFileName)
	sound := writeSoundFile(t)

	svc := NewPreferenceService(storage.NewPreferenceStore(prefPath), zerolog.Nop())
	svc.Load(ctx)
	require.NoError(t, svc.Select(ctx, sound, true))
	assert.Equal(t, sound, svc.AudioFile())
	assert.False(t, svc.NeedsSelection())

	reloaded := NewPreferenceService(storage.NewPreferenceStore(prefPath), zerolog.Nop())
	pref := reloaded.Load(ctx)
	assert.Equal(t, domain.AudioPreference{AudioFile: sound, Permanent: true}, pref)
	assert.False(t, reloaded.NeedsSelection())
}

func TestPreferenceService_SelectSessionOnly(t *testing.T) {
	ctx := context.Background()
	prefPath := filepath.Join(t.TempDir(), storage.PreferenceFileName)
	sound := writeSoundFile(t)

	svc := NewPreferenceService(storage.NewPreferenceStore(prefPath), zerolog.Nop())
	require.NoError(t, svc.Select(ctx, sound, false))
	assert.Equal(t, sound, svc.AudioFile())

	_, err := os.Stat(prefPath)
	assert.True(t, os.IsNotExist(err), "session-only choice must not be written")

	reloaded := NewPreferenceService(storage.NewPreferenceStore(prefPath), zerolog.Nop())
	assert.False(t, reloaded.Load(ctx).HasAudio())
}

func TestPreferenceService_SelectMissingFile(t *testing.T) {
	svc := NewPreferenceService(storage.NewPreferenceStore(filepath.Join(t.TempDir(), "p.json")), zerolog.Nop())

	err := svc.Select(context.Background(), "/definitely/not/here.wav", true)
	assert.ErrorIs(t, err, domain.ErrAudioFileNotFound)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, svc.AudioFile())

	err = svc.Select(context.Background(), t.TempDir(), false)
	assert.ErrorIs(t, err, domain.ErrAudioFileNotFound, "directories are not sound files")
}

func TestPreferenceService_Clear(t *testing.T) {
	ctx := context.Background()
	prefPath := filepath.Join(t.TempDir(), storage.PreferenceFileName)
	svc := NewPreferenceService(storage.NewPreferenceStore(prefPath), zerolog.Nop())
	require.NoError(t, svc.Select(ctx, writeSoundFile(t), true))

	require.NoError(t, svc.Clear(ctx))
	assert.Empty(t, svc.AudioFile())
	assert.True(t, svc.NeedsSelection())

	reloaded := NewPreferenceService(storage.NewPreferenceStore(prefPath), zerolog.Nop())
	assert.False(t, reloaded.Load(ctx).HasAudio())
}
