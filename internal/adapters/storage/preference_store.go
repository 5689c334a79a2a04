package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/gofrs/flock"

	"github.com/xvierd/tomodo/internal/domain"
	"github.com/xvierd/tomodo/internal/ports"
)

// PreferenceFileName is the audio preference file inside the data directory.
const PreferenceFileName = "audio_pref.json"

const lockRetryDelay = 50 * time.Millisecond

type filePreference struct {
	AudioFile *string `json:"audio_file"`
	Permanent bool    `json:"permanent"`
}

// PreferenceStore keeps the audio preference in a small JSON file.
type PreferenceStore struct {
	path string
	lock *flock.Flock
}

// Ensure PreferenceStore implements ports.PreferenceRepository.
var _ ports.PreferenceRepository = (*PreferenceStore)(nil)

// NewPreferenceStore creates a store backed by the file at path.
func NewPreferenceStore(path string) *PreferenceStore {
	return &PreferenceStore{path: path, lock: flock.New(path + ".lock")}
}

// Load returns the stored preference. A missing file is not an error.
func (s *PreferenceStore) Load(ctx context.Context) (domain.AudioPreference, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.AudioPreference{}, nil
	}
	if err != nil {
		return domain.AudioPreference{}, &domain.PersistenceError{Op: "read", Path: s.path, Err: err}
	}

	var raw filePreference
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.AudioPreference{}, &domain.PersistenceError{Op: "decode", Path: s.path, Err: err}
	}

	pref := domain.AudioPreference{Permanent: raw.Permanent}
	if raw.AudioFile != nil {
		pref.AudioFile = *raw.AudioFile
	}
	return pref, nil
}

// Save overwrites the stored preference. An empty audio file is written
// as null.
func (s *PreferenceStore) Save(ctx context.Context, pref domain.AudioPreference) error {
	raw := filePreference{Permanent: pref.Permanent}
	if pref.HasAudio() {
		file := pref.AudioFile
		raw.AudioFile = &file
	}

	data, err := json.MarshalIndent(raw, "", "    ")
	if err != nil {
		return &domain.PersistenceError{Op: "encode", Path: s.path, Err: err}
	}
	return writeFileLocked(ctx, s.lock, s.path, data)
}
