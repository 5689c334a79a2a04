package services

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/xvierd/tomodo/internal/domain"
	"github.com/xvierd/tomodo/internal/ports"
)

// PreferenceService holds the audio alert choice for the running process.
type PreferenceService struct {
	mu       sync.RWMutex
	repo     ports.PreferenceRepository
	current  domain.AudioPreference
	loadedOK bool
	logger   zerolog.Logger
}

var _ ports.SoundChooser = (*PreferenceService)(nil)

// NewPreferenceService creates a preference service with no audio chosen.
func NewPreferenceService(repo ports.PreferenceRepository, logger zerolog.Logger) *PreferenceService {
	return &PreferenceService{repo: repo, logger: logger}
}

// Load reads the stored preference. A missing or malformed file yields no
// audio and is not an error.
func (s *PreferenceService) Load(ctx context.Context) domain.AudioPreference {
	pref, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("could not load audio preference")
		pref = domain.AudioPreference{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = pref
	s.loadedOK = pref.Permanent && pref.HasAudio()
	return pref
}

// Save overwrites the stored preference.
func (s *PreferenceService) Save(ctx context.Context, pref domain.AudioPreference) error {
	return s.repo.Save(ctx, pref)
}

// Select makes path the current alert sound. The file must exist. It is
// stored only when permanent is set; a storage failure is logged.
func (s *PreferenceService) Select(ctx context.Context, path string, permanent bool) error {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", domain.ErrAudioFileNotFound, path)
	}

	pref := domain.AudioPreference{AudioFile: path, Permanent: permanent}
	s.mu.Lock()
	s.current = pref
	if permanent {
		s.loadedOK = true
	}
	s.mu.Unlock()

	if permanent {
		if err := s.repo.Save(ctx, pref); err != nil {
			s.logger.Error().Err(err).Msg("failed to save audio preference")
		}
	}
	return nil
}

// Clear forgets the current sound and removes the stored preference.
func (s *PreferenceService) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.current = domain.AudioPreference{}
	s.loadedOK = false
	s.mu.Unlock()
	return s.repo.Save(ctx, domain.AudioPreference{})
}

// Current returns the preference in effect.
func (s *PreferenceService) Current() domain.AudioPreference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// AudioFile implements ports.AudioSource.
func (s *PreferenceService) AudioFile() string {
	return s.Current().AudioFile
}

// NeedsSelection reports whether the user should be asked for a sound,
// which is the case unless a permanent choice exists.
func (s *PreferenceService) NeedsSelection() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.loadedOK
}
