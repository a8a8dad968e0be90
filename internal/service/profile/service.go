package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/lfriedrich2/4gewinnt/internal/domain"
	"github.com/lfriedrich2/4gewinnt/internal/repository/redis"
)

const (
	settingsKeyPrefix = "connectFourPro_settings:"
	statsKeyPrefix    = "connectFourPro_stats:"
)

type KeyValueStore interface {
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// Service keeps settings, scores and statistics per profile.
type Service struct {
	store KeyValueStore
	ttl   time.Duration
	// serializes read-modify-write cycles on the store
	mu sync.Mutex
}

// NewService creates the service; ttl bounds how long an idle profile's data
// is kept (0 keeps it forever).
func NewService(store KeyValueStore, ttl time.Duration) *Service {
	return &Service{store: store, ttl: ttl}
}

func (s *Service) LoadSettings(ctx context.Context, profileID string) (Settings, error) {
	settings := DefaultSettings()
	switch err := s.load(ctx, settingsKeyPrefix+profileID, &settings); {
	case errors.Is(err, errCorruptBlob):
		settings = DefaultSettings()
	case err != nil:
		return DefaultSettings(), err
	}
	settings.normalize()
	return settings, nil
}

func (s *Service) UpdateSettings(ctx context.Context, profileID string, update SettingsUpdate) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.LoadSettings(ctx, profileID)
	if err != nil {
		return settings, err
	}
	if update.Player1Name != nil {
		settings.Player1.Name = *update.Player1Name
	}
	if update.Player2Name != nil {
		settings.Player2.Name = *update.Player2Name
	}
	if update.SoundEffects != nil {
		settings.SoundEffects = *update.SoundEffects
	}
	if update.Animations != nil {
		settings.Animations = *update.Animations
	}
	settings.normalize()

	return settings, s.save(ctx, settingsKeyPrefix+profileID, settings)
}

func (s *Service) ResetScores(ctx context.Context, profileID string) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.LoadSettings(ctx, profileID)
	if err != nil {
		return settings, err
	}
	settings.Player1.Score = 0
	settings.Player2.Score = 0
	return settings, s.save(ctx, settingsKeyPrefix+profileID, settings)
}

func (s *Service) LoadStats(ctx context.Context, profileID string) (Stats, error) {
	var stats Stats
	switch err := s.load(ctx, statsKeyPrefix+profileID, &stats); {
	case errors.Is(err, errCorruptBlob):
		stats = Stats{}
	case err != nil:
		return Stats{}, err
	}
	return stats, nil
}

// RecordResult adds a finished game to the profile: the winner's score and
// the statistics. Unfinished games are ignored.
func (s *Service) RecordResult(ctx context.Context, profileID string, status domain.GameStatus, winner domain.PlayerID) error {
	if !status.IsTerminal() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stats, err := s.LoadStats(ctx, profileID)
	if err != nil {
		return err
	}
	stats.GamesPlayed++

	if status == domain.StatusDraw {
		stats.Draws++
		return s.save(ctx, statsKeyPrefix+profileID, stats)
	}

	switch winner {
	case domain.Player1:
		stats.Wins.Player1++
	case domain.Player2:
		stats.Wins.Player2++
	}
	if err := s.save(ctx, statsKeyPrefix+profileID, stats); err != nil {
		return err
	}

	settings, err := s.LoadSettings(ctx, profileID)
	if err != nil {
		return err
	}
	if p := settings.Player(winner); p != nil {
		p.Score++
	}
	return s.save(ctx, settingsKeyPrefix+profileID, settings)
}

var errCorruptBlob = errors.New("corrupt blob")

// load decodes the blob at key into dst. A missing key leaves dst untouched.
func (s *Service) load(ctx context.Context, key string, dst interface{}) error {
	raw, err := s.store.Get(ctx, key)
	if errors.Is(err, redis.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		log.Printf("[PROFILE] Could not decode %s, using defaults: %v", key, err)
		return errCorruptBlob
	}
	return nil
}

func (s *Service) save(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.store.Set(ctx, key, string(data), s.ttl); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}
