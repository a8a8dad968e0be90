package profile

import (
	"strings"

	"github.com/lfriedrich2/4gewinnt/internal/domain"
)

const (
	DefaultPlayer1Name = "Spieler 1"
	DefaultPlayer2Name = "Spieler 2"
	maxNameLength      = 32
)

type PlayerInfo struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Settings is the per-profile blob holding names, scores and preferences.
type Settings struct {
	Player1      PlayerInfo `json:"player1"`
	Player2      PlayerInfo `json:"player2"`
	SoundEffects bool       `json:"soundEffects"`
	Animations   bool       `json:"animations"`
}

func DefaultSettings() Settings {
	return Settings{
		Player1:      PlayerInfo{Name: DefaultPlayer1Name},
		Player2:      PlayerInfo{Name: DefaultPlayer2Name},
		SoundEffects: true,
		Animations:   true,
	}
}

// Player returns the entry for p, or nil for Empty.
func (s *Settings) Player(p domain.PlayerID) *PlayerInfo {
	switch p {
	case domain.Player1:
		return &s.Player1
	case domain.Player2:
		return &s.Player2
	}
	return nil
}

// Names returns the display names indexed by player.
func (s *Settings) Names() (string, string) {
	return s.Player1.Name, s.Player2.Name
}

func (s *Settings) normalize() {
	s.Player1.Name = NormalizeName(s.Player1.Name, DefaultPlayer1Name)
	s.Player2.Name = NormalizeName(s.Player2.Name, DefaultPlayer2Name)
	if s.Player1.Score < 0 {
		s.Player1.Score = 0
	}
	if s.Player2.Score < 0 {
		s.Player2.Score = 0
	}
}

// NormalizeName trims name and falls back to def when it is blank.
func NormalizeName(name, def string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return def
	}
	if r := []rune(name); len(r) > maxNameLength {
		name = string(r[:maxNameLength])
	}
	return name
}

// SettingsUpdate carries the fields a client may change. Nil flags are left
// as they are. Scores only change through results and ResetScores.
type SettingsUpdate struct {
	Player1Name  *string `json:"player1Name"`
	Player2Name  *string `json:"player2Name"`
	SoundEffects *bool   `json:"soundEffects"`
	Animations   *bool   `json:"animations"`
}

type Wins struct {
	Player1 int `json:"1"`
	Player2 int `json:"2"`
}

type Stats struct {
	GamesPlayed int  `json:"gamesPlayed"`
	Wins        Wins `json:"wins"`
	Draws       int  `json:"draws"`
}
