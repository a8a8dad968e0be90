// Package tui is the terminal client: a local hot-seat game drawn with tview.
package tui

import (
	"context"
	"fmt"

	"github.com/lfriedrich2/4gewinnt/internal/domain"
	"github.com/lfriedrich2/4gewinnt/internal/service/game"
	"github.com/lfriedrich2/4gewinnt/internal/service/profile"
	"github.com/lfriedrich2/4gewinnt/pkg/keymap"
)

// LocalProfile is the profile ID the terminal client stores its data under.
const LocalProfile = "local"

type Options struct {
	Player1 string
	Player2 string
	NoSound bool
}

// Controller holds the game state behind the terminal UI. It is not safe for
// concurrent use; tview calls it from its event loop only.
type Controller struct {
	ctx      context.Context
	game     *domain.Game
	profiles *profile.Service
	settings profile.Settings
	stats    profile.Stats
	noSound  bool
	cursor   int
	message  string
}

// NewController loads the stored settings and applies the name overrides of
// opts, saving them for the next start.
func NewController(ctx context.Context, profiles *profile.Service, opts Options) (*Controller, error) {
	c := &Controller{
		ctx:      ctx,
		game:     domain.NewGame(),
		profiles: profiles,
		noSound:  opts.NoSound,
		cursor:   keymap.MiddleColumn,
	}

	var update profile.SettingsUpdate
	if opts.Player1 != "" {
		update.Player1Name = &opts.Player1
	}
	if opts.Player2 != "" {
		update.Player2Name = &opts.Player2
	}

	settings, err := profiles.UpdateSettings(ctx, LocalProfile, update)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	c.settings = settings

	if c.stats, err = profiles.LoadStats(ctx, LocalProfile); err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	return c, nil
}

// Drop plays into column and returns the cue for the outcome. Rejected moves
// leave the game untouched and set the message.
func (c *Controller) Drop(column int) game.Cue {
	res, err := c.game.DropPiece(column)
	if err != nil {
		c.message = rejection(err)
		return game.CueError
	}
	c.cursor = column
	c.message = ""

	if res.Status.IsTerminal() {
		if err := c.profiles.RecordResult(c.ctx, LocalProfile, res.Status, res.Winner); err != nil {
			c.message = "Could not save result: " + err.Error()
		}
		c.reload()
	}
	return game.CueForStatus(res.Status)
}

// DropAtCursor plays into the highlighted column.
func (c *Controller) DropAtCursor() game.Cue {
	return c.Drop(c.cursor)
}

// MoveCursor shifts the highlighted column by delta, clamped to the board.
func (c *Controller) MoveCursor(delta int) {
	c.cursor += delta
	if c.cursor < 0 {
		c.cursor = 0
	}
	if c.cursor >= domain.Columns {
		c.cursor = domain.Columns - 1
	}
}

func (c *Controller) NewGame() {
	c.game.Reset()
	c.cursor = keymap.MiddleColumn
	c.message = ""
}

func (c *Controller) ResetScores() {
	settings, err := c.profiles.ResetScores(c.ctx, LocalProfile)
	if err != nil {
		c.message = "Could not reset scores: " + err.Error()
		return
	}
	c.settings = settings
	c.message = "Scores reset"
}

// ToggleSound flips and saves the sound setting.
func (c *Controller) ToggleSound() {
	on := !c.settings.SoundEffects
	settings, err := c.profiles.UpdateSettings(c.ctx, LocalProfile, profile.SettingsUpdate{SoundEffects: &on})
	if err != nil {
		c.message = "Could not save settings: " + err.Error()
		return
	}
	c.settings = settings
}

// SoundOn reports whether cues should ring the terminal bell.
func (c *Controller) SoundOn() bool {
	return c.settings.SoundEffects && !c.noSound
}

func (c *Controller) Cursor() int {
	return c.cursor
}

func (c *Controller) Game() *domain.Game {
	return c.game
}

func (c *Controller) Settings() profile.Settings {
	return c.settings
}

func (c *Controller) Stats() profile.Stats {
	return c.stats
}

// Name returns the display name of p.
func (c *Controller) Name(p domain.PlayerID) string {
	if info := c.settings.Player(p); info != nil {
		return info.Name
	}
	return ""
}

// Status is the line shown above the board.
func (c *Controller) Status() string {
	switch c.game.Status() {
	case domain.StatusWon:
		return fmt.Sprintf("%s wins!", c.Name(c.game.Winner()))
	case domain.StatusDraw:
		return "Draw!"
	}
	return fmt.Sprintf("%s's turn", c.Name(c.game.CurrentPlayer()))
}

func (c *Controller) Message() string {
	return c.message
}

func (c *Controller) reload() {
	if settings, err := c.profiles.LoadSettings(c.ctx, LocalProfile); err == nil {
		c.settings = settings
	}
	if stats, err := c.profiles.LoadStats(c.ctx, LocalProfile); err == nil {
		c.stats = stats
	}
}

func rejection(err error) string {
	switch domain.Reason(err) {
	case "invalid_column":
		return "No such column"
	case "column_full":
		return "That column is full"
	case "game_over":
		return "Game over, press n for a new game"
	}
	return err.Error()
}
