package game

import "github.com/lfriedrich2/4gewinnt/internal/domain"

// Cue names the sound a client plays for an outcome. The engine knows nothing
// about sound; cues are derived from results here.
type Cue string

const (
	CueDrop  Cue = "drop"
	CueWin   Cue = "win"
	CueDraw  Cue = "draw"
	CueError Cue = "error"
)

// Tone describes an oscillator beep; Waveform is a Web Audio oscillator type.
type Tone struct {
	Frequency float64 `json:"frequency"`
	Duration  float64 `json:"duration"`
	Waveform  string  `json:"type"`
}

var tones = map[Cue]Tone{
	CueDrop:  {Frequency: 220, Duration: 0.1, Waveform: "sine"},
	CueWin:   {Frequency: 440, Duration: 0.3, Waveform: "square"},
	CueError: {Frequency: 150, Duration: 0.1, Waveform: "sawtooth"},
	CueDraw:  {Frequency: 330, Duration: 0.2, Waveform: "triangle"},
}

// Tones returns a copy of the cue table.
func Tones() map[Cue]Tone {
	out := make(map[Cue]Tone, len(tones))
	for k, v := range tones {
		out[k] = v
	}
	return out
}

func CueForStatus(status domain.GameStatus) Cue {
	switch status {
	case domain.StatusWon:
		return CueWin
	case domain.StatusDraw:
		return CueDraw
	}
	return CueDrop
}
