// Package sound plays the completion chime.
package sound

import (
	"os"

	"revisor/config"
	"revisor/internal/sysexec"

	"github.com/sirupsen/logrus"
)

// players are tried in order.
var players = []string{"paplay", "aplay"}

// Player plays the first available sound file with the first available player.
type Player struct {
	runner  sysexec.Runner
	enabled bool
	files   []string
}

// NewPlayer creates a Player from the sound configuration.
func NewPlayer(runner sysexec.Runner, cfg config.SoundConfig) *Player {
	files := cfg.Files
	if len(files) == 0 {
		files = config.DefaultSoundFiles
	}
	return &Player{runner: runner, enabled: cfg.Enabled, files: files}
}

// Notify starts the chime without waiting for it. Failures are only logged.
func (p *Player) Notify() {
	if !p.enabled {
		return
	}

	player := ""
	for _, name := range players {
		if _, ok := p.runner.LookPath(name); ok {
			player = name
			break
		}
	}
	if player == "" {
		logrus.Debug("No audio player found; skipping notification sound.")
		return
	}

	for _, file := range p.files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := p.runner.Start(player, file); err != nil {
			logrus.Debugf("Notification sound failed: %v", err)
			continue
		}
		return
	}
	logrus.Debug("No notification sound file found.")
}
