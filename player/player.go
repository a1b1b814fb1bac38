// Package player provides the media elements the kiosk host can mount: an mpv process
// driven over its JSON-IPC socket, and a simulated element for demos and tests.
package player

import (
	"fmt"
	"strings"
	"time"

	"github.com/backdrop-cli/backdrop/key"
	"github.com/backdrop-cli/backdrop/playback"
	"github.com/spf13/viper"
)

const (
	MPVName       = "mpv"
	SimulatedName = "simulated"
)

// Available lists the names accepted by New.
var Available = []string{MPVName, SimulatedName}

// Player is a media element that owns resources beyond its listeners.
type Player interface {
	playback.Element

	// Close stops playback and releases every resource held by the player.
	Close() error

	// Wait returns a channel that is closed once the player can no longer play.
	Wait() <-chan struct{}
}

// New returns the player registered under name.
func New(name string) (Player, error) {
	switch strings.ToLower(name) {
	case MPVName:
		return NewMPV(), nil
	case SimulatedName:
		duration := time.Duration(viper.GetInt64(key.PlayerSimulatedDuration)) * time.Millisecond
		return NewSimulated(duration), nil
	default:
		return nil, fmt.Errorf("unknown player %q, expected one of %s", name, strings.Join(Available, ", "))
	}
}

// Configured returns the player selected in the configuration.
func Configured() (Player, error) {
	return New(viper.GetString(key.Player))
}
