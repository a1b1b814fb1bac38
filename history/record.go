package history

import (
	"fmt"
	"time"

	"github.com/backdrop-cli/backdrop/playback"
	"github.com/backdrop-cli/backdrop/probe"
	"github.com/samber/lo"
)

// Record describes how a single mount settled.
type Record struct {
	Host       string         `json:"host"`
	Signal     probe.Signal   `json:"signal"`
	Candidates []string       `json:"candidates"`
	Shown      string         `json:"shown,omitempty"`
	Outcome    playback.State `json:"outcome"`
	Attempts   int            `json:"attempts"`
	MountedAt  time.Time      `json:"mounted_at"`
	SettledAt  time.Time      `json:"settled_at"`
}

// Settle returns the time from mount to the terminal state.
func (r *Record) Settle() time.Duration {
	return r.SettledAt.Sub(r.MountedAt)
}

func (r *Record) String() string {
	shown := lo.Ternary(r.Shown == "", "poster", r.Shown)
	return fmt.Sprintf(
		"%s %s: %s after %d attempt(s) in %s",
		r.MountedAt.Format(time.DateTime),
		r.Host,
		lo.Ternary(r.Outcome == playback.Frozen, shown, "poster ("+r.Outcome.String()+")"),
		r.Attempts,
		r.Settle().Round(time.Millisecond),
	)
}
