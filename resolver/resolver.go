// Package resolver maps a capability signal and the static variant table to an ordered
// candidate list, best first. Everything here is pure: no I/O, no clock, no globals.
package resolver

import (
	"fmt"

	"github.com/backdrop-cli/backdrop/media"
	"github.com/backdrop-cli/backdrop/probe"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

const (
	// UltraHighEffectiveViewportPx is the effective viewport from which UltraHigh may be offered.
	UltraHighEffectiveViewportPx = 3000
	// UltraHighCSSWidthPx is the css width from which UltraHigh may be offered regardless of density.
	UltraHighCSSWidthPx = 1920
)

// Reason explains why a variant was accepted or rejected.
type Reason string

const (
	Accepted        Reason = "accepted"
	BelowBreakpoint Reason = "viewport below breakpoint"
	WeakNetwork     Reason = "network not strong"
	BelowUltraHigh  Reason = "viewport too small for ultra-high"
)

// Decision is the verdict for a single variant.
type Decision struct {
	Variant media.Variant `json:"variant"`
	Reasons []Reason      `json:"reasons"`
}

// Passed reports whether the variant cleared every gate.
func (d Decision) Passed() bool {
	return len(d.Reasons) == 1 && d.Reasons[0] == Accepted
}

// Resolve filters variants by the gates the signal meets and orders the survivors from the
// highest tier to the lowest. If nothing survives, the full list is returned in the same
// order so there is always a candidate to try. The input slice is never modified.
func Resolve(signal probe.Signal, variants []media.Variant) []media.Variant {
	eligible := lo.Filter(variants, func(v media.Variant, _ int) bool {
		return len(gates(signal, v)) == 0
	})

	if len(eligible) == 0 {
		eligible = slices.Clone(variants)
	}

	order(eligible)
	return eligible
}

// Explain returns a decision per variant in input order, using the same gates as Resolve.
func Explain(signal probe.Signal, variants []media.Variant) []Decision {
	return lo.Map(variants, func(v media.Variant, _ int) Decision {
		reasons := gates(signal, v)
		if len(reasons) == 0 {
			reasons = []Reason{Accepted}
		}
		return Decision{Variant: v, Reasons: reasons}
	})
}

// gates returns every gate v fails under signal.
func gates(signal probe.Signal, v media.Variant) []Reason {
	var failed []Reason

	if signal.EffectiveViewportPx < v.MinViewportWidthPx {
		failed = append(failed, BelowBreakpoint)
	}

	if v.Tier == media.UltraHigh &&
		signal.EffectiveViewportPx < UltraHighEffectiveViewportPx &&
		signal.CSSWidthPx < UltraHighCSSWidthPx {
		failed = append(failed, BelowUltraHigh)
	}

	if v.NetworkGated() && !signal.NetworkStrong {
		failed = append(failed, WeakNetwork)
	}

	return failed
}

// order sorts best-first: tier descending, then breakpoint descending, then input order.
func order(variants []media.Variant) {
	slices.SortStableFunc(variants, func(a, b media.Variant) int {
		if a.Tier != b.Tier {
			return int(b.Tier) - int(a.Tier)
		}
		switch {
		case a.MinViewportWidthPx > b.MinViewportWidthPx:
			return -1
		case a.MinViewportWidthPx < b.MinViewportWidthPx:
			return 1
		default:
			return 0
		}
	})
}

// String renders a decision for CLI output.
func (d Decision) String() string {
	return fmt.Sprintf("%s: %v", d.Variant, d.Reasons)
}
