// Package media defines the static presentation assets: quality tiers, variants and the variant table.
package media

import (
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
)

// Tier is an ordered quality class. Higher tiers need a larger effective viewport and,
// at the top, a strong network.
type Tier int

const (
	Low Tier = iota
	Medium
	High
	UltraHigh
)

// Tiers lists every tier from lowest to highest.
func Tiers() []Tier {
	return []Tier{Low, Medium, High, UltraHigh}
}

// String returns the canonical text form of the tier.
func (t Tier) String() string {
	switch t {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	case UltraHigh:
		return "ultra-high"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Valid reports whether t is one of the defined tiers.
func (t Tier) Valid() bool {
	return t >= Low && t <= UltraHigh
}

// ParseTier converts a case-insensitive tier name into a Tier.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return Low, nil
	case "medium":
		return Medium, nil
	case "high":
		return High, nil
	case "ultra-high", "ultrahigh", "ultra_high":
		return UltraHigh, nil
	default:
		return Low, fmt.Errorf("unknown quality tier %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid quality tier %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(text []byte) error {
	parsed, err := ParseTier(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// JSONSchema describes the text form of a tier for the variants file schema.
func (Tier) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Description: "Quality tier of the encoding.",
		Enum: lo.Map(Tiers(), func(t Tier, _ int) any {
			return t.String()
		}),
	}
}
