package media

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/backdrop-cli/backdrop/constant"
	"github.com/backdrop-cli/backdrop/filesystem"
	"github.com/backdrop-cli/backdrop/key"
	"github.com/backdrop-cli/backdrop/log"
	"github.com/backdrop-cli/backdrop/where"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// ErrNoUngatedVariant is reported by Validate when every variant carries a device or network gate.
var ErrNoUngatedVariant = errors.New("variant table has no ungated variant")

// Table is the static presentation configuration supplied by the page shell:
// the permanent poster layer and the unordered list of video variants.
type Table struct {
	Poster   string    `json:"poster" jsonschema:"required,description=URI of the poster image shown until video frames are available."`
	Variants []Variant `json:"variants" jsonschema:"required,minItems=1"`
}

// Default returns the built-in table: 720p for mobile layouts, 1080p from the desktop breakpoint up.
func Default() Table {
	return Table{
		Poster: constant.DefaultPoster,
		Variants: []Variant{
			{URI: constant.DefaultMobileVideo, Tier: Low},
			{URI: constant.DefaultDesktopVideo, Tier: Medium, MinViewportWidthPx: constant.DesktopBreakpointPx},
		},
	}
}

// Validate checks the configuration-time contract of the table.
func (t Table) Validate() error {
	if t.Poster == "" {
		return errors.New("variant table has no poster")
	}

	for i, v := range t.Variants {
		if v.URI == "" {
			return fmt.Errorf("variant %d: empty uri", i)
		}
		if !v.Tier.Valid() {
			return fmt.Errorf("variant %d: invalid tier %d", i, int(v.Tier))
		}
		if v.MinViewportWidthPx < 0 {
			return fmt.Errorf("variant %d: negative breakpoint %v", i, v.MinViewportWidthPx)
		}
	}

	if !lo.SomeBy(t.Variants, Variant.Ungated) {
		return ErrNoUngatedVariant
	}

	return nil
}

// Load reads a JSON variant table from path using the active filesystem backend.
func Load(path string) (Table, error) {
	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read variants: %w", err)
	}

	var table Table
	if err := json.Unmarshal(data, &table); err != nil {
		return Table{}, fmt.Errorf("decode variants %s: %w", path, err)
	}

	return table, nil
}

// Save writes the table as indented JSON to path.
func Save(path string, table Table) error {
	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return err
	}

	return filesystem.API().WriteFile(path, append(data, '\n'), 0o644)
}

// Configured resolves the table for this deployment.
// An explicit media.variants_file must load; otherwise the variants file in the config directory
// is used when present, falling back to the built-in table. media.poster overrides the table poster.
// A table that fails validation is still returned and only logged.
func Configured() (Table, error) {
	var (
		table Table
		err   error
	)

	if path := viper.GetString(key.MediaVariantsFile); path != "" {
		table, err = Load(path)
		if err != nil {
			return Table{}, err
		}
	} else if exists, _ := filesystem.API().Exists(where.Variants()); exists {
		table, err = Load(where.Variants())
		if err != nil {
			return Table{}, err
		}
	} else {
		table = Default()
	}

	if poster := viper.GetString(key.MediaPoster); poster != "" {
		table.Poster = poster
	}

	if err := table.Validate(); err != nil {
		log.Warnf("variant table: %v", err)
	}

	return table, nil
}

