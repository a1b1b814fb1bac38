// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/backdrop-cli/backdrop/color"
	"github.com/backdrop-cli/backdrop/constant"
	"github.com/backdrop-cli/backdrop/key"
	"github.com/backdrop-cli/backdrop/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Backdrop + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []int:
		return "[]int"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	// register validates and adds a new configuration field to the global registry.
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		f := Field{Key: k, Value: v, Description: desc}
		Default[k] = f
		EnvExposed = append(EnvExposed, k)
	}

	register(key.MediaPoster, "", "Poster image URI.\nOverrides the poster of the variant table when set")
	register(key.MediaVariantsFile, "", "Path to the variant table (JSON).\nDefaults to variants.json in the config directory, then to the built-in table")
	register(key.PlaybackFreezeEpsilonMs, 80, "How close to the end of the clip, in milliseconds, playback is frozen on its last frame")
	register(key.PlaybackCrossfadeMs, 300, "Duration of the poster to video cross-fade in milliseconds")
	register(key.Player, "mpv", "Media element used by the kiosk host.\nAvailable options are: mpv, simulated")
	register(key.PlayerSimulatedDuration, 10000, "Length of the simulated clip in milliseconds")
	register(key.ProbeViewportWidth, 0.0, "Viewport width of the kiosk display in CSS pixels.\n0 means unknown")
	register(key.ProbePixelDensity, 0.0, "Device pixel ratio of the kiosk display.\n0 means unknown")
	register(key.ProbeSaveData, false, "Whether the kiosk network asks to save data")
	register(key.ProbeEffectiveType, "", "Effective connection type of the kiosk network.\nAvailable options are: slow-2g, 2g, 3g, 4g")
	register(key.ProbeDownlink, 0.0, "Downlink bandwidth of the kiosk network in Mbps.\n0 means unknown")
	register(key.ServerAddress, constant.DefaultServerAddress, "Address the page host listens on")
	register(key.ServerAssets, "", "Directory served under / by the page host.\nThe kiosk host also resolves absolute media paths inside it")
	register(key.ServerResolveLimit, 60, "Requests per minute and client IP allowed on /api/resolve.\n0 disables the limit")
	register(key.HistorySave, true, "Record how each mount settled")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
