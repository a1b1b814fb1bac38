// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Media Table - these keys locate the poster and the static variant table.
const (
	MediaPoster       = "media.poster"
	MediaVariantsFile = "media.variants_file"
)

// Playback Tuning - these keys control the poster to video handoff.
const (
	PlaybackFreezeEpsilonMs = "playback.freeze_epsilon_ms"
	PlaybackCrossfadeMs     = "playback.crossfade_ms"
)

// Media Element - these keys select and configure the kiosk media element.
const (
	Player                  = "player.default"
	PlayerSimulatedDuration = "player.simulated_duration_ms"
)

// Capability Probe - these keys describe the kiosk display and network when no browser is present.
const (
	ProbeViewportWidth = "probe.viewport_width"
	ProbePixelDensity  = "probe.pixel_density"
	ProbeSaveData      = "probe.save_data"
	ProbeEffectiveType = "probe.effective_type"
	ProbeDownlink      = "probe.downlink"
)

// Page Host - these keys configure the HTTP host.
const (
	ServerAddress      = "server.address"
	ServerAssets       = "server.assets"
	ServerResolveLimit = "server.resolve_limit"
)

// History Tracking - these keys configure the persistence of mount outcomes.
const (
	HistorySave = "history.save"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern non-interactive behavior.
const (
	CliColored = "cli.colored"
)
