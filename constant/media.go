package constant

// Built-in presentation assets, used when no variants file is configured.
const (
	DefaultPoster        = "/images/FirstFrameVideoBackground.jpg"
	DefaultDesktopVideo  = "/videos/VideoBackground1080H264.mp4"
	DefaultMobileVideo   = "/videos/VideoBackground720H264.mp4"
	DesktopBreakpointPx  = 769
	VariantsFileName     = "variants.json"
	DefaultServerAddress = ":8080"
)
