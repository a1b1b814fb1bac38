package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Success Icon = iota
	Fail
	Progress
	Warn
	Question
	Poster
	Video
	Freeze
	Network
)

var icons = map[Icon]*iconDef{
	Success: {
		emoji:   "✅",
		nerd:    "",
		plain:   "✓",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "🟩",
	},
	Fail: {
		emoji:   "❌",
		nerd:    "",
		plain:   "✗",
		kaomoji: "(╥﹏╥)",
		squares: "🟥",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "~",
		kaomoji: "(・_・)ノ",
		squares: "🟦",
	},
	Warn: {
		emoji:   "⚠️",
		nerd:    "",
		plain:   "!",
		kaomoji: "(・ω・)?",
		squares: "🟨",
	},
	Question: {
		emoji:   "❓",
		nerd:    "",
		plain:   "?",
		kaomoji: "(・・?)",
		squares: "🟪",
	},
	Poster: {
		emoji:   "🖼️",
		nerd:    "",
		plain:   "P",
		kaomoji: "[■]",
		squares: "⬜",
	},
	Video: {
		emoji:   "🎞️",
		nerd:    "",
		plain:   "V",
		kaomoji: "[▶]",
		squares: "⬛",
	},
	Freeze: {
		emoji:   "🧊",
		nerd:    "",
		plain:   "*",
		kaomoji: "(-_-)zzz",
		squares: "🟫",
	},
	Network: {
		emoji:   "📶",
		nerd:    "",
		plain:   "#",
		kaomoji: "((( ･ω･)))",
		squares: "🟧",
	},
}
