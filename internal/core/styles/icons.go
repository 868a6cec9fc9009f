package styles

// Glyphs used by the board renderers.
var (
	IconChecked   = "[✓]"
	IconUnchecked = "[ ]"
	IconOverdue   = "!"
	IconCursor    = "›"
)
