package tui

// Color constants for the clientflow TUI theme
const (
	// Base Colors
	ColorCardBackground = "#0F1E24" // Deep teal
	ColorBorder         = "#34505A" // Slate

	// Text Colors
	ColorPrimaryText   = "#E8F1F2" // Field labels, user input, titles
	ColorSecondaryText = "#A9BCC0" // Hints and secondary values
	ColorDisabledText  = "#61757A" // Skipped steps, empty values
	ColorPlaceholder   = "#A9BCC0"
	ColorHelpText      = "240" // Dark grey for help text

	// Accent Colors
	ColorAccentMain   = "#0EA5A4" // Headers, active borders
	ColorAccentBright = "#5EEAD4" // Current step, highlights

	// State Colors
	ColorError   = "#EF4444" // Validation errors
	ColorSuccess = "#22C55E" // Completed steps, confirmations
	ColorWarning = "#F59E0B" // Due soon, running timers
)
