package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
//
//	0 (default) - results, errors, final status
//	1 (-v)      - + progress, startup, layout transitions
//	2 (-vv)     - + timing, config loaded, client messages
//	3 (-vvv)    - + per-step position frames, data dumps

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults    OutputCategory = iota // Layout tables, command output
	OutputErrors                           // Errors with hints
	OutputUserStatus                       // Final success/failure status

	// Level 1 (-v) - Informational
	OutputProgress // Settle progress
	OutputStartup  // Startup banners, config summary
	OutputLayout   // Layout/filter/sort transitions

	// Level 2 (-vv) - Detailed
	OutputTiming   // Settle timing
	OutputConfig   // Config values loaded/applied
	OutputMessages // WebSocket client messages

	// Level 3 (-vvv) - Trace
	OutputFrames   // Per-step position frames
	OutputDataDump // Full data structure contents
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults:    VerbosityUser,
	OutputErrors:     VerbosityUser,
	OutputUserStatus: VerbosityUser,

	OutputProgress: VerbosityInfo,
	OutputStartup:  VerbosityInfo,
	OutputLayout:   VerbosityInfo,

	OutputTiming:   VerbosityDebug,
	OutputConfig:   VerbosityDebug,
	OutputMessages: VerbosityDebug,

	OutputFrames:   VerbosityTrace,
	OutputDataDump: VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}
