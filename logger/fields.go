package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across songnet.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"

	// Layout state
	FieldMode       = "mode"
	FieldFilter     = "filter"
	FieldSort       = "sort"
	FieldGeneration = "generation"
	FieldForces     = "forces"

	// Graph stats
	FieldNodes   = "nodes"
	FieldLinks   = "links"
	FieldGroups  = "groups"
	FieldNodeID  = "node_id"
	FieldSearch  = "search"
	FieldMatches = "matches"

	// Timing
	FieldDurationMS = "duration_ms"
	FieldSteps      = "steps"

	// Errors
	FieldError = "error"

	// Files and network
	FieldPath     = "path"
	FieldAddress  = "address"
	FieldClientID = "client_id"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Controller struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func NewController() *Controller {
//	    return &Controller{
//	        logger: logger.ComponentLogger("layout"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
//	clientLogger := logger.ChildLogger(baseLogger, logger.FieldClientID, id)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
