package grapherror

import (
	"fmt"
	"time"

	"github.com/teranos/songnet/errors"
)

// GraphError represents an error in the graph system with structured context
type GraphError struct {
	Err         error                  // Underlying error
	Category    Category               // Main category
	Subcategory string                 // Optional subcategory
	UserMessage string                 // User-friendly message for UI display
	Context     map[string]interface{} // Additional context for debugging
	Timestamp   time.Time              // When the error occurred
}

// Error implements the error interface
func (e *GraphError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMessage
}

// Unwrap returns the underlying error for errors.Is/As compatibility
func (e *GraphError) Unwrap() error {
	return e.Err
}

// New creates a new GraphError with the specified category and messages
func New(category Category, err error, userMsg string) *GraphError {
	return &GraphError{
		Err:         err,
		Category:    category,
		UserMessage: userMsg,
		Context:     make(map[string]interface{}),
		Timestamp:   time.Now(),
	}
}

// Newf creates a new GraphError with a formatted error message
func Newf(category Category, userMsg, format string, args ...interface{}) *GraphError {
	return &GraphError{
		Err:         errors.Newf(format, args...),
		Category:    category,
		UserMessage: userMsg,
		Context:     make(map[string]interface{}),
		Timestamp:   time.Now(),
	}
}

// WithSubcategory adds a subcategory to the error
func (e *GraphError) WithSubcategory(sub string) *GraphError {
	e.Subcategory = sub
	return e
}

// WithContext adds a context key-value pair for debugging
func (e *GraphError) WithContext(key string, value interface{}) *GraphError {
	e.Context[key] = value
	return e
}

// Endpoint names which end of a link failed to resolve
type Endpoint string

const (
	EndpointSource Endpoint = "source"
	EndpointTarget Endpoint = "target"
)

// DanglingReferenceError reports a link whose endpoint id matches no node.
// It fails the whole load.
type DanglingReferenceError struct {
	LinkIndex int
	Endpoint  Endpoint
	ID        string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("link %d: %s %q does not match any node", e.LinkIndex, e.Endpoint, e.ID)
}

// NewDanglingReference wraps a DanglingReferenceError in a graph/dangling_reference GraphError
func NewDanglingReference(linkIndex int, endpoint Endpoint, id string) *GraphError {
	dangling := &DanglingReferenceError{LinkIndex: linkIndex, Endpoint: endpoint, ID: id}
	return New(CategoryGraph, errors.WithStack(dangling),
		fmt.Sprintf("Dataset link %d points at unknown song %q", linkIndex, id)).
		WithSubcategory(SubcategoryGraphDanglingReference).
		WithContext("link_index", linkIndex).
		WithContext("endpoint", string(endpoint)).
		WithContext("node_id", id)
}

// NewInvalidMode reports an unknown mode string for the given setting (layout, filter, sort)
func NewInvalidMode(setting, value string, valid ...string) *GraphError {
	err := errors.WithHintf(
		errors.Wrapf(errors.ErrInvalidMode, "unknown %s %q", setting, value),
		"valid values: %v", valid,
	)
	return New(CategoryParse, err, fmt.Sprintf("Unknown %s %q", setting, value)).
		WithSubcategory(SubcategoryParseInvalidMode).
		WithContext("setting", setting).
		WithContext("value", value)
}

// As extracts a GraphError from an error chain
func As(err error) (*GraphError, bool) {
	var gerr *GraphError
	if errors.As(err, &gerr) {
		return gerr, true
	}
	return nil, false
}
