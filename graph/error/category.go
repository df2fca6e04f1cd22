package grapherror

// Category represents the main error category for graph operations
type Category string

const (
	// CategoryParse indicates an unparseable mode string or client message
	CategoryParse Category = "parse"

	// CategoryData indicates dataset loading or decoding errors
	CategoryData Category = "data"

	// CategoryWebSocket indicates WebSocket connection/communication errors
	CategoryWebSocket Category = "websocket"

	// CategoryInternal indicates internal server errors
	CategoryInternal Category = "internal"

	// CategoryGraph indicates graph building errors
	CategoryGraph Category = "graph"
)

// String returns the string representation of the category
func (c Category) String() string {
	return string(c)
}

// Parse Subcategories
const (
	// SubcategoryParseInvalidMode indicates an unknown layout, filter or sort mode
	SubcategoryParseInvalidMode = "invalid_mode"

	// SubcategoryParseInvalidMessage indicates a malformed client message
	SubcategoryParseInvalidMessage = "invalid_message"

	// SubcategoryParseUnknownCommand indicates a console or message type that does not exist
	SubcategoryParseUnknownCommand = "unknown_command"
)

// Data Subcategories
const (
	// SubcategoryDataRead indicates the dataset could not be read
	SubcategoryDataRead = "read"

	// SubcategoryDataFormat indicates an unsupported dataset format
	SubcategoryDataFormat = "format"

	// SubcategoryDataDecode indicates the dataset could not be decoded
	SubcategoryDataDecode = "decode"
)

// WebSocket Subcategories
const (
	// SubcategoryWSRead indicates error reading from WebSocket
	SubcategoryWSRead = "read"

	// SubcategoryWSWrite indicates error writing to WebSocket
	SubcategoryWSWrite = "write"

	// SubcategoryWSUpgrade indicates WebSocket upgrade failed
	SubcategoryWSUpgrade = "upgrade"
)

// Graph Subcategories
const (
	// SubcategoryGraphBuild indicates graph building failed
	SubcategoryGraphBuild = "build"

	// SubcategoryGraphValidate indicates a record failed validation (duplicate id, negative playcount)
	SubcategoryGraphValidate = "validate"

	// SubcategoryGraphDanglingReference indicates a link names a node that does not exist
	SubcategoryGraphDanglingReference = "dangling_reference"

	// SubcategoryGraphEmpty indicates graph is empty (not necessarily an error)
	SubcategoryGraphEmpty = "empty"
)

// Internal Subcategories
const (
	// SubcategoryInternalConfig indicates configuration error
	SubcategoryInternalConfig = "config"

	// SubcategoryInternalState indicates invalid internal state
	SubcategoryInternalState = "invalid_state"
)
