package errors

import (
	"maps"
	"slices"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Runtime (E001-E099)
	"E001": {
		Category: CategoryRuntime,
		Message:  "Component registry lookup failed",
		Detail:   "A mounted node carries a component marker that does not name a live registry entry. Component markers must only be written by the runtime that rendered the node.",
		DocURL:   "https://ive.dev/docs/errors/E001",
	},
	"E002": {
		Category: CategoryRuntime,
		Message:  "Render function did not return an element",
		Detail:   "A watched render function must return exactly one element node. Wrap text, fragments and multiple top-level nodes in an element such as a div.",
		DocURL:   "https://ive.dev/docs/errors/E002",
	},
	"E003": {
		Category: CategoryRuntime,
		Message:  "Binding used after dispose",
		Detail:   "Render was called on a binding whose registry entry has been removed by Dispose.",
		DocURL:   "https://ive.dev/docs/errors/E003",
	},
	"E004": {
		Category: CategoryRuntime,
		Message:  "Invalid initial location",
		Detail:   "The runtime could not parse the initial window location.",
		DocURL:   "https://ive.dev/docs/errors/E004",
	},

	// Config (E100-E199)
	"E101": {
		Category: CategoryConfig,
		Message:  "Configuration file could not be read",
		Detail:   "The configuration file exists but could not be read or parsed as JSON or YAML.",
		DocURL:   "https://ive.dev/docs/errors/E101",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Configuration is invalid",
		Detail:   "One or more configuration fields failed validation.",
		DocURL:   "https://ive.dev/docs/errors/E102",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Configuration watch failed",
		Detail:   "The configuration file could not be watched for changes.",
		DocURL:   "https://ive.dev/docs/errors/E103",
	},

	// Export (E200-E299)
	"E201": {
		Category: CategoryExport,
		Message:  "Snapshot export failed",
		Detail:   "A rendered snapshot could not be written to its sink.",
		DocURL:   "https://ive.dev/docs/errors/E201",
	},
	"E202": {
		Category: CategoryExport,
		Message:  "Snapshot did not settle",
		Detail:   "The page still had pending asynchronous work when the export deadline passed.",
		DocURL:   "https://ive.dev/docs/errors/E202",
	},

	// Routing (E300-E399)
	"E301": {
		Category: CategoryRouting,
		Message:  "Lazy route module failed to load",
		Detail:   "The deferred module for a matched route was rejected. The page is left unchanged.",
		DocURL:   "https://ive.dev/docs/errors/E301",
	},
	"E302": {
		Category: CategoryRouting,
		Message:  "Location outside router mount path",
		Detail:   "The current location does not start with the router's mount prefix, so the router renders nothing.",
		DocURL:   "https://ive.dev/docs/errors/E302",
	},

	// Server (E400-E499)
	"E401": {
		Category: CategoryServer,
		Message:  "Live preview server failed",
		Detail:   "The preview HTTP server stopped with an error.",
		DocURL:   "https://ive.dev/docs/errors/E401",
	},
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	return slices.Sorted(maps.Keys(registry))
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
