package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Reconcile Errors (E001-E019)
	// ============================================

	"E001": {
		Category: CategoryReconcile,
		Message:  "Duplicate node key",
		Detail:   "Two nodes in the same sibling sequence share a key. The last occurrence wins; the view code that builds the tree should emit unique keys.",
	},
	"E002": {
		Category: CategoryReconcile,
		Message:  "Unknown node type",
		Detail:   "A tree file names a node type that has no props schema.",
	},

	// ============================================
	// Widget Errors (E020-E039)
	// ============================================

	"E020": {
		Category: CategoryWidget,
		Message:  "Widget adapter failed to apply patch",
		Detail:   "The widget toolkit rejected a mutation. Patches after the failing one were not applied and the next render rebuilds the panel from scratch.",
	},
	"E021": {
		Category: CategoryWidget,
		Message:  "Widget handle not found",
		Detail:   "A patch referenced a widget handle the adapter does not know.",
	},

	// ============================================
	// Setting Errors (E040-E059)
	// ============================================

	"E040": {
		Category: CategorySetting,
		Message:  "Unknown setting",
		Detail:   "The preference key is not part of the settings catalog.",
	},
	"E041": {
		Category: CategorySetting,
		Message:  "Invalid setting value",
		Detail:   "The value does not fit the setting's type, options or range.",
	},
	"E042": {
		Category: CategorySetting,
		Message:  "Unknown view event",
		Detail:   "The event kind is not one the settings panel understands.",
	},

	// ============================================
	// Protocol Errors (E060-E079)
	// ============================================

	"E060": {
		Category: CategoryProtocol,
		Message:  "Malformed message",
		Detail:   "A binary frame or request body could not be decoded.",
	},

	// ============================================
	// Config Errors (E120-E149)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The hardfox.json file contains invalid JSON or could not be written.",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range or malformed.",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No hardfox.json file was found.",
	},

	// ============================================
	// Catalog Errors (E150-E159)
	// ============================================

	"E150": {
		Category: CategoryCatalog,
		Message:  "Settings catalog could not be loaded",
		Detail:   "The catalog file is missing, is not valid YAML, or describes an invalid setting.",
	},

	// ============================================
	// CLI Errors (E160-E169)
	// ============================================

	"E160": {
		Category: CategoryCLI,
		Message:  "Invalid tree file",
		Detail:   "The tree file passed to 'hardfox diff' could not be read or parsed.",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
