package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://signup.vango.dev/docs/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Configuration errors (E100-E199)

	"E100": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "The file passed with --config does not exist.",
		DocURL:   docBase + "E100",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Unsupported configuration format",
		Detail:   "Configuration files must end in .json or .hcl.",
		DocURL:   docBase + "E101",
	},
	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file could not be parsed.",
		DocURL:   docBase + "E120",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		DocURL:   docBase + "E121",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid port",
		Detail:   "The port must be between 1 and 65535.",
		DocURL:   docBase + "E122",
	},

	// Server and protocol errors (E200-E299)

	"E200": {
		Category: CategoryServer,
		Message:  "Server failed to start",
		Detail:   "The HTTP listener could not be opened.",
		DocURL:   docBase + "E200",
	},
	"E201": {
		Category: CategoryServer,
		Message:  "Port already in use",
		Detail:   "Another process is listening on the configured port.",
		DocURL:   docBase + "E201",
	},
	"E210": {
		Category: CategoryProtocol,
		Message:  "WebSocket upgrade failed",
		DocURL:   docBase + "E210",
	},

	// CLI errors (E300-E399)

	"E300": {
		Category: CategoryCLI,
		Message:  "Render failed",
		Detail:   "The page could not be rendered.",
		DocURL:   docBase + "E300",
	},
	"E301": {
		Category: CategoryCLI,
		Message:  "Invalid flag value",
		DocURL:   docBase + "E301",
	},
}

// Register adds or replaces an error template.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}

// Lookup returns the template for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
