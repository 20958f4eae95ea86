package app

// Config holds runtime configuration for the application.
type Config struct {
	// Server
	Addr string

	// One-shot CLI run; empty Topic means serve the UI.
	Topic      string
	Subthemes  string
	Audience   string
	Depth      string
	OutputJSON string
	OutputMD   string
	OutputDoc  string

	// LLM
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string
	// GroundingTool is the server-side search tool; "none" disables it.
	GroundingTool string

	// Optional local grounding
	SearxURL       string
	SearxKey       string
	SearxUA        string
	FileSearchPath string
	SearchLimit    int
	LanguageHint   string

	// Export
	PDFFont string

	Verbose bool
}

const (
	DefaultAddr        = "127.0.0.1:8080"
	DefaultLLMBaseURL  = "https://generativelanguage.googleapis.com/v1beta/openai"
	DefaultLLMModel    = "gemini-3-pro-preview"
	DefaultSearchLimit = 8
	DefaultSearxUA     = "painresearch/1.0 (+https://github.com/hyperifyio/painresearch)"
)
