package app

import (
	"os"
	"strconv"
	"strings"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = os.Getenv("LLM_BASE_URL")
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = os.Getenv("LLM_MODEL")
	}
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = os.Getenv("LLM_API_KEY")
	}
	if cfg.GroundingTool == "" {
		cfg.GroundingTool = os.Getenv("GROUNDING_TOOL")
	}

	if cfg.SearxURL == "" {
		// Support both SEARX_URL and SEARXNG_URL; prefer SEARX_URL if set
		v := os.Getenv("SEARX_URL")
		if v == "" {
			v = os.Getenv("SEARXNG_URL")
		}
		cfg.SearxURL = v
	}
	if cfg.SearxKey == "" {
		v := os.Getenv("SEARX_KEY")
		if v == "" {
			v = os.Getenv("SEARXNG_KEY")
		}
		cfg.SearxKey = v
	}
	if cfg.FileSearchPath == "" {
		cfg.FileSearchPath = os.Getenv("SEARCH_FILE")
	}
	if cfg.SearchLimit == 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("SEARCH_LIMIT"))); err == nil && n > 0 {
			cfg.SearchLimit = n
		}
	}
	if cfg.LanguageHint == "" {
		cfg.LanguageHint = os.Getenv("LANGUAGE")
	}

	if cfg.PDFFont == "" {
		cfg.PDFFont = os.Getenv("PDF_FONT")
	}
	if cfg.Addr == "" {
		cfg.Addr = os.Getenv("ADDR")
	}

	if !cfg.Verbose {
		cfg.Verbose = truthy(os.Getenv("VERBOSE"))
	}
}

// ApplyEnvOverrides forcefully overrides cfg fields with environment variables
// when the corresponding env vars are set. This is used to let env take
// precedence over values coming from a config file while still allowing flags
// to remain highest precedence.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLMBaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLMModel = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLMAPIKey = v
	}
	if v := os.Getenv("GROUNDING_TOOL"); v != "" {
		cfg.GroundingTool = v
	}

	if v := os.Getenv("SEARX_URL"); v != "" {
		cfg.SearxURL = v
	}
	if v := os.Getenv("SEARXNG_URL"); v != "" && os.Getenv("SEARX_URL") == "" {
		cfg.SearxURL = v
	}
	if v := os.Getenv("SEARX_KEY"); v != "" {
		cfg.SearxKey = v
	}
	if v := os.Getenv("SEARXNG_KEY"); v != "" && os.Getenv("SEARX_KEY") == "" {
		cfg.SearxKey = v
	}
	if v := os.Getenv("SEARCH_FILE"); v != "" {
		cfg.FileSearchPath = v
	}
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("SEARCH_LIMIT"))); err == nil && n > 0 {
		cfg.SearchLimit = n
	}
	if v := os.Getenv("LANGUAGE"); v != "" {
		cfg.LanguageHint = v
	}

	if v := os.Getenv("PDF_FONT"); v != "" {
		cfg.PDFFont = v
	}
	if v := os.Getenv("ADDR"); v != "" {
		cfg.Addr = v
	}

	// Booleans override when env present and truthy/falsey
	if s := strings.ToLower(strings.TrimSpace(os.Getenv("VERBOSE"))); s != "" {
		switch s {
		case "1", "true", "yes", "on":
			cfg.Verbose = true
		case "0", "false", "no", "off":
			cfg.Verbose = false
		}
	}
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
