package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/painresearch/internal/export"
	"github.com/hyperifyio/painresearch/internal/research"
)

// ErrMissingModel is returned by ValidateConfig when no model is configured.
var ErrMissingModel = errors.New("config: llm.model is required (or set LLM_MODEL)")

// FileConfig represents the single-file configuration schema.
// Nested sections improve readability and map naturally to flags/env.
type FileConfig struct {
	Addr string `yaml:"addr" json:"addr"`

	LLM struct {
		BaseURL   string `yaml:"base" json:"base"`
		Model     string `yaml:"model" json:"model"`
		APIKey    string `yaml:"key" json:"key"`
		Grounding string `yaml:"grounding" json:"grounding"`
	} `yaml:"llm" json:"llm"`

	Searx struct {
		URL string `yaml:"url" json:"url"`
		Key string `yaml:"key" json:"key"`
		UA  string `yaml:"ua" json:"ua"`
	} `yaml:"searx" json:"searx"`

	Search struct {
		File  string `yaml:"file" json:"file"`
		Limit int    `yaml:"limit" json:"limit"`
	} `yaml:"search" json:"search"`

	Export struct {
		PDFFont string `yaml:"pdfFont" json:"pdfFont"`
	} `yaml:"export" json:"export"`

	Language string `yaml:"language" json:"language"`
	Verbose  bool   `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are currently unset/zero in cfg. Flags should already have been parsed; this
// function lets file config supply defaults while preserving explicit flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}

	if (cfg.Addr == "" || cfg.Addr == DefaultAddr) && fc.Addr != "" {
		cfg.Addr = fc.Addr
	}

	if cfg.LLMBaseURL == "" && fc.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" && fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" && fc.LLM.APIKey != "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if cfg.GroundingTool == "" && fc.LLM.Grounding != "" {
		cfg.GroundingTool = fc.LLM.Grounding
	}

	if cfg.SearxURL == "" && fc.Searx.URL != "" {
		cfg.SearxURL = fc.Searx.URL
	}
	if cfg.SearxKey == "" && fc.Searx.Key != "" {
		cfg.SearxKey = fc.Searx.Key
	}
	if (cfg.SearxUA == "" || cfg.SearxUA == DefaultSearxUA) && fc.Searx.UA != "" {
		cfg.SearxUA = fc.Searx.UA
	}
	if cfg.FileSearchPath == "" && fc.Search.File != "" {
		cfg.FileSearchPath = fc.Search.File
	}
	if (cfg.SearchLimit == 0 || cfg.SearchLimit == DefaultSearchLimit) && fc.Search.Limit > 0 {
		cfg.SearchLimit = fc.Search.Limit
	}

	if cfg.PDFFont == "" && fc.Export.PDFFont != "" {
		cfg.PDFFont = fc.Export.PDFFont
	}
	if cfg.LanguageHint == "" && fc.Language != "" {
		cfg.LanguageHint = fc.Language
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// ApplyDefaults fills whatever flags, env and file left empty.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = DefaultLLMBaseURL
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = DefaultLLMModel
	}
	if cfg.GroundingTool == "" {
		cfg.GroundingTool = research.DefaultGroundingTool
	}
	if cfg.SearxUA == "" {
		cfg.SearxUA = DefaultSearxUA
	}
	if cfg.SearchLimit == 0 {
		cfg.SearchLimit = DefaultSearchLimit
	}
	if cfg.LanguageHint == "" {
		cfg.LanguageHint = "ru"
	}
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.LLMModel) == "" {
		return ErrMissingModel
	}
	if cfg.SearchLimit < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	if cfg.Topic == "" && (cfg.OutputJSON != "" || cfg.OutputMD != "" || cfg.OutputDoc != "") {
		return errors.New("config: output paths need a topic")
	}
	if cfg.OutputDoc != "" {
		if _, err := export.ParseFormat(filepath.Ext(cfg.OutputDoc)); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}
