package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFile_YAMLAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "painresearch.yaml")
	yml := "addr: \":9090\"\nllm:\n  base: http://llm.local/v1\n  model: file-model\n  grounding: none\nsearch:\n  file: hits.json\n  limit: 4\nexport:\n  pdfFont: /fonts/DejaVuSans.ttf\n"
	if err := os.WriteFile(p, []byte(yml), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	fc, err := LoadConfigFile(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := Config{Addr: DefaultAddr, LLMModel: "flag-model"}
	ApplyFileConfig(&cfg, fc)
	if cfg.Addr != ":9090" {
		t.Fatalf("Addr=%q; default flag value should yield to file", cfg.Addr)
	}
	if cfg.LLMModel != "flag-model" {
		t.Fatalf("explicit flag overwritten by file: %q", cfg.LLMModel)
	}
	if cfg.LLMBaseURL != "http://llm.local/v1" || cfg.GroundingTool != "none" || cfg.FileSearchPath != "hits.json" || cfg.SearchLimit != 4 || cfg.PDFFont != "/fonts/DejaVuSans.ttf" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
}

func TestLoadConfigFile_JSON(t *testing.T) {
	p := filepath.Join(t.TempDir(), "c.json")
	if err := os.WriteFile(p, []byte(`{"llm":{"model":"json-model"},"verbose":true}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	fc, err := LoadConfigFile(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if fc.LLM.Model != "json-model" || !fc.Verbose {
		t.Fatalf("unexpected: %+v", fc)
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	ApplyDefaults(&cfg)
	if cfg.Addr != DefaultAddr || cfg.LLMModel != DefaultLLMModel || cfg.LLMBaseURL != DefaultLLMBaseURL || cfg.GroundingTool != "google_search" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestValidateConfig(t *testing.T) {
	if err := ValidateConfig(Config{}); !errors.Is(err, ErrMissingModel) {
		t.Fatalf("expected ErrMissingModel, got %v", err)
	}
	if err := ValidateConfig(Config{LLMModel: "m", OutputMD: "x.md"}); err == nil {
		t.Fatalf("outputs without topic should fail")
	}
	if err := ValidateConfig(Config{LLMModel: "m", Topic: "t", OutputDoc: "x.odt"}); err == nil {
		t.Fatalf("unsupported document format should fail")
	}
	if err := ValidateConfig(Config{LLMModel: "m", Topic: "t", OutputDoc: "x.pdf"}); err != nil {
		t.Fatalf("pdf output should validate: %v", err)
	}
}
