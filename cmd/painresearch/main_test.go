package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apppkg "github.com/hyperifyio/painresearch/internal/app"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"LLM_BASE_URL", "LLM_MODEL", "LLM_API_KEY", "GROUNDING_TOOL", "SEARX_URL", "SEARXNG_URL", "SEARX_KEY", "SEARXNG_KEY", "SEARCH_FILE", "SEARCH_LIMIT", "PDF_FONT", "ADDR", "VERBOSE", "LANGUAGE", "PAINRESEARCH_CONFIG"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := loadConfig(nil, io.Discard)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Addr != apppkg.DefaultAddr || cfg.LLMModel != apppkg.DefaultLLMModel || cfg.GroundingTool != "google_search" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "c.yaml")
	if err := os.WriteFile(cfgPath, []byte("addr: \":7000\"\nllm:\n  model: file-model\n  base: http://file/v1\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("LLM_MODEL", "env-model")

	cfg, err := loadConfig([]string{"-config", cfgPath, "-llm.base", "http://flag/v1"}, io.Discard)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Addr != ":7000" {
		t.Fatalf("file should supply addr, got %q", cfg.Addr)
	}
	if cfg.LLMModel != "env-model" {
		t.Fatalf("env should beat file, got %q", cfg.LLMModel)
	}
	if cfg.LLMBaseURL != "http://flag/v1" {
		t.Fatalf("flag should beat file, got %q", cfg.LLMBaseURL)
	}
}

func TestLoadConfig_RejectsOutputsWithoutTopic(t *testing.T) {
	clearEnv(t)
	if _, err := loadConfig([]string{"-out.md", "x.md"}, io.Discard); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadConfig_Version(t *testing.T) {
	clearEnv(t)
	var out strings.Builder
	if _, err := loadConfig([]string{"-version"}, &out); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected ErrHelp, got %v", err)
	}
	if !strings.Contains(out.String(), "painresearch") {
		t.Fatalf("version not printed: %q", out.String())
	}
}

// Smoke test: a one-shot run against a local OpenAI-compatible stub writes
// the Markdown report.
func TestRun_TopicWritesMarkdown(t *testing.T) {
	clearEnv(t)
	content := `{"clusters":[{"name":"Цена","themes":[{"title":"Дорого","pain":"Не по карману","query":"цена","frequency":"высокая","score":85,"comments":["дорого"]}]}],"top15":[{"title":"Дорого","cluster":"Цена","painShort":"дорого","score":85}]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/models") {
			_, _ = io.WriteString(w, `{"object":"list","data":[]}`)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
		})
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "report.md")
	cfg, err := loadConfig([]string{"-topic", "Рынок электромобилей", "-llm.base", srv.URL, "-llm.model", "m", "-out.md", out}, io.Discard)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if err := run(context.Background(), cfg); err != nil {
		t.Fatalf("run: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), "Дорого") || !strings.Contains(string(b), "Reproducibility:") {
		t.Fatalf("unexpected report:\n%s", b)
	}
}
