package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hyperifyio/painresearch/internal/research"
)

func TestStub_ReturnsParsableResearch(t *testing.T) {
	srv := httptest.NewServer(newMux("m", 0))
	defer srv.Close()

	body := `{"model":"m","messages":[{"role":"system","content":` + mustQuote(research.SystemInstruction) + `},{"role":"user","content":"Рубрика: Рынок электромобилей\nПодтемы: Не указаны"}]}`
	resp, err := http.Post(srv.URL+"/v1/chat/completions", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	var out struct {
		Choices []struct {
			Message struct{ Content string } `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || len(out.Choices) != 1 {
		t.Fatalf("decode: %v %+v", err, out)
	}
	res, err := research.ParseResult(out.Choices[0].Message.Content)
	if err != nil {
		t.Fatalf("stub payload does not parse: %v", err)
	}
	if len(res.Clusters) != 2 || len(res.Top15) != 3 {
		t.Fatalf("unexpected shape: %+v", res)
	}
	if !strings.Contains(res.Clusters[0].Themes[0].Query, "Рынок электромобилей") {
		t.Fatalf("topic not echoed: %q", res.Clusters[0].Themes[0].Query)
	}
}

func TestStub_RejectsUnknownPrompt(t *testing.T) {
	srv := httptest.NewServer(newMux("m", 0))
	defer srv.Close()
	resp, err := http.Post(srv.URL+"/v1/chat/completions", "application/json", strings.NewReader(`{"messages":[{"role":"system","content":"hi"}]}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d", resp.StatusCode)
	}
}

func mustQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
