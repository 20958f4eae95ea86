package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Tools []struct {
		Type string `json:"type"`
	} `json:"tools"`
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	model := os.Getenv("MODEL_ID")
	if strings.TrimSpace(model) == "" {
		model = "test-model"
	}
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8081"
	}
	var delay time.Duration
	if s := os.Getenv("STUB_DELAY"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			delay = d
		}
	}

	log.Info().Str("addr", addr).Str("model", model).Dur("delay", delay).Msg("openai-stub listening")
	if err := http.ListenAndServe(addr, newMux(model, delay)); err != nil {
		log.Fatal().Err(err).Msg("listen")
	}
}

func newMux(model string, delay time.Duration) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": model, "object": "model"}},
		})
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		sys, user := "", ""
		for _, m := range req.Messages {
			switch m.Role {
			case "system":
				sys = m.Content
			case "user":
				user = m.Content
			}
		}
		if !strings.Contains(sys, "JSON СТРУКТУРА") {
			http.Error(w, "unexpected system", http.StatusBadRequest)
			return
		}
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		content := cannedResearch(topicOf(user))
		log.Info().Str("model", req.Model).Int("tools", len(req.Tools)).Msg("research request")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-stub",
			"object": "chat.completion",
			"model":  model,
			"choices": []map[string]any{
				{"index": 0, "finish_reason": "stop", "message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	})
	return mux
}

// topicOf extracts the "Рубрика:" line of the user prompt.
func topicOf(prompt string) string {
	for _, line := range strings.Split(prompt, "\n") {
		if v, ok := strings.CutPrefix(strings.TrimSpace(line), "Рубрика:"); ok {
			return strings.TrimSpace(v)
		}
	}
	return "тема"
}

func cannedResearch(topic string) string {
	type theme struct {
		Title     string   `json:"title"`
		Pain      string   `json:"pain"`
		Query     string   `json:"query"`
		Frequency string   `json:"frequency"`
		Score     int      `json:"score"`
		Comments  []string `json:"comments"`
	}
	type cluster struct {
		Name   string  `json:"name"`
		Themes []theme `json:"themes"`
	}
	type item struct {
		Title     string `json:"title"`
		Cluster   string `json:"cluster"`
		PainShort string `json:"painShort"`
		Score     int    `json:"score"`
	}
	clusters := []cluster{
		{Name: "Стоимость", Themes: []theme{
			{Title: "Высокая цена входа", Pain: "Почему " + topic + " стоит как крыло самолета?", Query: topic + " цена", Frequency: "высокая", Score: 91, Comments: []string{"Отложил покупку на год", "Кредит не одобрили", "Дешевле не найти"}},
			{Title: "Скрытые расходы", Pain: "Обслуживание съедает весь бюджет", Query: topic + " обслуживание стоимость", Frequency: "средняя", Score: 74, Comments: []string{"Про это никто не предупреждает"}},
		}},
		{Name: "Доверие", Themes: []theme{
			{Title: "Нет честных отзывов", Pain: "Везде реклама, реального опыта не найти", Query: topic + " отзывы", Frequency: "высокая", Score: 86, Comments: []string{"Все обзоры проплачены", "Спросил на форуме, ответили только через неделю"}},
		}},
	}
	var top []item
	for _, c := range clusters {
		for _, th := range c.Themes {
			top = append(top, item{Title: th.Title, Cluster: c.Name, PainShort: th.Title, Score: th.Score})
		}
	}
	b, err := json.Marshal(map[string]any{"clusters": clusters, "top15": top})
	if err != nil {
		return fmt.Sprintf(`{"clusters":[],"top15":[],"error":%q}`, err.Error())
	}
	return string(b)
}
