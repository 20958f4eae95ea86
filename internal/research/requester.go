package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/painresearch/internal/extract"
	"github.com/hyperifyio/painresearch/internal/llm"
	"github.com/hyperifyio/painresearch/internal/search"
)

// DefaultGroundingTool is the server-side search tool requested from the
// model endpoint.
const DefaultGroundingTool = "google_search"

// Researcher is the single operation the session layer depends on.
type Researcher interface {
	Perform(ctx context.Context, p Params) (*Result, error)
}

// Requester sends one chat completion per research run and parses the JSON
// answer into a Result.
type Requester struct {
	Client llm.Client
	Model  string
	// GroundingTool is declared as a tool on the request. Empty disables it.
	GroundingTool string
	// Search, when set, is queried locally and the hits are appended to the
	// prompt as web context.
	Search      search.Provider
	SearchLimit int
}

// Perform runs one research request. It never retries. All failures are
// logged and returned as *RequestError.
func (r *Requester) Perform(ctx context.Context, p Params) (*Result, error) {
	res, err := r.perform(ctx, p)
	if err != nil {
		log.Error().Err(err).Str("topic", p.Topic).Str("depth", string(p.Depth)).Msg("research request failed")
		return nil, &RequestError{Topic: p.Topic, Err: err}
	}
	if problems := res.Problems(); len(problems) > 0 {
		log.Warn().Strs("problems", problems).Str("topic", p.Topic).Msg("research result has schema gaps")
	}
	log.Info().Str("topic", p.Topic).Int("clusters", len(res.Clusters)).Int("top", len(res.Top15)).Msg("research complete")
	return res, nil
}

func (r *Requester) perform(ctx context.Context, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if r.Client == nil || strings.TrimSpace(r.Model) == "" {
		return nil, ErrNotConfigured
	}
	req := r.buildRequest(p, r.gatherContext(ctx, p))
	log.Debug().Str("model", req.Model).Int("prompt_chars", len(req.Messages[1].Content)).Msg("sending research request")
	resp, err := r.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}
	return ParseResult(resp.Choices[0].Message.Content)
}

func (r *Requester) buildRequest(p Params, ctx []search.Result) openai.ChatCompletionRequest {
	req := openai.ChatCompletionRequest{
		Model: r.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(p, ctx)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		N: 1,
	}
	if tool := strings.TrimSpace(r.GroundingTool); tool != "" {
		req.Tools = []openai.Tool{{Type: openai.ToolType(tool)}}
	}
	return req
}

// gatherContext queries the optional local search provider with the topic and
// each subtheme. Failures only cost context, never the run.
func (r *Requester) gatherContext(ctx context.Context, p Params) []search.Result {
	if r.Search == nil {
		return nil
	}
	limit := r.SearchLimit
	if limit <= 0 {
		limit = 5
	}
	queries := []string{strings.TrimSpace(p.Topic)}
	for _, s := range p.SubthemeList() {
		queries = append(queries, strings.TrimSpace(p.Topic)+" "+s)
	}
	seen := make(map[string]bool)
	out := make([]search.Result, 0, limit*len(queries))
	for _, q := range queries {
		hits, err := r.Search.Search(ctx, q, limit)
		if err != nil {
			log.Warn().Err(err).Str("provider", r.Search.Name()).Str("query", q).Msg("grounding search failed")
			continue
		}
		for _, h := range hits {
			if seen[h.URL] {
				continue
			}
			seen[h.URL] = true
			h.Snippet = extract.Text(h.Snippet)
			out = append(out, h)
		}
	}
	log.Debug().Int("hits", len(out)).Int("queries", len(queries)).Msg("grounding context gathered")
	return out
}

// ParseResult decodes the model text. Blank text yields ErrEmptyResponse
// without attempting to decode. Order of every array is kept; top15 is
// truncated to MaxSummaryItems.
func ParseResult(text string) (*Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyResponse
	}
	var res Result
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		return nil, &MalformedResponseError{Raw: text, Err: err}
	}
	if n := len(res.Top15); n > MaxSummaryItems {
		log.Warn().Int("count", n).Msg("model returned more than 15 summary items; truncating")
		res.Top15 = res.Top15[:MaxSummaryItems]
	}
	return &res, nil
}
