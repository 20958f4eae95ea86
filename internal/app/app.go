package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/painresearch/internal/export"
	"github.com/hyperifyio/painresearch/internal/llm"
	"github.com/hyperifyio/painresearch/internal/render"
	"github.com/hyperifyio/painresearch/internal/research"
	"github.com/hyperifyio/painresearch/internal/search"
	"github.com/hyperifyio/painresearch/internal/session"
	"github.com/hyperifyio/painresearch/internal/web"
)

type App struct {
	cfg       Config
	requester *research.Requester
	ctl       *session.Controller
}

func New(ctx context.Context, cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	ai := llm.NewOpenAIProvider(cfg.LLMBaseURL, cfg.LLMAPIKey, newLLMHTTPClient())

	grounding := strings.TrimSpace(cfg.GroundingTool)
	switch strings.ToLower(grounding) {
	case "none", "off", "false":
		grounding = ""
	}
	req := &research.Requester{
		Client:        ai,
		Model:         cfg.LLMModel,
		GroundingTool: grounding,
		Search:        newSearchProvider(cfg),
		SearchLimit:   cfg.SearchLimit,
	}
	if cfg.PDFFont == "" {
		cfg.PDFFont = export.FindFont()
		if cfg.PDFFont != "" {
			log.Debug().Str("font", cfg.PDFFont).Msg("using system font for PDF export")
		}
	}

	a := &App{
		cfg:       cfg,
		requester: req,
		ctl:       &session.Controller{Session: session.New(), Researcher: req},
	}

	// Quick connectivity check by listing models. Some compatible endpoints do
	// not implement it, so this only warns.
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	models, err := ai.ListModels(pctx)
	if err != nil {
		log.Warn().Err(err).Msg("LLM model list failed; continuing")
	} else if len(models.Models) > 0 {
		log.Info().Int("count", len(models.Models)).Msg("LLM models available")
	} else {
		log.Warn().Msg("LLM returned zero models")
	}
	return a, nil
}

// newSearchProvider returns the optional local grounding provider. SearxNG
// wins over the file provider when both are configured.
func newSearchProvider(cfg Config) search.Provider {
	if strings.TrimSpace(cfg.SearxURL) != "" {
		return &search.SearxNG{
			BaseURL:    cfg.SearxURL,
			APIKey:     cfg.SearxKey,
			UserAgent:  cfg.SearxUA,
			Language:   cfg.LanguageHint,
			Prefer:     search.RunetSources,
			HTTPClient: newSearchHTTPClient(),
		}
	}
	if strings.TrimSpace(cfg.FileSearchPath) != "" {
		return &search.FileProvider{Path: cfg.FileSearchPath}
	}
	return nil
}

// Run serves the UI, or performs a single research run when a topic is set.
func (a *App) Run(ctx context.Context) error {
	if strings.TrimSpace(a.cfg.Topic) != "" {
		return a.RunOnce(ctx)
	}
	return a.Serve(ctx)
}

// RunOnce performs one research request and writes the configured outputs.
// The Markdown report goes to stdout when no output path is given.
func (a *App) RunOnce(ctx context.Context) error {
	p := research.Params{
		Topic:     a.cfg.Topic,
		Subthemes: a.cfg.Subthemes,
		Audience:  a.cfg.Audience,
		Depth:     research.ParseDepth(a.cfg.Depth),
	}
	start := time.Now()
	res, err := a.requester.Perform(ctx, p)
	if err != nil {
		return err
	}
	log.Info().Dur("took", time.Since(start)).Msg("research finished")

	if a.cfg.OutputJSON != "" {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		if err := os.WriteFile(a.cfg.OutputJSON, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
		log.Info().Str("path", a.cfg.OutputJSON).Msg("wrote json")
	}

	md := render.Build(res, p.Topic).Markdown()
	md = appendReproFooter(md, a.cfg.LLMModel, a.cfg.LLMBaseURL, a.requester.GroundingTool, a.requester.Search != nil)
	switch {
	case a.cfg.OutputMD != "":
		if err := os.WriteFile(a.cfg.OutputMD, []byte(md), 0o644); err != nil {
			return fmt.Errorf("write markdown: %w", err)
		}
		log.Info().Str("path", a.cfg.OutputMD).Msg("wrote markdown")
	case a.cfg.OutputJSON == "" && a.cfg.OutputDoc == "":
		fmt.Fprint(os.Stdout, md)
	}

	if a.cfg.OutputDoc != "" {
		if err := a.writeDocument(res, p.Topic); err != nil {
			return err
		}
	}
	return nil
}

// localName makes a download file name safe to join onto a directory: path
// separators in the topic become underscores.
var localName = strings.NewReplacer("/", "_", `\`, "_")

// writeDocument exports to OutputDoc. A directory path receives the standard
// download file name.
func (a *App) writeDocument(res *research.Result, topic string) error {
	path := a.cfg.OutputDoc
	format, err := export.ParseFormat(filepath.Ext(path))
	if st, serr := os.Stat(path); serr == nil && st.IsDir() {
		format, err = export.FormatDOCX, nil
		path = filepath.Join(path, filepath.Base(localName.Replace(export.FileName(topic, format))))
	}
	if err != nil {
		return err
	}
	exp := &export.Exporter{Format: format, FontPath: a.cfg.PDFFont}
	var buf bytes.Buffer
	if err := exp.Export(&buf, res, topic); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return &export.ExportError{Format: format, Err: err}
	}
	log.Info().Str("path", path).Str("format", string(format)).Msg("wrote document")
	return nil
}

// Serve runs the web UI until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	ui, err := web.New(a.ctl, web.Options{
		Progress: session.DefaultProgress(),
		PDFFont:  a.cfg.PDFFont,
		Model:    a.cfg.LLMModel,
	})
	if err != nil {
		return fmt.Errorf("init ui: %w", err)
	}
	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           ui.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", a.cfg.Addr).Str("model", a.cfg.LLMModel).Str("version", BuildVersion).Msg("serving")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
