package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/painresearch/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := app.LoadEnvFiles(".env", ".env.local"); err != nil {
		log.Warn().Err(err).Msg("dotenv load failed")
	}

	cfg, err := loadConfig(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(2)
	}
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

// loadConfig resolves flags > env > config file > defaults.
func loadConfig(args []string, output io.Writer) (app.Config, error) {
	fs := flag.NewFlagSet("painresearch", flag.ContinueOnError)
	fs.SetOutput(output)

	var (
		flagCfg    app.Config
		configPath string
		version    bool
	)
	fs.StringVar(&configPath, "config", os.Getenv("PAINRESEARCH_CONFIG"), "Path to YAML or JSON config file")
	fs.StringVar(&flagCfg.Addr, "addr", app.DefaultAddr, "Listen address for the web UI")
	fs.StringVar(&flagCfg.Topic, "topic", "", "Run one research for this topic and exit instead of serving")
	fs.StringVar(&flagCfg.Subthemes, "subthemes", "", "Comma-separated subthemes for -topic")
	fs.StringVar(&flagCfg.Audience, "audience", "", "Target audience for -topic")
	fs.StringVar(&flagCfg.Depth, "depth", "basic", "Analysis depth: basic, extended or maximum")
	fs.StringVar(&flagCfg.OutputJSON, "out.json", "", "Write the raw research JSON here")
	fs.StringVar(&flagCfg.OutputMD, "out.md", "", "Write the Markdown report here (default stdout)")
	fs.StringVar(&flagCfg.OutputDoc, "out.doc", "", "Write a .docx or .pdf document here; a directory gets the standard file name")
	fs.StringVar(&flagCfg.LLMBaseURL, "llm.base", "", "OpenAI-compatible base URL")
	fs.StringVar(&flagCfg.LLMModel, "llm.model", "", "Model name")
	fs.StringVar(&flagCfg.LLMAPIKey, "llm.key", "", "API key for the model endpoint")
	fs.StringVar(&flagCfg.GroundingTool, "llm.grounding", "", "Server-side search tool type, or none")
	fs.StringVar(&flagCfg.SearxURL, "searx.url", "", "SearxNG base URL for optional local grounding")
	fs.StringVar(&flagCfg.SearxKey, "searx.key", "", "SearxNG API key (optional)")
	fs.StringVar(&flagCfg.SearxUA, "searx.ua", app.DefaultSearxUA, "Custom User-Agent for SearxNG requests")
	fs.StringVar(&flagCfg.FileSearchPath, "search.file", "", "Path to JSON file for offline file-based grounding")
	fs.IntVar(&flagCfg.SearchLimit, "search.limit", app.DefaultSearchLimit, "Maximum hits per grounding query")
	fs.StringVar(&flagCfg.LanguageHint, "lang", "", "Search language hint (default ru)")
	fs.StringVar(&flagCfg.PDFFont, "pdf.font", "", "UTF-8 TrueType font for PDF export")
	fs.BoolVar(&flagCfg.Verbose, "v", false, "Verbose logging")
	fs.BoolVar(&version, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return app.Config{}, err
	}
	if version {
		fmt.Fprintln(output, app.VersionString())
		return app.Config{}, flag.ErrHelp
	}

	var cfg app.Config
	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return app.Config{}, fmt.Errorf("load config: %w", err)
		}
		app.ApplyFileConfig(&cfg, fc)
		// Env wins over the file.
		app.ApplyEnvOverrides(&cfg)
	} else {
		app.ApplyEnvToConfig(&cfg)
	}
	overlayFlags(fs, &cfg, flagCfg)
	app.ApplyDefaults(&cfg)
	if err := app.ValidateConfig(cfg); err != nil {
		return app.Config{}, err
	}
	return cfg, nil
}

// overlayFlags copies only the flags given on the command line.
func overlayFlags(fs *flag.FlagSet, cfg *app.Config, f app.Config) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "addr":
			cfg.Addr = f.Addr
		case "topic":
			cfg.Topic = f.Topic
		case "subthemes":
			cfg.Subthemes = f.Subthemes
		case "audience":
			cfg.Audience = f.Audience
		case "depth":
			cfg.Depth = f.Depth
		case "out.json":
			cfg.OutputJSON = f.OutputJSON
		case "out.md":
			cfg.OutputMD = f.OutputMD
		case "out.doc":
			cfg.OutputDoc = f.OutputDoc
		case "llm.base":
			cfg.LLMBaseURL = f.LLMBaseURL
		case "llm.model":
			cfg.LLMModel = f.LLMModel
		case "llm.key":
			cfg.LLMAPIKey = f.LLMAPIKey
		case "llm.grounding":
			cfg.GroundingTool = f.GroundingTool
		case "searx.url":
			cfg.SearxURL = f.SearxURL
		case "searx.key":
			cfg.SearxKey = f.SearxKey
		case "searx.ua":
			cfg.SearxUA = f.SearxUA
		case "search.file":
			cfg.FileSearchPath = f.FileSearchPath
		case "search.limit":
			cfg.SearchLimit = f.SearchLimit
		case "lang":
			cfg.LanguageHint = f.LanguageHint
		case "pdf.font":
			cfg.PDFFont = f.PDFFont
		case "v":
			cfg.Verbose = f.Verbose
		}
	})
}

func run(ctx context.Context, cfg app.Config) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	return a.Run(ctx)
}
