package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kommo_pulse/backend/internal/analysis"
	"github.com/kommo_pulse/backend/internal/anonymize"
	"github.com/kommo_pulse/backend/internal/config"
	"github.com/kommo_pulse/backend/internal/crm"
	"github.com/kommo_pulse/backend/internal/db"
	httpapi "github.com/kommo_pulse/backend/internal/http"
	"github.com/kommo_pulse/backend/internal/report"
)

const usage = `usage: pulse <command>

commands:
  serve            run the HTTP API
  report lead      build the lead creation report CSV
  report talk      build the talk report CSV
  analyze lead     run lead analysis views over the lead report CSV
  analyze talk     run talk analysis views over the talk report CSV
  anonymize        produce shareable dummy copies of both reports
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "pulse").Logger()

	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	switch args[0] {
	case "serve":
		serve(cfg, logger)
	case "report":
		if len(args) < 2 || (args[1] != "lead" && args[1] != "talk") {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		runReport(cfg, logger, args[1])
	case "analyze":
		if len(args) < 2 || (args[1] != "lead" && args[1] != "talk") {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		path := ""
		if len(args) > 2 {
			path = args[2]
		}
		analyze(cfg, logger, args[1], path)
	case "anonymize":
		runAnonymize(cfg, logger)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

// newClient picks the live CRM client when credentials are configured and
// falls back to the deterministic mock otherwise.
func newClient(cfg config.Config, logger zerolog.Logger) crm.Client {
	if cfg.AccessToken == "" || cfg.BaseURL == "" {
		logger.Info().Msg("using mock CRM client")
		return crm.MockClient{}
	}
	return &crm.HTTPClient{
		BaseURL:     cfg.BaseURL,
		AccessToken: cfg.AccessToken,
		PageLimit:   cfg.PageLimit,
		Client:      &http.Client{Timeout: cfg.RequestTimeout},
	}
}

func newBuilder(cfg config.Config, client crm.Client, logger zerolog.Logger) *report.Builder {
	return &report.Builder{
		Client:      client,
		Logger:      logger,
		WindowDays:  cfg.WindowDays,
		MaxLeads:    cfg.MaxLeads,
		MaxTalks:    cfg.MaxTalks,
		MaxMessages: cfg.MaxMessages,
	}
}

func reportPath(cfg config.Config, kind string) string {
	return filepath.Join(cfg.OutputDir, kind+"_report.csv")
}

func runReport(cfg config.Config, logger zerolog.Logger, kind string) {
	client := newClient(cfg, logger)
	builder := newBuilder(cfg, client, logger)
	ctx := context.Background()

	var (
		table *report.Table
		err   error
	)
	if kind == "talk" {
		table, err = builder.BuildTalkReport(ctx)
	} else {
		table, err = builder.BuildLeadReport(ctx)
	}
	if err != nil {
		logger.Fatal().Err(err).Str("kind", kind).Msg("report build failed")
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		logger.Fatal().Err(err).Msg("failed to create output directory")
	}
	path := reportPath(cfg, kind)
	if err := table.WriteCSV(path); err != nil {
		logger.Error().Err(err).Str("path", path).Msg("failed to write report")
		return
	}
	logger.Info().Str("path", path).Int("rows", len(table.Rows)).Msg("report written")
}

func analyze(cfg config.Config, logger zerolog.Logger, kind, path string) {
	if path == "" {
		path = reportPath(cfg, kind)
	}
	runner := &analysis.Runner{
		Logger:    logger,
		OutputDir: filepath.Join(cfg.OutputDir, "charts"),
	}

	var err error
	if kind == "talk" {
		err = runner.AnalyzeTalks(path)
	} else {
		err = runner.AnalyzeLeads(path)
	}
	if err != nil {
		logger.Fatal().Err(err).Str("path", path).Msg("analysis failed")
	}
}

func runAnonymize(cfg config.Config, logger zerolog.Logger) {
	leadIn := reportPath(cfg, "lead")
	leadOut := filepath.Join(cfg.OutputDir, "dummy_lead_report.csv")
	mapping, err := anonymize.LeadReport(leadIn, leadOut)
	if err != nil {
		logger.Fatal().Err(err).Str("path", leadIn).Msg("lead anonymization failed")
	}
	logger.Info().Str("path", leadOut).Msg("dummy lead report written")

	talkIn := reportPath(cfg, "talk")
	talkOut := filepath.Join(cfg.OutputDir, "dummy_talk_report.csv")
	if err := anonymize.TalkReport(talkIn, talkOut, mapping); err != nil {
		logger.Fatal().Err(err).Str("path", talkIn).Msg("talk anonymization failed")
	}
	logger.Info().Str("path", talkOut).Msg("dummy talk report written")
}

func serve(cfg config.Config, logger zerolog.Logger) {
	ctx := context.Background()

	var store *db.Store
	if cfg.DatabaseURL != "" {
		s, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect db")
		}
		defer s.Close()
		if err := s.InitSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to init schema")
		}
		store = s
	} else {
		logger.Info().Msg("no database configured; run history disabled")
	}

	client := newClient(cfg, logger)
	builder := newBuilder(cfg, client, logger)
	router := httpapi.Router(cfg, client, builder, store, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
