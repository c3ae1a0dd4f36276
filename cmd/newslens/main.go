package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/newslens/internal/common"
	"github.com/ternarybob/newslens/internal/services/analysis"
	"github.com/ternarybob/newslens/internal/services/batch"
	"github.com/ternarybob/newslens/internal/services/llm"
	"github.com/ternarybob/newslens/internal/services/news"
	"github.com/ternarybob/newslens/internal/services/speech"
	"github.com/ternarybob/newslens/internal/services/translation"
	"github.com/ternarybob/newslens/internal/storage/badger"
)

var (
	configFile   = flag.String("config", "", "Configuration file path")
	companyFlag  = flag.String("company", "", "Process a single company instead of the configured list")
	queryFlag    = flag.String("query", "", "Answer a question about a company's coverage (requires -company)")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
)

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Newslens version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file -> env)
	// 2. Initialize logger
	// 3. Print banner

	// Auto-discover config file if not specified
	if *configFile == "" {
		if _, err := os.Stat("newslens.toml"); err == nil {
			*configFile = "newslens.toml"
		}
	}

	config, err := common.LoadFromFile(*configFile)
	if err != nil {
		arbor.NewLogger().Fatal().Err(err).Str("path", *configFile).Msg("Failed to load configuration")
		os.Exit(1)
	}

	logger := common.InitLogger(config)
	common.PrintBanner(common.LoadVersionFromFile())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	storage, err := badger.NewManager(&config.Storage.Badger, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize storage")
		os.Exit(1)
	}
	defer storage.Close()

	generator, err := llm.NewTextGenerator(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize LLM provider")
		os.Exit(1)
	}
	caller := llm.NewCaller(generator, nil, logger)

	cache := analysis.NewResponseCache(storage.CacheStorage(), logger)
	analyzer := analysis.NewArticleAnalyzer(caller, cache, logger)
	aggregator := analysis.NewComparativeAggregator(caller, cache, logger)
	summarizer := analysis.NewFinalSummarizer(caller, cache, logger)

	chunkDelay := translation.DefaultChunkDelay
	if config.Translation.ChunkDelay != "" {
		if parsed, err := time.ParseDuration(config.Translation.ChunkDelay); err == nil {
			chunkDelay = parsed
		}
	}
	translator := translation.NewPipeline(caller, cache, config.Translation.TargetLanguage, config.Translation.ChunkSize, chunkDelay, logger)

	source, err := news.NewGoogleNewsSource(&config.News, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize news source")
		os.Exit(1)
	}

	processor := batch.NewProcessor(
		source,
		analyzer,
		aggregator,
		summarizer,
		translator,
		speech.NewTranscriptSink(logger),
		storage.ReportStorage(),
		&config.Batch,
		logger,
	)

	switch {
	case *queryFlag != "":
		if *companyFlag == "" {
			logger.Fatal().Msg("-query requires -company")
			os.Exit(1)
		}
		answer, err := summarizer.RespondToQuery(ctx, *companyFlag, *queryFlag)
		if err != nil {
			logger.Fatal().Err(err).Str("company", *companyFlag).Msg("Query failed")
			os.Exit(1)
		}
		fmt.Println(answer)

	case *companyFlag != "":
		report, err := processor.ProcessCompany(ctx, *companyFlag)
		if err != nil {
			logger.Fatal().Err(err).Str("company", *companyFlag).Msg("Company processing failed")
			os.Exit(1)
		}
		logger.Info().
			Str("company", report.Company).
			Str("slug", report.Slug).
			Int("articles", len(report.Articles)).
			Msg("Company processed")

	case config.Batch.Schedule != "":
		scheduler := batch.NewScheduler(processor, logger)
		if err := scheduler.Start(ctx, config.Batch.Schedule); err != nil {
			logger.Fatal().Err(err).Msg("Failed to start scheduler")
			os.Exit(1)
		}
		logger.Info().Str("schedule", config.Batch.Schedule).Msg("Running on schedule, press Ctrl+C to stop")
		<-ctx.Done()
		scheduler.Stop()

	default:
		summary, err := processor.RunAll(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("Batch run aborted")
			os.Exit(1)
		}
		logger.Info().
			Str("run_id", summary.RunID).
			Int("succeeded", summary.Succeeded).
			Int("failed", summary.Failed).
			Msg("Batch run finished")
	}
}
