package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/newslens/internal/common"
	"github.com/ternarybob/newslens/internal/interfaces"
	"github.com/ternarybob/newslens/internal/models"
	"github.com/ternarybob/newslens/internal/services/analysis"
	"github.com/ternarybob/newslens/internal/services/translation"
)

// DefaultMinSuccessful is the minimum number of analyzed articles required
// before the comparative stages run.
const DefaultMinSuccessful = 3

// RunSummary records the outcome of one batch run.
type RunSummary struct {
	RunID     string    `json:"run_id"`
	Total     int       `json:"total"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Processor drives the full pipeline for each configured company: fetch
// articles, analyze each one, aggregate, summarize, translate, synthesize,
// and persist the report. Companies are processed strictly sequentially with
// pacing between them; one company's failure never halts the run.
type Processor struct {
	source      interfaces.ArticleSource
	analyzer    *analysis.ArticleAnalyzer
	aggregator  *analysis.ComparativeAggregator
	summarizer  *analysis.FinalSummarizer
	translator  *translation.Pipeline
	synthesizer interfaces.SpeechSynthesizer
	reports     interfaces.ReportStorage
	config      *common.BatchConfig
	logger      arbor.ILogger
	limiter     *rate.Limiter
}

// NewProcessor creates a batch processor.
func NewProcessor(
	source interfaces.ArticleSource,
	analyzer *analysis.ArticleAnalyzer,
	aggregator *analysis.ComparativeAggregator,
	summarizer *analysis.FinalSummarizer,
	translator *translation.Pipeline,
	synthesizer interfaces.SpeechSynthesizer,
	reports interfaces.ReportStorage,
	config *common.BatchConfig,
	logger arbor.ILogger,
) *Processor {
	pacing := 5 * time.Second
	if config.Pacing != "" {
		if parsed, err := time.ParseDuration(config.Pacing); err == nil && parsed > 0 {
			pacing = parsed
		}
	}

	return &Processor{
		source:      source,
		analyzer:    analyzer,
		aggregator:  aggregator,
		summarizer:  summarizer,
		translator:  translator,
		synthesizer: synthesizer,
		reports:     reports,
		config:      config,
		logger:      logger,
		limiter:     rate.NewLimiter(rate.Every(pacing), 1),
	}
}

// RunAll processes every configured company in order and returns the run
// summary. Only context cancellation stops the run early.
func (p *Processor) RunAll(ctx context.Context) (*RunSummary, error) {
	companies := p.config.Companies
	summary := &RunSummary{
		RunID:     common.NewRunID(),
		Total:     len(companies),
		StartTime: time.Now().UTC(),
	}

	p.logger.Info().
		Str("run_id", summary.RunID).
		Int("companies", len(companies)).
		Msg("Starting batch run")

	for i, company := range companies {
		if err := p.limiter.Wait(ctx); err != nil {
			summary.EndTime = time.Now().UTC()
			return summary, err
		}

		p.logger.Info().
			Str("company", company).
			Int("position", i+1).
			Int("total", len(companies)).
			Msg("Processing company")

		if _, err := p.ProcessCompany(ctx, company); err != nil {
			if ctx.Err() != nil {
				summary.Failed++
				summary.EndTime = time.Now().UTC()
				return summary, ctx.Err()
			}
			p.logger.Error().Err(err).Str("company", company).Msg("Company processing failed")
			summary.Failed++
			continue
		}
		summary.Succeeded++
	}

	summary.EndTime = time.Now().UTC()
	p.logger.Info().
		Str("run_id", summary.RunID).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Msg("Batch run completed")

	return summary, nil
}

// ProcessCompany runs the pipeline for a single company and persists the
// resulting report. Articles that fail analysis are skipped; the comparative
// stages only run once enough analyses succeed. Translation and synthesis
// failures degrade the report rather than failing it.
func (p *Processor) ProcessCompany(ctx context.Context, companyName string) (*models.CompanyReport, error) {
	maxArticles := p.config.MaxArticles
	if maxArticles <= 0 {
		maxArticles = 10
	}

	articles, err := p.source.Search(ctx, companyName, maxArticles)
	if err != nil {
		return nil, fmt.Errorf("article search failed for '%s': %w", companyName, err)
	}
	if len(articles) == 0 {
		return nil, fmt.Errorf("no articles found for '%s'", companyName)
	}

	report := &models.CompanyReport{
		Company: companyName,
		Slug:    common.CompanySlug(companyName),
	}

	for _, article := range articles {
		analyzed, err := p.analyzer.Analyze(ctx, article)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.logger.Warn().Err(err).Str("title", article.Title).Msg("Skipping article after analysis failure")
			continue
		}
		report.Articles = append(report.Articles, *analyzed)
	}

	minSuccessful := p.config.MinSuccessful
	if minSuccessful <= 0 {
		minSuccessful = DefaultMinSuccessful
	}

	if len(report.Articles) >= minSuccessful {
		if err := p.completeReport(ctx, report); err != nil {
			return nil, err
		}
	} else {
		p.logger.Warn().
			Str("company", companyName).
			Int("analyzed", len(report.Articles)).
			Int("required", minSuccessful).
			Msg("Too few successful analyses, skipping comparative stages")
	}

	if err := p.reports.SaveReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to persist report for '%s': %w", companyName, err)
	}

	return report, nil
}

// completeReport runs the comparative, summary, translation, and synthesis
// stages on a report that has enough analyzed articles.
func (p *Processor) completeReport(ctx context.Context, report *models.CompanyReport) error {
	comparative, err := p.aggregator.Aggregate(ctx, report.Company, report.Articles)
	if err != nil {
		return err
	}
	report.Comparative = comparative

	finalSentiment, err := p.summarizer.Summarize(ctx, report.Company, comparative, report.Articles)
	if err != nil {
		return err
	}
	report.FinalSentiment = finalSentiment

	hindiText, err := p.translator.Translate(ctx, finalSentiment)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.logger.Warn().Err(err).Str("company", report.Company).Msg("Translation failed, report will have no translated summary")
		return nil
	}
	report.HindiSentiment = hindiText

	audioPath := filepath.Join(p.config.AudioDir, report.Slug+".mp3")
	produced, err := p.synthesizer.Synthesize(ctx, hindiText, audioPath)
	if err != nil {
		p.logger.Warn().Err(err).Str("company", report.Company).Msg("Speech synthesis failed, report will have no audio artifact")
		return nil
	}
	report.AudioPath = produced

	return nil
}
