package batch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/newslens/internal/common"
	"github.com/ternarybob/newslens/internal/interfaces"
	"github.com/ternarybob/newslens/internal/models"
	"github.com/ternarybob/newslens/internal/services/analysis"
	"github.com/ternarybob/newslens/internal/services/speech"
	"github.com/ternarybob/newslens/internal/services/translation"
)

const analysisReply = `{"Title": "", "Summary": "A summary.", "Sentiment_Score": 4.0, "Topics": ["Earnings"], "Sentiment_Indicators": ["growth"]}`

const aggregationReply = `{"Sentiment_Trend": "Mostly positive", "Coverage_Differences": [{"Comparison": "c", "Articles_Involved": ["a"], "Impact": "i"}]}`

// routingGenerator answers each pipeline stage by matching prompt markers.
type routingGenerator struct {
	failAnalysis    bool
	failTranslation bool
	calls           []string
}

func (g *routingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "Analyze the above news article"):
		g.calls = append(g.calls, "analyze")
		if g.failAnalysis {
			return "", errors.New("analysis backend down")
		}
		return analysisReply, nil
	case strings.Contains(prompt, "comparative analysis"):
		g.calls = append(g.calls, "aggregate")
		return aggregationReply, nil
	case strings.Contains(prompt, "Summarize the overall sentiment"):
		g.calls = append(g.calls, "summarize")
		return "Coverage is favorable overall.", nil
	case strings.Contains(prompt, "Translate the following"):
		g.calls = append(g.calls, "translate")
		if g.failTranslation {
			return "", errors.New("translation backend down")
		}
		return "समग्र कवरेज अनुकूल है।", nil
	default:
		return "", errors.New("unexpected prompt")
	}
}

type fakeSource struct {
	articles []models.ArticleRecord
	err      error
}

func (f *fakeSource) Search(ctx context.Context, companyName string, maxResults int) ([]models.ArticleRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if maxResults > 0 && len(f.articles) > maxResults {
		return f.articles[:maxResults], nil
	}
	return f.articles, nil
}

type memoryStore struct {
	data map[string]string
}

func (m *memoryStore) Get(ctx context.Context, key string) (string, error) {
	value, ok := m.data[key]
	if !ok {
		return "", interfaces.ErrKeyNotFound
	}
	return value, nil
}

func (m *memoryStore) Set(ctx context.Context, key string, value string) error {
	m.data[key] = value
	return nil
}

type memoryReports struct {
	saved map[string]*models.CompanyReport
}

func (m *memoryReports) SaveReport(ctx context.Context, report *models.CompanyReport) error {
	if report.Slug == "" {
		report.Slug = common.CompanySlug(report.Company)
	}
	m.saved[report.Slug] = report
	return nil
}

func (m *memoryReports) GetReport(ctx context.Context, slug string) (*models.CompanyReport, error) {
	report, ok := m.saved[slug]
	if !ok {
		return nil, interfaces.ErrKeyNotFound
	}
	return report, nil
}

func (m *memoryReports) ListSlugs(ctx context.Context) ([]string, error) {
	slugs := make([]string, 0, len(m.saved))
	for slug := range m.saved {
		slugs = append(slugs, slug)
	}
	return slugs, nil
}

func (m *memoryReports) DeleteReport(ctx context.Context, slug string) error {
	if _, ok := m.saved[slug]; !ok {
		return interfaces.ErrKeyNotFound
	}
	delete(m.saved, slug)
	return nil
}

func sampleArticles(n int) []models.ArticleRecord {
	articles := make([]models.ArticleRecord, 0, n)
	names := []string{"Record deliveries reported", "Margins under pressure", "New factory announced", "Analysts upgrade outlook"}
	for i := 0; i < n; i++ {
		articles = append(articles, models.ArticleRecord{
			Title:   names[i%len(names)],
			Content: "Body of article " + names[i%len(names)],
		})
	}
	return articles
}

func newTestProcessor(t *testing.T, gen interfaces.TextGenerator, source interfaces.ArticleSource, companies []string) (*Processor, *memoryReports) {
	t.Helper()
	logger := arbor.NewLogger()
	cache := analysis.NewResponseCache(&memoryStore{data: map[string]string{}}, logger)
	reports := &memoryReports{saved: map[string]*models.CompanyReport{}}

	config := &common.BatchConfig{
		Companies:     companies,
		MaxArticles:   10,
		MinSuccessful: 3,
		Pacing:        "1ms",
		AudioDir:      t.TempDir(),
	}

	processor := NewProcessor(
		source,
		analysis.NewArticleAnalyzer(gen, cache, logger),
		analysis.NewComparativeAggregator(gen, cache, logger),
		analysis.NewFinalSummarizer(gen, cache, logger),
		translation.NewPipeline(gen, cache, "Hindi", 4000, time.Millisecond, logger),
		speech.NewTranscriptSink(logger),
		reports,
		config,
		logger,
	)
	return processor, reports
}

func TestProcessCompanyFullPipeline(t *testing.T) {
	gen := &routingGenerator{}
	source := &fakeSource{articles: sampleArticles(4)}
	processor, reports := newTestProcessor(t, gen, source, nil)

	report, err := processor.ProcessCompany(context.Background(), "Tesla Motors")

	require.NoError(t, err)
	assert.Equal(t, "tesla_motors", report.Slug)
	assert.Len(t, report.Articles, 4)
	require.NotNil(t, report.Comparative)
	assert.Equal(t, "Mostly positive", report.Comparative.SentimentTrend)
	assert.Equal(t, 4.0, report.Comparative.AverageSentimentScore)
	assert.Equal(t, "Coverage is favorable overall.", report.FinalSentiment)
	assert.Equal(t, "समग्र कवरेज अनुकूल है।", report.HindiSentiment)
	assert.NotEmpty(t, report.AudioPath)

	persisted, err := reports.GetReport(context.Background(), "tesla_motors")
	require.NoError(t, err)
	assert.Equal(t, report, persisted)
}

func TestProcessCompanyTooFewAnalyses(t *testing.T) {
	gen := &routingGenerator{failAnalysis: true}
	source := &fakeSource{articles: sampleArticles(4)}
	processor, reports := newTestProcessor(t, gen, source, nil)

	report, err := processor.ProcessCompany(context.Background(), "Tesla")

	require.NoError(t, err) // skipped stages are not a failure
	assert.Empty(t, report.Articles)
	assert.Nil(t, report.Comparative)
	assert.Empty(t, report.FinalSentiment)
	assert.NotContains(t, gen.calls, "aggregate")

	_, err = reports.GetReport(context.Background(), "tesla")
	assert.NoError(t, err) // partial report is still persisted
}

func TestProcessCompanyNoArticles(t *testing.T) {
	gen := &routingGenerator{}
	source := &fakeSource{}
	processor, _ := newTestProcessor(t, gen, source, nil)

	_, err := processor.ProcessCompany(context.Background(), "Tesla")

	assert.Error(t, err)
}

func TestProcessCompanyTranslationFailureDegrades(t *testing.T) {
	gen := &routingGenerator{failTranslation: true}
	source := &fakeSource{articles: sampleArticles(3)}
	processor, _ := newTestProcessor(t, gen, source, nil)

	report, err := processor.ProcessCompany(context.Background(), "Tesla")

	require.NoError(t, err)
	assert.Equal(t, "Coverage is favorable overall.", report.FinalSentiment)
	assert.Empty(t, report.HindiSentiment)
	assert.Empty(t, report.AudioPath)
}

func TestRunAllCountsOutcomes(t *testing.T) {
	gen := &routingGenerator{}
	// Shared source returns articles for every company; failure comes from a
	// second processor pass with an erroring source below
	source := &fakeSource{articles: sampleArticles(3)}
	processor, _ := newTestProcessor(t, gen, source, []string{"Tesla", "Apple"})

	summary, err := processor.RunAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)
	assert.NotEmpty(t, summary.RunID)
	assert.False(t, summary.EndTime.Before(summary.StartTime))
}

func TestRunAllContinuesAfterCompanyFailure(t *testing.T) {
	gen := &routingGenerator{}
	source := &fakeSource{err: errors.New("feed unavailable")}
	processor, _ := newTestProcessor(t, gen, source, []string{"Tesla", "Apple"})

	summary, err := processor.RunAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, summary.Succeeded)
	assert.Equal(t, 2, summary.Failed)
}
