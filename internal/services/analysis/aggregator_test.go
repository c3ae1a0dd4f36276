package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/newslens/internal/models"
)

func analyzedArticles() []models.ArticleAnalysis {
	return []models.ArticleAnalysis{
		{Title: "Recall hits production", SentimentScore: 1.0, Sentiment: models.SentimentVeryNegative, Topics: []string{"Recall", "Production"}},
		{Title: "Record profits announced", SentimentScore: 5.0, Sentiment: models.SentimentVeryPositive, Topics: []string{"Earnings", "Growth"}},
		{Title: "Quarterly report released", SentimentScore: 3.0, Sentiment: models.SentimentNeutral, Topics: []string{"Earnings", "Regulation"}},
	}
}

const aggregationReply = `{
  "Sentiment_Distribution": {"Very Positive": 9, "Positive": 9, "Neutral": 9, "Negative": 9, "Very Negative": 9},
  "Average_Sentiment_Score": 9.9,
  "Sentiment_Trend": "Sharply divided coverage",
  "Coverage_Differences": [
    {"Comparison": "Recall vs profits framing", "Articles_Involved": ["Recall hits production", "Record profits announced"], "Impact": "Mixed perception"}
  ],
  "Sentiment_Drivers": {"Positive_Factors": ["record profits"], "Negative_Factors": ["recall"]},
  "Topic_Analysis": {"Common_Topics": ["Earnings"], "Topic_Sentiment_Map": {"Earnings": "Mixed"}}
}`

func TestSentimentDistributionSumsToArticleCount(t *testing.T) {
	articles := analyzedArticles()
	distribution := SentimentDistribution(articles)

	total := 0
	for _, count := range distribution {
		total += count
	}
	assert.Equal(t, len(articles), total)
	assert.Len(t, distribution, 5) // every label present
}

func TestMixedScoresScenario(t *testing.T) {
	articles := analyzedArticles()

	distribution := SentimentDistribution(articles)
	assert.Equal(t, 1, distribution[models.SentimentVeryNegative])
	assert.Equal(t, 0, distribution[models.SentimentNegative])
	assert.Equal(t, 1, distribution[models.SentimentNeutral])
	assert.Equal(t, 0, distribution[models.SentimentPositive])
	assert.Equal(t, 1, distribution[models.SentimentVeryPositive])

	assert.Equal(t, 3.0, AverageSentimentScore(articles))
}

func TestAverageSentimentScoreEmptyInput(t *testing.T) {
	assert.Equal(t, 3.0, AverageSentimentScore(nil))
}

func TestAggregateOverwritesModelDistribution(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{aggregationReply}}
	aggregator := NewComparativeAggregator(gen, newTestCache(), arbor.NewLogger())

	result, err := aggregator.Aggregate(context.Background(), "Tesla", analyzedArticles())

	require.NoError(t, err)
	// Model-proposed counts and average are discarded
	assert.Equal(t, 1, result.SentimentDistribution[models.SentimentVeryNegative])
	assert.Equal(t, 1, result.SentimentDistribution[models.SentimentVeryPositive])
	assert.Equal(t, 3.0, result.AverageSentimentScore)
	// Narrative fields pass through
	assert.Equal(t, "Sharply divided coverage", result.SentimentTrend)
	assert.Len(t, result.CoverageDifferences, 1)
	assert.Equal(t, []string{"record profits"}, result.SentimentDrivers.PositiveFactors)
}

func TestAggregateEmptyCoverageDifferencesFallback(t *testing.T) {
	reply := `{"Sentiment_Trend": "Stable", "Coverage_Differences": []}`
	gen := &scriptedGenerator{responses: []string{reply}}
	aggregator := NewComparativeAggregator(gen, newTestCache(), arbor.NewLogger())

	result, err := aggregator.Aggregate(context.Background(), "Tesla", analyzedArticles())

	require.NoError(t, err)
	require.Len(t, result.CoverageDifferences, 1)
	fallback := result.CoverageDifferences[0]
	assert.Equal(t, "Differences in reporting emphasis", fallback.Comparison)
	assert.Equal(t, []string{"Recall hits production", "Record profits announced"}, fallback.ArticlesInvolved)
	assert.Equal(t, "Creates varied impressions of company priorities", fallback.Impact)
}

func TestAggregateDefaultsMissingFields(t *testing.T) {
	reply := `{"Sentiment_Trend": "Stable"}`
	gen := &scriptedGenerator{responses: []string{reply}}
	aggregator := NewComparativeAggregator(gen, newTestCache(), arbor.NewLogger())

	result, err := aggregator.Aggregate(context.Background(), "Tesla", analyzedArticles())

	require.NoError(t, err)
	assert.Equal(t, []string{}, result.SentimentDrivers.PositiveFactors)
	assert.Equal(t, []string{}, result.SentimentDrivers.NegativeFactors)
	// First five distinct topics in first-seen order
	assert.Equal(t, []string{"Recall", "Production", "Earnings", "Growth", "Regulation"}, result.TopicAnalysis.CommonTopics)
	assert.Equal(t, map[string]string{}, result.TopicAnalysis.TopicSentimentMap)
}

func TestAggregateMalformedReplyDegrades(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"The articles differ in tone and emphasis."}}
	aggregator := NewComparativeAggregator(gen, newTestCache(), arbor.NewLogger())

	result, err := aggregator.Aggregate(context.Background(), "Tesla", analyzedArticles())

	require.NoError(t, err) // parse failures degrade, never propagate
	assert.Equal(t, "Unable to determine due to processing error", result.SentimentTrend)
	assert.Equal(t, 3.0, result.AverageSentimentScore)
	require.Len(t, result.CoverageDifferences, 1)
	assert.Equal(t, "Analysis encountered an error", result.CoverageDifferences[0].Comparison)
	assert.Equal(t, []string{"Recall hits production", "Record profits announced"}, result.CoverageDifferences[0].ArticlesInvolved)
}

func TestAggregateDegradedResultIsCached(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"not json"}}
	aggregator := NewComparativeAggregator(gen, newTestCache(), arbor.NewLogger())
	ctx := context.Background()

	first, err := aggregator.Aggregate(ctx, "Tesla", analyzedArticles())
	require.NoError(t, err)

	second, err := aggregator.Aggregate(ctx, "Tesla", analyzedArticles())
	require.NoError(t, err)

	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, first, second)
}

func TestAggregateCallFailurePropagates(t *testing.T) {
	callErr := errors.New("generation failed")
	gen := &scriptedGenerator{err: callErr}
	aggregator := NewComparativeAggregator(gen, newTestCache(), arbor.NewLogger())

	_, err := aggregator.Aggregate(context.Background(), "Tesla", analyzedArticles())

	require.Error(t, err)
	var aggErr *AggregationError
	require.ErrorAs(t, err, &aggErr)
	assert.Equal(t, "Tesla", aggErr.Company)
	assert.ErrorIs(t, err, callErr)
}

func TestAggregateCacheKeyUsesFirstThreeTitles(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{aggregationReply}}
	aggregator := NewComparativeAggregator(gen, newTestCache(), arbor.NewLogger())
	ctx := context.Background()

	articles := analyzedArticles()
	_, err := aggregator.Aggregate(ctx, "Tesla", articles)
	require.NoError(t, err)

	// A fourth article does not change the first three titles, so this is a
	// cache hit by design
	extended := append(articles, models.ArticleAnalysis{Title: "New partnership", SentimentScore: 4.0})
	_, err = aggregator.Aggregate(ctx, "Tesla", extended)
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)
}
