package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/newslens/internal/interfaces"
	"github.com/ternarybob/newslens/internal/models"
)

const (
	// aggregateKeyTitles is how many article titles participate in the cache
	// fingerprint, and aggregateKeyTitleLen how much of each. Two article
	// sets sharing the same first titles collide; that coarseness is an
	// accepted approximation.
	aggregateKeyTitles   = 3
	aggregateKeyTitleLen = 20

	// commonTopicsLimit bounds the defaulted common-topics list.
	commonTopicsLimit = 5
)

// ComparativeAggregator combines analyzed articles into a cross-article
// comparative record. Distribution and average score are always computed
// locally; the model contributes only the narrative fields. A malformed
// model reply degrades to a locally synthesized record instead of failing.
type ComparativeAggregator struct {
	generator interfaces.TextGenerator
	cache     *ResponseCache
	logger    arbor.ILogger
}

// NewComparativeAggregator creates a comparative aggregator.
func NewComparativeAggregator(generator interfaces.TextGenerator, cache *ResponseCache, logger arbor.ILogger) *ComparativeAggregator {
	return &ComparativeAggregator{
		generator: generator,
		cache:     cache,
		logger:    logger,
	}
}

// Aggregate produces the comparative analysis for a company's article set.
// Only a failure of the outbound call itself is returned as an error; a
// reply that cannot be parsed yields a degraded result.
func (g *ComparativeAggregator) Aggregate(ctx context.Context, companyName string, articles []models.ArticleAnalysis) (*models.ComparativeAnalysis, error) {
	cacheKey := g.cacheKey(companyName, articles)

	var cached models.ComparativeAnalysis
	if g.cache.GetRecord(ctx, cacheKey, &cached) {
		g.logger.Info().Str("company", companyName).Msg("Using cached comparative analysis")
		return &cached, nil
	}

	distribution := SentimentDistribution(articles)
	average := AverageSentimentScore(articles)
	topics := distinctTopics(articles, commonTopicsLimit)

	prompt := buildAggregationPrompt(companyName, articles, distribution, average)

	response, err := g.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, &AggregationError{Company: companyName, Cause: err}
	}

	result, parseErr := parseAggregationReply(response)
	if parseErr != nil {
		g.logger.Error().Err(parseErr).Str("company", companyName).
			Msg("Failed to parse comparative reply, returning degraded analysis")
		result = degradedComparative(articles, topics)
	}

	// Local computation is authoritative regardless of the model reply
	result.SentimentDistribution = distribution
	result.AverageSentimentScore = average

	applyComparativeDefaults(result, articles, topics)

	g.cache.PutRecord(ctx, cacheKey, result)

	g.logger.Info().
		Str("company", companyName).
		Int("articles", len(articles)).
		Float64("average_score", average).
		Msg("Comparative analysis generated")

	return result, nil
}

func (g *ComparativeAggregator) cacheKey(companyName string, articles []models.ArticleAnalysis) string {
	inputs := []string{companyName}
	for i, article := range articles {
		if i >= aggregateKeyTitles {
			break
		}
		inputs = append(inputs, truncate(article.Title, aggregateKeyTitleLen))
	}
	return g.cache.KeyFor("comparative", inputs...)
}

// SentimentDistribution counts articles per label. Every label is present in
// the result, so the counts always sum to len(articles).
func SentimentDistribution(articles []models.ArticleAnalysis) map[models.SentimentLabel]int {
	distribution := make(map[models.SentimentLabel]int, len(models.SentimentLabels))
	for _, label := range models.SentimentLabels {
		distribution[label] = 0
	}
	for _, article := range articles {
		distribution[models.LabelForScore(article.SentimentScore)]++
	}
	return distribution
}

// AverageSentimentScore is the arithmetic mean of article scores, 3.0 for an
// empty list.
func AverageSentimentScore(articles []models.ArticleAnalysis) float64 {
	if len(articles) == 0 {
		return 3.0
	}
	total := 0.0
	for _, article := range articles {
		total += article.SentimentScore
	}
	return total / float64(len(articles))
}

// distinctTopics returns up to limit topics in first-seen order.
func distinctTopics(articles []models.ArticleAnalysis, limit int) []string {
	seen := make(map[string]bool)
	topics := []string{}
	for _, article := range articles {
		for _, topic := range article.Topics {
			if seen[topic] {
				continue
			}
			seen[topic] = true
			topics = append(topics, topic)
			if len(topics) == limit {
				return topics
			}
		}
	}
	return topics
}

func firstTitles(articles []models.ArticleAnalysis, n int) []string {
	titles := []string{}
	for i, article := range articles {
		if i >= n {
			break
		}
		title := article.Title
		if title == "" {
			title = "Unknown"
		}
		titles = append(titles, title)
	}
	return titles
}

func parseAggregationReply(response string) (*models.ComparativeAnalysis, error) {
	cleaned := cleanMarkdownFences(response)

	var result models.ComparativeAnalysis
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("failed to parse comparative reply: %w (response: %s)", err, truncate(cleaned, 200))
	}
	return &result, nil
}

// degradedComparative is the locally synthesized record returned when the
// model reply cannot be parsed. Distribution and average are filled in by
// the caller.
func degradedComparative(articles []models.ArticleAnalysis, topics []string) *models.ComparativeAnalysis {
	return &models.ComparativeAnalysis{
		SentimentTrend: "Unable to determine due to processing error",
		CoverageDifferences: []models.CoverageDifference{
			{
				Comparison:       "Analysis encountered an error",
				ArticlesInvolved: firstTitles(articles, 2),
				Impact:           "Complete comparative analysis not available",
			},
		},
		SentimentDrivers: models.SentimentDrivers{
			PositiveFactors: []string{},
			NegativeFactors: []string{},
		},
		TopicAnalysis: models.TopicAnalysis{
			CommonTopics:      topics,
			TopicSentimentMap: map[string]string{},
		},
	}
}

// applyComparativeDefaults fills the narrative fields the model omitted so
// the record always satisfies its shape contract.
func applyComparativeDefaults(result *models.ComparativeAnalysis, articles []models.ArticleAnalysis, topics []string) {
	if len(result.CoverageDifferences) == 0 {
		result.CoverageDifferences = []models.CoverageDifference{
			{
				Comparison:       "Differences in reporting emphasis",
				ArticlesInvolved: firstTitles(articles, 2),
				Impact:           "Creates varied impressions of company priorities",
			},
		}
	}
	if result.SentimentDrivers.PositiveFactors == nil {
		result.SentimentDrivers.PositiveFactors = []string{}
	}
	if result.SentimentDrivers.NegativeFactors == nil {
		result.SentimentDrivers.NegativeFactors = []string{}
	}
	if len(result.TopicAnalysis.CommonTopics) == 0 {
		result.TopicAnalysis.CommonTopics = topics
	}
	if result.TopicAnalysis.TopicSentimentMap == nil {
		result.TopicAnalysis.TopicSentimentMap = map[string]string{}
	}
}

func buildAggregationPrompt(companyName string, articles []models.ArticleAnalysis, distribution map[models.SentimentLabel]int, average float64) string {
	entries := make([]string, 0, len(articles))
	for i, article := range articles {
		title := article.Title
		if title == "" {
			title = fmt.Sprintf("Article %d", i+1)
		}
		summary := article.Summary
		if summary == "" {
			summary = "No summary available"
		}
		entries = append(entries, fmt.Sprintf(
			"Article %d: %s\n- Summary: %s\n- Sentiment: %s (Score: %g/5)\n- Topics: %s\n- Key Indicators: %s",
			i+1, title, summary, article.Sentiment, article.SentimentScore,
			strings.Join(article.Topics, ", "), strings.Join(article.SentimentIndicators, ", ")))
	}
	articlesText := strings.Join(entries, "\n\n")

	return fmt.Sprintf(`Company: %s

Articles about %s:
%s

TASK: Generate a DETAILED comparative analysis of how news coverage differs across these articles.

Focus on:
1. How the SAME topics are covered differently (positive in one article, negative in another)
2. UNIQUE perspectives or angles that appear in only some articles
3. CONFLICTING information or claims between articles
4. EMPHASIS differences - what some articles highlight vs. downplay
5. TIMELINE differences - how reporting has evolved if articles span different dates

DO NOT default to generic analysis. Be SPECIFIC about actual differences found.
If articles are similar, identify the subtle ways they still differ in perspective.

Format the response as a JSON with these fields:
{
  "Sentiment_Distribution": {
    "Very Positive": %d,
    "Positive": %d,
    "Neutral": %d,
    "Negative": %d,
    "Very Negative": %d
  },
  "Average_Sentiment_Score": %.2f,
  "Sentiment_Trend": "Description of overall sentiment pattern across articles",
  "Coverage_Differences": [
    {
      "Comparison": "Description of a key difference between articles",
      "Articles_Involved": ["Article title 1", "Article title 2"],
      "Impact": "Impact on overall perception"
    }
  ],
  "Sentiment_Drivers": {
    "Positive_Factors": ["Factor1", "Factor2", ...],
    "Negative_Factors": ["Factor1", "Factor2", ...]
  },
  "Topic_Analysis": {
    "Common_Topics": ["Topic1", "Topic2", ...],
    "Topic_Sentiment_Map": {
      "Topic1": "Positive/Negative/Mixed/Neutral"
    }
  }
}

IMPORTANT: Provide at least 3-4 specific, detailed coverage differences in the Coverage_Differences array.
Do not include any explanation or other text outside the JSON object.`,
		companyName, companyName, articlesText,
		distribution[models.SentimentVeryPositive],
		distribution[models.SentimentPositive],
		distribution[models.SentimentNeutral],
		distribution[models.SentimentNegative],
		distribution[models.SentimentVeryNegative],
		average)
}
