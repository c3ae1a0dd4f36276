package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/newslens/internal/interfaces"
	"github.com/ternarybob/newslens/internal/models"
)

const (
	// analysisContentBudget is the maximum content length submitted to the
	// model per article.
	analysisContentBudget = 4000

	// analysisCacheKeyPrefix is how much content participates in the cache
	// fingerprint alongside the title.
	analysisCacheKeyPrefix = 1000

	// contentPreviewLength bounds the stored content preview.
	contentPreviewLength = 200
)

// ArticleAnalyzer turns one article into a structured sentiment/topic record.
// Results are cached by a fingerprint of the title and a content prefix, so
// re-analyzing the same article issues no external call.
type ArticleAnalyzer struct {
	generator interfaces.TextGenerator
	cache     *ResponseCache
	logger    arbor.ILogger
}

// NewArticleAnalyzer creates an article analyzer.
func NewArticleAnalyzer(generator interfaces.TextGenerator, cache *ResponseCache, logger arbor.ILogger) *ArticleAnalyzer {
	return &ArticleAnalyzer{
		generator: generator,
		cache:     cache,
		logger:    logger,
	}
}

// Analyze produces the sentiment/topic record for one article. A cache hit
// is returned verbatim without re-validation. On a miss the model reply is
// parsed with field defaults applied, the sentiment label is recomputed from
// the score, and the completed record is cached.
func (a *ArticleAnalyzer) Analyze(ctx context.Context, article models.ArticleRecord) (*models.ArticleAnalysis, error) {
	cacheKey := a.cache.KeyFor("analyze", article.Title, truncate(article.Content, analysisCacheKeyPrefix))

	var cached models.ArticleAnalysis
	if a.cache.GetRecord(ctx, cacheKey, &cached) {
		a.logger.Info().Str("title", article.Title).Msg("Using cached analysis for article")
		return &cached, nil
	}

	prompt := buildAnalysisPrompt(article.Title, truncate(article.Content, analysisContentBudget))

	response, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, &AnalysisError{Title: article.Title, Cause: err}
	}

	result, err := parseAnalysisReply(response, article)
	if err != nil {
		return nil, &AnalysisError{Title: article.Title, Cause: err}
	}

	a.cache.PutRecord(ctx, cacheKey, result)

	a.logger.Info().
		Str("title", article.Title).
		Str("sentiment", string(result.Sentiment)).
		Float64("score", result.SentimentScore).
		Msg("Article analyzed")

	return result, nil
}

// parseAnalysisReply extracts the JSON record from a possibly fenced model
// reply, applies field defaults, and normalizes label and derived fields.
func parseAnalysisReply(response string, article models.ArticleRecord) (*models.ArticleAnalysis, error) {
	cleaned := cleanMarkdownFences(response)

	var reply struct {
		Title               string   `json:"Title"`
		Summary             string   `json:"Summary"`
		SentimentScore      *float64 `json:"Sentiment_Score"`
		Topics              []string `json:"Topics"`
		SentimentIndicators []string `json:"Sentiment_Indicators"`
	}
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		return nil, fmt.Errorf("failed to parse analysis reply: %w (response: %s)", err, truncate(cleaned, 200))
	}

	score := 3.0
	if reply.SentimentScore != nil {
		score = *reply.SentimentScore
	}

	result := &models.ArticleAnalysis{
		Title:               reply.Title,
		Summary:             reply.Summary,
		SentimentScore:      score,
		Topics:              reply.Topics,
		SentimentIndicators: reply.SentimentIndicators,
	}

	if result.Topics == nil {
		result.Topics = []string{}
	}
	if result.SentimentIndicators == nil {
		result.SentimentIndicators = []string{}
	}

	// The input title is authoritative when the reply omits it
	if result.Title == "" {
		result.Title = article.Title
	}

	// The label proposed by the model is discarded
	result.Sentiment = models.LabelForScore(result.SentimentScore)

	result.ContentLength = len(article.Content)
	if len(article.Content) > contentPreviewLength {
		result.ContentPreview = truncate(article.Content, contentPreviewLength) + "..."
	} else {
		result.ContentPreview = article.Content
	}

	return result, nil
}

func buildAnalysisPrompt(title, content string) string {
	return fmt.Sprintf(`Title: %s

Content: %s... (truncated)

Analyze the above news article about a company and provide the following:
1. A concise summary of the article (2-3 sentences)
2. The sentiment of the article on a 5-point scale - CRITICAL INSTRUCTION: DO NOT DEFAULT TO NEUTRAL. Look for sentiment signals and lean toward assigning a non-neutral sentiment unless truly warranted:
   - Very Negative (1): Highly critical, reporting major problems or failures
   - Negative (2): Reporting problems, challenges, or disappointing performance
   - Neutral (3): Balanced reporting of facts with minimal bias
   - Positive (4): Reporting success, growth, or positive developments
   - Very Positive (5): Highly favorable, reporting exceptional performance or achievements
3. A list of 2-4 main topics or themes mentioned in the article
4. Key sentiment indicators - IMPORTANT: Identify SPECIFIC words, phrases, or facts that convey sentiment, particularly those that suggest non-neutral attitudes

Format your response as a JSON object with these fields:
{
  "Title": "%s",
  "Summary": "Concise summary here",
  "Sentiment": "Very Negative/Negative/Neutral/Positive/Very Positive",
  "Sentiment_Score": A number from 1-5 where 1=Very Negative, 3=Neutral, 5=Very Positive,
  "Topics": ["Topic1", "Topic2", ...],
  "Sentiment_Indicators": ["Indicator1", "Indicator2", ...]
}

IMPORTANT GUIDELINES:
- Assign sentiment scores of 1, 2, 4, or 5 whenever possible
- Use 3 (Neutral) ONLY when the article is truly balanced with equal positive and negative elements
- Look for subtle indicators of sentiment in word choice and emphasis
- Consider industry context (e.g., "steady growth" is positive; "only grew by 2%%" suggests disappointment)

Do not include any explanation or other text outside the JSON object.`, title, content, title)
}
