package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/newslens/internal/interfaces"
	"github.com/ternarybob/newslens/internal/models"
)

// FinalSummarizer produces the closing free-text statement for a company's
// aggregate analysis and answers ad-hoc queries against it.
//
// The final summary is cached by company name only, not by content. A stale
// summary can be returned after the underlying article set changes; that
// cache coarseness is an intentional tradeoff.
type FinalSummarizer struct {
	generator interfaces.TextGenerator
	cache     *ResponseCache
	logger    arbor.ILogger
}

// NewFinalSummarizer creates a final summarizer.
func NewFinalSummarizer(generator interfaces.TextGenerator, cache *ResponseCache, logger arbor.ILogger) *FinalSummarizer {
	return &FinalSummarizer{
		generator: generator,
		cache:     cache,
		logger:    logger,
	}
}

// Summarize produces a short narrative statement from the comparative
// analysis and the leading articles. The trimmed model text is returned
// verbatim.
func (s *FinalSummarizer) Summarize(ctx context.Context, companyName string, comparative *models.ComparativeAnalysis, articles []models.ArticleAnalysis) (string, error) {
	cacheKey := s.cache.KeyFor("final", companyName)

	if cached, ok := s.cache.GetString(ctx, cacheKey); ok {
		s.logger.Info().Str("company", companyName).Msg("Using cached final sentiment")
		return cached, nil
	}

	prompt := buildSummaryPrompt(companyName, comparative, articles)

	response, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", &SummaryError{Company: companyName, Cause: err}
	}

	summary := strings.TrimSpace(response)
	s.cache.PutString(ctx, cacheKey, summary)

	s.logger.Info().Str("company", companyName).Int("length", len(summary)).Msg("Final sentiment generated")

	return summary, nil
}

// RespondToQuery answers a user query about a company's sentiment data.
// Responses are cached by company name and query text.
func (s *FinalSummarizer) RespondToQuery(ctx context.Context, companyName string, query string) (string, error) {
	cacheKey := s.cache.KeyFor("query", companyName, query)

	if cached, ok := s.cache.GetString(ctx, cacheKey); ok {
		return cached, nil
	}

	prompt := fmt.Sprintf(`Company: %s

User Query: %s

Summarize an answer **based only on the sentiment trends and key findings**. Avoid generic statements.

Be specific and focus on the key insights from the data, particularly the nuanced sentiment analysis.

If the query relates to sentiment, be sure to reference:
1. The full 5-point sentiment scale (Very Negative to Very Positive)
2. The specific sentiment indicators found in articles
3. Any sentiment trends or patterns across articles

Make your response concrete and evidence-based, citing specific elements from the analysis.`, companyName, query)

	response, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", &SummaryError{Company: companyName, Cause: err}
	}

	answer := strings.TrimSpace(response)
	s.cache.PutString(ctx, cacheKey, answer)

	return answer, nil
}

func buildSummaryPrompt(companyName string, comparative *models.ComparativeAnalysis, articles []models.ArticleAnalysis) string {
	positive := []string{}
	negative := []string{}
	average := 3.0
	if comparative != nil {
		positive = comparative.SentimentDrivers.PositiveFactors
		negative = comparative.SentimentDrivers.NegativeFactors
		average = comparative.AverageSentimentScore
	}

	summaryLines := make([]string, 0, 3)
	for i, article := range articles {
		if i >= 3 {
			break
		}
		title := article.Title
		if title == "" {
			title = fmt.Sprintf("Article %d", i+1)
		}
		summaryLines = append(summaryLines, fmt.Sprintf("- %s (Sentiment: %s, Score: %g/5)", title, article.Sentiment, article.SentimentScore))
	}

	return fmt.Sprintf(`Company: %s

The sentiment analysis for %s has been completed.
Key findings:
- **Positive Factors**: %s
- **Negative Factors**: %s
- **Overall Sentiment Trend**: %.2f/5 on the sentiment scale.

Recent articles:
%s

Summarize the overall sentiment **briefly** in 2-3 sentences. Focus on the **major insights**, avoiding generic statements.

Your analysis should:
1. Describe the nuanced sentiment (not just positive/negative/neutral)
2. Explain key factors driving the sentiment
3. Suggest potential implications for investors or stakeholders
4. Highlight any discrepancies or notable patterns across articles

Avoid generic language and focus on specific insights from the data.`,
		companyName, companyName,
		strings.Join(positive, ", "),
		strings.Join(negative, ", "),
		average,
		strings.Join(summaryLines, "\n"))
}
