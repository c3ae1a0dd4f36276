package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/newslens/internal/common"
	"github.com/ternarybob/newslens/internal/interfaces"
	"github.com/ternarybob/newslens/internal/models"
)

// minContentLength is the threshold below which an extracted page is
// considered empty and the feed description is used instead.
const minContentLength = 200

// GoogleNewsSource supplies articles for a company from a Google News RSS
// search feed. Full article content is fetched from the linked page when
// enabled, falling back to the feed description when the page cannot be
// retrieved or yields too little text.
type GoogleNewsSource struct {
	feedURL      string
	userAgent    string
	fetchContent bool
	parser       *gofeed.Parser
	client       *http.Client
	logger       arbor.ILogger
}

// NewGoogleNewsSource creates a Google News article source.
func NewGoogleNewsSource(config *common.NewsConfig, logger arbor.ILogger) (*GoogleNewsSource, error) {
	if config.FeedURL == "" {
		return nil, fmt.Errorf("news feed URL is required")
	}
	if !strings.Contains(config.FeedURL, "%s") {
		return nil, fmt.Errorf("news feed URL must contain a %%s company placeholder")
	}

	timeout := 20 * time.Second
	if config.RequestTimeout != "" {
		parsed, err := time.ParseDuration(config.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid request timeout '%s': %w", config.RequestTimeout, err)
		}
		timeout = parsed
	}

	parser := gofeed.NewParser()
	parser.UserAgent = config.UserAgent

	return &GoogleNewsSource{
		feedURL:      config.FeedURL,
		userAgent:    config.UserAgent,
		fetchContent: config.FetchContent,
		parser:       parser,
		client:       &http.Client{Timeout: timeout},
		logger:       logger,
	}, nil
}

// Search returns up to maxResults articles mentioning the company. Ordering
// follows the feed; no freshness contract is made.
func (s *GoogleNewsSource) Search(ctx context.Context, companyName string, maxResults int) ([]models.ArticleRecord, error) {
	feedURL := fmt.Sprintf(s.feedURL, url.QueryEscape(companyName))

	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news feed for '%s': %w", companyName, err)
	}

	articles := make([]models.ArticleRecord, 0, maxResults)
	for _, item := range feed.Items {
		if maxResults > 0 && len(articles) >= maxResults {
			break
		}

		title, source := splitTitleSource(item.Title)
		record := models.ArticleRecord{
			Title:  title,
			URL:    item.Link,
			Source: source,
		}
		if item.PublishedParsed != nil {
			record.Published = *item.PublishedParsed
		}

		record.Content = s.articleContent(ctx, item)
		if record.Content == "" {
			s.logger.Debug().Str("title", title).Msg("Skipping article with no content")
			continue
		}

		articles = append(articles, record)
	}

	s.logger.Info().
		Str("company", companyName).
		Int("articles", len(articles)).
		Int("feed_items", len(feed.Items)).
		Msg("News search completed")

	return articles, nil
}

// articleContent returns the best available text for an item: the linked
// page's paragraphs when content fetching is enabled, the feed description
// otherwise or on failure.
func (s *GoogleNewsSource) articleContent(ctx context.Context, item *gofeed.Item) string {
	description := stripHTML(item.Description)

	if !s.fetchContent || item.Link == "" {
		return description
	}

	content, err := s.fetchPage(ctx, item.Link)
	if err != nil {
		s.logger.Debug().Err(err).Str("url", item.Link).Msg("Article fetch failed, using feed description")
		return description
	}
	if len(content) < minContentLength {
		return description
	}
	return content
}

// fetchPage retrieves an article page and extracts its paragraph text.
func (s *GoogleNewsSource) fetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	paragraphs := []string{}
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
	})

	return strings.Join(paragraphs, "\n\n"), nil
}

// splitTitleSource separates the publisher suffix Google News appends to
// item titles ("Headline - Publisher").
func splitTitleSource(title string) (string, string) {
	idx := strings.LastIndex(title, " - ")
	if idx <= 0 {
		return title, ""
	}
	return strings.TrimSpace(title[:idx]), strings.TrimSpace(title[idx+3:])
}

// stripHTML reduces an HTML fragment to its text content.
func stripHTML(fragment string) string {
	if fragment == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(doc.Text())
}

// Ensure GoogleNewsSource implements ArticleSource
var _ interfaces.ArticleSource = (*GoogleNewsSource)(nil)
