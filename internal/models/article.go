package models

import "time"

// SentimentLabel is the five-point sentiment classification for an article.
type SentimentLabel string

const (
	SentimentVeryNegative SentimentLabel = "Very Negative"
	SentimentNegative     SentimentLabel = "Negative"
	SentimentNeutral      SentimentLabel = "Neutral"
	SentimentPositive     SentimentLabel = "Positive"
	SentimentVeryPositive SentimentLabel = "Very Positive"
)

// SentimentLabels lists all labels in score order (most negative first).
var SentimentLabels = []SentimentLabel{
	SentimentVeryNegative,
	SentimentNegative,
	SentimentNeutral,
	SentimentPositive,
	SentimentVeryPositive,
}

// LabelForScore derives the sentiment label from a 1-5 score using fixed
// thresholds. The label returned by the model is never trusted; this mapping
// is the single source of truth for label/score consistency.
func LabelForScore(score float64) SentimentLabel {
	switch {
	case score <= 1.5:
		return SentimentVeryNegative
	case score <= 2.5:
		return SentimentNegative
	case score <= 3.5:
		return SentimentNeutral
	case score <= 4.5:
		return SentimentPositive
	default:
		return SentimentVeryPositive
	}
}

// ArticleRecord is a raw article as supplied by an article source.
// Immutable once fetched.
type ArticleRecord struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	URL       string    `json:"url,omitempty"`
	Source    string    `json:"source,omitempty"`
	Published time.Time `json:"published,omitempty"`
}

// ArticleAnalysis is the structured sentiment/topic record derived from one
// article. JSON field names match the model reply shape so a parsed reply
// unmarshals directly into this struct.
type ArticleAnalysis struct {
	Title               string         `json:"Title"`
	Summary             string         `json:"Summary"`
	Sentiment           SentimentLabel `json:"Sentiment"`
	SentimentScore      float64        `json:"Sentiment_Score"`
	Topics              []string       `json:"Topics"`
	SentimentIndicators []string       `json:"Sentiment_Indicators"`

	// Derived from the raw content, not from the model reply.
	ContentLength  int    `json:"Content_Length,omitempty"`
	ContentPreview string `json:"Content_Preview,omitempty"`
}
