package models

import "time"

// CoverageDifference is one narrative entry describing how two or more
// articles report the same subject differently.
type CoverageDifference struct {
	Comparison       string   `json:"Comparison"`
	ArticlesInvolved []string `json:"Articles_Involved"`
	Impact           string   `json:"Impact"`
}

// SentimentDrivers groups the factors the model identified as driving
// sentiment in either direction.
type SentimentDrivers struct {
	PositiveFactors []string `json:"Positive_Factors"`
	NegativeFactors []string `json:"Negative_Factors"`
}

// TopicAnalysis summarizes topics across the article set.
type TopicAnalysis struct {
	CommonTopics      []string          `json:"Common_Topics"`
	TopicSentimentMap map[string]string `json:"Topic_Sentiment_Map"`
}

// ComparativeAnalysis is the cross-article synthesis for one company.
//
// SentimentDistribution and AverageSentimentScore are always recomputed
// locally from the article list; values proposed by the model are discarded.
type ComparativeAnalysis struct {
	SentimentDistribution map[SentimentLabel]int `json:"Sentiment_Distribution"`
	AverageSentimentScore float64                `json:"Average_Sentiment_Score"`
	SentimentTrend        string                 `json:"Sentiment_Trend"`
	CoverageDifferences   []CoverageDifference   `json:"Coverage_Differences"`
	SentimentDrivers      SentimentDrivers       `json:"Sentiment_Drivers"`
	TopicAnalysis         TopicAnalysis          `json:"Topic_Analysis"`
}

// CompanyReport is the persisted per-company analysis result. Reports are
// keyed by the normalized company slug so independent writers and readers
// agree on the key.
type CompanyReport struct {
	ID             string               `json:"id"`
	Company        string               `json:"company"`
	Slug           string               `json:"slug" badgerhold:"key"`
	Articles       []ArticleAnalysis    `json:"articles"`
	Comparative    *ComparativeAnalysis `json:"comparative,omitempty"`
	FinalSentiment string               `json:"final_sentiment,omitempty"`
	HindiSentiment string               `json:"hindi_sentiment,omitempty"`
	AudioPath      string               `json:"audio_path,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}
