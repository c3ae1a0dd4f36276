package analysis

import "fmt"

// AnalysisError wraps an unrecoverable failure while analyzing one article.
type AnalysisError struct {
	Title string
	Cause error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("article analysis failed for '%s': %v", e.Title, e.Cause)
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

// AggregationError wraps a failure of the outbound comparative-analysis call.
// JSON-shape problems never produce this error; they degrade locally instead.
type AggregationError struct {
	Company string
	Cause   error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("comparative aggregation failed for '%s': %v", e.Company, e.Cause)
}

func (e *AggregationError) Unwrap() error {
	return e.Cause
}

// SummaryError wraps a failure while generating the final sentiment summary
// or a query response.
type SummaryError struct {
	Company string
	Cause   error
}

func (e *SummaryError) Error() string {
	return fmt.Sprintf("summary generation failed for '%s': %v", e.Company, e.Cause)
}

func (e *SummaryError) Unwrap() error {
	return e.Cause
}
