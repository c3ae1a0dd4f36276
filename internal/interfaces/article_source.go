package interfaces

import (
	"context"

	"github.com/ternarybob/newslens/internal/models"
)

// ArticleSource supplies raw articles for a company. There is no contract on
// ordering or freshness; callers treat the result as an opaque sample of
// recent coverage.
type ArticleSource interface {
	// Search returns up to maxResults articles mentioning the company.
	Search(ctx context.Context, companyName string, maxResults int) ([]models.ArticleRecord, error)
}
