package storage

import (
	"context"

	v1 "github.com/gridbinder-lab/project-gridbinder/internal/api/v1"
)

// DirectoryStore loads the records served by the grid endpoints.
// Implementations return the full record set; filtering, sorting, paging
// and grouping happen in the query engine.
type DirectoryStore interface {
	// ListEmployees returns every employee with its company, main company
	// and country associations populated. Missing associations are nil.
	ListEmployees(ctx context.Context) ([]v1.Employee, error)

	ListCompanies(ctx context.Context) ([]v1.Company, error)
}
