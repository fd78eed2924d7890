package catalog

import (
	"context"

	"dna-clinic-go/internal/domain/cascade"
)

type Repository interface {
	ListIDs(ctx context.Context, prefix string) ([]string, error)
	List(ctx context.Context) ([]Offering, error)
	ListByType(ctx context.Context, offeringType string) ([]Offering, error)
	ListCategories(ctx context.Context) ([]string, error)
	GetByID(ctx context.Context, id string) (*Offering, error)
	Create(ctx context.Context, offering *Offering) error
	Update(ctx context.Context, offering *Offering) error
}

// Remover is the cascade deleter as seen by the catalog.
type Remover interface {
	Delete(ctx context.Context, root cascade.Table, ids ...string) (cascade.Report, error)
	DeleteUnreferenced(ctx context.Context, root cascade.Table, id string) ([]cascade.Dependent, error)
}
