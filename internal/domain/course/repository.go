package course

import (
	"context"

	"dna-clinic-go/internal/domain/cascade"
)

type Repository interface {
	ListIDs(ctx context.Context, prefix string) ([]string, error)
	GetByID(ctx context.Context, id string) (*Course, error)
	List(ctx context.Context) ([]Course, error)
	Create(ctx context.Context, course *Course) error
	Update(ctx context.Context, course *Course) error
	UserExists(ctx context.Context, id string) (bool, error)
}

type Remover interface {
	Delete(ctx context.Context, root cascade.Table, ids ...string) (cascade.Report, error)
}
