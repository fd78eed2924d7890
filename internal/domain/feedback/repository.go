package feedback

import (
	"context"

	"dna-clinic-go/internal/domain/cascade"
)

type Repository interface {
	ListIDs(ctx context.Context, prefix string) ([]string, error)
	GetByID(ctx context.Context, id string) (*Feedback, error)
	List(ctx context.Context) ([]Feedback, error)
	ListByService(ctx context.Context, serviceID string) ([]Feedback, error)
	Create(ctx context.Context, feedback *Feedback) error
	Update(ctx context.Context, feedback *Feedback) error
	UserExists(ctx context.Context, id string) (bool, error)
	ServiceExists(ctx context.Context, id string) (bool, error)
}

type Remover interface {
	Delete(ctx context.Context, root cascade.Table, ids ...string) (cascade.Report, error)
}
