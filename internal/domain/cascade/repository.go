package cascade

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	Savepoint(ctx context.Context, name string, fn func(Repository) error) error
	SelectIDs(ctx context.Context, table Table, column string, values []string) ([]string, error)
	Count(ctx context.Context, table Table, column string, values []string) (int64, error)
	DeleteByIDs(ctx context.Context, table Table, ids []string) (int64, error)
	Nullify(ctx context.Context, table Table, column string, values []string) (int64, error)
}
