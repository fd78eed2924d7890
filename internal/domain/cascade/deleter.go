package cascade

import (
	"context"
	"errors"
	"fmt"

	"dna-clinic-go/pkg/logger"
)

// Report counts the rows touched by one cascade delete.
type Report struct {
	Deleted   map[Table]int64
	Nullified map[Table]int64
	Skipped   []Table
}

func newReport() *Report {
	return &Report{
		Deleted:   make(map[Table]int64),
		Nullified: make(map[Table]int64),
	}
}

func (r *Report) merge(other *Report) {
	for table, n := range other.Deleted {
		r.Deleted[table] += n
	}
	for table, n := range other.Nullified {
		r.Nullified[table] += n
	}
}

// Dependent is the number of rows in Table referencing a parent row.
type Dependent struct {
	Table Table
	Count int64
}

type Deleter struct {
	repo  Repository
	graph Graph
	log   logger.Logger
}

func NewDeleter(repo Repository, log logger.Logger) *Deleter {
	return &Deleter{repo: repo, graph: Ownership, log: log}
}

// Delete removes the root rows and everything the ownership graph hangs off
// them, in one transaction. Nothing is removed when any required step fails.
func (d *Deleter) Delete(ctx context.Context, root Table, ids ...string) (Report, error) {
	report := newReport()
	if len(ids) == 0 {
		return *report, ErrNothingDeleted
	}

	err := d.repo.Transaction(ctx, func(tx Repository) error {
		if err := d.walk(ctx, tx, root, ids, report); err != nil {
			return err
		}
		if report.Deleted[root] == 0 {
			return ErrNothingDeleted
		}
		return nil
	})
	if err != nil {
		return *newReport(), err
	}

	return *report, nil
}

// DeleteUnreferenced removes a single root row only if nothing owned by it
// exists. The count and the delete share one transaction, and a row that
// slips in between is caught by the foreign key as ErrReferenced. On
// ErrReferenced the current dependents are returned.
func (d *Deleter) DeleteUnreferenced(ctx context.Context, root Table, id string) ([]Dependent, error) {
	var dependents []Dependent
	err := d.repo.Transaction(ctx, func(tx Repository) error {
		var err error
		dependents, err = d.dependents(ctx, tx, root, id)
		if err != nil {
			return err
		}
		if len(dependents) > 0 {
			return ErrReferenced
		}

		for _, edge := range d.graph[root] {
			if edge.Action != Nullify {
				continue
			}
			if _, err := tx.Nullify(ctx, edge.Child, edge.ForeignKey, []string{id}); err != nil {
				return fmt.Errorf("cascade %s.%s: %w", edge.Child, edge.ForeignKey, err)
			}
		}

		n, err := tx.DeleteByIDs(ctx, root, []string{id})
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNothingDeleted
		}
		return nil
	})
	if errors.Is(err, ErrReferenced) && len(dependents) == 0 {
		if recount, countErr := d.Dependents(ctx, root, id); countErr == nil {
			dependents = recount
		}
	}
	if err != nil && !errors.Is(err, ErrReferenced) {
		return nil, err
	}
	return dependents, err
}

// Dependents counts the direct dependents of one row, in graph order, skipping
// empty categories. Nullify edges are not dependents.
func (d *Deleter) Dependents(ctx context.Context, root Table, id string) ([]Dependent, error) {
	return d.dependents(ctx, d.repo, root, id)
}

func (d *Deleter) dependents(ctx context.Context, repo Repository, root Table, id string) ([]Dependent, error) {
	edges, ok := d.graph[root]
	if !ok {
		return nil, ErrUnknownTable
	}

	result := make([]Dependent, 0, len(edges))
	for _, edge := range edges {
		if edge.Action != Delete || edge.BestEffort {
			continue
		}
		count, err := repo.Count(ctx, edge.Child, edge.ForeignKey, []string{id})
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", edge.Child, err)
		}
		if count > 0 {
			result = append(result, Dependent{Table: edge.Child, Count: count})
		}
	}
	return result, nil
}

func (d *Deleter) walk(ctx context.Context, tx Repository, table Table, ids []string, report *Report) error {
	if len(ids) == 0 {
		return nil
	}

	for _, edge := range d.graph[table] {
		if !edge.BestEffort {
			if err := d.follow(ctx, tx, edge, ids, report); err != nil {
				return fmt.Errorf("cascade %s.%s: %w", edge.Child, edge.ForeignKey, err)
			}
			continue
		}

		partial := newReport()
		err := tx.Savepoint(ctx, "cascade_"+string(edge.Child), func(sp Repository) error {
			return d.follow(ctx, sp, edge, ids, partial)
		})
		if err != nil {
			d.log.Warn("cascade.delete: best-effort step failed", "table", string(edge.Child), "parent", string(table), "err", err.Error())
			report.Skipped = append(report.Skipped, edge.Child)
			continue
		}
		report.merge(partial)
	}

	n, err := tx.DeleteByIDs(ctx, table, ids)
	if err != nil {
		return fmt.Errorf("cascade %s: %w", table, err)
	}
	report.Deleted[table] += n
	return nil
}

func (d *Deleter) follow(ctx context.Context, tx Repository, edge Edge, parentIDs []string, report *Report) error {
	if edge.Action == Nullify {
		n, err := tx.Nullify(ctx, edge.Child, edge.ForeignKey, parentIDs)
		if err != nil {
			return err
		}
		report.Nullified[edge.Child] += n
		return nil
	}

	childIDs, err := tx.SelectIDs(ctx, edge.Child, edge.ForeignKey, parentIDs)
	if err != nil {
		return err
	}
	return d.walk(ctx, tx, edge.Child, childIDs, report)
}
