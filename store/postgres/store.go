// Package postgres is a PostgreSQL document store backend using grove with
// Go-based migrations. All collections share one JSONB-backed table; the
// filter renderer addresses document fields through text accessors.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	"github.com/pawhub/leash/store"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Store is a PostgreSQL implementation of the document store.
type Store struct {
	db   *grove.DB
	pgdb *pgdriver.PgDB
}

// New creates a new PostgreSQL store.
func New(db *grove.DB) *Store {
	return &Store{
		db:   db,
		pgdb: pgdriver.Unwrap(db),
	}
}

// Migrate runs programmatic migrations via the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pgdb)
	if err != nil {
		return fmt.Errorf("leash/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("leash/postgres: migration failed: %w", err)
	}
	return nil
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Find(ctx context.Context, collection string, f *store.Filter, srt store.Sort, p store.Page) ([]store.Document, error) {
	var models []documentModel
	q := s.pgdb.NewSelect(&models).Where("collection = ?", collection)

	expr, args, err := render(f)
	if err != nil {
		return nil, err
	}
	if expr != "" {
		q = q.Where(expr, args...)
	}
	order, err := orderExpr(srt)
	if err != nil {
		return nil, err
	}
	q = q.OrderExpr(order)
	if p.Limit > 0 {
		q = q.Limit(p.Limit)
	}
	if p.Offset > 0 {
		q = q.Offset(p.Offset)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("leash/postgres: find %s: %w", collection, err)
	}
	docs := make([]store.Document, len(models))
	for i := range models {
		docs[i] = fromModel(&models[i])
	}
	return docs, nil
}

func (s *Store) Count(ctx context.Context, collection string, f *store.Filter) (int64, error) {
	q := s.pgdb.NewSelect((*documentModel)(nil)).Where("collection = ?", collection)

	expr, args, err := render(f)
	if err != nil {
		return 0, err
	}
	if expr != "" {
		q = q.Where(expr, args...)
	}
	n, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("leash/postgres: count %s: %w", collection, err)
	}
	return int64(n), nil
}

func (s *Store) Get(ctx context.Context, collection, docID string) (store.Document, error) {
	m, err := s.getModel(ctx, collection, docID)
	if err != nil {
		return nil, err
	}
	return fromModel(m), nil
}

func (s *Store) getModel(ctx context.Context, collection, docID string) (*documentModel, error) {
	m := new(documentModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", rowID(collection, docID)).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s/%s: %w", collection, docID, store.ErrNoDocument)
		}
		return nil, fmt.Errorf("leash/postgres: get %s: %w", collection, err)
	}
	return m, nil
}

func (s *Store) Insert(ctx context.Context, collection string, doc store.Document) error {
	if doc.ID() == "" {
		return fmt.Errorf("leash/postgres: insert into %s: document has no id", collection)
	}
	m := toModel(collection, doc)
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	if _, err := s.pgdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("leash/postgres: insert %s: %w", collection, err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, collection string, doc store.Document) error {
	if doc.ID() == "" {
		return fmt.Errorf("leash/postgres: update in %s: document has no id", collection)
	}
	prev, err := s.getModel(ctx, collection, doc.ID())
	if err != nil {
		return err
	}
	m := toModel(collection, doc)
	m.CreatedAt = prev.CreatedAt
	m.UpdatedAt = time.Now().UTC()
	if _, err := s.pgdb.NewUpdate(m).WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("leash/postgres: update %s: %w", collection, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, docID string) error {
	if _, err := s.getModel(ctx, collection, docID); err != nil {
		return err
	}
	_, err := s.pgdb.NewDelete((*documentModel)(nil)).
		Where("id = ?", rowID(collection, docID)).Exec(ctx)
	if err != nil {
		return fmt.Errorf("leash/postgres: delete %s: %w", collection, err)
	}
	return nil
}
