package snapshot

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// BunStore persists recreate-lines to Postgres: a single bun.DB over
// pgdriver/pgdialect, one table, upsert on conflict.
type BunStore struct {
	db *bun.DB
}

func NewBunStore(dsn string) *BunStore {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return &BunStore{db: bun.NewDB(sqldb, pgdialect.New())}
}

type recordModel struct {
	bun.BaseModel `bun:"table:plan_snapshots,alias:ps"`

	PlanID    int32  `bun:"plan_id,pk"`
	ElementID uint16 `bun:"element_id,pk"`
	Line      string `bun:"line"`
}

// InitSchema creates the snapshot table if it does not already exist.
func (s *BunStore) InitSchema(ctx context.Context) error {
	_, err := s.db.NewCreateTable().Model((*recordModel)(nil)).IfNotExists().Exec(ctx)
	return err
}

func (s *BunStore) Save(ctx context.Context, rec Record) error {
	model := &recordModel{PlanID: rec.PlanID, ElementID: rec.ElementID, Line: rec.Line}
	_, err := s.db.NewInsert().Model(model).
		On("CONFLICT (plan_id, element_id) DO UPDATE").
		Exec(ctx)
	return err
}

func (s *BunStore) Get(ctx context.Context, planID int32, elementID uint16) (Record, bool, error) {
	model := new(recordModel)
	err := s.db.NewSelect().Model(model).
		Where("plan_id = ?", planID).
		Where("element_id = ?", elementID).
		Scan(ctx)
	if err == sql.ErrNoRows {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	return Record{PlanID: model.PlanID, ElementID: model.ElementID, Line: model.Line}, true, nil
}

func (s *BunStore) ListByPlan(ctx context.Context, planID int32) ([]Record, error) {
	var models []recordModel
	err := s.db.NewSelect().Model(&models).Where("plan_id = ?", planID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Record, len(models))
	for i, m := range models {
		out[i] = Record{PlanID: m.PlanID, ElementID: m.ElementID, Line: m.Line}
	}
	return out, nil
}

func (s *BunStore) DeletePlan(ctx context.Context, planID int32) error {
	_, err := s.db.NewDelete().Model((*recordModel)(nil)).Where("plan_id = ?", planID).Exec(ctx)
	return err
}

// Ping checks database connectivity.
func (s *BunStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Close releases the underlying connection pool.
func (s *BunStore) Close() error { return s.db.Close() }

var _ Store = (*BunStore)(nil)
