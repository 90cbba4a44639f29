package mirror

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/acadcentral/acportal_backend/internal/collections"
)

// Store is the durable side of the sync protocol. The gorm implementation
// lives below; handler tests substitute an in-memory fake.
type Store interface {
	// ReadAll returns every collection in decoded record shape.
	ReadAll(ctx context.Context) (map[string][]Record, error)
	// Replace upserts every supplied record and deletes every stored row
	// whose id is absent from the payload. An empty payload clears the
	// collection.
	Replace(ctx context.Context, key string, records []Record) error
}

type dbStore struct {
	db *gorm.DB
}

// NewStore wraps a connected gorm handle in the Store interface.
func NewStore(db *gorm.DB) Store {
	return &dbStore{db: db}
}

func (s *dbStore) ReadAll(ctx context.Context) (map[string][]Record, error) {
	out := make(map[string][]Record, len(collections.All()))
	for _, spec := range collections.All() {
		out[spec.Key] = s.readCollection(ctx, spec)
	}
	return out, nil
}

// readCollection returns an empty slice on query failure; a half-created
// schema must not break the full /api/data response.
func (s *dbStore) readCollection(ctx context.Context, spec collections.Spec) []Record {
	var rows []map[string]any
	err := s.db.WithContext(ctx).
		Table(spec.Key).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return []Record{}
	}
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, Decode(spec, row))
	}
	return records
}

func (s *dbStore) Replace(ctx context.Context, key string, records []Record) error {
	spec, ok := collections.ByKey(key)
	if !ok {
		return fmt.Errorf("unknown collection %q", key)
	}

	ids := make([]string, 0, len(records))
	for _, record := range records {
		id := recordID(record)
		if id == "" {
			continue
		}
		if err := s.upsert(ctx, spec, record); err != nil {
			return err
		}
		ids = append(ids, id)
	}

	if len(ids) > 0 {
		return s.db.WithContext(ctx).
			Exec("DELETE FROM `"+spec.Key+"` WHERE id NOT IN ?", ids).Error
	}
	return s.db.WithContext(ctx).Exec("TRUNCATE TABLE `" + spec.Key + "`").Error
}

// upsert writes a single record through with insert-or-update semantics.
// Records without an id are skipped, not rejected.
func (s *dbStore) upsert(ctx context.Context, spec collections.Spec, record Record) error {
	if recordID(record) == "" {
		return nil
	}
	row := Encode(spec, record)
	if len(row) == 0 {
		return nil
	}

	conflictCols := spec.NaturalKey
	if len(conflictCols) == 0 {
		conflictCols = []string{"id"}
	}
	conflict := make([]clause.Column, len(conflictCols))
	for i, c := range conflictCols {
		conflict[i] = clause.Column{Name: c}
	}

	updates := make([]string, 0, len(row))
	for col := range row {
		if col == "id" {
			continue
		}
		updates = append(updates, col)
	}

	onConflict := clause.OnConflict{Columns: conflict, DoNothing: true}
	if len(updates) > 0 {
		onConflict = clause.OnConflict{
			Columns:   conflict,
			DoUpdates: clause.AssignmentColumns(updates),
		}
	}
	return s.db.WithContext(ctx).
		Table(spec.Key).
		Clauses(onConflict).
		Create(&row).Error
}

func recordID(record Record) string {
	id, _ := record["id"].(string)
	return id
}
