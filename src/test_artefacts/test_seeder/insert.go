package test_seeder

import (
	"context"
	"fmt"
	"starwarsproxy/src/domain/entities"
)

// InsertRecord grava o registro com os timestamps informados, sem passar pelo upsert do repositório.
func (ts TestSeeder) InsertRecord(ctx context.Context, record entities.Record) {
	query := `
		INSERT INTO records (id, type, data, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, $4, $5)`

	_, err := ts.pool.Exec(ctx, query,
		record.ID,
		record.Type,
		string(record.Data),
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		panic(fmt.Sprintf("Seeder.InsertRecord failed: %v", err))
	}
}
