package test_seeder

import (
	"context"
	"starwarsproxy/src/domain/entities"
)

func (ts TestSeeder) SelectRecordsByType(ctx context.Context, recordType string) ([]entities.Record, error) {
	query := `SELECT id, type, data, created_at, updated_at
			  FROM records WHERE type = $1
			  ORDER BY id`

	rows, err := ts.pool.Query(ctx, query, recordType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []entities.Record
	for rows.Next() {
		var record entities.Record
		err := rows.Scan(
			&record.ID,
			&record.Type,
			&record.Data,
			&record.CreatedAt,
			&record.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}
