package repositories

import (
	"context"
	"fmt"
	"starwarsproxy/src/domain"
	"starwarsproxy/src/domain/entities"
	"starwarsproxy/src/infra/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RecordRepository é o store durável: tabela records endereçada por (id, type).
// Ao contrário do cache, erros aqui sempre sobem para o chamador.
type RecordRepository struct {
	readPool  *pgxpool.Pool
	writePool *pgxpool.Pool
}

func NewRecordRepository(readPool *pgxpool.Pool, writePool *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{readPool: readPool, writePool: writePool}
}

func (r *RecordRepository) FindByID(ctx context.Context, id string, recordType string) (*entities.Record, bool, error) {
	query := `
		SELECT id, type, data, created_at, updated_at
		FROM records
		WHERE id = $1 AND type = $2`

	var record entities.Record
	err := r.readPool.QueryRow(ctx, query, id, recordType).Scan(
		&record.ID,
		&record.Type,
		&record.Data,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if postgres.IsNoRows(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("RecordRepository.FindByID - failed to query %s/%s: %w", recordType, id, err)
	}

	return &record, true, nil
}

// FindAll devolve todos os registros do tipo, sem ordem garantida.
func (r *RecordRepository) FindAll(ctx context.Context, recordType string) ([]entities.Record, error) {
	query := `
		SELECT id, type, data, created_at, updated_at
		FROM records
		WHERE type = $1`

	rows, err := r.readPool.Query(ctx, query, recordType)
	if err != nil {
		return nil, fmt.Errorf("RecordRepository.FindAll - failed to query %s: %w", recordType, err)
	}
	defer rows.Close()

	records := make([]entities.Record, 0)
	for rows.Next() {
		var record entities.Record
		if err := rows.Scan(&record.ID, &record.Type, &record.Data, &record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, fmt.Errorf("RecordRepository.FindAll - failed to scan %s: %w", recordType, err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("RecordRepository.FindAll - error iterating %s rows: %w", recordType, err)
	}

	return records, nil
}

// Save faz upsert: colisão de (id, type) sobrescreve data, preserva created_at
// e atualiza updated_at. Timestamps são sempre do banco.
func (r *RecordRepository) Save(ctx context.Context, record entities.Record) (*entities.Record, error) {
	query := `
		INSERT INTO records (id, type, data, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, now(), now())
		ON CONFLICT (id, type)
		DO UPDATE SET
			data = excluded.data,
			updated_at = now()
		RETURNING created_at, updated_at`

	saved := record
	err := r.writePool.QueryRow(ctx, query, record.ID, record.Type, string(record.Data)).Scan(&saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("RecordRepository.Save - failed to upsert %s/%s: %w", record.Type, record.ID, err)
	}

	return &saved, nil
}

func (r *RecordRepository) Update(ctx context.Context, record entities.Record) (*entities.Record, error) {
	query := `
		UPDATE records
		SET data = $3::jsonb, updated_at = now()
		WHERE id = $1 AND type = $2
		RETURNING created_at, updated_at`

	updated := record
	err := r.writePool.QueryRow(ctx, query, record.ID, record.Type, string(record.Data)).Scan(&updated.CreatedAt, &updated.UpdatedAt)
	if postgres.IsNoRows(err) {
		return nil, fmt.Errorf("RecordRepository.Update - %s/%s: %w", record.Type, record.ID, domain.ErrRecordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("RecordRepository.Update - failed to update %s/%s: %w", record.Type, record.ID, err)
	}

	return &updated, nil
}

func (r *RecordRepository) Delete(ctx context.Context, id string, recordType string) error {
	if _, err := r.writePool.Exec(ctx, `DELETE FROM records WHERE id = $1 AND type = $2`, id, recordType); err != nil {
		return fmt.Errorf("RecordRepository.Delete - failed to delete %s/%s: %w", recordType, id, err)
	}
	return nil
}
