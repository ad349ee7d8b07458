package record

import (
	"context"
	"fmt"
	"starwarsproxy/src/domain/entities"
)

// GetData devolve found=false quando o registro não existe; ausência não é erro.
func (s *RecordService) GetData(ctx context.Context, id string, recordType string) (*entities.Record, bool, error) {
	record, found, err := s.store.FindByID(ctx, id, recordType)
	if err != nil {
		return nil, false, fmt.Errorf("RecordService.GetData - %w", err)
	}
	return record, found, nil
}

func (s *RecordService) GetAllData(ctx context.Context, recordType string) ([]entities.Record, error) {
	records, err := s.store.FindAll(ctx, recordType)
	if err != nil {
		return nil, fmt.Errorf("RecordService.GetAllData - %w", err)
	}
	if records == nil {
		records = []entities.Record{}
	}
	return records, nil
}
