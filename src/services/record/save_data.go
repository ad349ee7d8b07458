package record

import (
	"context"
	"encoding/json"
	"fmt"
	"starwarsproxy/src/domain"
	"starwarsproxy/src/domain/entities"
	"time"

	"github.com/google/uuid"
)

type SaveDataInput struct {
	Type string
	Data json.RawMessage
}

// SaveData grava um registro novo com id gerado. Type vazio vira "generic".
func (s *RecordService) SaveData(ctx context.Context, input SaveDataInput) (*entities.Record, error) {
	recordType := input.Type
	if recordType == "" {
		recordType = domain.CategoryGeneric
	}

	saved, err := s.store.Save(ctx, entities.Record{
		ID:   uuid.NewString(),
		Type: recordType,
		Data: input.Data,
	})
	if err != nil {
		return nil, fmt.Errorf("RecordService.SaveData - %w", err)
	}

	event := domain.DomainEvent{
		Type:       domain.EventRecordSaved,
		ID:         saved.ID,
		Category:   saved.Type,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.publisher.PublishSingleEvent(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn("Failed to publish record saved event", "id", saved.ID, "type", saved.Type, "error", err)
	}

	return saved, nil
}
