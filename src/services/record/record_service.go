package record

import (
	"context"
	"log/slog"
	"starwarsproxy/src/domain"
	"starwarsproxy/src/domain/entities"
)

// RecordStore é satisfeito por *repositories.RecordRepository.
type RecordStore interface {
	FindByID(ctx context.Context, id string, recordType string) (*entities.Record, bool, error)
	FindAll(ctx context.Context, recordType string) ([]entities.Record, error)
	Save(ctx context.Context, record entities.Record) (*entities.Record, error)
}

type EventPublisher interface {
	PublishSingleEvent(ctx context.Context, event domain.DomainEvent) error
}

type RecordService struct {
	store     RecordStore
	publisher EventPublisher
	logger    *slog.Logger
}

func NewRecordService(store RecordStore, publisher EventPublisher, logger *slog.Logger) *RecordService {
	return &RecordService{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}
