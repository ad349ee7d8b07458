package fakes

import (
	"context"
	"starwarsproxy/src/domain/entities"
	"sync"
	"time"
)

type recordKey struct {
	id         string
	recordType string
}

// RecordStore simula o upsert do repositório: created_at preservado, updated_at renovado.
type RecordStore struct {
	mu         sync.Mutex
	records    map[recordKey]entities.Record
	order      []recordKey
	now        func() time.Time
	FindAllErr map[string]error
	SaveErr    error
	FindErr    error
}

func NewRecordStore() *RecordStore {
	return &RecordStore{
		records:    map[recordKey]entities.Record{},
		now:        func() time.Time { return time.Now().UTC() },
		FindAllErr: map[string]error{},
	}
}

// Seed grava o registro como está, timestamps incluídos.
func (s *RecordStore) Seed(record entities.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(record)
}

func (s *RecordStore) FindByID(ctx context.Context, id string, recordType string) (*entities.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FindErr != nil {
		return nil, false, s.FindErr
	}

	record, ok := s.records[recordKey{id: id, recordType: recordType}]
	if !ok {
		return nil, false, nil
	}
	return &record, true, nil
}

func (s *RecordStore) FindAll(ctx context.Context, recordType string) ([]entities.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.FindAllErr[recordType]; err != nil {
		return nil, err
	}

	records := make([]entities.Record, 0)
	for _, key := range s.order {
		if key.recordType == recordType {
			records = append(records, s.records[key])
		}
	}
	return records, nil
}

func (s *RecordStore) Save(ctx context.Context, record entities.Record) (*entities.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return nil, s.SaveErr
	}

	now := s.now()
	key := recordKey{id: record.ID, recordType: record.Type}
	if existing, ok := s.records[key]; ok {
		record.CreatedAt = existing.CreatedAt
	} else {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	s.put(record)
	return &record, nil
}

func (s *RecordStore) put(record entities.Record) {
	key := recordKey{id: record.ID, recordType: record.Type}
	if _, ok := s.records[key]; !ok {
		s.order = append(s.order, key)
	}
	s.records[key] = record
}
