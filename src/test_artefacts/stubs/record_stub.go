package stubs

import (
	"encoding/json"
	"starwarsproxy/src/domain"
	"starwarsproxy/src/domain/entities"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

type RecordStub struct {
	record entities.Record
}

func NewRecordStub() RecordStub {
	now := time.Now().UTC()

	data := map[string]interface{}{
		"name":  gofakeit.Name(),
		"email": gofakeit.Email(),
	}
	dataJSON, _ := json.Marshal(data)

	record := entities.Record{
		ID:        gofakeit.UUID(),
		Type:      domain.CategoryGeneric,
		Data:      dataJSON,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return RecordStub{record: record}
}

func (rs RecordStub) WithID(id string) RecordStub {
	rs.record.ID = id
	return rs
}

func (rs RecordStub) WithType(recordType string) RecordStub {
	rs.record.Type = recordType
	return rs
}

func (rs RecordStub) WithData(data map[string]interface{}) RecordStub {
	dataJSON, _ := json.Marshal(data)
	rs.record.Data = dataJSON
	return rs
}

func (rs RecordStub) WithCreatedAt(createdAt time.Time) RecordStub {
	rs.record.CreatedAt = createdAt
	rs.record.UpdatedAt = createdAt
	return rs
}

func (rs RecordStub) Get() entities.Record {
	return rs.record
}
