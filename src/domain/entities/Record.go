package entities

import (
	"encoding/json"
	"time"
)

// É a linha da tabela records. (ID, Type) endereça o registro de forma única.
type Record struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	// Payload livre; personagens são gravados aqui como JSON.
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
