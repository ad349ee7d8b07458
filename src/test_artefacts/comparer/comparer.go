package comparer

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"starwarsproxy/src/domain/entities"
)

// Postgres guarda timestamps com precisão de microssegundo e o jsonb reordena
// chaves, então comparações diretas com o que foi inserido falham.

// TimeWithinTolerance considera iguais instantes a até toleranceMs de distância.
func TimeWithinTolerance(toleranceMs int) cmp.Option {
	tolerance := time.Duration(toleranceMs) * time.Millisecond

	return cmp.Comparer(func(x, y time.Time) bool {
		diff := x.Sub(y)
		if diff < 0 {
			diff = -diff
		}
		return diff <= tolerance
	})
}

// JSONRawMessage compara o conteúdo decodificado, ignorando espaços e ordem das chaves.
func JSONRawMessage() cmp.Option {
	return cmp.Comparer(func(x, y json.RawMessage) bool {
		if len(bytes.TrimSpace(x)) == 0 || len(bytes.TrimSpace(y)) == 0 {
			return len(bytes.TrimSpace(x)) == len(bytes.TrimSpace(y))
		}

		var xObj, yObj any
		if json.Unmarshal(x, &xObj) != nil || json.Unmarshal(y, &yObj) != nil {
			return false
		}
		return cmp.Equal(xObj, yObj)
	})
}

// RecordContent compara apenas id, type e data de um Record.
func RecordContent() cmp.Option {
	return cmp.Options{
		JSONRawMessage(),
		cmpopts.IgnoreFields(entities.Record{}, "CreatedAt", "UpdatedAt"),
	}
}
