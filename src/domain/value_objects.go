package domain

import (
	"errors"
)

var (
	ErrEntityNotFound = errors.New("entity not found")

	ErrRecordNotFound = errors.New("record not found")

	// ErrUpstream marca falhas de rede, timeout ou status não-2xx das APIs externas.
	ErrUpstream = errors.New("upstream request failed")

	ErrUnavailableServer = errors.New("Oops, something unexpected happened. Please try again later.")
)

// Categorias usadas como "type" no store e como prefixo das chaves de cache.
const (
	CategoryCharacter = "character"
	CategoryMovie     = "movie"
	CategoryGeneric   = "generic"
)

// ############################################################
// ################## EVENTOS DE DOMÍNIO ######################
// ############################################################

const (
	EventCharacterFetched = "character.fetched"
	EventRecordSaved      = "record.saved"
)

// DomainEvent é o payload publicado no tópico de eventos.
type DomainEvent struct {
	Type       string `json:"type"`
	ID         string `json:"id"`
	Category   string `json:"category"`
	OccurredAt string `json:"occurred_at"`
}
