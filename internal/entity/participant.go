package entity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidParticipant marks a participant whose type or id is empty.
var ErrInvalidParticipant = errors.New("participant type and id must be non-empty")

// Participant identifies one side of a conversation: a user or a company.
// The pair (Type, ID) is the identity; IDs are only unique within a type.
type Participant struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

func (p Participant) Validate() error {
	if strings.TrimSpace(p.Type) == "" || strings.TrimSpace(p.ID) == "" {
		return ErrInvalidParticipant
	}
	return nil
}

// Room is the realtime delivery address for this participant.
func (p Participant) Room() string {
	return fmt.Sprintf("%s_%s", p.Type, p.ID)
}

// OrderParticipants puts two participants into canonical order: by type
// first, then by id. Both orderings of the same pair yield the same result.
func OrderParticipants(a, b Participant) (Participant, Participant) {
	if a.Type > b.Type || (a.Type == b.Type && a.ID > b.ID) {
		return b, a
	}
	return a, b
}

// ConversationKey derives the symmetric identity of the conversation between
// a and b. Either endpoint can compute it and land on the same key.
func ConversationKey(a, b Participant) (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}
	if err := b.Validate(); err != nil {
		return "", err
	}
	first, second := OrderParticipants(a, b)
	return fmt.Sprintf("%s_%s_%s_%s", first.Type, first.ID, second.Type, second.ID), nil
}
