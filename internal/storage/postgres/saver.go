package postgres

import (
	"context"

	"github.com/ironvale/mud/internal/game/session"
)

// PlayerSaver persists participants on disconnect. It satisfies the game's
// Persister interface.
type PlayerSaver struct {
	characters *CharacterRepository
}

// NewPlayerSaver creates a PlayerSaver over the given repository.
//
// Precondition: characters must be non-nil.
func NewPlayerSaver(characters *CharacterRepository) *PlayerSaver {
	return &PlayerSaver{characters: characters}
}

// SavePlayer writes the session's participant snapshot over its character row.
//
// Precondition: sess must carry a valid CharacterID.
func (s *PlayerSaver) SavePlayer(ctx context.Context, sess *session.Session) error {
	return s.characters.SaveSnapshot(ctx, sess.CharacterID, sess.Participant.Snapshot())
}
