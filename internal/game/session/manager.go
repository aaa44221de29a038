// Package session tracks connected participants and room presence.
package session

import (
	"fmt"
	"sync"

	"github.com/ironvale/mud/internal/game/player"
)

// Sender pushes narrative lines to a connected client. The telnet layer
// implements it over the connection writer.
type Sender interface {
	Send(line string) error
}

// Session ties a connected participant to their outbound channel and the
// account data needed for persistence.
type Session struct {
	// Participant is the live character state.
	Participant *player.Participant
	// Username is the account username (for logging).
	Username string
	// CharacterID is the database ID of the character for persistence.
	CharacterID int64
	// Role is the account privilege level (player or admin).
	Role string

	sender Sender
}

// Send pushes a narrative line to the client. Delivery failures are returned
// so the caller can decide whether to drop the session.
func (s *Session) Send(line string) error {
	if s.sender == nil {
		return nil
	}
	return s.sender.Send(line)
}

// Manager tracks all active sessions and room occupancy.
// All methods are safe for concurrent use; callers only ever see snapshots
// of the occupancy index.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session        // uid → session
	roomSets map[string]map[string]bool // roomID → set of UIDs
}

// NewManager creates an empty session Manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		roomSets: make(map[string]map[string]bool),
	}
}

// Add registers a session for the given participant in their current room.
//
// Precondition: p is non-nil with non-empty UID and RoomID.
// Postcondition: Returns the created Session, or an error if the UID is
// already connected.
func (m *Manager) Add(p *player.Participant, username string, characterID int64, role string, sender Sender) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[p.UID]; exists {
		return nil, fmt.Errorf("session: %q already connected", p.UID)
	}

	sess := &Session{
		Participant: p,
		Username:    username,
		CharacterID: characterID,
		Role:        role,
		sender:      sender,
	}
	m.sessions[p.UID] = sess
	if m.roomSets[p.RoomID] == nil {
		m.roomSets[p.RoomID] = make(map[string]bool)
	}
	m.roomSets[p.RoomID][p.UID] = true
	return sess, nil
}

// Remove deregisters a session and cleans up room occupancy.
//
// Postcondition: the UID is absent from both indexes. Returns an error if
// not found.
func (m *Manager) Remove(uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, exists := m.sessions[uid]
	if !exists {
		return fmt.Errorf("session: %q not found", uid)
	}

	if rs, ok := m.roomSets[sess.Participant.RoomID]; ok {
		delete(rs, uid)
		if len(rs) == 0 {
			delete(m.roomSets, sess.Participant.RoomID)
		}
	}
	delete(m.sessions, uid)
	return nil
}

// Move relocates a participant to a new room, keeping the occupancy index
// consistent with the participant's RoomID.
//
// Postcondition: Returns the old room ID, or an error if the UID is not
// connected.
func (m *Manager) Move(uid, newRoomID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, exists := m.sessions[uid]
	if !exists {
		return "", fmt.Errorf("session: %q not found", uid)
	}

	oldRoomID := sess.Participant.RoomID
	if rs, ok := m.roomSets[oldRoomID]; ok {
		delete(rs, uid)
		if len(rs) == 0 {
			delete(m.roomSets, oldRoomID)
		}
	}

	sess.Participant.RoomID = newRoomID
	if m.roomSets[newRoomID] == nil {
		m.roomSets[newRoomID] = make(map[string]bool)
	}
	m.roomSets[newRoomID][uid] = true
	return oldRoomID, nil
}

// Get returns the session for the given UID.
//
// Postcondition: Returns (session, true) if found, or (nil, false) otherwise.
func (m *Manager) Get(uid string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[uid]
	return sess, ok
}

// GetByName returns the session whose character carries the given name.
//
// Postcondition: Returns (session, true) if found, or (nil, false) otherwise.
func (m *Manager) GetByName(name string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sess := range m.sessions {
		if sess.Participant.Name == name {
			return sess, true
		}
	}
	return nil, false
}

// UIDsInRoom returns the UIDs of all participants in the given room.
//
// Postcondition: Returns a snapshot slice (may be empty).
func (m *Manager) UIDsInRoom(roomID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	uids, ok := m.roomSets[roomID]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(uids))
	for uid := range uids {
		out = append(out, uid)
	}
	return out
}

// NamesInRoom returns the character names of all participants in the room.
//
// Postcondition: Returns a snapshot slice (may be empty).
func (m *Manager) NamesInRoom(roomID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	uids, ok := m.roomSets[roomID]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(uids))
	for uid := range uids {
		if sess, ok := m.sessions[uid]; ok {
			names = append(names, sess.Participant.Name)
		}
	}
	return names
}

// All returns a snapshot of every connected session.
func (m *Manager) All() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		out = append(out, sess)
	}
	return out
}

// Count returns the total number of connected participants.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
