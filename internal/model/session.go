package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionMode selects which pack-managing flow a session runs
type SessionMode string

const (
	SessionModeAdd    SessionMode = "add"
	SessionModeRemove SessionMode = "remove"
)

// SessionState is the position of a session in its workflow
type SessionState string

const (
	SessionStateIdle                 SessionState = "Idle"
	SessionStateAwaitingLinkDecision SessionState = "AwaitingLinkDecision"
	SessionStateAwaitingConfirmation SessionState = "AwaitingConfirmation"
	SessionStateAwaitingForm         SessionState = "AwaitingForm"
	SessionStateAwaitingDownload     SessionState = "AwaitingDownload"
	SessionStateAwaitingConversion   SessionState = "AwaitingConversion"
	SessionStateAwaitingSelection    SessionState = "AwaitingSelection"

	SessionStatePublished SessionState = "Published"
	SessionStateRemoved   SessionState = "Removed"
	SessionStateCancelled SessionState = "Cancelled"
	SessionStateTimedOut  SessionState = "TimedOut"
	SessionStateFailed    SessionState = "Failed"
)

// IsTerminal returns true if the session has ended
func (s SessionState) IsTerminal() bool {
	switch s {
	case SessionStatePublished, SessionStateRemoved, SessionStateCancelled,
		SessionStateTimedOut, SessionStateFailed:
		return true
	}
	return false
}

// TrimWindow is the part of the source kept in the clip, in seconds.
// End == 0 means "until the end".
type TrimWindow struct {
	Start float64
	End   float64
}

// Session is one invocation of the add or remove flow for one user. It lives
// only as long as the flow and is never persisted.
type Session struct {
	ID     string
	UserID string
	Mode   SessionMode
	Link   string

	Meta        *Metadata
	MaxDuration int // trim ceiling in seconds
	Window      TrimWindow
	Label       string
	Volume      float64 // loudness multiplier, 1.0 == 100%
	FadeMs      int

	// StatusMessageID is the last message shown to the user (the UI handle).
	StatusMessageID string

	State     SessionState
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSession creates an idle session for a user
func NewSession(userID string, link string) *Session {
	mode := SessionModeRemove
	if link != "" {
		mode = SessionModeAdd
	}
	now := time.Now()
	return &Session{
		ID:        generateSessionID(),
		UserID:    userID,
		Mode:      mode,
		Link:      link,
		Volume:    1.0,
		State:     SessionStateIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Transition moves the session to the given state. Terminal sessions do not move.
func (s *Session) Transition(state SessionState) bool {
	if s.State.IsTerminal() {
		return false
	}
	s.State = state
	s.UpdatedAt = time.Now()
	return true
}

// generateSessionID generates a time ordered session ID
func generateSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("session-%d", time.Now().UnixNano())
	}
	return "session-" + id.String()
}
