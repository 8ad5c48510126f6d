package models

import "time"

// EventType tags a ChangeEvent with the mutation it describes
type EventType string

// Change event types, one per committed mutation kind
const (
	EventUserCreated    EventType = "user_created"
	EventUserUpdated    EventType = "user_updated"
	EventUserDeleted    EventType = "user_deleted"
	EventSessionCreated EventType = "session_created"
	EventSessionUpdated EventType = "session_updated"
	EventSessionDeleted EventType = "session_deleted"
)

// ChangeEvent describes one committed mutation. It is serialized as
// {"type": ..., "data": ...} and pushed to every connected real-time client.
type ChangeEvent struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// UserEventData is the payload of user change events. The snapshot is
// omitted on deletion.
type UserEventData struct {
	UserID int    `json:"user_id"`
	Action string `json:"action"`
	User   *User  `json:"user,omitempty"`
}

// SessionEventData is the payload of session change events. Snapshot fields
// are omitted on deletion.
type SessionEventData struct {
	SessionID int            `json:"session_id"`
	Status    *SessionStatus `json:"status,omitempty"`
	UpdatedAt *time.Time     `json:"updated_at,omitempty"`
	Session   *Session       `json:"session,omitempty"`
}

// NewUserEvent builds a user change event carrying a snapshot of the user
func NewUserEvent(eventType EventType, action string, user *User) ChangeEvent {
	return ChangeEvent{
		Type: eventType,
		Data: UserEventData{UserID: user.ID, Action: action, User: user},
	}
}

// NewUserDeletedEvent builds a user deletion event (no snapshot)
func NewUserDeletedEvent(userID int) ChangeEvent {
	return ChangeEvent{
		Type: EventUserDeleted,
		Data: UserEventData{UserID: userID, Action: "deleted"},
	}
}

// NewSessionEvent builds a session change event carrying a snapshot of the session
func NewSessionEvent(eventType EventType, session *Session) ChangeEvent {
	return ChangeEvent{
		Type: eventType,
		Data: SessionEventData{
			SessionID: session.ID,
			Status:    &session.Status,
			UpdatedAt: &session.UpdatedAt,
			Session:   session,
		},
	}
}

// NewSessionDeletedEvent builds a session deletion event (no snapshot)
func NewSessionDeletedEvent(sessionID int) ChangeEvent {
	return ChangeEvent{
		Type: EventSessionDeleted,
		Data: SessionEventData{SessionID: sessionID},
	}
}
