package auth

import (
	"github.com/traininghub/training-api/internal/models"
)

// Action identifies an operation subject to authorization
type Action string

// Actions covered by the authorization policy
const (
	ActionListUsers      Action = "list_users"
	ActionReadUser       Action = "read_user"
	ActionCreateUser     Action = "create_user"
	ActionUpdateUser     Action = "update_user"
	ActionDeleteUser     Action = "delete_user"
	ActionListSessions   Action = "list_sessions"
	ActionReadSession    Action = "read_session"
	ActionCreateSession  Action = "create_session"
	ActionUpdateSession  Action = "update_session"
	ActionDeleteSession  Action = "delete_session"
	ActionReadAnalytics  Action = "read_analytics"
	ActionGenerateReport Action = "generate_report"
)

// Authorize decides whether the actor may perform the action on the target.
// targetID is the user ID the action refers to, or nil when the action has
// no user target. The decision is side-effect-free; every action must be
// listed here, there is no implicit allow.
func Authorize(role models.Role, actorID int, action Action, targetID *int) error {
	switch action {
	case ActionListUsers:
		if role == models.RoleAdmin || role == models.RoleTrainer {
			return nil
		}

	case ActionReadUser:
		if role == models.RoleAdmin || role == models.RoleTrainer {
			return nil
		}
		if targetID != nil && actorID == *targetID {
			return nil
		}

	case ActionCreateUser:
		if role == models.RoleAdmin {
			return nil
		}

	case ActionUpdateUser:
		if role == models.RoleAdmin {
			return nil
		}
		// Self-update only
		if targetID != nil && actorID == *targetID {
			return nil
		}

	case ActionDeleteUser:
		if role == models.RoleAdmin {
			return nil
		}

	case ActionListSessions, ActionReadSession:
		// Any authenticated role may read sessions. There is no ownership
		// filter: a trainee sees all sessions.
		if role.Valid() {
			return nil
		}

	case ActionCreateSession, ActionUpdateSession:
		if role == models.RoleAdmin || role == models.RoleTrainer {
			return nil
		}

	case ActionDeleteSession:
		if role == models.RoleAdmin {
			return nil
		}

	case ActionReadAnalytics, ActionGenerateReport:
		if role == models.RoleAdmin {
			return nil
		}
	}

	return models.ErrForbidden
}
