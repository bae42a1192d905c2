package portal

import "siar/internal/models"

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID   uint
	Role models.Role
	IP   string
}

func (a Actor) IsIT() bool { return a.Role == models.RoleIT }

func (a Actor) userID() *uint {
	if a.ID == 0 {
		return nil
	}
	id := a.ID
	return &id
}

type ResourceKind string

const (
	KindMaintenance   ResourceKind = "maintenance"
	KindProject       ResourceKind = "project"
	KindProjectResult ResourceKind = "project_result"
	KindEvent         ResourceKind = "event"
	KindNotification  ResourceKind = "notification"
	KindLog           ResourceKind = "log"
)

// Resource is the subject of an authorization decision.
type Resource struct {
	Kind      ResourceKind
	OwnerID   uint
	EventType models.EventType
}

type Action int

const (
	ActionView Action = iota
	ActionCreate
	ActionEdit
	ActionSetStatus
	ActionDelete
	ActionAttach
	ActionMarkRead
)

// CanMutate is the single authorization policy consulted by every service.
// IT may set status on, delete, and attach to any maintenance or project record;
// owners edit their own descriptive fields. Custom events are IT-managed and
// deadline events are never touched directly.
func CanMutate(a Actor, r Resource, act Action) bool {
	owner := a.ID != 0 && a.ID == r.OwnerID
	switch r.Kind {
	case KindMaintenance, KindProject:
		switch act {
		case ActionView, ActionDelete, ActionAttach:
			return owner || a.IsIT()
		case ActionEdit:
			return owner
		case ActionSetStatus:
			return a.IsIT()
		}
	case KindProjectResult:
		switch act {
		case ActionView:
			return owner || a.IsIT()
		case ActionAttach:
			return a.IsIT()
		}
	case KindEvent:
		switch act {
		case ActionView:
			return a.ID != 0
		case ActionCreate, ActionDelete:
			return a.IsIT() && !r.EventType.Derived()
		}
	case KindNotification:
		return (act == ActionView || act == ActionMarkRead) && owner
	case KindLog:
		return act == ActionView && a.IsIT()
	}
	return false
}

func authorize(a Actor, r Resource, act Action) error {
	if !CanMutate(a, r, act) {
		return ErrForbidden
	}
	return nil
}
