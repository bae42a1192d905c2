package portal

import (
	"testing"

	"siar/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCanMutate(t *testing.T) {
	it := Actor{ID: 1, Role: models.RoleIT}
	owner := Actor{ID: 2, Role: models.RoleNonIT}
	stranger := Actor{ID: 3, Role: models.RoleNonIT}
	anon := Actor{}

	record := Resource{Kind: KindMaintenance, OwnerID: 2}
	project := Resource{Kind: KindProject, OwnerID: 2}
	result := Resource{Kind: KindProjectResult, OwnerID: 2}
	custom := Resource{Kind: KindEvent, EventType: models.EventCustom}
	derived := Resource{Kind: KindEvent, EventType: models.EventDeadlineProject}
	note := Resource{Kind: KindNotification, OwnerID: 2}
	logs := Resource{Kind: KindLog}

	tests := []struct {
		name string
		a    Actor
		r    Resource
		act  Action
		want bool
	}{
		{"owner views", owner, record, ActionView, true},
		{"stranger views", stranger, record, ActionView, false},
		{"it views", it, record, ActionView, true},
		{"owner edits", owner, record, ActionEdit, true},
		{"it edits others", it, project, ActionEdit, false},
		{"owner sets status", owner, project, ActionSetStatus, false},
		{"it sets status", it, project, ActionSetStatus, true},
		{"it deletes", it, record, ActionDelete, true},
		{"stranger deletes", stranger, project, ActionDelete, false},
		{"owner attaches", owner, project, ActionAttach, true},
		{"owner attaches result", owner, result, ActionAttach, false},
		{"it attaches result", it, result, ActionAttach, true},
		{"owner views result", owner, result, ActionView, true},
		{"stranger views result", stranger, result, ActionView, false},
		{"anyone views events", stranger, custom, ActionView, true},
		{"anonymous views events", anon, custom, ActionView, false},
		{"it creates custom", it, custom, ActionCreate, true},
		{"staff creates custom", owner, custom, ActionCreate, false},
		{"it deletes derived", it, derived, ActionDelete, false},
		{"owner reads own notification", owner, note, ActionMarkRead, true},
		{"it reads others notification", it, note, ActionMarkRead, false},
		{"it views logs", it, logs, ActionView, true},
		{"staff views logs", owner, logs, ActionView, false},
		{"anonymous owns nothing", anon, Resource{Kind: KindNotification}, ActionView, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanMutate(tt.a, tt.r, tt.act))
		})
	}
}
