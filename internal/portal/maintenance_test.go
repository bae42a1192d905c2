package portal

import (
	"context"
	"testing"

	"siar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMaintenance_ScopedByRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createIssue(t, f.staff, "Printer jam", nil)
	f.createIssue(t, f.staff, "Monitor flicker", nil)
	f.createIssue(t, f.other, "VPN down", nil)

	own, err := f.svc.ListMaintenance(ctx, f.actor(f.staff))
	require.NoError(t, err)
	require.Len(t, own, 2)
	for _, m := range own {
		assert.Equal(t, f.staff.ID, m.UserID)
	}
	assert.Equal(t, "Monitor flicker", own[0].Problem, "newest first")

	all, err := f.svc.ListMaintenance(ctx, f.actor(f.it))
	require.NoError(t, err)
	assert.Len(t, all, 3)
	require.NotNil(t, all[0].User)
	assert.Equal(t, "Staff Claims", all[0].User.NamaLengkap)
}

func TestCreateMaintenance_DeadlineCreatesEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	issue := f.createIssue(t, f.staff, "Printer jam", ptr("2026-02-01"))
	assert.Equal(t, models.MaintenancePending, issue.Status)
	require.NotNil(t, issue.Deadline)

	events, err := f.svc.ListEvents(ctx, f.actor(f.staff))
	require.NoError(t, err)
	require.Len(t, events, 1)
	ev := events[0]
	assert.Equal(t, "Deadline: Printer jam", ev.Title)
	assert.Equal(t, "Deadline maintenance: Printer jam", ev.Description)
	assert.Equal(t, "orange", ev.Color)
	assert.Equal(t, models.EventDeadlineMaintenance, ev.EventType)
	require.NotNil(t, ev.ReferenceID)
	assert.Equal(t, issue.ID, *ev.ReferenceID)
	assert.True(t, ev.Date.Equal(day("2026-02-01")))

	assert.Equal(t, int64(1), f.count(t, &models.Log{}, "type = ?", "CREATE"))
}

func TestCreateMaintenance_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateMaintenance(ctx, f.actor(f.staff), MaintenanceInput{Category: "Hardware", Problem: "x"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.CreateMaintenance(ctx, f.actor(f.staff), MaintenanceInput{
		Category: "Hardware", Problem: "x", Description: "y", Deadline: ptr("next week"),
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, f.count(t, &models.MaintenanceIssue{}, ""))
}

func TestCreateMaintenance_OtherCategory(t *testing.T) {
	f := newFixture(t)
	issue, err := f.svc.CreateMaintenance(context.Background(), f.actor(f.staff), MaintenanceInput{
		Category:      models.CategoryOther,
		OtherCategory: ptr("Furniture"),
		Problem:       "Broken chair",
		Description:   "Chair leg snapped",
	})
	require.NoError(t, err)
	require.NotNil(t, issue.OtherCategory)
	assert.Equal(t, "Furniture", *issue.OtherCategory)
}

func TestUpdateMaintenance_ITStatusNotifiesOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	issue := f.createIssue(t, f.staff, "Printer jam", ptr("2026-02-01"))

	updated, err := f.svc.UpdateMaintenance(ctx, f.actor(f.it), issue.ID, MaintenanceUpdate{
		Status: ptr(models.MaintenanceResolved),
	})
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceResolved, updated.Status)

	notes, err := f.svc.ListNotifications(ctx, f.actor(f.staff))
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotifyMaintenanceStatus, notes[0].Type)
	assert.Equal(t, "Status Maintenance Diperbarui", notes[0].Title)
	assert.Equal(t, `Laporan "Printer jam" Anda sekarang berstatus: RESOLVED`, notes[0].Message)
	require.NotNil(t, notes[0].ReferenceID)
	assert.Equal(t, issue.ID, *notes[0].ReferenceID)

	assert.Equal(t, int64(1), f.count(t, &models.Log{}, "type = ?", "maintenance_status_update"))
}

func TestUpdateMaintenance_ITCannotEditFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	issue := f.createIssue(t, f.staff, "Printer jam", nil)

	_, err := f.svc.UpdateMaintenance(ctx, f.actor(f.it), issue.ID, MaintenanceUpdate{Problem: ptr("Renamed")})
	assert.ErrorIs(t, err, ErrValidation)

	updated, err := f.svc.UpdateMaintenance(ctx, f.actor(f.it), issue.ID, MaintenanceUpdate{
		Problem: ptr("Renamed"),
		Status:  ptr(models.MaintenanceInProgress),
	})
	require.NoError(t, err)
	assert.Equal(t, "Printer jam", updated.Problem)
	assert.Equal(t, models.MaintenanceInProgress, updated.Status)
}

func TestUpdateMaintenance_InvalidStatus(t *testing.T) {
	f := newFixture(t)
	issue := f.createIssue(t, f.staff, "Printer jam", nil)

	_, err := f.svc.UpdateMaintenance(context.Background(), f.actor(f.it), issue.ID, MaintenanceUpdate{
		Status: ptr(models.MaintenanceStatus("DONE")),
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)
}

func TestUpdateMaintenance_OwnerStatusIgnored(t *testing.T) {
	f := newFixture(t)
	issue := f.createIssue(t, f.staff, "Printer jam", nil)

	updated, err := f.svc.UpdateMaintenance(context.Background(), f.actor(f.staff), issue.ID, MaintenanceUpdate{
		Description: ptr("Still jammed"),
		Status:      ptr(models.MaintenanceResolved),
	})
	require.NoError(t, err)
	assert.Equal(t, "Still jammed", updated.Description)
	assert.Equal(t, models.MaintenancePending, updated.Status)
	assert.Zero(t, f.count(t, &models.Notification{}, ""))
}

func TestUpdateMaintenance_DeadlineSync(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.actor(f.staff)
	issue := f.createIssue(t, f.staff, "Printer jam", nil)
	deadlineEvents := func() []models.Event {
		var evs []models.Event
		require.NoError(t, f.db.Where("event_type = ? AND reference_id = ?", models.EventDeadlineMaintenance, issue.ID).Find(&evs).Error)
		return evs
	}

	_, err := f.svc.UpdateMaintenance(ctx, a, issue.ID, MaintenanceUpdate{Deadline: ptr("2026-03-01")})
	require.NoError(t, err)
	evs := deadlineEvents()
	require.Len(t, evs, 1)
	assert.True(t, evs[0].Date.Equal(day("2026-03-01")))

	_, err = f.svc.UpdateMaintenance(ctx, a, issue.ID, MaintenanceUpdate{Problem: ptr("Scanner jam"), Deadline: ptr("2026-03-05")})
	require.NoError(t, err)
	evs = deadlineEvents()
	require.Len(t, evs, 1)
	assert.Equal(t, "Deadline: Scanner jam", evs[0].Title)
	assert.True(t, evs[0].Date.Equal(day("2026-03-05")))

	updated, err := f.svc.UpdateMaintenance(ctx, a, issue.ID, MaintenanceUpdate{Deadline: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.Deadline)
	assert.Empty(t, deadlineEvents())
}

func TestMaintenance_ForbiddenForStranger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	issue := f.createIssue(t, f.staff, "Printer jam", nil)
	stranger := f.actor(f.other)

	_, err := f.svc.UpdateMaintenance(ctx, stranger, issue.ID, MaintenanceUpdate{Description: ptr("mine now")})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.UpdateMaintenance(ctx, stranger, issue.ID, MaintenanceUpdate{Status: ptr(models.MaintenanceResolved)})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, f.svc.DeleteMaintenance(ctx, stranger, issue.ID), ErrForbidden)
	_, err = f.svc.GetMaintenance(ctx, stranger, issue.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	assert.Equal(t, int64(1), f.count(t, &models.MaintenanceIssue{}, ""))
}

func TestMaintenance_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetMaintenance(ctx, f.actor(f.it), 999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.UpdateMaintenance(ctx, f.actor(f.it), 999, MaintenanceUpdate{Status: ptr(models.MaintenanceResolved)})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.svc.DeleteMaintenance(ctx, f.actor(f.it), 999), ErrNotFound)
}

func TestDeleteMaintenance_Cascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doomed := f.createIssue(t, f.staff, "Printer jam", ptr("2026-02-01"))
	kept := f.createIssue(t, f.staff, "VPN down", ptr("2026-02-02"))
	doomedFile := f.upload(t, f.staff, MaintenanceRef(doomed.ID), "photo.png")
	keptFile := f.upload(t, f.staff, MaintenanceRef(kept.ID), "log.txt")

	require.NoError(t, f.svc.DeleteMaintenance(ctx, f.actor(f.it), doomed.ID))

	assert.Zero(t, f.count(t, &models.MaintenanceIssue{}, "id = ?", doomed.ID))
	assert.Zero(t, f.count(t, &models.Event{}, "reference_id = ? AND event_type = ?", doomed.ID, models.EventDeadlineMaintenance))
	assert.Zero(t, f.count(t, &models.FileUpload{}, "id = ?", doomedFile.ID))

	assert.Equal(t, int64(1), f.count(t, &models.MaintenanceIssue{}, "id = ?", kept.ID))
	assert.Equal(t, int64(1), f.count(t, &models.Event{}, "reference_id = ?", kept.ID))
	assert.Equal(t, int64(1), f.count(t, &models.FileUpload{}, "id = ?", keptFile.ID))

	assert.Equal(t, []string{doomedFile.FilePath}, f.files.removed)
	assert.Contains(t, f.files.saved, keptFile.FilePath)

	var entry models.Log
	require.NoError(t, f.db.Where("type = ?", "maintenance_delete").First(&entry).Error)
	assert.Contains(t, entry.Description, "Admin deleted")
}

func TestDeleteMaintenance_OwnerLabel(t *testing.T) {
	f := newFixture(t)
	issue := f.createIssue(t, f.staff, "Printer jam", nil)

	require.NoError(t, f.svc.DeleteMaintenance(context.Background(), f.actor(f.staff), issue.ID))

	var entry models.Log
	require.NoError(t, f.db.Where("type = ?", "maintenance_delete").First(&entry).Error)
	assert.Contains(t, entry.Description, "User deleted")
	require.NotNil(t, entry.UserID)
	assert.Equal(t, f.staff.ID, *entry.UserID)
}

func TestGetMaintenance_IncludesAttachments(t *testing.T) {
	f := newFixture(t)
	issue := f.createIssue(t, f.staff, "Printer jam", nil)
	f.upload(t, f.staff, MaintenanceRef(issue.ID), "photo.png")

	detail, err := f.svc.GetMaintenance(context.Background(), f.actor(f.it), issue.ID)
	require.NoError(t, err)
	assert.Equal(t, "Printer jam", detail.Problem)
	require.Len(t, detail.Attachments, 1)
	assert.Equal(t, "photo.png", detail.Attachments[0].FileName)
}
