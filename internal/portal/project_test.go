package portal

import (
	"context"
	"testing"

	"siar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProjects_ScopedByRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createProject(t, f.staff, "SOP 2026", nil)
	f.createProject(t, f.other, "Claims template", nil)

	own, err := f.svc.ListProjects(ctx, f.actor(f.other))
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "Claims template", own[0].Title)

	all, err := f.svc.ListProjects(ctx, f.actor(f.it))
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateProject_DeadlineEvent(t *testing.T) {
	f := newFixture(t)
	p := f.createProject(t, f.staff, "SOP 2026", ptr("2026-01-20"))
	assert.Equal(t, models.ProjectPending, p.Status)

	var ev models.Event
	require.NoError(t, f.db.Where("event_type = ? AND reference_id = ?", models.EventDeadlineProject, p.ID).First(&ev).Error)
	assert.Equal(t, "Deadline: SOP 2026", ev.Title)
	assert.Equal(t, "Deadline project: SOP 2026", ev.Description)
	assert.Equal(t, "purple", ev.Color)
	assert.Equal(t, f.staff.ID, ev.UserID)
}

func TestCreateProject_RequiresTitleAndDescription(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateProject(context.Background(), f.actor(f.staff), ProjectInput{Title: "only title"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateProject_CompletionRequiresResult(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createProject(t, f.staff, "SOP 2026", nil)

	_, err := f.svc.UpdateProject(ctx, f.actor(f.it), p.ID, ProjectUpdate{Status: ptr(models.ProjectCompleted)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.UpdateProject(ctx, f.actor(f.it), p.ID, ProjectUpdate{
		Status:      ptr(models.ProjectCompleted),
		ResultType:  ptr(models.ResultLink),
		ResultValue: ptr("   "),
	})
	assert.ErrorIs(t, err, ErrValidation)

	var stored models.ProjectItem
	require.NoError(t, f.db.First(&stored, p.ID).Error)
	assert.Equal(t, models.ProjectPending, stored.Status)
	assert.Nil(t, stored.ResultValue)
	assert.Zero(t, f.count(t, &models.Notification{}, ""))
}

func TestUpdateProject_CompletionStoresAndOverwritesResult(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createProject(t, f.staff, "SOP 2026", nil)
	it := f.actor(f.it)

	done, err := f.svc.UpdateProject(ctx, it, p.ID, ProjectUpdate{
		Status:      ptr(models.ProjectCompleted),
		ResultType:  ptr(models.ResultLink),
		ResultValue: ptr("https://drive.example.com/sop"),
		ResultName:  ptr("SOP final"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectCompleted, done.Status)
	require.NotNil(t, done.ResultType)
	assert.Equal(t, models.ResultLink, *done.ResultType)
	assert.Equal(t, "https://drive.example.com/sop", *done.ResultValue)
	assert.Equal(t, "SOP final", *done.ResultName)

	again, err := f.svc.UpdateProject(ctx, it, p.ID, ProjectUpdate{
		Status:      ptr(models.ProjectCompleted),
		ResultType:  ptr(models.ResultFile),
		ResultValue: ptr("/uploads/project_result/1_1_sop.pdf"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ResultFile, *again.ResultType)
	assert.Equal(t, "/uploads/project_result/1_1_sop.pdf", *again.ResultValue)
	assert.Nil(t, again.ResultName)

	reopened, err := f.svc.UpdateProject(ctx, it, p.ID, ProjectUpdate{Status: ptr(models.ProjectInProgress)})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectInProgress, reopened.Status)
	require.NotNil(t, reopened.ResultValue, "other transitions keep the result")

	notes, err := f.svc.ListNotifications(ctx, f.actor(f.staff))
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, "Status Project Diperbarui", notes[0].Title)
	assert.Equal(t, `Request project "SOP 2026" Anda sekarang berstatus: IN_PROGRESS`, notes[0].Message)
}

func TestUpdateProject_ITOwnerNoSelfNotification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createProject(t, f.it, "Server upgrade", nil)

	updated, err := f.svc.UpdateProject(ctx, f.actor(f.it), p.ID, ProjectUpdate{
		Title:  ptr("Server upgrade phase 1"),
		Status: ptr(models.ProjectInProgress),
	})
	require.NoError(t, err)
	assert.Equal(t, "Server upgrade phase 1", updated.Title)
	assert.Equal(t, models.ProjectInProgress, updated.Status)
	assert.Zero(t, f.count(t, &models.Notification{}, ""))
	assert.Equal(t, int64(1), f.count(t, &models.Log{}, "type = ?", "project_edit"))
}

func TestProject_ForbiddenForStranger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createProject(t, f.staff, "SOP 2026", nil)

	_, err := f.svc.UpdateProject(ctx, f.actor(f.other), p.ID, ProjectUpdate{Title: ptr("hijack")})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, f.svc.DeleteProject(ctx, f.actor(f.other), p.ID), ErrForbidden)
}

func TestDeleteProject_CascadesAttachmentsAndResults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createProject(t, f.staff, "SOP 2026", ptr("2026-01-20"))
	other := f.createProject(t, f.staff, "Template", ptr("2026-01-21"))
	f.upload(t, f.staff, ProjectRef(p.ID), "brief.docx")
	f.upload(t, f.it, ProjectResultRef(p.ID), "result.pdf")
	f.upload(t, f.staff, ProjectRef(other.ID), "keep.docx")
	// a maintenance issue sharing the numeric id must be untouched
	issue := f.createIssue(t, f.staff, "Printer jam", nil)
	f.upload(t, f.staff, MaintenanceRef(issue.ID), "photo.png")

	require.NoError(t, f.svc.DeleteProject(ctx, f.actor(f.staff), p.ID))

	assert.Zero(t, f.count(t, &models.FileUpload{}, "entity_id = ? AND entity_type IN ?", p.ID,
		[]models.EntityType{models.EntityProject, models.EntityProjectResult}))
	assert.Zero(t, f.count(t, &models.Event{}, "event_type = ? AND reference_id = ?", models.EventDeadlineProject, p.ID))
	assert.Equal(t, int64(2), f.count(t, &models.FileUpload{}, ""))
	assert.Equal(t, int64(1), f.count(t, &models.Event{}, ""))
	assert.Len(t, f.files.removed, 2)
}

func TestGetProject_SplitsAttachmentsAndResults(t *testing.T) {
	f := newFixture(t)
	p := f.createProject(t, f.staff, "SOP 2026", nil)
	f.upload(t, f.staff, ProjectRef(p.ID), "brief.docx")
	f.upload(t, f.it, ProjectResultRef(p.ID), "result.pdf")

	detail, err := f.svc.GetProject(context.Background(), f.actor(f.staff), p.ID)
	require.NoError(t, err)
	require.Len(t, detail.Attachments, 1)
	require.Len(t, detail.Results, 1)
	assert.Equal(t, "result.pdf", detail.Results[0].FileName)
}
