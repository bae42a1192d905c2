package portal

import (
	"bytes"
	"context"
	"testing"

	"siar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoredName(t *testing.T) {
	tests := []struct {
		original string
		want     string
	}{
		{"report.pdf", "7_1700000000000_report.pdf"},
		{"laporan bulan (1).tar.gz", "7_1700000000000_laporan_bulan__1__tar.gz"},
		{"../../etc/passwd", "7_1700000000000_passwd"},
		{`C:\docs\scan v2.PNG`, "7_1700000000000_scan_v2.PNG"},
	}
	for _, tt := range tests {
		t.Run(tt.original, func(t *testing.T) {
			assert.Equal(t, tt.want, storedName(7, 1700000000000, tt.original))
		})
	}
}

func TestParseEntityRef(t *testing.T) {
	ref, err := ParseEntityRef("project_result", " 12 ")
	require.NoError(t, err)
	assert.Equal(t, ProjectResultRef(12), ref)

	for _, tc := range [][2]string{{"", "1"}, {"maintenance", ""}, {"maintenance", "abc"}, {"maintenance", "0"}, {"invoice", "1"}} {
		_, err := ParseEntityRef(tc[0], tc[1])
		assert.ErrorIs(t, err, ErrValidation, "%q/%q", tc[0], tc[1])
	}
}

func TestUploadFile_StoresAndRecords(t *testing.T) {
	f := newFixture(t)
	issue := f.createIssue(t, f.staff, "Printer jam", nil)

	row := f.upload(t, f.staff, MaintenanceRef(issue.ID), "foto printer.jpg")
	assert.Equal(t, models.EntityMaintenance, row.EntityType)
	assert.Equal(t, "foto printer.jpg", row.FileName)
	assert.Equal(t, f.staff.ID, row.UploadedByID)
	assert.Equal(t, int64(len("content of foto printer.jpg")), row.FileSize)
	assert.Contains(t, row.FilePath, "/uploads/maintenance/")
	assert.Contains(t, f.files.saved, row.FilePath)
	assert.Equal(t, int64(1), f.count(t, &models.Log{}, "type = ?", "file_upload"))

	// IT may attach to anyone's record.
	f.upload(t, f.it, MaintenanceRef(issue.ID), "diagnosa.pdf")
	files, err := f.svc.ListFiles(context.Background(), f.actor(f.staff), MaintenanceRef(issue.ID))
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "diagnosa.pdf", files[0].FileName)
}

func TestUploadFile_Authorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	issue := f.createIssue(t, f.staff, "Printer jam", nil)
	p := f.createProject(t, f.staff, "Dashboard", nil)
	body := func() UploadInput {
		return UploadInput{Name: "a.txt", ContentType: "text/plain", Body: bytes.NewBufferString("a")}
	}

	_, err := f.svc.UploadFile(ctx, f.actor(f.other), MaintenanceRef(issue.ID), body())
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.UploadFile(ctx, f.actor(f.staff), ProjectResultRef(p.ID), body())
	assert.ErrorIs(t, err, ErrForbidden, "results are delivered by IT")
	f.upload(t, f.it, ProjectResultRef(p.ID), "hasil.zip")

	_, err = f.svc.UploadFile(ctx, f.actor(f.staff), ProjectRef(999), body())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.UploadFile(ctx, f.actor(f.staff), ProjectRef(p.ID), UploadInput{Name: "a.txt"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.ListFiles(ctx, f.actor(f.other), ProjectResultRef(p.ID))
	assert.ErrorIs(t, err, ErrForbidden)
	results, err := f.svc.ListFiles(ctx, f.actor(f.staff), ProjectResultRef(p.ID))
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Len(t, f.files.saved, 1)
}

func TestUploadFile_TooLarge(t *testing.T) {
	f := newFixture(t)
	f.files.limit = 8
	issue := f.createIssue(t, f.staff, "Printer jam", nil)

	_, err := f.svc.UploadFile(context.Background(), f.actor(f.staff), MaintenanceRef(issue.ID), UploadInput{
		Name: "scan.pdf", ContentType: "application/pdf", Body: bytes.NewBufferString("more than eight bytes"),
	})
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Empty(t, f.files.saved)
	assert.Zero(t, f.count(t, &models.FileUpload{}, ""))
	assert.Zero(t, f.count(t, &models.Log{}, "type = ?", "file_upload"))
}
