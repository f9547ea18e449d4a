package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/edubridge/platform/internal/app/models"
)

func TestEnrollmentsWorkbook(t *testing.T) {
	subject := "Mathematics"
	schedule := "Mon 16:00"
	student := &models.Student{FirstName: "Alice", LastName: "Smith"}
	enrollments := []*models.Enrollment{{
		ID:         uuid.New(),
		Schedule:   &schedule,
		EnrolledAt: time.Date(2025, 4, 23, 12, 0, 0, 0, time.UTC),
		Program:    &models.Program{Name: "Algebra I", Subject: &subject},
	}}

	data, err := EnrollmentsWorkbook(student, enrollments)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Enrollments", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Enrollments of Alice Smith", title)

	cells := map[string]string{
		"A3": "Program",
		"A4": "Algebra I",
		"B4": "Mathematics",
		"C4": "",
		"D4": "Mon 16:00",
		"F4": "2025-04-23 12:00",
	}
	for cell, want := range cells {
		got, err := f.GetCellValue("Enrollments", cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}
}

func TestEnrollmentsWorkbookEmpty(t *testing.T) {
	data, err := EnrollmentsWorkbook(nil, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
