package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/edubridge/platform/internal/app/models"
)

// XLSXContentType is the MIME type of the generated workbook
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const enrollmentSheet = "Enrollments"

var enrollmentHeader = []interface{}{"Program", "Subject", "Level", "Schedule", "Learning goals", "Enrolled at"}

// EnrollmentsWorkbook renders a student's enrollments as a single-sheet xlsx file
func EnrollmentsWorkbook(student *models.Student, enrollments []*models.Enrollment) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", enrollmentSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	title := "Enrollments"
	if student != nil {
		title = fmt.Sprintf("Enrollments of %s", student.FullName())
	}
	if err := f.SetCellValue(enrollmentSheet, "A1", title); err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(enrollmentSheet, "A3", &enrollmentHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(enrollmentSheet, "A1", "F3", bold); err != nil {
		return nil, err
	}

	for i, e := range enrollments {
		cell, err := excelize.CoordinatesToCellName(1, i+4)
		if err != nil {
			return nil, err
		}
		row := enrollmentRow(e)
		if err := f.SetSheetRow(enrollmentSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(enrollmentSheet, "A", "F", 22); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func enrollmentRow(e *models.Enrollment) []interface{} {
	var name, subject, level string
	if e.Program != nil {
		name = e.Program.Name
		subject = deref(e.Program.Subject)
		level = deref(e.Program.Level)
	}
	return []interface{}{
		name,
		subject,
		level,
		deref(e.Schedule),
		deref(e.LearningGoals),
		e.EnrolledAt.UTC().Format("2006-01-02 15:04"),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
