package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/edubridge/platform/internal/app/models"
)

// UserRepository stores identity records
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	SetGoogleID(ctx context.Context, id uuid.UUID, googleID string) error
}

// StudentRepository stores student profiles
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Student, error)
	ListByParentID(ctx context.Context, parentID uuid.UUID) ([]*models.Student, error)
	Update(ctx context.Context, id uuid.UUID, patch StudentPatch) (*models.Student, error)
	SetParent(ctx context.Context, id, parentID uuid.UUID) error
}

// ParentRepository stores parent profiles
type ParentRepository interface {
	Create(ctx context.Context, parent *models.Parent) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Parent, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Parent, error)
	Update(ctx context.Context, id uuid.UUID, patch ParentPatch) (*models.Parent, error)
}

// SchoolRepository stores school profiles
type SchoolRepository interface {
	Create(ctx context.Context, school *models.School) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.School, error)
	List(ctx context.Context) ([]*models.School, error)
	Update(ctx context.Context, id uuid.UUID, patch SchoolPatch) (*models.School, error)
}

// ProgramRepository stores the program catalogue
type ProgramRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Program, error)
	List(ctx context.Context) ([]*models.Program, error)
	// CreateIfNotExists inserts program unless one with the same name exists and reports whether it did
	CreateIfNotExists(ctx context.Context, program *models.Program) (bool, error)
}

// EnrollmentRepository stores student/program links
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	// ListByStudentID returns enrollments with their program loaded, oldest first
	ListByStudentID(ctx context.Context, studentID uuid.UUID) ([]*models.Enrollment, error)
}

// Store groups the repositories. WithTx runs fn against repositories bound to a single
// transaction that commits when fn returns nil and rolls back otherwise.
type Store interface {
	Users() UserRepository
	Students() StudentRepository
	Parents() ParentRepository
	Schools() SchoolRepository
	Programs() ProgramRepository
	Enrollments() EnrollmentRepository
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

// StudentPatch lists the student fields a partial update may change. Nil means unchanged.
type StudentPatch struct {
	FirstName     *string
	LastName      *string
	DateOfBirth   *time.Time
	Gender        *string
	CurrentSchool *string
	CurrentGrade  *string
}

// Empty reports whether the patch changes nothing
func (p StudentPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.DateOfBirth == nil &&
		p.Gender == nil && p.CurrentSchool == nil && p.CurrentGrade == nil
}

// Apply copies the set fields onto s
func (p StudentPatch) Apply(s *models.Student) {
	if p.FirstName != nil {
		s.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		s.LastName = *p.LastName
	}
	if p.DateOfBirth != nil {
		s.DateOfBirth = p.DateOfBirth
	}
	if p.Gender != nil {
		s.Gender = p.Gender
	}
	if p.CurrentSchool != nil {
		s.CurrentSchool = p.CurrentSchool
	}
	if p.CurrentGrade != nil {
		s.CurrentGrade = p.CurrentGrade
	}
}

func (p StudentPatch) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	setIf(cols, "first_name", p.FirstName)
	setIf(cols, "last_name", p.LastName)
	if p.DateOfBirth != nil {
		cols["date_of_birth"] = *p.DateOfBirth
	}
	setIf(cols, "gender", p.Gender)
	setIf(cols, "current_school", p.CurrentSchool)
	setIf(cols, "current_grade", p.CurrentGrade)
	return cols
}

// ParentPatch lists the parent fields a partial update may change. Nil means unchanged.
type ParentPatch struct {
	FirstName         *string
	LastName          *string
	PhoneNumber       *string
	Address           *string
	RelationToStudent *string
}

// Empty reports whether the patch changes nothing
func (p ParentPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.PhoneNumber == nil &&
		p.Address == nil && p.RelationToStudent == nil
}

// Apply copies the set fields onto parent
func (p ParentPatch) Apply(parent *models.Parent) {
	if p.FirstName != nil {
		parent.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		parent.LastName = *p.LastName
	}
	if p.PhoneNumber != nil {
		parent.PhoneNumber = p.PhoneNumber
	}
	if p.Address != nil {
		parent.Address = p.Address
	}
	if p.RelationToStudent != nil {
		parent.RelationToStudent = p.RelationToStudent
	}
}

func (p ParentPatch) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	setIf(cols, "first_name", p.FirstName)
	setIf(cols, "last_name", p.LastName)
	setIf(cols, "phone_number", p.PhoneNumber)
	setIf(cols, "address", p.Address)
	setIf(cols, "relation_to_student", p.RelationToStudent)
	return cols
}

// SchoolPatch lists the school fields a partial update may change. Nil means unchanged.
type SchoolPatch struct {
	Name        *string
	AdminName   *string
	Certificate *string
}

// Empty reports whether the patch changes nothing
func (p SchoolPatch) Empty() bool {
	return p.Name == nil && p.AdminName == nil && p.Certificate == nil
}

// Apply copies the set fields onto school
func (p SchoolPatch) Apply(school *models.School) {
	if p.Name != nil {
		school.Name = *p.Name
	}
	if p.AdminName != nil {
		school.AdminName = *p.AdminName
	}
	if p.Certificate != nil {
		school.Certificate = p.Certificate
	}
}

func (p SchoolPatch) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	setIf(cols, "name", p.Name)
	setIf(cols, "admin_name", p.AdminName)
	setIf(cols, "certificate", p.Certificate)
	return cols
}

func setIf(cols map[string]interface{}, column string, value *string) {
	if value != nil {
		cols[column] = *value
	}
}
