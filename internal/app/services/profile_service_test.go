package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edubridge/platform/internal/app/models"
	"github.com/edubridge/platform/internal/app/models/dto"
	"github.com/edubridge/platform/internal/pkg/apperrors"
	"github.com/edubridge/platform/internal/pkg/cache"
	"github.com/edubridge/platform/internal/pkg/events"
)

func registerStudent(t *testing.T, env *testEnv, email string) *models.Student {
	t.Helper()
	student, err := env.students.Register(context.Background(), dto.RegisterStudentRequest{
		Email:       email,
		Password:    "secret1",
		FirstName:   "Alice",
		LastName:    "Smith",
		DateOfBirth: strPtr("2010-05-14"),
	})
	require.NoError(t, err)
	return student
}

func registerParent(t *testing.T, env *testEnv, email string) *models.Parent {
	t.Helper()
	parent, err := env.parents.Register(context.Background(), dto.RegisterParentRequest{
		Email:     email,
		Password:  "secret1",
		FirstName: "Bob",
		LastName:  "Smith",
	})
	require.NoError(t, err)
	return parent
}

func TestStudentRegisterCreatesUserAndProfile(t *testing.T) {
	env := newTestEnv(t)
	student := registerStudent(t, env, "alice@example.com")

	user, err := env.store.Users().GetByID(context.Background(), student.UserID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, user.RoleType)
	require.NotNil(t, student.DateOfBirth)
	assert.Equal(t, "2010-05-14", student.DateOfBirth.Format("2006-01-02"))
}

func TestStudentRegisterRollsBackUserWhenProfileFails(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.students.Register(context.Background(), dto.RegisterStudentRequest{
		Email:     "orphan@example.com",
		Password:  "secret1",
		FirstName: "No",
		LastName:  "Parent",
		ParentID:  strPtr(uuid.NewString()),
	})
	assert.ErrorIs(t, err, apperrors.ErrParentNotFound)
	assert.Equal(t, 0, env.store.UserCount())

	exists, err := env.store.Users().EmailExists(context.Background(), "orphan@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStudentRegisterRejectsBadDate(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.students.Register(context.Background(), dto.RegisterStudentRequest{
		Email: "a@example.com", Password: "secret1", FirstName: "A", LastName: "B",
		DateOfBirth: strPtr("14/05/2010"),
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, 0, env.store.UserCount())
}

func TestStudentProfileUpdateAndEnrollment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	student := registerStudent(t, env, "alice@example.com")
	program := env.store.AddProgram("Algebra I")

	updated, err := env.students.Update(ctx, student.UserID, dto.UpdateStudentRequest{CurrentGrade: strPtr("8")})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.FirstName)
	require.NotNil(t, updated.CurrentGrade)
	assert.Equal(t, "8", *updated.CurrentGrade)

	enrollment, err := env.students.Enroll(ctx, student.UserID, dto.EnrollRequest{
		ProgramID: program.ID.String(),
		Schedule:  strPtr("Mon 16:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, student.ID, enrollment.StudentID)
	require.NotNil(t, enrollment.Program)
	assert.Equal(t, "Algebra I", enrollment.Program.Name)

	enrollments, err := env.students.ListEnrollments(ctx, student.UserID)
	require.NoError(t, err)
	require.Len(t, enrollments, 1)
	assert.Equal(t, "Algebra I", enrollments[0].Program.Name)

	profile, err := env.students.GetProfile(ctx, student.UserID)
	require.NoError(t, err)
	assert.Len(t, profile.Enrollments, 1)
	assert.Nil(t, profile.Parent)

	data, err := env.students.ExportEnrollments(ctx, student.UserID)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	assert.Contains(t, env.emitter.topics(), events.TopicStudentEnrolled)
}

func TestEnrollUnknownProgram(t *testing.T) {
	env := newTestEnv(t)
	student := registerStudent(t, env, "alice@example.com")

	_, err := env.students.Enroll(context.Background(), student.UserID, dto.EnrollRequest{ProgramID: uuid.NewString()})
	assert.ErrorIs(t, err, apperrors.ErrProgramNotFound)
}

func TestStudentProfileMissing(t *testing.T) {
	env := newTestEnv(t)
	res := env.register(t, "plain@example.com", models.RoleStudent)

	_, err := env.students.GetProfile(context.Background(), res.User.ID)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestParentAddChild(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	parent := registerParent(t, env, "bob@example.com")
	child := registerStudent(t, env, "alice@example.com")

	got, err := env.parents.AddChild(ctx, parent.UserID, dto.AddChildRequest{
		ChildID:           child.ID.String(),
		RelationToStudent: strPtr("father"),
	})
	require.NoError(t, err)
	require.Len(t, got.Students, 1)
	assert.Equal(t, child.ID, got.Students[0].ID)
	require.NotNil(t, got.RelationToStudent)
	assert.Equal(t, "father", *got.RelationToStudent)

	children, err := env.parents.ListChildren(ctx, parent.UserID)
	require.NoError(t, err)
	require.Len(t, children, 1)

	profile, err := env.students.GetProfile(ctx, child.UserID)
	require.NoError(t, err)
	require.NotNil(t, profile.Parent)
	assert.Equal(t, parent.ID, profile.Parent.ID)

	assert.Contains(t, env.emitter.topics(), events.TopicChildLinked)
}

func TestParentAddChildKeepsLabelWithoutRelation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	parent := registerParent(t, env, "bob@example.com")
	first := registerStudent(t, env, "a1@example.com")
	second := registerStudent(t, env, "a2@example.com")

	_, err := env.parents.AddChild(ctx, parent.UserID, dto.AddChildRequest{ChildID: first.ID.String(), RelationToStudent: strPtr("father")})
	require.NoError(t, err)
	got, err := env.parents.AddChild(ctx, parent.UserID, dto.AddChildRequest{ChildID: second.ID.String()})
	require.NoError(t, err)

	assert.Len(t, got.Students, 2)
	assert.Equal(t, "father", *got.RelationToStudent)
}

func TestParentAddUnknownChild(t *testing.T) {
	env := newTestEnv(t)
	parent := registerParent(t, env, "bob@example.com")

	_, err := env.parents.AddChild(context.Background(), parent.UserID, dto.AddChildRequest{ChildID: uuid.NewString()})
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestParentUpdate(t *testing.T) {
	env := newTestEnv(t)
	parent := registerParent(t, env, "bob@example.com")

	got, err := env.parents.Update(context.Background(), parent.UserID, dto.UpdateParentRequest{PhoneNumber: strPtr("+1 555 0100")})
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.FirstName)
	assert.Equal(t, "+1 555 0100", *got.PhoneNumber)
}

func TestSchoolDirectoryIsCachedAndInvalidated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	schools := NewSchoolService(env.store, env.auth, cache.NewHelper(client, "test:"), time.Minute, zerolog.Nop())

	school, err := schools.Register(ctx, dto.RegisterSchoolRequest{
		Email: "office@springfield.edu", Password: "secret1", Name: "Springfield", AdminName: "Skinner",
	})
	require.NoError(t, err)

	list, err := schools.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, mr.Exists("test:"+schoolListCacheKey))

	_, err = schools.Update(ctx, school.UserID, dto.UpdateSchoolRequest{Name: strPtr("Springfield Elementary")})
	require.NoError(t, err)
	assert.False(t, mr.Exists("test:"+schoolListCacheKey))

	list, err = schools.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Springfield Elementary", list[0].Name)
}

func TestSchoolListWithoutCache(t *testing.T) {
	env := newTestEnv(t)

	list, err := env.schools.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProgramList(t *testing.T) {
	env := newTestEnv(t)
	env.store.AddProgram("Physics")
	env.store.AddProgram("Algebra I")

	programs, err := env.programs.List(context.Background())
	require.NoError(t, err)
	require.Len(t, programs, 2)
	assert.Equal(t, "Algebra I", programs[0].Name)
}
