// Package memstore is an in-memory repositories.Store for tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edubridge/platform/internal/app/models"
	"github.com/edubridge/platform/internal/app/repositories"
	"github.com/edubridge/platform/internal/pkg/apperrors"
)

type tables struct {
	users       map[uuid.UUID]models.User
	students    map[uuid.UUID]models.Student
	parents     map[uuid.UUID]models.Parent
	schools     map[uuid.UUID]models.School
	programs    map[uuid.UUID]models.Program
	enrollments []models.Enrollment
}

func newTables() *tables {
	return &tables{
		users:    map[uuid.UUID]models.User{},
		students: map[uuid.UUID]models.Student{},
		parents:  map[uuid.UUID]models.Parent{},
		schools:  map[uuid.UUID]models.School{},
		programs: map[uuid.UUID]models.Program{},
	}
}

func (t *tables) clone() *tables {
	c := newTables()
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.students {
		c.students[k] = v
	}
	for k, v := range t.parents {
		c.parents[k] = v
	}
	for k, v := range t.schools {
		c.schools[k] = v
	}
	for k, v := range t.programs {
		c.programs[k] = v
	}
	c.enrollments = append([]models.Enrollment(nil), t.enrollments...)
	return c
}

// Store keeps every table in maps. Transactions run on a copy that replaces
// the committed tables only when the callback succeeds.
type Store struct {
	mu   *sync.Mutex
	txMu *sync.Mutex
	data *tables
	inTx bool
}

// New returns an empty store
func New() *Store {
	return &Store{mu: &sync.Mutex{}, txMu: &sync.Mutex{}, data: newTables()}
}

var _ repositories.Store = (*Store)(nil)

func (s *Store) Users() repositories.UserRepository             { return userRepo{s} }
func (s *Store) Students() repositories.StudentRepository       { return studentRepo{s} }
func (s *Store) Parents() repositories.ParentRepository         { return parentRepo{s} }
func (s *Store) Schools() repositories.SchoolRepository         { return schoolRepo{s} }
func (s *Store) Programs() repositories.ProgramRepository       { return programRepo{s} }
func (s *Store) Enrollments() repositories.EnrollmentRepository { return enrollmentRepo{s} }

// WithTx stages writes on a copy of the tables and publishes them if fn returns nil
func (s *Store) WithTx(ctx context.Context, fn func(tx repositories.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	staged := &Store{mu: &sync.Mutex{}, txMu: s.txMu, data: s.data.clone(), inTx: true}
	s.mu.Unlock()

	if err := fn(staged); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = staged.data
	s.mu.Unlock()
	return nil
}

// UserCount returns the number of stored users
func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.users)
}

// AddProgram inserts a program directly
func (s *Store) AddProgram(name string) *models.Program {
	p := &models.Program{ID: uuid.New(), Name: name, CreatedAt: time.Now().UTC()}
	s.mu.Lock()
	s.data.programs[p.ID] = *p
	s.mu.Unlock()
	return p
}

func (s *Store) lock() func() {
	s.mu.Lock()
	return s.mu.Unlock
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *models.User) error {
	defer r.s.lock()()
	for _, existing := range r.s.data.users {
		if existing.Email == u.Email {
			return apperrors.ErrEmailAlreadyExists
		}
		if u.HasGoogleID() && existing.HasGoogleID() && *existing.GoogleID == *u.GoogleID {
			return apperrors.ErrIdentityConflict
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.data.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	defer r.s.lock()()
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &u, nil
}

func (r userRepo) find(match func(models.User) bool) (*models.User, error) {
	defer r.s.lock()()
	for _, u := range r.s.data.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r userRepo) GetByGoogleID(_ context.Context, googleID string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.HasGoogleID() && *u.GoogleID == googleID })
}

func (r userRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r userRepo) SetGoogleID(_ context.Context, id uuid.UUID, googleID string) error {
	defer r.s.lock()()
	u, ok := r.s.data.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	for otherID, other := range r.s.data.users {
		if otherID != id && other.HasGoogleID() && *other.GoogleID == googleID {
			return apperrors.ErrIdentityConflict
		}
	}
	gid := googleID
	u.GoogleID = &gid
	u.UpdatedAt = time.Now().UTC()
	r.s.data.users[id] = u
	return nil
}

type studentRepo struct{ s *Store }

func (r studentRepo) Create(_ context.Context, st *models.Student) error {
	defer r.s.lock()()
	for _, existing := range r.s.data.students {
		if existing.UserID == st.UserID {
			return apperrors.ErrProfileExists
		}
	}
	if st.ParentID != nil {
		if _, ok := r.s.data.parents[*st.ParentID]; !ok {
			return apperrors.ErrParentNotFound
		}
	}
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	now := time.Now().UTC()
	st.CreatedAt, st.UpdatedAt = now, now
	stored := *st
	stored.Parent, stored.Enrollments = nil, nil
	r.s.data.students[st.ID] = stored
	return nil
}

func (r studentRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Student, error) {
	defer r.s.lock()()
	st, ok := r.s.data.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return &st, nil
}

func (r studentRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*models.Student, error) {
	defer r.s.lock()()
	for _, st := range r.s.data.students {
		if st.UserID == userID {
			found := st
			return &found, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (r studentRepo) ListByParentID(_ context.Context, parentID uuid.UUID) ([]*models.Student, error) {
	defer r.s.lock()()
	out := make([]*models.Student, 0)
	for _, st := range r.s.data.students {
		if st.ParentID != nil && *st.ParentID == parentID {
			found := st
			out = append(out, &found)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r studentRepo) Update(_ context.Context, id uuid.UUID, patch repositories.StudentPatch) (*models.Student, error) {
	defer r.s.lock()()
	st, ok := r.s.data.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	if !patch.Empty() {
		patch.Apply(&st)
		st.UpdatedAt = time.Now().UTC()
		r.s.data.students[id] = st
	}
	return &st, nil
}

func (r studentRepo) SetParent(_ context.Context, id, parentID uuid.UUID) error {
	defer r.s.lock()()
	st, ok := r.s.data.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	if _, ok := r.s.data.parents[parentID]; !ok {
		return apperrors.ErrParentNotFound
	}
	pid := parentID
	st.ParentID = &pid
	st.UpdatedAt = time.Now().UTC()
	r.s.data.students[id] = st
	return nil
}

type parentRepo struct{ s *Store }

func (r parentRepo) Create(_ context.Context, p *models.Parent) error {
	defer r.s.lock()()
	for _, existing := range r.s.data.parents {
		if existing.UserID == p.UserID {
			return apperrors.ErrProfileExists
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	stored := *p
	stored.Students = nil
	r.s.data.parents[p.ID] = stored
	return nil
}

func (r parentRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Parent, error) {
	defer r.s.lock()()
	p, ok := r.s.data.parents[id]
	if !ok {
		return nil, apperrors.ErrParentNotFound
	}
	return &p, nil
}

func (r parentRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*models.Parent, error) {
	defer r.s.lock()()
	for _, p := range r.s.data.parents {
		if p.UserID == userID {
			found := p
			return &found, nil
		}
	}
	return nil, apperrors.ErrParentNotFound
}

func (r parentRepo) Update(_ context.Context, id uuid.UUID, patch repositories.ParentPatch) (*models.Parent, error) {
	defer r.s.lock()()
	p, ok := r.s.data.parents[id]
	if !ok {
		return nil, apperrors.ErrParentNotFound
	}
	if !patch.Empty() {
		patch.Apply(&p)
		p.UpdatedAt = time.Now().UTC()
		r.s.data.parents[id] = p
	}
	return &p, nil
}

type schoolRepo struct{ s *Store }

func (r schoolRepo) Create(_ context.Context, sc *models.School) error {
	defer r.s.lock()()
	for _, existing := range r.s.data.schools {
		if existing.UserID == sc.UserID {
			return apperrors.ErrProfileExists
		}
	}
	if sc.ID == uuid.Nil {
		sc.ID = uuid.New()
	}
	now := time.Now().UTC()
	sc.CreatedAt, sc.UpdatedAt = now, now
	r.s.data.schools[sc.ID] = *sc
	return nil
}

func (r schoolRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*models.School, error) {
	defer r.s.lock()()
	for _, sc := range r.s.data.schools {
		if sc.UserID == userID {
			found := sc
			return &found, nil
		}
	}
	return nil, apperrors.ErrSchoolNotFound
}

func (r schoolRepo) List(_ context.Context) ([]*models.School, error) {
	defer r.s.lock()()
	out := make([]*models.School, 0, len(r.s.data.schools))
	for _, sc := range r.s.data.schools {
		found := sc
		out = append(out, &found)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r schoolRepo) Update(_ context.Context, id uuid.UUID, patch repositories.SchoolPatch) (*models.School, error) {
	defer r.s.lock()()
	sc, ok := r.s.data.schools[id]
	if !ok {
		return nil, apperrors.ErrSchoolNotFound
	}
	if !patch.Empty() {
		patch.Apply(&sc)
		sc.UpdatedAt = time.Now().UTC()
		r.s.data.schools[id] = sc
	}
	return &sc, nil
}

type programRepo struct{ s *Store }

func (r programRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Program, error) {
	defer r.s.lock()()
	p, ok := r.s.data.programs[id]
	if !ok {
		return nil, apperrors.ErrProgramNotFound
	}
	return &p, nil
}

func (r programRepo) List(_ context.Context) ([]*models.Program, error) {
	defer r.s.lock()()
	out := make([]*models.Program, 0, len(r.s.data.programs))
	for _, p := range r.s.data.programs {
		found := p
		out = append(out, &found)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r programRepo) CreateIfNotExists(_ context.Context, p *models.Program) (bool, error) {
	defer r.s.lock()()
	for _, existing := range r.s.data.programs {
		if existing.Name == p.Name {
			return false, nil
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	r.s.data.programs[p.ID] = *p
	return true, nil
}

type enrollmentRepo struct{ s *Store }

func (r enrollmentRepo) Create(_ context.Context, e *models.Enrollment) error {
	defer r.s.lock()()
	if _, ok := r.s.data.programs[e.ProgramID]; !ok {
		return apperrors.ErrProgramNotFound
	}
	if _, ok := r.s.data.students[e.StudentID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.EnrolledAt.IsZero() {
		e.EnrolledAt = time.Now().UTC()
	}
	stored := *e
	stored.Program = nil
	r.s.data.enrollments = append(r.s.data.enrollments, stored)
	return nil
}

func (r enrollmentRepo) ListByStudentID(_ context.Context, studentID uuid.UUID) ([]*models.Enrollment, error) {
	defer r.s.lock()()
	out := make([]*models.Enrollment, 0)
	for _, e := range r.s.data.enrollments {
		if e.StudentID != studentID {
			continue
		}
		found := e
		if p, ok := r.s.data.programs[e.ProgramID]; ok {
			program := p
			found.Program = &program
		}
		out = append(out, &found)
	}
	return out, nil
}
