package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/edubridge/platform/internal/app/models"
	"github.com/edubridge/platform/internal/pkg/auth"
	"github.com/edubridge/platform/internal/pkg/oauth"
	"github.com/edubridge/platform/internal/testing/memstore"
)

type recordedEvent struct {
	topic   string
	payload interface{}
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recordingEmitter) Emit(_ context.Context, topic string, payload interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{topic: topic, payload: payload})
	return nil
}

func (r *recordingEmitter) topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.topic
	}
	return out
}

type fakeProvider struct {
	profile *oauth.Profile
	err     error
	codes   []string
}

func (f *fakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (f *fakeProvider) Exchange(_ context.Context, code string) (*oauth.Profile, error) {
	f.codes = append(f.codes, code)
	return f.profile, f.err
}

type testEnv struct {
	store    *memstore.Store
	jwt      *auth.JWTService
	emitter  *recordingEmitter
	provider *fakeProvider
	auth     *AuthService
	students *StudentService
	parents  *ParentService
	schools  *SchoolService
	programs *ProgramService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memstore.New()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		StateTokenExp:  10 * time.Minute,
		TokenIssuer:    "edubridge.test",
	})
	emitter := &recordingEmitter{}
	provider := &fakeProvider{}
	logger := zerolog.Nop()

	authService := NewAuthService(store, jwtService, auth.NewPasswordHasher(bcrypt.MinCost), provider, emitter, logger)
	return &testEnv{
		store:    store,
		jwt:      jwtService,
		emitter:  emitter,
		provider: provider,
		auth:     authService,
		students: NewStudentService(store, authService, emitter, logger),
		parents:  NewParentService(store, authService, emitter, logger),
		schools:  NewSchoolService(store, authService, nil, time.Minute, logger),
		programs: NewProgramService(store),
	}
}

func (e *testEnv) register(t *testing.T, email string, role models.RoleType) *AuthResult {
	t.Helper()
	res, err := e.auth.Register(context.Background(), email, "secret1", role)
	require.NoError(t, err)
	return res
}

func strPtr(s string) *string { return &s }
