package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/edubridge/platform/internal/app/controllers"
	"github.com/edubridge/platform/internal/app/models/dto"
	"github.com/edubridge/platform/internal/app/routes"
	"github.com/edubridge/platform/internal/app/services"
	"github.com/edubridge/platform/internal/middleware"
	"github.com/edubridge/platform/internal/pkg/auth"
	"github.com/edubridge/platform/internal/pkg/export"
	"github.com/edubridge/platform/internal/pkg/oauth"
	"github.com/edubridge/platform/internal/pkg/validation"
	"github.com/edubridge/platform/internal/testing/memstore"
)

type stubProvider struct {
	profile *oauth.Profile
}

func (p *stubProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/o/oauth2/auth?" + url.Values{"state": {state}}.Encode()
}

func (p *stubProvider) Exchange(_ context.Context, _ string) (*oauth.Profile, error) {
	return p.profile, nil
}

type apiEnv struct {
	router   *gin.Engine
	store    *memstore.Store
	jwt      *auth.JWTService
	provider *stubProvider
}

func newAPI(t *testing.T, frontendURL string) *apiEnv {
	t.Helper()
	require.NoError(t, validation.Register())
	gin.SetMode(gin.TestMode)

	store := memstore.New()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "controller-test-secret",
		AccessTokenExp: time.Hour,
		StateTokenExp:  10 * time.Minute,
		TokenIssuer:    "edubridge.test",
	})
	provider := &stubProvider{}
	logger := zerolog.Nop()

	authService := services.NewAuthService(store, jwtService, auth.NewPasswordHasher(bcrypt.MinCost), provider, nil, logger)
	studentService := services.NewStudentService(store, authService, nil, logger)
	parentService := services.NewParentService(store, authService, nil, logger)
	schoolService := services.NewSchoolService(store, authService, nil, time.Minute, logger)

	router := gin.New()
	routes.SetupRouter(router, routes.Controllers{
		Auth:    controllers.NewAuthController(authService, controllers.AuthControllerConfig{FrontendURL: frontendURL}, logger),
		User:    controllers.NewUserController(authService),
		Student: controllers.NewStudentController(studentService, logger),
		Parent:  controllers.NewParentController(parentService, logger),
		School:  controllers.NewSchoolController(schoolService, logger),
		Program: controllers.NewProgramController(services.NewProgramService(store)),
		Health:  controllers.NewHealthController(nil),
	}, middleware.NewAuthMiddleware(authService, logger))

	return &apiEnv{router: router, store: store, jwt: jwtService, provider: provider}
}

func (e *apiEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    dto.ErrorCode   `json:"code"`
	Details json.RawMessage `json:"details"`
}

func parse(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func (e *apiEnv) registerUser(t *testing.T, email, userType string) dto.AuthResponse {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/register", "", gin.H{"email": email, "password": "secret1", "userType": userType})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res dto.AuthResponse
	parse(t, w, &res)
	return res
}

func TestAuthScenario(t *testing.T) {
	api := newAPI(t, "")

	registered := api.registerUser(t, "alice@example.com", "STUDENT")
	assert.Equal(t, "alice@example.com", registered.User.Email)
	assert.Equal(t, "STUDENT", registered.User.UserType)

	userID, err := api.jwt.VerifyToken(registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, userID.String())

	t.Run("wrong password", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "alice@example.com", "password": "wrong-one"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env := parse(t, w, nil)
		assert.False(t, env.Success)
		assert.Equal(t, "Invalid credentials", env.Error)
	})

	t.Run("login", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "alice@example.com", "password": "secret1"})
		require.Equal(t, http.StatusOK, w.Code)
		var res dto.AuthResponse
		parse(t, w, &res)
		id, err := api.jwt.VerifyToken(res.Token)
		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, id.String())
	})

	t.Run("profile without token", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/students/profile", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("student on parent route", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/parents/profile", registered.Token, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("me", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/auth/me", registered.Token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var res dto.MeResponse
		parse(t, w, &res)
		assert.Equal(t, registered.User.ID, res.User.ID)
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("duplicate email", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/auth/register", "", gin.H{"email": "alice@example.com", "password": "secret1", "userType": "PARENT"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 1, api.store.UserCount())
	})
}

func TestRegisterValidation(t *testing.T) {
	api := newAPI(t, "")

	w := api.do(t, http.MethodPost, "/api/auth/register", "", gin.H{"email": "bad", "password": "1", "userType": "ADMIN"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := parse(t, w, nil)
	assert.Equal(t, dto.ErrorCodeValidationFailed, env.Code)
	assert.Equal(t, 0, api.store.UserCount())
}

func TestStudentFlow(t *testing.T) {
	api := newAPI(t, "")
	program := api.store.AddProgram("Algebra")

	w := api.do(t, http.MethodPost, "/api/students/register", "", gin.H{
		"email":       "sam@example.com",
		"password":    "secret1",
		"firstName":   "Sam",
		"lastName":    "Lee",
		"dateOfBirth": "2011-03-04",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "sam@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	var login dto.AuthResponse
	parse(t, w, &login)
	token := login.Token

	w = api.do(t, http.MethodPut, "/api/students/", token, gin.H{"currentGrade": "8"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated struct {
		Student struct {
			FirstName    string `json:"firstName"`
			CurrentGrade string `json:"currentGrade"`
		} `json:"student"`
	}
	parse(t, w, &updated)
	assert.Equal(t, "Sam", updated.Student.FirstName)
	assert.Equal(t, "8", updated.Student.CurrentGrade)

	w = api.do(t, http.MethodPost, "/api/students/enroll", token, gin.H{"programId": program.ID.String(), "schedule": "Mon 16:00"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(t, http.MethodPost, "/api/students/enroll", token, gin.H{"programId": "4b1c2a8e-6b0e-4f8a-9d7e-2b1c4d5e6f70"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodGet, "/api/students/enrollments", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Enrollments []struct {
			Program struct {
				Name string `json:"name"`
			} `json:"program"`
		} `json:"enrollments"`
	}
	parse(t, w, &list)
	require.Len(t, list.Enrollments, 1)
	assert.Equal(t, "Algebra", list.Enrollments[0].Program.Name)

	w = api.do(t, http.MethodGet, "/api/students/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile struct {
		Student struct {
			Enrollments []json.RawMessage `json:"enrollments"`
		} `json:"student"`
	}
	parse(t, w, &profile)
	assert.Len(t, profile.Student.Enrollments, 1)

	w = api.do(t, http.MethodGet, "/api/students/enrollments/export", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.XLSXContentType, w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestStudentRegisterRejectsBadDate(t *testing.T) {
	api := newAPI(t, "")

	w := api.do(t, http.MethodPost, "/api/students/register", "", gin.H{
		"email":       "sam@example.com",
		"password":    "secret1",
		"firstName":   "Sam",
		"lastName":    "Lee",
		"dateOfBirth": "04/03/2011",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, api.store.UserCount())
}

func TestParentAddChild(t *testing.T) {
	api := newAPI(t, "")

	w := api.do(t, http.MethodPost, "/api/students/register", "", gin.H{
		"email": "kid@example.com", "password": "secret1", "firstName": "Kid", "lastName": "Smith",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var student struct {
		Student struct {
			ID string `json:"id"`
		} `json:"student"`
	}
	parse(t, w, &student)

	w = api.do(t, http.MethodPost, "/api/parents/register", "", gin.H{
		"email": "mom@example.com", "password": "secret1", "firstName": "Jane", "lastName": "Smith",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "mom@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	var login dto.AuthResponse
	parse(t, w, &login)

	w = api.do(t, http.MethodPost, "/api/parents/add-child", login.Token, gin.H{"childId": student.Student.ID, "relationToStudent": "mother"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var parent struct {
		Parent struct {
			RelationToStudent string `json:"relationToStudent"`
			Students          []struct {
				ID string `json:"id"`
			} `json:"students"`
		} `json:"parent"`
	}
	parse(t, w, &parent)
	assert.Equal(t, "mother", parent.Parent.RelationToStudent)
	require.Len(t, parent.Parent.Students, 1)
	assert.Equal(t, student.Student.ID, parent.Parent.Students[0].ID)

	w = api.do(t, http.MethodGet, "/api/parents/children", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var children dto.ChildrenResponse
	parse(t, w, &children)
	assert.Len(t, children.Children, 1)

	w = api.do(t, http.MethodPost, "/api/parents/add-child", login.Token, gin.H{"childId": "4b1c2a8e-6b0e-4f8a-9d7e-2b1c4d5e6f70"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSchoolEndpoints(t *testing.T) {
	api := newAPI(t, "")

	w := api.do(t, http.MethodPost, "/api/schools/register", "", gin.H{
		"email": "office@springfield.edu", "password": "secret1", "name": "Springfield", "adminName": "Skinner",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(t, http.MethodGet, "/api/schools/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list dto.SchoolsResponse
	parse(t, w, &list)
	require.Len(t, list.Schools, 1)
	assert.Equal(t, "Springfield", list.Schools[0].Name)
	assert.Nil(t, list.Pagination)

	w = api.do(t, http.MethodGet, "/api/schools/?page=2&size=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var paged dto.SchoolsResponse
	parse(t, w, &paged)
	assert.Empty(t, paged.Schools)
	require.NotNil(t, paged.Pagination)
	assert.Equal(t, int64(1), paged.Pagination.TotalItems)

	assert.NotPanics(t, func() {
		w = api.do(t, http.MethodGet, "/api/schools/?page=922337203685477582&size=10", "", nil)
	})
	require.Equal(t, http.StatusOK, w.Code)
	var farPage dto.SchoolsResponse
	parse(t, w, &farPage)
	assert.Empty(t, farPage.Schools)

	parent := api.registerUser(t, "p@example.com", "PARENT")
	w = api.do(t, http.MethodPut, "/api/schools/", parent.Token, gin.H{"name": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProgramsAndHealth(t *testing.T) {
	api := newAPI(t, "")
	api.store.AddProgram("Science")

	w := api.do(t, http.MethodGet, "/api/programs", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var programs dto.ProgramsResponse
	parse(t, w, &programs)
	assert.Len(t, programs.Programs, 1)

	w = api.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGoogleSignIn(t *testing.T) {
	api := newAPI(t, "http://localhost:3000")
	api.provider.profile = &oauth.Profile{ID: "google-123", Email: "gina@example.com", EmailVerified: true}

	start := api.do(t, http.MethodGet, "/api/auth/google?userType=PARENT", "", nil)
	require.Equal(t, http.StatusFound, start.Code)

	consent, err := url.Parse(start.Header().Get("Location"))
	require.NoError(t, err)
	state := consent.Query().Get("state")
	require.NotEmpty(t, state)

	var nonce *http.Cookie
	for _, c := range start.Result().Cookies() {
		if c.Name == controllers.OAuthNonceCookie {
			nonce = c
		}
	}
	require.NotNil(t, nonce)
	assert.True(t, nonce.HttpOnly)

	callback := func(withCookie bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?"+url.Values{"code": {"abc"}, "state": {state}}.Encode(), nil)
		if withCookie {
			req.AddCookie(&http.Cookie{Name: nonce.Name, Value: nonce.Value})
		}
		w := httptest.NewRecorder()
		api.router.ServeHTTP(w, req)
		return w
	}

	t.Run("missing nonce cookie", func(t *testing.T) {
		w := callback(false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, 0, api.store.UserCount())
	})

	t.Run("redirects to frontend with token", func(t *testing.T) {
		w := callback(true)
		require.Equal(t, http.StatusFound, w.Code, w.Body.String())

		target, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "localhost:3000", target.Host)
		assert.Equal(t, "/auth/callback", target.Path)

		userID, err := api.jwt.VerifyToken(target.Query().Get("token"))
		require.NoError(t, err)

		me := api.do(t, http.MethodGet, "/api/auth/me", target.Query().Get("token"), nil)
		require.Equal(t, http.StatusOK, me.Code)
		var res dto.MeResponse
		parse(t, me, &res)
		assert.Equal(t, userID.String(), res.User.ID)
		assert.Equal(t, "PARENT", res.User.UserType)
		assert.True(t, res.User.HasGoogle)
	})

	t.Run("second sign-in reuses the user", func(t *testing.T) {
		w := callback(true)
		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, 1, api.store.UserCount())
	})
}

func TestGoogleAuthRejectsUnknownRole(t *testing.T) {
	api := newAPI(t, "")

	w := api.do(t, http.MethodGet, "/api/auth/google?userType=ADMIN", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
