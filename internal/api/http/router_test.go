package http

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/society-api/internal/api/http/handlers"
	"github.com/spec-kit/society-api/internal/auth"
	"github.com/spec-kit/society-api/internal/config"
	"github.com/spec-kit/society-api/internal/events"
	"github.com/spec-kit/society-api/internal/media"
	"github.com/spec-kit/society-api/internal/observability"
	"github.com/spec-kit/society-api/internal/repository/memory"
	"github.com/spec-kit/society-api/internal/service"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	app   *fiber.App
	auth  *service.AuthService
	users *service.UserService
}

func newTestServer(t *testing.T, limit config.RateLimitConfig) *testServer {
	t.Helper()
	cfg := &config.Config{
		App:       config.AppConfig{Name: "society-api", Version: "test", PublicURL: "https://society.example.org", RequestTimeout: 5 * time.Second, BodyLimitBytes: 4 << 20},
		Auth:      config.AuthConfig{JWTSecret: "router-test", TokenTTL: time.Hour, BcryptCost: 4},
		Admin:     config.AdminConfig{Email: "admin@example.com", Password: "Admin@123456", FullName: "Admin"},
		CORS:      config.CORSConfig{AllowedOrigins: "*"},
		Upload:    config.UploadConfig{MaxBytes: 1 << 20, MaxDimension: 500, DefaultFolder: "css"},
		RateLimit: limit,
	}
	logger := zap.NewNop()
	store := memory.NewStore()
	deps := service.Deps{Dispatcher: events.NewInMemoryDispatcher(), Logger: logger}

	authService := service.NewAuthService(cfg.Auth, store.Users(), deps)
	userService := service.NewUserService(store.Users(), deps)
	_, err := authService.SeedAdmin(context.Background(), cfg.Admin)
	require.NoError(t, err)

	metrics := observability.NewMetrics()
	app := NewApp(cfg, logger, metrics)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, nil, metrics),
		Users:          handlers.NewUsersHandler(authService, userService),
		Events:         handlers.NewEventsHandler(service.NewEventService(store.Events(), cfg.App.PublicURL, deps)),
		Announcements:  handlers.NewAnnouncementsHandler(service.NewAnnouncementService(store.Announcements(), deps)),
		TeamMembers:    handlers.NewTeamMembersHandler(service.NewTeamMemberService(store.TeamMembers(), deps)),
		Registrations:  handlers.NewRegistrationsHandler(service.NewRegistrationService(store.Registrations(), deps)),
		Uploads:        handlers.NewUploadsHandler(service.NewUploadService(cfg.Upload, media.Unconfigured{}, logger), cfg.Upload.MaxBytes),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), store.Users()),
		RateLimiter:    NewRateLimiter(limit.RequestsPerSecond, limit.Burst),
	})
	return &testServer{app: app, auth: authService, users: userService}
}

func defaultLimit() config.RateLimitConfig {
	return config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp.StatusCode, env
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	res, err := s.auth.Login(context.Background(), "admin@example.com", "Admin@123456")
	require.NoError(t, err)
	return res.Token
}

func (s *testServer) memberToken(t *testing.T, email string) (string, string) {
	t.Helper()
	res, err := s.auth.Register(context.Background(), service.RegisterInput{FullName: "Member", Email: email, Password: "password123"})
	require.NoError(t, err)
	return res.Token, res.User.ID
}

func TestRegisterLoginProfile(t *testing.T) {
	s := newTestServer(t, defaultLimit())

	status, env := s.do(t, "POST", "/api/users/register", "", map[string]string{
		"fullName": "Ada Lovelace", "email": "ada@example.com", "password": "password123",
	})
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, "User registered successfully", env.Message)

	status, env = s.do(t, "POST", "/api/users/login", "", map[string]string{"email": "ada@example.com", "password": "password123"})
	require.Equal(t, fiber.StatusOK, status)
	var login struct {
		Token string `json:"token"`
		User  struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Token)

	status, env = s.do(t, "GET", "/api/users/profile", login.Token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var profile struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, login.User.ID, profile.User.ID)
	assert.NotContains(t, string(env.Data), "password")
}

func TestRegisterValidationListsFields(t *testing.T) {
	s := newTestServer(t, defaultLimit())

	status, env := s.do(t, "POST", "/api/users/register", "", map[string]string{"fullName": "A", "email": "nope", "password": "short"})
	require.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "VALIDATION_FAILED", env.Code)

	var fields []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &fields))
	names := map[string]bool{}
	for _, f := range fields {
		names[f.Field] = true
	}
	assert.True(t, names["fullName"])
	assert.True(t, names["email"])
	assert.True(t, names["password"])
}

func TestAuthenticationFailures(t *testing.T) {
	s := newTestServer(t, defaultLimit())

	status, env := s.do(t, "GET", "/api/users/profile", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHENTICATED", env.Code)

	status, env = s.do(t, "GET", "/api/users/profile", "not.a.jwt", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_TOKEN", env.Code)

	status, env = s.do(t, "POST", "/api/users/login", "", map[string]string{"email": "admin@example.com", "password": "wrong-password"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Invalid email or password", env.Message)
}

func TestDeactivatedUserIsLockedOut(t *testing.T) {
	s := newTestServer(t, defaultLimit())
	token, id := s.memberToken(t, "ada@example.com")

	status, _ := s.do(t, "PUT", "/api/users/"+id+"/deactivate", s.adminToken(t), nil)
	require.Equal(t, fiber.StatusOK, status)

	status, env := s.do(t, "GET", "/api/users/profile", token, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", env.Code)

	status, env = s.do(t, "POST", "/api/users/login", "", map[string]string{"email": "ada@example.com", "password": "password123"})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "User account is deactivated", env.Message)
}

func TestAdminRoutesRejectMembers(t *testing.T) {
	s := newTestServer(t, defaultLimit())
	token, _ := s.memberToken(t, "ada@example.com")
	id := "5f0c7e0e-8f3a-4b7e-9a51-2a3c1f1d9b11"

	routes := []struct{ method, path string }{
		{"GET", "/api/metrics"},
		{"GET", "/api/users/all"},
		{"PUT", "/api/users/" + id + "/activate"},
		{"PUT", "/api/users/" + id + "/deactivate"},
		{"POST", "/api/events"},
		{"PUT", "/api/events/" + id},
		{"DELETE", "/api/events/" + id},
		{"GET", "/api/announcements/admin/all"},
		{"POST", "/api/announcements"},
		{"PUT", "/api/announcements/" + id},
		{"DELETE", "/api/announcements/" + id},
		{"PATCH", "/api/announcements/" + id + "/toggle-pin"},
		{"PATCH", "/api/announcements/" + id + "/toggle-publish"},
		{"POST", "/api/team-members"},
		{"PUT", "/api/team-members/" + id},
		{"DELETE", "/api/team-members/" + id},
		{"PATCH", "/api/team-members/" + id + "/activate"},
		{"PATCH", "/api/team-members/" + id + "/deactivate"},
		{"GET", "/api/registrations"},
		{"GET", "/api/registrations/" + id},
		{"PUT", "/api/registrations/" + id},
		{"DELETE", "/api/registrations/" + id},
		{"POST", "/api/uploads"},
	}
	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			status, env := s.do(t, r.method, r.path, token, nil)
			assert.Equal(t, fiber.StatusForbidden, status)
			assert.Equal(t, "FORBIDDEN", env.Code)
		})
	}
}

func TestEventLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t, defaultLimit())
	admin := s.adminToken(t)

	status, env := s.do(t, "POST", "/api/events", admin, map[string]any{
		"title":           "Go Workshop",
		"description":     "Hands-on introduction to Go",
		"date":            time.Now().Add(24 * time.Hour).Format("2006-01-02T15:04"),
		"location":        "Lab 3",
		"maxParticipants": 1,
	})
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	var created struct {
		Event struct {
			ID       string `json:"id"`
			Category string `json:"category"`
			Status   string `json:"status"`
		} `json:"event"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	eventID := created.Event.ID
	assert.Equal(t, "workshop", created.Event.Category)
	assert.Equal(t, "upcoming", created.Event.Status)

	ada, _ := s.memberToken(t, "ada@example.com")
	bob, _ := s.memberToken(t, "bob@example.com")

	status, _ = s.do(t, "POST", "/api/events/"+eventID+"/register", ada, nil)
	require.Equal(t, fiber.StatusOK, status)
	status, env = s.do(t, "POST", "/api/events/"+eventID+"/register", ada, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "ALREADY_REGISTERED", env.Code)
	status, env = s.do(t, "POST", "/api/events/"+eventID+"/register", bob, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "CAPACITY_EXCEEDED", env.Code)

	status, env = s.do(t, "GET", "/api/events/user/my-events", ada, nil)
	require.Equal(t, fiber.StatusOK, status)
	var mine struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	assert.Equal(t, 1, mine.Count)

	status, env = s.do(t, "PUT", "/api/events/"+eventID, admin, map[string]any{"title": "x"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", env.Code)

	status, _ = s.do(t, "DELETE", "/api/events/"+eventID, admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	status, env = s.do(t, "DELETE", "/api/events/"+eventID, admin, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Event not found", env.Message)

	status, env = s.do(t, "GET", "/api/events/not-an-id", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid ID format", env.Message)
}

func TestEventQRCode(t *testing.T) {
	s := newTestServer(t, defaultLimit())
	status, env := s.do(t, "POST", "/api/events", s.adminToken(t), map[string]any{
		"title": "Hackathon", "description": "Build something in a day", "date": "2030-05-01", "location": "Main Hall", "category": "hackathon",
	})
	require.Equal(t, fiber.StatusCreated, status)
	var created struct {
		Event struct {
			ID string `json:"id"`
		} `json:"event"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	req := httptest.NewRequest("GET", "/api/events/"+created.Event.ID+"/qrcode?size=128", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get(fiber.HeaderContentType))
}

func TestAnnouncementVisibility(t *testing.T) {
	s := newTestServer(t, defaultLimit())
	admin := s.adminToken(t)

	status, env := s.do(t, "POST", "/api/announcements", admin, map[string]any{
		"title": "Draft post", "content": "Not ready for **everyone** yet", "isPublished": false,
	})
	require.Equal(t, fiber.StatusCreated, status)
	var created struct {
		Announcement struct {
			ID          string `json:"id"`
			ContentHTML string `json:"contentHtml"`
		} `json:"announcement"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Contains(t, created.Announcement.ContentHTML, "<strong>everyone</strong>")

	status, _ = s.do(t, "GET", "/api/announcements/"+created.Announcement.ID, "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _ = s.do(t, "GET", "/api/announcements/"+created.Announcement.ID, admin, nil)
	assert.Equal(t, fiber.StatusOK, status)

	count := func(token, path string) int {
		status, env := s.do(t, "GET", path, token, nil)
		require.Equal(t, fiber.StatusOK, status)
		var body struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &body))
		return body.Count
	}
	assert.Equal(t, 0, count("", "/api/announcements"))
	assert.Equal(t, 1, count(admin, "/api/announcements/admin/all"))

	status, env = s.do(t, "PATCH", "/api/announcements/"+created.Announcement.ID+"/toggle-publish", admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Announcement publish status updated successfully", env.Message)
	assert.Equal(t, 1, count("", "/api/announcements"))
}

func TestMembershipFormAndRateLimit(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2})
	form := map[string]string{"firstName": "Ali", "lastName": "Khan", "email": "ali@example.com", "subject": "Joining"}

	status, env := s.do(t, "POST", "/api/registrations", "", form)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "Registration saved successfully", env.Message)
	status, _ = s.do(t, "POST", "/api/registrations", "", form)
	require.Equal(t, fiber.StatusCreated, status)

	status, env = s.do(t, "POST", "/api/registrations", "", form)
	assert.Equal(t, fiber.StatusTooManyRequests, status)
	assert.Equal(t, "RATE_LIMITED", env.Code)
}

func TestUploadWithoutImageHost(t *testing.T) {
	s := newTestServer(t, defaultLimit())

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, img))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "logo.png")
	require.NoError(t, err)
	_, err = fw.Write(pngBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("folder", "events"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/uploads", &body)
	req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+s.adminToken(t))
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, defaultLimit())
	status, env := s.do(t, "GET", "/api/nothing-here", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Route not found", env.Message)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, defaultLimit())
	status, _ := s.do(t, "GET", "/api/health/ready", "", nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, env := s.do(t, "GET", "/api/metrics", s.adminToken(t), nil)
	require.Equal(t, fiber.StatusOK, status)
	var snap observability.Snapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.GreaterOrEqual(t, snap.TotalRequests, int64(1))
}

func fieldNames(t *testing.T, env envelope) map[string]bool {
	t.Helper()
	var fields []struct {
		Field string `json:"field"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &fields))
	names := map[string]bool{}
	for _, f := range fields {
		names[f.Field] = true
	}
	return names
}

func TestBlankFieldsAreRejected(t *testing.T) {
	s := newTestServer(t, defaultLimit())
	admin := s.adminToken(t)

	status, env := s.do(t, "POST", "/api/users/register", "", map[string]string{
		"fullName": "    ", "email": "blank@example.com", "password": "password123",
	})
	require.Equal(t, fiber.StatusBadRequest, status)
	assert.True(t, fieldNames(t, env)["fullName"])

	status, env = s.do(t, "POST", "/api/events", admin, map[string]any{
		"title":       "      ",
		"description": "            ",
		"location":    "   ",
		"date":        time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, fiber.StatusBadRequest, status)
	names := fieldNames(t, env)
	assert.True(t, names["title"])
	assert.True(t, names["description"])
	assert.True(t, names["location"])

	status, env = s.do(t, "POST", "/api/registrations", "", map[string]string{
		"firstName": "Ali", "lastName": "Khan", "email": "ali@example.com", "subject": "     ",
	})
	require.Equal(t, fiber.StatusBadRequest, status)
	assert.True(t, fieldNames(t, env)["subject"])

	status, env = s.do(t, "POST", "/api/team-members", admin, map[string]string{"name": "   ", "email": "sara@example.com"})
	require.Equal(t, fiber.StatusBadRequest, status)
	assert.True(t, fieldNames(t, env)["name"])

	status, env = s.do(t, "POST", "/api/events", admin, map[string]any{
		"title":       "Scripted",
		"description": "<script>alert('long enough')</script>ab",
		"location":    "Hall",
		"date":        time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, fiber.StatusBadRequest, status)
	assert.True(t, fieldNames(t, env)["description"])
}

func TestFieldsAreStoredTrimmed(t *testing.T) {
	s := newTestServer(t, defaultLimit())

	status, env := s.do(t, "POST", "/api/users/register", "", map[string]string{
		"fullName": "  Ada Lovelace  ", "email": " ada@example.com ", "password": " padded-password ",
	})
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	var res struct {
		User struct {
			FullName string `json:"fullName"`
			Email    string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, "Ada Lovelace", res.User.FullName)
	assert.Equal(t, "ada@example.com", res.User.Email)

	// Passwords are taken as sent.
	status, _ = s.do(t, "POST", "/api/users/login", "", map[string]string{"email": "ada@example.com", "password": " padded-password "})
	assert.Equal(t, fiber.StatusOK, status)
	status, _ = s.do(t, "POST", "/api/users/login", "", map[string]string{"email": "ada@example.com", "password": "padded-password"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func rawBody(t *testing.T, app *fiber.App, method, path, token string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestEnvelopeAlwaysCarriesData(t *testing.T) {
	s := newTestServer(t, defaultLimit())
	admin := s.adminToken(t)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"missing event", "DELETE", "/api/events/5f0c7e0e-8f3a-4b7e-9a51-2a3c1f1d9b11", admin, fiber.StatusNotFound},
		{"no token", "GET", "/api/users/profile", "", fiber.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := rawBody(t, s.app, tc.method, tc.path, tc.token)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, "error", body["status"])
			data, ok := body["data"]
			assert.True(t, ok, "data key missing")
			assert.Nil(t, data)
		})
	}

	status, env := s.do(t, "POST", "/api/team-members", admin, map[string]string{"name": "Sara", "email": "sara@example.com"})
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	var created struct {
		TeamMember struct {
			ID string `json:"id"`
		} `json:"teamMember"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	status, body := rawBody(t, s.app, "DELETE", "/api/team-members/"+created.TeamMember.ID, admin)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "success", body["status"])
	data, ok := body["data"]
	assert.True(t, ok, "data key missing")
	assert.Nil(t, data)
}

func TestDeadlineRendersTimeout(t *testing.T) {
	cfg := &config.Config{
		App:  config.AppConfig{Name: "society-api", RequestTimeout: time.Second, BodyLimitBytes: 1 << 20},
		CORS: config.CORSConfig{AllowedOrigins: "*"},
	}
	app := NewApp(cfg, zap.NewNop(), observability.NewMetrics())
	app.Get("/slow", func(c *fiber.Ctx) error {
		return context.DeadlineExceeded
	})

	status, body := rawBody(t, app, "GET", "/slow", "")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "TIMEOUT", body["code"])
	assert.Equal(t, "Request timed out", body["message"])
}
