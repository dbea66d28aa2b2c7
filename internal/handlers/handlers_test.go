package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"plantswap-server/internal/config"
	"plantswap-server/internal/handlers"
	"plantswap-server/internal/models"
	"plantswap-server/internal/routes"
)

const testPassword = "correct horse battery"

// envelope mirrors utils.ResponseData with the payload left raw so each
// test can decode it into the type it expects.
type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type testEnv struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// newTestEnv wires the full router against an in-memory store. A nil
// image store means image upload is not configured, exactly as in
// production without Cloudinary credentials.
func newTestEnv(t *testing.T, store handlers.ImageStore) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newTestDB(t)
	cfg := &config.Config{
		Port:                     "8000",
		Environment:              "development",
		JWTSecret:                "test-secret",
		AccessTokenExpireMinutes: 60,
	}

	router := gin.New()
	routes.SetupRoutes(router, db, cfg, store)

	return &testEnv{t: t, router: router, db: db}
}

func (e *testEnv) createUser(email string, superuser bool) *models.User {
	e.t.Helper()
	user := &models.User{Email: email, IsActive: true, IsSuperuser: superuser}
	if err := user.SetPassword(testPassword); err != nil {
		e.t.Fatalf("failed to hash password: %v", err)
	}
	if err := e.db.Create(user).Error; err != nil {
		e.t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

func (e *testEnv) createPlant(owner *models.User, name string) *models.Plant {
	e.t.Helper()
	plant := &models.Plant{OwnerID: owner.ID, Name: name}
	if err := e.db.Create(plant).Error; err != nil {
		e.t.Fatalf("failed to create plant %s: %v", name, err)
	}
	return plant
}

// login performs the credential exchange and returns the access-token
// cookie the server set.
func (e *testEnv) login(email string) *http.Cookie {
	e.t.Helper()
	form := url.Values{"username": {email}, "password": {testPassword}}
	w := e.do(http.MethodPost, "/login/token", nil, form)
	if w.Code != http.StatusOK {
		e.t.Fatalf("login for %s returned status %d: %s", email, w.Code, w.Body.String())
	}
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "access_token" && cookie.Value != "" {
			return cookie
		}
	}
	e.t.Fatalf("login response for %s set no access_token cookie", email)
	return nil
}

// do performs a request with an optional auth cookie and url-encoded
// form body.
func (e *testEnv) do(method, path string, cookie *http.Cookie, form url.Values) *httptest.ResponseRecorder {
	e.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// newRequest returns a bare request and recorder for tests that need
// to set headers themselves.
func (e *testEnv) newRequest(method, path string) (*http.Request, *httptest.ResponseRecorder) {
	e.t.Helper()
	return httptest.NewRequest(method, path, nil), httptest.NewRecorder()
}

// doJSON performs a request with a JSON body.
func (e *testEnv) doJSON(method, path string, cookie *http.Cookie, payload interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		e.t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest(method, path, strings.NewReader(string(data)))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// doMultipart performs a request with multipart form fields and an
// optional image file.
func (e *testEnv) doMultipart(method, path string, cookie *http.Cookie, fields map[string][]string, imageName string) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf strings.Builder
	writer := multipart.NewWriter(&buf)
	for key, values := range fields {
		for _, value := range values {
			if err := writer.WriteField(key, value); err != nil {
				e.t.Fatalf("failed to write form field %s: %v", key, err)
			}
		}
	}
	if imageName != "" {
		part, err := writer.CreateFormFile("image", imageName)
		if err != nil {
			e.t.Fatalf("failed to create image part: %v", err)
		}
		if _, err := part.Write([]byte("fake image bytes")); err != nil {
			e.t.Fatalf("failed to write image part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		e.t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, path, strings.NewReader(buf.String()))
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	env := decode(t, w)
	if err := json.Unmarshal(env.Data, dest); err != nil {
		t.Fatalf("failed to decode response data %q: %v", string(env.Data), err)
	}
}

// assertError checks status code and the exact error message string;
// the fixed strings are part of the API contract.
func assertError(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantError string) {
	t.Helper()
	if w.Code != wantStatus {
		t.Errorf("status = %d, want %d (body %s)", w.Code, wantStatus, w.Body.String())
	}
	env := decode(t, w)
	if env.Error != wantError {
		t.Errorf("error = %q, want %q", env.Error, wantError)
	}
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// fakeImageStore implements handlers.ImageStore for tests.
type fakeImageStore struct {
	failUpload bool
	uploads    []string
	deleted    []string
}

func (f *fakeImageStore) Upload(ctx context.Context, file io.Reader, publicID string) (string, error) {
	if f.failUpload {
		return "", fmt.Errorf("provider unavailable")
	}
	f.uploads = append(f.uploads, publicID)
	return "https://images.test/" + publicID, nil
}

func (f *fakeImageStore) Delete(ctx context.Context, publicID string) error {
	f.deleted = append(f.deleted, publicID)
	return nil
}
