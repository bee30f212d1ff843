package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/fahim-cse12/AutoDiagon/internal/core/domain"
	"github.com/fahim-cse12/AutoDiagon/internal/core/port"
	"github.com/fahim-cse12/AutoDiagon/internal/repository"
	"github.com/fahim-cse12/AutoDiagon/internal/transport/http/handlers"
	"github.com/fahim-cse12/AutoDiagon/internal/usecase"
)

type stubIdentityStore struct {
	users map[string]*domain.User
}

func newStubIdentityStore() *stubIdentityStore {
	return &stubIdentityStore{users: map[string]*domain.User{}}
}

func (s *stubIdentityStore) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubIdentityStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := s.users[email]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (s *stubIdentityStore) CheckPassword(_ context.Context, user *domain.User, password string) (bool, error) {
	return password == "correct-password", nil
}

func (s *stubIdentityStore) Create(_ context.Context, user domain.User, password string) (*domain.User, error) {
	if password == "weak" {
		return nil, &port.CreateError{Descriptions: []string{"password must be at least 8 characters long"}}
	}
	user.ID = "user-1"
	s.users[user.Email] = &user
	return &user, nil
}

func (s *stubIdentityStore) GenerateConfirmationToken(context.Context, *domain.User) (string, error) {
	return "stub-token", nil
}

func (s *stubIdentityStore) ConfirmEmail(_ context.Context, _ *domain.User, token string) (bool, error) {
	return token == "stub-token", nil
}

type stubIssuer struct{}

func (stubIssuer) Issue(context.Context, domain.User) (string, error) {
	return "stub-jwt", nil
}

type stubMailer struct {
	lastBody string
}

func (m *stubMailer) Send(_ context.Context, msg port.Message) error {
	m.lastBody = msg.Body
	return nil
}

func newTestRouter(store port.IdentityStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := usecase.NewAuthService(store, stubIssuer{}, &stubMailer{}, "http://localhost:5115")

	r := gin.New()
	handlers.NewAuthHandler(svc).RegisterRoutes(r.Group("/api/Auth"))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, domain.AuthResult) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var result domain.AuthResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("response is not an auth result: %v (%s)", err, w.Body.String())
	}
	return w, result
}

func TestLoginEndpointNullBody(t *testing.T) {
	r := newTestRouter(newStubIdentityStore())

	w, result := doJSON(t, r, http.MethodPost, "/api/Auth/login", "null")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if result.Success {
		t.Fatalf("expected failure")
	}
	if result.Message != "User name or password cannot be null" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
}

func TestLoginEndpointMalformedBody(t *testing.T) {
	r := newTestRouter(newStubIdentityStore())

	w, result := doJSON(t, r, http.MethodPost, "/api/Auth/login", `{"username":`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if result.Message != "User name or password cannot be null" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
}

func TestRegisterEndpointNullBody(t *testing.T) {
	r := newTestRouter(newStubIdentityStore())

	w, result := doJSON(t, r, http.MethodPost, "/api/Auth/register", "null")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if result.Success {
		t.Fatalf("expected failure")
	}
	if result.Message != "UserName, Email and Password not be Empty" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
}

func TestLoginEndpointSuccess(t *testing.T) {
	store := newStubIdentityStore()
	store.users["alice@example.com"] = &domain.User{ID: "u1", Username: "alice", Email: "alice@example.com"}
	r := newTestRouter(store)

	w, result := doJSON(t, r, http.MethodPost, "/api/Auth/login",
		`{"username":"alice","password":"correct-password"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !result.Success || result.Message != "Login Successfully" {
		t.Fatalf("unexpected result: %+v", result)
	}

	data, ok := result.Data.(map[string]any)
	if !ok {
		t.Fatalf("unexpected data: %T", result.Data)
	}
	if data["token"] != "stub-jwt" || data["username"] != "alice" {
		t.Fatalf("unexpected credential payload: %v", data)
	}
}

func TestLoginEndpointInvalidCredentials(t *testing.T) {
	store := newStubIdentityStore()
	store.users["alice@example.com"] = &domain.User{ID: "u1", Username: "alice", Email: "alice@example.com"}
	r := newTestRouter(store)

	w, result := doJSON(t, r, http.MethodPost, "/api/Auth/login",
		`{"username":"alice","password":"wrong"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if result.Message != "Invalid User name or Password" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
}

func TestRegisterEndpointSuccess(t *testing.T) {
	r := newTestRouter(newStubIdentityStore())

	w, result := doJSON(t, r, http.MethodPost, "/api/Auth/register",
		`{"username":"Bob","email":"bob@example.com","password":"Str0ng!Password#42"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !result.Success {
		t.Fatalf("expected success: %+v", result)
	}
	if result.Message != "User Created and mail sent o bob@example.com successfully!" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
}

func TestRegisterEndpointWeakPassword(t *testing.T) {
	r := newTestRouter(newStubIdentityStore())

	w, result := doJSON(t, r, http.MethodPost, "/api/Auth/register",
		`{"username":"bob","email":"bob@example.com","password":"weak"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if result.Message != "User has failed to create" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected structured errors, got %v", result.Errors)
	}
}

func TestConfirmEmailEndpointMissingBothInputs(t *testing.T) {
	r := newTestRouter(newStubIdentityStore())

	w, result := doJSON(t, r, http.MethodGet, "/api/Auth/ConfirmEmail", "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if result.Message != "email and token is mendatory for verify" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
}

func TestConfirmEmailEndpointUnknownUser(t *testing.T) {
	r := newTestRouter(newStubIdentityStore())

	w, result := doJSON(t, r, http.MethodGet,
		"/api/Auth/ConfirmEmail?token=abc&email=ghost%40example.com", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !result.Success || result.Message != "This user is not exist !" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestConfirmEmailEndpointSuccess(t *testing.T) {
	store := newStubIdentityStore()
	store.users["alice@example.com"] = &domain.User{ID: "u1", Username: "alice", Email: "alice@example.com"}
	r := newTestRouter(store)

	w, result := doJSON(t, r, http.MethodGet,
		"/api/Auth/ConfirmEmail?token=stub-token&email=alice%40example.com", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !result.Success || result.Message != "Email Verified Successfully" {
		t.Fatalf("unexpected result: %+v", result)
	}
}
