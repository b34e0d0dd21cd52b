package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/notewell/backend/internal/auth"
	"github.com/notewell/backend/internal/cache"
	"github.com/notewell/backend/internal/notes"
	"github.com/notewell/backend/internal/server"
	"github.com/notewell/backend/internal/users"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const signingSecret = "integration-secret"

type noteResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type userResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func newAPIHandler(testContext *testing.T) http.Handler {
	testContext.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:integration_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		testContext.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&notes.Note{}, &users.User{}, &users.Task{}); err != nil {
		testContext.Fatalf("failed to migrate: %v", err)
	}

	view := cache.NewView(cache.ViewConfig{
		Store:   cache.NewMemoryStore(nil),
		Enabled: true,
		TTL:     time.Minute,
	})

	issuer, err := auth.NewTokenIssuer(auth.TokenIssuerConfig{SigningSecret: []byte(signingSecret)})
	if err != nil {
		testContext.Fatalf("failed to build token issuer: %v", err)
	}

	notesStore, err := notes.NewStore(db)
	if err != nil {
		testContext.Fatalf("failed to build notes store: %v", err)
	}
	notesService, err := notes.NewService(notes.ServiceConfig{
		Store:  notesStore,
		Cache:  view,
		Logger: zap.NewNop(),
	})
	if err != nil {
		testContext.Fatalf("failed to build notes service: %v", err)
	}

	usersStore, err := users.NewStore(db)
	if err != nil {
		testContext.Fatalf("failed to build users store: %v", err)
	}
	usersService, err := users.NewService(users.ServiceConfig{
		Store:  usersStore,
		Cache:  view,
		Tokens: issuer,
		Logger: zap.NewNop(),
	})
	if err != nil {
		testContext.Fatalf("failed to build users service: %v", err)
	}

	handler, err := server.NewHTTPHandler(server.Dependencies{
		NotesService: notesService,
		UsersService: usersService,
		Tokens:       issuer,
		Logger:       zap.NewNop(),
	})
	if err != nil {
		testContext.Fatalf("failed to build handler: %v", err)
	}
	return handler
}

func perform(testContext *testing.T, handler http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	testContext.Helper()
	var request *http.Request
	if body == "" {
		request = httptest.NewRequest(method, path, nil)
	} else {
		request = httptest.NewRequest(method, path, strings.NewReader(body))
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func TestRegisterLoginAndNoteFlow(testContext *testing.T) {
	handler := newAPIHandler(testContext)

	registered := perform(testContext, handler, http.MethodPost, "/api/v1/users",
		`{"name":"Flow User","email":"Flow@Example.com","password":"pw-flow"}`, "")
	if registered.Code != http.StatusCreated {
		testContext.Fatalf("registration failed with %d: %s", registered.Code, registered.Body.String())
	}
	var account userResponse
	if err := json.Unmarshal(registered.Body.Bytes(), &account); err != nil {
		testContext.Fatalf("failed to decode registration response: %v", err)
	}
	if account.Email != "flow@example.com" {
		testContext.Fatalf("expected normalized email, got %q", account.Email)
	}

	loggedIn := perform(testContext, handler, http.MethodPost, "/login",
		`{"email":"flow@example.com","password":"pw-flow"}`, "")
	if loggedIn.Code != http.StatusOK {
		testContext.Fatalf("login failed with %d: %s", loggedIn.Code, loggedIn.Body.String())
	}
	var session struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(loggedIn.Body.Bytes(), &session); err != nil {
		testContext.Fatalf("failed to decode login response: %v", err)
	}
	if session.ExpiresIn != 604800 {
		testContext.Fatalf("expected 7-day token lifetime, got %d", session.ExpiresIn)
	}
	token := session.AccessToken

	created := perform(testContext, handler, http.MethodPost, "/api/v1/notes",
		`{"name":"Shopping"}`, token)
	if created.Code != http.StatusCreated {
		testContext.Fatalf("note create failed with %d: %s", created.Code, created.Body.String())
	}
	var note noteResponse
	if err := json.Unmarshal(created.Body.Bytes(), &note); err != nil {
		testContext.Fatalf("failed to decode note: %v", err)
	}
	if note.Name != "Shopping" || note.Description != nil {
		testContext.Fatalf("unexpected created note %+v", note)
	}

	updated := perform(testContext, handler, http.MethodPut, fmt.Sprintf("/api/v1/notes/%d", note.ID),
		`{"description":"milk, eggs"}`, token)
	if updated.Code != http.StatusOK {
		testContext.Fatalf("note update failed with %d: %s", updated.Code, updated.Body.String())
	}
	if err := json.Unmarshal(updated.Body.Bytes(), &note); err != nil {
		testContext.Fatalf("failed to decode updated note: %v", err)
	}
	if note.Name != "Shopping" || note.Description == nil || *note.Description != "milk, eggs" {
		testContext.Fatalf("unexpected updated note %+v", note)
	}

	fetched := perform(testContext, handler, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", account.ID), "", token)
	if fetched.Code != http.StatusOK {
		testContext.Fatalf("user fetch failed with %d: %s", fetched.Code, fetched.Body.String())
	}
	if strings.Contains(fetched.Body.String(), "password") {
		testContext.Fatalf("user payload must not expose password material: %s", fetched.Body.String())
	}

	searched := perform(testContext, handler, http.MethodGet, "/api/v1/users?name=Flow", "", token)
	if searched.Code != http.StatusOK {
		testContext.Fatalf("user search failed with %d", searched.Code)
	}
	var results []userResponse
	if err := json.Unmarshal(searched.Body.Bytes(), &results); err != nil {
		testContext.Fatalf("failed to decode search results: %v", err)
	}
	if len(results) != 1 || results[0].ID != account.ID {
		testContext.Fatalf("unexpected search results %+v", results)
	}

	removed := perform(testContext, handler, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", account.ID), "", token)
	if removed.Code != http.StatusOK {
		testContext.Fatalf("user delete failed with %d: %s", removed.Code, removed.Body.String())
	}
	// The cache entry was evicted with the record; the follow-up read misses
	// the cache, falls through to the store and reports the record gone.
	missing := perform(testContext, handler, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", account.ID), "", token)
	if missing.Code != http.StatusNotFound {
		testContext.Fatalf("expected 404 after delete, got %d", missing.Code)
	}

	failedLogin := perform(testContext, handler, http.MethodPost, "/login",
		`{"email":"flow@example.com","password":"pw-flow"}`, "")
	if failedLogin.Code != http.StatusUnauthorized {
		testContext.Fatalf("expected 401 after account deletion, got %d", failedLogin.Code)
	}
}
