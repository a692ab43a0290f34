package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/robby/ghboards/internal/boards"
	"github.com/robby/ghboards/internal/domain"
	"github.com/robby/ghboards/internal/gh"
	"github.com/robby/ghboards/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGitHub serves canned boards for a single viewer.
type fakeGitHub struct {
	login     string
	viewerErr error
	boards    map[string]*domain.Board
	errs      map[string]error
}

func (f *fakeGitHub) Viewer(context.Context) (string, error) {
	return f.login, f.viewerErr
}

func (f *fakeGitHub) FetchBoard(_ context.Context, owner string, number int) (*domain.Board, error) {
	key := domain.PinnedProject{Owner: owner, Number: number}.Key()
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	if board, ok := f.boards[key]; ok {
		return board, nil
	}
	return nil, errors.New("Project board not found or access denied.")
}

// memoryBackend keeps pins in memory.
type memoryBackend struct {
	mu   sync.Mutex
	data map[string][]domain.PinnedProject
}

func (m *memoryBackend) Load(_ context.Context, user string) ([]domain.PinnedProject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.PinnedProject(nil), m.data[user]...), nil
}

func (m *memoryBackend) Save(_ context.Context, user string, projects []domain.PinnedProject) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[user] = append([]domain.PinnedProject(nil), projects...)
	return nil
}

func (m *memoryBackend) Close() error { return nil }

type testEnv struct {
	server *Server
	github *fakeGitHub
	pins   *store.Store
	tokens []string
}

func createTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		github: &fakeGitHub{
			login:  "octocat",
			boards: map[string]*domain.Board{"acme#3": createTestBoard()},
			errs:   map[string]error{},
		},
		pins: store.New(&memoryBackend{data: map[string][]domain.PinnedProject{}}),
	}
	clients := func(token string) GitHub {
		env.tokens = append(env.tokens, token)
		return env.github
	}
	env.server = New(clients, env.pins, boards.NewService(2, nil), nil)
	return env
}

func createTestBoard() *domain.Board {
	items := []domain.BoardItem{
		{ID: "i1", Title: "Fix login", StatusType: domain.StatusTodo, IsPending: true},
		{ID: "i2", Title: "Ship it", StatusType: domain.StatusDone},
	}
	return &domain.Board{
		ID:        "PVT_1",
		Title:     "Roadmap",
		URL:       "https://github.com/orgs/acme/projects/3",
		Owner:     "acme",
		Number:    3,
		OwnerType: domain.OwnerTypeOrg,
		Stats:     domain.ComputeStats(items),
		Items:     items,
	}
}

func (e *testEnv) do(method, path, body string, authed bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if authed {
		req.Header.Set("Authorization", "Bearer test-token")
	}
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var msg string
	require.NoError(t, json.Unmarshal(decode(t, rec)["error"], &msg))
	return msg
}

func TestHealthz(t *testing.T) {
	env := createTestEnv(t)

	rec := env.do("GET", "/healthz", "", false)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestUnauthorized(t *testing.T) {
	env := createTestEnv(t)

	for _, tc := range []struct{ method, path, body string }{
		{"GET", "/api/projects", ""},
		{"POST", "/api/projects", `{"action":"add","url":"https://github.com/orgs/acme/projects/3"}`},
		{"GET", "/api/projects/acme/3", ""},
	} {
		rec := env.do(tc.method, tc.path, tc.body, false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.method+" "+tc.path)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
	}
	assert.Empty(t, env.tokens)
}

func TestListBoards_Empty(t *testing.T) {
	env := createTestEnv(t)

	rec := env.do("GET", "/api/projects", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"boards":[]}`, rec.Body.String())
	assert.Equal(t, []string{"test-token"}, env.tokens)
}

func TestListBoards_MixesLiveAndPlaceholderCards(t *testing.T) {
	env := createTestEnv(t)
	env.github.errs["ghost#1"] = errors.New("Resource not accessible by integration")
	ctx := context.Background()
	_, err := env.pins.Add(ctx, "octocat", "https://github.com/users/ghost/projects/1")
	require.NoError(t, err)
	_, err = env.pins.Add(ctx, "octocat", "https://github.com/orgs/acme/projects/3")
	require.NoError(t, err)

	rec := env.do("GET", "/api/projects", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var cards []domain.BoardCard
	require.NoError(t, json.Unmarshal(decode(t, rec)["boards"], &cards))
	require.Len(t, cards, 2)

	assert.True(t, cards[0].HasAccess)
	assert.Equal(t, "Roadmap", cards[0].Title)
	assert.Equal(t, domain.Stats{Total: 2, Pending: 1, Done: 1}, cards[0].Stats)

	assert.False(t, cards[1].HasAccess)
	assert.Equal(t, "ghost / Project 1", cards[1].Title)
	require.NotNil(t, cards[1].Error)
	assert.Equal(t, "Resource not accessible by integration", *cards[1].Error)
}

func TestListBoards_ViewerFailure(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"bad credentials", &gh.RemoteAPIError{StatusCode: 401, Message: "Bad credentials"}, http.StatusUnauthorized, "Unauthorized"},
		{"graphql error on 200", fmt.Errorf("failed to get viewer: %w", &gh.RemoteAPIError{StatusCode: 200, Message: "Could not resolve viewer"}), http.StatusUnauthorized, "Unauthorized"},
		{"github outage", fmt.Errorf("failed to get viewer: %w", &gh.RemoteAPIError{StatusCode: 502, Message: "Bad Gateway"}), http.StatusInternalServerError, "Failed to resolve GitHub user"},
		{"transport failure", errors.New("dial tcp: connection refused"), http.StatusInternalServerError, "Failed to resolve GitHub user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := createTestEnv(t)
			env.github.viewerErr = tt.err

			rec := env.do("GET", "/api/projects", "", true)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, errorMessage(t, rec))
		})
	}
}

func TestUpdatePins_AddAndRemove(t *testing.T) {
	env := createTestEnv(t)

	rec := env.do("POST", "/api/projects", `{"action":"add","url":"https://github.com/orgs/acme/projects/3"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"pinnedProjects":[{"owner":"acme","number":3,"ownerType":"org"}]}`,
		rec.Body.String())

	rec = env.do("POST", "/api/projects", `{"action":"remove","project":{"owner":"ACME","number":3,"ownerType":"org"}}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"pinnedProjects":[]}`, rec.Body.String())
}

func TestUpdatePins_InvalidRequests(t *testing.T) {
	env := createTestEnv(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed json", `{"action":`, "Invalid request data"},
		{"unknown action", `{"action":"pin","url":"https://github.com/orgs/acme/projects/3"}`, "Invalid request data"},
		{"add without url", `{"action":"add"}`, "Invalid request data"},
		{"remove without project", `{"action":"remove"}`, "Invalid request data"},
		{"remove with bad owner type", `{"action":"remove","project":{"owner":"a","number":1,"ownerType":"team"}}`, "Invalid request data"},
		{"foreign host", `{"action":"add","url":"https://gitlab.com/users/a/projects/1"}`, "Only github.com project URLs are supported."},
		{"not a board path", `{"action":"add","url":"https://github.com/acme/repo"}`, "Use a GitHub project URL like"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do("POST", "/api/projects", tt.body, true)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, errorMessage(t, rec), tt.want)
		})
	}
}

func TestBoard(t *testing.T) {
	env := createTestEnv(t)

	rec := env.do("GET", "/api/projects/acme/3", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var board domain.Board
	require.NoError(t, json.Unmarshal(decode(t, rec)["board"], &board))
	assert.Equal(t, "PVT_1", board.ID)
	assert.Len(t, board.Items, 2)
}

func TestBoard_ErrorStatuses(t *testing.T) {
	env := createTestEnv(t)
	env.github.errs["acme#4"] = errors.New("GitHub GraphQL error: 502")
	env.github.errs["acme#5"] = errors.New("Resource not accessible by integration")

	tests := []struct {
		path   string
		status int
	}{
		{"/api/projects/acme/0", http.StatusBadRequest},
		{"/api/projects/acme/three", http.StatusBadRequest},
		{"/api/projects/%20/3", http.StatusBadRequest},
		{"/api/projects/acme/9", http.StatusNotFound},
		{"/api/projects/acme/5", http.StatusNotFound},
		{"/api/projects/acme/4", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := env.do("GET", tt.path, "", true)
			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, errorMessage(t, rec))
		})
	}
}
