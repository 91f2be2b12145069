package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	restctx "github.com/easy-books/easy-books-server/internal/api/rest/context"
	"github.com/easy-books/easy-books-server/internal/apierrors"
	"github.com/easy-books/easy-books-server/internal/logger"
	"github.com/easy-books/easy-books-server/internal/mocks"
	"github.com/easy-books/easy-books-server/internal/model"
	"github.com/easy-books/easy-books-server/internal/observability"
	"github.com/easy-books/easy-books-server/internal/password"
	"github.com/easy-books/easy-books-server/internal/service"
	"github.com/easy-books/easy-books-server/internal/testutil"
	"github.com/easy-books/easy-books-server/internal/token"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type testRouter struct {
	handler       http.Handler
	auth          *mocks.AuthService
	inventory     *mocks.ResourceService[model.InventoryPayload]
	relationships *mocks.ResourceService[model.RelationshipPayload]
	purchases     *mocks.ResourceService[model.PurchasePayload]
}

func newTestRouter(t *testing.T, opts Options, db pinger) testRouter {
	t.Helper()

	auth := mocks.NewAuthService(t)
	inventory := mocks.NewResourceService[model.InventoryPayload](t)
	relationships := mocks.NewResourceService[model.RelationshipPayload](t)
	purchases := mocks.NewResourceService[model.PurchasePayload](t)

	r := New(auth, Resources{
		Inventory:     inventory,
		Relationships: relationships,
		Purchases:     purchases,
		Sales:         mocks.NewResourceService[model.SalePayload](t),
		Miscellaneous: mocks.NewResourceService[model.MiscellaneousPayload](t),
	}, db, observability.NewMetrics(),
		restctx.NewManager(), service.NewValidator(), opts, testutil.MakeNoopLogger())

	return testRouter{
		handler:       r.Register(),
		auth:          auth,
		inventory:     inventory,
		relationships: relationships,
		purchases:     purchases,
	}
}

func defaultOptions() Options {
	return Options{
		RequestTimeout: 5 * time.Second,
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}
}

func do(h http.Handler, method, path, bearer string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRouter_PublicRoutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		method     string
		path       string
		db         pinger
		wantStatus int
		wantBody   string
	}{
		{name: "index", method: http.MethodGet, path: "/eb/", wantStatus: http.StatusOK, wantBody: `"message":"App initialized."`},
		{name: "health up", method: http.MethodGet, path: "/healthz", wantStatus: http.StatusOK, wantBody: `"database":"up"`},
		{name: "health down", method: http.MethodGet, path: "/healthz", db: pinger{err: errors.New("refused")}, wantStatus: http.StatusServiceUnavailable, wantBody: `"database":"down"`},
		{name: "metrics", method: http.MethodGet, path: "/metrics", wantStatus: http.StatusOK, wantBody: "go_goroutines"},
		{name: "unknown route", method: http.MethodGet, path: "/eb/nope", wantStatus: http.StatusNotFound, wantBody: `"code":"route_not_found"`},
		{name: "wrong method", method: http.MethodPatch, path: "/eb/auth/login", wantStatus: http.StatusMethodNotAllowed, wantBody: `"code":"method_not_allowed"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tr := newTestRouter(t, defaultOptions(), tt.db)
			rec := do(tr.handler, tt.method, tt.path, "", nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestRouter_SecurityHeadersAndRequestID(t *testing.T) {
	t.Parallel()

	tr := newTestRouter(t, defaultOptions(), pinger{})
	rec := do(tr.handler, http.MethodGet, "/eb/", "", nil)

	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()

	opts := defaultOptions()
	opts.AllowedOrigins = []string{"https://app.example.com"}
	tr := newTestRouter(t, opts, pinger{})

	req := httptest.NewRequest(http.MethodOptions, "/eb/inventory", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()
	tr.handler.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	t.Parallel()

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/eb/inventory"},
		{http.MethodPost, "/eb/inventory"},
		{http.MethodGet, "/eb/inventory/" + uuid.NewString()},
		{http.MethodPut, "/eb/relationships/" + uuid.NewString()},
		{http.MethodDelete, "/eb/relationships/" + uuid.NewString()},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			t.Parallel()

			tr := newTestRouter(t, defaultOptions(), pinger{})
			rec := do(tr.handler, p.method, p.path, "", nil)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "missing authorization token")
		})
	}
}

func TestRouter_AuthRoutes(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		path       string
		body       any
		setup      func(m *mocks.AuthService)
		wantStatus int
		wantBody   string
	}{
		{
			name: "register",
			path: "/eb/auth/register",
			body: map[string]string{"username": "alice", "password": "secret1"},
			setup: func(m *mocks.AuthService) {
				m.On("Register", mock.Anything, "alice", "secret1").Return(userID, nil)
			},
			wantStatus: http.StatusCreated,
			wantBody:   fmt.Sprintf(`"user_id":%q`, userID),
		},
		{
			name: "register taken",
			path: "/eb/auth/register",
			body: map[string]string{"username": "alice", "password": "secret1"},
			setup: func(m *mocks.AuthService) {
				m.On("Register", mock.Anything, "alice", "secret1").Return(uuid.Nil, apierrors.NewErrUsernameTaken("alice"))
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "register missing password",
			path:       "/eb/auth/register",
			body:       map[string]string{"username": "alice"},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "password: required",
		},
		{
			name:       "register malformed json",
			path:       "/eb/auth/register",
			body:       `{"username":`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "login",
			path: "/eb/auth/login",
			body: map[string]string{"username": "alice", "password": "secret1"},
			setup: func(m *mocks.AuthService) {
				m.On("Login", mock.Anything, "alice", "secret1").
					Return(model.Session{Token: "tok", ExpiresAt: expires, UserID: userID}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"token_type":"Bearer"`,
		},
		{
			name: "login wrong password",
			path: "/eb/auth/login",
			body: map[string]string{"username": "alice", "password": "nope"},
			setup: func(m *mocks.AuthService) {
				m.On("Login", mock.Anything, "alice", "nope").Return(model.Session{}, apierrors.NewErrInvalidCredentials())
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "invalid username or password",
		},
		{
			name: "login storage down",
			path: "/eb/auth/login",
			body: map[string]string{"username": "alice", "password": "secret1"},
			setup: func(m *mocks.AuthService) {
				m.On("Login", mock.Anything, "alice", "secret1").
					Return(model.Session{}, apierrors.NewErrStorageUnavailable(errors.New("dial tcp")))
			},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tr := newTestRouter(t, defaultOptions(), pinger{})
			if tt.setup != nil {
				tt.setup(tr.auth)
			}

			rec := do(tr.handler, http.MethodPost, tt.path, "", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestRouter_AuthRateLimit(t *testing.T) {
	t.Parallel()

	opts := defaultOptions()
	opts.AuthRateLimit = 2
	tr := newTestRouter(t, opts, pinger{})
	tr.auth.On("Login", mock.Anything, "alice", "nope").Return(model.Session{}, apierrors.NewErrInvalidCredentials()).Times(2)

	body := map[string]string{"username": "alice", "password": "nope"}
	for range 2 {
		rec := do(tr.handler, http.MethodPost, "/eb/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := do(tr.handler, http.MethodPost, "/eb/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"too_many_attempts"`)
}

func TestRouter_InventoryWithMocks(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	id := uuid.New()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	item := model.Item[model.InventoryPayload]{
		ID:        id,
		OwnerID:   owner,
		Payload:   model.InventoryPayload{"name": "bolt"},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		setup      func(m *mocks.ResourceService[model.InventoryPayload])
		wantStatus int
		wantBody   string
	}{
		{
			name:   "create",
			method: http.MethodPost,
			path:   "/eb/inventory",
			body:   map[string]any{"payload": map[string]any{"name": "bolt"}},
			setup: func(m *mocks.ResourceService[model.InventoryPayload]) {
				m.On("Create", mock.Anything, owner, model.InventoryPayload{"name": "bolt"}).Return(item, nil)
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"version":1`,
		},
		{
			name:       "create with unknown top level field",
			method:     http.MethodPost,
			path:       "/eb/inventory",
			body:       map[string]any{"payload": map[string]any{"name": "bolt"}, "owner_id": uuid.NewString()},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:   "get",
			method: http.MethodGet,
			path:   "/eb/inventory/" + id.String(),
			setup: func(m *mocks.ResourceService[model.InventoryPayload]) {
				m.On("Get", mock.Anything, owner, id).Return(item, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"name":"bolt"`,
		},
		{
			name:       "get malformed id",
			method:     http.MethodGet,
			path:       "/eb/inventory/not-a-uuid",
			wantStatus: http.StatusNotFound,
			wantBody:   `"code":"not_found"`,
		},
		{
			name:   "list with defaults",
			method: http.MethodGet,
			path:   "/eb/inventory",
			setup: func(m *mocks.ResourceService[model.InventoryPayload]) {
				m.On("List", mock.Anything, owner, model.PageRequest{Page: 1, PageLimit: 20, OrderBy: "created_at", SortOrder: "asc"}).
					Return(model.Page[model.InventoryPayload]{Page: 1, PageLimit: 20, OrderBy: "created_at", SortOrder: "asc"}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"records":[]`,
		},
		{
			name:   "list with query",
			method: http.MethodGet,
			path:   "/eb/inventory?page=2&page_limit=5&order_by=updated_at&sort_order=desc",
			setup: func(m *mocks.ResourceService[model.InventoryPayload]) {
				m.On("List", mock.Anything, owner, model.PageRequest{Page: 2, PageLimit: 5, OrderBy: "updated_at", SortOrder: "desc"}).
					Return(model.Page[model.InventoryPayload]{
						Items: []model.Item[model.InventoryPayload]{item}, Page: 2, PageLimit: 5,
						OrderBy: "updated_at", SortOrder: "desc", TotalCount: 6,
					}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"total_count":6`,
		},
		{
			name:       "list with non numeric page",
			method:     http.MethodGet,
			path:       "/eb/inventory?page=two",
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:   "update with expected version",
			method: http.MethodPut,
			path:   "/eb/inventory/" + id.String(),
			body:   map[string]any{"payload": map[string]any{"qty": 3}, "expected_version": 1},
			setup: func(m *mocks.ResourceService[model.InventoryPayload]) {
				v := int64(1)
				m.On("Update", mock.Anything, owner, id, model.Patch{"qty": json.Number("3")}, &v).
					Return(model.Item[model.InventoryPayload]{}, apierrors.NewErrVersionConflict("inventory", id))
			},
			wantStatus: http.StatusConflict,
			wantBody:   `"code":"version_conflict"`,
		},
		{
			name:   "delete",
			method: http.MethodDelete,
			path:   "/eb/inventory/" + id.String(),
			setup: func(m *mocks.ResourceService[model.InventoryPayload]) {
				m.On("Delete", mock.Anything, owner, id).Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:   "internal error is opaque",
			method: http.MethodDelete,
			path:   "/eb/inventory/" + id.String(),
			setup: func(m *mocks.ResourceService[model.InventoryPayload]) {
				m.On("Delete", mock.Anything, owner, id).Return(errors.New("pq: deadlock detected"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tr := newTestRouter(t, defaultOptions(), pinger{})
			tr.auth.On("Validate", mock.Anything, "tok").Return(owner, nil)
			if tt.setup != nil {
				tt.setup(tr.inventory)
			}

			rec := do(tr.handler, tt.method, tt.path, "tok", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.NotContains(t, rec.Body.String(), "deadlock")
		})
	}
}

type itemBody struct {
	ID      uuid.UUID      `json:"id"`
	OwnerID uuid.UUID      `json:"owner_id"`
	Payload map[string]any `json:"payload"`
	Version int64          `json:"version"`
}

type listBody struct {
	Records    []itemBody `json:"records"`
	TotalCount int        `json:"total_count"`
}

// TestRouter_TwoUsersScenario drives the real services over in-memory stores.
func TestRouter_TwoUsersScenario(t *testing.T) {
	t.Parallel()

	lg := testutil.MakeNoopLogger()
	hasher, err := password.NewArgon2(password.Params{Time: 1, MemKiB: 1024, Par: 1})
	require.NoError(t, err)
	tokens := token.NewJWT(token.Options{KeyID: "v1", Secret: "scenario-secret", Issuer: "easy-books"})
	validate := service.NewValidator()

	auth := service.NewAuth(testutil.NewUserStore(), hasher, tokens, nil,
		service.AuthPolicy{MinPasswordLength: 6}, lg)
	h := New(auth, newScenarioResources(validate, lg), pinger{}, observability.NewMetrics(),
		restctx.NewManager(), validate, defaultOptions(), lg).Register()

	login := func(username, pw string) string {
		rec := do(h, http.MethodPost, "/eb/auth/register", "", map[string]string{"username": username, "password": pw})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		rec = do(h, http.MethodPost, "/eb/auth/login", "", map[string]string{"username": username, "password": pw})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return decode[struct {
			Token string `json:"token"`
		}](t, rec).Token
	}

	alice := login("alice", "wonderland")
	bolt := login("bolt", "lightning")

	rec := do(h, http.MethodPost, "/eb/auth/register", "", map[string]string{"username": "ALICE", "password": "another1"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(h, http.MethodPost, "/eb/auth/login", "", map[string]string{"username": "alice", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(h, http.MethodPost, "/eb/inventory", alice, map[string]any{"payload": map[string]any{"name": "bolt cutter", "qty": 2}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[itemBody](t, rec)
	assert.Equal(t, int64(1), created.Version)
	assert.Equal(t, "/eb/inventory/"+created.ID.String(), rec.Header().Get("Location"))
	itemPath := "/eb/inventory/" + created.ID.String()

	rec = do(h, http.MethodGet, itemPath, bolt, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(h, http.MethodPut, itemPath, bolt, map[string]any{"payload": map[string]any{"qty": 0}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(h, http.MethodDelete, itemPath, bolt, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(h, http.MethodGet, "/eb/inventory", bolt, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[listBody](t, rec).Records)

	rec = do(h, http.MethodPut, itemPath, alice, map[string]any{"payload": map[string]any{"qty": 5}, "expected_version": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[itemBody](t, rec)
	assert.Equal(t, int64(2), updated.Version)
	assert.Equal(t, float64(5), updated.Payload["qty"])
	assert.Equal(t, "bolt cutter", updated.Payload["name"])

	rec = do(h, http.MethodPut, itemPath, alice, map[string]any{"payload": map[string]any{"qty": 9}, "expected_version": 1})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(h, http.MethodGet, itemPath, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(5), decode[itemBody](t, rec).Payload["qty"])

	rec = do(h, http.MethodPost, "/eb/relationships", alice, map[string]any{"payload": map[string]any{"name": "ACME Supply", "phone_number": "555-0100"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(h, http.MethodPost, "/eb/relationships", alice, map[string]any{"payload": map[string]any{"phone_number": "555-0100"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(h, http.MethodGet, "/eb/relationships", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[listBody](t, rec).TotalCount)

	rec = do(h, http.MethodDelete, itemPath, alice, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(h, http.MethodDelete, itemPath, alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(h, http.MethodGet, "/eb/inventory", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[listBody](t, rec).TotalCount)

	rec = do(h, http.MethodGet, "/eb/inventory", "forged.token.value", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func newScenarioResources(validate *validator.Validate, lg *logger.Logger) Resources {
	return Resources{
		Inventory: service.NewResource(testutil.NewItemStore[model.InventoryPayload](),
			service.InventorySchema(), validate, lg),
		Relationships: service.NewResource(testutil.NewItemStore[model.RelationshipPayload](),
			service.RelationshipSchema(), validate, lg),
		Purchases: service.NewResource(testutil.NewItemStore[model.PurchasePayload](),
			service.PurchaseSchema(), validate, lg),
		Sales: service.NewResource(testutil.NewItemStore[model.SalePayload](),
			service.SaleSchema(), validate, lg),
		Miscellaneous: service.NewResource(testutil.NewItemStore[model.MiscellaneousPayload](),
			service.MiscellaneousSchema(), validate, lg),
	}
}

func newScenarioHandler(t *testing.T) (http.Handler, string) {
	t.Helper()

	lg := testutil.MakeNoopLogger()
	hasher, err := password.NewArgon2(password.Params{Time: 1, MemKiB: 1024, Par: 1})
	require.NoError(t, err)
	tokens := token.NewJWT(token.Options{KeyID: "v1", Secret: "scenario-secret", Issuer: "easy-books"})
	validate := service.NewValidator()
	auth := service.NewAuth(testutil.NewUserStore(), hasher, tokens, nil,
		service.AuthPolicy{MinPasswordLength: 6}, lg)

	h := New(auth, newScenarioResources(validate, lg), pinger{}, observability.NewMetrics(),
		restctx.NewManager(), validate, defaultOptions(), lg).Register()

	creds := map[string]string{"username": "carol", "password": "junkyard"}
	rec := do(h, http.MethodPost, "/eb/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = do(h, http.MethodPost, "/eb/auth/login", "", creds)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	return h, decode[struct {
		Token string `json:"token"`
	}](t, rec).Token
}

func TestRouter_InventoryKeepsLargeIntegers(t *testing.T) {
	t.Parallel()

	h, bearer := newScenarioHandler(t)

	rec := do(h, http.MethodPost, "/eb/inventory", bearer, `{"payload":{"sku":9007199254740993}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"sku":9007199254740993`)
	itemPath := rec.Header().Get("Location")

	rec = do(h, http.MethodGet, itemPath, bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"sku":9007199254740993`)

	rec = do(h, http.MethodPut, itemPath, bearer, `{"payload":{"name":"rotor"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"sku":9007199254740993`)

	rec = do(h, http.MethodPut, itemPath, bearer, `{"payload":{"sku":9007199254740995}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"sku":9007199254740995`)
}

func TestRouter_CreateLocationWithTrailingSlash(t *testing.T) {
	t.Parallel()

	h, bearer := newScenarioHandler(t)

	rec := do(h, http.MethodPost, "/eb/inventory/", bearer, map[string]any{"payload": map[string]any{"name": "hub"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[itemBody](t, rec)
	assert.Equal(t, "/eb/inventory/"+created.ID.String(), rec.Header().Get("Location"))
}

func TestRouter_ListGetAll(t *testing.T) {
	t.Parallel()

	h, bearer := newScenarioHandler(t)
	for i := range 25 {
		rec := do(h, http.MethodPost, "/eb/inventory", bearer, map[string]any{"payload": map[string]any{"n": i}})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := do(h, http.MethodGet, "/eb/inventory?page_limit=10", bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decode[listBody](t, rec).Records, 10)

	rec = do(h, http.MethodGet, "/eb/inventory?get_all=true&page=7&page_limit=500", bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	all := decode[listBody](t, rec)
	assert.Len(t, all.Records, 25)
	assert.Equal(t, 25, all.TotalCount)

	rec = do(h, http.MethodGet, "/eb/inventory?get_all=maybe", bearer, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRouter_BookkeepingResources(t *testing.T) {
	t.Parallel()

	h, bearer := newScenarioHandler(t)

	rec := do(h, http.MethodPost, "/eb/relationships", bearer, map[string]any{"payload": map[string]any{"name": "Salvage Co"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	seller := decode[itemBody](t, rec).ID.String()

	rec = do(h, http.MethodPost, "/eb/purchases", bearer, map[string]any{"payload": map[string]any{
		"company_name":    "Toyota",
		"vehicle_name":    "Corolla 2004",
		"price":           1250.5,
		"date":            "2024-03-01T00:00:00Z",
		"relationship_id": seller,
	}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	purchase := decode[itemBody](t, rec)
	assert.Equal(t, "Corolla 2004", purchase.Payload["vehicle_name"])

	rec = do(h, http.MethodPut, "/eb/purchases/"+purchase.ID.String(), bearer, map[string]any{"payload": map[string]any{"price": 1100}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(1100), decode[itemBody](t, rec).Payload["price"])

	rec = do(h, http.MethodPut, "/eb/purchases/"+purchase.ID.String(), bearer, map[string]any{"payload": map[string]any{"mileage": 1}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(h, http.MethodPost, "/eb/inventory", bearer, map[string]any{"payload": map[string]any{"part_name": "alternator"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	part := decode[itemBody](t, rec).ID.String()

	rec = do(h, http.MethodPost, "/eb/sales", bearer, map[string]any{"payload": map[string]any{
		"inventory_id": part,
		"purchase_id":  purchase.ID.String(),
		"price":        80,
		"date":         "2024-03-09T00:00:00Z",
		"credit":       true,
	}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sale := decode[itemBody](t, rec)
	assert.Equal(t, true, sale.Payload["credit"])
	assert.Equal(t, false, sale.Payload["returned"])

	rec = do(h, http.MethodPost, "/eb/sales", bearer, map[string]any{"payload": map[string]any{
		"inventory_id": "not-a-uuid",
		"price":        80,
		"date":         "2024-03-09T00:00:00Z",
	}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(h, http.MethodPost, "/eb/miscellaneous", bearer, map[string]any{"payload": map[string]any{
		"description": "tow truck",
		"price":       45,
		"date":        "2024-03-02T00:00:00Z",
	}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(h, http.MethodPost, "/eb/miscellaneous", bearer, map[string]any{"payload": map[string]any{"price": -1}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	for _, path := range []string{"/eb/purchases", "/eb/sales", "/eb/miscellaneous"} {
		rec = do(h, http.MethodGet, path, bearer, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, 1, decode[listBody](t, rec).TotalCount, path)
	}

	rec = do(h, http.MethodDelete, "/eb/sales/"+sale.ID.String(), bearer, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
