package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/looplj/modelguard/internal/guard"
	"github.com/looplj/modelguard/internal/objects"
	"github.com/looplj/modelguard/internal/perms"
	"github.com/looplj/modelguard/internal/server/api"
	"github.com/looplj/modelguard/internal/server/biz"
	"github.com/looplj/modelguard/internal/server/dependencies"
	"github.com/looplj/modelguard/internal/server/middleware"
	"github.com/looplj/modelguard/internal/storage/memstore"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T, guardConfig guard.Config) *Server {
	t.Helper()

	permStore := perms.NewStore()
	cat := dependencies.NewCatalog(guardConfig)
	g := dependencies.NewGuard(guardConfig, cat, dependencies.NewOracle(permStore))
	store := dependencies.NewGuardedStore(memstore.New(), g)

	srv := New(Config{
		Name:  "modelguard-test",
		Debug: true,
		Auth:  middleware.AuthConfig{JWTSecret: testSecret},
	})

	SetupRoutes(srv, guardConfig, Handlers{
		Entities: api.NewEntityHandlers(biz.NewEntityService(store)),
		Grants:   api.NewGrantHandlers(permStore),
	})

	return srv
}

func signToken(t *testing.T, subject, name string, superuser bool) string {
	t.Helper()

	claims := middleware.ActorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Name:      name,
		Superuser: superuser,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	return token
}

func doJSON(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload *bytes.Buffer = bytes.NewBuffer(nil)
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewBuffer(encoded)
	}

	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	srv.Engine.ServeHTTP(w, req)

	return w
}

func testGuardConfig() guard.Config {
	config := guard.DefaultConfig()
	config.ProtectedEntities = []string{"person"}

	return config
}

func TestServerCRUDFlow(t *testing.T) {
	srv := newTestServer(t, testGuardConfig())

	rootToken := signToken(t, "u0", "root", true)
	aliceToken := signToken(t, "u1", "alice", false)

	// Superuser creates an entity.
	w := doJSON(t, srv, http.MethodPost, "/v1/entities/person", rootToken,
		objects.SaveEntityRequest{Fields: map[string]any{"name": "x"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created objects.EntityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	objectID := fmt.Sprintf("person:%s", created.ID)

	t.Run("read denied without a grant", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodGet, "/v1/entities/person/"+created.ID, aliceToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "not allowed")
	})

	t.Run("grant then read succeeds", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPost, "/v1/grants", rootToken, objects.GrantRequest{
			ActorID:    "u1",
			Permission: "view_person",
			ObjectID:   objectID,
		})
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		w = doJSON(t, srv, http.MethodGet, "/v1/entities/person/"+created.ID, aliceToken, nil)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("delete denied, granted, then succeeds", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodDelete, "/v1/entities/person/"+created.ID, aliceToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = doJSON(t, srv, http.MethodPost, "/v1/grants", rootToken, objects.GrantRequest{
			ActorID:    "u1",
			Permission: "delete_person",
			ObjectID:   objectID,
		})
		require.Equal(t, http.StatusNoContent, w.Code)

		w = doJSON(t, srv, http.MethodDelete, "/v1/entities/person/"+created.ID, aliceToken, nil)
		assert.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		w = doJSON(t, srv, http.MethodGet, "/v1/entities/person/"+created.ID, rootToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestServerGrantManagement(t *testing.T) {
	srv := newTestServer(t, testGuardConfig())

	aliceToken := signToken(t, "u1", "alice", false)

	t.Run("non-superuser cannot manage grants", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPost, "/v1/grants", aliceToken, objects.GrantRequest{
			ActorID:    "u1",
			Permission: "view_person",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("anonymous cannot manage grants", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPost, "/v1/grants", "", objects.GrantRequest{
			ActorID:    "u1",
			Permission: "view_person",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("malformed object id", func(t *testing.T) {
		rootToken := signToken(t, "u0", "root", true)

		w := doJSON(t, srv, http.MethodPost, "/v1/grants", rootToken, objects.GrantRequest{
			ActorID:    "u1",
			Permission: "view_person",
			ObjectID:   "missing-separator",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestServerUnprotectedType(t *testing.T) {
	srv := newTestServer(t, testGuardConfig())

	// "note" is not registered for enforcement; anonymous CRUD passes.
	w := doJSON(t, srv, http.MethodPost, "/v1/entities/note", "",
		objects.SaveEntityRequest{Fields: map[string]any{"text": "hello"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, srv, http.MethodGet, "/v1/entities/note", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listed objects.EntityListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Equal(t, 1, listed.Total)
}

func TestServerAuditOnlyMode(t *testing.T) {
	config := testGuardConfig()
	config.EnforceBlocking = false

	srv := newTestServer(t, config)

	// No grants at all, but nothing blocks.
	w := doJSON(t, srv, http.MethodPost, "/v1/entities/person", "",
		objects.SaveEntityRequest{Fields: map[string]any{"name": "x"}})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}
