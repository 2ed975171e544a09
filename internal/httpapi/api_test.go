package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oncallhq/tenantd/internal/auth"
	"github.com/oncallhq/tenantd/internal/models"
	"github.com/oncallhq/tenantd/internal/store/memory"
	"github.com/oncallhq/tenantd/internal/tenant"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	server *httptest.Server
	auth   *auth.Service
}

// setupAPI builds the API over memory stores and registers one user per
// given email, each in their own fresh organization.
func setupAPI(t *testing.T, emails ...string) *fixture {
	t.Helper()
	ctx := context.Background()

	users := memory.NewUserStore()
	memberships := memory.NewMembershipStore()
	orgs := memory.NewOrganizationStore()
	projects := memory.NewProjectStore()

	tokens, err := auth.NewTokenService([]byte("test-secret-key-min-32-bytes-long!"), 30*time.Minute)
	require.NoError(t, err)

	authSvc := auth.NewService(users, tokens)

	for _, email := range emails {
		user, err := authSvc.Register(ctx, email, "secret123", "Test User")
		require.NoError(t, err)

		orgID, err := uuid.NewV7()
		require.NoError(t, err)

		now := time.Now()
		require.NoError(t, orgs.Create(ctx, &models.Organization{
			OrgID: orgID, Name: "org-" + email, CreatedAt: now, UpdatedAt: now,
		}))
		require.NoError(t, memberships.Add(ctx, &models.Membership{
			UserID: user.UserID, OrgID: orgID, CreatedAt: now,
		}))
	}

	api := New(
		authSvc,
		auth.NewTenantResolver(memberships),
		tenant.NewScoped[*models.Project, models.ProjectPatch](projects),
		"test",
	)

	server := httptest.NewServer(api.Routes())
	t.Cleanup(server.Close)

	return &fixture{server: server, auth: authSvc}
}

func (f *fixture) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, f.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (f *fixture) login(t *testing.T, email string) string {
	t.Helper()

	resp := f.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[map[string]string](t, resp)
	require.Equal(t, "bearer", body["token_type"])
	require.NotEmpty(t, body["access_token"])
	return body["access_token"]
}

func TestAPI_Login(t *testing.T) {
	f := setupAPI(t, "a@x.com")

	t.Run("valid credentials", func(t *testing.T) {
		f.login(t, "a@x.com")
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := f.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email":    "a@x.com",
			"password": "wrong",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown email gets the same response", func(t *testing.T) {
		resp := f.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email":    "nobody@x.com",
			"password": "secret123",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed email is a validation error", func(t *testing.T) {
		resp := f.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email":    "not-an-email",
			"password": "secret123",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAPI_Session(t *testing.T) {
	f := setupAPI(t, "a@x.com")

	t.Run("valid token returns safe user view", func(t *testing.T) {
		token := f.login(t, "a@x.com")

		resp := f.request(t, http.MethodPost, "/api/v1/auth/session", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody[map[string]any](t, resp)
		require.Equal(t, "a@x.com", body["email"])
		require.NotContains(t, body, "hashed_password")
		require.NotContains(t, body, "password")
	})

	t.Run("missing token", func(t *testing.T) {
		resp := f.request(t, http.MethodPost, "/api/v1/auth/session", "", nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		resp := f.request(t, http.MethodPost, "/api/v1/auth/session", "garbage", nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAPI_ProjectCRUD(t *testing.T) {
	f := setupAPI(t, "a@x.com")
	token := f.login(t, "a@x.com")

	resp := f.request(t, http.MethodPost, "/api/v1/projects", token, map[string]string{
		"name":        "foo",
		"description": "first project",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[map[string]any](t, resp)
	require.Equal(t, "foo", created["name"])
	id := created["id"].(string)
	require.NotEmpty(t, id)

	t.Run("get", func(t *testing.T) {
		resp := f.request(t, http.MethodGet, "/api/v1/projects/"+id, token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody[map[string]any](t, resp)
		require.Equal(t, "first project", body["description"])
	})

	t.Run("update", func(t *testing.T) {
		resp := f.request(t, http.MethodPatch, "/api/v1/projects/"+id, token, map[string]string{
			"name": "renamed",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody[map[string]any](t, resp)
		require.Equal(t, "renamed", body["name"])
		require.Equal(t, "first project", body["description"])
	})

	t.Run("create without name is a validation error", func(t *testing.T) {
		resp := f.request(t, http.MethodPost, "/api/v1/projects", token, map[string]string{
			"description": "nameless",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("delete", func(t *testing.T) {
		resp := f.request(t, http.MethodDelete, "/api/v1/projects/"+id, token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody[map[string]float64](t, resp)
		require.EqualValues(t, 1, body["deleted"])

		resp = f.request(t, http.MethodGet, "/api/v1/projects/"+id, token, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestAPI_TenantIsolation(t *testing.T) {
	f := setupAPI(t, "a@x.com", "b@y.com")
	tokenA := f.login(t, "a@x.com")
	tokenB := f.login(t, "b@y.com")

	resp := f.request(t, http.MethodPost, "/api/v1/projects", tokenA, map[string]string{
		"name": "foo",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[map[string]any](t, resp)
	id := created["id"].(string)

	t.Run("other tenant's list omits the record", func(t *testing.T) {
		resp := f.request(t, http.MethodGet, "/api/v1/projects", tokenB, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody[[]map[string]any](t, resp)
		require.Empty(t, body)
	})

	t.Run("other tenant's get is not found", func(t *testing.T) {
		resp := f.request(t, http.MethodGet, "/api/v1/projects/"+id, tokenB, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("other tenant's update is not found and changes nothing", func(t *testing.T) {
		resp := f.request(t, http.MethodPatch, "/api/v1/projects/"+id, tokenB, map[string]string{
			"name": "hijacked",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp = f.request(t, http.MethodGet, "/api/v1/projects/"+id, tokenA, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody[map[string]any](t, resp)
		require.Equal(t, "foo", body["name"])
	})

	t.Run("other tenant's delete removes nothing", func(t *testing.T) {
		resp := f.request(t, http.MethodDelete, "/api/v1/projects/"+id, tokenB, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody[map[string]float64](t, resp)
		require.Zero(t, body["deleted"])
	})
}

func TestAPI_ProjectPagination(t *testing.T) {
	f := setupAPI(t, "a@x.com")
	token := f.login(t, "a@x.com")

	for i := range 5 {
		resp := f.request(t, http.MethodPost, "/api/v1/projects", token, map[string]string{
			"name": fmt.Sprintf("project-%d", i),
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
		time.Sleep(time.Millisecond)
	}

	resp := f.request(t, http.MethodGet, "/api/v1/projects?offset=0&limit=2", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[[]map[string]any](t, resp)
	require.Len(t, body, 2)
	require.Equal(t, "project-4", body[0]["name"])
	require.Equal(t, "project-3", body[1]["name"])
}

func TestAPI_Health(t *testing.T) {
	f := setupAPI(t)

	resp := f.request(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	require.Equal(t, "healthy", body["status"])
}
