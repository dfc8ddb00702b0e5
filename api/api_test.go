package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/devfolio/projects-api/config"
	"github.com/devfolio/projects-api/database"
	"github.com/devfolio/projects-api/errs"
	"github.com/devfolio/projects-api/models"
)

const adminToken = "Bearer admin-token"

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

// stubAuthorizer accepts adminToken as user "admin" and rejects everything else.
type stubAuthorizer struct{}

func (stubAuthorizer) Authorize(_ context.Context, authHeader string) (string, error) {
	switch authHeader {
	case "":
		return "", errs.NewMissingTokenError()
	case adminToken:
		return "admin", nil
	default:
		return "", errs.NewNotAdminError("someone")
	}
}

type testServer struct {
	handler http.Handler
	gdb     *gorm.DB
}

func newTestServer(t *testing.T, authorizer AdminAuthorizer, settings config.ServerSettings) testServer {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:api_%s?mode=memory&cache=shared&_foreign_keys=on", name)

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(gdb))

	if settings.MaxBodyBytes == 0 {
		settings.MaxBodyBytes = 1 << 20
	}
	return testServer{
		handler: newRouter(database.New(gdb), authorizer, withSettings(settings)),
		gdb:     gdb,
	}
}

func (s testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s testServer) createProject(t *testing.T, body map[string]any) models.ProjectResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/projects/", adminToken, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.ProjectResponse](t, rec)
}

func tagNames(p models.ProjectResponse) []string {
	names := make([]string, 0, len(p.Tags))
	for _, tag := range p.Tags {
		names = append(names, tag.Name)
	}
	return names
}

func TestCreateProject(t *testing.T) {
	s := newTestServer(t, stubAuthorizer{}, config.ServerSettings{})

	p := s.createProject(t, map[string]any{
		"title":       "X",
		"overview":    "Y",
		"github_link": "https://github.com/x/y",
		"start_date":  "2023-04",
		"tags":        []string{"a", "b"},
		"description": []string{"d1", "d2"},
	})

	assert.NotZero(t, p.ID)
	assert.Equal(t, "X", p.Title)
	assert.Equal(t, "Y", p.Overview)
	assert.Equal(t, []string{"d1", "d2"}, p.Description)
	assert.Equal(t, []string{"a", "b"}, tagNames(p))
	require.NotNil(t, p.GithubLink)
	assert.Equal(t, "https://github.com/x/y", *p.GithubLink)
	require.NotNil(t, p.Dates[0])
	assert.Equal(t, "2023-04", *p.Dates[0])
	assert.Nil(t, p.Dates[1])

	// reusing a tag does not create a new one
	s.createProject(t, map[string]any{"title": "Z", "overview": "W", "tags": []string{"a"}})
	var tags int64
	require.NoError(t, s.gdb.Model(&models.Tag{}).Count(&tags).Error)
	assert.EqualValues(t, 2, tags)
}

func TestCreateProjectAcceptsDescriptionsKey(t *testing.T) {
	s := newTestServer(t, stubAuthorizer{}, config.ServerSettings{})

	p := s.createProject(t, map[string]any{
		"title":        "X",
		"overview":     "Y",
		"descriptions": []string{"first", "second"},
	})
	assert.Equal(t, []string{"first", "second"}, p.Description)
}

func TestCreateProjectValidation(t *testing.T) {
	s := newTestServer(t, stubAuthorizer{}, config.ServerSettings{})

	cases := []struct {
		name  string
		body  any
		field string
	}{
		{"missing title", map[string]any{"overview": "Y"}, "title"},
		{"missing overview", map[string]any{"title": "X"}, "overview"},
		{"blank title", map[string]any{"title": "  ", "overview": "Y"}, "title"},
		{"bad date", map[string]any{"title": "X", "overview": "Y", "start_date": "April"}, "start_date"},
		{"malformed json", `{"title": "X",`, "payload"},
		{"wrong type", `{"title": 5, "overview": "Y"}`, "payload"},
		{"tag too long", map[string]any{"title": "X", "overview": "Y", "tags": []string{strings.Repeat("t", 101)}}, "tags[0]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/projects/", adminToken, tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			resp := decode[ErrorResponse](t, rec)
			assert.Equal(t, "error", resp.Status)
			assert.Equal(t, tc.field, resp.Field)
		})
	}

	var n int64
	require.NoError(t, s.gdb.Model(&models.Project{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestMutationsRequireAdmin(t *testing.T) {
	s := newTestServer(t, stubAuthorizer{}, config.ServerSettings{})
	p := s.createProject(t, map[string]any{"title": "X", "overview": "Y", "tags": []string{"a"}})

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/projects/"},
		{http.MethodPut, fmt.Sprintf("/projects/%d", p.ID)},
		{http.MethodDelete, fmt.Sprintf("/projects/%d", p.ID)},
		{http.MethodPut, fmt.Sprintf("/projects/tag/%d", p.Tags[0].ID)},
		{http.MethodDelete, "/projects/tag/a"},
	}
	for _, r := range requests {
		for _, token := range []string{"", "Bearer someone-else"} {
			rec := s.do(t, r.method, r.path, token, map[string]any{"title": "hacked", "name": "hacked"})
			assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s token=%q", r.method, r.path, token)
		}
	}

	rec := s.do(t, http.MethodGet, "/projects/find/X", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "X", decode[models.ProjectResponse](t, rec).Title)
}

func TestListProjects(t *testing.T) {
	s := newTestServer(t, stubAuthorizer{}, config.ServerSettings{})

	rec := s.do(t, http.MethodGet, "/projects/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	empty := decode[ProjectCollection](t, rec)
	assert.Zero(t, empty.Total)
	assert.NotNil(t, empty.Projects)

	s.createProject(t, map[string]any{"title": "A", "overview": "Y"})
	s.createProject(t, map[string]any{"title": "B", "overview": "Y"})

	rec = s.do(t, http.MethodGet, "/projects", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[ProjectCollection](t, rec)
	assert.Equal(t, 2, list.Total)
	assert.Equal(t, "A", list.Projects[0].Title)
	assert.Equal(t, "B", list.Projects[1].Title)
}

func TestUpdateProject(t *testing.T) {
	s := newTestServer(t, stubAuthorizer{}, config.ServerSettings{})
	p := s.createProject(t, map[string]any{
		"title":       "X",
		"overview":    "Y",
		"start_date":  "2022-01",
		"tags":        []string{"a", "b"},
		"description": []string{"d1"},
	})
	path := fmt.Sprintf("/projects/%d", p.ID)

	rec := s.do(t, http.MethodPut, path, adminToken, map[string]any{"overview": "new"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.ProjectResponse](t, rec)
	assert.Equal(t, "new", updated.Overview)
	assert.Equal(t, "X", updated.Title)
	assert.Equal(t, []string{"a", "b"}, tagNames(updated))
	assert.Equal(t, []string{"d1"}, updated.Description)
	assert.Equal(t, p.Dates, updated.Dates)

	rec = s.do(t, http.MethodPut, path, adminToken, map[string]any{
		"tags":         []string{"b", "c"},
		"descriptions": []string{"n1", "n2"},
		"end_date":     "2023-02-14",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated = decode[models.ProjectResponse](t, rec)
	assert.ElementsMatch(t, []string{"b", "c"}, tagNames(updated))
	assert.Equal(t, []string{"n1", "n2"}, updated.Description)
	require.NotNil(t, updated.Dates[1])
	assert.Equal(t, "2023-02", *updated.Dates[1])

	rec = s.do(t, http.MethodPut, path, adminToken, map[string]any{"tags": []string{}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[models.ProjectResponse](t, rec).Tags)

	rec = s.do(t, http.MethodPut, path, adminToken, `{"tags": null, "title": "Renamed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Renamed", decode[models.ProjectResponse](t, rec).Title)
}

func TestUpdateProjectErrors(t *testing.T) {
	s := newTestServer(t, stubAuthorizer{}, config.ServerSettings{})
	p := s.createProject(t, map[string]any{"title": "X", "overview": "Y"})
	path := fmt.Sprintf("/projects/%d", p.ID)

	rec := s.do(t, http.MethodPut, "/projects/999", adminToken, map[string]any{})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPut, path, adminToken, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, path, adminToken, map[string]any{"unknown": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, path, adminToken, map[string]any{"title": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/projects/abc", adminToken, map[string]any{"title": "Z"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteProject(t *testing.T) {
	s := newTestServer(t, stubAuthorizer{}, config.ServerSettings{})
	p := s.createProject(t, map[string]any{
		"title":       "X",
		"overview":    "Y",
		"tags":        []string{"a"},
		"description": []string{"d1"},
	})
	path := fmt.Sprintf("/projects/%d", p.ID)

	rec := s.do(t, http.MethodDelete, path, adminToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = s.do(t, http.MethodDelete, path, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var descriptions, tags int64
	require.NoError(t, s.gdb.Model(&models.Description{}).Count(&descriptions).Error)
	require.NoError(t, s.gdb.Model(&models.Tag{}).Count(&tags).Error)
	assert.Zero(t, descriptions)
	assert.EqualValues(t, 1, tags)
}

func TestFindProjectByTitle(t *testing.T) {
	s := newTestServer(t, stubAuthorizer{}, config.ServerSettings{})
	s.createProject(t, map[string]any{"title": "My Cool Project", "overview": "Y"})

	for _, path := range []string{
		"/projects/find/My_Cool_Project",
		"/projects/find/My__Cool__Project",
		"/projects/find/My%20Cool%20Project",
	} {
		rec := s.do(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "My Cool Project", decode[models.ProjectResponse](t, rec).Title)
	}

	rec := s.do(t, http.MethodGet, "/projects/find/Nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPathParamsWithPercentSigns(t *testing.T) {
	s := newTestServer(t, stubAuthorizer{}, config.ServerSettings{})
	s.createProject(t, map[string]any{"title": "100% done", "overview": "Y", "tags": []string{"C%23"}})
	s.createProject(t, map[string]any{"title": "a/b", "overview": "Y"})

	rec := s.do(t, http.MethodGet, "/projects/find/100%25_done", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "100% done", decode[models.ProjectResponse](t, rec).Title)

	rec = s.do(t, http.MethodGet, "/projects/find/a%2Fb", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "a/b", decode[models.ProjectResponse](t, rec).Title)

	rec = s.do(t, http.MethodGet, "/projects/tag/C%2523", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	list := decode[ProjectCollection](t, rec)
	require.Len(t, list.Projects, 1)
	assert.Equal(t, "100% done", list.Projects[0].Title)

	rec = s.do(t, http.MethodDelete, "/projects/tag/C%2523", adminToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
}

func TestProjectsByTag(t *testing.T) {
	s := newTestServer(t, stubAuthorizer{}, config.ServerSettings{})
	s.createProject(t, map[string]any{"title": "A", "overview": "Y", "tags": []string{"machine learning"}})
	s.createProject(t, map[string]any{"title": "B", "overview": "Y", "tags": []string{"go"}})

	rec := s.do(t, http.MethodGet, "/projects/tag/machine_learning", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[ProjectCollection](t, rec)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "A", list.Projects[0].Title)

	rec = s.do(t, http.MethodGet, "/projects/tag/rust", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode[ErrorResponse](t, rec).Error, "no tags found with the specified name")

	// unlink "go" from B so the tag exists without projects
	rec = s.do(t, http.MethodPut, fmt.Sprintf("/projects/%d", list.Projects[0].ID+1), adminToken, map[string]any{"tags": []string{}})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodGet, "/projects/tag/go", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode[ErrorResponse](t, rec).Error, "no projects found with the specified tag")
}

func TestTagsWithProjects(t *testing.T) {
	s := newTestServer(t, stubAuthorizer{}, config.ServerSettings{})

	rec := s.do(t, http.MethodGet, "/projects/tags", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode[ErrorResponse](t, rec).Error, "no tags with projects found")

	s.createProject(t, map[string]any{"title": "A", "overview": "Y", "tags": []string{"go"}})
	s.createProject(t, map[string]any{"title": "B", "overview": "Y", "tags": []string{"go", "sql"}})

	rec = s.do(t, http.MethodGet, "/projects/tags", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[TagCollection](t, rec)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, "go", list.Tags[0].Name)
	assert.Equal(t, []string{"A", "B"}, list.Tags[0].Projects)
	assert.Equal(t, []string{"B"}, list.Tags[1].Projects)
}

func TestRenameTag(t *testing.T) {
	s := newTestServer(t, stubAuthorizer{}, config.ServerSettings{})
	p := s.createProject(t, map[string]any{"title": "A", "overview": "Y", "tags": []string{"golang", "sql"}})
	golang, sql := p.Tags[0], p.Tags[1]

	rec := s.do(t, http.MethodPut, fmt.Sprintf("/projects/tag/%d", golang.ID), adminToken, map[string]any{"name": "go"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.TagResponse{ID: golang.ID, Name: "go"}, decode[models.TagResponse](t, rec))

	rec = s.do(t, http.MethodPut, fmt.Sprintf("/projects/tag/%d", sql.ID), adminToken, map[string]any{"name": "go"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPut, "/projects/tag/999", adminToken, map[string]any{"name": "rust"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPut, fmt.Sprintf("/projects/tag/%d", sql.ID), adminToken, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteTag(t *testing.T) {
	s := newTestServer(t, stubAuthorizer{}, config.ServerSettings{})
	p := s.createProject(t, map[string]any{"title": "A", "overview": "Y", "tags": []string{"machine learning", "go"}})

	// matching is exact for deletes
	rec := s.do(t, http.MethodDelete, "/projects/tag/machine_learning", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, "/projects/tag/machine%20learning", adminToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/projects/find/A", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	remaining := decode[models.ProjectResponse](t, rec)
	assert.Equal(t, p.ID, remaining.ID)
	assert.Equal(t, []string{"go"}, tagNames(remaining))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, stubAuthorizer{}, config.ServerSettings{})

	rec := s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[HealthResponse](t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ok", resp.Database)
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, stubAuthorizer{}, config.ServerSettings{})

	rec := s.do(t, http.MethodGet, "/projects/", "", nil)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/projects/", nil)
	req.Header.Set(requestIDHeader, "fixed-id")
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, "fixed-id", rec.Header().Get(requestIDHeader))
}

func TestBodyTooLarge(t *testing.T) {
	s := newTestServer(t, stubAuthorizer{}, config.ServerSettings{MaxBodyBytes: 64})

	rec := s.do(t, http.MethodPost, "/projects/", adminToken, map[string]any{
		"title":    "X",
		"overview": strings.Repeat("o", 200),
	})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, stubAuthorizer{}, config.ServerSettings{CORSOrigins: []string{"https://example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/projects/", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestPanicRecovery(t *testing.T) {
	handler := LogInternalServerErrors(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "error", decode[ErrorResponse](t, rec).Status)
}
