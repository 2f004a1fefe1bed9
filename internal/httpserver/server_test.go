package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MrSnakeDoc/linkshelf/internal/bookmarks"
	"github.com/MrSnakeDoc/linkshelf/internal/domain"
	"github.com/MrSnakeDoc/linkshelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkshelf/internal/index"
	"github.com/MrSnakeDoc/linkshelf/internal/logger"
	"github.com/MrSnakeDoc/linkshelf/internal/version"
)

type testEnv struct {
	store   *index.MemoryIndex
	handler http.Handler
	trigger chan struct{}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logger.Nop()
	store := index.NewMemoryIndex()
	svc := bookmarks.NewService(store, log)
	env := &testEnv{store: store, trigger: make(chan struct{}, 1)}

	env.handler = NewRouter(log, deps.Deps{
		Logger:          log,
		StartTime:       time.Now(),
		Build:           version.Info{Version: "test"},
		StoreKind:       "memory",
		Store:           store,
		Engine:          bookmarks.NewEngine(store, log),
		Service:         svc,
		Bulk:            bookmarks.NewCoordinator(svc, log),
		DefaultPageSize: 30,
		ImportTrigger:   env.trigger,
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, path, actor string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	r := httptest.NewRequest(method, path, &buf)
	r.RemoteAddr = "127.0.0.1:40000"
	if actor != "" {
		r.Header.Set("X-Remote-User", actor)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, r)
	return w
}

func (e *testEnv) seed(t *testing.T, b domain.Bookmark) int64 {
	t.Helper()
	if b.URL == "" {
		b.URL = "https://example.com"
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	if err := e.store.Create(context.Background(), &b); err != nil {
		t.Fatal(err)
	}
	return b.ID
}

func (e *testEnv) saveProfile(t *testing.T, actor string, body map[string]any) {
	t.Helper()
	if w := e.do(t, http.MethodPut, "/api/profile", actor, body); w.Code != http.StatusOK {
		t.Fatalf("PUT /api/profile status = %d: %s", w.Code, w.Body.String())
	}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

type listBody struct {
	Bookmarks []domain.Bookmark `json:"bookmarks"`
	Total     int               `json:"total"`
	Limit     int               `json:"limit"`
	HasMore   bool              `json:"has_more"`
	Tags      []struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	} `json:"tags"`
	SelectedTags []string `json:"selected_tags"`
	Users        []string `json:"users"`
}

func TestAPI_RequiresActor(t *testing.T) {
	env := newTestEnv(t)
	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/bookmarks"},
		{http.MethodGet, "/api/bookmarks/archived"},
		{http.MethodGet, "/api/bookmarks/1"},
		{http.MethodPost, "/api/bookmarks"},
		{http.MethodPost, "/api/bookmarks/bulk"},
		{http.MethodPost, "/api/bookmarks/1/archive"},
	}
	for _, p := range paths {
		if w := env.do(t, p.method, p.path, "", nil); w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s status = %d, want 401", p.method, p.path, w.Code)
		}
	}
	if w := env.do(t, http.MethodGet, "/api/shared", "", nil); w.Code != http.StatusOK {
		t.Errorf("GET /api/shared status = %d, want 200", w.Code)
	}
}

func TestAPI_CreateAndGet(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/bookmarks", "alice", map[string]any{
		"url":        "https://go.dev",
		"title":      "Go",
		"tag_string": "Go lang,go",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", w.Code, w.Body.String())
	}
	created := decode[struct {
		ID        int64    `json:"id"`
		Tags      []string `json:"tags"`
		TagString string   `json:"tag_string"`
	}](t, w)
	if created.TagString != "go lang" {
		t.Errorf("tag_string = %q, want %q", created.TagString, "go lang")
	}

	w = env.do(t, http.MethodGet, "/api/bookmarks/1", "alice", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}

	tests := []struct {
		name  string
		path  string
		actor string
		want  int
	}{
		{"foreign bookmark", "/api/bookmarks/1", "bob", http.StatusNotFound},
		{"missing bookmark", "/api/bookmarks/99", "alice", http.StatusNotFound},
		{"non-numeric id", "/api/bookmarks/abc", "alice", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := env.do(t, http.MethodGet, tt.path, tt.actor, nil); w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestAPI_CreateValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/bookmarks", "alice", map[string]any{"title": "no url"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	body := decode[map[string]string](t, w)
	if body["field"] != "url" {
		t.Errorf("field = %q, want url", body["field"])
	}

	r := httptest.NewRequest(http.MethodPost, "/api/bookmarks", bytes.NewBufferString("{not json"))
	r.Header.Set("X-Remote-User", "alice")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, r)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", rec.Code)
	}
}

func TestAPI_Update(t *testing.T) {
	env := newTestEnv(t)
	id := env.seed(t, domain.Bookmark{Owner: "alice", Tags: []string{"old"}})
	path := "/api/bookmarks/" + itoa(id)

	w := env.do(t, http.MethodPut, path, "bob", map[string]any{"url": "https://x.example.com"})
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign update status = %d, want 403", w.Code)
	}

	w = env.do(t, http.MethodPut, path, "alice", map[string]any{"url": "https://x.example.com", "tag_string": "new"})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", w.Code, w.Body.String())
	}
	b, _ := env.store.Get(context.Background(), id)
	if len(b.Tags) != 1 || b.Tags[0] != "new" {
		t.Errorf("tags = %v, want [new]", b.Tags)
	}
}

func TestAPI_ListAndFilter(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()
	env.seed(t, domain.Bookmark{Owner: "alice", Tags: []string{"work"}, CreatedAt: now.Add(-3 * time.Minute)})
	env.seed(t, domain.Bookmark{Owner: "alice", Tags: []string{"work", "go"}, Unread: true, CreatedAt: now.Add(-2 * time.Minute)})
	env.seed(t, domain.Bookmark{Owner: "alice", Tags: []string{"home"}, Archived: true, CreatedAt: now.Add(-time.Minute)})
	env.seed(t, domain.Bookmark{Owner: "bob", Tags: []string{"work"}})

	w := env.do(t, http.MethodGet, "/api/bookmarks?q=tag:work+unread", "alice", nil)
	list := decode[listBody](t, w)
	if list.Total != 1 || len(list.Bookmarks) != 1 || list.Bookmarks[0].ID != 2 {
		t.Errorf("filtered list = %+v", list)
	}
	if len(list.SelectedTags) != 1 || list.SelectedTags[0] != "work" {
		t.Errorf("selected_tags = %v", list.SelectedTags)
	}

	w = env.do(t, http.MethodGet, "/api/bookmarks?limit=1", "alice", nil)
	list = decode[listBody](t, w)
	if list.Total != 2 || len(list.Bookmarks) != 1 || !list.HasMore || list.Bookmarks[0].ID != 2 {
		t.Errorf("first page = %+v", list)
	}
	if len(list.Tags) == 0 || list.Tags[0].Name != "work" || list.Tags[0].Count != 2 {
		t.Errorf("tag cloud = %+v", list.Tags)
	}

	w = env.do(t, http.MethodGet, "/api/bookmarks/archived", "alice", nil)
	list = decode[listBody](t, w)
	if list.Total != 1 || list.Bookmarks[0].ID != 3 {
		t.Errorf("archived list = %+v", list)
	}
}

func TestAPI_PageSizeFromProfile(t *testing.T) {
	env := newTestEnv(t)
	for range 3 {
		env.seed(t, domain.Bookmark{Owner: "alice"})
	}
	env.saveProfile(t, "alice", map[string]any{"enable_sharing": true, "page_size": 2})

	list := decode[listBody](t, env.do(t, http.MethodGet, "/api/bookmarks", "alice", nil))
	if list.Limit != 2 || len(list.Bookmarks) != 2 {
		t.Errorf("limit = %d with %d bookmarks, want 2", list.Limit, len(list.Bookmarks))
	}

	list = decode[listBody](t, env.do(t, http.MethodGet, "/api/bookmarks?limit=oops", "alice", nil))
	if list.Limit != 2 {
		t.Errorf("invalid limit fell back to %d, want the profile's 2", list.Limit)
	}
}

func TestAPI_Shared(t *testing.T) {
	env := newTestEnv(t)
	env.saveProfile(t, "alice", map[string]any{"enable_sharing": true, "enable_public_sharing": true})
	env.seed(t, domain.Bookmark{Owner: "alice", Shared: true})
	env.seed(t, domain.Bookmark{Owner: "bob", Shared: true})
	env.seed(t, domain.Bookmark{Owner: "bob"})

	list := decode[listBody](t, env.do(t, http.MethodGet, "/api/shared", "", nil))
	if list.Total != 1 || len(list.Users) != 1 || list.Users[0] != "alice" {
		t.Errorf("anonymous shared = %+v", list)
	}

	list = decode[listBody](t, env.do(t, http.MethodGet, "/api/shared", "carol", nil))
	if list.Total != 2 || len(list.Users) != 2 {
		t.Errorf("authenticated shared = %+v", list)
	}
}

func TestAPI_ProfileEnablesPublicSharing(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, domain.Bookmark{Owner: "alice", Shared: true, Title: "Go tour"})
	env.seed(t, domain.Bookmark{Owner: "alice", Title: "private"})

	list := decode[listBody](t, env.do(t, http.MethodGet, "/api/shared", "", nil))
	if list.Total != 0 {
		t.Fatalf("anonymous shared before opt-in = %+v, want nothing", list)
	}

	w := env.do(t, http.MethodGet, "/api/profile", "alice", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/profile status = %d", w.Code)
	}
	if p := decode[domain.Profile](t, w); p.EnablePublicSharing || !p.EnableSharing {
		t.Errorf("default profile = %+v", p)
	}

	env.saveProfile(t, "alice", map[string]any{"enable_sharing": true, "enable_public_sharing": true})

	list = decode[listBody](t, env.do(t, http.MethodGet, "/api/shared", "", nil))
	if list.Total != 1 || len(list.Users) != 1 || list.Users[0] != "alice" {
		t.Errorf("anonymous shared after opt-in = %+v", list)
	}

	p := decode[domain.Profile](t, env.do(t, http.MethodGet, "/api/profile", "alice", nil))
	if !p.EnablePublicSharing || p.Owner != "alice" {
		t.Errorf("saved profile = %+v", p)
	}
}

func TestAPI_ProfileErrors(t *testing.T) {
	env := newTestEnv(t)

	if w := env.do(t, http.MethodGet, "/api/profile", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous GET status = %d, want 401", w.Code)
	}
	w := env.do(t, http.MethodPut, "/api/profile", "alice", map[string]any{"page_size": -1})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid page size status = %d, want 422", w.Code)
	}
	if body := decode[map[string]string](t, w); body["field"] != "page_size" {
		t.Errorf("field = %q, want page_size", body["field"])
	}
}

func TestAPI_HugeLimitDoesNotPanic(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, domain.Bookmark{Owner: "alice"})
	env.seed(t, domain.Bookmark{Owner: "alice"})

	w := env.do(t, http.MethodGet, "/api/bookmarks?offset=1&limit=9223372036854775807", "alice", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if list := decode[listBody](t, w); list.Total != 2 || len(list.Bookmarks) != 1 || list.HasMore {
		t.Errorf("list = %+v", list)
	}
}

func TestAPI_SingleActions(t *testing.T) {
	env := newTestEnv(t)
	id := env.seed(t, domain.Bookmark{Owner: "alice", Unread: true})
	base := "/api/bookmarks/" + itoa(id)

	for _, step := range []string{"/archive", "/archive", "/read", "/unarchive"} {
		if w := env.do(t, http.MethodPost, base+step, "alice", nil); w.Code != http.StatusNoContent {
			t.Fatalf("POST %s status = %d, want 204", step, w.Code)
		}
	}
	b, _ := env.store.Get(context.Background(), id)
	if b.Archived || b.Unread {
		t.Errorf("after actions = %+v", b)
	}

	if w := env.do(t, http.MethodPost, base+"/archive", "bob", nil); w.Code != http.StatusNotFound {
		t.Errorf("foreign archive status = %d, want 404", w.Code)
	}
	if w := env.do(t, http.MethodDelete, base, "alice", nil); w.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", w.Code)
	}
	if env.store.Count() != 0 {
		t.Error("bookmark still stored after delete")
	}
}

func TestAPI_Bulk(t *testing.T) {
	env := newTestEnv(t)
	one := env.seed(t, domain.Bookmark{Owner: "alice"})
	two := env.seed(t, domain.Bookmark{Owner: "bob"})
	three := env.seed(t, domain.Bookmark{Owner: "alice"})

	w := env.do(t, http.MethodPost, "/api/bookmarks/bulk", "alice", map[string]any{
		"action":       "bulk_archive",
		"bookmark_ids": []any{one, itoa(two), three, "x"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("bulk status = %d: %s", w.Code, w.Body.String())
	}
	res := decode[bookmarks.BulkResult](t, w)
	if res.Applied != 2 || res.Skipped != 2 {
		t.Errorf("bulk = %+v, want applied=2 skipped=2", res)
	}
	if b, _ := env.store.Get(context.Background(), two); b.Archived {
		t.Error("foreign bookmark archived")
	}

	w = env.do(t, http.MethodPost, "/api/bookmarks/bulk", "alice", map[string]any{
		"action":       "bulk_tag",
		"bookmark_ids": []any{one},
		"tag_string":   "x y",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("bulk tag status = %d", w.Code)
	}
	if b, _ := env.store.Get(context.Background(), one); len(b.Tags) != 2 {
		t.Errorf("tags = %v, want [x y]", b.Tags)
	}

	w = env.do(t, http.MethodPost, "/api/bookmarks/bulk", "alice", map[string]any{
		"action":       "bulk_explode",
		"bookmark_ids": []any{one},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown action status = %d, want 400", w.Code)
	}
}

func TestAPI_Health(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/healthz", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", w.Code)
	}
	health := decode[map[string]any](t, w)
	if health["store"] != "memory" {
		t.Errorf("healthz store = %v, want memory", health["store"])
	}
	if build, _ := health["build"].(map[string]any); build["version"] != "test" {
		t.Errorf("healthz build = %v, want version test", health["build"])
	}
	w = env.do(t, http.MethodGet, "/readyz", "", nil)
	if w.Code != http.StatusOK || !decode[map[string]any](t, w)["ready"].(bool) {
		t.Errorf("readyz = %d %s", w.Code, w.Body.String())
	}
}

func TestAPI_ImportReload(t *testing.T) {
	env := newTestEnv(t)
	if w := env.do(t, http.MethodPost, "/api/import/reload", "alice", nil); w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", w.Code)
	}
	select {
	case <-env.trigger:
	default:
		t.Error("reload was not queued")
	}
}

func itoa(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
