package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cone387/ttask/internal/models"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, slog.New(slog.NewTextHandler(&testWriter{t}, nil)))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c, srv
}

type testWriter struct{ t *testing.T }

func (w *testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	if _, err := New("not a url", slog.Default()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := New("/relative/only", slog.Default()); err == nil {
		t.Fatal("expected error for url without host")
	}
}

func TestListTasksUnwrapsPagination(t *testing.T) {
	paginated := `{"count": 2, "next": null, "previous": null, "results": [
		{"id": 1, "title": "a", "priority": "none", "status": "todo"},
		{"id": 2, "title": "b", "priority": "high", "status": "todo"}
	]}`
	bare := `[{"id": 3, "title": "c", "priority": "none", "status": "todo"}]`

	for name, body := range map[string]string{"paginated": paginated, "bare": bare} {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(body))
			}))
			tasks, err := c.ListTasks(context.Background(), nil)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(tasks) == 0 {
				t.Fatal("no tasks decoded")
			}
		})
	}
}

func TestCreateThenList(t *testing.T) {
	var stored []models.Task
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodPost:
			var in TaskCreate
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				t.Fatalf("decode create: %v", err)
			}
			created := models.Task{
				ID:        int64(len(stored) + 1),
				Title:     in.Title,
				Priority:  models.PriorityNone,
				Status:    models.StatusTodo,
				CreatedAt: time.Now(),
			}
			stored = append(stored, created)
			json.NewEncoder(w).Encode(created)
		case http.MethodGet:
			json.NewEncoder(w).Encode(stored)
		}
	}))

	created, err := c.CreateTask(context.Background(), TaskCreate{Title: "Buy milk"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("no id assigned")
	}
	if created.Status != models.StatusTodo || created.Priority != models.PriorityNone {
		t.Fatalf("defaults not applied: %+v", created)
	}

	tasks, err := c.ListTasks(context.Background(), nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "Buy milk" {
		t.Fatalf("list after create: %+v", tasks)
	}
}

func TestErrorMapping(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "token expired"}`))
	}))
	_, err := c.ListTasks(context.Background(), nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %v is not *Error", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Detail != "token expired" {
		t.Fatalf("got %+v", apiErr)
	}
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatal("401 should unwrap to ErrUnauthorized")
	}
}

func TestPatchSerializesZeroValues(t *testing.T) {
	var got map[string]json.RawMessage
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode patch: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 1, "title": "a", "priority": "none", "status": "todo"}`))
	}))

	// order 0 and an explicitly cleared custom group must reach the wire
	if err := c.UpdateOrder(context.Background(), 1, 0); err != nil {
		t.Fatalf("update order: %v", err)
	}
	if string(got["order"]) != "0" {
		t.Fatalf("order field %s, want 0", got["order"])
	}
	if _, ok := got["title"]; ok {
		t.Fatal("unset fields must not be sent")
	}

	if err := c.UpdateGroup(context.Background(), 1, ""); err != nil {
		t.Fatalf("update group: %v", err)
	}
	if string(got["custom_group"]) != `""` {
		t.Fatalf("custom_group field %s, want empty string", got["custom_group"])
	}
}

func TestRequestCarriesAuthAndRequestID(t *testing.T) {
	var gotAuth, gotReqID string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`[]`))
	}))
	c.SetTokens(TokenPair{Access: signedToken(t, time.Now().Add(time.Hour))})
	if _, err := c.ListTasks(context.Background(), nil); err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotAuth == "" || gotAuth[:7] != "Bearer " {
		t.Fatalf("authorization header %q", gotAuth)
	}
	if gotReqID == "" {
		t.Fatal("missing request id")
	}
}

func TestExpiredAccessTokenTriggersRefresh(t *testing.T) {
	var refreshed bool
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/token/refresh/" {
			refreshed = true
			json.NewEncoder(w).Encode(TokenPair{Access: signedToken(t, time.Now().Add(time.Hour))})
			return
		}
		w.Write([]byte(`[]`))
	}))
	c.SetTokens(TokenPair{
		Access:  signedToken(t, time.Now().Add(-time.Minute)),
		Refresh: "refresh-token",
	})
	if _, err := c.ListTasks(context.Background(), nil); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !refreshed {
		t.Fatal("expired access token should have been refreshed")
	}
	if c.Tokens().Refresh != "refresh-token" {
		t.Fatal("refresh token should be kept when the backend rotates only access")
	}
}

func TestConcurrentPersistWithExpiredToken(t *testing.T) {
	fresh := signedToken(t, time.Now().Add(time.Hour))

	var (
		mu        sync.Mutex
		refreshes int
		stale     int
	)
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/token/refresh/" {
			mu.Lock()
			refreshes++
			mu.Unlock()
			json.NewEncoder(w).Encode(TokenPair{Access: fresh})
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+fresh {
			mu.Lock()
			stale++
			mu.Unlock()
		}
		w.Write([]byte(`{"id": 1, "title": "a", "priority": "none", "status": "todo"}`))
	}))
	c.SetTokens(TokenPair{
		Access:  signedToken(t, time.Now().Add(-time.Minute)),
		Refresh: "refresh-token",
	})

	// a manual reorder persists one order write per task, all at once
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- c.UpdateOrder(context.Background(), int64(i+1), i)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("update order: %v", err)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if refreshes != 1 {
		t.Fatalf("token refreshed %d times, want exactly once", refreshes)
	}
	if stale != 0 {
		t.Fatalf("%d requests carried the expired token", stale)
	}
}

func TestGetTask(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tasks/7/" || r.Method != http.MethodGet {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 7, "title": "a", "priority": "high", "status": "todo"}`))
	}))
	got, err := c.GetTask(context.Background(), 7)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.ID != 7 || got.Priority != models.PriorityHigh {
		t.Fatalf("got %+v", got)
	}
}

func TestProjectUpdateAndDelete(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]json.RawMessage
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotBody = nil
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Write([]byte(`{"id": 5, "name": "Renamed"}`))
	}))

	p, err := c.UpdateProject(context.Background(), 5, ProjectInput{Name: "Renamed"})
	if err != nil {
		t.Fatalf("update project: %v", err)
	}
	if p.Name != "Renamed" || gotMethod != http.MethodPatch || gotPath != "/projects/5/" {
		t.Fatalf("update: %s %s -> %+v", gotMethod, gotPath, p)
	}
	if string(gotBody["name"]) != `"Renamed"` {
		t.Fatalf("body %v", gotBody)
	}

	if err := c.DeleteProject(context.Background(), 5); err != nil {
		t.Fatalf("delete project: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/projects/5/" {
		t.Fatalf("delete: %s %s", gotMethod, gotPath)
	}
}

func TestTagLifecycle(t *testing.T) {
	var gotMethod, gotPath string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodPost:
			w.Write([]byte(`{"id": 3, "name": "urgent", "color": "#ff0000"}`))
		case http.MethodPatch:
			w.Write([]byte(`{"id": 3, "name": "later"}`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	}))

	created, err := c.CreateTag(context.Background(), TagInput{Name: "urgent", Color: "#ff0000"})
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}
	if created.ID != 3 || gotPath != "/tags/" {
		t.Fatalf("create: %s -> %+v", gotPath, created)
	}

	renamed, err := c.UpdateTag(context.Background(), 3, TagInput{Name: "later"})
	if err != nil {
		t.Fatalf("update tag: %v", err)
	}
	if renamed.Name != "later" || gotMethod != http.MethodPatch || gotPath != "/tags/3/" {
		t.Fatalf("update: %s %s -> %+v", gotMethod, gotPath, renamed)
	}

	if err := c.DeleteTag(context.Background(), 3); err != nil {
		t.Fatalf("delete tag: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/tags/3/" {
		t.Fatalf("delete: %s %s", gotMethod, gotPath)
	}
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}
