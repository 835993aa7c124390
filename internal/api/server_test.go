package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pbaille/localconnect/internal/dialer"
	"github.com/pbaille/localconnect/internal/directory"
	"github.com/pbaille/localconnect/internal/domain"
	"github.com/pbaille/localconnect/internal/events"
	"github.com/pbaille/localconnect/internal/i18n"
	"github.com/pbaille/localconnect/internal/pass"
	"github.com/pbaille/localconnect/internal/profile"
	"github.com/pbaille/localconnect/internal/session"
	"github.com/pbaille/localconnect/internal/view"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type failingSource struct{}

func (failingSource) Entries(context.Context) ([]domain.Entry, error) {
	return nil, fmt.Errorf("%w: disk gone", domain.ErrDataUnavailable)
}

func (failingSource) Categories(context.Context) ([]domain.Category, error) {
	return nil, domain.ErrDataUnavailable
}

type fixture struct {
	server *Server
	dialed []string
	dialFn func(string) error
}

func newFixture(t *testing.T, src directory.Source) *fixture {
	t.Helper()
	f := &fixture{}
	d := dialer.Func(func(ctx context.Context, number string) error {
		f.dialed = append(f.dialed, number)
		if f.dialFn != nil {
			return f.dialFn(number)
		}
		return nil
	})
	tr, err := i18n.New("en")
	require.NoError(t, err)

	f.server = New(Deps{
		Source:     src,
		Sessions:   session.NewManager([]string{"1", "3", "8"}, []string{"2", "5", "1"}, nil),
		Caller:     view.NewCaller(d, nil),
		Passes:     pass.NewGenerator(t.TempDir(), 128, nil),
		Profile:    profile.NewStore(profile.Profile{Name: "John Doe"}),
		Events:     events.NewStore(events.SeedEvents(), nil),
		Translator: tr,
	})
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (f *fixture) newSession(t *testing.T) string {
	t.Helper()
	rec, env := f.do(t, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID    string            `json:"id"`
		State domain.QueryState `json:"state"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(t, created.ID)
	return created.ID
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func resultIDs(p view.Projection) []string {
	ids := make([]string, len(p.Items))
	for i, it := range p.Items {
		ids[i] = it.ID
	}
	return ids
}

func TestHealth(t *testing.T) {
	f := newFixture(t, directory.NewStatic())
	rec, env := f.do(t, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestListCategories(t *testing.T) {
	f := newFixture(t, directory.NewStatic())
	rec, env := f.do(t, http.MethodGet, "/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	counts := decode[[]directory.CategoryCount](t, env.Data)
	require.Len(t, counts, 7)
	assert.Equal(t, "Doctor", counts[0].DisplayName)
	assert.Equal(t, 2, counts[0].Count)
}

func TestSourceFailure(t *testing.T) {
	f := newFixture(t, failingSource{})
	rec, env := f.do(t, http.MethodGet, "/api/v1/categories", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "error", env.Status)
}

func TestSessionLifecycle(t *testing.T) {
	f := newFixture(t, directory.NewStatic())
	id := f.newSession(t)

	rec, env := f.do(t, http.MethodGet, "/api/v1/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[domain.QueryState](t, env.Data)
	assert.Equal(t, domain.SortName, st.SortKey)
	assert.Equal(t, domain.ViewGrid, st.ViewMode)
	assert.Equal(t, []string{"2", "5", "1"}, st.RecentCallIDs)

	rec, _ = f.do(t, http.MethodDelete, "/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategoryView(t *testing.T) {
	f := newFixture(t, directory.NewStatic())
	id := f.newSession(t)

	rec, env := f.do(t, http.MethodPatch, "/api/v1/sessions/"+id, map[string]any{
		"category": "Doctor",
		"sort":     "rating",
		"view":     "list",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[domain.QueryState](t, env.Data)
	assert.Equal(t, "Doctor", st.SelectedCategory)

	rec, env = f.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/view", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	v := decode[ViewResponse](t, env.Data)
	assert.Equal(t, "category", v.Kind)
	require.NotNil(t, v.Category)
	assert.Equal(t, "doctor", v.Category.ID)
	assert.Equal(t, 2, v.TotalCount)
	assert.Equal(t, 2, v.AvailableCount)
	assert.Equal(t, []string{"8", "1"}, resultIDs(v.Projection))
	assert.Equal(t, 1, v.Projection.Columns)
	assert.Equal(t, "+91 21098 76543", v.Projection.Items[0].ContactNumber)
	assert.Equal(t, "Sorted by Rating", v.Labels["sortedBy"])
	assert.Equal(t, "Doctor Professionals", v.Labels["title"])
}

func TestCategoryViewEmpty(t *testing.T) {
	f := newFixture(t, directory.NewStatic())
	id := f.newSession(t)

	f.do(t, http.MethodPatch, "/api/v1/sessions/"+id, map[string]any{"category": "Doctor"})
	f.do(t, http.MethodPatch, "/api/v1/sessions/"+id, map[string]any{"search": "xyz"})

	_, env := f.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/view", nil)
	v := decode[ViewResponse](t, env.Data)
	assert.Empty(t, v.Projection.Items)
	require.NotNil(t, v.Projection.Empty)
	assert.Equal(t, "No doctors found", v.Labels["emptyTitle"])
	assert.Equal(t, "Try adjusting your search terms", v.Labels["emptyMessage"])
}

func TestGlobalView(t *testing.T) {
	f := newFixture(t, directory.NewStatic())
	id := f.newSession(t)

	_, env := f.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/view", nil)
	v := decode[ViewResponse](t, env.Data)
	assert.Equal(t, "global", v.Kind)
	assert.Empty(t, v.Projection.Items)
	assert.Nil(t, v.Projection.Empty, "home screen shows categories, not an empty state")
	assert.NotContains(t, v.Labels, "emptyTitle")
	assert.Len(t, v.Categories, 7)

	f.do(t, http.MethodPatch, "/api/v1/sessions/"+id, map[string]any{"search": "law"})
	_, env = f.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/view", nil)
	v = decode[ViewResponse](t, env.Data)
	assert.Equal(t, []string{"2", "9"}, resultIDs(v.Projection))
	assert.Equal(t, domain.ViewGrid, v.Projection.Mode)
	assert.Equal(t, 1, v.AvailableCount)
	assert.Empty(t, v.Categories)
}

func TestUpdateSessionInvalid(t *testing.T) {
	f := newFixture(t, directory.NewStatic())
	id := f.newSession(t)

	rec, env := f.do(t, http.MethodPatch, "/api/v1/sessions/"+id, map[string]any{
		"search": "chef",
		"sort":   "popularity",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", env.Status)

	_, env = f.do(t, http.MethodGet, "/api/v1/sessions/"+id, nil)
	st := decode[domain.QueryState](t, env.Data)
	assert.Empty(t, st.SearchText, "rejected update leaves state untouched")
	assert.Equal(t, domain.SortName, st.SortKey)

	rec, _ = f.do(t, http.MethodPatch, "/api/v1/sessions/"+id, map[string]any{"view": "carousel"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/sessions/"+id, bytes.NewBufferString("{"))
	raw := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestToggleFavorite(t *testing.T) {
	f := newFixture(t, directory.NewStatic())
	id := f.newSession(t)

	_, env := f.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/favorites/3", nil)
	st := decode[domain.QueryState](t, env.Data)
	assert.False(t, st.FavoriteIDs.Has("3"))

	_, env = f.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/favorites/3", nil)
	st = decode[domain.QueryState](t, env.Data)
	assert.True(t, st.FavoriteIDs.Has("3"))
}

func TestCall(t *testing.T) {
	f := newFixture(t, directory.NewStatic())
	id := f.newSession(t)

	rec, env := f.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/calls/9", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Connecting to Adv. Deepak Gupta", env.Message)
	st := decode[domain.QueryState](t, env.Data)
	assert.Equal(t, []string{"9", "2", "5", "1"}, st.RecentCallIDs)
	assert.Equal(t, []string{"+91 32109 87654"}, f.dialed)
}

func TestCallBusy(t *testing.T) {
	f := newFixture(t, directory.NewStatic())
	id := f.newSession(t)

	rec, _ := f.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/calls/7", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, f.dialed)

	_, env := f.do(t, http.MethodGet, "/api/v1/sessions/"+id, nil)
	st := decode[domain.QueryState](t, env.Data)
	assert.Equal(t, []string{"2", "5", "1"}, st.RecentCallIDs)
}

func TestCallDialFailureKeepsRecency(t *testing.T) {
	f := newFixture(t, directory.NewStatic())
	f.dialFn = func(string) error { return errors.New("no signal") }
	id := f.newSession(t)

	rec, _ := f.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/calls/3", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	_, env := f.do(t, http.MethodGet, "/api/v1/sessions/"+id, nil)
	st := decode[domain.QueryState](t, env.Data)
	assert.Equal(t, []string{"3", "2", "5", "1"}, st.RecentCallIDs)
}

func TestCallDoesNotHoldSessionsWhileDialing(t *testing.T) {
	f := newFixture(t, directory.NewStatic())
	dialing := make(chan struct{})
	release := make(chan struct{})
	f.dialFn = func(string) error {
		close(dialing)
		<-release
		return nil
	}
	caller := f.newSession(t)
	other := f.newSession(t)

	done := make(chan int, 1)
	go func() {
		rec := httptest.NewRecorder()
		f.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+caller+"/calls/1", nil))
		done <- rec.Code
	}()
	<-dialing

	got := make(chan error, 1)
	go func() {
		_, err := f.server.Sessions.Get(other)
		got <- err
	}()
	select {
	case err := <-got:
		assert.NoError(t, err)
	case <-time.After(200 * time.Millisecond):
		t.Error("another session is blocked while a call dials")
	}

	st, err := f.server.Sessions.Get(caller)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "5"}, st.RecentCallIDs, "call is recorded before the dial completes")

	close(release)
	assert.Equal(t, http.StatusOK, <-done)
}

func TestCallUnknown(t *testing.T) {
	f := newFixture(t, directory.NewStatic())
	id := f.newSession(t)

	rec, _ := f.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/calls/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = f.do(t, http.MethodPost, "/api/v1/sessions/nope/calls/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePass(t *testing.T) {
	f := newFixture(t, directory.NewStatic())

	req := pass.Request{
		PassType:    pass.VIP,
		VisitorName: "Meera",
		Purpose:     "Dinner",
		FromDate:    "2026-10-18",
		ToDate:      "2026-10-18",
		FromTime:    "19:00",
		ToTime:      "23:00",
		RecordID:    "rec-42",
	}
	rec, env := f.do(t, http.MethodPost, "/api/v1/passes?save=true", req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var got struct {
		Title   string `json:"title"`
		Payload string `json:"payload"`
		Image   string `json:"image"`
		Saved   string `json:"saved"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "VIP PASS", got.Title)
	assert.Equal(t, "rec-42", got.Payload)
	assert.NotEmpty(t, got.Image)
	assert.FileExists(t, got.Saved)

	rec, _ = f.do(t, http.MethodPost, "/api/v1/passes", pass.Request{VisitorName: "Meera"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfile(t *testing.T) {
	f := newFixture(t, directory.NewStatic())

	_, env := f.do(t, http.MethodPost, "/api/v1/login", nil)
	got := decode[map[string]any](t, env.Data)
	assert.Equal(t, "Hello, John Doe", got["greeting"])
	assert.Equal(t, true, got["logged_in"])

	name := "Asha"
	_, env = f.do(t, http.MethodPatch, "/api/v1/profile", profile.Patch{Name: &name})
	p := decode[profile.Profile](t, env.Data)
	assert.Equal(t, "Asha", p.Name)

	_, env = f.do(t, http.MethodPost, "/api/v1/logout", nil)
	got = decode[map[string]any](t, env.Data)
	assert.Equal(t, false, got["logged_in"])
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t, directory.NewStatic())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/sessions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRunShutdown(t *testing.T) {
	f := newFixture(t, directory.NewStatic())

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.server.Run(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/api/v1/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	http.DefaultClient.CloseIdleConnections()
}

func TestListEvents(t *testing.T) {
	f := newFixture(t, directory.NewStatic())

	rec, env := f.do(t, http.MethodGet, "/api/v1/events?search=garden", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	board := decode[EventsResponse](t, env.Data)
	assert.Equal(t, 3, board.Total)
	assert.Len(t, board.Special, 2)
	assert.Len(t, board.Regular, 1)

	_, env = f.do(t, http.MethodGet, "/api/v1/events?category=regular&search=fireworks", nil)
	board = decode[EventsResponse](t, env.Data)
	assert.Zero(t, board.Total)
	assert.Equal(t, "No events found", board.Empty)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/events?category=sports", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddEvent(t *testing.T) {
	f := newFixture(t, directory.NewStatic())

	draft := events.Draft{
		Title:       "Navratri Garba",
		Date:        time.Now().AddDate(0, 0, 2).Format("2006-01-02"),
		StartTime:   "7:00 PM",
		EndTime:     "11:00 PM",
		Location:    "Clubhouse",
		Description: "Garba and dandiya night",
		Organizer:   "Cultural Committee",
	}
	rec, env := f.do(t, http.MethodPost, "/api/v1/events", draft)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Event created successfully!", env.Message)
	e := decode[events.Event](t, env.Data)
	assert.Equal(t, "13", e.ID)
	assert.Equal(t, events.Regular, e.Category)

	draft.Date = "2020-01-01"
	rec, _ = f.do(t, http.MethodPost, "/api/v1/events", draft)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = f.do(t, http.MethodPost, "/api/v1/events/13/interest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "You've expressed interest in: Navratri Garba", env.Message)

	rec, _ = f.do(t, http.MethodPost, "/api/v1/events/99/interest", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
