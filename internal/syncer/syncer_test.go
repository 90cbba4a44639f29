package syncer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/acadcentral/acportal_backend/internal/collections"
	"github.com/acadcentral/acportal_backend/internal/store"
)

type mirrorStub struct {
	mu          sync.Mutex
	syncAllBody map[string]json.RawMessage
	syncCalls   []map[string]string

	server *httptest.Server
}

func newMirrorStub(t *testing.T, data string) *mirrorStub {
	t.Helper()
	stub := &mirrorStub{}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/data":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(data))
		case "/api/sync-all":
			stub.mu.Lock()
			json.NewDecoder(r.Body).Decode(&stub.syncAllBody)
			stub.mu.Unlock()
			w.Write([]byte(`{"ok":true,"total":0}`))
		case "/api/sync":
			var req map[string]string
			json.NewDecoder(r.Body).Decode(&req)
			stub.mu.Lock()
			stub.syncCalls = append(stub.syncCalls, req)
			stub.mu.Unlock()
			w.Write([]byte(`{"ok":true,"count":2}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func TestRunHydratesPushesAndGoesLive(t *testing.T) {
	stub := newMirrorStub(t, `{
		"`+collections.Users+`": [{"id":"remote-1"}],
		"not_a_collection": [{"id":"x"}]
	}`)

	st, _ := store.Open("")
	st.Restore(collections.Users, []byte(`[{"id":"stale-local"}]`))

	sy := New(stub.server.URL, st, 2*time.Second)
	migrated := false
	state := sy.Run(context.Background(), func() { migrated = true })

	if state != StateLive {
		t.Fatalf("state = %s, want live", state)
	}
	if !migrated {
		t.Error("migrate callback did not run")
	}

	// Remote wins at hydration.
	raw, _ := st.Get(collections.Users)
	if string(raw) != `[{"id":"remote-1"}]` {
		t.Errorf("users after hydration = %s", raw)
	}
	if _, ok := st.Get("not_a_collection"); ok {
		t.Error("unrecognized keys must not be restored")
	}

	// The post-migration snapshot reached the mirror.
	stub.mu.Lock()
	_, pushed := stub.syncAllBody[collections.Users]
	stub.mu.Unlock()
	if !pushed {
		t.Error("sync-all payload missing users collection")
	}
}

func TestLivePushAfterWrite(t *testing.T) {
	stub := newMirrorStub(t, `{}`)
	st, _ := store.Open("")

	sy := New(stub.server.URL, st, 2*time.Second)
	if state := sy.Run(context.Background(), func() {}); state != StateLive {
		t.Fatalf("state = %s, want live", state)
	}

	st.Set(collections.Notices, []byte(`[{"id":"n1"},{"id":"n2"}]`))

	select {
	case ev := <-sy.Events():
		if ev.Key != collections.Notices || ev.Err != nil || ev.Count != 2 {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no sync event after local write")
	}

	stub.mu.Lock()
	defer stub.mu.Unlock()
	if len(stub.syncCalls) != 1 {
		t.Fatalf("sync calls = %d, want 1", len(stub.syncCalls))
	}
	call := stub.syncCalls[0]
	if call["key"] != collections.Notices || call["value"] != `[{"id":"n1"},{"id":"n2"}]` {
		t.Errorf("sync call = %v", call)
	}
}

func TestLivePushIgnoresUnsyncedKeys(t *testing.T) {
	stub := newMirrorStub(t, `{}`)
	st, _ := store.Open("")

	sy := New(stub.server.URL, st, 2*time.Second)
	sy.Run(context.Background(), func() {})

	st.Set(store.SchemaVersionKey, []byte(`3`))

	select {
	case ev := <-sy.Events():
		t.Errorf("unexpected event for unsynced key: %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestRunDegradedWhenMirrorUnreachable(t *testing.T) {
	// A server that is already closed: connection refused immediately.
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()

	st, _ := store.Open("")
	st.Restore(collections.Users, []byte(`[{"id":"local-1"}]`))

	sy := New(dead.URL, st, 500*time.Millisecond)
	migrated := false
	state := sy.Run(context.Background(), func() { migrated = true })

	if state != StateDegraded {
		t.Fatalf("state = %s, want degraded", state)
	}
	if !migrated {
		t.Error("migrations must still run against local state")
	}

	// Local state survives untouched and later writes stay local-only.
	raw, _ := st.Get(collections.Users)
	if string(raw) != `[{"id":"local-1"}]` {
		t.Errorf("users = %s", raw)
	}
	st.Set(collections.Users, []byte(`[{"id":"local-2"}]`))
	select {
	case ev := <-sy.Events():
		t.Errorf("degraded mode must not push: %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestRunDegradedOnBadHydrationPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{broken`))
	}))
	defer srv.Close()

	st, _ := store.Open("")
	sy := New(srv.URL, st, time.Second)
	if state := sy.Run(context.Background(), func() {}); state != StateDegraded {
		t.Errorf("state = %s, want degraded", state)
	}
}

func TestStateString(t *testing.T) {
	cases := map[State]string{
		StateCold:      "cold",
		StateHydrating: "hydrating",
		StateMigrating: "migrating",
		StatePushing:   "pushing",
		StateLive:      "live",
		StateDegraded:  "degraded",
		State(99):      "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("String(%d) = %q, want %q", state, got, want)
		}
	}
}
