// Package syncer implements the portal side of the sync protocol: one-time
// hydration from the mirror at startup, a full push after migrations, then
// best-effort per-collection pushes on every local write.
package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/acadcentral/acportal_backend/internal/collections"
	"github.com/acadcentral/acportal_backend/internal/store"
)

type State int32

const (
	StateCold State = iota
	StateHydrating
	StateMigrating
	StatePushing
	StateLive
	StateDegraded
)

func (s State) String() string {
	switch s {
	case StateCold:
		return "cold"
	case StateHydrating:
		return "hydrating"
	case StateMigrating:
		return "migrating"
	case StatePushing:
		return "pushing"
	case StateLive:
		return "live"
	case StateDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Event reports the outcome of one live push. Consumers may ignore the
// channel entirely; emission never blocks a write.
type Event struct {
	Key   string
	Count int
	Err   error
}

type Syncer struct {
	baseURL        string
	client         *http.Client
	store          *store.Store
	keys           map[string]struct{}
	hydrateTimeout time.Duration

	mu     sync.Mutex
	state  State
	events chan Event
}

func New(baseURL string, st *store.Store, hydrateTimeout time.Duration) *Syncer {
	keys := make(map[string]struct{})
	for _, k := range collections.Keys() {
		keys[k] = struct{}{}
	}
	return &Syncer{
		baseURL:        baseURL,
		client:         &http.Client{},
		store:          st,
		keys:           keys,
		hydrateTimeout: hydrateTimeout,
		state:          StateCold,
		events:         make(chan Event, 64),
	}
}

func (s *Syncer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Syncer) Events() <-chan Event { return s.events }

func (s *Syncer) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Run executes the startup protocol. The migrate callback runs against the
// local store in every outcome; the push back to the mirror and live sync
// only happen when hydration succeeded. Degraded is terminal for the process
// lifetime: the local store stays fully usable, the mirror is never retried.
func (s *Syncer) Run(ctx context.Context, migrate func()) State {
	s.setState(StateHydrating)
	hydrated := s.hydrate(ctx)

	s.setState(StateMigrating)
	migrate()

	if !hydrated {
		log.Println("syncer: mirror unavailable, running from local state only")
		s.setState(StateDegraded)
		return StateDegraded
	}

	s.setState(StatePushing)
	if err := s.pushAll(ctx); err != nil {
		log.Printf("syncer: push after migration failed: %v", err)
		s.setState(StateDegraded)
		return StateDegraded
	}

	s.store.SetOnWrite(s.livePush)
	s.setState(StateLive)
	log.Println("syncer: live sync enabled")
	return StateLive
}

// hydrate pulls the full mirror state with a bounded timeout. On success the
// mirror wins unconditionally: every synced key is overwritten. Any failure
// leaves local state untouched.
func (s *Syncer) hydrate(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, s.hydrateTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/data", nil)
	if err != nil {
		return false
	}
	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("syncer: hydration fetch failed: %v", err)
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("syncer: hydration got status %d", resp.StatusCode)
		return false
	}

	var data map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		log.Printf("syncer: hydration decode failed: %v", err)
		return false
	}
	for key, value := range data {
		if _, ok := s.keys[key]; ok {
			s.store.Restore(key, value)
		}
	}
	log.Println("syncer: hydrated local store from mirror")
	return true
}

// pushAll sends the post-migration snapshot of every synced collection in one
// batched replace call.
func (s *Syncer) pushAll(ctx context.Context) error {
	snapshot := s.store.Snapshot(collections.Keys())
	body, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/sync-all", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sync-all returned status %d", resp.StatusCode)
	}
	return nil
}

// livePush mirrors one collection write, asynchronously. The local write has
// already succeeded; the outcome is reported as an event and otherwise
// swallowed. There is no retry queue: the next write of the same collection
// re-sends the full contents anyway.
func (s *Syncer) livePush(key string, value []byte) {
	if _, ok := s.keys[key]; !ok {
		return
	}
	go func() {
		count, err := s.postSync(key, value)
		if err != nil {
			log.Printf("syncer: live push of %s failed: %v", key, err)
		}
		select {
		case s.events <- Event{Key: key, Count: count, Err: err}:
		default:
		}
	}()
}

func (s *Syncer) postSync(key string, value []byte) (int, error) {
	body, err := json.Marshal(map[string]string{"key": key, "value": string(value)})
	if err != nil {
		return 0, err
	}
	resp, err := s.client.Post(s.baseURL+"/api/sync", "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return 0, fmt.Errorf("sync returned status %d", resp.StatusCode)
	}
	var out struct {
		OK    bool `json:"ok"`
		Count int  `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, err
	}
	return out.Count, nil
}
