package store

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

type note struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func TestSetGet(t *testing.T) {
	s, err := Open("")
	if err != nil {
		t.Fatal(err)
	}
	s.Set("k", []byte(`[1,2,3]`))
	got, ok := s.Get("k")
	if !ok || string(got) != `[1,2,3]` {
		t.Errorf("Get = %s, %v", got, ok)
	}
	if _, ok := s.Get("missing"); ok {
		t.Error("missing key should not be found")
	}
}

func TestPersistAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Set("a", []byte(`["x"]`))
	s.Set("b", []byte(`{"n":1}`))
	s.Delete("b")

	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := reopened.Get("a")
	if !ok || string(got) != `["x"]` {
		t.Errorf("reopened Get(a) = %s, %v", got, ok)
	}
	if _, ok := reopened.Get("b"); ok {
		t.Error("deleted key survived reopen")
	}
}

func TestOpenRejectsCorruptState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Error("corrupt state file should fail to open")
	}
}

func TestWriteHook(t *testing.T) {
	s, _ := Open("")

	var hookKey string
	var hookValue []byte
	s.SetOnWrite(func(key string, value []byte) {
		hookKey = key
		hookValue = value
	})

	s.Set("k", []byte(`[]`))
	if hookKey != "k" || string(hookValue) != `[]` {
		t.Errorf("hook saw %q %s", hookKey, hookValue)
	}

	// Restore is the hydration path and must stay silent.
	hookKey = ""
	s.Restore("k", []byte(`[1]`))
	if hookKey != "" {
		t.Error("Restore must not fire the write hook")
	}
}

func TestSnapshot(t *testing.T) {
	s, _ := Open("")
	s.Set("a", []byte(`[1]`))
	s.Set("b", []byte(`[2]`))

	snap := s.Snapshot([]string{"a", "missing"})
	if len(snap) != 1 || string(snap["a"]) != `[1]` {
		t.Errorf("Snapshot = %v", snap)
	}
}

func TestLoadSave(t *testing.T) {
	s, _ := Open("")

	if got := Load[note](s, "notes"); len(got) != 0 {
		t.Errorf("missing key should load empty, got %v", got)
	}

	Save(s, "notes", []note{{ID: "n1", Text: "hi"}})
	got := Load[note](s, "notes")
	want := []note{{ID: "n1", Text: "hi"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load = %v, want %v", got, want)
	}

	s.Set("notes", []byte(`{"not":"a list"}`))
	if got := Load[note](s, "notes"); len(got) != 0 {
		t.Errorf("invalid value should load empty, got %v", got)
	}

	Save(s, "notes", []note(nil))
	raw, _ := s.Get("notes")
	if string(raw) != `[]` {
		t.Errorf("nil save should store empty array, got %s", raw)
	}
}
