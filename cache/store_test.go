package cache

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/system-graph/history"
	"gitlab.com/tinyland/lab/system-graph/metrics"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".1000.system-graph")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	s, err := NewStore(path, logger)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	original := payload{Name: "test", Count: 42}

	if err := s.Save(original); err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if raw == nil {
		t.Fatal("expected non-nil data")
	}

	var got payload
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != original {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, original)
	}
}

func TestHistoryFileRoundTrip(t *testing.T) {
	s := newTestStore(t)

	ts := time.Unix(1700000000, 0).UTC()
	h := history.New(3, []metrics.Sample{{
		Timestamp: ts,
		Mem:       metrics.MemStat{Total: 16000000, Free: 4000000},
		LoadAvg:   metrics.LoadAvgStat{Load1: 0.5, Load5: 0.25, Load15: 0.125},
		CPU:       metrics.CPUStat{Total: 123456, Idle: 100000},
		Net: metrics.NetStat{Interfaces: []metrics.IfCounters{
			{Name: "eth0", RxBytes: 1 << 40, TxBytes: 1 << 20, Time: ts},
		}},
	}})

	if err := SaveTyped(s, h.ToFile()); err != nil {
		t.Fatalf("SaveTyped: %v", err)
	}

	got, err := LoadTyped[history.File](s)
	if err != nil {
		t.Fatalf("LoadTyped: %v", err)
	}
	if got == nil {
		t.Fatal("expected a history file")
	}
	if got.Version != history.FileVersion || len(got.Samples) != 1 {
		t.Fatalf("got version %d with %d samples", got.Version, len(got.Samples))
	}

	sample := got.Samples[0]
	if !sample.Timestamp.Equal(ts) {
		t.Errorf("Timestamp = %v, want %v", sample.Timestamp, ts)
	}
	if sample.Mem.Total != 16000000 || sample.CPU.Idle != 100000 {
		t.Errorf("counters did not survive: %+v", sample)
	}
	if c, ok := sample.Net.Lookup("eth0"); !ok || c.RxBytes != 1<<40 || !c.Time.Equal(ts) {
		t.Errorf("eth0 = %+v, %v", c, ok)
	}
}

func TestMissingFileReturnsNil(t *testing.T) {
	s := newTestStore(t)

	raw, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if raw != nil {
		t.Errorf("expected nil data for missing file, got %s", string(raw))
	}

	got, err := LoadTyped[history.File](s)
	if err != nil || got != nil {
		t.Errorf("LoadTyped = %v, %v; want nil, nil", got, err)
	}
}

func TestCorruptedFileHandling(t *testing.T) {
	s := newTestStore(t)

	if err := os.WriteFile(s.Path(), []byte("{invalid json!!!"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	raw, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if raw != nil {
		t.Error("expected nil data for corrupted file")
	}

	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Error("expected corrupted file to be removed")
	}
}

func TestMismatchedTypeHandling(t *testing.T) {
	s := newTestStore(t)

	// Valid JSON in the layout of an older release: a bare list of samples.
	if err := os.WriteFile(s.Path(), []byte(`[{"Stats": {"timestamp": 1.5}}]`), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := LoadTyped[history.File](s)
	if err != nil {
		t.Fatalf("LoadTyped: %v", err)
	}
	if got != nil {
		t.Error("expected nil result for a document of another shape")
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Error("expected mismatched file to be removed")
	}
}

func TestAtomicWriteConcurrency(t *testing.T) {
	s := newTestStore(t)

	const goroutines = 20
	const iterations = 50

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for g := 0; g < goroutines; g++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				data := map[string]int{"writer": id, "iteration": i}
				if err := s.Save(data); err != nil {
					t.Errorf("goroutine %d iteration %d: Save: %v", id, i, err)
					return
				}
			}
		}(g)
	}

	wg.Wait()

	raw, err := s.Load()
	if err != nil {
		t.Fatalf("Load after concurrent writes: %v", err)
	}
	if raw == nil {
		t.Fatal("expected non-nil data after concurrent writes")
	}

	var result map[string]int
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("final value is not valid JSON: %v", err)
	}

	// No temp files are left behind.
	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only the history file, found %v", names)
	}
}

func TestAge(t *testing.T) {
	s := newTestStore(t)

	if age := s.Age(); age != 0 {
		t.Errorf("expected age=0 for missing file, got %v", age)
	}

	if err := s.Save("value"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	age := s.Age()
	if age < 0 || age > 2*time.Second {
		t.Errorf("unexpected age for freshly written file: %v", age)
	}

	past := time.Now().Add(-30 * time.Minute)
	if err := os.Chtimes(s.Path(), past, past); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	age = s.Age()
	if age < 29*time.Minute || age > 31*time.Minute {
		t.Errorf("expected age ~30m, got %v", age)
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(t)

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear on missing file: %v", err)
	}
	if err := s.Save("x"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Error("expected file to be removed")
	}
}

func TestFilePermissions(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save("secret"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(s.Path())
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		t.Errorf("expected file permissions 0600, got %04o", perm)
	}
}

func TestDirectoryPermissions(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "subdir")

	_, err := NewStore(filepath.Join(dir, "history"), nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}

	perm := info.Mode().Perm()
	if perm != 0700 {
		t.Errorf("expected directory permissions 0700, got %04o", perm)
	}
}
