package datasets_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/klauspost/compress/zip"

	"github.com/JaimeStill/veritas/internal/datasets"
	"github.com/JaimeStill/veritas/internal/images"
	"github.com/JaimeStill/veritas/pkg/lifecycle"
	"github.com/JaimeStill/veritas/pkg/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeZip builds a zip archive from entries. Names ending in "/" become
// directory entries.
func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "upload.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	slices.Sort(names)

	zw := zip.NewWriter(f)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create entry %s: %v", name, err)
		}
		if !strings.HasSuffix(name, "/") {
			if _, err := w.Write([]byte(entries[name])); err != nil {
				t.Fatalf("write entry %s: %v", name, err)
			}
		}
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close zip file: %v", err)
	}
	return path
}

func imageEntries(dir string, n int, ext string) map[string]string {
	entries := make(map[string]string, n)
	for i := range n {
		entries[fmt.Sprintf("%s/img_%03d.%s", dir, i, ext)] = fmt.Sprintf("%s-%d", dir, i)
	}
	return entries
}

func merge(maps ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}
	if len(entries) != 0 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("%s not empty: %v", dir, names)
	}
}

type memStore struct {
	mu      sync.Mutex
	rows    []images.CreateCommand
	batches []int
	counts  int
	purges  int
	failAt  int

	// training result rows per split ratio
	results       map[int]int
	purgedResults int
}

func (s *memStore) Count(_ context.Context, splitRatio int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts++
	n := 0
	for _, r := range s.rows {
		if r.SplitRatio == splitRatio {
			n++
		}
	}
	return n, nil
}

func (s *memStore) Purge(_ context.Context, splitRatio int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purges++
	var paths []string
	kept := s.rows[:0]
	for _, r := range s.rows {
		if r.SplitRatio == splitRatio {
			paths = append(paths, r.Path)
			continue
		}
		kept = append(kept, r)
	}
	s.rows = kept
	s.purgedResults += s.results[splitRatio]
	delete(s.results, splitRatio)
	return paths, nil
}

func (s *memStore) InsertBatch(_ context.Context, cmds []images.CreateCommand) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAt > 0 && len(s.batches)+1 == s.failAt {
		return 0, errors.New("insert failed")
	}
	s.batches = append(s.batches, len(cmds))
	s.rows = append(s.rows, cmds...)
	return len(cmds), nil
}

func (s *memStore) byRatio(splitRatio int) []images.CreateCommand {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []images.CreateCommand
	for _, r := range s.rows {
		if r.SplitRatio == splitRatio {
			out = append(out, r)
		}
	}
	return out
}

type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	failKey func(string) bool
}

func newMemStorage() *memStorage {
	return &memStorage{objects: make(map[string][]byte)}
}

func (m *memStorage) Start(*lifecycle.Coordinator) error { return nil }

func (m *memStorage) Upload(_ context.Context, key string, r io.Reader, _ string) error {
	if m.failKey != nil && m.failKey(key) {
		return errors.New("write failed")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memStorage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return storage.ErrNotFound
	}
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *memStorage) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok, nil
}

type fakeLocker struct {
	mu       sync.Mutex
	keys     []int64
	released int
}

func (l *fakeLocker) Lock(_ context.Context, key int64) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.keys = append(l.keys, key)
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.released++
	}, nil
}

type fakeDispatcher struct {
	mu     sync.Mutex
	ratios []int
	err    error
}

func (d *fakeDispatcher) Dispatch(_ context.Context, splitRatio int) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return "", d.err
	}
	d.ratios = append(d.ratios, splitRatio)
	return fmt.Sprintf("task-%d-%d", splitRatio, len(d.ratios)), nil
}

type fixture struct {
	store      *memStore
	storage    *memStorage
	locker     *fakeLocker
	dispatcher *fakeDispatcher
	scratch    string
	sys        datasets.System
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:      &memStore{},
		storage:    newMemStorage(),
		locker:     &fakeLocker{},
		dispatcher: &fakeDispatcher{},
		scratch:    t.TempDir(),
	}

	f.sys = datasets.New(&datasets.Runtime{
		Store:      f.store,
		Storage:    f.storage,
		Locker:     f.locker,
		Dispatcher: f.dispatcher,
		Logger:     discardLogger(),
		ScratchDir: f.scratch,
	})

	return f
}
