package history

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu      sync.Mutex
	records map[string][]Record
	err     error
	block   chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string][]Record)}
}

func (s *fakeStore) Append(_ context.Context, username string, rec Record) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records[username] = append(s.records[username], rec)
	return nil
}

func (s *fakeStore) Read(_ context.Context, username string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.records[username], nil
}

func (s *fakeStore) get(username string) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.records[username]...)
}

func TestRecorder_AppendPersistsThroughWorker(t *testing.T) {
	store := newFakeStore()
	rec := NewRecorder(store, 8, slog.Default())
	go rec.Run(context.Background())

	rec.Append("alice", Record{Opponent: "bob", Result: "win", Winner: "alice"})
	rec.Append("bob", Record{Opponent: "alice", Result: "loss", Winner: "alice"})
	rec.Close()

	require.Len(t, store.get("alice"), 1)
	require.Len(t, store.get("bob"), 1)
	assert.Equal(t, "win", store.get("alice")[0].Result)
	assert.Equal(t, "loss", store.get("bob")[0].Result)
}

func TestRecorder_AppendNeverBlocksOnFullQueue(t *testing.T) {
	store := newFakeStore()
	store.block = make(chan struct{})
	rec := NewRecorder(store, 1, slog.Default())
	go rec.Run(context.Background())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			rec.Append("alice", Record{Result: "draw"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Append blocked on a full queue")
	}

	close(store.block)
	rec.Close()
}

func TestRecorder_StoreFailureIsSwallowed(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("redis gone")
	rec := NewRecorder(store, 8, slog.Default())
	go rec.Run(context.Background())

	// Must not panic or block; the failure is logged and dropped.
	rec.Append("alice", Record{Result: "win"})
	rec.Close()

	assert.Empty(t, store.get("alice"))
}

func TestRecorder_ReadDelegatesToStore(t *testing.T) {
	store := newFakeStore()
	store.records["alice"] = []Record{{Opponent: "bob", Result: "draw"}}
	rec := NewRecorder(store, 1, slog.Default())

	records, err := rec.Read(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "bob", records[0].Opponent)
}
