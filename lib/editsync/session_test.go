package editsync

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu    sync.Mutex
	table Table
	saved []Table
}

func (b *fakeBackend) fetch(_ context.Context) (Table, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return CloneTable(b.table), nil
}

func (b *fakeBackend) save(_ context.Context, table Table) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.saved = append(b.saved, CloneTable(table))
	b.table = CloneTable(table)
	return nil
}

func (b *fakeBackend) savedCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.saved)
}

func newTestSession(backend *fakeBackend, notify NotifyFunc) *Session {
	return NewSession(SessionConfig{
		Fetch:        backend.fetch,
		Save:         backend.save,
		Notify:       notify,
		PollInterval: 10 * time.Millisecond,
	})
}

func TestSessionPollAppliesServerState(t *testing.T) {
	backend := &fakeBackend{table: Table{{"position": "инженер"}}}
	outcomes := make(chan Outcome, 10)
	session := newTestSession(backend, func(outcome Outcome) {
		outcomes <- outcome
	})
	defer session.Close()

	go session.Run(context.Background())

	select {
	case outcome := <-outcomes:
		require.True(t, outcome.HasServerChanges)
		require.Equal(t, "инженер", outcome.Table[0]["position"])
	case <-time.After(time.Second):
		t.Fatal("уведомление опроса не пришло")
	}
}

func TestSessionEditSurvivesPoll(t *testing.T) {
	backend := &fakeBackend{table: Table{{"position": "X"}}}
	outcomes := make(chan Outcome, 10)
	session := newTestSession(backend, func(outcome Outcome) {
		outcomes <- outcome
	})
	defer session.Close()

	session.Edit(0, "position", "Y")
	go session.Run(context.Background())

	select {
	case outcome := <-outcomes:
		require.Equal(t, "Y", outcome.Table[0]["position"])
		require.True(t, outcome.HasUserEdits)
	case <-time.After(time.Second):
		t.Fatal("уведомление опроса не пришло")
	}
}

func TestSessionSaveSendsMergedTable(t *testing.T) {
	backend := &fakeBackend{table: Table{{"position": "X"}}}
	session := newTestSession(backend, nil)
	defer session.Close()

	seq := session.engine.NextSeq()
	_, err := session.engine.ApplyServer(seq, backend.table)
	require.NoError(t, err)

	session.Edit(0, "position", "Y")
	require.NoError(t, session.Save(context.Background()))

	require.Equal(t, 1, backend.savedCount())
	require.Equal(t, "Y", backend.saved[0][0]["position"])
	// после успешного сохранения правки сброшены
	require.Equal(t, 0, session.store.Len())
}

func TestSessionSaveKeepsEditsTypedDuringSave(t *testing.T) {
	backend := &fakeBackend{table: Table{{"position": "X"}}}
	var session *Session
	session = NewSession(SessionConfig{
		Fetch: backend.fetch,
		Save: func(ctx context.Context, table Table) error {
			// пользователь продолжает набирать, пока запрос в полете
			session.Edit(0, "position", "Z")
			session.Edit(0, "comment", "срочно")
			return backend.save(ctx, table)
		},
	})
	defer session.Close()

	seq := session.engine.NextSeq()
	_, err := session.engine.ApplyServer(seq, backend.table)
	require.NoError(t, err)

	session.Edit(0, "position", "Y")
	require.NoError(t, session.Save(context.Background()))

	require.Equal(t, 1, backend.savedCount())
	require.Equal(t, "Y", backend.saved[0][0]["position"])

	// правки, не вошедшие в отправленный снимок, сохранение переживают
	edits := session.store.Edits()
	require.Equal(t, "Z", edits[EditKey{Row: 0, Field: "position"}])
	require.Equal(t, "срочно", edits[EditKey{Row: 0, Field: "comment"}])
	require.Equal(t, "Z", session.engine.Current()[0]["position"])
}

func TestSessionCloseStopsWork(t *testing.T) {
	backend := &fakeBackend{table: Table{{"position": "X"}}}
	session := newTestSession(backend, nil)

	session.Edit(0, "position", "Y")
	session.Close()

	// сеанс закрыт: правки сброшены, операции превращаются в no-op
	require.Equal(t, 0, session.store.Len())
	session.Edit(0, "position", "Z")
	require.Equal(t, 0, session.store.Len())
	require.NoError(t, session.Save(context.Background()))
	require.Equal(t, 0, backend.savedCount())

	done := make(chan struct{})
	go func() {
		session.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run закрытого сеанса должен завершаться сразу")
	}
}
