package editsync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestCapture(debounce time.Duration) (*CaptureStore, *time.Time) {
	store := NewCaptureStore(debounce)
	current := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }
	return store, &current
}

func TestCaptureStoresLatestValue(t *testing.T) {
	store, _ := newTestCapture(300 * time.Millisecond)

	store.Capture(0, "position", "и")
	store.Capture(0, "position", "ин")
	store.Capture(0, "position", "инженер")

	edits := store.Edits()
	require.Len(t, edits, 1)
	require.Equal(t, "инженер", edits[EditKey{Row: 0, Field: "position"}])
}

func TestCaptureCoalescesWithinDebounce(t *testing.T) {
	store, current := newTestCapture(300 * time.Millisecond)

	store.Capture(0, "position", "а")
	first := store.edits[EditKey{Row: 0, Field: "position"}].capturedAt

	// серия внутри окна не двигает отметку времени
	*current = current.Add(100 * time.Millisecond)
	store.Capture(0, "position", "аб")
	require.Equal(t, first, store.edits[EditKey{Row: 0, Field: "position"}].capturedAt)

	// правка после окна открывает новую серию
	*current = current.Add(300 * time.Millisecond)
	store.Capture(0, "position", "абв")
	require.Equal(t, *current, store.edits[EditKey{Row: 0, Field: "position"}].capturedAt)
	require.Equal(t, "абв", store.edits[EditKey{Row: 0, Field: "position"}].value)
}

func TestDropConvergedRemovesConfirmedEdits(t *testing.T) {
	store, _ := newTestCapture(300 * time.Millisecond)

	store.Capture(0, "position", "инженер")
	store.Capture(1, "grade", "senior")

	// сервер подтвердил только первую правку
	store.DropConverged(Table{
		{"position": "инженер"},
		{"grade": "middle"},
	})

	edits := store.Edits()
	require.Len(t, edits, 1)
	require.Equal(t, "senior", edits[EditKey{Row: 1, Field: "grade"}])
}

func TestDropConvergedKeepsEditsBeyondServerTable(t *testing.T) {
	store, _ := newTestCapture(300 * time.Millisecond)

	store.Capture(5, "position", "инженер")
	store.DropConverged(Table{{"position": "инженер"}})

	require.Equal(t, 1, store.Len())
}

func TestDropSavedKeepsChangedAndUnsavedEdits(t *testing.T) {
	store, _ := newTestCapture(300 * time.Millisecond)

	store.Capture(0, "position", "инженер")
	store.Capture(1, "comment", "проверить")
	saved := store.Edits()

	// после снимка значение изменилось, появилась новая правка
	store.Capture(0, "position", "инженер-механик")
	store.Capture(2, "status", "готово")

	store.DropSaved(saved)

	edits := store.Edits()
	require.Len(t, edits, 2)
	require.Equal(t, "инженер-механик", edits[EditKey{Row: 0, Field: "position"}])
	require.Equal(t, "готово", edits[EditKey{Row: 2, Field: "status"}])
}

func TestClear(t *testing.T) {
	store, _ := newTestCapture(300 * time.Millisecond)

	store.Capture(0, "position", "инженер")
	store.Clear()
	require.Equal(t, 0, store.Len())
}
