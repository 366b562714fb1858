package editsync

import (
	"reflect"
	"sync"
	"time"
)

// DefaultDebounce - окно слипания правок одной ячейки
const DefaultDebounce = 300 * time.Millisecond

type capturedEdit struct {
	value      interface{}
	capturedAt time.Time
}

// CaptureStore накапливает локальные правки между циклами опроса.
// Хранятся только расхождения с последним известным состоянием сервера:
// правка, значение которой сервер уже подтвердил, из накопителя удаляется.
// Значение ячейки обновляется сразу, а отметка времени обновляется не чаще
// окна слипания, серия быстрых нажатий считается одной правкой.
type CaptureStore struct {
	mu       sync.Mutex
	edits    map[EditKey]capturedEdit
	debounce time.Duration
	now      func() time.Time
}

func NewCaptureStore(debounce time.Duration) *CaptureStore {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &CaptureStore{
		edits:    map[EditKey]capturedEdit{},
		debounce: debounce,
		now:      time.Now,
	}
}

func (s *CaptureStore) Capture(row int, field string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := EditKey{Row: row, Field: field}
	now := s.now()
	edit, exist := s.edits[key]
	if exist && now.Sub(edit.capturedAt) < s.debounce {
		edit.value = value
		s.edits[key] = edit
		return
	}
	s.edits[key] = capturedEdit{value: value, capturedAt: now}
}

// DropConverged удаляет правки, значения которых совпали с серверными
func (s *CaptureStore) DropConverged(server Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, edit := range s.edits {
		if key.Row >= len(server) {
			continue
		}
		serverValue, exist := server[key.Row][key.Field]
		if exist && reflect.DeepEqual(edit.value, serverValue) {
			delete(s.edits, key)
		}
	}
}

// DropSaved удаляет правки, вошедшие в успешно сохраненный снимок.
// Правка, измененная после формирования снимка, остается в накопителе.
func (s *CaptureStore) DropSaved(saved map[EditKey]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, value := range saved {
		edit, exist := s.edits[key]
		if exist && reflect.DeepEqual(edit.value, value) {
			delete(s.edits, key)
		}
	}
}

// Edits возвращает снимок накопленных правок
func (s *CaptureStore) Edits() map[EditKey]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make(map[EditKey]interface{}, len(s.edits))
	for key, edit := range s.edits {
		snapshot[key] = edit.value
	}
	return snapshot
}

func (s *CaptureStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.edits)
}

func (s *CaptureStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edits = map[EditKey]capturedEdit{}
}
