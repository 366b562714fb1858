package editsync

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	baseworker "transfer-cards-backend/lib/utils/base-worker"
	"transfer-cards-backend/models"
)

// DefaultPollInterval - период опроса авторитетной таблицы
const DefaultPollInterval = 3 * time.Second

type FetchFunc func(ctx context.Context) (Table, error)

type SaveFunc func(ctx context.Context, table Table) error

type NotifyFunc func(outcome Outcome)

type SessionConfig struct {
	Fetch        FetchFunc
	Save         SaveFunc
	Notify       NotifyFunc
	PollInterval time.Duration
	Debounce     time.Duration
}

// Session - сеанс совместного редактирования таблицы одной карты.
// Держит цикл опроса, накопитель правок и движок слияния.
type Session struct {
	fetch  FetchFunc
	save   SaveFunc
	notify NotifyFunc
	store  *CaptureStore
	engine *Engine
	worker *baseworker.BaseImpl

	mu     sync.Mutex
	closed bool
	cancel context.CancelFunc
}

func NewSession(cfg SessionConfig) *Session {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	store := NewCaptureStore(cfg.Debounce)
	return &Session{
		fetch:  cfg.Fetch,
		save:   cfg.Save,
		notify: cfg.Notify,
		store:  store,
		engine: NewEngine(store),
		worker: baseworker.NewInstance("edit-sync", interval, interval),
	}
}

// Run запускает цикл опроса и блокируется до Close или отмены контекста
func (s *Session) Run(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()
	s.worker.Run(ctx, s.poll)
}

func (s *Session) poll(ctx context.Context) {
	seq := s.engine.NextSeq()
	server, err := s.fetch(ctx)
	if err != nil {
		s.worker.GetLogger().WithError(err).Warn("ошибка опроса таблицы карты")
		return
	}
	if s.isClosed() {
		return
	}
	outcome, err := s.engine.ApplyServer(seq, server)
	if err != nil {
		if errors.Is(err, models.ErrStaleResponse) {
			s.worker.GetLogger().WithField("seq", seq).Debug("ответ опроса отброшен как устаревший")
			return
		}
		s.worker.GetLogger().WithError(err).Warn("ошибка применения ответа опроса")
		return
	}
	if s.notify != nil {
		s.notify(outcome)
	}
}

// Edit фиксирует локальную правку ячейки
func (s *Session) Edit(row int, field string, value interface{}) {
	if s.isClosed() {
		return
	}
	s.store.Capture(row, field, value)
}

// Save отправляет текущую таблицу с правками на сервер.
// Для закрытого сеанса сохранение превращается в no-op: правки уже
// сброшены и отправлять нечего.
func (s *Session) Save(ctx context.Context) error {
	if s.isClosed() {
		return nil
	}
	table, saved := s.engine.CurrentWithEdits()
	if err := s.save(ctx, table); err != nil {
		return err
	}
	if !s.isClosed() {
		// сбрасываются только правки, вошедшие в отправленный снимок,
		// набранное во время запроса остается в накопителе
		s.store.DropSaved(saved)
	}
	return nil
}

// Close останавливает опрос и сбрасывает накопленные правки
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	s.store.Clear()
	log.Debug("сеанс редактирования закрыт")
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
