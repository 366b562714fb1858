package editsync

import (
	"sync"

	"transfer-cards-backend/models"
)

// Outcome - результат применения серверного ответа
type Outcome struct {
	// таблица после наложения локальных правок
	Table Table
	// сервер прислал данные, отличающиеся от предыдущего снимка
	HasServerChanges bool
	// остались локальные правки, еще не подтвержденные сервером
	HasUserEdits bool
}

// Engine применяет ответы опроса к локальному состоянию таблицы.
// Номер выдается перед запросом, ответ с номером не новее последнего
// примененного отбрасывается: медленный ответ не должен затирать
// состояние, построенное по более свежему.
type Engine struct {
	mu       sync.Mutex
	store    *CaptureStore
	seq      uint64
	applied  uint64
	snapshot Table // последняя принятая серверная таблица
	current  Table // снимок после наложения правок
}

func NewEngine(store *CaptureStore) *Engine {
	return &Engine{
		store: store,
	}
}

// NextSeq выдает номер для очередного запроса опроса
func (e *Engine) NextSeq() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seq++
	return e.seq
}

// ApplyServer принимает серверную таблицу, полученную по номеру seq.
// Снятие снимка правок и слияние выполняются в одной критической секции,
// чтобы правка, пришедшая во время слияния, не потерялась между снимком
// и публикацией результата.
func (e *Engine) ApplyServer(seq uint64, server Table) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if seq <= e.applied {
		return Outcome{}, models.ErrStaleResponse
	}
	e.applied = seq

	hasServerChanges := !TablesEqual(e.snapshot, server)
	e.snapshot = CloneTable(server)

	e.store.DropConverged(server)
	merged := MergeTables(server, e.store.Edits())
	e.current = merged

	return Outcome{
		Table:            CloneTable(merged),
		HasServerChanges: hasServerChanges,
		HasUserEdits:     e.store.Len() > 0,
	}, nil
}

// Current возвращает последний снимок таблицы с наложенными правками
func (e *Engine) Current() Table {
	table, _ := e.CurrentWithEdits()
	return table
}

// CurrentWithEdits возвращает снимок таблицы вместе с правками, вошедшими в него
func (e *Engine) CurrentWithEdits() (Table, map[EditKey]interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	edits := e.store.Edits()
	return CloneTable(MergeTables(e.current, edits)), edits
}
