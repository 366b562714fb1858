package editsync

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"transfer-cards-backend/models"
)

func TestApplyServerMergesEdits(t *testing.T) {
	store := NewCaptureStore(0)
	engine := NewEngine(store)

	store.Capture(0, "position", "Y")
	seq := engine.NextSeq()
	outcome, err := engine.ApplyServer(seq, Table{{"position": "X", "grade": "middle"}})
	require.NoError(t, err)

	require.Equal(t, "Y", outcome.Table[0]["position"])
	require.Equal(t, "middle", outcome.Table[0]["grade"])
	require.True(t, outcome.HasServerChanges)
	require.True(t, outcome.HasUserEdits)
}

func TestApplyServerDiscardsStaleResponse(t *testing.T) {
	store := NewCaptureStore(0)
	engine := NewEngine(store)

	// два запроса ушли, ответы пришли в обратном порядке
	seqOld := engine.NextSeq()
	seqNew := engine.NextSeq()

	_, err := engine.ApplyServer(seqNew, Table{{"position": "новое"}})
	require.NoError(t, err)

	_, err = engine.ApplyServer(seqOld, Table{{"position": "старое"}})
	require.True(t, errors.Is(err, models.ErrStaleResponse))

	// состояние осталось от свежего ответа
	require.Equal(t, "новое", engine.Current()[0]["position"])
}

func TestApplyServerOutcomeFlags(t *testing.T) {
	store := NewCaptureStore(0)
	engine := NewEngine(store)
	server := Table{{"position": "инженер"}}

	outcome, err := engine.ApplyServer(engine.NextSeq(), server)
	require.NoError(t, err)
	require.True(t, outcome.HasServerChanges)
	require.False(t, outcome.HasUserEdits)

	// повтор того же состояния без правок - тишина
	outcome, err = engine.ApplyServer(engine.NextSeq(), server)
	require.NoError(t, err)
	require.False(t, outcome.HasServerChanges)
	require.False(t, outcome.HasUserEdits)
}

func TestApplyServerDropsConfirmedEdits(t *testing.T) {
	store := NewCaptureStore(0)
	engine := NewEngine(store)

	store.Capture(0, "position", "инженер")
	outcome, err := engine.ApplyServer(engine.NextSeq(), Table{{"position": "инженер"}})
	require.NoError(t, err)

	// сервер подтвердил значение, правка больше не считается локальной
	require.False(t, outcome.HasUserEdits)
	require.Equal(t, 0, store.Len())
}
