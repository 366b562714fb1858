package editsync

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeWithoutEditsIsIdentity(t *testing.T) {
	server := Table{
		{"position": "инженер", "grade": "middle"},
		{"position": "аналитик"},
	}
	merged := MergeTables(server, nil)
	require.True(t, TablesEqual(server, merged))
}

func TestMergeLocalEditWins(t *testing.T) {
	// сервер прислал "X", пользователь успел ввести "Y"
	server := Table{{"position": "X"}}
	merged := MergeTables(server, map[EditKey]interface{}{
		{Row: 0, Field: "position"}: "Y",
	})
	require.Equal(t, "Y", merged[0]["position"])
}

func TestMergeKeepsUntouchedServerCells(t *testing.T) {
	server := Table{{"position": "инженер", "grade": "middle"}}
	merged := MergeTables(server, map[EditKey]interface{}{
		{Row: 0, Field: "grade"}: "senior",
	})
	require.Equal(t, "инженер", merged[0]["position"])
	require.Equal(t, "senior", merged[0]["grade"])
}

func TestMergeExtendsTableForNewLocalRows(t *testing.T) {
	server := Table{{"position": "инженер"}}
	merged := MergeTables(server, map[EditKey]interface{}{
		{Row: 2, Field: "position"}: "аналитик",
	})
	require.Len(t, merged, 3)
	require.Equal(t, "аналитик", merged[2]["position"])
	require.Empty(t, merged[1])
}

func TestMergeDoesNotMutateServerTable(t *testing.T) {
	server := Table{{"position": "X"}}
	MergeTables(server, map[EditKey]interface{}{
		{Row: 0, Field: "position"}: "Y",
	})
	require.Equal(t, "X", server[0]["position"])
}

func TestTablesEqual(t *testing.T) {
	a := Table{{"position": "инженер"}}
	require.True(t, TablesEqual(a, Table{{"position": "инженер"}}))
	require.False(t, TablesEqual(a, Table{{"position": "аналитик"}}))
	require.False(t, TablesEqual(a, Table{}))
	require.False(t, TablesEqual(a, Table{{"position": "инженер", "grade": "middle"}}))
}
