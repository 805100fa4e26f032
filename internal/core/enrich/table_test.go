package enrich

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadTableRejectsUnknownFormat(t *testing.T) {
	_, err := ReadTable("locations.ods", "")
	require.Error(t, err)
	require.Contains(t, err.Error(), ".ods")

	err = WriteTable(&Table{Header: []string{"a"}}, "locations.txt", "")
	require.Error(t, err)
}

func TestReadTableNormalizesCells(t *testing.T) {
	in := writeCSVFixture(t, "Name , Address\n\" HQ \",\"  Paris \"\nshort\n")

	table, err := ReadTable(in, "")
	require.NoError(t, err)
	require.Equal(t, []string{"Name", "Address"}, table.Header)
	require.Equal(t, []string{"HQ", "Paris"}, table.Rows[0])
	// Ragged rows are padded to the header width.
	require.Equal(t, []string{"short", ""}, table.Rows[1])
}

func TestColumnIndexIsCaseInsensitive(t *testing.T) {
	table := &Table{Header: []string{"Name", "Address"}}
	require.Equal(t, 1, table.ColumnIndex("address"))
	require.Equal(t, -1, table.ColumnIndex("missing"))
}
