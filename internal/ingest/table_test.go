package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"health-coverage-pipeline/internal/model"
)

func TestReadCSVCleansHeaders(t *testing.T) {
	data := `" Country ",TIME_PERIOD, OBS_VALUE
Ghana,2021,60.5
Chad,2020,30`

	table, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"Country", "TIME_PERIOD", "OBS_VALUE"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Ghana", table.Rows[0][0])
}

func TestReadCSVRaggedRows(t *testing.T) {
	data := `Country,Year,Births
Ghana,2022,900
Chad,2022`

	table, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)

	// Short rows read back as empty cells, not panics.
	assert.Equal(t, "", table.Cell(table.Rows[1], 2))
	assert.Equal(t, "900", table.Cell(table.Rows[0], 2))
}

func TestCellOutOfRange(t *testing.T) {
	table := &Table{}
	row := []string{"a", "b"}

	assert.Equal(t, "", table.Cell(row, -1))
	assert.Equal(t, "", table.Cell(row, 2))
	assert.Equal(t, "b", table.Cell(row, 1))
}

func TestReadSourceUnknownType(t *testing.T) {
	_, err := ReadSource(model.SourceSpec{Path: "data.parquet"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown source type")
}

func TestReadSourceMissingCSVFile(t *testing.T) {
	_, err := ReadSource(model.SourceSpec{Path: "does-not-exist.csv"})
	assert.Error(t, err)
}
