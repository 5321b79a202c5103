package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gpubook/internal/models"
)

func testBooking(id int64, gpu, startHour int) models.Booking {
	b := models.Booking{
		ID: id, Email: "a@example.com", Node: 60, GPU: gpu,
		StartDate:     time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		StartHour:     startHour,
		DurationHours: 2,
	}
	b.Finalize()
	return b
}

func TestWorkbookLayout(t *testing.T) {
	w := NewWorkbook()
	defer w.Close()

	// Rows arrive unsorted; the sheet orders them by start time.
	require.NoError(t, w.AddNodeSheet(60, []models.Booking{
		testBooking(2, 1, 14),
		testBooking(1, 2, 8),
	}))
	require.NoError(t, w.AddNodeSheet(61, nil))

	var buf bytes.Buffer
	_, err := w.WriteTo(&buf)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Node 60", "Node 61"}, f.GetSheetList())

	header, err := f.GetCellValue("Node 60", "A1")
	require.NoError(t, err)
	assert.Equal(t, "ID", header)

	// Earlier start time comes first despite higher id being inserted first.
	firstStart, err := f.GetCellValue("Node 60", "E2")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05T08:00:00", firstStart)

	secondStart, err := f.GetCellValue("Node 60", "E3")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05T14:00:00", secondStart)

	// Empty node sheet holds only the header.
	rows, err := f.GetRows("Node 61")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
