package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"gpubook/internal/models"
)

// Workbook builds an xlsx report of bookings, one sheet per node.
type Workbook struct {
	file         *excelize.File
	currentSheet string
	currentRow   int
}

// NewWorkbook creates an empty report workbook.
func NewWorkbook() *Workbook {
	return &Workbook{file: excelize.NewFile()}
}

var reportColumns = []string{
	"ID", "Email", "Node", "GPU", "Start", "End", "Duration (h)",
}

// AddNodeSheet adds a sheet for a node and fills it with the bookings.
func (w *Workbook) AddNodeSheet(node int, bookings []models.Booking) error {
	name := fmt.Sprintf("Node %d", node)
	if err := w.addSheet(name); err != nil {
		return err
	}
	if err := w.writeHeader(reportColumns); err != nil {
		return err
	}

	sorted := append([]models.Booking(nil), bookings...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].GPU < sorted[j].GPU
	})

	for i := range sorted {
		b := &sorted[i]
		row := []interface{}{b.ID, b.Email, b.Node, b.GPU, b.Start, b.End, b.DurationHours}
		if err := w.writeRow(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteTo serializes the workbook.
func (w *Workbook) WriteTo(out io.Writer) (int64, error) {
	return w.file.WriteTo(out)
}

// Close releases the underlying file resources.
func (w *Workbook) Close() error {
	return w.file.Close()
}

func (w *Workbook) addSheet(name string) error {
	// Sheet names are capped at 31 chars by the format.
	if len(name) > 31 {
		name = name[:31]
	}

	if w.currentSheet == "" {
		// Rename the default sheet instead of leaving an empty Sheet1.
		if err := w.file.SetSheetName("Sheet1", name); err != nil {
			return err
		}
	} else {
		if _, err := w.file.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	w.currentSheet = name
	w.currentRow = 1
	return nil
}

func (w *Workbook) writeHeader(columns []string) error {
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, w.currentRow)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.currentSheet, cell, col); err != nil {
			return err
		}
	}

	style, err := w.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, w.currentRow)
		endCell, _ := excelize.CoordinatesToCellName(len(columns), w.currentRow)
		_ = w.file.SetCellStyle(w.currentSheet, startCell, endCell, style)
	}

	w.currentRow++
	return nil
}

func (w *Workbook) writeRow(row []interface{}) error {
	for i, val := range row {
		cell, err := excelize.CoordinatesToCellName(i+1, w.currentRow)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.currentSheet, cell, val); err != nil {
			return err
		}
	}
	w.currentRow++
	return nil
}
