package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// GridCell is one block placed on the weekly timetable.
type GridCell struct {
	Column   int
	StartRow int
	EndRow   int
	Title    string
	Subtitle string
}

// Grid describes a weekly timetable: fixed columns (days) against numbered
// rows (hours), with cells spanning row ranges.
type Grid struct {
	Title    string
	Columns  []string
	FirstRow int
	LastRow  int
	RowLabel func(row int) string
	Cells    []GridCell
}

// PDFExporter renders a weekly timetable grid in landscape A4.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

const (
	gridLeft     = 10.0
	gridTop      = 28.0
	hourColWidth = 16.0
	rowHeight    = 13.5
)

// RenderGrid draws the timetable. Every row between FirstRow and LastRow
// gets a line even when empty, so the day keeps its shape.
func (e *PDFExporter) RenderGrid(grid Grid) ([]byte, error) {
	if len(grid.Columns) == 0 {
		return nil, fmt.Errorf("grid requires at least one column")
	}
	if grid.LastRow <= grid.FirstRow {
		return nil, fmt.Errorf("grid row range %d..%d is empty", grid.FirstRow, grid.LastRow)
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(gridLeft, 15, gridLeft)
	pdf.AddPage()

	if grid.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, grid.Title, "", 1, "C", false, 0, "")
	}

	pageWidth, pageHeight, _ := pdf.PageSize(1)
	colWidth := (pageWidth - 2*gridLeft - hourColWidth) / float64(len(grid.Columns))
	rows := grid.LastRow - grid.FirstRow
	rowH := rowHeight
	if maxH := (pageHeight - gridTop - 12) / float64(rows); maxH < rowH {
		rowH = maxH
	}

	// header row
	pdf.SetFont("Arial", "B", 9)
	pdf.SetXY(gridLeft, gridTop-8)
	pdf.CellFormat(hourColWidth, 8, "", "1", 0, "C", false, 0, "")
	for _, col := range grid.Columns {
		pdf.CellFormat(colWidth, 8, col, "1", 0, "C", false, 0, "")
	}

	// hour rows and empty cell lattice
	pdf.SetFont("Arial", "", 7)
	for row := grid.FirstRow; row < grid.LastRow; row++ {
		y := gridTop + float64(row-grid.FirstRow)*rowH
		pdf.SetXY(gridLeft, y)
		label := ""
		if grid.RowLabel != nil {
			label = grid.RowLabel(row)
		}
		pdf.CellFormat(hourColWidth, rowH, label, "1", 0, "C", false, 0, "")
		for range grid.Columns {
			pdf.CellFormat(colWidth, rowH, "", "1", 0, "", false, 0, "")
		}
	}

	// placed blocks
	for _, cell := range grid.Cells {
		if cell.Column < 0 || cell.Column >= len(grid.Columns) {
			continue
		}
		start := cell.StartRow
		if start < grid.FirstRow {
			start = grid.FirstRow
		}
		end := cell.EndRow
		if end > grid.LastRow {
			end = grid.LastRow
		}
		if end <= start {
			continue
		}

		x := gridLeft + hourColWidth + float64(cell.Column)*colWidth
		y := gridTop + float64(start-grid.FirstRow)*rowH
		h := float64(end-start) * rowH

		pdf.SetFillColor(224, 235, 255)
		pdf.Rect(x, y, colWidth, h, "FD")
		pdf.SetFont("Arial", "B", 8)
		pdf.SetXY(x, y+1)
		pdf.MultiCell(colWidth, 3.6, cell.Title, "", "C", false)
		if cell.Subtitle != "" {
			pdf.SetFont("Arial", "", 7)
			pdf.SetX(x)
			pdf.MultiCell(colWidth, 3.2, cell.Subtitle, "", "C", false)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
