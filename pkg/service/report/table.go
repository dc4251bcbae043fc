package report

import (
	"github.com/go-pdf/fpdf"
)

// writeTable draws head and body starting at tableStartY. A new page is
// added, with the head repeated, whenever the next row would cross the
// bottom margin.
func writeTable(pdf *fpdf.Fpdf, tr func(string) string, head []string, body [][]string) {
	pageW, pageH := pdf.GetPageSize()
	colW := (pageW - 2*marginLeft) / float64(len(head))

	drawHead := func() {
		pdf.SetFont(fontFamily, "B", tableFont)
		pdf.SetFillColor(headerFillR, headerFillG, headerFillB)
		pdf.SetTextColor(255, 255, 255)
		for _, h := range head {
			pdf.CellFormat(colW, rowHeight, tr(h), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont(fontFamily, "", tableFont)
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.SetXY(marginLeft, tableStartY)
	pdf.SetLeftMargin(marginLeft)
	drawHead()

	for i, row := range body {
		if pdf.GetY()+rowHeight > pageH-tableMargin {
			pdf.AddPage()
			pdf.SetXY(marginLeft, tableMargin)
			drawHead()
		}

		fill := i%2 == 1
		pdf.SetFillColor(stripeFill, stripeFill, stripeFill)
		for col := range head {
			cell := ""
			if col < len(row) {
				cell = row[col]
			}
			pdf.CellFormat(colW, rowHeight, tr(cell), "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}
}
