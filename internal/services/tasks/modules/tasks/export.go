package tasks

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/louisbranch/taskboard/internal/services/tasks/templates"
)

// completedReport is the content of the completed-tasks PDF.
type completedReport struct {
	Heading   string
	Generated string
	Rows      []templates.TaskRow
}

// writeCompletedPDF renders report as an A4 document. Text is translated to
// the core fonts' cp1252 encoding.
func writeCompletedPDF(w io.Writer, report completedReport) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(report.Heading, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, tr(report.Heading))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, tr(report.Generated))
	pdf.Ln(10)

	for _, row := range report.Rows {
		title := row.Title
		if row.Important {
			title = "! " + title
		}
		pdf.SetFont("Arial", "B", 11)
		pdf.MultiCell(0, 6, tr(title), "0", "L", false)
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 5, tr(row.CompletedAt), "0", "L", false)
		if row.Memo != "" {
			pdf.MultiCell(0, 5, tr(row.Memo), "0", "L", false)
		}
		pdf.Ln(3)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render completed tasks pdf: %w", err)
	}
	return nil
}
