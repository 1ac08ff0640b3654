package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	domain "chesslab/internal/domain/analysis"
)

// WriteReviewPDF renders review as a printable A4 document.
func WriteReviewPDF(w io.Writer, review *domain.GameReview) error {
	if review == nil {
		return errors.New("report: nil review")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Game review "+review.ID, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Game review")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Date: "+review.CreatedAt.Format("2006-01-02 15:04 MST"))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Accuracy: "+review.AccuracyText)
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Final evaluation: %.2f, best move: %s", review.Evaluation, review.BestMove))
	pdf.Ln(10)

	if len(review.Mistakes) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Highlights")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 5, strings.Join(review.Mistakes, "\n"), "", "L", false)
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "B", 10)
	for _, h := range []struct {
		title string
		width float64
	}{{"#", 10}, {"Move", 20}, {"Eval", 20}, {"Delta", 20}, {"Best", 25}, {"Note", 95}} {
		pdf.CellFormat(h.width, 7, h.title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, m := range review.Moves {
		if m.Index == 0 {
			continue
		}
		note := strings.TrimSpace(m.Marker + " " + m.Suggestion)
		pdf.CellFormat(10, 6, fmt.Sprint(m.Index), "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 6, m.Move, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%.2f", m.Evaluation), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%.2f", m.ScoreDelta), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, m.BestMove, "1", 0, "L", false, 0, "")
		pdf.CellFormat(95, 6, truncate(note, 60), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
