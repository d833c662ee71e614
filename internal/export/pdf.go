// Package export renders a printable assignment sheet: one labeled QR
// card per giver, linking to their recipient's chat profile. Organizers
// cut the sheet up and hand each participant their card.
package export

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/titilda/supersanta/internal/models"
)

// Page geometry, millimeters on A4 (210 x 297).
const (
	pageWidth  = 210.0
	pageHeight = 297.0
	margin     = 5.0
	headerH    = 10.0

	cellCols = 2
	cellRows = 7

	cellW = (pageWidth - 2*margin) / cellCols
	cellH = (pageHeight - 2*margin - headerH) / cellRows
	qrW   = cellH - 5.0

	qrPixels = 256
)

// AssignmentSheet writes a PDF with one card per assignment to w. Each
// card names the giver and carries a QR code resolving to the
// recipient's profile, built from profileURLTemplate (%s is replaced
// with the recipient's user ID).
func AssignmentSheet(w io.Writer, campaignName string, assignments []models.Assignment, profileURLTemplate string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	drawHeader(pdf, campaignName)

	for i, a := range assignments {
		col := i % cellCols
		row := (i / cellCols) % cellRows
		if i > 0 && col == 0 && row == 0 {
			pdf.AddPage()
			drawHeader(pdf, campaignName)
		}

		if err := drawCard(pdf, col, row, a, profileURLTemplate); err != nil {
			return err
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render assignment sheet: %w", err)
	}
	return nil
}

func drawHeader(pdf *gofpdf.Fpdf, campaignName string) {
	pdf.SetFont("Helvetica", "B", 16)
	title := fmt.Sprintf("Super Secret Santa: %s (rendered %s)",
		campaignName, time.Now().Format("Jan 2, 2006 15:04"))
	pdf.SetXY(margin, margin)
	pdf.CellFormat(pageWidth-2*margin, headerH, title, "", 0, "C", false, 0, "")

	pdf.SetDashPattern([]float64{1, 1}, 0)
	pdf.Line(0, margin+headerH, pageWidth, margin+headerH)
	pdf.SetDashPattern([]float64{}, 0)
}

func drawCard(pdf *gofpdf.Fpdf, col, row int, a models.Assignment, profileURLTemplate string) error {
	x := margin + float64(col)*cellW
	y := margin + headerH + float64(row)*cellH

	// Dotted border doubles as the cut line.
	pdf.SetDashPattern([]float64{1, 1}, 0)
	pdf.Rect(x, y, cellW, cellH, "D")
	pdf.SetDashPattern([]float64{}, 0)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(x+2, y+2)
	text := fmt.Sprintf("Gift from %s\nMake sure to remove this text before attaching the QR code!", a.GiverID)
	pdf.MultiCell(cellW-qrW-6, 5, text, "", "L", false)

	png, err := qrcode.Encode(fmt.Sprintf(profileURLTemplate, a.RecipientID), qrcode.Medium, qrPixels)
	if err != nil {
		return fmt.Errorf("failed to encode QR code: %w", err)
	}

	name := fmt.Sprintf("qr-%s-%s", a.GiverID, a.RecipientID)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	pdf.ImageOptions(name, x+cellW-qrW-2, y+(cellH-qrW)/2, qrW, qrW, false, opts, 0, "")

	if pdf.Err() {
		return fmt.Errorf("failed to draw card: %v", pdf.Error())
	}
	return nil
}
