// Package export writes DH calculator results to files: a PDF
// worksheet with the parameter table, every joint transform, the
// forward-kinematics result and a QR block that re-imports the table,
// plus a DXF sketch of the linkage for fully numeric chains.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/dh-calculator/internal/importer"
	"github.com/piwi3910/dh-calculator/internal/kinematics"
	"github.com/piwi3910/dh-calculator/internal/render"
	"github.com/piwi3910/dh-calculator/internal/symbolic"
)

// Worksheet is a fully computed calculation report for one DH table.
type Worksheet struct {
	Title string
	Rows  []importer.Row

	JointNames    []string
	JointDisplays []string

	ForwardDisplay  string
	PositionDisplay string
	RotationDisplay string

	// IKLines is an optional inverse-kinematics block (equations and
	// solution branches, already rendered) appended when a solve ran.
	IKLines []string

	// Origins holds the numeric frame origins (base plus one per
	// joint) when every parameter is numeric; nil otherwise.
	Origins [][3]float64
}

// BuildWorksheet computes the transforms, forward kinematics and
// display blocks for a DH table. All rows share one symbol
// environment.
func BuildWorksheet(title string, rows []importer.Row) (*Worksheet, error) {
	ws := &Worksheet{Title: title, Rows: rows}

	env := symbolic.NewEnv()
	transforms := make([]*symbolic.Matrix, 0, len(rows))
	for i, row := range rows {
		m, err := kinematics.BuildFromParams(row.Params, env)
		if err != nil {
			return nil, err
		}
		transforms = append(transforms, m)
		ws.JointNames = append(ws.JointNames, fmt.Sprintf("T%d%d", i, i+1))
		ws.JointDisplays = append(ws.JointDisplays, render.DisplayMatrix(m))
	}

	fk, err := kinematics.ChainForward(transforms)
	if err != nil {
		return nil, err
	}
	ws.ForwardDisplay = render.DisplayMatrix(fk)
	ws.PositionDisplay = render.DisplayMatrix(kinematics.Position(fk))
	ws.RotationDisplay = render.DisplayMatrix(kinematics.Rotation(fk))
	ws.Origins = numericOrigins(transforms)
	return ws, nil
}

// numericOrigins walks the chain accumulating frame origins, returning
// nil as soon as any coordinate fails to evaluate numerically.
func numericOrigins(transforms []*symbolic.Matrix) [][3]float64 {
	origins := [][3]float64{{0, 0, 0}}
	acc := symbolic.Identity(4)
	for _, t := range transforms {
		next, err := acc.Mul(t)
		if err != nil {
			return nil
		}
		acc = next.SimplifyAll()
		var p [3]float64
		for i := 0; i < 3; i++ {
			v, ok := acc.Get(i, 3).Eval()
			if !ok {
				return nil
			}
			p[i] = v
		}
		origins = append(origins, p)
	}
	return origins
}

// Page layout constants (A4 portrait in mm).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	titleHeight  = 10.0
	lineHeight   = 4.2
	blockGap     = 5.0
	qrSize       = 30.0
	contentWidth = pageWidth - marginLeft - marginRight
)

// ExportPDF writes the worksheet as a PDF. Matrix blocks are rendered
// in a monospace font so the aligned grid survives; the last page
// carries a QR code of the table in CSV form for re-import.
func ExportPDF(path string, ws *Worksheet) error {
	if len(ws.Rows) == 0 {
		return fmt.Errorf("no DH rows to export")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.AddPage()

	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := ws.Title
	if title == "" {
		title = "DH Kinematics Worksheet"
	}
	pdf.CellFormat(contentWidth, titleHeight, title, "", 1, "L", false, 0, "")

	// Parameter table
	pdf.SetFont("Helvetica", "B", 10)
	writeLine(pdf, fmt.Sprintf("%-8s %-14s %-14s %-14s %-14s", "link", "alpha", "a", "d", "theta"))
	pdf.SetFont("Courier", "", 9)
	for _, row := range ws.Rows {
		writeLine(pdf, fmt.Sprintf("%-8s %-14s %-14s %-14s %-14s",
			row.Link, row.Params.Alpha, row.Params.A, row.Params.D, row.Params.Theta))
	}
	pdf.Ln(blockGap)

	// Joint transforms
	for i, name := range ws.JointNames {
		writeHeading(pdf, name)
		writeBlock(pdf, ws.JointDisplays[i])
	}

	// Forward kinematics
	writeHeading(pdf, fmt.Sprintf("T0%d (forward kinematics)", len(ws.JointNames)))
	writeBlock(pdf, ws.ForwardDisplay)
	writeHeading(pdf, "Position")
	writeBlock(pdf, ws.PositionDisplay)
	writeHeading(pdf, "Rotation")
	writeBlock(pdf, ws.RotationDisplay)

	if len(ws.IKLines) > 0 {
		writeHeading(pdf, "Inverse Kinematics")
		writeBlock(pdf, strings.Join(ws.IKLines, "\n"))
	}

	if err := appendQRBlock(pdf, ws.Rows); err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

func writeHeading(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetX(marginLeft)
	pdf.CellFormat(contentWidth, 6, text, "", 1, "L", false, 0, "")
	pdf.SetFont("Courier", "", 9)
}

func writeLine(pdf *fpdf.Fpdf, text string) {
	pdf.SetX(marginLeft)
	pdf.CellFormat(contentWidth, lineHeight, text, "", 1, "L", false, 0, "")
}

// The built-in PDF fonts are Latin-1 only, so the Unicode bracket and
// Greek glyphs used on screen are folded to ASCII before writing.
// Greek letters map to the single-letter input shorthand (t1, a1) so
// every glyph stays one column wide and the grid alignment holds.
var pdfASCII = strings.NewReplacer(
	"⎡", "[", "⎢", "|", "⎣", "[",
	"⎤", "]", "⎥", "|", "⎦", "]",
	"θ", "t", "α", "a",
)

func writeBlock(pdf *fpdf.Fpdf, block string) {
	for _, line := range strings.Split(pdfASCII.Replace(block), "\n") {
		writeLine(pdf, line)
	}
	pdf.Ln(blockGap)
}

// appendQRBlock encodes the DH table as CSV into a QR code so a
// printed worksheet can be scanned back into the importer.
func appendQRBlock(pdf *fpdf.Fpdf, rows []importer.Row) error {
	csvData := importer.ExportCSV(rows)
	qrPNG, err := qrcode.Encode(string(csvData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("generate QR code: %w", err)
	}

	if pdf.GetY()+qrSize+10 > pageHeight-marginBottom {
		pdf.AddPage()
	}
	pdf.SetFont("Helvetica", "", 8)
	writeLine(pdf, "Scan to re-import this DH table:")
	pdf.RegisterImageOptionsReader("dh-table-qr", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions("dh-table-qr", marginLeft, pdf.GetY()+2, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	return nil
}
