// Package pdf renders monthly report plans into A4 PDF documents: a cover
// page with summary boxes and charts followed by one table page per planned
// page of readings.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // logo decoding
	_ "image/png"  // logo decoding
	"io"
	"log/slog"
	"math"

	"github.com/Trimetilamin/Temperature-monitor/internal/domain"
	"github.com/go-pdf/fpdf"
)

// Page geometry in millimetres.
const (
	pageMargin   = 15.0
	contentWidth = 180.0
	logoX        = 8.0
	logoY        = 6.0
	logoWidth    = 22.0
	footerOffset = 12.0
	tableTop     = 30.0
	tableBottom  = 275.0
	tableHalf    = 90.0
)

const (
	coreFont  = "Helvetica"
	tableFont = "Courier"
	bodyFont  = "body"
	logoName  = "logo"
)

// Assets supplies the optional logo image and TrueType font.
type Assets interface {
	Logo() ([]byte, bool)
	Font() ([]byte, bool)
}

// NoAssets renders without a logo using the built-in fonts.
type NoAssets struct{}

func (NoAssets) Logo() ([]byte, bool) { return nil, false }
func (NoAssets) Font() ([]byte, bool) { return nil, false }

// Renderer draws report plans with fpdf. It is safe for concurrent use; each
// Render call builds its own document.
type Renderer struct {
	assets Assets
	logger *slog.Logger
}

// NewRenderer creates a Renderer. A nil assets value means NoAssets.
func NewRenderer(assets Assets, logger *slog.Logger) *Renderer {
	if assets == nil {
		assets = NoAssets{}
	}
	return &Renderer{assets: assets, logger: logger}
}

// Render writes the PDF for plan to w.
func (r *Renderer) Render(ctx context.Context, plan domain.ReportPlan, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(fmt.Sprintf("%s - %s", plan.LoggerID, plan.Month), true)
	pdf.SetCreator("templog", true)
	pdf.SetCreationDate(plan.GeneratedAt)

	doc := r.newDocument(pdf)
	doc.writeCover(plan)
	for _, page := range plan.Pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc.writeTablePage(page)
	}
	doc.addPageNumbers()

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf output: %w", err)
	}
	return nil
}

// document carries per-render state.
type document struct {
	pdf      *fpdf.Fpdf
	logger   *slog.Logger
	tr       func(string) string
	family   string
	logoType string
}

func (r *Renderer) newDocument(pdf *fpdf.Fpdf) *document {
	d := &document{
		pdf:    pdf,
		logger: r.logger,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		family: coreFont,
	}

	if data, ok := r.assets.Font(); ok {
		d.loadFont(data)
	}

	if data, ok := r.assets.Logo(); ok {
		d.logoType = registerLogo(pdf, data, r.logger)
	}
	return d
}

// loadFont switches the body text to a TrueType font. Unusable fonts leave
// the built-in font in place.
func (d *document) loadFont(data []byte) {
	if !isTrueType(data) {
		d.logger.Warn("font is not a TrueType file, using built-in font")
		return
	}

	d.pdf.AddUTF8FontFromBytes(bodyFont, "", data)
	d.pdf.AddUTF8FontFromBytes(bodyFont, "B", data)
	if !d.pdf.Ok() {
		d.logger.Warn("font rejected, using built-in font", "error", d.pdf.Error())
		d.pdf.ClearError()
		return
	}
	d.family = bodyFont
	d.tr = func(s string) string { return s }
}

// isTrueType reports whether data starts with a TrueType sfnt version tag.
func isTrueType(data []byte) bool {
	return len(data) >= 4 && (bytes.Equal(data[:4], []byte{0, 1, 0, 0}) || string(data[:4]) == "true")
}

// registerLogo validates the image before handing it to fpdf so that a bad
// file cannot poison the document. It returns the fpdf image type, or "" when
// the logo is skipped.
func registerLogo(pdf *fpdf.Fpdf, data []byte, logger *slog.Logger) string {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		logger.Warn("logo is not a readable image, skipping", "error", err)
		return ""
	}

	var imageType string
	switch format {
	case "png":
		imageType = "PNG"
	case "jpeg":
		imageType = "JPG"
	default:
		logger.Warn("unsupported logo format, skipping", "format", format)
		return ""
	}

	pdf.RegisterImageOptionsReader(logoName, fpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(data))
	if !pdf.Ok() {
		logger.Warn("logo rejected, skipping", "error", pdf.Error())
		pdf.ClearError()
		return ""
	}
	return imageType
}

func (d *document) drawLogo() {
	if d.logoType == "" {
		return
	}
	d.pdf.ImageOptions(logoName, logoX, logoY, logoWidth, 0, false, fpdf.ImageOptions{ImageType: d.logoType}, 0, "")
}

func (d *document) writeCover(plan domain.ReportPlan) {
	pdf := d.pdf
	pdf.AddPage()
	d.drawLogo()

	pdf.SetY(14)
	pdf.SetFont(d.family, "B", 18)
	pdf.CellFormat(0, 9, d.tr("Temperature and Humidity Data"), "", 1, "C", false, 0, "")
	pdf.SetFont(d.family, "B", 14)
	pdf.CellFormat(0, 8, d.tr(fmt.Sprintf("%s - %s", plan.LoggerID, plan.Month)), "", 1, "C", false, 0, "")

	const (
		boxTop    = 42.0
		boxHeight = 72.0
		boxGap    = 5.0
	)
	boxWidth := (contentWidth - 2*boxGap) / 3
	boxes := []struct {
		heading, body string
	}{
		{"Temperature:", TemperatureSummary(plan.Temperature)},
		{"Additional Stats:", CadenceSummary(plan.Cadence)},
		{"Humidity:", HumiditySummary(plan.Humidity)},
	}
	for i, b := range boxes {
		x := pageMargin + float64(i)*(boxWidth+boxGap)
		d.textBox(x, boxTop, boxWidth, boxHeight, b.heading, b.body)
	}

	d.placeChart(plan, temperatureChart(plan), "chart-temperature", 122)
	d.placeChart(plan, humidityChart(), "chart-humidity", 196)

	pdf.SetXY(pageMargin, 272)
	pdf.SetFont(d.family, "", 8)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 5, d.tr("Generated "+plan.GeneratedAt.Format("2006-01-02 15:04 MST")), "", 0, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func (d *document) textBox(x, y, w, h float64, heading, body string) {
	pdf := d.pdf

	pdf.SetXY(x, y)
	pdf.SetFont(d.family, "B", 11)
	pdf.CellFormat(w, 6, d.tr(heading), "", 0, "L", false, 0, "")

	top := y + 7
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.3)
	pdf.RoundedRect(x, top, w, h, 3, "1234", "D")

	pdf.SetXY(x+3, top+3)
	pdf.SetFont(d.family, "", 8)
	pdf.MultiCell(w-6, 4, d.tr(body), "", "L", false)
}

func (d *document) placeChart(plan domain.ReportPlan, spec chartSpec, name string, y float64) {
	const height = contentWidth * chartHeight / chartWidth

	img, err := renderChart(plan.Readings, spec)
	if err != nil {
		d.logger.Warn("chart skipped", "chart", spec.Title, "error", err)
		d.pdf.SetXY(pageMargin, y+height/2)
		d.pdf.SetFont(d.family, "", 9)
		d.pdf.CellFormat(0, 6, d.tr(spec.Title+": chart unavailable"), "", 0, "C", false, 0, "")
		return
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img))
	d.pdf.ImageOptions(name, pageMargin, y, contentWidth, height, false, opts, 0, "")
}

func (d *document) writeTablePage(page domain.Page) {
	pdf := d.pdf
	pdf.AddPage()
	d.drawLogo()

	rows := max(len(page.Left), len(page.Right))
	lineHeight := math.Min(3.5, (tableBottom-tableTop)/float64(rows+2))

	d.writeTable(pageMargin, lineHeight, page.Left)
	if len(page.Right) > 0 {
		d.writeTable(pageMargin+tableHalf+5, lineHeight, page.Right)
	}

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.3)
	mid := pageMargin + tableHalf + 2.5
	pdf.Line(mid, tableTop-5, mid, tableBottom)
}

var tableWidths = [4]float64{14, 36, 21, 17}

func (d *document) writeTable(x, lineHeight float64, rows []domain.Row) {
	pdf := d.pdf

	pdf.SetXY(x, tableTop)
	pdf.SetFont(tableFont, "B", 8)
	for i, heading := range tableColumns {
		pdf.CellFormat(tableWidths[i], lineHeight, heading, "B", 0, "R", false, 0, "")
	}
	pdf.Ln(lineHeight)

	pdf.SetFont(tableFont, "", 8)
	for _, row := range rows {
		pdf.SetX(x)
		for i, cell := range tableCells(row) {
			pdf.CellFormat(tableWidths[i], lineHeight, cell, "", 0, "R", false, 0, "")
		}
		pdf.Ln(lineHeight)
	}
}

// addPageNumbers stamps "Page i of N" on every page once the page count is known.
func (d *document) addPageNumbers() {
	pdf := d.pdf
	total := pdf.PageCount()

	for i := 1; i <= total; i++ {
		pdf.SetPage(i)
		_, pageHeight := pdf.GetPageSize()

		pdf.SetXY(pageMargin, pageHeight-footerOffset)
		pdf.SetFont(d.family, "", 8)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d of %d", i, total), "", 0, "C", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
}
