package report

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/rustybadge/after-sales-quiz/internal/common/errors"
	"github.com/rustybadge/after-sales-quiz/internal/common/logger"
	"github.com/rustybadge/after-sales-quiz/internal/common/metrics"
	"github.com/rustybadge/after-sales-quiz/internal/quiz"

	"github.com/go-pdf/fpdf"
)

const (
	marginLeft   = 20.0
	headerHeight = 30.0
	footerHeight = 25.0
	lineHeight   = 6.0
	scoreColumn  = 120.0
)

var brandBlue = [3]int{59, 130, 246}

// Renderer draws action plans as A4 PDFs.
type Renderer struct {
	brand  Brand
	logger logger.Logger
}

func NewRenderer(brand Brand, log logger.Logger) *Renderer {
	return &Renderer{brand: brand, logger: logger.Component(log, "report")}
}

// FileName returns the attachment name of the plan for company.
func (rn *Renderer) FileName(company string) string {
	return rn.brand.AttachmentName(company)
}

// Render returns the PDF bytes of the plan for r. Errors are
// REPORT_RENDER_FAILED and no partial output is returned.
func (rn *Renderer) Render(ctx context.Context, r quiz.Result, opts RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		metrics.ReportsRendered.WithLabelValues("failed").Inc()
		return nil, errors.NewReportRenderFailedError(err)
	}
	if opts.Brand == nil {
		brand := rn.brand
		opts.Brand = &brand
	}

	plan := BuildPlan(r, opts)
	data, err := draw(plan)
	if err != nil {
		metrics.ReportsRendered.WithLabelValues("failed").Inc()
		rn.logger.Error("plan render failed", map[string]interface{}{
			"company": plan.Company,
			"error":   err,
		})
		return nil, errors.NewReportRenderFailedError(err)
	}

	metrics.ReportsRendered.WithLabelValues("rendered").Inc()
	rn.logger.Debug("plan rendered", map[string]interface{}{
		"company":   plan.Company,
		"persona":   plan.Persona,
		"sizeBytes": len(data),
	})
	return data, nil
}

func draw(p Plan) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageWidth, pageHeight := pdf.GetPageSize()

	pdf.SetTitle(p.Brand.Title, true)
	pdf.SetAuthor(p.Brand.Name, true)
	pdf.SetCreator(p.GeneratedBy, true)
	pdf.SetMargins(marginLeft, headerHeight+5, marginLeft)
	pdf.SetAutoPageBreak(true, footerHeight+5)

	pdf.SetHeaderFunc(func() {
		pdf.SetFillColor(brandBlue[0], brandBlue[1], brandBlue[2])
		pdf.Rect(0, 0, pageWidth, headerHeight, "F")
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 18)
		pdf.Text(marginLeft, 19, tr(p.Brand.Name))
		pdf.SetY(headerHeight + 5)
	})

	pdf.SetFooterFunc(func() {
		top := pageHeight - footerHeight
		pdf.SetFillColor(brandBlue[0], brandBlue[1], brandBlue[2])
		pdf.Rect(0, top, pageWidth, footerHeight, "F")
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.Text(marginLeft, pageHeight-15, tr(p.Brand.Name))
		pdf.SetFont("Helvetica", "", 8)
		pdf.Text(marginLeft, pageHeight-10, tr(p.GeneratedBy))
		pdf.Text(marginLeft, pageHeight-5, tr(p.Brand.ContactEmail+" | "+p.Brand.Website))
		pdf.Text(pageWidth-marginLeft-10, pageHeight-5, strconv.Itoa(pdf.PageNo()))
	})

	pdf.AddPage()
	width := pageWidth - 2*marginLeft

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 16)
	pdf.CellFormat(width, 10, tr(p.Brand.Title), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	for _, line := range []string{
		"Company: " + p.Company,
		"Date: " + p.Date,
		fmt.Sprintf("Overall Score: %d%%", p.Score),
		"Persona: " + p.Persona,
	} {
		pdf.CellFormat(width, 7, tr(line), "", 1, "L", false, 0, "")
	}
	if p.Blurb != "" {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.MultiCell(width, lineHeight, tr(p.Blurb), "", "L", false)
	}

	section(pdf, tr, width, "Category Scores")
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range p.Rows {
		r, g, b := row.Band.RGB()
		pdf.SetTextColor(r, g, b)
		pdf.CellFormat(scoreColumn-marginLeft, lineHeight, tr(fmt.Sprintf("%s (%s)", row.Label, row.Weight)), "", 0, "L", false, 0, "")
		pdf.CellFormat(30, lineHeight, fmt.Sprintf("%d%%", row.Score), "", 1, "L", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)

	section(pdf, tr, width, "Key Recommendations")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(width, lineHeight, tr(p.Headline), "", "L", false)
	pdf.Ln(2)
	numbered(pdf, tr, width, p.Items)

	section(pdf, tr, width, "Next Steps")
	pdf.SetFont("Helvetica", "", 10)
	numbered(pdf, tr, width, p.NextSteps)

	if err := pdf.Error(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func section(pdf *fpdf.Fpdf, tr func(string) string, width float64, title string) {
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(width, 8, tr(title), "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func numbered(pdf *fpdf.Fpdf, tr func(string) string, width float64, items []string) {
	const indent = 5.0
	for i, item := range items {
		pdf.SetX(marginLeft + indent)
		pdf.MultiCell(width-indent, lineHeight, tr(fmt.Sprintf("%d. %s", i+1, item)), "", "L", false)
	}
}
