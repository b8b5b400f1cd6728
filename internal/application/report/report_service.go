package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/facturaec/dashboard/internal/domain/report"
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/infrastructure/logger"
	"github.com/facturaec/dashboard/internal/infrastructure/printing"
	"go.uber.org/zap"
)

const (
	resumenPath     = "/reportes/resumen"
	ventasPath      = "/reportes/ventas"
	ventasExcelPath = "/reportes/ventas/excel"

	// VentasPrintTemplate is the print layout rendered into the PDF export
	VentasPrintTemplate = "print/ventas"
)

// TemplateEngine renders a named page template to HTML.
// *html/template.Template satisfies it.
type TemplateEngine interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

// VentasPrint is the data handed to the sales report print template
type VentasPrint struct {
	Tenant     string
	Rango      report.Rango
	Reporte    *report.VentasReporte
	GeneradoEn time.Time
}

// ReportService handles the dashboard home and the sales report
type ReportService struct {
	gateway   shared.Gateway
	templates TemplateEngine
	renderer  printing.PDFRenderer
	now       func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(gateway shared.Gateway, templates TemplateEngine, renderer printing.PDFRenderer) *ReportService {
	if renderer == nil {
		renderer = printing.DisabledRenderer{}
	}
	return &ReportService{
		gateway:   gateway,
		templates: templates,
		renderer:  renderer,
		now:       time.Now,
	}
}

// PDFEnabled reports whether the PDF export button should be offered
func (s *ReportService) PDFEnabled() bool {
	_, disabled := s.renderer.(printing.DisabledRenderer)
	return !disabled
}

// Rango parses the desde/hasta query values. Both empty selects the current month.
func (s *ReportService) Rango(desde, hasta string) (report.Rango, error) {
	desde, hasta = strings.TrimSpace(desde), strings.TrimSpace(hasta)
	if desde == "" && hasta == "" {
		return report.MesActual(s.now()), nil
	}

	fields := shared.FieldErrors{}
	d, err := shared.ParseDate(desde)
	fields.Check(err == nil, "desde", "Fecha no válida")
	h, err := shared.ParseDate(hasta)
	fields.Check(err == nil, "hasta", "Fecha no válida")
	if err := fields.Err("Revise el rango de fechas"); err != nil {
		return report.Rango{}, err
	}

	r, err := report.NewRango(d.Time, h.Time)
	if err != nil {
		var de *shared.DomainError
		if errors.As(err, &de) {
			return report.Rango{}, shared.FieldErrors{"hasta": de.Message}.Err(de.Message)
		}
		return report.Rango{}, err
	}
	return r, nil
}

// Resumen returns the dashboard home summary
func (s *ReportService) Resumen(ctx context.Context) (*report.Resumen, error) {
	var r report.Resumen
	if _, err := s.gateway.Get(ctx, resumenPath, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Ventas returns the sales report for the range
func (s *ReportService) Ventas(ctx context.Context, rango report.Rango) (*report.VentasReporte, error) {
	var r report.VentasReporte
	if _, err := s.gateway.Get(ctx, ventasPath, rangoQuery(rango), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// VentasExcel passes the backend's spreadsheet export through
func (s *ReportService) VentasExcel(ctx context.Context, rango report.Rango) (*shared.File, error) {
	f, err := s.gateway.Download(ctx, ventasExcelPath, rangoQuery(rango))
	if err != nil {
		return nil, err
	}
	if f.Name == "" {
		f.Name = exportName(rango, "xlsx")
	}
	if f.ContentType == "" {
		f.ContentType = shared.ContentTypeXLSX
	}
	return f, nil
}

// VentasPDF renders the sales report print template with headless Chrome
func (s *ReportService) VentasPDF(ctx context.Context, tenant string, rango report.Rango) (*shared.File, error) {
	if !s.PDFEnabled() {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "La exportación a PDF no está habilitada")
	}

	rep, err := s.Ventas(ctx, rango)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	data := VentasPrint{Tenant: tenant, Rango: rango, Reporte: rep, GeneradoEn: s.now()}
	if err := s.templates.ExecuteTemplate(&buf, VentasPrintTemplate, data); err != nil {
		return nil, fmt.Errorf("failed to render report template: %w", err)
	}

	result, err := s.renderer.Render(ctx, &printing.RenderRequest{
		HTML:       buf.String(),
		PaperSize:  printing.PaperA4,
		Margins:    printing.DefaultMargins(),
		Title:      fmt.Sprintf("Reporte de ventas %s - %s", rango.Desde.Format("02/01/2006"), rango.Hasta.Format("02/01/2006")),
		FooterHTML: `<div style="font-size:8px;width:100%;text-align:center"><span class="pageNumber"></span> / <span class="totalPages"></span></div>`,
	})
	if err != nil {
		logger.L(ctx).Error("PDF rendering failed", zap.Error(err), zap.Int("dias", rango.Dias()))
		return nil, shared.WrapDomainError(shared.CodeInternal, "No se pudo generar el PDF, intente nuevamente", err)
	}

	logger.L(ctx).Info("sales report PDF generated",
		zap.Int("pages", result.PageCount),
		zap.Duration("elapsed", result.RenderDuration))

	return &shared.File{
		Name:        exportName(rango, "pdf"),
		ContentType: shared.ContentTypePDF,
		Data:        result.PDFData,
	}, nil
}

func rangoQuery(r report.Rango) url.Values {
	return url.Values{
		"desde": {r.Desde.Format(shared.DateLayout)},
		"hasta": {r.Hasta.Format(shared.DateLayout)},
	}
}

func exportName(r report.Rango, ext string) string {
	return fmt.Sprintf("ventas_%s_%s.%s", r.Desde.Format(shared.DateLayout), r.Hasta.Format(shared.DateLayout), ext)
}
