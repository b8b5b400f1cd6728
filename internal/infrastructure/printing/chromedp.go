package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	defaultChromeTimeout = 30 * time.Second
	defaultMaxTabs       = 2

	// Chrome needs room in the page margin to draw header and footer templates
	minHeaderFooterMarginMM = 10.0
	mmPerInch               = 25.4
)

// ChromedpConfig contains configuration for the chromedp renderer
type ChromedpConfig struct {
	DefaultTimeout time.Duration
	// RemoteURL is the DevTools URL of a running Chrome. Empty launches a
	// local headless browser.
	RemoteURL string
	// NoSandbox is required when Chrome runs as root inside a container
	NoSandbox bool
	// MaxTabs caps the reports printed at the same time
	MaxTabs int
	Logger  *zap.Logger
}

// ChromedpRenderer prints HTML to PDF through the Chrome DevTools Protocol.
// Each render opens a tab on a shared browser.
type ChromedpRenderer struct {
	timeout     time.Duration
	remoteURL   string
	noSandbox   bool
	logger      *zap.Logger
	tabs        chan struct{}
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer creates a renderer. The browser starts lazily on the
// first render.
func NewChromedpRenderer(cfg *ChromedpConfig) (*ChromedpRenderer, error) {
	if cfg == nil {
		cfg = &ChromedpConfig{}
	}
	if cfg.MaxTabs < 0 {
		return nil, fmt.Errorf("printing: max tabs must not be negative, got %d", cfg.MaxTabs)
	}

	r := &ChromedpRenderer{
		timeout:   cfg.DefaultTimeout,
		remoteURL: cfg.RemoteURL,
		noSandbox: cfg.NoSandbox,
		logger:    cfg.Logger,
	}
	if r.timeout == 0 {
		r.timeout = defaultChromeTimeout
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	maxTabs := cfg.MaxTabs
	if maxTabs == 0 {
		maxTabs = defaultMaxTabs
	}
	r.tabs = make(chan struct{}, maxTabs)
	r.allocCtx, r.allocCancel = r.allocator()
	return r, nil
}

func (r *ChromedpRenderer) allocator() (context.Context, context.CancelFunc) {
	if r.remoteURL != "" {
		return chromedp.NewRemoteAllocator(context.Background(), r.remoteURL)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if r.noSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	return chromedp.NewExecAllocator(context.Background(), opts...)
}

// Render prints req.HTML. It waits for a free tab while ctx allows.
func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	timeout := req.Timeout
	if timeout == 0 {
		timeout = r.timeout
	}

	select {
	case r.tabs <- struct{}{}:
		defer func() { <-r.tabs }()
	case <-ctx.Done():
		return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled while waiting for the browser", ctx.Err())
	}

	start := time.Now()
	tabCtx, closeTab := chromedp.NewContext(r.allocCtx, chromedp.WithLogf(func(format string, args ...any) {
		r.logger.Debug(fmt.Sprintf(format, args...))
	}))
	defer closeTab()

	// The tab descends from the allocator, not from ctx, so cancellation
	// is forwarded by hand.
	runCtx, cancel := context.WithTimeout(tabCtx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var pdf []byte
	err := chromedp.Run(runCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, document(req)).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := printParams(req).Do(ctx)
			pdf = data
			return err
		}),
	)
	switch {
	case err == nil:
	case errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		return nil, NewRenderError(ErrCodeRenderTimeout, fmt.Sprintf("PDF rendering timed out after %v", timeout), err)
	case ctx.Err() != nil:
		return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
	default:
		return nil, NewRenderError(ErrCodeRenderFailed, "chrome could not print the document", err)
	}
	if len(pdf) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	res := &RenderResult{PDFData: pdf, PageCount: countPages(pdf), RenderDuration: time.Since(start)}
	r.logger.Debug("PDF printed",
		zap.String("title", req.Title),
		zap.Int("bytes", len(pdf)),
		zap.Int("pages", res.PageCount),
		zap.Duration("duration", res.RenderDuration))
	return res, nil
}

// Close shuts the browser down
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

func validate(req *RenderRequest) error {
	switch {
	case req == nil:
		return NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	case strings.TrimSpace(req.HTML) == "":
		return NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	case !req.PaperSize.IsValid():
		return NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size: "+string(req.PaperSize), nil)
	}
	return nil
}

// printParams translates the request into Chrome's print settings. Chrome
// measures paper in inches.
func printParams(req *RenderRequest) *page.PrintToPDFParams {
	width, height := req.PaperSize.Dimensions()
	m := req.Margins
	p := page.PrintToPDF().
		WithPrintBackground(true).
		WithPreferCSSPageSize(false).
		WithLandscape(req.Landscape).
		WithPaperWidth(inches(width)).
		WithPaperHeight(inches(height))

	if req.HeaderHTML != "" || req.FooterHTML != "" {
		p = p.WithDisplayHeaderFooter(true).
			WithHeaderTemplate(orEmptySpan(req.HeaderHTML)).
			WithFooterTemplate(orEmptySpan(req.FooterHTML))
		if req.HeaderHTML != "" {
			m.Top = max(m.Top, minHeaderFooterMarginMM)
		}
		if req.FooterHTML != "" {
			m.Bottom = max(m.Bottom, minHeaderFooterMarginMM)
		}
	}
	return p.WithMarginTop(inches(m.Top)).
		WithMarginRight(inches(m.Right)).
		WithMarginBottom(inches(m.Bottom)).
		WithMarginLeft(inches(m.Left))
}

// Chrome prints its default date and URL when a template is left empty
func orEmptySpan(tmpl string) string {
	if tmpl == "" {
		return "<span></span>"
	}
	return tmpl
}

// document wraps a fragment into a full page. Complete documents pass through.
func document(req *RenderRequest) string {
	lower := strings.ToLower(req.HTML)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return req.HTML
	}
	return `<!DOCTYPE html><html lang="es"><head><meta charset="utf-8"><title>` +
		html.EscapeString(req.Title) + `</title></head><body>` + req.HTML + `</body></html>`
}

func inches(mm float64) float64 {
	return mm / mmPerInch
}

// countPages counts page objects in the PDF body
func countPages(pdf []byte) int {
	n := bytes.Count(pdf, []byte("/Type /Page")) - bytes.Count(pdf, []byte("/Type /Pages"))
	return max(n, 1)
}

var _ PDFRenderer = (*ChromedpRenderer)(nil)
