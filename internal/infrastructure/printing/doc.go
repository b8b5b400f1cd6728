// Package printing renders report pages to PDF with headless Chrome.
//
// Example usage:
//
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true, MaxTabs: 2})
//	if err != nil {
//	    return err
//	}
//	defer renderer.Close()
//
//	result, err := renderer.Render(ctx, &RenderRequest{
//	    HTML:      html,
//	    PaperSize: PaperA4,
//	    Margins:   DefaultMargins(),
//	})
package printing
