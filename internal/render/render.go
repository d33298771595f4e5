// Package render turns an assembled HTML document into a fixed-layout PDF.
//
// Conversion shells out to a headless Chromium. Page size, orientation and
// margins come from the document's own @page rule.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// DefaultTimeout bounds a single conversion.
const DefaultTimeout = 60 * time.Second

// Browsers are the executables tried, in order, when no browser is configured.
var Browsers = []string{"chromium", "chromium-browser", "google-chrome", "google-chrome-stable"}

// ErrBrowserNotFound is returned when no headless browser can be located.
var ErrBrowserNotFound = errors.New("no headless browser found")

// Renderer converts HTML to PDF with a headless browser.
type Renderer struct {
	// Browser is the browser executable. Empty means search Browsers on PATH.
	Browser string

	// Timeout bounds each conversion. Zero means DefaultTimeout.
	Timeout time.Duration

	// lookPath is replaced in tests.
	lookPath func(string) (string, error)
}

// New returns a Renderer using the given browser, or PATH discovery when
// browser is empty.
func New(browser string) *Renderer {
	return &Renderer{Browser: browser, Timeout: DefaultTimeout}
}

// FindBrowser resolves the executable the renderer will run.
func (r *Renderer) FindBrowser() (string, error) {
	look := r.lookPath
	if look == nil {
		look = exec.LookPath
	}

	if r.Browser != "" {
		path, err := look(r.Browser)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrBrowserNotFound, r.Browser, err)
		}
		return path, nil
	}

	for _, name := range Browsers {
		if path, err := look(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w. PDF export requires Chromium. Install with:\n  macOS:  brew install --cask chromium\n  Linux:  apt install chromium\nor pass --chrome", ErrBrowserNotFound)
}

// PDF renders html to PDF bytes.
func (r *Renderer) PDF(ctx context.Context, html []byte) ([]byte, error) {
	browser, err := r.FindBrowser()
	if err != nil {
		return nil, err
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	dir, err := os.MkdirTemp("", "cardsheet-*")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "sheets.html")
	out := filepath.Join(dir, "sheets.pdf")
	if err := os.WriteFile(in, html, 0644); err != nil {
		return nil, fmt.Errorf("write document: %w", err)
	}

	cmd := exec.CommandContext(ctx, browser, Args(in, out)...)
	var errBuf bytes.Buffer
	cmd.Stdout = &errBuf
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(browser), ctxErr)
		}
		return nil, fmt.Errorf("%s: %v: %s", filepath.Base(browser), err, errBuf.String())
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("%s produced no PDF: %w", filepath.Base(browser), err)
	}
	return data, nil
}

// Args returns the browser command line converting in to out.
func Args(in, out string) []string {
	return []string{
		"--headless",
		"--no-sandbox",
		"--disable-gpu",
		"--no-pdf-header-footer",
		"--print-to-pdf=" + out,
		"file://" + filepath.ToSlash(in),
	}
}
