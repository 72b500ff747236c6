package render

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/pilou73/horaires-shabbat/internal/week"
)

// Default capture parameters for the board poster.
const (
	DefaultWidth   = 800
	DefaultHeight  = 1120
	DefaultTimeout = 30 * time.Second
)

// Options defines parameters for a Chromium-based board capture.
type Options struct {
	// Width and Height are the viewport dimensions in pixels. If zero,
	// DefaultWidth / DefaultHeight are used.
	Width  int
	Height int

	// Timeout bounds the entire capture operation. If zero, DefaultTimeout
	// is used.
	Timeout time.Duration
}

// CapturePNG renders the board page for wk, serves it on an ephemeral
// loopback listener, and captures a PNG screenshot with headless Chromium.
//
// The page marks itself with data-ready="true"; the capture waits for that
// attribute before taking the screenshot.
func CapturePNG(parentCtx context.Context, wk *week.Week, opts Options) ([]byte, error) {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	var page bytes.Buffer
	if err := WriteBoardHTML(&page, wk); err != nil {
		return nil, err
	}

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("render: listen: %w", err)
	}

	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page.Bytes())
	})}
	go func() { _ = srv.Serve(lis) }()
	defer srv.Close()

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	url := fmt.Sprintf("http://%s/", lis.Addr())

	var png []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(url),
		chromedp.WaitVisible(`[data-ready="true"]`, chromedp.ByQuery),
		// Small extra delay to allow final paints.
		chromedp.Sleep(200 * time.Millisecond),
		chromedp.FullScreenshot(&png, 100),
	}

	if err := chromedp.Run(ctx, tasks); err != nil {
		return nil, fmt.Errorf("render: chromedp run failed: %w", err)
	}

	return png, nil
}

// WriteBoardPNG captures the board and writes it to path.
func WriteBoardPNG(ctx context.Context, wk *week.Week, path string, opts Options) error {
	png, err := CapturePNG(ctx, wk, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return fmt.Errorf("render: write png: %w", err)
	}
	return nil
}
