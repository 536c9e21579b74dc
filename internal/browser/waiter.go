package browser

import (
	"context"
	"time"

	"github.com/FdezRomero/whimsical-exporter/internal/engine"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// responseWaiter is the single-shot listener handle returned by
// ExpectResponse. It satisfies engine.ResponseWaiter.
type responseWaiter struct {
	ch     chan *engine.Response
	cancel context.CancelFunc
}

// ExpectResponse arms a single-shot listener for the next network response
// whose URL satisfies match. The listener lives until the first match,
// Cancel, or Await's timeout, so no handler outlives its use.
//
// The race between a UI click and the intercepted response is modelled as
// "arm the listener, then act, then await": callers must call this before
// the interaction that triggers the response.
func (s *Session) ExpectResponse(ctx context.Context, match func(url string) bool) engine.ResponseWaiter {
	listenCtx, cancel := context.WithCancel(s.ctx)
	ch := make(chan *engine.Response, 1)

	chromedp.ListenTarget(listenCtx, func(ev interface{}) {
		resp, ok := ev.(*network.EventResponseReceived)
		if !ok || !match(resp.Response.URL) {
			return
		}

		requestID := resp.RequestID
		captured := &engine.Response{
			URL:    resp.Response.URL,
			Status: int(resp.Response.Status),
		}

		// The body must be fetched off the event goroutine: GetResponseBody
		// round-trips to the browser and the listener callback must not
		// block the event dispatch loop.
		go func() {
			if captured.Status < 300 {
				_ = chromedp.Run(s.ctx, chromedp.ActionFunc(func(cctx context.Context) error {
					body, err := network.GetResponseBody(requestID).Do(cctx)
					if err != nil {
						return err
					}
					captured.Body = body
					return nil
				}))
			}
			select {
			case ch <- captured:
			default:
			}
			cancel()
		}()
	})

	return &responseWaiter{ch: ch, cancel: cancel}
}

// Await blocks until the matched response arrives, the timeout elapses, or
// the context is cancelled. The listener is released on every path.
func (w *responseWaiter) Await(ctx context.Context, timeout time.Duration) (*engine.Response, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	defer w.cancel()

	select {
	case resp := <-w.ch:
		return resp, nil
	case <-timer.C:
		return nil, engine.ErrResponseTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cancel releases the listener. Safe to call after Await.
func (w *responseWaiter) Cancel() {
	w.cancel()
}
