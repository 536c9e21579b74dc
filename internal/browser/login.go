package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// ErrAuth indicates the remote service rejected the credentials: no
// post-login navigation happened within the bounded wait. It is the only
// error that aborts a run before traversal starts.
var ErrAuth = errors.New("authentication failed: credentials were not accepted")

// Login form selectors and paths.
const (
	loginPath        = "/sign-in"
	selLoginEmail    = `input[type="email"]`
	selLoginPassword = `input[type="password"]`
	selLoginSubmit   = `button[type="submit"]`

	// authWait bounds the wait for the post-login navigation.
	authWait = 15 * time.Second
)

// Login authenticates the session against the service rooted at baseURL.
// Success is observed as a navigation away from the sign-in page within a
// bounded wait; its absence is interpreted as wrong credentials.
func (s *Session) Login(ctx context.Context, baseURL, email, password string) error {
	loginURL := strings.TrimSuffix(baseURL, "/") + loginPath

	if err := s.Navigate(ctx, loginURL); err != nil {
		return fmt.Errorf("load sign-in page: %w", err)
	}

	if err := s.run(ctx,
		chromedp.WaitVisible(selLoginEmail, chromedp.ByQuery),
		chromedp.SendKeys(selLoginEmail, email, chromedp.ByQuery),
		chromedp.SendKeys(selLoginPassword, password, chromedp.ByQuery),
		chromedp.Click(selLoginSubmit, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("submit credentials: %w", err)
	}

	deadline := time.Now().Add(authWait)
	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return err
		}

		current, err := s.CurrentURL(ctx)
		if err == nil && !strings.Contains(current, loginPath) {
			return nil
		}

		select {
		case <-time.After(250 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return ErrAuth
}
