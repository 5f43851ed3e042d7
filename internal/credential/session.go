package credential

import (
	"context"
	"time"
)

// Session is a ready-to-use upstream conversation handle bound to one
// credential.
type Session interface {
	// Generate sends a prompt to the upstream model and returns the
	// full reply text.
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// SessionFactory builds a session for a credential. It is expected to
// perform whatever network handshake the upstream requires and return
// an error when the cookie is rejected.
type SessionFactory func(ctx context.Context, cred *Credential) (Session, error)

// acquireSession returns the cached session for the credential,
// building one through the factory on first use. A failed build is
// never cached, so the next caller retries the handshake.
func (c *Credential) acquireSession(ctx context.Context, factory SessionFactory, timeout time.Duration) (Session, error) {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()
	if c.session != nil {
		return c.session, nil
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	sess, err := factory(ctx, c)
	if err != nil {
		return nil, &SessionInitError{Name: c.Name, Err: err}
	}
	c.session = sess
	return sess, nil
}

// dropSession discards the cached session so the next acquisition
// rebuilds it from scratch.
func (c *Credential) dropSession() {
	c.sessionMu.Lock()
	c.session = nil
	c.sessionMu.Unlock()
}
