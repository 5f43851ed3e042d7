package credential

import (
	"context"
	"math/rand"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Policy selects which available credential serves the next request.
type Policy string

const (
	PolicyRoundRobin        Policy = "round_robin"
	PolicyRandom            Policy = "random"
	PolicyLeastRecentlyUsed Policy = "least_recently_used"
)

// ParsePolicy maps a config string to a policy, defaulting to
// round-robin for anything unrecognized.
func ParsePolicy(s string) Policy {
	switch Policy(s) {
	case PolicyRandom:
		return PolicyRandom
	case PolicyLeastRecentlyUsed:
		return PolicyLeastRecentlyUsed
	default:
		return PolicyRoundRobin
	}
}

// Pool owns the credential set and is the sole mutator of per-credential
// health state. Selection, failover and session caching all go through
// Acquire.
type Pool struct {
	credentials []*Credential
	factory     SessionFactory
	initTimeout time.Duration

	mu sync.Mutex
	// currentIndex is the round-robin cursor. It indexes the filtered
	// available subset, not the full list, which matches the original
	// service: when credentials drop out, the cursor keeps rotating
	// over whatever remains.
	currentIndex int
}

// NewPool wraps an already loaded credential set. An empty set is a
// configuration error: the service cannot run without at least one
// cookie.
func NewPool(creds []*Credential, factory SessionFactory, initTimeout time.Duration) (*Pool, error) {
	if len(creds) == 0 {
		return nil, &ConfigError{Reason: "no valid cookies found, set SECURE_1PSID or COOKIES_JSON"}
	}
	return &Pool{
		credentials: creds,
		factory:     factory,
		initTimeout: initTimeout,
	}, nil
}

// Size returns the total number of loaded credentials.
func (p *Pool) Size() int { return len(p.credentials) }

// Acquire returns a working session and the credential backing it.
// It walks the available subset under the given policy; a credential
// whose handshake fails is marked and skipped for the remainder of
// this call, so the loop makes at most one attempt per credential.
func (p *Pool) Acquire(ctx context.Context, policy Policy) (Session, *Credential, error) {
	var lastErr error
	tried := make(map[*Credential]bool)
	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		cred := p.pick(policy, tried)
		if cred == nil {
			return nil, nil, &ExhaustedError{Cause: lastErr}
		}
		tried[cred] = true
		sess, err := cred.acquireSession(ctx, p.factory, p.initTimeout)
		if err != nil {
			lastErr = err
			log.WithFields(log.Fields{
				"cookie": cred.Name,
				"error":  err,
			}).Warn("cookie session init failed, trying next")
			p.reportFailure(cred)
			continue
		}
		cred.MarkSuccess()
		return sess, cred, nil
	}
}

// pick applies the policy to the available credentials not yet tried
// in this acquisition. It returns nil when that set is empty.
func (p *Pool) pick(policy Policy, tried map[*Credential]bool) *Credential {
	p.mu.Lock()
	defer p.mu.Unlock()

	var avail []*Credential
	for _, c := range p.credentials {
		if c.IsAvailable() && !tried[c] {
			avail = append(avail, c)
		}
	}
	if len(avail) == 0 {
		return nil
	}

	switch policy {
	case PolicyRandom:
		return avail[rand.Intn(len(avail))]
	case PolicyLeastRecentlyUsed:
		best := avail[0]
		for _, c := range avail[1:] {
			if c.LastUsed().Before(best.LastUsed()) {
				best = c
			}
		}
		return best
	default:
		idx := p.currentIndex % len(avail)
		p.currentIndex = (p.currentIndex + 1) % len(avail)
		return avail[idx]
	}
}

// reportFailure records a failed handshake. When the failure pushes
// the credential out of rotation its cached session is discarded so a
// later recovery starts from a fresh handshake.
func (p *Pool) reportFailure(cred *Credential) {
	cred.MarkFailure()
	if !cred.IsAvailable() {
		cred.dropSession()
		log.WithField("cookie", cred.Name).Warn("cookie disabled after repeated errors")
	}
}

// PoolStatus is the wire shape of the status endpoint.
type PoolStatus struct {
	TotalCookies     int      `json:"total_cookies"`
	AvailableCookies int      `json:"available_cookies"`
	Cookies          []Status `json:"cookies"`
}

// Status snapshots every credential in load order.
func (p *Pool) Status() PoolStatus {
	out := PoolStatus{
		TotalCookies: len(p.credentials),
		Cookies:      make([]Status, 0, len(p.credentials)),
	}
	for _, c := range p.credentials {
		snap := c.Snapshot()
		if snap.IsAvailable {
			out.AvailableCookies++
		}
		out.Cookies = append(out.Cookies, snap)
	}
	return out
}
