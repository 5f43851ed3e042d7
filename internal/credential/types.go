package credential

import (
	"sync"
	"time"
)

// DefaultMaxErrors is the consecutive-failure threshold after which a
// cookie credential is taken out of rotation.
const DefaultMaxErrors = 3

// Credential represents one browser-session identity: the
// __Secure-1PSID cookie plus its optional __Secure-1PSIDTS companion,
// and the runtime health state the pool maintains for it.
type Credential struct {
	Secure1PSID   string
	Secure1PSIDTS string
	Name          string

	available  bool
	errorCount int
	maxErrors  int
	lastUsed   time.Time

	// session is the lazily created upstream handle for this cookie.
	// Once built it is reused unconditionally; staleness surfaces as a
	// generation failure, not here.
	session   Session
	sessionMu sync.Mutex

	mu sync.Mutex
}

// New constructs a credential. An empty name defaults to a label
// derived from the PSID prefix, matching the original service.
func New(psid, psidts, name string, maxErrors int) *Credential {
	if name == "" {
		name = "Account-" + prefix(psid, 8)
	}
	if maxErrors <= 0 {
		maxErrors = DefaultMaxErrors
	}
	return &Credential{
		Secure1PSID:   psid,
		Secure1PSIDTS: psidts,
		Name:          name,
		available:     true,
		maxErrors:     maxErrors,
	}
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// MarkFailure records one failed use. The credential leaves rotation
// exactly when the failure count reaches the threshold; nothing else
// ever clears the available flag.
func (c *Credential) MarkFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorCount++
	if c.errorCount >= c.maxErrors {
		c.available = false
	}
}

// MarkSuccess records one successful use, restoring availability and
// resetting the failure count regardless of prior state.
func (c *Credential) MarkSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorCount = 0
	c.available = true
	c.lastUsed = time.Now()
}

// IsAvailable reports whether the credential is in rotation.
func (c *Credential) IsAvailable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.available
}

// LastUsed returns the time of the last successful use (zero if never).
func (c *Credential) LastUsed() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUsed
}

// ErrorCount returns the current consecutive-failure count.
func (c *Credential) ErrorCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errorCount
}

// Status is the per-credential slice of the pool snapshot.
type Status struct {
	Name        string `json:"name"`
	IsAvailable bool   `json:"is_available"`
	ErrorCount  int    `json:"error_count"`
	LastUsed    int64  `json:"last_used"`
}

// Snapshot captures the current health state for reporting.
func (c *Credential) Snapshot() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	var used int64
	if !c.lastUsed.IsZero() {
		used = c.lastUsed.Unix()
	}
	return Status{
		Name:        c.Name,
		IsAvailable: c.available,
		ErrorCount:  c.errorCount,
		LastUsed:    used,
	}
}
