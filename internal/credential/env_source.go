package credential

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// EnvSource loads credentials from environment variables. Three
// origins are merged in a fixed order:
//
//  1. SECURE_1PSID / SECURE_1PSIDTS, a single primary account
//  2. COOKIES_JSON, a JSON array of cookie objects
//  3. COOKIE_<n>_PSID / COOKIE_<n>_PSIDTS / COOKIE_<n>_NAME numbered
//     slots, scanned from 1 until the first missing PSID
//
// Duplicates across origins are kept as distinct pool entries.
type EnvSource struct {
	maxErrors int
}

// NewEnvSource creates an environment source whose credentials disable
// after maxErrors consecutive failures.
func NewEnvSource(maxErrors int) *EnvSource {
	return &EnvSource{maxErrors: maxErrors}
}

func (s *EnvSource) Name() string { return "env" }

type cookieJSON struct {
	Secure1PSID   string `json:"secure_1psid"`
	Secure1PSIDTS string `json:"secure_1psidts"`
	Name          string `json:"name"`
}

// Load merges all three origins in order.
func (s *EnvSource) Load(_ context.Context) ([]*Credential, error) {
	var creds []*Credential

	if psid := strings.TrimSpace(os.Getenv("SECURE_1PSID")); psid != "" {
		creds = append(creds, New(psid, os.Getenv("SECURE_1PSIDTS"), "Primary Account", s.maxErrors))
	}

	creds = append(creds, s.loadJSON()...)
	creds = append(creds, s.loadNumbered()...)

	log.WithField("count", len(creds)).Info("loaded cookies from environment")
	return creds, nil
}

// loadJSON parses the COOKIES_JSON array. A malformed document or a
// malformed entry is logged and skipped rather than failing the whole
// load, so one bad origin never takes down a working one.
func (s *EnvSource) loadJSON() []*Credential {
	raw := strings.TrimSpace(os.Getenv("COOKIES_JSON"))
	if raw == "" {
		return nil
	}
	var entries []cookieJSON
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.WithField("error", err).Warn("COOKIES_JSON is not valid JSON, skipping")
		return nil
	}
	var creds []*Credential
	for i, e := range entries {
		if strings.TrimSpace(e.Secure1PSID) == "" {
			log.WithField("index", i).Warn("COOKIES_JSON entry missing secure_1psid, skipping")
			continue
		}
		name := e.Name
		if name == "" {
			name = fmt.Sprintf("Account-%d", i+1)
		}
		creds = append(creds, New(e.Secure1PSID, e.Secure1PSIDTS, name, s.maxErrors))
	}
	return creds
}

// loadNumbered scans COOKIE_1_PSID, COOKIE_2_PSID, ... and stops at
// the first index with no PSID set.
func (s *EnvSource) loadNumbered() []*Credential {
	var creds []*Credential
	for i := 1; ; i++ {
		psid := strings.TrimSpace(os.Getenv(fmt.Sprintf("COOKIE_%d_PSID", i)))
		if psid == "" {
			break
		}
		name := os.Getenv(fmt.Sprintf("COOKIE_%d_NAME", i))
		if name == "" {
			name = fmt.Sprintf("Account-%d", i)
		}
		psidts := os.Getenv(fmt.Sprintf("COOKIE_%d_PSIDTS", i))
		creds = append(creds, New(psid, psidts, name, s.maxErrors))
	}
	return creds
}
