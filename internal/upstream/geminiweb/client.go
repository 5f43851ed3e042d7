package geminiweb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// Options tune a client. Zero values fall back to the defaults the web
// app uses; the URL overrides exist for tests.
type Options struct {
	UserAgent   string
	Timeout     time.Duration
	InitURL     string
	GenerateURL string
}

// Client is one authenticated browser session against the Gemini web
// app. It is safe for concurrent use after Init.
type Client struct {
	cookies     map[string]string
	userAgent   string
	httpClient  *http.Client
	initURL     string
	generateURL string

	snlm0e string
	bl     string
}

// NewClient builds an uninitialized client for the given cookie pair.
// Call Init before Generate.
func NewClient(psid, psidts string, opts Options) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.InitURL == "" {
		opts.InitURL = EndpointInit
	}
	if opts.GenerateURL == "" {
		opts.GenerateURL = EndpointGenerate
	}
	cookies := map[string]string{cookiePSID: psid}
	if psidts != "" {
		cookies[cookiePSIDTS] = psidts
	}
	return &Client{
		cookies:     cookies,
		userAgent:   opts.UserAgent,
		httpClient:  &http.Client{Timeout: opts.Timeout},
		initURL:     opts.InitURL,
		generateURL: opts.GenerateURL,
	}
}

// Init loads the app page and scrapes the SNlM0e session token and the
// frontend build label. A sign-in page means the cookies are invalid.
func (c *Client) Init(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.initURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	c.applyCookies(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("loading app page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &AuthError{Msg: fmt.Sprintf("app page returned %s", resp.Status)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading app page: %w", err)
	}

	page := string(body)
	if m := reSNlM0e.FindStringSubmatch(page); len(m) == 2 {
		c.snlm0e = m[1]
	}
	if m := reBL.FindStringSubmatch(page); len(m) == 2 {
		c.bl = m[1]
	}

	if c.snlm0e == "" {
		if strings.Contains(page, "Sign in") || strings.Contains(page, "accounts.google.com") {
			return &AuthError{Msg: "cookies rejected, sign-in page served"}
		}
		return &AuthError{Msg: "could not extract session token"}
	}
	if c.bl == "" {
		c.bl = defaultBL
	}

	log.WithField("bl", c.bl).Debug("gemini web session initialized")
	return nil
}

// Generate sends one prompt to the given model and returns the full
// reply text. Each call is an independent conversation.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	if prompt == "" {
		return "", &APIError{Msg: "prompt cannot be empty"}
	}
	m, _ := ModelFromName(model)

	inner, err := json.Marshal([]any{[]any{prompt}, nil, nil})
	if err != nil {
		return "", err
	}
	outer, err := json.Marshal([]any{nil, string(inner)})
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("f.req", string(outer))
	form.Set("at", c.snlm0e)

	params := url.Values{}
	params.Set("bl", c.bl)
	params.Set("_reqid", strconv.Itoa(rand.Intn(900000)+100000))
	params.Set("rt", "c")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.generateURL+"?"+params.Encode(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	for k, v := range apiHeaders() {
		req.Header.Set(k, v)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if m.Header != "" {
		req.Header.Set(modelHeaderName, m.Header)
	}
	c.applyCookies(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", apiErrorForCode(ErrorCodeIPBlocked)
	case resp.StatusCode != http.StatusOK:
		return "", &APIError{Msg: fmt.Sprintf("generate returned status %d", resp.StatusCode)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading generate response: %w", err)
	}
	return parseGenerateResponse(raw)
}

func (c *Client) applyCookies(req *http.Request) {
	for name, value := range c.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
}
