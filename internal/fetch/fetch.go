// Package fetch retrieves remote articles and reduces them to plain text
// for the parser. It is deliberately paranoid: only public http(s)
// destinations, re-validated on every redirect hop, with hard caps on size
// and redirect depth.
package fetch

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/eventwire/internal/config"
	"github.com/sells-group/eventwire/internal/resilience"
)

// Sentinel errors, matched by the boundary layer with errors.Is.
var (
	ErrBlocked                = eris.New("fetch: blocked destination")
	ErrTooLarge               = eris.New("fetch: document exceeds max size")
	ErrUnsupportedContentType = eris.New("fetch: unsupported content type")
	ErrUpstream               = eris.New("fetch: upstream failure")
)

// Result is the fetched document reduced to plain text.
type Result struct {
	URL         string
	ContentType string
	Text        string
}

// Fetcher downloads pages with SSRF guards and per-host rate limiting.
type Fetcher struct {
	client *http.Client
	cfg    config.Fetch
	retry  resilience.Policy

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// New creates a Fetcher. Redirects are followed manually so every hop goes
// through the destination guard.
func New(cfg config.Fetch) *Fetcher {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 2 << 20
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = 3
	}
	if cfg.TimeoutSecs <= 0 {
		cfg.TimeoutSecs = 10
	}
	if cfg.RatePerHost <= 0 {
		cfg.RatePerHost = 2
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSecs) * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		cfg: cfg,
		retry: resilience.Policy{
			Attempts:  2,
			BaseDelay: 250 * time.Millisecond,
			MaxDelay:  time.Second,
		},
		limiters: make(map[string]*rate.Limiter),
	}
}

// ValidateURL rejects URLs whose scheme is not http(s) or whose host
// resolves to a private, loopback, link-local, multicast, reserved, or
// unspecified address.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return eris.Wrap(ErrBlocked, "invalid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return eris.Wrap(ErrBlocked, "only http(s) URLs are allowed")
	}
	host := u.Hostname()
	if host == "" {
		return eris.Wrap(ErrBlocked, "URL must include a hostname")
	}

	if ip := net.ParseIP(host); ip != nil {
		if ipBlocked(ip) {
			return eris.Wrap(ErrBlocked, "blocked IP address")
		}
		return nil
	}

	ips, err := net.LookupIP(host)
	if err != nil {
		return eris.Wrapf(ErrUpstream, "DNS resolution failed: %v", err)
	}
	for _, ip := range ips {
		if ipBlocked(ip) {
			return eris.Wrap(ErrBlocked, "host resolves to a blocked address")
		}
	}
	return nil
}

func ipBlocked(ip net.IP) bool {
	return ip.IsPrivate() ||
		ip.IsLoopback() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsMulticast() ||
		ip.IsUnspecified()
}

// Fetch downloads the URL and returns its plain-text content. Transient
// upstream failures are retried once before surfacing.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}
	if err := f.limiter(rawURL).Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "fetch: rate limit wait")
	}

	return resilience.DoVal(ctx, f.retry, "fetch "+rawURL, func(ctx context.Context) (*Result, error) {
		return f.fetchOnce(ctx, rawURL)
	})
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (*Result, error) {
	current := rawURL
	for redirects := 0; ; redirects++ {
		resp, err := f.get(ctx, current)
		if err != nil {
			return nil, err
		}

		if isRedirect(resp.StatusCode) {
			loc := resp.Header.Get("Location")
			resp.Body.Close()
			if loc == "" {
				return nil, eris.Wrap(ErrUpstream, "redirect without Location header")
			}
			if redirects >= f.cfg.MaxRedirects {
				return nil, eris.Wrap(ErrUpstream, "too many redirects")
			}
			next, err := url.Parse(current)
			if err != nil {
				return nil, eris.Wrap(ErrUpstream, "invalid redirect base")
			}
			ref, err := url.Parse(loc)
			if err != nil {
				return nil, eris.Wrap(ErrUpstream, "invalid redirect target")
			}
			current = next.ResolveReference(ref).String()
			if err := ValidateURL(current); err != nil {
				return nil, err
			}
			continue
		}

		return f.read(resp, current)
	}
}

func (f *Fetcher) get(ctx context.Context, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, eris.Wrap(ErrUpstream, "build request")
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,text/plain;q=0.9,*/*;q=0.1")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(ErrUpstream, "request failed: %v", err)
	}
	return resp, nil
}

func (f *Fetcher) read(resp *http.Response, finalURL string) (*Result, error) {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		err := eris.Wrapf(ErrUpstream, "upstream returned HTTP %d", resp.StatusCode)
		if resilience.TransientStatus(resp.StatusCode) {
			return nil, resilience.MarkTransient(err, resp.StatusCode)
		}
		return nil, err
	}

	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(resp.Header.Get("Content-Type"), ";", 2)[0]))
	if contentType != "text/html" && contentType != "text/plain" {
		return nil, eris.Wrapf(ErrUnsupportedContentType, "content type %q", contentType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBytes+1))
	if err != nil {
		return nil, eris.Wrapf(ErrUpstream, "read body: %v", err)
	}
	if int64(len(body)) > f.cfg.MaxBytes {
		return nil, ErrTooLarge
	}

	var text string
	if contentType == "text/plain" {
		text = capText(string(body))
	} else {
		text, err = htmlToText(body)
		if err != nil {
			return nil, eris.Wrapf(ErrUpstream, "extract text: %v", err)
		}
	}

	zap.L().Debug("fetch: document retrieved",
		zap.String("url", finalURL),
		zap.String("content_type", contentType),
		zap.Int("text_len", len(text)),
	)
	return &Result{URL: finalURL, ContentType: contentType, Text: text}, nil
}

func (f *Fetcher) limiter(rawURL string) *rate.Limiter {
	host := ""
	if u, err := url.Parse(rawURL); err == nil {
		host = u.Hostname()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	lim, ok := f.limiters[host]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(f.cfg.RatePerHost), 1)
		f.limiters[host] = lim
	}
	return lim
}

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}
