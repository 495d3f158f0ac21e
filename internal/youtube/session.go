package youtube

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
)

const userAgentChrome = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Responses larger than this are truncated; the embedded state of even the
// heaviest channel pages stays well below it.
const maxResponseBytes = 20 << 20

// Session is a browsing session that looks like Chrome to the host: TLS
// fingerprint, header order, cookies. Owned exclusively by the operation that
// opened it; concurrent operations each open their own.
type Session struct {
	hc       tls_client.HttpClient
	language string
}

// OpenSession builds the session client. The consent gate is not touched
// here; it is satisfied lazily on the first request that hits it.
func OpenSession(language string) (*Session, error) {
	jar := tls_client.NewCookieJar()
	opts := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(30),
		tls_client.WithClientProfile(profiles.Chrome_131),
		tls_client.WithCookieJar(jar),
	}
	hc, err := tls_client.NewHttpClient(nil, opts...)
	if err != nil {
		return nil, &SessionError{Reason: "client init", Err: err}
	}
	return &Session{hc: hc, language: language}, nil
}

// Get performs one GET and returns body, status and the final URL after
// redirects. A regional consent interstitial is detected and bypassed
// transparently: the acceptance cookies are set and the original request is
// replayed once. If the gate is still up after that, the bypass mechanism
// has changed and a SessionError is returned.
func (s *Session) Get(ctx context.Context, rawURL string) ([]byte, int, string, error) {
	body, status, finalURL, err := s.doGet(ctx, rawURL)
	if err != nil {
		return nil, 0, "", err
	}
	if !isConsentPage(finalURL, body) {
		return body, status, finalURL, nil
	}

	slog.Debug("consent gate detected, setting acceptance cookies", slog.String("url", finalURL))
	s.setConsentCookies()

	body, status, finalURL, err = s.doGet(ctx, rawURL)
	if err != nil {
		return nil, 0, "", err
	}
	if isConsentPage(finalURL, body) {
		return nil, 0, "", &SessionError{Reason: "consent gate still active after cookie bypass"}
	}
	return body, status, finalURL, nil
}

func (s *Session) doGet(ctx context.Context, rawURL string) ([]byte, int, string, error) {
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("accept-language", acceptLanguage(s.language))
	req.Header.Set("user-agent", userAgentChrome)

	// Chrome-like header order matters for fingerprinting.
	req.Header[fhttp.HeaderOrderKey] = []string{
		"accept",
		"accept-language",
		"referer",
		"cookie",
		"user-agent",
	}

	resp, err := s.hc.Do(req)
	if err != nil {
		return nil, 0, "", err
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return nil, resp.StatusCode, "", fmt.Errorf("read body: %w", err)
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	return body, resp.StatusCode, finalURL, nil
}

// Post sends a JSON payload and returns body and status. Used by the RPC
// client; consent handling does not apply to the RPC endpoint.
func (s *Session) Post(ctx context.Context, rawURL string, payload []byte, headers map[string]string) ([]byte, int, error) {
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodPost, rawURL, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("user-agent", userAgentChrome)
	req.Header.Set("accept-language", acceptLanguage(s.language))
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.hc.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// Close releases idle connections held by the session.
func (s *Session) Close() {
	s.hc.CloseIdleConnections()
}

func acceptLanguage(lang string) string {
	if lang == "" || lang == "en" {
		return "en-US,en;q=0.9"
	}
	return lang + "," + lang + ";q=0.9,en;q=0.5"
}

// isConsentPage reports whether the response is the regional consent
// interstitial rather than the requested content.
func isConsentPage(finalURL string, body []byte) bool {
	if strings.Contains(finalURL, "consent.youtube.com") || strings.Contains(finalURL, "consent.google.com") {
		return true
	}
	return bytes.Contains(body, []byte(`action="https://consent.youtube.com/s`))
}

// setConsentCookies installs the acceptance cookies the consent form would
// have set. Both the legacy CONSENT cookie and the newer SOCS cookie are set;
// the host honors whichever generation of the gate it is running.
func (s *Session) setConsentCookies() {
	u, err := url.Parse("https://www.youtube.com/")
	if err != nil {
		return
	}
	s.hc.SetCookies(u, []*fhttp.Cookie{
		{Name: "CONSENT", Value: "YES+cb.20210328-17-p0.en+FX+678", Domain: ".youtube.com", Path: "/"},
		{Name: "SOCS", Value: "CAI", Domain: ".youtube.com", Path: "/"},
	})
}

func readBody(resp *fhttp.Response) ([]byte, error) {
	var r io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}
	return io.ReadAll(io.LimitReader(r, maxResponseBytes))
}
