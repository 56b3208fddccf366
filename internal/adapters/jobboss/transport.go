// Package jobboss contains the live transport adapter for the JobBOSS
// RequestProcessor, reached through its HTTP bridge service. It implements
// secondary.Transport; everything above it is transport-agnostic.
package jobboss

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/example/jbatch/internal/adapters/jbxml"
	"github.com/example/jbatch/internal/ports/secondary"
)

// Credentials is the opaque bundle the transport is constructed from.
// Storage and acquisition are the caller's concern.
type Credentials struct {
	Username string
	Password string
}

// CredentialsFromEnv reads the conventional JOBBOSS_USER / JOBBOSS_PASSWORD
// environment variables.
func CredentialsFromEnv() (Credentials, error) {
	user := os.Getenv("JOBBOSS_USER")
	pass := os.Getenv("JOBBOSS_PASSWORD")
	if user == "" || pass == "" {
		return Credentials{}, fmt.Errorf("missing credentials: set JOBBOSS_USER and JOBBOSS_PASSWORD")
	}
	return Credentials{Username: user, Password: pass}, nil
}

// HTTPTransport submits JBXML documents to the bridge service. A session is
// created lazily on first use and torn down by Close. Not safe for
// concurrent use; the executor is strictly sequential.
type HTTPTransport struct {
	endpoint string
	creds    Credentials
	client   *http.Client
	session  string
}

var _ secondary.Transport = (*HTTPTransport)(nil)

// NewHTTPTransport creates a transport against the bridge base URL.
// timeout bounds each round-trip, session creation included.
func NewHTTPTransport(endpoint string, creds Credentials, timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		endpoint: strings.TrimRight(endpoint, "/"),
		creds:    creds,
		client:   &http.Client{Timeout: timeout},
	}
}

// Submit resolves the session placeholder and posts the document to the
// bridge. Timeouts and connection failures come back as TransportError with
// the Timeout flag set where applicable; callers decide whether a timeout
// on their particular request is ambiguous.
func (t *HTTPTransport) Submit(ctx context.Context, xmlDoc string) (string, error) {
	if t.session == "" {
		if err := t.createSession(ctx); err != nil {
			return "", err
		}
	}

	doc := jbxml.ResolveSession(xmlDoc, t.session)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint+"/request", strings.NewReader(doc))
	if err != nil {
		return "", &secondary.TransportError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", classify(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classify(err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &secondary.TransportError{
			Message: fmt.Sprintf("bridge returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}
	return string(body), nil
}

// Close tears down the session. Best-effort: an expired session on the
// bridge side is not an error worth failing a finished run over.
func (t *HTTPTransport) Close(ctx context.Context) error {
	if t.session == "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, t.endpoint+"/session/"+url.PathEscape(t.session), nil)
	if err != nil {
		return err
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	t.session = ""
	return nil
}

func (t *HTTPTransport) createSession(ctx context.Context) error {
	form := url.Values{}
	form.Set("username", t.creds.Username)
	form.Set("password", t.creds.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint+"/session", strings.NewReader(form.Encode()))
	if err != nil {
		return &secondary.TransportError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return classify(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return classify(err)
	}
	if resp.StatusCode != http.StatusOK {
		return &secondary.TransportError{
			Message: fmt.Sprintf("session refused: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}
	session := strings.TrimSpace(string(body))
	if session == "" {
		return &secondary.TransportError{Message: "session refused: empty session token"}
	}
	t.session = session
	return nil
}

func classify(err error) error {
	var nerr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
		return &secondary.TransportError{Message: err.Error(), Timeout: true}
	}
	return &secondary.TransportError{Message: err.Error()}
}
