// Package whois performs legacy line-oriented registry lookups over a raw
// TCP connection to port 43, one connection per lookup.
package whois

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/namegate/namegate/internal/avail"
)

const (
	// DefaultTimeout bounds the whole read phase with a single shared
	// deadline, not a per-read timeout.
	DefaultTimeout = 5 * time.Second

	// maxResponseBytes caps the accumulated response; registries answering
	// an availability query with more than this are not saying anything a
	// pattern matcher will understand.
	maxResponseBytes = 10 * 1024

	port = "43"
)

// Options tunes the read-phase deadline. Zero selects the default.
type Options struct {
	Timeout time.Duration
}

// Resolver speaks the legacy protocol. It never returns an error: any
// connection, write, or read failure converts to unknown/whois_error.
type Resolver struct {
	opts   Options
	dialer *net.Dialer
	logger *slog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(logger *slog.Logger, opts Options) *Resolver {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Resolver{opts: opts, dialer: &net.Dialer{}, logger: logger}
}

// Resolve queries server for domain and classifies the free-form response.
// An empty server means the TLD has no usable legacy registry.
func (r *Resolver) Resolve(ctx context.Context, domain, server string) avail.Result {
	if server == "" {
		return avail.Unknown(avail.ReasonNoWhoisServer)
	}

	// The query line embeds an attacker-controllable label; restrict it to
	// the characters a registrable name can contain before it touches the
	// wire.
	domain = sanitize(domain)

	text, err := r.exchange(ctx, server, queryFor(server, domain))
	if err != nil {
		r.logger.Debug("whois query failed", "server", server, "domain", domain, "error", err)
		return avail.Unknown(avail.ReasonWhoisError)
	}

	if strings.TrimSpace(text) == "" {
		return avail.Unknown(avail.ReasonWhoisInconclusive)
	}

	status := classify(server, domain, text)
	if status == avail.StatusUnknown {
		return avail.Unknown(avail.ReasonWhoisInconclusive)
	}
	return avail.Result{Status: status}
}

// exchange opens the connection, writes the query line, and reads the
// response until one of three terminal conditions: the shared deadline
// elapses, the accumulated size would exceed the ceiling, or the stream
// closes. The deadline is captured once at entry so many small reads cannot
// extend the total wait. The connection is closed on every exit path.
func (r *Resolver) exchange(ctx context.Context, server, query string) (string, error) {
	dialCtx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	// Route tables carry bare hosts; an explicit port (tests, odd
	// registries) is honoured as-is.
	hostport := server
	if _, _, err := net.SplitHostPort(server); err != nil {
		hostport = net.JoinHostPort(server, port)
	}

	conn, err := r.dialer.DialContext(dialCtx, "tcp", hostport)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	deadline := time.Now().Add(r.opts.Timeout)
	if err := conn.SetDeadline(deadline); err != nil {
		return "", err
	}

	if _, err := conn.Write([]byte(query)); err != nil {
		return "", err
	}

	var acc []byte
	buf := make([]byte, 1024)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			if len(acc)+n > maxResponseBytes {
				acc = append(acc, buf[:maxResponseBytes-len(acc)]...)
				break // overflow: stop reading, keep what fits
			}
			acc = append(acc, buf[:n]...)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break // stream closed: terminal
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				break // shared deadline elapsed: terminal, not a failure
			}
			// A mid-stream failure with nothing accumulated is an error;
			// otherwise classify what we got.
			if len(acc) == 0 {
				return "", err
			}
			break
		}
	}
	return string(acc), nil
}

// sanitize strips everything outside the registrable-name character set.
func sanitize(domain string) string {
	var b strings.Builder
	b.Grow(len(domain))
	for i := 0; i < len(domain); i++ {
		c := domain[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' || c == '.' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
