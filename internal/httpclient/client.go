// Package httpclient constructs the shared *req.Client instances used for
// structured-protocol lookups and the metered upstream.
package httpclient

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/imroc/req/v3"

	"github.com/namegate/namegate/internal/ratelimit"
	"github.com/namegate/namegate/internal/version"
)

// DefaultUserAgent identifies namegate honestly so registry operators can
// recognise its traffic.
// var (not const) because version.Version is a link-time variable.
var DefaultUserAgent = "namegate/" + version.Version + " (+https://github.com/namegate/namegate)"

// New builds a *req.Client with optional proxy and user-agent configuration.
// proxy supports http://, https://, and socks5:// URLs via req's SetProxyURL;
// when empty, the standard proxy environment variables are honoured. When
// debug is true and logger is non-nil, an OnAfterResponse hook logs method,
// URL, and status at DEBUG level.
func New(proxy, userAgent string, logger *slog.Logger, debug bool) (*req.Client, error) {
	client := req.NewClient()

	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	client.SetUserAgent(userAgent)

	if proxy != "" {
		if err := validateProxy(proxy); err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", proxy, err)
		}
		client.SetProxyURL(proxy)
	} else {
		client.SetProxy(http.ProxyFromEnvironment)
	}

	if debug && logger != nil {
		attachDebugHook(client, logger)
	}

	return client, nil
}

// Pace hooks a Limiter onto the client's request pipeline via
// OnBeforeRequest, gating every outbound request. It deliberately attaches
// no retry conditions: resolvers own their retry policy and must see the
// first failure themselves.
func Pace(client *req.Client, limiter *ratelimit.Limiter) {
	client.OnBeforeRequest(func(_ *req.Client, r *req.Request) error {
		return limiter.Wait(r.Context())
	})
}

// attachDebugHook registers an OnAfterResponse hook that logs the HTTP
// method, URL, and status code at DEBUG level, with a body snippet on
// non-2xx responses.
func attachDebugHook(client *req.Client, logger *slog.Logger) {
	client.OnAfterResponse(func(_ *req.Client, resp *req.Response) error {
		if resp.Request == nil || resp.Request.RawRequest == nil {
			return nil
		}
		logger.Debug("http response",
			"method", resp.Request.RawRequest.Method,
			"url", resp.Request.RawRequest.URL.String(),
			"status", resp.StatusCode,
		)
		if !resp.IsSuccessState() {
			body := resp.String()
			if len(body) > 512 {
				body = body[:512]
			}
			logger.Debug("http error body",
				"status", resp.StatusCode,
				"body", body,
			)
		}
		return nil
	})
}

func validateProxy(proxy string) error {
	for _, scheme := range []string{"http://", "https://", "socks5://"} {
		if len(proxy) >= len(scheme) && proxy[:len(scheme)] == scheme {
			return nil
		}
	}
	return fmt.Errorf("proxy scheme must be http://, https://, or socks5://")
}
