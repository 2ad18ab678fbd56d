package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/DanielPopoola/gulfpay/internal/application"
	"github.com/DanielPopoola/gulfpay/internal/interfaces/rest"
)

const RedirectParam = "redirect_url"

// RedirectGuard rejects a redirect_url query parameter that would send the
// customer off-site. Relative paths, the request's own host and the listed
// hosts are allowed; only http and https schemes are.
func RedirectGuard(allowedHosts []string, logger *slog.Logger) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedHosts))
	for _, host := range allowedHosts {
		if host = normalizeHost(host); host != "" {
			allowed[host] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			target := r.URL.Query().Get(RedirectParam)
			if target == "" {
				next.ServeHTTP(w, r)
				return
			}

			if reason := checkRedirect(target, normalizeHost(r.Host), allowed); reason != "" {
				logger.WarnContext(r.Context(), "redirect rejected",
					"request_id", RequestID(r.Context()),
					"redirect_url", target,
					"reason", reason,
				)
				rest.WriteError(w, application.NewInvalidRedirectError(reason), logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func checkRedirect(target, requestHost string, allowed map[string]struct{}) string {
	if strings.ContainsAny(target, "\\\r\n\t") {
		return "illegal characters"
	}

	u, err := url.Parse(target)
	if err != nil {
		return "unparseable"
	}

	if !u.IsAbs() {
		// "//host/path" is protocol-relative, not a local path.
		if u.Host != "" || !strings.HasPrefix(u.Path, "/") {
			return "relative redirects must be absolute paths"
		}
		return ""
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "scheme not allowed"
	}
	if u.User != nil {
		return "credentials not allowed"
	}

	host := normalizeHost(u.Host)
	if host == "" {
		return "missing host"
	}
	if host == requestHost {
		return ""
	}
	if _, ok := allowed[host]; ok {
		return ""
	}
	return "host not allowed"
}

// normalizeHost lower-cases and drops any port.
func normalizeHost(hostport string) string {
	hostport = strings.ToLower(strings.TrimSpace(hostport))
	if host, _, err := net.SplitHostPort(hostport); err == nil {
		return host
	}
	return hostport
}
