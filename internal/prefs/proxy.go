package prefs

import (
	"net/url"
	"os"
	"strings"

	"golang.org/x/net/http/httpproxy"
)

// proxyTarget is the request URL used to ask the proxy configuration which
// proxy plain HTTP traffic would use.
var proxyTarget = &url.URL{Scheme: "http", Host: "expyvr.invalid"}

// AutoProxy returns the HTTP proxy URL configured in the environment
// (http_proxy, then HTTP_PROXY), normalised to a full URL, or "" when none
// is set or the value cannot be parsed. A nil getenv reads the process
// environment.
func AutoProxy(getenv func(string) string) string {
	if getenv == nil {
		getenv = os.Getenv
	}
	raw := strings.TrimSpace(getenv("http_proxy"))
	if raw == "" {
		raw = strings.TrimSpace(getenv("HTTP_PROXY"))
	}
	if raw == "" {
		return ""
	}
	cfg := httpproxy.Config{HTTPProxy: raw}
	proxyURL, err := cfg.ProxyFunc()(proxyTarget)
	if err != nil || proxyURL == nil {
		return ""
	}
	return proxyURL.String()
}
