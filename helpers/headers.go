package helpers

import (
	"net/http"
	"net/url"
	"strings"
)

// HeaderRegistrationSecret is the header a node (or operator) sends to prove it may register, drain or remove nodes.
const HeaderRegistrationSecret = "X-Registration-Secret"

// hopHeaders are connection-scoped and never forwarded to a node.
var hopHeaders = []string{
	"Connection",
	"Proxy-Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// GetHeaderValue returns the first non-empty value of header key (canonicalized by net/http).
//
// Parameters: h: request headers (nil allowed, returns ("", false)); key: header name.
//
// Returns: (value, true) when there is a non-empty value after trimming; ("", false) otherwise.
//
// Called from handlers.RegistrationSecret when checking X-Registration-Secret.
func GetHeaderValue(h http.Header, key string) (string, bool) {
	if h == nil || key == "" {
		return "", false
	}
	v := strings.TrimSpace(h.Get(key))
	if v == "" {
		return "", false
	}
	return v, true
}

// ForwardHeaders copies src into a new header set suitable for sending to a node: hop-by-hop headers
// (including those named in Connection) are dropped and Host is left to the caller.
//
// Parameters: src: caller request headers (nil allowed, returns empty header).
//
// Returns: new http.Header; src is not modified.
//
// Called from service.SessionProxy before forwarding a session command and from handlers.Router when relaying
// the node answer.
func ForwardHeaders(src http.Header) http.Header {
	dst := make(http.Header, len(src))
	for k, vv := range src {
		dst[k] = append([]string(nil), vv...)
	}
	for _, f := range dst.Values("Connection") {
		for _, name := range strings.Split(f, ",") {
			if name = strings.TrimSpace(name); name != "" {
				dst.Del(name)
			}
		}
	}
	for _, h := range hopHeaders {
		dst.Del(h)
	}
	dst.Del("Host")
	dst.Del("Content-Length")
	return dst
}

// RewriteHost points req at target: scheme and host come from target, path is target's path joined with req's path,
// and req.Host is set so the Host header names the node rather than the router.
//
// Parameters: req: outgoing request (must not be nil); target: node base URI (e.g. http://10.0.0.5:5555 or http://node/wd/hub).
//
// Called from adapters.NodeHTTP.Do when forwarding a session command.
func RewriteHost(req *http.Request, target *url.URL) {
	req.URL.Scheme = target.Scheme
	req.URL.Host = target.Host
	req.URL.Path = JoinURLPath(target.Path, req.URL.Path)
	req.URL.RawPath = ""
	req.Host = target.Host
}

// JoinURLPath joins base and rel with exactly one slash between them.
func JoinURLPath(base, rel string) string {
	switch {
	case base == "" || base == "/":
		if !strings.HasPrefix(rel, "/") {
			return "/" + rel
		}
		return rel
	case rel == "":
		return base
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(rel, "/")
}
