package dialect

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"mygrid/domain"
)

// Converter translates the commands of one session between the caller's dialect and the node's.
// A Converter for equal dialects passes everything through untouched.
type Converter struct {
	caller domain.Dialect
	node   domain.Dialect
}

// NewConverter creates a Converter for a session whose caller speaks caller and whose node speaks node.
func NewConverter(caller, node domain.Dialect) *Converter {
	return &Converter{caller: caller, node: node}
}

// Passthrough reports whether both sides speak the same dialect.
func (c *Converter) Passthrough() bool {
	return c.caller == c.node
}

var (
	reFindElement = regexp.MustCompile(`^/(element/[^/]+/)?elements?$`)
	reSendKeys    = regexp.MustCompile(`^/element/[^/]+/value$`)
)

type pathRename struct {
	method string
	w3c    string
	legacy string
}

var pathRenames = []pathRename{
	{http.MethodPost, "/execute/sync", "/execute"},
	{http.MethodPost, "/execute/async", "/execute_async"},
	{http.MethodGet, "/window", "/window_handle"},
	{http.MethodGet, "/window/handles", "/window_handles"},
}

// Request converts a caller command into the node's dialect: path renames, element references and the
// command-specific body shapes (locators, send keys, timeouts, window switch).
func (c *Converter) Request(sessionID string, cmd domain.Command) (domain.Command, error) {
	if c.Passthrough() {
		return cmd, nil
	}
	root := "/session/" + sessionID
	rel := strings.TrimPrefix(cmd.Path, root)
	if rel == cmd.Path {
		return cmd, nil
	}

	out := cmd
	out.Path = root + c.renamePath(cmd.Method, rel)
	if len(bytes.TrimSpace(cmd.Body)) == 0 {
		return out, nil
	}

	var body map[string]any
	if err := json.Unmarshal(cmd.Body, &body); err != nil {
		return domain.Command{}, fmt.Errorf("%w: request body for %s %s is not a JSON object: %v", ErrTranslation, cmd.Method, rel, err)
	}
	body, _ = c.convertElements(body, c.caller, c.node).(map[string]any)

	var err error
	if cmd.Method == http.MethodPost {
		switch {
		case reFindElement.MatchString(rel):
			if c.node == domain.DialectW3C {
				body, err = locatorToW3C(body)
			}
		case reSendKeys.MatchString(rel):
			body, err = c.sendKeys(body)
		case rel == "/timeouts":
			body, err = c.timeouts(body)
		case rel == "/window":
			body = c.switchWindow(body)
		}
	}
	if err != nil {
		return domain.Command{}, err
	}

	b, err := json.Marshal(body)
	if err != nil {
		return domain.Command{}, fmt.Errorf("%w: %v", ErrTranslation, err)
	}
	out.Body = b
	return out, nil
}

func (c *Converter) renamePath(method, rel string) string {
	for _, r := range pathRenames {
		if r.method != method {
			continue
		}
		if c.node == domain.DialectOSS && rel == r.w3c {
			return r.legacy
		}
		if c.node == domain.DialectW3C && rel == r.legacy {
			return r.w3c
		}
	}
	return rel
}

// Response converts a node's answer into the caller's dialect. The envelope (status number vs error object),
// the HTTP status and element references change; all other fields of "value" are kept as they are.
func (c *Converter) Response(sessionID string, resp domain.CommandResponse) (domain.CommandResponse, error) {
	if c.Passthrough() {
		return resp, nil
	}
	value, errCode, errMsg, err := c.readNodeResponse(resp)
	if err != nil {
		return domain.CommandResponse{}, err
	}

	header := resp.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	header.Del("Content-Length")
	header.Set("Content-Type", "application/json; charset=utf-8")

	if errCode != "" {
		body, status := ErrorBody(c.caller, errCode, errMsg, sessionID)
		return domain.CommandResponse{StatusCode: status, Header: header, Body: body}, nil
	}

	value = c.convertElements(value, c.node, c.caller)
	var envelope map[string]any
	if c.caller == domain.DialectOSS {
		envelope = map[string]any{"status": 0, "sessionId": sessionID, "value": value}
	} else {
		envelope = map[string]any{"value": value}
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return domain.CommandResponse{}, fmt.Errorf("%w: %v", ErrTranslation, err)
	}
	return domain.CommandResponse{StatusCode: http.StatusOK, Header: header, Body: body}, nil
}

// readNodeResponse returns the success value, or a W3C error code and message, from a node response.
func (c *Converter) readNodeResponse(resp domain.CommandResponse) (value any, errCode, errMsg string, err error) {
	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		if ok {
			return nil, "", "", nil
		}
		return nil, "", "", fmt.Errorf("%w: node answered %d with an empty body", ErrTranslation, resp.StatusCode)
	}
	var raw map[string]any
	if err := json.Unmarshal(resp.Body, &raw); err != nil {
		return nil, "", "", fmt.Errorf("%w: node answered %d with a non-JSON body", ErrTranslation, resp.StatusCode)
	}

	if c.node == domain.DialectOSS {
		status, has := raw["status"].(float64)
		switch {
		case has && status == 0:
			return raw["value"], "", "", nil
		case has:
			return nil, CodeForLegacyStatus(int(status)), messageOf(raw["value"]), nil
		case ok:
			if v, hasValue := raw["value"]; hasValue {
				return v, "", "", nil
			}
		}
		return nil, "", "", fmt.Errorf("%w: legacy response without status", ErrTranslation)
	}

	v, hasValue := raw["value"]
	if !hasValue {
		return nil, "", "", fmt.Errorf("%w: W3C response without value", ErrTranslation)
	}
	if !ok {
		m, _ := v.(map[string]any)
		code, _ := m["error"].(string)
		if code == "" {
			return nil, "", "", fmt.Errorf("%w: W3C error response without error code", ErrTranslation)
		}
		return nil, code, messageOf(m), nil
	}
	return v, "", "", nil
}

// convertElements rewrites element references found anywhere in v from dialect from to dialect to.
func (c *Converter) convertElements(v any, from, to domain.Dialect) any {
	if from == to {
		return v
	}
	fromKey, toKey := ElementKeyW3C, ElementKeyLegacy
	if from == domain.DialectOSS {
		fromKey, toKey = ElementKeyLegacy, ElementKeyW3C
	}
	return rewriteElementKey(v, fromKey, toKey)
}

func rewriteElementKey(v any, fromKey, toKey string) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = rewriteElementKey(vv, fromKey, toKey)
		}
		if ref, ok := out[fromKey]; ok {
			if _, clash := out[toKey]; !clash {
				delete(out, fromKey)
				out[toKey] = ref
			}
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = rewriteElementKey(t[i], fromKey, toKey)
		}
		return out
	}
	return v
}

// locatorToW3C maps the legacy-only strategies onto CSS selectors.
func locatorToW3C(body map[string]any) (map[string]any, error) {
	using, _ := body["using"].(string)
	value, ok := body["value"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: find element without string value", ErrTranslation)
	}
	switch using {
	case "id":
		body["using"], body["value"] = "css selector", `[id="`+cssQuote(value)+`"]`
	case "name":
		body["using"], body["value"] = "css selector", `*[name="`+cssQuote(value)+`"]`
	case "class name":
		if strings.ContainsAny(value, " \t") {
			return nil, fmt.Errorf("%w: compound class names are not supported", ErrTranslation)
		}
		body["using"], body["value"] = "css selector", "."+cssIdent(value)
	}
	return body, nil
}

func cssQuote(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

func cssIdent(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '-' || r == '_' || r > 127,
			r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9' && i > 0:
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (c *Converter) sendKeys(body map[string]any) (map[string]any, error) {
	if c.node == domain.DialectOSS {
		text, ok := body["text"].(string)
		if !ok {
			return body, nil
		}
		keys := make([]any, 0, len(text))
		for _, r := range text {
			keys = append(keys, string(r))
		}
		delete(body, "text")
		body["value"] = keys
		return body, nil
	}
	if _, ok := body["text"]; ok {
		return body, nil
	}
	keys, ok := body["value"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: send keys without value array", ErrTranslation)
	}
	var b strings.Builder
	for _, k := range keys {
		s, ok := k.(string)
		if !ok {
			return nil, fmt.Errorf("%w: send keys value must hold strings", ErrTranslation)
		}
		b.WriteString(s)
	}
	body["text"] = b.String()
	return body, nil
}

var timeoutNames = []struct{ w3c, legacy string }{
	{"implicit", "implicit"},
	{"pageLoad", "page load"},
	{"script", "script"},
}

func (c *Converter) timeouts(body map[string]any) (map[string]any, error) {
	if c.node == domain.DialectW3C {
		typ, ok := body["type"].(string)
		if !ok {
			return body, nil
		}
		for _, n := range timeoutNames {
			if n.legacy == typ {
				return map[string]any{n.w3c: body["ms"]}, nil
			}
		}
		return nil, fmt.Errorf("%w: unknown timeout type %q", ErrTranslation, typ)
	}
	var out map[string]any
	for _, n := range timeoutNames {
		ms, ok := body[n.w3c]
		if !ok {
			continue
		}
		if out != nil {
			return nil, fmt.Errorf("%w: legacy timeouts take one type per command", ErrTranslation)
		}
		out = map[string]any{"type": n.legacy, "ms": ms}
	}
	if out == nil {
		return body, nil
	}
	return out, nil
}

func (c *Converter) switchWindow(body map[string]any) map[string]any {
	from, to := "handle", "name"
	if c.node == domain.DialectW3C {
		from, to = "name", "handle"
	}
	if v, ok := body[from]; ok {
		if _, exists := body[to]; !exists {
			delete(body, from)
			body[to] = v
		}
	}
	return body
}

// SessionGone reports whether a node response in dialect d says the session no longer exists
// (W3C "invalid session id", legacy status 6).
func SessionGone(d domain.Dialect, resp domain.CommandResponse) bool {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 && d == domain.DialectW3C {
		return false
	}
	var raw map[string]any
	if err := json.Unmarshal(resp.Body, &raw); err != nil {
		return false
	}
	if d == domain.DialectOSS {
		status, ok := raw["status"].(float64)
		return ok && int(status) == LegacyStatus(CodeInvalidSessionID)
	}
	value, _ := raw["value"].(map[string]any)
	code, _ := value["error"].(string)
	return code == CodeInvalidSessionID
}
