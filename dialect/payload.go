package dialect

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"mygrid/domain"
)

// ElementKeyW3C is the key under which W3C encodes element references; legacy uses ElementKeyLegacy.
const (
	ElementKeyW3C    = "element-6066-11e4-a52e-4f735466cecf"
	ElementKeyLegacy = "ELEMENT"
)

// w3cCapabilityNames are the non-extension capabilities a W3C endpoint accepts in alwaysMatch/firstMatch.
var w3cCapabilityNames = map[string]bool{
	"browserName":               true,
	"browserVersion":            true,
	"platformName":              true,
	"acceptInsecureCerts":       true,
	"pageLoadStrategy":          true,
	"proxy":                     true,
	"setWindowRect":             true,
	"timeouts":                  true,
	"strictFileInteractability": true,
	"unhandledPromptBehavior":   true,
	"webSocketUrl":              true,
}

type newSessionRequestBody struct {
	Capabilities         *w3cCapabilities    `json:"capabilities"`
	DesiredCapabilities  domain.Capabilities `json:"desiredCapabilities"`
	RequiredCapabilities domain.Capabilities `json:"requiredCapabilities"`
}

type w3cCapabilities struct {
	AlwaysMatch domain.Capabilities   `json:"alwaysMatch"`
	FirstMatch  []domain.Capabilities `json:"firstMatch"`
}

// ParseNewSessionRequest reads a caller's new-session body and returns the ordered fallback list of
// capability sets to match, plus the caller's dialect (W3C when "capabilities" is present, legacy when only
// "desiredCapabilities" is).
//
// W3C: alwaysMatch is merged into every firstMatch entry (absent or empty firstMatch counts as [{}]); a key
// present in both is ErrInvalidPayload. Legacy: desiredCapabilities merged with requiredCapabilities, with
// "platform"/"version" read as platformName/browserVersion.
func ParseNewSessionRequest(body []byte) ([]domain.Capabilities, domain.Dialect, error) {
	var req newSessionRequestBody
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if req.Capabilities != nil {
		caps, err := mergeW3C(*req.Capabilities)
		if err != nil {
			return nil, "", err
		}
		return normalizeAll(caps), domain.DialectW3C, nil
	}
	if req.DesiredCapabilities != nil || req.RequiredCapabilities != nil {
		merged := req.DesiredCapabilities.Merge(req.RequiredCapabilities)
		return normalizeAll([]domain.Capabilities{fromLegacyNames(merged)}), domain.DialectOSS, nil
	}
	return nil, "", fmt.Errorf("%w: no capabilities found", ErrInvalidPayload)
}

func mergeW3C(c w3cCapabilities) ([]domain.Capabilities, error) {
	first := c.FirstMatch
	if len(first) == 0 {
		first = []domain.Capabilities{{}}
	}
	out := make([]domain.Capabilities, 0, len(first))
	for i, fm := range first {
		for k := range fm {
			if _, dup := c.AlwaysMatch[k]; dup {
				return nil, fmt.Errorf("%w: capability %q in firstMatch[%d] is already in alwaysMatch", ErrInvalidPayload, k, i)
			}
		}
		out = append(out, c.AlwaysMatch.Merge(fm))
	}
	return out, nil
}

// fromLegacyNames renames legacy platform/version keys to their W3C names when the W3C name is absent.
func fromLegacyNames(c domain.Capabilities) domain.Capabilities {
	out := c.Clone()
	if out == nil {
		out = domain.Capabilities{}
	}
	rename := map[string]string{domain.CapPlatform: domain.CapPlatformName, domain.CapVersion: domain.CapBrowserVersion}
	for legacy, w3c := range rename {
		v, ok := out[legacy]
		if !ok {
			continue
		}
		delete(out, legacy)
		if _, exists := out[w3c]; !exists {
			out[w3c] = v
		}
	}
	return out
}

// toLegacyNames adds legacy platform/version aliases for a legacy-speaking node.
func toLegacyNames(c domain.Capabilities) domain.Capabilities {
	out := c.Clone()
	if out == nil {
		out = domain.Capabilities{}
	}
	if v, ok := out[domain.CapPlatformName]; ok {
		if _, exists := out[domain.CapPlatform]; !exists {
			out[domain.CapPlatform] = v
		}
	}
	if v, ok := out[domain.CapBrowserVersion]; ok {
		if _, exists := out[domain.CapVersion]; !exists {
			out[domain.CapVersion] = v
		}
	}
	return out
}

// normalizeAll converts json.Number values into float64 so matching compares numbers by value.
func normalizeAll(list []domain.Capabilities) []domain.Capabilities {
	for i, c := range list {
		list[i] = domain.Capabilities(normalizeNumbers(map[string]any(c)).(map[string]any))
	}
	return list
}

func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		for k, vv := range t {
			t[k] = normalizeNumbers(vv)
		}
		return t
	case domain.Capabilities:
		return normalizeNumbers(map[string]any(t))
	case []any:
		for i := range t {
			t[i] = normalizeNumbers(t[i])
		}
		return t
	}
	return v
}

// NewSessionPayload builds the body sent to a node to create a session: W3C alwaysMatch with only
// W3C-accepted keys plus legacy desiredCapabilities, so a node of either dialect can answer.
func NewSessionPayload(caps domain.Capabilities) ([]byte, error) {
	always := domain.Capabilities{}
	for k, v := range caps {
		if w3cCapabilityNames[k] || domain.IsExtensionCapability(k) {
			always[k] = v
		}
	}
	payload := map[string]any{
		"capabilities": map[string]any{
			"alwaysMatch": always,
			"firstMatch":  []any{map[string]any{}},
		},
		"desiredCapabilities": toLegacyNames(caps),
	}
	return json.Marshal(payload)
}

// ParseNewSessionResponse reads a node's answer to a new-session command and detects the node's dialect
// from its shape: W3C {"value":{"sessionId","capabilities"}} or legacy {"status":0,"sessionId","value":{...}}.
//
// Returns: created session; ErrTranslation wrapped with the node's error message when the body is an error
// of either dialect or matches neither shape.
func ParseNewSessionResponse(body []byte) (domain.CreatedSession, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return domain.CreatedSession{}, fmt.Errorf("%w: new session response is not a JSON object: %v", ErrTranslation, err)
	}
	if status, ok := raw["status"]; ok {
		n, _ := status.(float64)
		if n != 0 {
			return domain.CreatedSession{}, fmt.Errorf("%w: node returned %s: %s", ErrTranslation, CodeForLegacyStatus(int(n)), messageOf(raw["value"]))
		}
		id, _ := raw["sessionId"].(string)
		caps, _ := raw["value"].(map[string]any)
		if id == "" {
			return domain.CreatedSession{}, fmt.Errorf("%w: legacy new session response without sessionId", ErrTranslation)
		}
		return domain.CreatedSession{ID: id, Capabilities: fromLegacyNames(caps), Dialect: domain.DialectOSS}, nil
	}
	value, ok := raw["value"].(map[string]any)
	if !ok {
		return domain.CreatedSession{}, fmt.Errorf("%w: new session response without value object", ErrTranslation)
	}
	if code, isErr := value["error"].(string); isErr {
		return domain.CreatedSession{}, fmt.Errorf("%w: node returned %s: %s", ErrTranslation, code, messageOf(value))
	}
	id, _ := value["sessionId"].(string)
	if id == "" {
		return domain.CreatedSession{}, fmt.Errorf("%w: W3C new session response without sessionId", ErrTranslation)
	}
	caps, _ := value["capabilities"].(map[string]any)
	return domain.CreatedSession{ID: id, Capabilities: domain.Capabilities(caps), Dialect: domain.DialectW3C}, nil
}

func messageOf(v any) string {
	if m, ok := v.(map[string]any); ok {
		if s, ok := m["message"].(string); ok {
			return s
		}
	}
	return ""
}

// NewSessionResponseBody is the grid's answer to a caller's successful new-session command, in the caller's dialect.
func NewSessionResponseBody(d domain.Dialect, sessionID string, caps domain.Capabilities) ([]byte, error) {
	if caps == nil {
		caps = domain.Capabilities{}
	}
	if d == domain.DialectOSS {
		return json.Marshal(map[string]any{"status": 0, "sessionId": sessionID, "value": toLegacyNames(caps)})
	}
	return json.Marshal(map[string]any{"value": map[string]any{"sessionId": sessionID, "capabilities": caps}})
}

// ErrorBody is an error payload in dialect d. sessionID is only used by the legacy shape and may be empty.
func ErrorBody(d domain.Dialect, code, message, sessionID string) ([]byte, int) {
	if d == domain.DialectOSS {
		var sid any
		if sessionID != "" {
			sid = sessionID
		}
		b, _ := json.Marshal(map[string]any{
			"status":    LegacyStatus(code),
			"sessionId": sid,
			"value":     map[string]any{"message": message},
		})
		return b, http.StatusInternalServerError
	}
	b, _ := json.Marshal(map[string]any{
		"value": map[string]any{"error": code, "message": message, "stacktrace": ""},
	})
	return b, HTTPStatus(code)
}
