package domain

import (
	"reflect"
	"strings"
)

// Capabilities is a key-value description of a desired or offered browser session (JSON object shape).
type Capabilities map[string]any

// Well-known capability names.
const (
	CapBrowserName    = "browserName"
	CapBrowserVersion = "browserVersion"
	CapPlatformName   = "platformName"
	CapPlatform       = "platform"
	CapVersion        = "version"
)

// Clone returns a deep copy of c (nested maps and slices are copied). Nil gives nil.
func (c Capabilities) Clone() Capabilities {
	if c == nil {
		return nil
	}
	out, _ := deepCopy(map[string]any(c)).(map[string]any)
	return Capabilities(out)
}

// IsDontCare reports whether a requested value means "any value is acceptable": nil, empty string, "*" or "any" (case-insensitive).
func IsDontCare(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		s := strings.TrimSpace(t)
		return s == "" || s == "*" || strings.EqualFold(s, "any")
	}
	return false
}

// IsExtensionCapability reports whether name is a vendor extension ("goog:chromeOptions", "se:cdp").
func IsExtensionCapability(name string) bool {
	return strings.Contains(name, ":")
}

// Matches reports whether the requested set c is satisfied by stereotype: every requested key must be present
// in stereotype with a structurally equal value, except don't-care values and extension keys the stereotype
// does not advertise. Platform names compare case-insensitively; a don't-care stereotype value accepts anything.
func (c Capabilities) Matches(stereotype Capabilities) bool {
	for k, want := range c {
		if IsDontCare(want) {
			continue
		}
		have, ok := stereotype[k]
		if !ok {
			if IsExtensionCapability(k) {
				continue
			}
			return false
		}
		if IsDontCare(have) {
			continue
		}
		if k == CapPlatformName || k == CapPlatform {
			ws, wok := want.(string)
			hs, hok := have.(string)
			if wok && hok {
				if !strings.EqualFold(ws, hs) {
					return false
				}
				continue
			}
		}
		if !ValuesEqual(want, have) {
			return false
		}
	}
	return true
}

// Merge returns a new set with every key of c and then every key of other (other wins). Used to build the
// capabilities actually granted to a session.
func (c Capabilities) Merge(other Capabilities) Capabilities {
	out := make(Capabilities, len(c)+len(other))
	for k, v := range c {
		out[k] = deepCopy(v)
	}
	for k, v := range other {
		out[k] = deepCopy(v)
	}
	return out
}

// ValuesEqual compares JSON-like values structurally. Numbers compare by value regardless of Go type
// (YAML gives int, JSON gives float64).
func ValuesEqual(a, b any) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	switch at := a.(type) {
	case map[string]any:
		bt, ok := asMap(b)
		if !ok || len(at) != len(bt) {
			return false
		}
		for k, av := range at {
			bv, ok := bt[k]
			if !ok || !ValuesEqual(av, bv) {
				return false
			}
		}
		return true
	case Capabilities:
		return ValuesEqual(map[string]any(at), b)
	case []any:
		bt, ok := b.([]any)
		if !ok || len(at) != len(bt) {
			return false
		}
		for i := range at {
			if !ValuesEqual(at[i], bt[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case Capabilities:
		return map[string]any(t), true
	}
	return nil, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = deepCopy(vv)
		}
		return out
	case Capabilities:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = deepCopy(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = deepCopy(t[i])
		}
		return out
	}
	return v
}
