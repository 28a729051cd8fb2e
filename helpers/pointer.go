package helpers

import "reflect"

// StrPanic panics with panicMessage if s is empty; otherwise returns s. Only s == "" is checked (no TrimSpace).
//
// Used for fail-fast validation of required strings in constructors (node URIs, key prefixes).
func StrPanic(s string, panicMessage string) string {
	if s == "" {
		panic(panicMessage)
	}
	return s
}

// NilPanic panics with panicMessage if v is nil (nil interface, pointer, slice, map, chan or func); otherwise returns v unchanged.
//
// Parameters: v: dependency to check; panicMessage: panic value, by convention "<package>.<file>: <name> is required".
//
// Called from every constructor in service, handlers and adapters that takes a required dependency.
func NilPanic[T any](v T, panicMessage string) T {
	if isNil(v) {
		panic(panicMessage)
	}
	return v
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// Value is like *p but it returns the zero value if p is nil.
func Value[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
