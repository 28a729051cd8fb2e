package domain

// Dialect names the wire protocol variant a party speaks for session commands.
type Dialect string

const (
	// DialectW3C is the current protocol: {"value": ...} envelopes, string error codes.
	DialectW3C Dialect = "W3C"
	// DialectOSS is the legacy JSON wire protocol: {"status": n, "sessionId": ..., "value": ...}.
	DialectOSS Dialect = "OSS"
)

// Valid reports whether d is a known dialect.
func (d Dialect) Valid() bool {
	return d == DialectW3C || d == DialectOSS
}
