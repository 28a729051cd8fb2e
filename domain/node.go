package domain

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Availability is the health state of a registered node.
type Availability string

const (
	// AvailabilityUp accepts new sessions and serves existing ones.
	AvailabilityUp Availability = "UP"
	// AvailabilityDown failed the unhealthy threshold of consecutive health checks; no new sessions.
	AvailabilityDown Availability = "DOWN"
	// AvailabilityDraining was drained administratively; existing sessions keep running, no new ones.
	AvailabilityDraining Availability = "DRAINING"
)

// Stereotype is a class of slots a node advertises: the capabilities it offers and how many sessions of
// that class it can run at once.
type Stereotype struct {
	Capabilities Capabilities
	MaxSessions  int
}

// NodeRegistration is what a node (or static config) provides when joining the grid.
// ExternalURI is the address reported to clients; InternalURI is where the router forwards commands
// (defaults to ExternalURI when empty).
type NodeRegistration struct {
	ID          uuid.UUID
	ExternalURI string
	InternalURI string
	Stereotypes []Stereotype
}

// ForwardURI returns InternalURI, or ExternalURI when InternalURI is empty.
func (r NodeRegistration) ForwardURI() string {
	if r.InternalURI != "" {
		return r.InternalURI
	}
	return r.ExternalURI
}

// StereotypeSummary is a stereotype with its slot usage at snapshot time.
type StereotypeSummary struct {
	Capabilities Capabilities
	Max          int
	Current      int
}

// NodeSummary is a point-in-time view of one node for status reporting.
type NodeSummary struct {
	ID           uuid.UUID
	URI          string
	Availability Availability
	Stereotypes  []StereotypeSummary
}

// ValidateNodeRegistration checks id, URIs and stereotypes: id is non-nil, external_uri (and internal_uri if set)
// is an absolute http(s) URI, there is at least one stereotype, each with max_sessions ≥ 1.
//
// Returns: nil or *NodeConfigError naming the first offending field.
//
// Called from cmd.LoadConfig for static nodes and from the registration handler.
func ValidateNodeRegistration(r NodeRegistration) error {
	if r.ID == uuid.Nil {
		return &NodeConfigError{Index: -1, Field: "id", Reason: "must be a non-nil uuid"}
	}
	if err := validateURI(r.ExternalURI); err != nil {
		return &NodeConfigError{Index: -1, Field: "external_uri", Reason: err.Error()}
	}
	if r.InternalURI != "" {
		if err := validateURI(r.InternalURI); err != nil {
			return &NodeConfigError{Index: -1, Field: "internal_uri", Reason: err.Error()}
		}
	}
	if len(r.Stereotypes) == 0 {
		return &NodeConfigError{Index: -1, Field: "stereotypes", Reason: "at least one stereotype is required"}
	}
	for i, st := range r.Stereotypes {
		if st.MaxSessions < 1 {
			return &NodeConfigError{Index: i, Field: "max_sessions", Reason: "must be >= 1"}
		}
	}
	return nil
}

func validateURI(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errString("must be non-empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return errString("must be a valid URI")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errString("scheme must be http or https")
	}
	if u.Host == "" {
		return errString("host is required")
	}
	return nil
}

type errString string

func (e errString) Error() string { return string(e) }

// NodeConfigError is returned by ValidateNodeRegistration.
// Index is the stereotype index (0-based) or -1 for node-level fields.
type NodeConfigError struct {
	Index  int
	Field  string
	Reason string
}

func (e *NodeConfigError) Error() string {
	if e.Index >= 0 {
		return "stereotypes[" + strconv.Itoa(e.Index) + "]." + e.Field + ": " + e.Reason
	}
	return e.Field + ": " + e.Reason
}
