package handlers

import (
	"mygrid/domain"
	"mygrid/helpers"
	"mygrid/service"

	"github.com/google/uuid"
)

// fromNodeRegistration converts the POST /se/grid/distributor/node body to domain.NodeRegistration.
// Returns service invalid argument error on validation failure.
func fromNodeRegistration(req NodeRegistration) (domain.NodeRegistration, error) {
	id, err := uuid.Parse(req.Id)
	if err != nil {
		return domain.NodeRegistration{}, service.NewInvalidArgumentError("id must be a uuid", err)
	}
	reg := domain.NodeRegistration{
		ID:          id,
		ExternalURI: req.ExternalUri,
		InternalURI: helpers.Value(req.InternalUri),
		Stereotypes: make([]domain.Stereotype, 0, len(req.Stereotypes)),
	}
	for _, st := range req.Stereotypes {
		reg.Stereotypes = append(reg.Stereotypes, domain.Stereotype{Capabilities: domain.Capabilities(st.Capabilities), MaxSessions: st.MaxSessions})
	}
	if err := domain.ValidateNodeRegistration(reg); err != nil {
		return domain.NodeRegistration{}, service.NewInvalidArgumentError(err.Error(), err)
	}
	return reg, nil
}
