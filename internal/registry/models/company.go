package models

import (
	"time"

	"secreg/pkg/domain"
	dErrors "secreg/pkg/domain-errors"
)

// Company is a registered company principal.
//
// Invariants:
//   - Owner is the principal address and never changes
//   - Siret is non-empty
//   - Companies are never deleted; re-registration updates descriptive fields
type Company struct {
	Owner       domain.Address `json:"owner"`
	Name        string         `json:"name"`
	AddressName string         `json:"address_name"`
	Siret       string         `json:"siret"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func NewCompany(owner domain.Address, name, addressName, siret string, now time.Time) (*Company, error) {
	if siret == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "'siret' cannot be empty!")
	}
	return &Company{
		Owner:       owner,
		Name:        name,
		AddressName: addressName,
		Siret:       siret,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ApplyProfile overwrites the descriptive fields. Callers validate siret first.
func (c *Company) ApplyProfile(name, addressName, siret string, now time.Time) {
	c.Name = name
	c.AddressName = addressName
	c.Siret = siret
	c.UpdatedAt = now
}

// CompanyDetails is the read model returned by GetCompany.
type CompanyDetails struct {
	*Company
	Sites     []*Site         `json:"sites"`
	Verifier  *domain.Address `json:"verifier,omitempty"`
	Delegates []*Delegate     `json:"delegates"`
}
