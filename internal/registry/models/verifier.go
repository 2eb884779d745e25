package models

import (
	"time"

	"secreg/pkg/domain"
	dErrors "secreg/pkg/domain-errors"
)

// Verifier is an accredited verification body. Its namespace is exclusive with Company.
type Verifier struct {
	Owner          domain.Address `json:"owner"`
	Name           string         `json:"name"`
	AddressName    string         `json:"address_name"`
	Siret          string         `json:"siret"`
	ApprovalNumber string         `json:"approval_number"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func NewVerifier(owner domain.Address, name, addressName, siret, approvalNumber string, now time.Time) (*Verifier, error) {
	if siret == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "'siret' cannot be empty!")
	}
	if approvalNumber == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "'approval number' cannot be empty!")
	}
	return &Verifier{
		Owner:          owner,
		Name:           name,
		AddressName:    addressName,
		Siret:          siret,
		ApprovalNumber: approvalNumber,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (v *Verifier) ApplyProfile(name, addressName, siret, approvalNumber string, now time.Time) {
	v.Name = name
	v.AddressName = addressName
	v.Siret = siret
	v.ApprovalNumber = approvalNumber
	v.UpdatedAt = now
}

// VerifierDetails is the read model returned by GetVerifier.
type VerifierDetails struct {
	*Verifier
	Delegates []*Delegate `json:"delegates"`
}
