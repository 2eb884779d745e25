package service

import (
	dErrors "secreg/pkg/domain-errors"
)

// VerifierNameScope selects how verifier-name uniqueness is enforced.
type VerifierNameScope string

const (
	// NameScopeGlobal rejects a verifier name already used by any verifier.
	NameScopeGlobal VerifierNameScope = "global"
	// NameScopeOwner only rejects re-registering the caller's own current name.
	NameScopeOwner VerifierNameScope = "owner"
)

// Policy holds the configurable registration and minting rules.
type Policy struct {
	VerifierNameScope VerifierNameScope
	// MintWithReservation lets ApprovedWithReservation tasks be certified.
	MintWithReservation bool
	// StrictCompanyRegistration rejects RegisterCompany for an existing company
	// instead of updating its profile.
	StrictCompanyRegistration bool
}

func DefaultPolicy() Policy {
	return Policy{
		VerifierNameScope:         NameScopeGlobal,
		MintWithReservation:       false,
		StrictCompanyRegistration: false,
	}
}

func (p Policy) Validate() error {
	switch p.VerifierNameScope {
	case NameScopeGlobal, NameScopeOwner:
		return nil
	}
	return dErrors.New(dErrors.CodeValidation, "verifier name scope must be one of: global, owner")
}
