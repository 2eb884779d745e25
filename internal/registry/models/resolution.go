package models

import (
	"secreg/pkg/domain"
)

// ResolutionKind tags how a caller relates to a principal.
type ResolutionKind uint8

const (
	ResolutionUnauthorized ResolutionKind = iota
	ResolutionOwner
	ResolutionDelegate
)

func (k ResolutionKind) String() string {
	switch k {
	case ResolutionOwner:
		return "owner"
	case ResolutionDelegate:
		return "delegate"
	default:
		return "unauthorized"
	}
}

func (k ResolutionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Resolution is the outcome of resolving a caller for a role. Principal is set
// only for Owner and Delegate.
type Resolution struct {
	Kind      ResolutionKind `json:"kind"`
	Role      Role           `json:"role"`
	Caller    domain.Address `json:"caller"`
	Principal domain.Address `json:"principal"`
}

func (r Resolution) IsAuthorized() bool {
	return r.Kind == ResolutionOwner || r.Kind == ResolutionDelegate
}

// IdentityRoles answers the four role lookups for one address.
type IdentityRoles struct {
	Address           domain.Address `json:"address"`
	IsCompany         bool           `json:"is_company"`
	IsVerifier        bool           `json:"is_verifier"`
	IsCompanyAccount  bool           `json:"is_company_account"`
	IsVerifierAccount bool           `json:"is_verifier_account"`
}
