package models

import (
	"time"

	"secreg/pkg/domain"
	dErrors "secreg/pkg/domain-errors"
)

// Delegate is an account acting for a principal within one role.
// An account maps to at most one principal per role; the last add wins.
// Removal deactivates the entry rather than deleting it.
type Delegate struct {
	Role      Role           `json:"role"`
	Account   domain.Address `json:"account"`
	Principal domain.Address `json:"principal"`
	Name      string         `json:"name"`
	FirstName string         `json:"first_name"`
	Active    bool           `json:"active"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func NewDelegate(role Role, account, principal domain.Address, name, firstName string, now time.Time) *Delegate {
	return &Delegate{
		Role:      role,
		Account:   account,
		Principal: principal,
		Name:      name,
		FirstName: firstName,
		Active:    true,
		UpdatedAt: now,
	}
}

// IsActiveFor reports whether the delegate currently acts for principal.
func (d *Delegate) IsActiveFor(principal domain.Address) bool {
	return d.Active && d.Principal == principal
}

// ApplyAdd (re)activates the delegate for principal.
func (d *Delegate) ApplyAdd(principal domain.Address, name, firstName string, now time.Time) {
	d.Principal = principal
	d.Name = name
	d.FirstName = firstName
	d.Active = true
	d.UpdatedAt = now
}

// CanRemove checks that the delegate is an active delegate of principal.
func (d *Delegate) CanRemove(principal domain.Address) error {
	if !d.IsActiveFor(principal) {
		return dErrors.New(dErrors.CodeNotFound, "account is not an active delegate of this principal")
	}
	return nil
}

func (d *Delegate) ApplyRemove(now time.Time) {
	d.Active = false
	d.UpdatedAt = now
}
