package models

import (
	"strings"

	dErrors "secreg/pkg/domain-errors"
)

// Role selects which principal namespace a resolution or delegation applies to.
type Role string

const (
	RoleCompany  Role = "company"
	RoleVerifier Role = "verifier"
)

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleCompany:
		return RoleCompany, nil
	case RoleVerifier:
		return RoleVerifier, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "role must be one of: company, verifier")
}

// DelegateAction is the closed set of delegate updates.
type DelegateAction string

const (
	DelegateAdd    DelegateAction = "add"
	DelegateRemove DelegateAction = "remove"
)

func ParseDelegateAction(s string) (DelegateAction, error) {
	switch DelegateAction(s) {
	case DelegateAdd:
		return DelegateAdd, nil
	case DelegateRemove:
		return DelegateRemove, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "Invalid action has been provided!")
}

// Disposition is the company's decision on a validated task.
type Disposition string

const (
	DispositionApprove                Disposition = "approve"
	DispositionReject                 Disposition = "reject"
	DispositionApproveWithReservation Disposition = "approveWithReservation"
)

func ParseDisposition(s string) (Disposition, error) {
	d := Disposition(s)
	if !d.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "Invalid action has been provided!")
	}
	return d, nil
}

func (d Disposition) IsValid() bool {
	_, ok := dispositionTargets[d]
	return ok
}

// TargetStatus returns the terminal status a disposition leads to.
func (d Disposition) TargetStatus() (TaskStatus, bool) {
	s, ok := dispositionTargets[d]
	return s, ok
}

var dispositionTargets = map[Disposition]TaskStatus{
	DispositionApprove:                StatusApproved,
	DispositionReject:                 StatusRejected,
	DispositionApproveWithReservation: StatusApprovedWithReservation,
}
