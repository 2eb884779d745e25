package models

import (
	"encoding/json"
	"fmt"
)

// TaskStatus is the verification-task lifecycle state. The numeric values are part
// of the wire contract.
type TaskStatus uint8

const (
	StatusPendingValidation       TaskStatus = 0
	StatusValidatedByVerifier     TaskStatus = 1
	StatusApproved                TaskStatus = 2
	StatusRejected                TaskStatus = 3
	StatusApprovedWithReservation TaskStatus = 4
)

var statusNames = map[TaskStatus]string{
	StatusPendingValidation:       "pending_validation",
	StatusValidatedByVerifier:     "validated_by_verifier",
	StatusApproved:                "approved",
	StatusRejected:                "rejected",
	StatusApprovedWithReservation: "approved_with_reservation",
}

// statusLabels are the display labels used in certificate metadata documents.
var statusLabels = map[TaskStatus]string{
	StatusPendingValidation:       "En attente de validation",
	StatusValidatedByVerifier:     "Validé par le vérificateur",
	StatusApproved:                "Approuvé",
	StatusRejected:                "Refusé",
	StatusApprovedWithReservation: "Approuvé avec réserve",
}

// transitions lists the only allowed edges.
var transitions = map[TaskStatus][]TaskStatus{
	StatusPendingValidation:   {StatusValidatedByVerifier},
	StatusValidatedByVerifier: {StatusApproved, StatusRejected, StatusApprovedWithReservation},
}

func (s TaskStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint8(s))
}

func (s TaskStatus) Label() string {
	return statusLabels[s]
}

func (s TaskStatus) IsValid() bool {
	_, ok := statusNames[s]
	return ok
}

// IsTerminal reports whether no further transition is defined.
func (s TaskStatus) IsTerminal() bool {
	return s.IsValid() && len(transitions[s]) == 0
}

func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsCertifiable reports whether a certificate may be minted in this state.
// ApprovedWithReservation qualifies only when the policy allows it.
func (s TaskStatus) IsCertifiable(allowReservation bool) bool {
	switch s {
	case StatusApproved, StatusRejected:
		return true
	case StatusApprovedWithReservation:
		return allowReservation
	}
	return false
}

func (s TaskStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(uint8(s))
}
