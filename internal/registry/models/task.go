package models

import (
	"time"

	"secreg/pkg/domain"
	dErrors "secreg/pkg/domain-errors"
)

// Task is a verification task moving through the approval lifecycle.
//
// Invariants:
//   - ID, Company, Verifier, RegisterID, CreatedBy and CreatedAt never change
//   - SiteName and SecurityType are non-empty
//   - Status only moves along the edges in transitions
//
// Company is the resolved principal; CreatedBy is the caller, which differs when a
// delegate created the task.
type Task struct {
	ID           domain.TaskID     `json:"task_id"`
	Company      domain.Address    `json:"company"`
	Verifier     domain.Address    `json:"verifier"`
	RegisterID   domain.RegisterID `json:"register_id"`
	SiteName     string            `json:"site_name"`
	SecurityType string            `json:"security_type"`
	Status       TaskStatus        `json:"status"`
	CreatedBy    domain.Address    `json:"created_by"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func NewTask(
	id domain.TaskID,
	company, verifier domain.Address,
	registerID domain.RegisterID,
	siteName, securityType string,
	createdBy domain.Address,
	now time.Time,
) (*Task, error) {
	if siteName == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "'site name' cannot be empty!")
	}
	if securityType == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "'security type' cannot be empty!")
	}
	return &Task{
		ID:           id,
		Company:      company,
		Verifier:     verifier,
		RegisterID:   registerID,
		SiteName:     siteName,
		SecurityType: securityType,
		Status:       StatusPendingValidation,
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// CanValidate checks the PendingValidation -> ValidatedByVerifier edge.
func (t *Task) CanValidate() error {
	if !t.Status.CanTransitionTo(StatusValidatedByVerifier) {
		return dErrors.New(dErrors.CodeInvalidState, "Unable to update the verification task!")
	}
	return nil
}

// ApplyValidation moves the task to ValidatedByVerifier. Call CanValidate first.
func (t *Task) ApplyValidation(now time.Time) {
	t.Status = StatusValidatedByVerifier
	t.UpdatedAt = now
}

// CanDispose checks that the task is waiting for the company's decision.
func (t *Task) CanDispose() error {
	if t.Status != StatusValidatedByVerifier {
		return dErrors.New(dErrors.CodeInvalidState,
			"Unable to approve the verification task, because it has not been validated yet!")
	}
	return nil
}

// ApplyDisposition moves the task to the terminal state d leads to.
// Call CanDispose and validate d first.
func (t *Task) ApplyDisposition(d Disposition, now time.Time) {
	if target, ok := d.TargetStatus(); ok {
		t.Status = target
		t.UpdatedAt = now
	}
}

// TaskDetails joins a task with the profiles it references.
type TaskDetails struct {
	*Task
	CompanyProfile  *Company  `json:"company_profile"`
	Site            *Site     `json:"site"`
	VerifierProfile *Verifier `json:"verifier_profile"`
	// CreatedByDelegate is set when a company delegate created the task.
	CreatedByDelegate *Delegate    `json:"created_by_delegate,omitempty"`
	Certificate       *Certificate `json:"certificate,omitempty"`
}
