package models

import (
	"time"

	"secreg/pkg/domain"
	"secreg/pkg/platform/events"
)

// Event types published by the registry.
const (
	EventCompanyRegistered       events.Type = "CompanyRegistered"
	EventRegisterCreated         events.Type = "RegisterCreated"
	EventCompanyAccountUpdated   events.Type = "CompanyAccountUpdated"
	EventVerifierCreated         events.Type = "VerifierCreated"
	EventVerifierAccountUpdated  events.Type = "VerifierAccountUpdated"
	EventVerifierAddedToCompany  events.Type = "VerifierAddedToCompany"
	EventVerificationTaskCreated events.Type = "VerificationTaskCreated"
	EventTaskValidated           events.Type = "VerificationTaskValidated"
	EventTaskUpdated             events.Type = "VerificationTaskUpdated"
	EventTransfer                events.Type = "Transfer"
	EventMetadataUpdate          events.Type = "MetadataUpdate"
)

// DomainEvent is a typed payload the service turns into an events.Event.
// Subject is the partition key: the task for task events, the principal otherwise.
type DomainEvent interface {
	EventType() events.Type
	EventSubject() string
}

func taskSubject(id domain.TaskID) string { return "task:" + id.String() }

type CompanyRegistered struct {
	Company     domain.Address `json:"company"`
	Name        string         `json:"name"`
	AddressName string         `json:"address_name"`
	Siret       string         `json:"siret"`
}

func (CompanyRegistered) EventType() events.Type   { return EventCompanyRegistered }
func (e CompanyRegistered) EventSubject() string { return e.Company.String() }

type RegisterCreated struct {
	Company         domain.Address    `json:"company"`
	Name            string            `json:"name"`
	AddressName     string            `json:"address_name"`
	Siret           string            `json:"siret"`
	SiteName        string            `json:"site_name"`
	SiteAddressName string            `json:"site_address_name"`
	RegisterID      domain.RegisterID `json:"register_id"`
}

func (RegisterCreated) EventType() events.Type   { return EventRegisterCreated }
func (e RegisterCreated) EventSubject() string { return e.Company.String() }

// AccountUpdated is shared by company and verifier delegate updates.
type AccountUpdated struct {
	Role      Role           `json:"role"`
	Principal domain.Address `json:"principal"`
	Account   domain.Address `json:"account"`
	Name      string         `json:"name"`
	FirstName string         `json:"first_name"`
	Action    DelegateAction `json:"action"`
}

func (e AccountUpdated) EventType() events.Type {
	if e.Role == RoleVerifier {
		return EventVerifierAccountUpdated
	}
	return EventCompanyAccountUpdated
}
func (e AccountUpdated) EventSubject() string { return e.Principal.String() }

type VerifierCreated struct {
	Verifier       domain.Address `json:"verifier"`
	Name           string         `json:"name"`
	AddressName    string         `json:"address_name"`
	Siret          string         `json:"siret"`
	ApprovalNumber string         `json:"approval_number"`
}

func (VerifierCreated) EventType() events.Type   { return EventVerifierCreated }
func (e VerifierCreated) EventSubject() string { return e.Verifier.String() }

type VerifierAddedToCompany struct {
	Company  domain.Address `json:"company"`
	Verifier domain.Address `json:"verifier"`
}

func (VerifierAddedToCompany) EventType() events.Type   { return EventVerifierAddedToCompany }
func (e VerifierAddedToCompany) EventSubject() string { return e.Company.String() }

// TaskCreated carries Account, the caller, next to Company, the resolved principal.
type TaskCreated struct {
	Company      domain.Address    `json:"company"`
	Account      domain.Address    `json:"account"`
	Verifier     domain.Address    `json:"verifier"`
	RegisterID   domain.RegisterID `json:"register_id"`
	SecurityType string            `json:"security_type"`
	TaskID       domain.TaskID     `json:"task_id"`
	Status       TaskStatus        `json:"status"`
	SiteName     string            `json:"site_name"`
	Timestamp    time.Time         `json:"timestamp"`
}

func (TaskCreated) EventType() events.Type   { return EventVerificationTaskCreated }
func (e TaskCreated) EventSubject() string { return taskSubject(e.TaskID) }

type TaskValidated struct {
	Verifier domain.Address `json:"verifier"`
	Account  domain.Address `json:"account"`
	TaskID   domain.TaskID  `json:"task_id"`
	Status   TaskStatus     `json:"status"`
}

func (TaskValidated) EventType() events.Type   { return EventTaskValidated }
func (e TaskValidated) EventSubject() string { return taskSubject(e.TaskID) }

type TaskUpdated struct {
	Company domain.Address `json:"company"`
	Account domain.Address `json:"account"`
	TaskID  domain.TaskID  `json:"task_id"`
	Status  TaskStatus     `json:"status"`
}

func (TaskUpdated) EventType() events.Type   { return EventTaskUpdated }
func (e TaskUpdated) EventSubject() string { return taskSubject(e.TaskID) }

// Transfer mirrors a token mint: From is the zero address.
type Transfer struct {
	From    domain.Address `json:"from"`
	To      domain.Address `json:"to"`
	TokenID domain.TokenID `json:"token_id"`
}

func (Transfer) EventType() events.Type   { return EventTransfer }
func (e Transfer) EventSubject() string { return taskSubject(e.TokenID.Task()) }

type MetadataUpdate struct {
	TokenID     domain.TokenID `json:"token_id"`
	MetadataURI string         `json:"metadata_uri"`
}

func (MetadataUpdate) EventType() events.Type   { return EventMetadataUpdate }
func (e MetadataUpdate) EventSubject() string { return taskSubject(e.TokenID.Task()) }
