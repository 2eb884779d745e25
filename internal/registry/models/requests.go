package models

import (
	"strings"

	"secreg/pkg/domain"
)

// RegisterCompanyRequest registers or updates the caller as a company.
type RegisterCompanyRequest struct {
	Name        string
	AddressName string
	Siret       string
}

func (r *RegisterCompanyRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.AddressName = strings.TrimSpace(r.AddressName)
	r.Siret = strings.TrimSpace(r.Siret)
}

// RegisterVerifierRequest registers the caller as a verifier.
type RegisterVerifierRequest struct {
	Name           string
	AddressName    string
	Siret          string
	ApprovalNumber string
}

func (r *RegisterVerifierRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.AddressName = strings.TrimSpace(r.AddressName)
	r.Siret = strings.TrimSpace(r.Siret)
	r.ApprovalNumber = strings.TrimSpace(r.ApprovalNumber)
}

// UpdateDelegateRequest adds or removes a delegate account.
type UpdateDelegateRequest struct {
	Account   domain.Address
	Name      string
	FirstName string
	Action    DelegateAction
}

func (r *UpdateDelegateRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.FirstName = strings.TrimSpace(r.FirstName)
}

// CreateSiteRequest is the merged company + site registration.
type CreateSiteRequest struct {
	Name            string
	AddressName     string
	Siret           string
	SiteName        string
	SiteAddressName string
}

func (r *CreateSiteRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.AddressName = strings.TrimSpace(r.AddressName)
	r.Siret = strings.TrimSpace(r.Siret)
	r.SiteName = strings.TrimSpace(r.SiteName)
	r.SiteAddressName = strings.TrimSpace(r.SiteAddressName)
}

// MissingField returns the first empty required field as a
// user-facing message, or "" when all are present.
func (r *CreateSiteRequest) MissingField() string {
	switch {
	case r.Name == "":
		return "'name' cannot be empty!"
	case r.AddressName == "":
		return "'address' cannot be empty!"
	case r.Siret == "":
		return "'siret' cannot be empty!"
	case r.SiteName == "":
		return "'site name' cannot be empty!"
	case r.SiteAddressName == "":
		return "'site address' cannot be empty!"
	}
	return ""
}

// CreateTaskRequest opens a verification task on one of the company's sites.
type CreateTaskRequest struct {
	SiteName     string
	SecurityType string
	RegisterID   domain.RegisterID
}

func (r *CreateTaskRequest) Normalize() {
	r.SiteName = strings.TrimSpace(r.SiteName)
	r.SecurityType = strings.TrimSpace(r.SecurityType)
}
