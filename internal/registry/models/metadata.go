package models

import (
	"time"
)

// CertificateMetadata is the JSON document a company hosts and points a
// certificate's metadata URI at. The registry builds it but never stores or
// fetches it.
type CertificateMetadata struct {
	TaskID         uint64                 `json:"task_id"`
	Status         string                 `json:"status"`
	Sector         string                 `json:"sector"`
	Type           string                 `json:"type"`
	Date           string                 `json:"date"`
	Timestamp      int64                  `json:"timestamp"`
	AccountCompany MetadataAccountCompany `json:"accountCompany"`
	Company        MetadataCompany        `json:"company"`
	Verifier       MetadataVerifier       `json:"verifier"`
}

type MetadataAccountCompany struct {
	Account   string `json:"account"`
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
}

type MetadataCompany struct {
	Account     string `json:"account"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Site        string `json:"site"`
	SiteAddress string `json:"siteAddress"`
	Siret       string `json:"siret"`
}

type MetadataVerifier struct {
	Account        string `json:"account"`
	Name           string `json:"name"`
	Address        string `json:"address"`
	Siret          string `json:"siret"`
	ApprovalNumber string `json:"approvalNumber"`
}

// NewCertificateMetadata renders the document for a task. Addresses use the
// checksummed form. When the task was created by the principal itself, the
// account block names the company.
func NewCertificateMetadata(d *TaskDetails) CertificateMetadata {
	md := CertificateMetadata{
		TaskID:    uint64(d.ID),
		Status:    d.Status.Label(),
		Sector:    d.SiteName,
		Type:      d.SecurityType,
		Date:      d.CreatedAt.UTC().Format(time.DateOnly),
		Timestamp: d.CreatedAt.Unix(),
		AccountCompany: MetadataAccountCompany{
			Account: d.CreatedBy.Checksum(),
		},
		Company: MetadataCompany{
			Account: d.Company.Checksum(),
		},
		Verifier: MetadataVerifier{
			Account: d.Verifier.Checksum(),
		},
	}

	if d.CompanyProfile != nil {
		md.Company.Name = d.CompanyProfile.Name
		md.Company.Address = d.CompanyProfile.AddressName
		md.Company.Siret = d.CompanyProfile.Siret
		md.AccountCompany.Name = d.CompanyProfile.Name
	}
	if d.Site != nil {
		md.Company.Site = d.Site.SiteName
		md.Company.SiteAddress = d.Site.SiteAddressName
	}
	if d.VerifierProfile != nil {
		md.Verifier.Name = d.VerifierProfile.Name
		md.Verifier.Address = d.VerifierProfile.AddressName
		md.Verifier.Siret = d.VerifierProfile.Siret
		md.Verifier.ApprovalNumber = d.VerifierProfile.ApprovalNumber
	}
	if d.CreatedByDelegate != nil {
		md.AccountCompany.Name = d.CreatedByDelegate.Name
		md.AccountCompany.FirstName = d.CreatedByDelegate.FirstName
	}
	return md
}
