package models

import (
	"time"

	"secreg/pkg/domain"
	dErrors "secreg/pkg/domain-errors"
)

// Site is a physical site ("register") of a company. RegisterID is the per-company
// index assigned at creation: 0, 1, 2, ... with no gaps and no reuse.
type Site struct {
	Owner           domain.Address    `json:"owner"`
	RegisterID      domain.RegisterID `json:"register_id"`
	SiteName        string            `json:"site_name"`
	SiteAddressName string            `json:"site_address_name"`
	CreatedAt       time.Time         `json:"created_at"`
}

func NewSite(owner domain.Address, registerID domain.RegisterID, siteName, siteAddressName string, now time.Time) (*Site, error) {
	if siteName == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "'site name' cannot be empty!")
	}
	if siteAddressName == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "'site address' cannot be empty!")
	}
	return &Site{
		Owner:           owner,
		RegisterID:      registerID,
		SiteName:        siteName,
		SiteAddressName: siteAddressName,
		CreatedAt:       now,
	}, nil
}

// VerifierLink assigns one verifier to a company. Links are never removed.
type VerifierLink struct {
	Company  domain.Address `json:"company"`
	Verifier domain.Address `json:"verifier"`
	LinkedAt time.Time      `json:"linked_at"`
}
