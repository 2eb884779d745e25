package models

import (
	"time"

	"secreg/pkg/domain"
	dErrors "secreg/pkg/domain-errors"
)

// Certificate is the one-per-task record minted once the task reaches a
// certifiable state. TokenID always equals the task ID.
type Certificate struct {
	TokenID         domain.TokenID `json:"token_id"`
	Owner           domain.Address `json:"owner"`
	MintedBy        domain.Address `json:"minted_by"`
	MetadataURI     string         `json:"metadata_uri"`
	MetadataUpdated bool           `json:"metadata_updated"`
	MintedAt        time.Time      `json:"minted_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// NewCertificate stores metadataURI verbatim, empty included.
func NewCertificate(taskID domain.TaskID, owner, mintedBy domain.Address, metadataURI string, now time.Time) *Certificate {
	return &Certificate{
		TokenID:     domain.TokenFor(taskID),
		Owner:       owner,
		MintedBy:    mintedBy,
		MetadataURI: metadataURI,
		MintedAt:    now,
		UpdatedAt:   now,
	}
}

// CanUpdateMetadata allows exactly one metadata update after mint.
func (c *Certificate) CanUpdateMetadata() error {
	if c.MetadataUpdated {
		return dErrors.New(dErrors.CodeConflict, "metadata has already been updated")
	}
	return nil
}

func (c *Certificate) ApplyMetadataURI(uri string, now time.Time) {
	c.MetadataURI = uri
	c.MetadataUpdated = true
	c.UpdatedAt = now
}
