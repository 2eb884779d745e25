package handler

import (
	"secreg/internal/registry/models"
	"secreg/pkg/domain"
	"secreg/pkg/platform/events"
)

type taskStatusResponse struct {
	TaskID domain.TaskID     `json:"task_id"`
	Status models.TaskStatus `json:"status"`
	Label  string            `json:"label"`
}

type certificateURIResponse struct {
	TokenID     domain.TokenID `json:"token_id"`
	MetadataURI string         `json:"metadata_uri"`
}

type existsResponse struct {
	Exists bool `json:"exists"`
}

type linkedVerifierResponse struct {
	Company  domain.Address `json:"company"`
	Verifier domain.Address `json:"verifier"`
}

type eventsResponse struct {
	Events []events.Event `json:"events"`
	// Next is the cursor to pass as ?after= on the following poll.
	Next uint64 `json:"next"`
}

type sitesResponse struct {
	Sites []*models.Site `json:"sites"`
}

type delegatesResponse struct {
	Accounts []*models.Delegate `json:"accounts"`
}

type tasksResponse struct {
	Tasks []*models.Task `json:"tasks"`
}
