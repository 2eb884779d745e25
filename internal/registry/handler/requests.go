package handler

import (
	"secreg/internal/registry/models"
	"secreg/pkg/domain"
	dErrors "secreg/pkg/domain-errors"
)

// Wire shapes of the JSON request bodies. Addresses arrive as strings so the
// handler can report which field failed to parse.

type registerCompanyBody struct {
	Name        string `json:"name"`
	AddressName string `json:"address_name"`
	Siret       string `json:"siret"`
}

func (b registerCompanyBody) toModel() models.RegisterCompanyRequest {
	return models.RegisterCompanyRequest{Name: b.Name, AddressName: b.AddressName, Siret: b.Siret}
}

type registerVerifierBody struct {
	Name           string `json:"name"`
	AddressName    string `json:"address_name"`
	Siret          string `json:"siret"`
	ApprovalNumber string `json:"approval_number"`
}

func (b registerVerifierBody) toModel() models.RegisterVerifierRequest {
	return models.RegisterVerifierRequest{
		Name:           b.Name,
		AddressName:    b.AddressName,
		Siret:          b.Siret,
		ApprovalNumber: b.ApprovalNumber,
	}
}

type updateAccountBody struct {
	Account   string `json:"account"`
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	Action    string `json:"action"`
}

func (b updateAccountBody) toModel() (models.UpdateDelegateRequest, error) {
	account, err := parseAddressField("account", b.Account)
	if err != nil {
		return models.UpdateDelegateRequest{}, err
	}
	return models.UpdateDelegateRequest{
		Account:   account,
		Name:      b.Name,
		FirstName: b.FirstName,
		Action:    models.DelegateAction(b.Action),
	}, nil
}

type createSiteBody struct {
	Name            string `json:"name"`
	AddressName     string `json:"address_name"`
	Siret           string `json:"siret"`
	SiteName        string `json:"site_name"`
	SiteAddressName string `json:"site_address_name"`
}

func (b createSiteBody) toModel() models.CreateSiteRequest {
	return models.CreateSiteRequest{
		Name:            b.Name,
		AddressName:     b.AddressName,
		Siret:           b.Siret,
		SiteName:        b.SiteName,
		SiteAddressName: b.SiteAddressName,
	}
}

type linkVerifierBody struct {
	Verifier string `json:"verifier"`
}

type createTaskBody struct {
	SiteName     string `json:"site_name"`
	SecurityType string `json:"security_type"`
	RegisterID   *uint64 `json:"register_id"`
}

// toModel requires register_id to be present since 0 is a valid register.
func (b createTaskBody) toModel() (models.CreateTaskRequest, error) {
	if b.RegisterID == nil {
		return models.CreateTaskRequest{}, dErrors.New(dErrors.CodeValidation, "'register_id' is required")
	}
	return models.CreateTaskRequest{
		SiteName:     b.SiteName,
		SecurityType: b.SecurityType,
		RegisterID:   domain.RegisterID(*b.RegisterID),
	}, nil
}

type dispositionBody struct {
	Action string `json:"action"`
}

type mintBody struct {
	TaskID      *uint64 `json:"task_id"`
	MetadataURI string  `json:"metadata_uri"`
}

func (b mintBody) taskID() (domain.TaskID, error) {
	if b.TaskID == nil {
		return 0, dErrors.New(dErrors.CodeValidation, "'task_id' is required")
	}
	return domain.TaskID(*b.TaskID), nil
}

type metadataURIBody struct {
	MetadataURI string `json:"metadata_uri"`
}

func parseAddressField(field, raw string) (domain.Address, error) {
	addr, err := domain.ParseAddress(raw)
	if err != nil {
		return domain.ZeroAddress, dErrors.Wrap(err, dErrors.CodeValidation, "'"+field+"': "+dErrors.MessageOf(err))
	}
	return addr, nil
}
