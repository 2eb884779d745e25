package service

import (
	"context"

	"secreg/internal/registry/models"
	"secreg/pkg/domain"
	"secreg/pkg/platform/events"
)

// Stores return sentinel.ErrNotFound for missing records and sentinel.ErrAlreadyUsed
// when a unique key is taken. They never enforce business rules.

type CompanyStore interface {
	FindCompany(ctx context.Context, owner domain.Address) (*models.Company, error)
	SaveCompany(ctx context.Context, company *models.Company) error
}

type VerifierStore interface {
	FindVerifier(ctx context.Context, owner domain.Address) (*models.Verifier, error)
	FindVerifierByName(ctx context.Context, name string) (*models.Verifier, error)
	SaveVerifier(ctx context.Context, verifier *models.Verifier) error
}

type DelegateStore interface {
	FindDelegate(ctx context.Context, role models.Role, account domain.Address) (*models.Delegate, error)
	SaveDelegate(ctx context.Context, delegate *models.Delegate) error
	ListDelegates(ctx context.Context, role models.Role, principal domain.Address) ([]*models.Delegate, error)
}

type SiteStore interface {
	CountSites(ctx context.Context, owner domain.Address) (int, error)
	FindSite(ctx context.Context, owner domain.Address, registerID domain.RegisterID) (*models.Site, error)
	FindSiteByName(ctx context.Context, owner domain.Address, siteName string) (*models.Site, error)
	CreateSite(ctx context.Context, site *models.Site) error
	ListSites(ctx context.Context, owner domain.Address) ([]*models.Site, error)
}

type LinkStore interface {
	FindLink(ctx context.Context, company domain.Address) (*models.VerifierLink, error)
	CreateLink(ctx context.Context, link *models.VerifierLink) error
}

type TaskStore interface {
	NextTaskID(ctx context.Context) (domain.TaskID, error)
	CreateTask(ctx context.Context, task *models.Task) error
	FindTask(ctx context.Context, id domain.TaskID) (*models.Task, error)
	UpdateTask(ctx context.Context, task *models.Task) error
	ListTasksByCompany(ctx context.Context, company domain.Address) ([]*models.Task, error)
	ListTasksByVerifier(ctx context.Context, verifier domain.Address) ([]*models.Task, error)
}

type CertificateStore interface {
	FindCertificate(ctx context.Context, tokenID domain.TokenID) (*models.Certificate, error)
	CreateCertificate(ctx context.Context, cert *models.Certificate) error
	UpdateCertificate(ctx context.Context, cert *models.Certificate) error
}

// Stores is the set of registries one transaction operates on.
type Stores struct {
	Companies    CompanyStore
	Verifiers    VerifierStore
	Delegates    DelegateStore
	Sites        SiteStore
	Links        LinkStore
	Tasks        TaskStore
	Certificates CertificateStore
}

// Registry is a backend providing every store from one value.
type Registry interface {
	CompanyStore
	VerifierStore
	DelegateStore
	SiteStore
	LinkStore
	TaskStore
	CertificateStore
}

// StoresOf exposes r through each store field.
func StoresOf(r Registry) Stores {
	return Stores{
		Companies:    r,
		Verifiers:    r,
		Delegates:    r,
		Sites:        r,
		Links:        r,
		Tasks:        r,
		Certificates: r,
	}
}

// StoreTx runs fn as one atomic, serialized unit of work. The ctx passed to fn
// must be used for every store and publisher call so postgres work joins the
// same SQL transaction.
//
// RunInReadTx is for operations that never write: it excludes writers but lets
// other readers run alongside.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
	RunInReadTx(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}

// EventPublisher appends domain events to the event log.
type EventPublisher interface {
	Emit(ctx context.Context, event events.Event) error
}
