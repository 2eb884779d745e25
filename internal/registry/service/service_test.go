package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"secreg/internal/registry/metrics"
	"secreg/internal/registry/models"
	"secreg/internal/registry/store/memory"
	"secreg/pkg/domain"
	dErrors "secreg/pkg/domain-errors"
	"secreg/pkg/platform/events"
	"secreg/pkg/platform/events/publisher"
	eventstore "secreg/pkg/platform/events/store/memory"
	"secreg/pkg/requestcontext"
)

// =============================================================================
// Registry Service Test Suite
// =============================================================================
// The service runs on the in-memory registry and event log so each test checks
// authorization, state transitions and emitted events together.

func testAddress(n int) domain.Address {
	return domain.MustParseAddress(fmt.Sprintf("0x%040x", n))
}

var (
	company1  = testAddress(0xc1)
	company2  = testAddress(0xc2)
	verifier1 = testAddress(0xa1)
	verifier2 = testAddress(0xa2)
	delegate1 = testAddress(0xd1)
	delegate2 = testAddress(0xd2)
	stranger  = testAddress(0xee)
)

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	now     time.Time
	store   *memory.InMemory
	events  *eventstore.InMemoryStore
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.now = time.Date(2024, 2, 14, 10, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.ctx = requestcontext.WithRequestID(s.ctx, "req-test")
	s.service = s.newService(DefaultPolicy())
}

func (s *ServiceSuite) newService(policy Policy) *Service {
	s.store = memory.New()
	s.events = eventstore.NewInMemoryStore()
	svc, err := New(
		NewInMemoryTx(StoresOf(s.store)),
		WithEventPublisher(publisher.NewPublisher(s.events)),
		WithMetrics(metrics.NewWith(prometheus.NewRegistry())),
		WithPolicy(policy),
	)
	s.Require().NoError(err)
	return svc
}

func (s *ServiceSuite) requireCode(err error, code dErrors.Code) {
	s.T().Helper()
	s.Require().Error(err)
	s.Require().True(dErrors.HasCode(err, code), "expected %s, got %v", code, err)
}

func (s *ServiceSuite) allEvents() []events.Event {
	list, err := s.events.ListAfter(context.Background(), 0, 0)
	s.Require().NoError(err)
	return list
}

func (s *ServiceSuite) lastEvent() events.Event {
	list := s.allEvents()
	s.Require().NotEmpty(list)
	return list[len(list)-1]
}

func decodePayload[T any](s *ServiceSuite, e events.Event) T {
	var out T
	s.Require().NoError(json.Unmarshal(e.Payload, &out))
	return out
}

// setupSite registers c as a company with one site named Site1.
func (s *ServiceSuite) setupSite(c domain.Address) {
	_, err := s.service.CreateSite(s.ctx, c, models.CreateSiteRequest{
		Name: "Acme", AddressName: "1 Main St", Siret: "SIRET1",
		SiteName: "Site1", SiteAddressName: "1 Main St",
	})
	s.Require().NoError(err)
}

func (s *ServiceSuite) setupVerifier(v domain.Address, name string) {
	_, err := s.service.RegisterVerifier(s.ctx, v, models.RegisterVerifierRequest{
		Name: name, AddressName: "3 Check Rd", Siret: "SIRETV", ApprovalNumber: "AP-1",
	})
	s.Require().NoError(err)
}

// setupLinked builds company1 with Site1, verifier1 and the link between them.
func (s *ServiceSuite) setupLinked() {
	s.setupSite(company1)
	s.setupVerifier(verifier1, "V1")
	_, err := s.service.LinkVerifier(s.ctx, company1, verifier1)
	s.Require().NoError(err)
}

func (s *ServiceSuite) createTask(caller domain.Address) *models.Task {
	task, err := s.service.CreateTask(s.ctx, caller, models.CreateTaskRequest{
		SiteName: "Site1", SecurityType: "Extinguisher", RegisterID: 0,
	})
	s.Require().NoError(err)
	return task
}

func (s *ServiceSuite) addDelegate(role models.Role, principal, account domain.Address) {
	req := models.UpdateDelegateRequest{Account: account, Name: "Name", FirstName: "First", Action: models.DelegateAdd}
	var err error
	if role == models.RoleCompany {
		_, err = s.service.UpdateCompanyAccount(s.ctx, principal, req)
	} else {
		_, err = s.service.UpdateVerifierAccount(s.ctx, principal, req)
	}
	s.Require().NoError(err)
}

// =============================================================================
// Constructor Tests
// =============================================================================

func (s *ServiceSuite) TestNew() {
	s.Run("nil transaction returns error", func() {
		_, err := New(nil)
		s.Require().Error(err)
		s.Contains(err.Error(), "store transaction is required")
	})

	s.Run("invalid policy returns error", func() {
		_, err := New(NewInMemoryTx(StoresOf(memory.New())), WithPolicy(Policy{VerifierNameScope: "tenant"}))
		s.Require().Error(err)
	})

	s.Run("defaults", func() {
		svc, err := New(NewInMemoryTx(StoresOf(memory.New())))
		s.Require().NoError(err)
		s.Equal(DefaultPolicy(), svc.Policy())
	})
}

// =============================================================================
// Identity Tests
// =============================================================================

func (s *ServiceSuite) TestRegisterCompany() {
	s.Run("empty siret is a validation error", func() {
		_, err := s.service.RegisterCompany(s.ctx, company1, models.RegisterCompanyRequest{Name: "Acme", Siret: "  "})
		s.requireCode(err, dErrors.CodeValidation)
		s.False(s.service.IsCompany(s.ctx, company1))
	})

	s.Run("registers then upserts the profile", func() {
		c, err := s.service.RegisterCompany(s.ctx, company1, models.RegisterCompanyRequest{Name: "Acme", AddressName: "1 Main St", Siret: "S1"})
		s.Require().NoError(err)
		s.Equal(s.now, c.CreatedAt)

		c, err = s.service.RegisterCompany(s.ctx, company1, models.RegisterCompanyRequest{Name: "Acme SA", AddressName: "1 Main St", Siret: "S1"})
		s.Require().NoError(err)
		s.Equal("Acme SA", c.Name)
		s.True(s.service.IsCompany(s.ctx, company1))

		e := s.lastEvent()
		s.Equal(models.EventCompanyRegistered, e.Type)
		s.Equal(company1, e.Actor)
		s.Equal("req-test", e.RequestID)
	})

	s.Run("verifier cannot become a company", func() {
		s.setupVerifier(verifier1, "V1")
		_, err := s.service.RegisterCompany(s.ctx, verifier1, models.RegisterCompanyRequest{Name: "X", Siret: "S"})
		s.requireCode(err, dErrors.CodeConflict)
	})
}

func (s *ServiceSuite) TestRegisterCompany_StrictPolicy() {
	svc := s.newService(Policy{VerifierNameScope: NameScopeGlobal, StrictCompanyRegistration: true})
	_, err := svc.RegisterCompany(s.ctx, company1, models.RegisterCompanyRequest{Name: "Acme", Siret: "S1"})
	s.Require().NoError(err)

	_, err = svc.RegisterCompany(s.ctx, company1, models.RegisterCompanyRequest{Name: "Other", Siret: "S1"})
	s.requireCode(err, dErrors.CodeConflict)
	s.Equal("Company already exists!", dErrors.MessageOf(err))

	details, err := svc.GetCompany(s.ctx, company1)
	s.Require().NoError(err)
	s.Equal("Acme", details.Name)
}

func (s *ServiceSuite) TestRegisterVerifier() {
	s.Run("missing approval number is a validation error", func() {
		_, err := s.service.RegisterVerifier(s.ctx, verifier1, models.RegisterVerifierRequest{Name: "V1", Siret: "S"})
		s.requireCode(err, dErrors.CodeValidation)
	})

	s.Run("company cannot become a verifier", func() {
		s.setupSite(company1)
		_, err := s.service.RegisterVerifier(s.ctx, company1, models.RegisterVerifierRequest{Name: "V", Siret: "S", ApprovalNumber: "A"})
		s.requireCode(err, dErrors.CodeConflict)
		s.Equal("Unable to create a verifier as a company account!", dErrors.MessageOf(err))
	})

	s.Run("global scope rejects a taken name", func() {
		s.setupVerifier(verifier1, "V1")
		_, err := s.service.RegisterVerifier(s.ctx, verifier2, models.RegisterVerifierRequest{Name: "V1", Siret: "S", ApprovalNumber: "A"})
		s.requireCode(err, dErrors.CodeConflict)
		s.False(s.service.IsVerifier(s.ctx, verifier2))
	})

	s.Run("owner may rename itself", func() {
		v, err := s.service.RegisterVerifier(s.ctx, verifier1, models.RegisterVerifierRequest{Name: "V1 bis", Siret: "S", ApprovalNumber: "A"})
		s.Require().NoError(err)
		s.Equal("V1 bis", v.Name)
	})
}

func (s *ServiceSuite) TestRegisterVerifier_OwnerScope() {
	svc := s.newService(Policy{VerifierNameScope: NameScopeOwner})
	req := models.RegisterVerifierRequest{Name: "Bureau", Siret: "S", ApprovalNumber: "A"}

	_, err := svc.RegisterVerifier(s.ctx, verifier1, req)
	s.Require().NoError(err)

	_, err = svc.RegisterVerifier(s.ctx, verifier2, req)
	s.Require().NoError(err, "different owners may share a name")

	_, err = svc.RegisterVerifier(s.ctx, verifier1, req)
	s.requireCode(err, dErrors.CodeConflict)
}

func (s *ServiceSuite) TestUpdateAccount() {
	s.setupSite(company1)

	s.Run("non principal is unauthorized", func() {
		_, err := s.service.UpdateCompanyAccount(s.ctx, stranger, models.UpdateDelegateRequest{Account: delegate1, Action: models.DelegateAdd})
		s.requireCode(err, dErrors.CodeUnauthorized)
	})

	s.Run("unknown action is a validation error", func() {
		_, err := s.service.UpdateCompanyAccount(s.ctx, company1, models.UpdateDelegateRequest{Account: delegate1, Action: "promote"})
		s.requireCode(err, dErrors.CodeValidation)
		s.Equal("Invalid action has been provided!", dErrors.MessageOf(err))
	})

	s.Run("self delegation is a validation error", func() {
		_, err := s.service.UpdateCompanyAccount(s.ctx, company1, models.UpdateDelegateRequest{Account: company1, Action: models.DelegateAdd})
		s.requireCode(err, dErrors.CodeValidation)
	})

	s.Run("registered principals cannot be delegates", func() {
		s.setupVerifier(verifier1, "V1")
		_, err := s.service.UpdateCompanyAccount(s.ctx, company1, models.UpdateDelegateRequest{Account: verifier1, Action: models.DelegateAdd})
		s.requireCode(err, dErrors.CodeConflict)
	})

	s.Run("add then remove", func() {
		s.addDelegate(models.RoleCompany, company1, delegate1)
		s.True(s.service.IsCompanyAccount(s.ctx, delegate1))
		s.False(s.service.IsVerifierAccount(s.ctx, delegate1))

		e := s.lastEvent()
		s.Equal(models.EventCompanyAccountUpdated, e.Type)
		payload := decodePayload[models.AccountUpdated](s, e)
		s.Equal(company1, payload.Principal)
		s.Equal(delegate1, payload.Account)
		s.Equal(models.DelegateAdd, payload.Action)

		d, err := s.service.UpdateCompanyAccount(s.ctx, company1, models.UpdateDelegateRequest{Account: delegate1, Action: models.DelegateRemove})
		s.Require().NoError(err)
		s.False(d.Active)
		s.False(s.service.IsCompanyAccount(s.ctx, delegate1))
	})

	s.Run("removing an inactive delegate is not found", func() {
		_, err := s.service.UpdateCompanyAccount(s.ctx, company1, models.UpdateDelegateRequest{Account: delegate1, Action: models.DelegateRemove})
		s.requireCode(err, dErrors.CodeNotFound)
	})

	s.Run("delegates cannot manage delegates", func() {
		s.addDelegate(models.RoleCompany, company1, delegate1)
		_, err := s.service.UpdateCompanyAccount(s.ctx, delegate1, models.UpdateDelegateRequest{Account: delegate2, Action: models.DelegateAdd})
		s.requireCode(err, dErrors.CodeUnauthorized)
	})

	s.Run("listing keeps one record per account", func() {
		delegates, err := s.service.ListDelegates(s.ctx, models.RoleCompany, company1)
		s.Require().NoError(err)
		s.Require().Len(delegates, 1)
		s.Equal(delegate1, delegates[0].Account)
		s.True(delegates[0].Active)

		none, err := s.service.ListDelegates(s.ctx, models.RoleVerifier, company1)
		s.Require().NoError(err)
		s.Empty(none)
	})
}

func (s *ServiceSuite) TestResolvePrincipal() {
	s.setupSite(company1)
	s.setupSite(company2)

	s.Run("owner resolves to itself", func() {
		res, err := s.service.ResolvePrincipal(s.ctx, company1, models.RoleCompany)
		s.Require().NoError(err)
		s.Equal(models.ResolutionOwner, res.Kind)
		s.Equal(company1, res.Principal)
	})

	s.Run("unknown caller is unauthorized", func() {
		_, err := s.service.ResolvePrincipal(s.ctx, stranger, models.RoleCompany)
		s.requireCode(err, dErrors.CodeUnauthorized)
	})

	s.Run("company owner is not a verifier", func() {
		_, err := s.service.ResolvePrincipal(s.ctx, company1, models.RoleVerifier)
		s.requireCode(err, dErrors.CodeUnauthorized)
	})

	s.Run("last add wins", func() {
		s.addDelegate(models.RoleCompany, company1, delegate1)
		s.addDelegate(models.RoleCompany, company2, delegate1)

		res, err := s.service.ResolvePrincipal(s.ctx, delegate1, models.RoleCompany)
		s.Require().NoError(err)
		s.Equal(models.ResolutionDelegate, res.Kind)
		s.Equal(company2, res.Principal)

		_, err = s.service.UpdateCompanyAccount(s.ctx, company1, models.UpdateDelegateRequest{Account: delegate1, Action: models.DelegateRemove})
		s.requireCode(err, dErrors.CodeNotFound)
	})

	s.Run("removed delegate no longer resolves", func() {
		_, err := s.service.UpdateCompanyAccount(s.ctx, company2, models.UpdateDelegateRequest{Account: delegate1, Action: models.DelegateRemove})
		s.Require().NoError(err)

		_, err = s.service.ResolvePrincipal(s.ctx, delegate1, models.RoleCompany)
		s.requireCode(err, dErrors.CodeUnauthorized)
	})
}

func (s *ServiceSuite) TestRoles() {
	s.setupLinked()
	s.addDelegate(models.RoleVerifier, verifier1, delegate2)

	roles, err := s.service.Roles(s.ctx, verifier1)
	s.Require().NoError(err)
	s.True(roles.IsVerifier)
	s.False(roles.IsCompany)

	roles, err = s.service.Roles(s.ctx, delegate2)
	s.Require().NoError(err)
	s.True(roles.IsVerifierAccount)
	s.False(roles.IsCompanyAccount)
	s.False(roles.IsVerifier)
}

// =============================================================================
// Site Tests
// =============================================================================

func (s *ServiceSuite) TestCreateSite() {
	s.Run("duplicate site name conflicts", func() {
		req := models.CreateSiteRequest{
			Name: "Acme", AddressName: "1 Main St", Siret: "SIRET1",
			SiteName: "Site1", SiteAddressName: "1 Main St",
		}
		site, err := s.service.CreateSite(s.ctx, company1, req)
		s.Require().NoError(err)
		s.Equal(domain.RegisterID(0), site.RegisterID)
		s.True(s.service.IsCompany(s.ctx, company1))

		_, err = s.service.CreateSite(s.ctx, company1, req)
		s.requireCode(err, dErrors.CodeConflict)
		s.Equal("Site already exists!", dErrors.MessageOf(err))
	})

	s.Run("register ids are sequential", func() {
		for i := 1; i <= 3; i++ {
			site, err := s.service.CreateSite(s.ctx, company1, models.CreateSiteRequest{
				Name: "Acme", AddressName: "1 Main St", Siret: "SIRET1",
				SiteName: fmt.Sprintf("Site%d", i+1), SiteAddressName: "x",
			})
			s.Require().NoError(err)
			s.Equal(domain.RegisterID(i), site.RegisterID)
		}
		sites, err := s.service.ListSites(s.ctx, company1)
		s.Require().NoError(err)
		s.Len(sites, 4)

		ok, err := s.service.IsRegister(s.ctx, company1, 3)
		s.Require().NoError(err)
		s.True(ok)
		ok, err = s.service.IsRegister(s.ctx, company1, 4)
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("empty field is a validation error", func() {
		_, err := s.service.CreateSite(s.ctx, company2, models.CreateSiteRequest{Name: "Beta", AddressName: "x", Siret: "S", SiteName: "Site1"})
		s.requireCode(err, dErrors.CodeValidation)
		s.Equal("'site address' cannot be empty!", dErrors.MessageOf(err))
		s.False(s.service.IsCompany(s.ctx, company2))
	})

	s.Run("delegate adds a site to its principal", func() {
		s.addDelegate(models.RoleCompany, company1, delegate1)
		site, err := s.service.CreateSite(s.ctx, delegate1, models.CreateSiteRequest{
			Name: "Ignored", AddressName: "x", Siret: "S", SiteName: "Annex", SiteAddressName: "y",
		})
		s.Require().NoError(err)
		s.Equal(company1, site.Owner)
		s.Equal(domain.RegisterID(4), site.RegisterID)
		s.False(s.service.IsCompany(s.ctx, delegate1))

		ok, err := s.service.IsSite(s.ctx, company1, "Annex")
		s.Require().NoError(err)
		s.True(ok)

		details, err := s.service.GetCompany(s.ctx, company1)
		s.Require().NoError(err)
		s.Equal("Acme", details.Name)
	})

	s.Run("verifier cannot create a site", func() {
		s.setupVerifier(verifier1, "V1")
		_, err := s.service.CreateSite(s.ctx, verifier1, models.CreateSiteRequest{
			Name: "V", AddressName: "x", Siret: "S", SiteName: "Site1", SiteAddressName: "y",
		})
		s.requireCode(err, dErrors.CodeConflict)
	})
}

// =============================================================================
// Link Tests
// =============================================================================

func (s *ServiceSuite) TestLinkVerifier() {
	s.setupSite(company1)

	s.Run("unknown verifier is not found", func() {
		_, err := s.service.LinkVerifier(s.ctx, company1, verifier1)
		s.requireCode(err, dErrors.CodeNotFound)
	})

	s.Run("non company is unauthorized", func() {
		s.setupVerifier(verifier1, "V1")
		_, err := s.service.LinkVerifier(s.ctx, stranger, verifier1)
		s.requireCode(err, dErrors.CodeUnauthorized)
	})

	s.Run("links once", func() {
		_, err := s.service.GetLinkedVerifier(s.ctx, company1)
		s.requireCode(err, dErrors.CodeNotFound)

		link, err := s.service.LinkVerifier(s.ctx, company1, verifier1)
		s.Require().NoError(err)
		s.Equal(verifier1, link.Verifier)

		linked, err := s.service.GetLinkedVerifier(s.ctx, company1)
		s.Require().NoError(err)
		s.Equal(verifier1, linked)

		s.setupVerifier(verifier2, "V2")
		_, err = s.service.LinkVerifier(s.ctx, company1, verifier2)
		s.requireCode(err, dErrors.CodeConflict)
		s.Equal("Verifier already exists for this company!", dErrors.MessageOf(err))
	})
}
