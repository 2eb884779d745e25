package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"secreg/internal/registry/models"
	"secreg/pkg/domain"
	"secreg/pkg/platform/sentinel"
)

var (
	company  = domain.MustParseAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	verifier = domain.MustParseAddress("0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359")
	account  = domain.MustParseAddress("0xdbf03b407c01e7cd3cbea99509d93f8dddc8c6fb")
)

type RegistryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	now   time.Time
}

func TestRegistryStoreSuite(t *testing.T) {
	suite.Run(t, new(RegistryStoreSuite))
}

func (s *RegistryStoreSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
	s.now = time.Date(2024, 2, 14, 10, 0, 0, 0, time.UTC)
}

func (s *RegistryStoreSuite) TestCompanies() {
	s.Run("returns ErrNotFound for unknown owner", func() {
		_, err := s.store.FindCompany(s.ctx, company)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned records are copies", func() {
		c, err := models.NewCompany(company, "Acme", "1 Main St", "SIRET", s.now)
		s.Require().NoError(err)
		s.Require().NoError(s.store.SaveCompany(s.ctx, c))

		found, err := s.store.FindCompany(s.ctx, company)
		s.Require().NoError(err)
		found.Name = "Mutated"

		again, err := s.store.FindCompany(s.ctx, company)
		s.Require().NoError(err)
		s.Equal("Acme", again.Name)
	})
}

func (s *RegistryStoreSuite) TestVerifierByName() {
	v, err := models.NewVerifier(verifier, "Bureau", "3 Check Rd", "SIRETV", "AP-1", s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.SaveVerifier(s.ctx, v))

	found, err := s.store.FindVerifierByName(s.ctx, "Bureau")
	s.Require().NoError(err)
	s.Equal(verifier, found.Owner)

	_, err = s.store.FindVerifierByName(s.ctx, "Other")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RegistryStoreSuite) TestDelegates() {
	d := models.NewDelegate(models.RoleCompany, account, company, "Doe", "Jane", s.now)
	s.Require().NoError(s.store.SaveDelegate(s.ctx, d))

	s.Run("roles are separate namespaces", func() {
		_, err := s.store.FindDelegate(s.ctx, models.RoleVerifier, account)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("lists by principal", func() {
		list, err := s.store.ListDelegates(s.ctx, models.RoleCompany, company)
		s.Require().NoError(err)
		s.Require().Len(list, 1)
		s.Equal(account, list[0].Account)

		list, err = s.store.ListDelegates(s.ctx, models.RoleCompany, verifier)
		s.Require().NoError(err)
		s.Empty(list)
	})
}

func (s *RegistryStoreSuite) TestSites() {
	site0, err := models.NewSite(company, 0, "Site1", "2 Side St", s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateSite(s.ctx, site0))

	s.Run("rejects a register id out of sequence", func() {
		site, err := models.NewSite(company, 5, "Site5", "x", s.now)
		s.Require().NoError(err)
		s.ErrorIs(s.store.CreateSite(s.ctx, site), sentinel.ErrAlreadyUsed)
	})

	s.Run("rejects a duplicate name", func() {
		site, err := models.NewSite(company, 1, "Site1", "x", s.now)
		s.Require().NoError(err)
		s.ErrorIs(s.store.CreateSite(s.ctx, site), sentinel.ErrAlreadyUsed)
	})

	s.Run("finds by id and name", func() {
		count, err := s.store.CountSites(s.ctx, company)
		s.Require().NoError(err)
		s.Equal(1, count)

		found, err := s.store.FindSite(s.ctx, company, 0)
		s.Require().NoError(err)
		s.Equal("Site1", found.SiteName)

		_, err = s.store.FindSite(s.ctx, company, 1)
		s.ErrorIs(err, sentinel.ErrNotFound)

		byName, err := s.store.FindSiteByName(s.ctx, company, "Site1")
		s.Require().NoError(err)
		s.Equal(domain.RegisterID(0), byName.RegisterID)
	})
}

func (s *RegistryStoreSuite) TestLinks() {
	link := &models.VerifierLink{Company: company, Verifier: verifier, LinkedAt: s.now}
	s.Require().NoError(s.store.CreateLink(s.ctx, link))
	s.ErrorIs(s.store.CreateLink(s.ctx, link), sentinel.ErrAlreadyUsed)

	found, err := s.store.FindLink(s.ctx, company)
	s.Require().NoError(err)
	s.Equal(verifier, found.Verifier)
}

func (s *RegistryStoreSuite) TestTasks() {
	id, err := s.store.NextTaskID(s.ctx)
	s.Require().NoError(err)
	s.Equal(domain.TaskID(0), id)

	task, err := models.NewTask(id, company, verifier, 0, "Site1", "Extinguisher", account, s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateTask(s.ctx, task))
	s.ErrorIs(s.store.CreateTask(s.ctx, task), sentinel.ErrAlreadyUsed)

	next, err := s.store.NextTaskID(s.ctx)
	s.Require().NoError(err)
	s.Equal(domain.TaskID(1), next)

	task.ApplyValidation(s.now)
	s.Require().NoError(s.store.UpdateTask(s.ctx, task))
	found, err := s.store.FindTask(s.ctx, 0)
	s.Require().NoError(err)
	s.Equal(models.StatusValidatedByVerifier, found.Status)

	byCompany, err := s.store.ListTasksByCompany(s.ctx, company)
	s.Require().NoError(err)
	s.Len(byCompany, 1)
	byVerifier, err := s.store.ListTasksByVerifier(s.ctx, company)
	s.Require().NoError(err)
	s.Empty(byVerifier)

	_, err = s.store.FindTask(s.ctx, 7)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RegistryStoreSuite) TestCertificates() {
	cert := models.NewCertificate(0, company, account, "ipfs://meta", s.now)

	s.ErrorIs(s.store.UpdateCertificate(s.ctx, cert), sentinel.ErrNotFound)
	s.Require().NoError(s.store.CreateCertificate(s.ctx, cert))
	s.ErrorIs(s.store.CreateCertificate(s.ctx, cert), sentinel.ErrAlreadyUsed)

	cert.ApplyMetadataURI("ipfs://new", s.now)
	s.Require().NoError(s.store.UpdateCertificate(s.ctx, cert))
	found, err := s.store.FindCertificate(s.ctx, 0)
	s.Require().NoError(err)
	s.Equal("ipfs://new", found.MetadataURI)
	s.True(found.MetadataUpdated)
}
