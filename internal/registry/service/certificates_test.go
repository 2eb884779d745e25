package service

import (
	"secreg/internal/registry/models"
	"secreg/pkg/domain"
	dErrors "secreg/pkg/domain-errors"
)

// =============================================================================
// Certificate Tests
// =============================================================================

// disposedTask creates task 0 for company1 and drives it to the status d leads to.
func (s *ServiceSuite) disposedTask(d models.Disposition) {
	s.setupLinked()
	s.createTask(company1)
	_, err := s.service.ValidateTask(s.ctx, verifier1, 0)
	s.Require().NoError(err)
	_, err = s.service.DisposeTask(s.ctx, company1, 0, d)
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestMint() {
	s.disposedTask(models.DispositionApprove)

	s.Run("mints once", func() {
		cert, err := s.service.Mint(s.ctx, company1, 0, "ipfs://uri")
		s.Require().NoError(err)
		s.Equal(domain.TokenID(0), cert.TokenID)
		s.Equal(company1, cert.Owner)
		s.Equal(company1, cert.MintedBy)

		list := s.allEvents()
		s.Require().GreaterOrEqual(len(list), 2)
		transfer := decodePayload[models.Transfer](s, list[len(list)-2])
		s.True(transfer.From.IsZero())
		s.Equal(company1, transfer.To)
		s.Equal(models.EventMetadataUpdate, list[len(list)-1].Type)

		_, err = s.service.Mint(s.ctx, company1, 0, "ipfs://other")
		s.requireCode(err, dErrors.CodeConflict)

		uri, err := s.service.GetMetadataURI(s.ctx, 0)
		s.Require().NoError(err)
		s.Equal("ipfs://uri", uri)
	})

	s.Run("unknown token is not found", func() {
		_, err := s.service.GetMetadataURI(s.ctx, 9)
		s.requireCode(err, dErrors.CodeNotFound)
		s.Equal("ERC721: invalid token ID", dErrors.MessageOf(err))
	})

	s.Run("unknown task is not found", func() {
		_, err := s.service.Mint(s.ctx, company1, 9, "ipfs://uri")
		s.requireCode(err, dErrors.CodeNotFound)
	})
}

func (s *ServiceSuite) TestMint_NotCertifiable() {
	s.setupLinked()
	s.createTask(company1)

	_, err := s.service.Mint(s.ctx, company1, 0, "ipfs://uri")
	s.requireCode(err, dErrors.CodeInvalidState)

	_, err = s.service.ValidateTask(s.ctx, verifier1, 0)
	s.Require().NoError(err)
	_, err = s.service.Mint(s.ctx, company1, 0, "ipfs://uri")
	s.requireCode(err, dErrors.CodeInvalidState)
	s.Equal("Unable to mint a token until status is approved or rejected!", dErrors.MessageOf(err))
}

func (s *ServiceSuite) TestMint_Reservation() {
	s.Run("default policy refuses approved with reservation", func() {
		s.disposedTask(models.DispositionApproveWithReservation)
		_, err := s.service.Mint(s.ctx, company1, 0, "ipfs://uri")
		s.requireCode(err, dErrors.CodeInvalidState)
	})

	s.Run("policy may allow it", func() {
		s.service = s.newService(Policy{VerifierNameScope: NameScopeGlobal, MintWithReservation: true})
		s.disposedTask(models.DispositionApproveWithReservation)
		_, err := s.service.Mint(s.ctx, company1, 0, "ipfs://uri")
		s.Require().NoError(err)
	})
}

func (s *ServiceSuite) TestMint_Authorization() {
	s.disposedTask(models.DispositionReject)
	s.setupSite(company2)
	s.addDelegate(models.RoleCompany, company1, delegate1)

	_, err := s.service.Mint(s.ctx, company2, 0, "ipfs://uri")
	s.requireCode(err, dErrors.CodeUnauthorized)

	_, err = s.service.Mint(s.ctx, verifier1, 0, "ipfs://uri")
	s.requireCode(err, dErrors.CodeUnauthorized)

	cert, err := s.service.Mint(s.ctx, delegate1, 0, "ipfs://uri")
	s.Require().NoError(err)
	s.Equal(company1, cert.Owner)
	s.Equal(delegate1, cert.MintedBy)

	list := s.allEvents()
	s.Require().GreaterOrEqual(len(list), 2)
	transfer := list[len(list)-2]
	s.Equal(models.EventTransfer, transfer.Type)
	s.Equal(delegate1, transfer.Actor)
	s.Equal(cert.Owner, decodePayload[models.Transfer](s, transfer).To)
}

func (s *ServiceSuite) TestMint_StoresURIVerbatim() {
	s.disposedTask(models.DispositionApprove)

	cert, err := s.service.Mint(s.ctx, company1, 0, "")
	s.Require().NoError(err)
	s.Empty(cert.MetadataURI)

	uri, err := s.service.GetMetadataURI(s.ctx, 0)
	s.Require().NoError(err)
	s.Empty(uri)
}

func (s *ServiceSuite) TestUpdateMetadataURI() {
	s.disposedTask(models.DispositionApprove)
	_, err := s.service.Mint(s.ctx, company1, 0, "ipfs://first")
	s.Require().NoError(err)

	cert, err := s.service.UpdateMetadataURI(s.ctx, company1, 0, "ipfs://second")
	s.Require().NoError(err)
	s.Equal("ipfs://second", cert.MetadataURI)
	s.Equal(models.EventMetadataUpdate, s.lastEvent().Type)

	_, err = s.service.UpdateMetadataURI(s.ctx, company1, 0, "ipfs://third")
	s.requireCode(err, dErrors.CodeConflict)

	uri, err := s.service.GetMetadataURI(s.ctx, 0)
	s.Require().NoError(err)
	s.Equal("ipfs://second", uri)
}

func (s *ServiceSuite) TestBuildCertificateMetadata() {
	s.disposedTask(models.DispositionApprove)

	md, err := s.service.BuildCertificateMetadata(s.ctx, 0)
	s.Require().NoError(err)
	s.Equal(uint64(0), md.TaskID)
	s.Equal("Extinguisher", md.Type)
	s.Equal("Site1", md.Sector)
	s.Equal("Acme", md.Company.Name)
	s.Equal("V1", md.Verifier.Name)
	s.Equal("2024-02-14", md.Date)

	_, err = s.service.BuildCertificateMetadata(s.ctx, 3)
	s.requireCode(err, dErrors.CodeNotFound)
}

func (s *ServiceSuite) TestListTasks() {
	s.setupLinked()
	s.createTask(company1)
	s.createTask(company1)

	byCompany, err := s.service.ListTasksByCompany(s.ctx, company1)
	s.Require().NoError(err)
	s.Len(byCompany, 2)

	byVerifier, err := s.service.ListTasksByVerifier(s.ctx, verifier1)
	s.Require().NoError(err)
	s.Len(byVerifier, 2)

	details, err := s.service.GetVerifier(s.ctx, verifier1)
	s.Require().NoError(err)
	s.Equal("V1", details.Name)

	company, err := s.service.GetCompany(s.ctx, company1)
	s.Require().NoError(err)
	s.Require().NotNil(company.Verifier)
	s.Equal(verifier1, *company.Verifier)
	s.Len(company.Sites, 1)
}
