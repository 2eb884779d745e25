package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"secreg/internal/registry/models"
	"secreg/internal/registry/service"
	"secreg/internal/registry/store/memory"
	dErrors "secreg/pkg/domain-errors"
)

type SeedSuite struct {
	suite.Suite
	service *service.Service
}

func TestSeedSuite(t *testing.T) {
	suite.Run(t, new(SeedSuite))
}

func (s *SeedSuite) SetupTest() {
	var err error
	s.service, err = service.New(service.NewInMemoryTx(service.StoresOf(memory.New())))
	s.Require().NoError(err)
}

func (s *SeedSuite) TestRun() {
	ctx := context.Background()
	result, err := Run(ctx, s.service)
	s.Require().NoError(err)
	s.Equal(4, result.Sites)
	s.Equal(8, result.Tasks)
	s.Len(result.Accounts, 11)

	s.True(s.service.IsCompany(ctx, Company1))
	s.True(s.service.IsCompanyAccount(ctx, CompanyAccount3))
	s.True(s.service.IsVerifierAccount(ctx, VerifierAccount3))

	company, err := s.service.GetCompany(ctx, Company1)
	s.Require().NoError(err)
	s.Len(company.Sites, 3)

	tasks, err := s.service.ListTasksByVerifier(ctx, Verifier1)
	s.Require().NoError(err)
	s.Len(tasks, 6)

	details, err := s.service.GetTask(ctx, 6)
	s.Require().NoError(err)
	s.Equal(CompanyAccount1, details.Task.CreatedBy)
	s.Equal(models.StatusPendingValidation, details.Task.Status)
}

func (s *SeedSuite) TestRunTwiceFails() {
	ctx := context.Background()
	_, err := Run(ctx, s.service)
	s.Require().NoError(err)

	_, err = Run(ctx, s.service)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}
