package service

import (
	"context"
	"sync"
	"sync/atomic"

	"secreg/internal/registry/models"
	"secreg/pkg/domain"
	dErrors "secreg/pkg/domain-errors"
)

// =============================================================================
// Task Lifecycle Tests
// =============================================================================

func (s *ServiceSuite) TestTaskLifecycle() {
	s.setupLinked()

	// pending, validated, approved
	task := s.createTask(company1)
	s.Equal(domain.TaskID(0), task.ID)
	s.Equal(models.StatusPendingValidation, task.Status)
	s.Equal(verifier1, task.Verifier)

	status, err := s.service.GetStatus(s.ctx, 0)
	s.Require().NoError(err)
	s.Equal(models.StatusPendingValidation, status)

	_, err = s.service.DisposeTask(s.ctx, company1, 0, models.DispositionApprove)
	s.requireCode(err, dErrors.CodeInvalidState)

	validated, err := s.service.ValidateTask(s.ctx, verifier1, 0)
	s.Require().NoError(err)
	s.Equal(models.StatusValidatedByVerifier, validated.Status)

	_, err = s.service.ValidateTask(s.ctx, verifier1, 0)
	s.requireCode(err, dErrors.CodeInvalidState)

	approved, err := s.service.DisposeTask(s.ctx, company1, 0, models.DispositionApprove)
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, approved.Status)

	_, err = s.service.DisposeTask(s.ctx, company1, 0, models.DispositionReject)
	s.requireCode(err, dErrors.CodeInvalidState)

	status, err = s.service.GetStatus(s.ctx, 0)
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, status)

	var types []string
	for _, e := range s.allEvents() {
		types = append(types, string(e.Type))
	}
	s.Equal([]string{
		"RegisterCreated",
		"VerifierCreated",
		"VerifierAddedToCompany",
		"VerificationTaskCreated",
		"VerificationTaskValidated",
		"VerificationTaskUpdated",
	}, types)
}

func (s *ServiceSuite) TestCreateTask() {
	s.Run("unregistered caller is unauthorized", func() {
		_, err := s.service.CreateTask(s.ctx, stranger, models.CreateTaskRequest{SiteName: "Site1", SecurityType: "Extinguisher"})
		s.requireCode(err, dErrors.CodeUnauthorized)
		s.Equal("You're not a company or authorized account!", dErrors.MessageOf(err))
	})

	s.Run("company without verifier is not found", func() {
		s.setupSite(company1)
		_, err := s.service.CreateTask(s.ctx, company1, models.CreateTaskRequest{SiteName: "Site1", SecurityType: "Extinguisher"})
		s.requireCode(err, dErrors.CodeNotFound)
	})

	s.Run("unknown register is not found", func() {
		s.setupVerifier(verifier1, "V1")
		_, err := s.service.LinkVerifier(s.ctx, company1, verifier1)
		s.Require().NoError(err)

		_, err = s.service.CreateTask(s.ctx, company1, models.CreateTaskRequest{SiteName: "Site1", SecurityType: "Extinguisher", RegisterID: 9})
		s.requireCode(err, dErrors.CodeNotFound)
		s.Equal("Security register ID does not exists!", dErrors.MessageOf(err))
	})

	s.Run("empty security type is a validation error", func() {
		_, err := s.service.CreateTask(s.ctx, company1, models.CreateTaskRequest{SiteName: "Site1", SecurityType: " "})
		s.requireCode(err, dErrors.CodeValidation)
	})

	s.Run("failed attempts do not consume task ids", func() {
		task := s.createTask(company1)
		s.Equal(domain.TaskID(0), task.ID)
		task = s.createTask(company1)
		s.Equal(domain.TaskID(1), task.ID)
	})

	s.Run("delegate creates a task for its principal", func() {
		s.addDelegate(models.RoleCompany, company1, delegate1)

		task := s.createTask(delegate1)
		s.Equal(company1, task.Company)
		s.Equal(delegate1, task.CreatedBy)

		e := s.lastEvent()
		s.Equal(models.EventVerificationTaskCreated, e.Type)
		s.Equal(delegate1, e.Actor)
		s.Equal("task:2", e.Subject)
		payload := decodePayload[models.TaskCreated](s, e)
		s.Equal(company1, payload.Company)
		s.Equal(delegate1, payload.Account)
		s.Equal(domain.TaskID(2), payload.TaskID)
		s.Equal(s.now, payload.Timestamp)

		details, err := s.service.GetTask(s.ctx, 2)
		s.Require().NoError(err)
		s.Require().NotNil(details.CreatedByDelegate)
		s.Equal("Name", details.CreatedByDelegate.Name)
		s.Equal("Acme", details.CompanyProfile.Name)
		s.Equal("V1", details.VerifierProfile.Name)
	})

	s.Run("removed delegate can no longer create tasks", func() {
		_, err := s.service.UpdateCompanyAccount(s.ctx, company1, models.UpdateDelegateRequest{Account: delegate1, Action: models.DelegateRemove})
		s.Require().NoError(err)

		_, err = s.service.CreateTask(s.ctx, delegate1, models.CreateTaskRequest{SiteName: "Site1", SecurityType: "Extinguisher"})
		s.requireCode(err, dErrors.CodeUnauthorized)
	})
}

func (s *ServiceSuite) TestValidateTask() {
	s.setupLinked()
	s.createTask(company1)

	s.Run("unknown task is not found", func() {
		_, err := s.service.ValidateTask(s.ctx, verifier1, 5)
		s.requireCode(err, dErrors.CodeNotFound)
	})

	s.Run("company cannot validate", func() {
		_, err := s.service.ValidateTask(s.ctx, company1, 0)
		s.requireCode(err, dErrors.CodeUnauthorized)
		s.Equal("You're not a verifier!", dErrors.MessageOf(err))
	})

	s.Run("another verifier cannot validate", func() {
		s.setupVerifier(verifier2, "V2")
		_, err := s.service.ValidateTask(s.ctx, verifier2, 0)
		s.requireCode(err, dErrors.CodeUnauthorized)
	})

	s.Run("verifier delegate validates", func() {
		s.addDelegate(models.RoleVerifier, verifier1, delegate2)
		task, err := s.service.ValidateTask(s.ctx, delegate2, 0)
		s.Require().NoError(err)
		s.Equal(models.StatusValidatedByVerifier, task.Status)

		payload := decodePayload[models.TaskValidated](s, s.lastEvent())
		s.Equal(verifier1, payload.Verifier)
		s.Equal(delegate2, payload.Account)
	})
}

func (s *ServiceSuite) TestDisposeTask() {
	s.setupLinked()
	s.setupSite(company2)
	s.createTask(company1)
	_, err := s.service.ValidateTask(s.ctx, verifier1, 0)
	s.Require().NoError(err)

	s.Run("other company is unauthorized", func() {
		_, err := s.service.DisposeTask(s.ctx, company2, 0, models.DispositionApprove)
		s.requireCode(err, dErrors.CodeUnauthorized)
	})

	s.Run("unknown action is a validation error", func() {
		_, err := s.service.DisposeTask(s.ctx, company1, 0, models.Disposition("escalate"))
		s.requireCode(err, dErrors.CodeValidation)
		status, err := s.service.GetStatus(s.ctx, 0)
		s.Require().NoError(err)
		s.Equal(models.StatusValidatedByVerifier, status)
	})

	s.Run("approve with reservation", func() {
		task, err := s.service.DisposeTask(s.ctx, company1, 0, models.DispositionApproveWithReservation)
		s.Require().NoError(err)
		s.Equal(models.StatusApprovedWithReservation, task.Status)
	})
}

func (s *ServiceSuite) TestGetStatus_UnknownTask() {
	_, err := s.service.GetStatus(s.ctx, 42)
	s.requireCode(err, dErrors.CodeNotFound)
}

// TestConcurrentDispositions verifies the first disposition wins and every other
// concurrent attempt observes an invalid state.
func (s *ServiceSuite) TestConcurrentDispositions() {
	s.setupLinked()
	s.createTask(company1)
	_, err := s.service.ValidateTask(s.ctx, verifier1, 0)
	s.Require().NoError(err)

	const goroutines = 20
	actions := []models.Disposition{
		models.DispositionApprove,
		models.DispositionReject,
		models.DispositionApproveWithReservation,
	}

	var wg sync.WaitGroup
	var successes, invalid atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(action models.Disposition) {
			defer wg.Done()
			_, err := s.service.DisposeTask(s.ctx, company1, 0, action)
			switch {
			case err == nil:
				successes.Add(1)
			case dErrors.HasCode(err, dErrors.CodeInvalidState):
				invalid.Add(1)
			}
		}(actions[i%len(actions)])
	}
	wg.Wait()

	s.Equal(int32(1), successes.Load())
	s.Equal(int32(goroutines-1), invalid.Load())

	updates := 0
	for _, e := range s.allEvents() {
		if e.Type == models.EventTaskUpdated {
			updates++
		}
	}
	s.Equal(1, updates)
}

func (s *ServiceSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	_, err := s.service.RegisterCompany(ctx, company1, models.RegisterCompanyRequest{Name: "Acme", Siret: "S"})
	s.requireCode(err, dErrors.CodeTimeout)
	s.False(s.service.IsCompany(s.ctx, company1))
}
