package service

import (
	"context"

	"secreg/internal/registry/models"
	"secreg/pkg/domain"
	dErrors "secreg/pkg/domain-errors"
	"secreg/pkg/requestcontext"
)

// CreateTask opens a verification task on one of the company's sites, assigned to
// the company's linked verifier.
func (s *Service) CreateTask(ctx context.Context, caller domain.Address, req models.CreateTaskRequest) (*models.Task, error) {
	ctx, done := s.begin(ctx, "create_task", caller)
	req.Normalize()
	now := requestcontext.Now(ctx)

	var task *models.Task
	err := s.tx.RunInTx(ctx, func(ctx context.Context, st Stores) error {
		// 1. caller must act for a company
		res, err := requireRole(ctx, st, caller, models.RoleCompany, "You're not a company or authorized account!")
		if err != nil {
			return err
		}

		// 2. the company needs a verifier
		link, err := st.Links.FindLink(ctx, res.Principal)
		if err != nil {
			return loadErr(err, "No verifier is linked to this company!")
		}

		// 3. the register must exist
		if _, err := st.Sites.FindSite(ctx, res.Principal, req.RegisterID); err != nil {
			return loadErr(err, "Security register ID does not exists!")
		}

		// 4. descriptive fields
		if req.SiteName == "" {
			return dErrors.New(dErrors.CodeValidation, "'site name' cannot be empty!")
		}
		if req.SecurityType == "" {
			return dErrors.New(dErrors.CodeValidation, "'security type' cannot be empty!")
		}

		// 5. allocate and store
		id, err := st.Tasks.NextTaskID(ctx)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to allocate task id")
		}
		task, err = models.NewTask(id, res.Principal, link.Verifier, req.RegisterID, req.SiteName, req.SecurityType, caller, now)
		if err != nil {
			return asValidation(err)
		}
		if err := st.Tasks.CreateTask(ctx, task); err != nil {
			return writeErr(err, "taskID already exists!")
		}

		// 6. announce
		return s.emit(ctx, caller, now, models.TaskCreated{
			Company:      task.Company,
			Account:      caller,
			Verifier:     task.Verifier,
			RegisterID:   task.RegisterID,
			SecurityType: task.SecurityType,
			TaskID:       task.ID,
			Status:       task.Status,
			SiteName:     task.SiteName,
			Timestamp:    now,
		})
	})
	if err = done(err); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementTasksCreated()
	}
	s.logAudit(ctx, models.EventVerificationTaskCreated,
		"task_id", task.ID.String(),
		"company", task.Company.String(),
		"account", caller.String(),
	)
	return task, nil
}

// ValidateTask moves a pending task to ValidatedByVerifier. Only the task's own
// verifier, or one of its active delegates, may validate.
func (s *Service) ValidateTask(ctx context.Context, caller domain.Address, taskID domain.TaskID) (*models.Task, error) {
	ctx, done := s.begin(ctx, "validate_task", caller)
	now := requestcontext.Now(ctx)

	var task *models.Task
	err := s.tx.RunInTx(ctx, func(ctx context.Context, st Stores) error {
		res, err := requireRole(ctx, st, caller, models.RoleVerifier, "You're not a verifier!")
		if err != nil {
			return err
		}
		task, err = st.Tasks.FindTask(ctx, taskID)
		if err != nil {
			return loadErr(err, "taskID does not exist!")
		}
		if task.Verifier != res.Principal {
			return dErrors.New(dErrors.CodeUnauthorized, "You're not the verifier of this task!")
		}
		if err := task.CanValidate(); err != nil {
			return err
		}

		task.ApplyValidation(now)
		if err := st.Tasks.UpdateTask(ctx, task); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update task")
		}
		return s.emit(ctx, caller, now, models.TaskValidated{
			Verifier: res.Principal,
			Account:  caller,
			TaskID:   task.ID,
			Status:   task.Status,
		})
	})
	if err = done(err); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementTaskTransition(task.Status.String())
	}
	s.logAudit(ctx, models.EventTaskValidated,
		"task_id", task.ID.String(),
		"verifier", task.Verifier.String(),
		"account", caller.String(),
	)
	return task, nil
}

// DisposeTask records the company's decision on a validated task. The first
// disposition wins; later ones fail with an invalid state error.
func (s *Service) DisposeTask(ctx context.Context, caller domain.Address, taskID domain.TaskID, action models.Disposition) (*models.Task, error) {
	ctx, done := s.begin(ctx, "dispose_task", caller)
	now := requestcontext.Now(ctx)

	var task *models.Task
	err := s.tx.RunInTx(ctx, func(ctx context.Context, st Stores) error {
		res, err := requireRole(ctx, st, caller, models.RoleCompany, "You're not a company!")
		if err != nil {
			return err
		}
		task, err = st.Tasks.FindTask(ctx, taskID)
		if err != nil {
			return loadErr(err, "taskID does not exist!")
		}
		if task.Company != res.Principal {
			return dErrors.New(dErrors.CodeUnauthorized, "You're not the company of this task!")
		}
		if err := task.CanDispose(); err != nil {
			return err
		}
		if _, err := models.ParseDisposition(string(action)); err != nil {
			return err
		}

		task.ApplyDisposition(action, now)
		if err := st.Tasks.UpdateTask(ctx, task); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update task")
		}
		return s.emit(ctx, caller, now, models.TaskUpdated{
			Company: res.Principal,
			Account: caller,
			TaskID:  task.ID,
			Status:  task.Status,
		})
	})
	if err = done(err); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementTaskTransition(task.Status.String())
	}
	s.logAudit(ctx, models.EventTaskUpdated,
		"task_id", task.ID.String(),
		"status", task.Status.String(),
		"account", caller.String(),
	)
	return task, nil
}

// GetStatus returns a task's current status.
func (s *Service) GetStatus(ctx context.Context, taskID domain.TaskID) (models.TaskStatus, error) {
	ctx, done := s.begin(ctx, "get_status", domain.ZeroAddress)
	var status models.TaskStatus
	err := s.tx.RunInReadTx(ctx, func(ctx context.Context, st Stores) error {
		task, err := st.Tasks.FindTask(ctx, taskID)
		if err != nil {
			return loadErr(err, "taskID does not exist!")
		}
		status = task.Status
		return nil
	})
	if err = done(err); err != nil {
		return 0, err
	}
	return status, nil
}
