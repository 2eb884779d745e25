package service

import (
	"context"

	"secreg/internal/registry/models"
	"secreg/pkg/domain"
	dErrors "secreg/pkg/domain-errors"
)

// GetCompany returns a company with its sites, delegates and linked verifier.
func (s *Service) GetCompany(ctx context.Context, owner domain.Address) (*models.CompanyDetails, error) {
	ctx, done := s.begin(ctx, "get_company", owner)
	var details *models.CompanyDetails
	err := s.tx.RunInReadTx(ctx, func(ctx context.Context, st Stores) error {
		company, err := st.Companies.FindCompany(ctx, owner)
		if err != nil {
			return loadErr(err, "Company does not exists!")
		}
		details = &models.CompanyDetails{Company: company}
		if details.Sites, err = st.Sites.ListSites(ctx, owner); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list sites")
		}
		if details.Delegates, err = st.Delegates.ListDelegates(ctx, models.RoleCompany, owner); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list delegates")
		}
		link, err := st.Links.FindLink(ctx, owner)
		linked, err := found(err)
		if err != nil {
			return err
		}
		if linked {
			details.Verifier = &link.Verifier
		}
		return nil
	})
	if err = done(err); err != nil {
		return nil, err
	}
	return details, nil
}

// GetVerifier returns a verifier with its delegates.
func (s *Service) GetVerifier(ctx context.Context, owner domain.Address) (*models.VerifierDetails, error) {
	ctx, done := s.begin(ctx, "get_verifier", owner)
	var details *models.VerifierDetails
	err := s.tx.RunInReadTx(ctx, func(ctx context.Context, st Stores) error {
		verifier, err := st.Verifiers.FindVerifier(ctx, owner)
		if err != nil {
			return loadErr(err, "Verifier does not exists!")
		}
		details = &models.VerifierDetails{Verifier: verifier}
		if details.Delegates, err = st.Delegates.ListDelegates(ctx, models.RoleVerifier, owner); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list delegates")
		}
		return nil
	})
	if err = done(err); err != nil {
		return nil, err
	}
	return details, nil
}

// ListDelegates returns every delegate record, active or not, of principal in role.
func (s *Service) ListDelegates(ctx context.Context, role models.Role, principal domain.Address) ([]*models.Delegate, error) {
	ctx, done := s.begin(ctx, "list_delegates", principal)
	var delegates []*models.Delegate
	err := s.tx.RunInReadTx(ctx, func(ctx context.Context, st Stores) error {
		var err error
		delegates, err = st.Delegates.ListDelegates(ctx, role, principal)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list delegates")
		}
		return nil
	})
	if err = done(err); err != nil {
		return nil, err
	}
	return delegates, nil
}

// GetTask returns a task joined with the profiles it references.
func (s *Service) GetTask(ctx context.Context, taskID domain.TaskID) (*models.TaskDetails, error) {
	ctx, done := s.begin(ctx, "get_task", domain.ZeroAddress)
	var details *models.TaskDetails
	err := s.tx.RunInReadTx(ctx, func(ctx context.Context, st Stores) error {
		var err error
		details, err = taskDetails(ctx, st, taskID)
		return err
	})
	if err = done(err); err != nil {
		return nil, err
	}
	return details, nil
}

func taskDetails(ctx context.Context, st Stores, taskID domain.TaskID) (*models.TaskDetails, error) {
	task, err := st.Tasks.FindTask(ctx, taskID)
	if err != nil {
		return nil, loadErr(err, "taskID does not exist!")
	}
	details := &models.TaskDetails{Task: task}

	company, err := st.Companies.FindCompany(ctx, task.Company)
	if ok, err := found(err); err != nil {
		return nil, err
	} else if ok {
		details.CompanyProfile = company
	}
	site, err := st.Sites.FindSite(ctx, task.Company, task.RegisterID)
	if ok, err := found(err); err != nil {
		return nil, err
	} else if ok {
		details.Site = site
	}
	verifier, err := st.Verifiers.FindVerifier(ctx, task.Verifier)
	if ok, err := found(err); err != nil {
		return nil, err
	} else if ok {
		details.VerifierProfile = verifier
	}
	if task.CreatedBy != task.Company {
		delegate, err := st.Delegates.FindDelegate(ctx, models.RoleCompany, task.CreatedBy)
		if ok, err := found(err); err != nil {
			return nil, err
		} else if ok && delegate.Principal == task.Company {
			details.CreatedByDelegate = delegate
		}
	}
	cert, err := st.Certificates.FindCertificate(ctx, domain.TokenFor(taskID))
	if ok, err := found(err); err != nil {
		return nil, err
	} else if ok {
		details.Certificate = cert
	}
	return details, nil
}

// BuildCertificateMetadata renders the metadata document for a task. Hosting the
// document and choosing its URI is up to the caller.
func (s *Service) BuildCertificateMetadata(ctx context.Context, taskID domain.TaskID) (*models.CertificateMetadata, error) {
	details, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	md := models.NewCertificateMetadata(details)
	return &md, nil
}

func (s *Service) ListTasksByCompany(ctx context.Context, company domain.Address) ([]*models.Task, error) {
	ctx, done := s.begin(ctx, "list_tasks_by_company", company)
	var tasks []*models.Task
	err := s.tx.RunInReadTx(ctx, func(ctx context.Context, st Stores) error {
		var err error
		tasks, err = st.Tasks.ListTasksByCompany(ctx, company)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list tasks")
		}
		return nil
	})
	if err = done(err); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Service) ListTasksByVerifier(ctx context.Context, verifier domain.Address) ([]*models.Task, error) {
	ctx, done := s.begin(ctx, "list_tasks_by_verifier", verifier)
	var tasks []*models.Task
	err := s.tx.RunInReadTx(ctx, func(ctx context.Context, st Stores) error {
		var err error
		tasks, err = st.Tasks.ListTasksByVerifier(ctx, verifier)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list tasks")
		}
		return nil
	})
	if err = done(err); err != nil {
		return nil, err
	}
	return tasks, nil
}
