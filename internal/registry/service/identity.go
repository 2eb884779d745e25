package service

import (
	"context"
	"time"

	"secreg/internal/registry/models"
	"secreg/pkg/domain"
	dErrors "secreg/pkg/domain-errors"
	"secreg/pkg/requestcontext"
)

// RegisterCompany registers the caller as a company, or updates its profile when
// it is already one (unless the policy requires strict registration).
func (s *Service) RegisterCompany(ctx context.Context, caller domain.Address, req models.RegisterCompanyRequest) (*models.Company, error) {
	ctx, done := s.begin(ctx, "register_company", caller)
	req.Normalize()
	now := requestcontext.Now(ctx)

	var company *models.Company
	err := s.tx.RunInTx(ctx, func(ctx context.Context, st Stores) error {
		if req.Siret == "" {
			return dErrors.New(dErrors.CodeValidation, "'siret' cannot be empty!")
		}
		verifier, err := isPrincipal(ctx, st, caller, models.RoleVerifier)
		if err != nil {
			return err
		}
		if verifier {
			return dErrors.New(dErrors.CodeConflict, "Unable to create a company as a verifier account!")
		}

		var existing bool
		company, existing, err = s.upsertCompany(ctx, st, caller, req.Name, req.AddressName, req.Siret, now)
		if err != nil {
			return err
		}
		if existing && s.policy.StrictCompanyRegistration {
			return dErrors.New(dErrors.CodeConflict, "Company already exists!")
		}
		if err := st.Companies.SaveCompany(ctx, company); err != nil {
			return writeErr(err, "Company already exists!")
		}

		return s.emit(ctx, caller, now, models.CompanyRegistered{
			Company:     company.Owner,
			Name:        company.Name,
			AddressName: company.AddressName,
			Siret:       company.Siret,
		})
	})
	if err = done(err); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementPrincipalRegistered(string(models.RoleCompany))
	}
	s.logAudit(ctx, models.EventCompanyRegistered, "company", caller.String())
	return company, nil
}

// upsertCompany loads owner's company and applies the profile, or builds a new
// one. The result is not saved.
func (s *Service) upsertCompany(ctx context.Context, st Stores, owner domain.Address, name, addressName, siret string, now time.Time) (*models.Company, bool, error) {
	company, err := st.Companies.FindCompany(ctx, owner)
	ok, err := found(err)
	if err != nil {
		return nil, false, err
	}
	if ok {
		company.ApplyProfile(name, addressName, siret, now)
		return company, true, nil
	}
	company, err = models.NewCompany(owner, name, addressName, siret, now)
	if err != nil {
		return nil, false, asValidation(err)
	}
	return company, false, nil
}

// RegisterVerifier registers the caller as a verifier, or updates its profile.
func (s *Service) RegisterVerifier(ctx context.Context, caller domain.Address, req models.RegisterVerifierRequest) (*models.Verifier, error) {
	ctx, done := s.begin(ctx, "register_verifier", caller)
	req.Normalize()
	now := requestcontext.Now(ctx)

	var verifier *models.Verifier
	err := s.tx.RunInTx(ctx, func(ctx context.Context, st Stores) error {
		if req.Siret == "" {
			return dErrors.New(dErrors.CodeValidation, "'siret' cannot be empty!")
		}
		if req.ApprovalNumber == "" {
			return dErrors.New(dErrors.CodeValidation, "'approval number' cannot be empty!")
		}
		company, err := isPrincipal(ctx, st, caller, models.RoleCompany)
		if err != nil {
			return err
		}
		if company {
			return dErrors.New(dErrors.CodeConflict, "Unable to create a verifier as a company account!")
		}

		existing, err := st.Verifiers.FindVerifier(ctx, caller)
		registered, err := found(err)
		if err != nil {
			return err
		}
		if err := s.checkVerifierName(ctx, st, existing, registered, req.Name); err != nil {
			return err
		}

		if registered {
			verifier = existing
			verifier.ApplyProfile(req.Name, req.AddressName, req.Siret, req.ApprovalNumber, now)
		} else {
			verifier, err = models.NewVerifier(caller, req.Name, req.AddressName, req.Siret, req.ApprovalNumber, now)
			if err != nil {
				return asValidation(err)
			}
		}
		if err := st.Verifiers.SaveVerifier(ctx, verifier); err != nil {
			return writeErr(err, "Verifier already exists!")
		}

		return s.emit(ctx, caller, now, models.VerifierCreated{
			Verifier:       verifier.Owner,
			Name:           verifier.Name,
			AddressName:    verifier.AddressName,
			Siret:          verifier.Siret,
			ApprovalNumber: verifier.ApprovalNumber,
		})
	})
	if err = done(err); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementPrincipalRegistered(string(models.RoleVerifier))
	}
	s.logAudit(ctx, models.EventVerifierCreated, "verifier", caller.String())
	return verifier, nil
}

// checkVerifierName enforces the configured name uniqueness scope.
func (s *Service) checkVerifierName(ctx context.Context, st Stores, existing *models.Verifier, registered bool, name string) error {
	switch s.policy.VerifierNameScope {
	case NameScopeOwner:
		if registered && existing.Name == name {
			return dErrors.New(dErrors.CodeConflict, "Verifier already exists!")
		}
		return nil
	default:
		_, err := st.Verifiers.FindVerifierByName(ctx, name)
		taken, err := found(err)
		if err != nil {
			return err
		}
		if taken {
			return dErrors.New(dErrors.CodeConflict, "Verifier already exists!")
		}
		return nil
	}
}

// UpdateCompanyAccount adds or removes a delegate of the calling company.
func (s *Service) UpdateCompanyAccount(ctx context.Context, caller domain.Address, req models.UpdateDelegateRequest) (*models.Delegate, error) {
	return s.updateAccount(ctx, caller, models.RoleCompany, req)
}

// UpdateVerifierAccount adds or removes a delegate of the calling verifier.
func (s *Service) UpdateVerifierAccount(ctx context.Context, caller domain.Address, req models.UpdateDelegateRequest) (*models.Delegate, error) {
	return s.updateAccount(ctx, caller, models.RoleVerifier, req)
}

func (s *Service) updateAccount(ctx context.Context, caller domain.Address, role models.Role, req models.UpdateDelegateRequest) (*models.Delegate, error) {
	ctx, done := s.begin(ctx, "update_"+string(role)+"_account", caller)
	req.Normalize()
	now := requestcontext.Now(ctx)

	var delegate *models.Delegate
	err := s.tx.RunInTx(ctx, func(ctx context.Context, st Stores) error {
		// Only owners manage delegates; delegates cannot add further delegates.
		owner, err := isPrincipal(ctx, st, caller, role)
		if err != nil {
			return err
		}
		if !owner {
			if role == models.RoleVerifier {
				return dErrors.New(dErrors.CodeUnauthorized, "You're not a verifier!")
			}
			return dErrors.New(dErrors.CodeUnauthorized, "You're not a company!")
		}
		if _, err := models.ParseDelegateAction(string(req.Action)); err != nil {
			return err
		}
		if req.Account.IsZero() {
			return dErrors.New(dErrors.CodeValidation, "'account' cannot be the zero address!")
		}
		if req.Account == caller {
			return dErrors.New(dErrors.CodeValidation, "Unable to delegate to your own account!")
		}

		existing, err := st.Delegates.FindDelegate(ctx, role, req.Account)
		known, err := found(err)
		if err != nil {
			return err
		}

		switch req.Action {
		case models.DelegateAdd:
			principal, err := isAnyPrincipal(ctx, st, req.Account)
			if err != nil {
				return err
			}
			if principal {
				return dErrors.New(dErrors.CodeConflict, "Account is already registered as a company or a verifier!")
			}
			if known {
				delegate = existing
				delegate.ApplyAdd(caller, req.Name, req.FirstName, now)
			} else {
				delegate = models.NewDelegate(role, req.Account, caller, req.Name, req.FirstName, now)
			}
		case models.DelegateRemove:
			if !known {
				return dErrors.New(dErrors.CodeNotFound, "account is not an active delegate of this principal")
			}
			if err := existing.CanRemove(caller); err != nil {
				return err
			}
			delegate = existing
			delegate.ApplyRemove(now)
		}

		if err := st.Delegates.SaveDelegate(ctx, delegate); err != nil {
			return writeErr(err, "account is already a delegate")
		}
		return s.emit(ctx, caller, now, models.AccountUpdated{
			Role:      role,
			Principal: caller,
			Account:   req.Account,
			Name:      req.Name,
			FirstName: req.FirstName,
			Action:    req.Action,
		})
	})
	if err = done(err); err != nil {
		return nil, err
	}

	event := models.AccountUpdated{Role: role}.EventType()
	s.logAudit(ctx, event,
		"principal", caller.String(),
		"account", req.Account.String(),
		"action", string(req.Action),
	)
	return delegate, nil
}
