package service

import (
	"context"

	"secreg/internal/registry/models"
	"secreg/pkg/domain"
	dErrors "secreg/pkg/domain-errors"
)

// resolve maps caller to the principal it acts for in role. Ownership wins over
// delegation. A delegate only resolves while active and while its principal is
// still registered in that role.
func resolve(ctx context.Context, st Stores, caller domain.Address, role models.Role) (models.Resolution, error) {
	res := models.Resolution{Kind: models.ResolutionUnauthorized, Role: role, Caller: caller}

	owner, err := isPrincipal(ctx, st, caller, role)
	if err != nil {
		return res, err
	}
	if owner {
		res.Kind = models.ResolutionOwner
		res.Principal = caller
		return res, nil
	}

	d, err := activeDelegate(ctx, st, caller, role)
	if err != nil || d == nil {
		return res, err
	}
	res.Kind = models.ResolutionDelegate
	res.Principal = d.Principal
	return res, nil
}

// activeDelegate returns the delegate record for account when it is active and
// its principal is still registered in role, or nil.
func activeDelegate(ctx context.Context, st Stores, account domain.Address, role models.Role) (*models.Delegate, error) {
	d, err := st.Delegates.FindDelegate(ctx, role, account)
	ok, err := found(err)
	if err != nil || !ok || !d.Active {
		return nil, err
	}
	registered, err := isPrincipal(ctx, st, d.Principal, role)
	if err != nil || !registered {
		return nil, err
	}
	return d, nil
}

// requireRole resolves caller or fails with an authorization error carrying msg.
func requireRole(ctx context.Context, st Stores, caller domain.Address, role models.Role, msg string) (models.Resolution, error) {
	res, err := resolve(ctx, st, caller, role)
	if err != nil {
		return res, err
	}
	if !res.IsAuthorized() {
		return res, dErrors.New(dErrors.CodeUnauthorized, msg)
	}
	return res, nil
}

func isPrincipal(ctx context.Context, st Stores, addr domain.Address, role models.Role) (bool, error) {
	switch role {
	case models.RoleCompany:
		_, err := st.Companies.FindCompany(ctx, addr)
		return found(err)
	case models.RoleVerifier:
		_, err := st.Verifiers.FindVerifier(ctx, addr)
		return found(err)
	}
	return false, nil
}

// isAnyPrincipal reports whether addr is registered as a company or a verifier.
func isAnyPrincipal(ctx context.Context, st Stores, addr domain.Address) (bool, error) {
	company, err := isPrincipal(ctx, st, addr, models.RoleCompany)
	if err != nil || company {
		return company, err
	}
	return isPrincipal(ctx, st, addr, models.RoleVerifier)
}

// ResolvePrincipal returns how caller relates to a principal of role.
func (s *Service) ResolvePrincipal(ctx context.Context, caller domain.Address, role models.Role) (models.Resolution, error) {
	ctx, done := s.begin(ctx, "resolve_principal", caller)
	var res models.Resolution
	err := s.tx.RunInReadTx(ctx, func(ctx context.Context, st Stores) error {
		var err error
		res, err = requireRole(ctx, st, caller, role, "caller cannot act as a "+string(role))
		return err
	})
	if err = done(err); err != nil {
		return models.Resolution{}, err
	}
	return res, nil
}

// Roles answers the four identity lookups for addr in one consistent read.
func (s *Service) Roles(ctx context.Context, addr domain.Address) (*models.IdentityRoles, error) {
	ctx, done := s.begin(ctx, "roles", addr)
	roles := &models.IdentityRoles{Address: addr}
	err := s.tx.RunInReadTx(ctx, func(ctx context.Context, st Stores) error {
		var err error
		if roles.IsCompany, err = isPrincipal(ctx, st, addr, models.RoleCompany); err != nil {
			return err
		}
		if roles.IsVerifier, err = isPrincipal(ctx, st, addr, models.RoleVerifier); err != nil {
			return err
		}
		company, err := activeDelegate(ctx, st, addr, models.RoleCompany)
		if err != nil {
			return err
		}
		roles.IsCompanyAccount = company != nil
		verifier, err := activeDelegate(ctx, st, addr, models.RoleVerifier)
		if err != nil {
			return err
		}
		roles.IsVerifierAccount = verifier != nil
		return nil
	})
	if err = done(err); err != nil {
		return nil, err
	}
	return roles, nil
}

// IsCompany reports whether addr is a registered company. Lookup failures read as false.
func (s *Service) IsCompany(ctx context.Context, addr domain.Address) bool {
	roles, err := s.Roles(ctx, addr)
	return err == nil && roles.IsCompany
}

func (s *Service) IsVerifier(ctx context.Context, addr domain.Address) bool {
	roles, err := s.Roles(ctx, addr)
	return err == nil && roles.IsVerifier
}

// IsCompanyAccount reports whether addr is an active delegate of a registered company.
func (s *Service) IsCompanyAccount(ctx context.Context, addr domain.Address) bool {
	roles, err := s.Roles(ctx, addr)
	return err == nil && roles.IsCompanyAccount
}

func (s *Service) IsVerifierAccount(ctx context.Context, addr domain.Address) bool {
	roles, err := s.Roles(ctx, addr)
	return err == nil && roles.IsVerifierAccount
}
