package service

import (
	"context"

	"secreg/internal/registry/models"
	"secreg/pkg/domain"
	dErrors "secreg/pkg/domain-errors"
	"secreg/pkg/requestcontext"
)

// CreateSite adds a site ("register") to a company and returns it with its
// sequential register ID.
//
// An owner or unaffiliated caller registers itself as a company (or updates its
// profile) in the same step. An active company delegate adds the site to its
// principal; the principal's profile is left untouched.
func (s *Service) CreateSite(ctx context.Context, caller domain.Address, req models.CreateSiteRequest) (*models.Site, error) {
	ctx, done := s.begin(ctx, "create_site", caller)
	req.Normalize()
	now := requestcontext.Now(ctx)

	var site *models.Site
	var newCompany bool
	err := s.tx.RunInTx(ctx, func(ctx context.Context, st Stores) error {
		if msg := req.MissingField(); msg != "" {
			return dErrors.New(dErrors.CodeValidation, msg)
		}
		verifier, err := isPrincipal(ctx, st, caller, models.RoleVerifier)
		if err != nil {
			return err
		}
		if verifier {
			return dErrors.New(dErrors.CodeConflict, "Unable to create a company as a verifier account!")
		}

		res, err := resolve(ctx, st, caller, models.RoleCompany)
		if err != nil {
			return err
		}

		var company *models.Company
		if res.Kind == models.ResolutionDelegate {
			company, err = st.Companies.FindCompany(ctx, res.Principal)
			if err != nil {
				return loadErr(err, "Company does not exists!")
			}
		} else {
			var existing bool
			company, existing, err = s.upsertCompany(ctx, st, caller, req.Name, req.AddressName, req.Siret, now)
			if err != nil {
				return err
			}
			newCompany = !existing
		}

		_, err = st.Sites.FindSiteByName(ctx, company.Owner, req.SiteName)
		taken, err := found(err)
		if err != nil {
			return err
		}
		if taken {
			return dErrors.New(dErrors.CodeConflict, "Site already exists!")
		}
		count, err := st.Sites.CountSites(ctx, company.Owner)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count sites")
		}
		site, err = models.NewSite(company.Owner, domain.RegisterID(count), req.SiteName, req.SiteAddressName, now)
		if err != nil {
			return asValidation(err)
		}

		if res.Kind != models.ResolutionDelegate {
			if err := st.Companies.SaveCompany(ctx, company); err != nil {
				return writeErr(err, "Company already exists!")
			}
		}
		if err := st.Sites.CreateSite(ctx, site); err != nil {
			return writeErr(err, "Site already exists!")
		}

		return s.emit(ctx, caller, now, models.RegisterCreated{
			Company:         company.Owner,
			Name:            company.Name,
			AddressName:     company.AddressName,
			Siret:           company.Siret,
			SiteName:        site.SiteName,
			SiteAddressName: site.SiteAddressName,
			RegisterID:      site.RegisterID,
		})
	})
	if err = done(err); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		if newCompany {
			s.metrics.IncrementPrincipalRegistered(string(models.RoleCompany))
		}
		s.metrics.IncrementSitesCreated()
	}
	s.logAudit(ctx, models.EventRegisterCreated,
		"company", site.Owner.String(),
		"register_id", site.RegisterID.String(),
	)
	return site, nil
}

// IsSite reports whether principal owns a site named siteName.
func (s *Service) IsSite(ctx context.Context, principal domain.Address, siteName string) (bool, error) {
	ctx, done := s.begin(ctx, "is_site", principal)
	var exists bool
	err := s.tx.RunInReadTx(ctx, func(ctx context.Context, st Stores) error {
		_, err := st.Sites.FindSiteByName(ctx, principal, siteName)
		exists, err = found(err)
		return err
	})
	if err = done(err); err != nil {
		return false, err
	}
	return exists, nil
}

// IsRegister reports whether registerID has been assigned for principal.
func (s *Service) IsRegister(ctx context.Context, principal domain.Address, registerID domain.RegisterID) (bool, error) {
	ctx, done := s.begin(ctx, "is_register", principal)
	var exists bool
	err := s.tx.RunInReadTx(ctx, func(ctx context.Context, st Stores) error {
		_, err := st.Sites.FindSite(ctx, principal, registerID)
		exists, err = found(err)
		return err
	})
	if err = done(err); err != nil {
		return false, err
	}
	return exists, nil
}

// ListSites returns principal's sites in register ID order.
func (s *Service) ListSites(ctx context.Context, principal domain.Address) ([]*models.Site, error) {
	ctx, done := s.begin(ctx, "list_sites", principal)
	var sites []*models.Site
	err := s.tx.RunInReadTx(ctx, func(ctx context.Context, st Stores) error {
		var err error
		sites, err = st.Sites.ListSites(ctx, principal)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list sites")
		}
		return nil
	})
	if err = done(err); err != nil {
		return nil, err
	}
	return sites, nil
}
