package service

import (
	"context"

	"secreg/internal/registry/models"
	"secreg/pkg/domain"
	dErrors "secreg/pkg/domain-errors"
	"secreg/pkg/requestcontext"
)

// LinkVerifier assigns verifier to the caller's company. Each company has at most
// one verifier and the link is permanent.
func (s *Service) LinkVerifier(ctx context.Context, caller, verifier domain.Address) (*models.VerifierLink, error) {
	ctx, done := s.begin(ctx, "link_verifier", caller)
	now := requestcontext.Now(ctx)

	var link *models.VerifierLink
	err := s.tx.RunInTx(ctx, func(ctx context.Context, st Stores) error {
		res, err := requireRole(ctx, st, caller, models.RoleCompany, "You're not a company!")
		if err != nil {
			return err
		}
		if _, err := st.Verifiers.FindVerifier(ctx, verifier); err != nil {
			return loadErr(err, "Verifier does not exists!")
		}
		_, err = st.Links.FindLink(ctx, res.Principal)
		linked, err := found(err)
		if err != nil {
			return err
		}
		if linked {
			return dErrors.New(dErrors.CodeConflict, "Verifier already exists for this company!")
		}

		link = &models.VerifierLink{Company: res.Principal, Verifier: verifier, LinkedAt: now}
		if err := st.Links.CreateLink(ctx, link); err != nil {
			return writeErr(err, "Verifier already exists for this company!")
		}
		return s.emit(ctx, caller, now, models.VerifierAddedToCompany{
			Company:  res.Principal,
			Verifier: verifier,
		})
	})
	if err = done(err); err != nil {
		return nil, err
	}

	s.logAudit(ctx, models.EventVerifierAddedToCompany,
		"company", link.Company.String(),
		"verifier", verifier.String(),
	)
	return link, nil
}

// GetLinkedVerifier returns the verifier assigned to company.
func (s *Service) GetLinkedVerifier(ctx context.Context, company domain.Address) (domain.Address, error) {
	ctx, done := s.begin(ctx, "get_linked_verifier", company)
	var verifier domain.Address
	err := s.tx.RunInReadTx(ctx, func(ctx context.Context, st Stores) error {
		link, err := st.Links.FindLink(ctx, company)
		if err != nil {
			return loadErr(err, "No verifier is linked to this company!")
		}
		verifier = link.Verifier
		return nil
	})
	if err = done(err); err != nil {
		return domain.ZeroAddress, err
	}
	return verifier, nil
}
