package service

import (
	"context"

	"secreg/internal/registry/models"
	"secreg/pkg/domain"
	dErrors "secreg/pkg/domain-errors"
	"secreg/pkg/requestcontext"
)

// Mint issues the certificate of a task that reached a certifiable status. The
// token ID equals the task ID, so each task is certified at most once.
func (s *Service) Mint(ctx context.Context, caller domain.Address, taskID domain.TaskID, metadataURI string) (*models.Certificate, error) {
	ctx, done := s.begin(ctx, "mint", caller)
	now := requestcontext.Now(ctx)

	var cert *models.Certificate
	err := s.tx.RunInTx(ctx, func(ctx context.Context, st Stores) error {
		res, err := requireRole(ctx, st, caller, models.RoleCompany, "You're not a company!")
		if err != nil {
			return err
		}
		task, err := st.Tasks.FindTask(ctx, taskID)
		if err != nil {
			return loadErr(err, "taskID does not exist!")
		}
		if task.Company != res.Principal {
			return dErrors.New(dErrors.CodeUnauthorized, "You're not the company of this task!")
		}
		if !task.Status.IsCertifiable(s.policy.MintWithReservation) {
			return dErrors.New(dErrors.CodeInvalidState, "Unable to mint a token until status is approved or rejected!")
		}
		tokenID := domain.TokenFor(taskID)
		_, err = st.Certificates.FindCertificate(ctx, tokenID)
		minted, err := found(err)
		if err != nil {
			return err
		}
		if minted {
			return dErrors.New(dErrors.CodeConflict, "ERC721: token already minted")
		}

		cert = models.NewCertificate(taskID, res.Principal, caller, metadataURI, now)
		if err := st.Certificates.CreateCertificate(ctx, cert); err != nil {
			return writeErr(err, "ERC721: token already minted")
		}

		if err := s.emit(ctx, caller, now, models.Transfer{
			From:    domain.ZeroAddress,
			To:      cert.Owner,
			TokenID: cert.TokenID,
		}); err != nil {
			return err
		}
		return s.emit(ctx, caller, now, models.MetadataUpdate{
			TokenID:     cert.TokenID,
			MetadataURI: cert.MetadataURI,
		})
	})
	if err = done(err); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementCertificatesMinted()
	}
	s.logAudit(ctx, models.EventTransfer,
		"token_id", cert.TokenID.String(),
		"owner", cert.Owner.String(),
		"minted_by", caller.String(),
	)
	return cert, nil
}

// GetMetadataURI returns the URI stored for a minted token.
func (s *Service) GetMetadataURI(ctx context.Context, tokenID domain.TokenID) (string, error) {
	cert, err := s.GetCertificate(ctx, tokenID)
	if err != nil {
		return "", err
	}
	return cert.MetadataURI, nil
}

func (s *Service) GetCertificate(ctx context.Context, tokenID domain.TokenID) (*models.Certificate, error) {
	ctx, done := s.begin(ctx, "get_certificate", domain.ZeroAddress)
	var cert *models.Certificate
	err := s.tx.RunInReadTx(ctx, func(ctx context.Context, st Stores) error {
		var err error
		cert, err = st.Certificates.FindCertificate(ctx, tokenID)
		if err != nil {
			return loadErr(err, "ERC721: invalid token ID")
		}
		return nil
	})
	if err = done(err); err != nil {
		return nil, err
	}
	return cert, nil
}

// UpdateMetadataURI replaces a certificate's metadata URI. The owning company may
// do this once.
func (s *Service) UpdateMetadataURI(ctx context.Context, caller domain.Address, tokenID domain.TokenID, metadataURI string) (*models.Certificate, error) {
	ctx, done := s.begin(ctx, "update_metadata_uri", caller)
	now := requestcontext.Now(ctx)

	var cert *models.Certificate
	err := s.tx.RunInTx(ctx, func(ctx context.Context, st Stores) error {
		res, err := requireRole(ctx, st, caller, models.RoleCompany, "You're not a company!")
		if err != nil {
			return err
		}
		cert, err = st.Certificates.FindCertificate(ctx, tokenID)
		if err != nil {
			return loadErr(err, "ERC721: invalid token ID")
		}
		if cert.Owner != res.Principal {
			return dErrors.New(dErrors.CodeUnauthorized, "You're not the owner of this certificate!")
		}
		if err := cert.CanUpdateMetadata(); err != nil {
			return err
		}

		cert.ApplyMetadataURI(metadataURI, now)
		if err := st.Certificates.UpdateCertificate(ctx, cert); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update certificate")
		}
		return s.emit(ctx, caller, now, models.MetadataUpdate{
			TokenID:     cert.TokenID,
			MetadataURI: cert.MetadataURI,
		})
	})
	if err = done(err); err != nil {
		return nil, err
	}

	s.logAudit(ctx, models.EventMetadataUpdate,
		"token_id", cert.TokenID.String(),
		"account", caller.String(),
	)
	return cert, nil
}
