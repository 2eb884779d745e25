package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secreg/pkg/domain"
	dErrors "secreg/pkg/domain-errors"
)

var (
	companyAddr  = domain.MustParseAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	verifierAddr = domain.MustParseAddress("0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359")
	delegateAddr = domain.MustParseAddress("0xdbf03b407c01e7cd3cbea99509d93f8dddc8c6fb")
	fixedNow     = time.Date(2024, 2, 14, 10, 0, 0, 0, time.UTC)
)

func newTestTask(t *testing.T) *Task {
	t.Helper()
	task, err := NewTask(0, companyAddr, verifierAddr, 0, "Site1", "Extinguisher", companyAddr, fixedNow)
	require.NoError(t, err)
	return task
}

func TestNewTask(t *testing.T) {
	t.Run("starts pending", func(t *testing.T) {
		task := newTestTask(t)
		assert.Equal(t, StatusPendingValidation, task.Status)
		assert.Equal(t, fixedNow, task.CreatedAt)
	})

	t.Run("rejects empty security type", func(t *testing.T) {
		_, err := NewTask(0, companyAddr, verifierAddr, 0, "Site1", "", companyAddr, fixedNow)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("rejects empty site name", func(t *testing.T) {
		_, err := NewTask(0, companyAddr, verifierAddr, 0, "", "Extinguisher", companyAddr, fixedNow)
		require.Error(t, err)
	})
}

func TestTaskLifecycle(t *testing.T) {
	t.Run("dispose before validation is invalid state", func(t *testing.T) {
		task := newTestTask(t)
		err := task.CanDispose()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))
	})

	t.Run("validate twice is invalid state", func(t *testing.T) {
		task := newTestTask(t)
		require.NoError(t, task.CanValidate())
		task.ApplyValidation(fixedNow.Add(time.Hour))
		assert.Equal(t, StatusValidatedByVerifier, task.Status)
		assert.Equal(t, fixedNow.Add(time.Hour), task.UpdatedAt)

		err := task.CanValidate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))
	})

	for _, d := range []Disposition{DispositionApprove, DispositionReject, DispositionApproveWithReservation} {
		t.Run("disposition "+string(d), func(t *testing.T) {
			task := newTestTask(t)
			task.ApplyValidation(fixedNow)
			require.NoError(t, task.CanDispose())
			task.ApplyDisposition(d, fixedNow)

			want, _ := d.TargetStatus()
			assert.Equal(t, want, task.Status)
			assert.Error(t, task.CanDispose(), "terminal state accepts no second disposition")
			assert.Error(t, task.CanValidate())
		})
	}
}

func TestDelegate(t *testing.T) {
	d := NewDelegate(RoleCompany, delegateAddr, companyAddr, "Doe", "Jane", fixedNow)
	assert.True(t, d.IsActiveFor(companyAddr))
	assert.False(t, d.IsActiveFor(verifierAddr))

	require.Error(t, d.CanRemove(verifierAddr))
	require.NoError(t, d.CanRemove(companyAddr))
	d.ApplyRemove(fixedNow)
	assert.False(t, d.IsActiveFor(companyAddr))

	err := d.CanRemove(companyAddr)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	d.ApplyAdd(verifierAddr, "Roe", "Rick", fixedNow)
	assert.True(t, d.IsActiveFor(verifierAddr))
}

func TestCertificate_MetadataUpdatedOnce(t *testing.T) {
	cert := NewCertificate(3, companyAddr, delegateAddr, "ipfs://first", fixedNow)
	assert.Equal(t, domain.TokenID(3), cert.TokenID)

	require.NoError(t, cert.CanUpdateMetadata())
	cert.ApplyMetadataURI("ipfs://second", fixedNow)
	assert.Equal(t, "ipfs://second", cert.MetadataURI)

	err := cert.CanUpdateMetadata()
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

	assert.Empty(t, NewCertificate(4, companyAddr, delegateAddr, "", fixedNow).MetadataURI)
}

func TestNewCertificateMetadata(t *testing.T) {
	task := newTestTask(t)
	task.CreatedBy = delegateAddr
	details := &TaskDetails{
		Task:            task,
		CompanyProfile:  &Company{Owner: companyAddr, Name: "Acme", AddressName: "1 Main St", Siret: "SIRET1"},
		Site:            &Site{Owner: companyAddr, RegisterID: 0, SiteName: "Site1", SiteAddressName: "2 Side St"},
		VerifierProfile: &Verifier{Owner: verifierAddr, Name: "V1", AddressName: "3 Check Rd", Siret: "SIRETV", ApprovalNumber: "AP-1"},
		CreatedByDelegate: &Delegate{
			Account: delegateAddr, Principal: companyAddr, Name: "Doe", FirstName: "Jane", Active: true,
		},
	}

	md := NewCertificateMetadata(details)

	assert.Equal(t, uint64(0), md.TaskID)
	assert.Equal(t, "En attente de validation", md.Status)
	assert.Equal(t, "Site1", md.Sector)
	assert.Equal(t, "Extinguisher", md.Type)
	assert.Equal(t, "2024-02-14", md.Date)
	assert.Equal(t, fixedNow.Unix(), md.Timestamp)
	assert.Equal(t, "0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB", md.AccountCompany.Account)
	assert.Equal(t, "Doe", md.AccountCompany.Name)
	assert.Equal(t, "Jane", md.AccountCompany.FirstName)
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", md.Company.Account)
	assert.Equal(t, "2 Side St", md.Company.SiteAddress)
	assert.Equal(t, "AP-1", md.Verifier.ApprovalNumber)
}

func TestCreateSiteRequest_MissingField(t *testing.T) {
	req := CreateSiteRequest{Name: " Acme ", AddressName: "1 Main St", Siret: "S", SiteName: "  ", SiteAddressName: "x"}
	req.Normalize()
	assert.Equal(t, "Acme", req.Name)
	assert.Equal(t, "'site name' cannot be empty!", req.MissingField())

	req.SiteName = "Site1"
	assert.Empty(t, req.MissingField())
}
