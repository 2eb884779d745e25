package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"secreg/internal/registry/models"
	"secreg/pkg/domain"
	"secreg/pkg/platform/sentinel"
	txcontext "secreg/pkg/platform/tx"
)

const uniqueViolation = "23505"

// PostgresStore persists the registry in PostgreSQL. Every query runs on the
// transaction carried by ctx when there is one.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed registry store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) conn(ctx context.Context) txcontext.Conn {
	return txcontext.ConnFrom(ctx, s.db)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	return fmt.Errorf("find %s: %w", what, err)
}

type scanner interface {
	Scan(dest ...any) error
}

// -----------------------------------------------------------------------------
// Companies
// -----------------------------------------------------------------------------

func (s *PostgresStore) FindCompany(ctx context.Context, owner domain.Address) (*models.Company, error) {
	var c models.Company
	err := s.conn(ctx).QueryRowContext(ctx, `
		SELECT owner, name, address_name, siret, created_at, updated_at
		FROM companies WHERE owner = $1
	`, owner).Scan(&c.Owner, &c.Name, &c.AddressName, &c.Siret, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "company")
	}
	return &c, nil
}

func (s *PostgresStore) SaveCompany(ctx context.Context, c *models.Company) error {
	_, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO companies (owner, name, address_name, siret, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (owner) DO UPDATE SET
			name = EXCLUDED.name,
			address_name = EXCLUDED.address_name,
			siret = EXCLUDED.siret,
			updated_at = EXCLUDED.updated_at
	`, c.Owner, c.Name, c.AddressName, c.Siret, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save company: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Verifiers
// -----------------------------------------------------------------------------

const verifierColumns = `owner, name, address_name, siret, approval_number, created_at, updated_at`

func scanVerifier(row scanner) (*models.Verifier, error) {
	var v models.Verifier
	if err := row.Scan(&v.Owner, &v.Name, &v.AddressName, &v.Siret, &v.ApprovalNumber, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *PostgresStore) FindVerifier(ctx context.Context, owner domain.Address) (*models.Verifier, error) {
	v, err := scanVerifier(s.conn(ctx).QueryRowContext(ctx,
		`SELECT `+verifierColumns+` FROM verifiers WHERE owner = $1`, owner))
	if err != nil {
		return nil, notFound(err, "verifier")
	}
	return v, nil
}

func (s *PostgresStore) FindVerifierByName(ctx context.Context, name string) (*models.Verifier, error) {
	v, err := scanVerifier(s.conn(ctx).QueryRowContext(ctx,
		`SELECT `+verifierColumns+` FROM verifiers WHERE name = $1 ORDER BY created_at LIMIT 1`, name))
	if err != nil {
		return nil, notFound(err, "verifier by name")
	}
	return v, nil
}

func (s *PostgresStore) SaveVerifier(ctx context.Context, v *models.Verifier) error {
	_, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO verifiers (`+verifierColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (owner) DO UPDATE SET
			name = EXCLUDED.name,
			address_name = EXCLUDED.address_name,
			siret = EXCLUDED.siret,
			approval_number = EXCLUDED.approval_number,
			updated_at = EXCLUDED.updated_at
	`, v.Owner, v.Name, v.AddressName, v.Siret, v.ApprovalNumber, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save verifier: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Delegates
// -----------------------------------------------------------------------------

const delegateColumns = `role, account, principal, name, first_name, active, updated_at`

func scanDelegate(row scanner) (*models.Delegate, error) {
	var d models.Delegate
	var role string
	if err := row.Scan(&role, &d.Account, &d.Principal, &d.Name, &d.FirstName, &d.Active, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.Role = models.Role(role)
	return &d, nil
}

func (s *PostgresStore) FindDelegate(ctx context.Context, role models.Role, account domain.Address) (*models.Delegate, error) {
	d, err := scanDelegate(s.conn(ctx).QueryRowContext(ctx,
		`SELECT `+delegateColumns+` FROM delegates WHERE role = $1 AND account = $2`, string(role), account))
	if err != nil {
		return nil, notFound(err, "delegate")
	}
	return d, nil
}

func (s *PostgresStore) SaveDelegate(ctx context.Context, d *models.Delegate) error {
	_, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO delegates (`+delegateColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (role, account) DO UPDATE SET
			principal = EXCLUDED.principal,
			name = EXCLUDED.name,
			first_name = EXCLUDED.first_name,
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at
	`, string(d.Role), d.Account, d.Principal, d.Name, d.FirstName, d.Active, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save delegate: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListDelegates(ctx context.Context, role models.Role, principal domain.Address) ([]*models.Delegate, error) {
	rows, err := s.conn(ctx).QueryContext(ctx,
		`SELECT `+delegateColumns+` FROM delegates WHERE role = $1 AND principal = $2 ORDER BY account`,
		string(role), principal)
	if err != nil {
		return nil, fmt.Errorf("list delegates: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Delegate, 0)
	for rows.Next() {
		d, err := scanDelegate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan delegate: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// -----------------------------------------------------------------------------
// Sites
// -----------------------------------------------------------------------------

const siteColumns = `owner, register_id, site_name, site_address_name, created_at`

func scanSite(row scanner) (*models.Site, error) {
	var site models.Site
	var registerID int64
	if err := row.Scan(&site.Owner, &registerID, &site.SiteName, &site.SiteAddressName, &site.CreatedAt); err != nil {
		return nil, err
	}
	site.RegisterID = domain.RegisterID(registerID)
	return &site, nil
}

func (s *PostgresStore) CountSites(ctx context.Context, owner domain.Address) (int, error) {
	var n int
	err := s.conn(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM sites WHERE owner = $1`, owner).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count sites: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) FindSite(ctx context.Context, owner domain.Address, registerID domain.RegisterID) (*models.Site, error) {
	site, err := scanSite(s.conn(ctx).QueryRowContext(ctx,
		`SELECT `+siteColumns+` FROM sites WHERE owner = $1 AND register_id = $2`, owner, int64(registerID)))
	if err != nil {
		return nil, notFound(err, "site")
	}
	return site, nil
}

func (s *PostgresStore) FindSiteByName(ctx context.Context, owner domain.Address, siteName string) (*models.Site, error) {
	site, err := scanSite(s.conn(ctx).QueryRowContext(ctx,
		`SELECT `+siteColumns+` FROM sites WHERE owner = $1 AND site_name = $2`, owner, siteName))
	if err != nil {
		return nil, notFound(err, "site by name")
	}
	return site, nil
}

func (s *PostgresStore) CreateSite(ctx context.Context, site *models.Site) error {
	_, err := s.conn(ctx).ExecContext(ctx,
		`INSERT INTO sites (`+siteColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		site.Owner, int64(site.RegisterID), site.SiteName, site.SiteAddressName, site.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("create site: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListSites(ctx context.Context, owner domain.Address) ([]*models.Site, error) {
	rows, err := s.conn(ctx).QueryContext(ctx,
		`SELECT `+siteColumns+` FROM sites WHERE owner = $1 ORDER BY register_id`, owner)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Site, 0)
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		out = append(out, site)
	}
	return out, rows.Err()
}

// -----------------------------------------------------------------------------
// Verifier links
// -----------------------------------------------------------------------------

func (s *PostgresStore) FindLink(ctx context.Context, company domain.Address) (*models.VerifierLink, error) {
	var l models.VerifierLink
	err := s.conn(ctx).QueryRowContext(ctx,
		`SELECT company, verifier, linked_at FROM verifier_links WHERE company = $1`, company,
	).Scan(&l.Company, &l.Verifier, &l.LinkedAt)
	if err != nil {
		return nil, notFound(err, "verifier link")
	}
	return &l, nil
}

func (s *PostgresStore) CreateLink(ctx context.Context, l *models.VerifierLink) error {
	_, err := s.conn(ctx).ExecContext(ctx,
		`INSERT INTO verifier_links (company, verifier, linked_at) VALUES ($1, $2, $3)`,
		l.Company, l.Verifier, l.LinkedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("create verifier link: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Tasks
// -----------------------------------------------------------------------------

const taskColumns = `id, company, verifier, register_id, site_name, security_type, status, created_by, created_at, updated_at`

func scanTask(row scanner) (*models.Task, error) {
	var t models.Task
	var id, registerID int64
	var status int16
	err := row.Scan(&id, &t.Company, &t.Verifier, &registerID, &t.SiteName, &t.SecurityType,
		&status, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.ID = domain.TaskID(id)
	t.RegisterID = domain.RegisterID(registerID)
	t.Status = models.TaskStatus(status)
	return &t, nil
}

// NextTaskID relies on the caller holding the registry lock; concurrent
// allocations outside it would collide and fail on the primary key.
func (s *PostgresStore) NextTaskID(ctx context.Context) (domain.TaskID, error) {
	var next int64
	err := s.conn(ctx).QueryRowContext(ctx, `SELECT COALESCE(MAX(id) + 1, 0) FROM tasks`).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next task id: %w", err)
	}
	return domain.TaskID(next), nil
}

func (s *PostgresStore) CreateTask(ctx context.Context, t *models.Task) error {
	_, err := s.conn(ctx).ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		int64(t.ID), t.Company, t.Verifier, int64(t.RegisterID), t.SiteName, t.SecurityType,
		int16(t.Status), t.CreatedBy, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindTask(ctx context.Context, id domain.TaskID) (*models.Task, error) {
	t, err := scanTask(s.conn(ctx).QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, int64(id)))
	if err != nil {
		return nil, notFound(err, "task")
	}
	return t, nil
}

// UpdateTask persists the mutable fields: status and updated_at.
func (s *PostgresStore) UpdateTask(ctx context.Context, t *models.Task) error {
	res, err := s.conn(ctx).ExecContext(ctx,
		`UPDATE tasks SET status = $2, updated_at = $3 WHERE id = $1`,
		int64(t.ID), int16(t.Status), t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) ListTasksByCompany(ctx context.Context, company domain.Address) ([]*models.Task, error) {
	return s.listTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE company = $1 ORDER BY id`, company)
}

func (s *PostgresStore) ListTasksByVerifier(ctx context.Context, verifier domain.Address) ([]*models.Task, error) {
	return s.listTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE verifier = $1 ORDER BY id`, verifier)
}

func (s *PostgresStore) listTasks(ctx context.Context, query string, arg any) ([]*models.Task, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// -----------------------------------------------------------------------------
// Certificates
// -----------------------------------------------------------------------------

const certificateColumns = `token_id, owner, minted_by, metadata_uri, metadata_updated, minted_at, updated_at`

func (s *PostgresStore) FindCertificate(ctx context.Context, tokenID domain.TokenID) (*models.Certificate, error) {
	var c models.Certificate
	var id int64
	err := s.conn(ctx).QueryRowContext(ctx,
		`SELECT `+certificateColumns+` FROM certificates WHERE token_id = $1`, int64(tokenID),
	).Scan(&id, &c.Owner, &c.MintedBy, &c.MetadataURI, &c.MetadataUpdated, &c.MintedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "certificate")
	}
	c.TokenID = domain.TokenID(id)
	return &c, nil
}

func (s *PostgresStore) CreateCertificate(ctx context.Context, c *models.Certificate) error {
	_, err := s.conn(ctx).ExecContext(ctx,
		`INSERT INTO certificates (`+certificateColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		int64(c.TokenID), c.Owner, c.MintedBy, c.MetadataURI, c.MetadataUpdated, c.MintedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("create certificate: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateCertificate(ctx context.Context, c *models.Certificate) error {
	res, err := s.conn(ctx).ExecContext(ctx, `
		UPDATE certificates SET metadata_uri = $2, metadata_updated = $3, updated_at = $4
		WHERE token_id = $1
	`, int64(c.TokenID), c.MetadataURI, c.MetadataUpdated, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update certificate: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
