package memory

import (
	"context"
	"sort"
	"sync"

	"secreg/internal/registry/models"
	"secreg/pkg/domain"
	"secreg/pkg/platform/sentinel"
)

type delegateKey struct {
	role    models.Role
	account domain.Address
}

// InMemory keeps every registry in maps. Records are stored and returned by value
// so callers never mutate stored state without saving it.
type InMemory struct {
	mu           sync.RWMutex
	companies    map[domain.Address]models.Company
	verifiers    map[domain.Address]models.Verifier
	delegates    map[delegateKey]models.Delegate
	sites        map[domain.Address][]models.Site
	links        map[domain.Address]models.VerifierLink
	tasks        []models.Task
	certificates map[domain.TokenID]models.Certificate
}

func New() *InMemory {
	return &InMemory{
		companies:    make(map[domain.Address]models.Company),
		verifiers:    make(map[domain.Address]models.Verifier),
		delegates:    make(map[delegateKey]models.Delegate),
		sites:        make(map[domain.Address][]models.Site),
		links:        make(map[domain.Address]models.VerifierLink),
		certificates: make(map[domain.TokenID]models.Certificate),
	}
}

func (s *InMemory) FindCompany(_ context.Context, owner domain.Address) (*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.companies[owner]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &c, nil
}

func (s *InMemory) SaveCompany(_ context.Context, company *models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[company.Owner] = *company
	return nil
}

func (s *InMemory) FindVerifier(_ context.Context, owner domain.Address) (*models.Verifier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.verifiers[owner]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &v, nil
}

func (s *InMemory) FindVerifierByName(_ context.Context, name string) (*models.Verifier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.verifiers {
		if v.Name == name {
			return &v, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) SaveVerifier(_ context.Context, verifier *models.Verifier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verifiers[verifier.Owner] = *verifier
	return nil
}

func (s *InMemory) FindDelegate(_ context.Context, role models.Role, account domain.Address) (*models.Delegate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.delegates[delegateKey{role: role, account: account}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &d, nil
}

func (s *InMemory) SaveDelegate(_ context.Context, delegate *models.Delegate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delegates[delegateKey{role: delegate.Role, account: delegate.Account}] = *delegate
	return nil
}

// ListDelegates returns active and inactive delegates of principal, ordered by account.
func (s *InMemory) ListDelegates(_ context.Context, role models.Role, principal domain.Address) ([]*models.Delegate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Delegate, 0)
	for key, d := range s.delegates {
		if key.role == role && d.Principal == principal {
			out = append(out, &d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Account.String() < out[j].Account.String()
	})
	return out, nil
}

func (s *InMemory) CountSites(_ context.Context, owner domain.Address) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sites[owner]), nil
}

func (s *InMemory) FindSite(_ context.Context, owner domain.Address, registerID domain.RegisterID) (*models.Site, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sites := s.sites[owner]
	if uint64(registerID) >= uint64(len(sites)) {
		return nil, sentinel.ErrNotFound
	}
	site := sites[registerID]
	return &site, nil
}

func (s *InMemory) FindSiteByName(_ context.Context, owner domain.Address, siteName string) (*models.Site, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, site := range s.sites[owner] {
		if site.SiteName == siteName {
			return &site, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// CreateSite appends site. Its RegisterID must be the next free index and its
// name must be unused for the owner.
func (s *InMemory) CreateSite(_ context.Context, site *models.Site) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sites := s.sites[site.Owner]
	if uint64(site.RegisterID) != uint64(len(sites)) {
		return sentinel.ErrAlreadyUsed
	}
	for _, existing := range sites {
		if existing.SiteName == site.SiteName {
			return sentinel.ErrAlreadyUsed
		}
	}
	s.sites[site.Owner] = append(sites, *site)
	return nil
}

func (s *InMemory) ListSites(_ context.Context, owner domain.Address) ([]*models.Site, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Site, 0, len(s.sites[owner]))
	for _, site := range s.sites[owner] {
		out = append(out, &site)
	}
	return out, nil
}

func (s *InMemory) FindLink(_ context.Context, company domain.Address) (*models.VerifierLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.links[company]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &l, nil
}

func (s *InMemory) CreateLink(_ context.Context, link *models.VerifierLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.links[link.Company]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.links[link.Company] = *link
	return nil
}

func (s *InMemory) NextTaskID(_ context.Context) (domain.TaskID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.TaskID(len(s.tasks)), nil
}

func (s *InMemory) CreateTask(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if uint64(task.ID) != uint64(len(s.tasks)) {
		return sentinel.ErrAlreadyUsed
	}
	s.tasks = append(s.tasks, *task)
	return nil
}

func (s *InMemory) FindTask(_ context.Context, id domain.TaskID) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if uint64(id) >= uint64(len(s.tasks)) {
		return nil, sentinel.ErrNotFound
	}
	t := s.tasks[id]
	return &t, nil
}

func (s *InMemory) UpdateTask(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if uint64(task.ID) >= uint64(len(s.tasks)) {
		return sentinel.ErrNotFound
	}
	s.tasks[task.ID] = *task
	return nil
}

func (s *InMemory) ListTasksByCompany(_ context.Context, company domain.Address) ([]*models.Task, error) {
	return s.listTasks(func(t models.Task) bool { return t.Company == company }), nil
}

func (s *InMemory) ListTasksByVerifier(_ context.Context, verifier domain.Address) ([]*models.Task, error) {
	return s.listTasks(func(t models.Task) bool { return t.Verifier == verifier }), nil
}

func (s *InMemory) listTasks(match func(models.Task) bool) []*models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Task, 0)
	for _, t := range s.tasks {
		if match(t) {
			out = append(out, &t)
		}
	}
	return out
}

func (s *InMemory) FindCertificate(_ context.Context, tokenID domain.TokenID) (*models.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.certificates[tokenID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &c, nil
}

func (s *InMemory) CreateCertificate(_ context.Context, cert *models.Certificate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.certificates[cert.TokenID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.certificates[cert.TokenID] = *cert
	return nil
}

func (s *InMemory) UpdateCertificate(_ context.Context, cert *models.Certificate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.certificates[cert.TokenID]; !ok {
		return sentinel.ErrNotFound
	}
	s.certificates[cert.TokenID] = *cert
	return nil
}
