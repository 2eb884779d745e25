// Package seed populates a demo registry: two companies with sites and delegate
// accounts, two verifiers with their own delegates, verifier links and a batch of
// open verification tasks.
package seed

import (
	"context"
	"fmt"

	"secreg/internal/registry/models"
	"secreg/pkg/domain"
)

// Registry is the subset of the registry service the seed drives.
type Registry interface {
	CreateSite(ctx context.Context, caller domain.Address, req models.CreateSiteRequest) (*models.Site, error)
	RegisterVerifier(ctx context.Context, caller domain.Address, req models.RegisterVerifierRequest) (*models.Verifier, error)
	UpdateCompanyAccount(ctx context.Context, caller domain.Address, req models.UpdateDelegateRequest) (*models.Delegate, error)
	UpdateVerifierAccount(ctx context.Context, caller domain.Address, req models.UpdateDelegateRequest) (*models.Delegate, error)
	LinkVerifier(ctx context.Context, caller, verifier domain.Address) (*models.VerifierLink, error)
	CreateTask(ctx context.Context, caller domain.Address, req models.CreateTaskRequest) (*models.Task, error)
}

// Well-known local development accounts.
var (
	Company1         = domain.MustParseAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	Company2         = domain.MustParseAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
	CompanyAccount1  = domain.MustParseAddress("0x90F79bf6EB2c4f870365E785982E1f101E93b906")
	CompanyAccount2  = domain.MustParseAddress("0x15d34AAf54267DB7D7c367839AAf71A00a2C6A65")
	CompanyAccount3  = domain.MustParseAddress("0x9965507D1a55bcC2695C58ba16FB37d819B0A4dc")
	CompanyAccount4  = domain.MustParseAddress("0x976EA74026E726554dB657fA54763abd0C3a0aa9")
	Verifier1        = domain.MustParseAddress("0x14dC79964da2C08b23698B3D3cc7Ca32193d9955")
	Verifier2        = domain.MustParseAddress("0x23618e81E3f5cdF7f54C3d65f7FBc0aBf5B21E8f")
	VerifierAccount1 = domain.MustParseAddress("0xa0Ee7A142d267C1f36714E4a8F75612F20a79720")
	VerifierAccount2 = domain.MustParseAddress("0xBcd4042DE499D14e55001CcbB24a551F3b954096")
	VerifierAccount3 = domain.MustParseAddress("0x71bE63f3384f5fb98995898A86B02Fb2426c5788")
)

// Account is one seeded address and what it plays in the demo.
type Account struct {
	Label   string
	Address domain.Address
}

// Result summarizes what Run created.
type Result struct {
	Accounts []Account
	Sites    int
	Tasks    int
}

type siteSpec struct {
	owner    domain.Address
	name     string
	address  string
	siret    string
	site     string
	siteAddr string
}

type delegateSpec struct {
	role      models.Role
	principal domain.Address
	account   domain.Address
	name      string
	firstName string
}

type taskSpec struct {
	caller       domain.Address
	siteName     string
	securityType string
	registerID   domain.RegisterID
}

var (
	sites = []siteSpec{
		{Company1, "Wood", "800 Ohio Rd. Woodhaven, NY 11421", "123456", "Ohio 1", "800 Ohio Rd. Woodhaven, NY 11421"},
		{Company1, "Wood", "800 Ohio Rd. Woodhaven, NY 11421", "123456", "Ohio 2", "802 Ohio Rd. Woodhaven, NY 11421"},
		{Company1, "Wood", "800 Ohio Rd. Woodhaven, NY 11421", "123456", "Park 888", "888 Beacon Ave. Villa Park, IL 60181"},
		{Company2, "Red", "737 Redwood St. Branford, CT 06405", "98765", "ABC", "737 Redwood St. Branford, CT 06405"},
	}

	verifiers = []struct {
		owner domain.Address
		req   models.RegisterVerifierRequest
	}{
		{Verifier1, models.RegisterVerifierRequest{Name: "AVGP 1", AddressName: "797 Newcastle Street Fuquay Varina, NC 27526", Siret: "121212", ApprovalNumber: "#456987"}},
		{Verifier2, models.RegisterVerifierRequest{Name: "AVGP 777", AddressName: "43 Bedford Dr. Nanuet, NY 10954", Siret: "900900", ApprovalNumber: "#434241"}},
	}

	delegates = []delegateSpec{
		{models.RoleCompany, Company1, CompanyAccount1, "Arnaud", "Séné"},
		{models.RoleCompany, Company1, CompanyAccount2, "Anthony", "Marek"},
		{models.RoleCompany, Company1, CompanyAccount3, "Vince", "Schtout"},
		{models.RoleCompany, Company2, CompanyAccount4, "Peter", "Rockenback"},
		{models.RoleVerifier, Verifier1, VerifierAccount1, "Verifier1", "NumABC"},
		{models.RoleVerifier, Verifier1, VerifierAccount2, "Verifier2", "NumDEF"},
		{models.RoleVerifier, Verifier2, VerifierAccount3, "Verifier3", "NumGHI"},
	}

	links = [][2]domain.Address{
		{Company1, Verifier1},
		{Company2, Verifier2},
	}

	tasks = []taskSpec{
		{Company1, "Ohio 1", "extincteur", 0},
		{Company1, "Ohio 1", "tableau electrique", 0},
		{Company1, "Ohio 1", "ascenseur", 0},
		{Company1, "Ohio 2", "extincteur", 1},
		{Company1, "Ohio 2", "tableau electrique", 1},
		{Company2, "ABC", "extincteur", 0},
		{CompanyAccount1, "Ohio 2", "ascenseur", 1},
		{CompanyAccount4, "ABC", "ascenseur", 0},
	}
)

// Run creates the demo registry. It expects an empty registry: a second run fails
// on the first duplicate site.
func Run(ctx context.Context, r Registry) (*Result, error) {
	for _, s := range sites {
		_, err := r.CreateSite(ctx, s.owner, models.CreateSiteRequest{
			Name: s.name, AddressName: s.address, Siret: s.siret, SiteName: s.site, SiteAddressName: s.siteAddr,
		})
		if err != nil {
			return nil, fmt.Errorf("create site %q: %w", s.site, err)
		}
	}

	for _, v := range verifiers {
		if _, err := r.RegisterVerifier(ctx, v.owner, v.req); err != nil {
			return nil, fmt.Errorf("register verifier %q: %w", v.req.Name, err)
		}
	}

	for _, d := range delegates {
		update := r.UpdateCompanyAccount
		if d.role == models.RoleVerifier {
			update = r.UpdateVerifierAccount
		}
		_, err := update(ctx, d.principal, models.UpdateDelegateRequest{
			Account: d.account, Name: d.name, FirstName: d.firstName, Action: models.DelegateAdd,
		})
		if err != nil {
			return nil, fmt.Errorf("add %s account %s: %w", d.role, d.account, err)
		}
	}

	for _, l := range links {
		if _, err := r.LinkVerifier(ctx, l[0], l[1]); err != nil {
			return nil, fmt.Errorf("link verifier %s to %s: %w", l[1], l[0], err)
		}
	}

	for _, t := range tasks {
		_, err := r.CreateTask(ctx, t.caller, models.CreateTaskRequest{
			SiteName: t.siteName, SecurityType: t.securityType, RegisterID: t.registerID,
		})
		if err != nil {
			return nil, fmt.Errorf("create task %q on %q: %w", t.securityType, t.siteName, err)
		}
	}

	return &Result{
		Accounts: Accounts(),
		Sites:    len(sites),
		Tasks:    len(tasks),
	}, nil
}

// Accounts lists every seeded address with its role in the demo.
func Accounts() []Account {
	return []Account{
		{"company 1 (Wood)", Company1},
		{"company 2 (Red)", Company2},
		{"company 1 account (Arnaud Séné)", CompanyAccount1},
		{"company 1 account (Anthony Marek)", CompanyAccount2},
		{"company 1 account (Vince Schtout)", CompanyAccount3},
		{"company 2 account (Peter Rockenback)", CompanyAccount4},
		{"verifier 1 (AVGP 1)", Verifier1},
		{"verifier 2 (AVGP 777)", Verifier2},
		{"verifier 1 account", VerifierAccount1},
		{"verifier 1 account", VerifierAccount2},
		{"verifier 2 account", VerifierAccount3},
	}
}
