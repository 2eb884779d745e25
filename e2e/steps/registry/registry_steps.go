package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Account(alias string) (string, error)
	Nonce() string
	Request(method, path, alias string, body any) error
	GET(path string) error
	Status() int
	Body() []byte
	ResponseField(field string) (any, error)
	SetVar(name, value string)
	Var(name string) (string, error)
}

const taskVar = "task_id"

// RegisterSteps registers company, verifier, task and certificate steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &registrySteps{tc: tc}

	// Identity and site steps
	ctx.Step(`^"([^"]*)" creates site "([^"]*)"$`, steps.createSite)
	ctx.Step(`^"([^"]*)" has created site "([^"]*)"$`, steps.hasCreatedSite)
	ctx.Step(`^"([^"]*)" has registered as a verifier$`, steps.hasRegisteredAsVerifier)
	ctx.Step(`^"([^"]*)" links verifier "([^"]*)"$`, steps.linkVerifier)
	ctx.Step(`^"([^"]*)" has linked verifier "([^"]*)"$`, steps.hasLinkedVerifier)
	ctx.Step(`^"([^"]*)" adds delegate "([^"]*)"$`, steps.addDelegate)

	// Task steps
	ctx.Step(`^"([^"]*)" creates an? "([^"]*)" task on site "([^"]*)"$`, steps.createTask)
	ctx.Step(`^"([^"]*)" validates the task$`, steps.validateTask)
	ctx.Step(`^"([^"]*)" disposes the task with "([^"]*)"$`, steps.disposeTask)
	ctx.Step(`^"([^"]*)" has an approved task on site "([^"]*)" verified by "([^"]*)"$`, steps.hasApprovedTask)

	// Certificate steps
	ctx.Step(`^"([^"]*)" mints the task with "([^"]*)"$`, steps.mint)
	ctx.Step(`^I look up the certificate of the task$`, steps.lookupCertificate)

	// Assertions
	ctx.Step(`^the response field "([^"]*)" should be the address of "([^"]*)"$`, steps.fieldShouldBeAddressOf)
	ctx.Step(`^the response field "([^"]*)" should be the task id$`, steps.fieldShouldBeTaskID)
	ctx.Step(`^the "([^"]*)" event of the task should be attributed to "([^"]*)"$`, steps.taskEventShouldBeAttributedTo)
}

type registrySteps struct {
	tc TestContext
}

func (s *registrySteps) createSite(ctx context.Context, alias, siteName string) error {
	return s.tc.Request(http.MethodPost, "/sites", alias, map[string]string{
		"name":              "Acme " + alias,
		"address_name":      "1 Main St",
		"siret":             "SIRET-" + alias,
		"site_name":         siteName,
		"site_address_name": "1 Main St",
	})
}

func (s *registrySteps) hasCreatedSite(ctx context.Context, alias, siteName string) error {
	if err := s.createSite(ctx, alias, siteName); err != nil {
		return err
	}
	return s.expect(http.StatusCreated)
}

func (s *registrySteps) hasRegisteredAsVerifier(ctx context.Context, alias string) error {
	err := s.tc.Request(http.MethodPost, "/verifiers", alias, map[string]string{
		"name":            alias + "-" + s.tc.Nonce(),
		"address_name":    "3 Check Rd",
		"siret":           "SIRET-" + alias,
		"approval_number": "AP-" + s.tc.Nonce(),
	})
	if err != nil {
		return err
	}
	return s.expect(http.StatusCreated)
}

func (s *registrySteps) linkVerifier(ctx context.Context, company, verifier string) error {
	addr, err := s.tc.Account(verifier)
	if err != nil {
		return err
	}
	return s.tc.Request(http.MethodPost, "/companies/verifier", company, map[string]string{"verifier": addr})
}

func (s *registrySteps) hasLinkedVerifier(ctx context.Context, company, verifier string) error {
	if err := s.linkVerifier(ctx, company, verifier); err != nil {
		return err
	}
	return s.expect(http.StatusCreated)
}

func (s *registrySteps) addDelegate(ctx context.Context, company, delegate string) error {
	addr, err := s.tc.Account(delegate)
	if err != nil {
		return err
	}
	return s.tc.Request(http.MethodPost, "/companies/accounts", company, map[string]string{
		"account":    addr,
		"name":       "Name",
		"first_name": "First",
		"action":     "add",
	})
}

// createTask always targets register 0, the first site of a fresh company.
func (s *registrySteps) createTask(ctx context.Context, alias, securityType, siteName string) error {
	err := s.tc.Request(http.MethodPost, "/tasks", alias, map[string]any{
		"site_name":     siteName,
		"security_type": securityType,
		"register_id":   0,
	})
	if err != nil {
		return err
	}
	if s.tc.Status() == http.StatusCreated {
		id, err := s.tc.ResponseField("task_id")
		if err != nil {
			return err
		}
		s.tc.SetVar(taskVar, fmt.Sprint(id))
	}
	return nil
}

func (s *registrySteps) taskPath(suffix string) (string, error) {
	id, err := s.tc.Var(taskVar)
	if err != nil {
		return "", err
	}
	return "/tasks/" + id + suffix, nil
}

func (s *registrySteps) validateTask(ctx context.Context, alias string) error {
	path, err := s.taskPath("/validate")
	if err != nil {
		return err
	}
	return s.tc.Request(http.MethodPost, path, alias, nil)
}

func (s *registrySteps) disposeTask(ctx context.Context, alias, action string) error {
	path, err := s.taskPath("/disposition")
	if err != nil {
		return err
	}
	return s.tc.Request(http.MethodPost, path, alias, map[string]string{"action": action})
}

func (s *registrySteps) hasApprovedTask(ctx context.Context, company, siteName, verifier string) error {
	setup := []func() error{
		func() error { return s.hasCreatedSite(ctx, company, siteName) },
		func() error { return s.hasRegisteredAsVerifier(ctx, verifier) },
		func() error { return s.hasLinkedVerifier(ctx, company, verifier) },
		func() error {
			if err := s.createTask(ctx, company, "Extinguisher", siteName); err != nil {
				return err
			}
			return s.expect(http.StatusCreated)
		},
		func() error {
			if err := s.validateTask(ctx, verifier); err != nil {
				return err
			}
			return s.expect(http.StatusOK)
		},
		func() error {
			if err := s.disposeTask(ctx, company, "approve"); err != nil {
				return err
			}
			return s.expect(http.StatusOK)
		},
	}
	for _, step := range setup {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (s *registrySteps) mint(ctx context.Context, alias, uri string) error {
	id, err := s.tc.Var(taskVar)
	if err != nil {
		return err
	}
	var taskID uint64
	if _, err := fmt.Sscan(id, &taskID); err != nil {
		return err
	}
	return s.tc.Request(http.MethodPost, "/certificates", alias, map[string]any{
		"task_id":      taskID,
		"metadata_uri": uri,
	})
}

func (s *registrySteps) lookupCertificate(ctx context.Context) error {
	id, err := s.tc.Var(taskVar)
	if err != nil {
		return err
	}
	return s.tc.GET("/certificates/" + id)
}

func (s *registrySteps) fieldShouldBeAddressOf(ctx context.Context, field, alias string) error {
	value, err := s.tc.ResponseField(field)
	if err != nil {
		return err
	}
	addr, err := s.tc.Account(alias)
	if err != nil {
		return err
	}
	if !strings.EqualFold(fmt.Sprint(value), addr) {
		return fmt.Errorf("expected %s to be %s (%s), got %v", field, alias, addr, value)
	}
	return nil
}

func (s *registrySteps) fieldShouldBeTaskID(ctx context.Context, field string) error {
	value, err := s.tc.ResponseField(field)
	if err != nil {
		return err
	}
	id, err := s.tc.Var(taskVar)
	if err != nil {
		return err
	}
	if got := fmt.Sprint(value); got != id {
		return fmt.Errorf("expected %s=%s, got %s", field, id, got)
	}
	return nil
}

type event struct {
	Seq     uint64 `json:"seq"`
	Type    string `json:"type"`
	Actor   string `json:"actor"`
	Subject string `json:"subject"`
}

type eventsPage struct {
	Events []event `json:"events"`
	Next   uint64  `json:"next"`
}

// taskEventShouldBeAttributedTo pages through the whole event log; the server
// is shared between scenarios so the log is never empty.
func (s *registrySteps) taskEventShouldBeAttributedTo(ctx context.Context, eventType, alias string) error {
	id, err := s.tc.Var(taskVar)
	if err != nil {
		return err
	}
	addr, err := s.tc.Account(alias)
	if err != nil {
		return err
	}
	subject := "task:" + id

	var found *event
	var after uint64
	for {
		if err := s.tc.GET(fmt.Sprintf("/events?after=%d&limit=1000", after)); err != nil {
			return err
		}
		if err := s.expect(http.StatusOK); err != nil {
			return err
		}
		var page eventsPage
		if err := json.Unmarshal(s.tc.Body(), &page); err != nil {
			return err
		}
		if len(page.Events) == 0 {
			break
		}
		for i := range page.Events {
			if page.Events[i].Type == eventType && page.Events[i].Subject == subject {
				found = &page.Events[i]
			}
		}
		after = page.Next
	}

	if found == nil {
		return fmt.Errorf("no %s event for %s", eventType, subject)
	}
	if !strings.EqualFold(found.Actor, addr) {
		return fmt.Errorf("expected %s event actor %s (%s), got %s", eventType, alias, addr, found.Actor)
	}
	return nil
}

func (s *registrySteps) expect(status int) error {
	if s.tc.Status() != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, s.tc.Status(), s.tc.Body())
	}
	return nil
}
