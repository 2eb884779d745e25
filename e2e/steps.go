package e2e

import (
	"github.com/cucumber/godog"

	"secreg/e2e/steps/common"
	"secreg/e2e/steps/registry"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (health, generic requests, assertions)
	common.RegisterSteps(ctx, tc)

	// Register registry lifecycle steps
	registry.RegisterSteps(ctx, tc)
}
