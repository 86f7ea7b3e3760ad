package integration

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cucumber/godog"
)

// suite is shared by every test; nil unless INTEGRATION_TEST is set
var suite *TestContext

func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION_TEST") == "" {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	tc, err := NewTestContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create test context: %v\n", err)
		os.Exit(1)
	}
	suite = tc

	code := m.Run()
	tc.Close(ctx)
	os.Exit(code)
}

func requireSuite(t *testing.T) *TestContext {
	t.Helper()
	if suite == nil {
		t.Skip("Skipping integration tests. Set INTEGRATION_TEST=1 to run.")
	}
	return suite
}

func TestFeatures(t *testing.T) {
	tc := requireSuite(t)

	s := godog.TestSuite{
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			steps := NewStepsContext(tc)
			steps.RegisterSteps(sc)
		},
		Options: &godog.Options{
			Format:      "pretty",
			Paths:       []string{"features"},
			Concurrency: 1,
			TestingT:    t,
		},
	}

	if s.Run() != 0 {
		t.Fatal("Non-zero status returned, failed to run feature tests")
	}
}
