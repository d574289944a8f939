package shelltest

import (
	"context"
	"fmt"
	"testing"

	"github.com/ruffel/sshshell"
)

// Standard categories for grouping tests.
const (
	CategoryLifecycle = "lifecycle"
	CategoryOutput    = "output"
)

// T is the minimal interface required for testify/assert and require.
type T interface {
	Errorf(format string, args ...any)
	FailNow()
	Skipf(format string, args ...any)
	Context() context.Context
	Cleanup(f func())
	Name() string
}

// Factory returns a fresh, unopened Shell for one test case.
type Factory func(t T) sshshell.Shell

// TestCase defines a single behavioral contract requirement.
type TestCase struct {
	Category    string
	Name        string
	Description string
	Run         func(t T, newShell Factory)
}

// ID returns the stable, globally unique contract identifier.
func (tc TestCase) ID() string {
	return fmt.Sprintf("%s/%s", tc.Category, tc.Name)
}

// Verify is the standard Go test entry point for provider authors.
func Verify(t *testing.T, newShell Factory) {
	t.Helper()

	for _, tc := range AllContracts() {
		t.Run(tc.ID(), func(t *testing.T) {
			tc.Run(t, newShell)
		})
	}
}
