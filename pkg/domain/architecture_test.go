package domain

import (
	"testing"

	"catalogcore/testutil"
)

// The domain package is shared by every layer and must not depend on any of them.
func TestDomainDoesNotImportInternal(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.Any(
		testutil.InternalImportForbidden,
		testutil.ObservabilityImportForbidden,
	), "domain must stay free of internal packages and logging")
}
