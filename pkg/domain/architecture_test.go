package domain

import (
	"testing"

	"sembako/testutil"
)

// TestDomainDoesNotImportInternal keeps the domain layer free of
// implementation packages so every backend can depend on it.
func TestDomainDoesNotImportInternal(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InternalImportForbidden, "domain must not import internal packages")
}

func TestDomainDoesNotImportDrivers(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.DriverImportForbidden, "domain must stay storage-agnostic")
}
