// Package testing contains fixtures and assertions for tests that work on
// site trees on disk.
package testing

const (
	// testDirPermissions is the permission mode for creating test directories.
	testDirPermissions = 0o750

	// testFilePermissions is the permission mode for creating test files.
	testFilePermissions = 0o600
)
