package testing

import (
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// TempDir creates a directory that is removed when the current spec ends.
func TempDir() string {
	dir, err := os.MkdirTemp("", "separation-test-*")
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	DeferCleanup(os.RemoveAll, dir)
	return dir
}
