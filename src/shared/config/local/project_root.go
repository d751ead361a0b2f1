package local

import (
	"path/filepath"
	"runtime"
	"strings"
)

const thisFile = "/src/shared/config/local/project_root.go"

func ProjectRoot() string {
	_, filePath, _, ok := runtime.Caller(0)

	if !ok {
		panic("Failed to call runtime.Caller")
	}

	filePath = filepath.ToSlash(filePath)
	if !strings.HasSuffix(filePath, thisFile) {
		panic("project_root.go has moved, update thisFile")
	}

	return strings.TrimSuffix(filePath, thisFile)
}

// Path resolves elems relative to the project root, for development defaults
func Path(elems ...string) string {
	return filepath.Join(append([]string{ProjectRoot()}, elems...)...)
}
