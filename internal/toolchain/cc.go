package toolchain

import (
	"os"
	"os/exec"
)

// compilers that accept -c, -o and -I the way the build expects
var commonCCompilers = []string{"gcc", "clang", "cc", "tcc"}

// FindCompiler picks the compiler driver: the configured one, then $CC, then the first
// common compiler on PATH. It returns "" when nothing is found.
func FindCompiler(configured string) string {
	if configured != "" {
		return configured
	}
	if cc := os.Getenv("CC"); cc != "" {
		return cc
	}

	for _, compiler := range commonCCompilers {
		path, err := exec.LookPath(compiler)
		if err == nil {
			return path
		}
	}

	return ""
}
