// Package stacktrace trims goroutine dumps down to the application frames.
package stacktrace

import "strings"

const marker = "/internal/"

// InternalPaths returns "internal/<pkg>/<file>.go:<line>" for every frame of
// stack that points into an internal package, innermost first. Frames of
// this package and of the panic recoverer are skipped.
func InternalPaths(stack []byte) []string {
	lines := strings.Split(string(stack), "\n")
	paths := make([]string, 0, len(lines)/2)
	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.HasSuffix(fileOf(line), ".go") {
			continue
		}

		short, ok := shorten(line)
		if !ok || skipped(short) {
			continue
		}
		paths = append(paths, short)
	}
	return paths
}

// fileOf drops the " +0x1f" program counter offset of a frame line.
func fileOf(line string) string {
	file, _, _ := strings.Cut(line, " ")
	if idx := strings.LastIndex(file, ":"); idx != -1 {
		return file[:idx]
	}
	return file
}

func shorten(line string) (string, bool) {
	file, _, _ := strings.Cut(line, " ")
	idx := strings.Index(file, marker)
	if idx == -1 {
		return "", false
	}
	return file[idx+1:], true
}

func skipped(path string) bool {
	return strings.HasPrefix(path, "internal/pkg/stacktrace/") ||
		strings.HasPrefix(path, "internal/pkg/router/middleware_recover.go")
}
