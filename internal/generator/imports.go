package generator

import (
	"fmt"
	"sort"
	"strings"
)

// importManager deduplicates the import paths the variants require and
// renders them as a grouped import block
type importManager struct {
	paths map[string]bool
}

func newImportManager() *importManager {
	return &importManager{paths: make(map[string]bool)}
}

func (m *importManager) add(path string) {
	if path != "" {
		m.paths[path] = true
	}
}

// render produces the import block: standard library first, module paths
// after a blank line, both groups sorted
func (m *importManager) render() string {
	if len(m.paths) == 0 {
		return ""
	}

	var std, hosted []string
	for path := range m.paths {
		if isStdlibPath(path) {
			std = append(std, path)
		} else {
			hosted = append(hosted, path)
		}
	}
	sort.Strings(std)
	sort.Strings(hosted)

	all := len(std) + len(hosted)
	if all == 1 {
		single := append(std, hosted...)[0]
		return fmt.Sprintf("import %q\n", single)
	}

	var builder strings.Builder
	builder.WriteString("import (\n")
	for _, path := range std {
		fmt.Fprintf(&builder, "\t%q\n", path)
	}
	if len(std) > 0 && len(hosted) > 0 {
		builder.WriteString("\n")
	}
	for _, path := range hosted {
		fmt.Fprintf(&builder, "\t%q\n", path)
	}
	builder.WriteString(")\n")
	return builder.String()
}

// isStdlibPath treats a path without a dotted first segment as standard
// library, which matches how goimports groups
func isStdlibPath(path string) bool {
	first := path
	if i := strings.Index(path, "/"); i >= 0 {
		first = path[:i]
	}
	return !strings.Contains(first, ".")
}
