package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const moduleName = "ballotbox"

const sharedPrefix = moduleName + "/internal/shared"

// layerImports lists, per service layer, the service-relative packages (or
// absolute module paths) it may import besides the standard library. Layers
// not listed here are unrestricted within their own service.
var layerImports = map[string][]string{
	"domain":      {"domain"},
	"application": {"application", "domain", "ports", sharedPrefix},
	"ports":       {"domain", sharedPrefix},
}

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

func main() {
	root := "contexts"
	if len(os.Args) > 1 {
		root = os.Args[1]
	}
	violations, err := collectViolations(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "walk %s: %v\n", root, err)
		os.Exit(2)
	}
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}
	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

// collectViolations parses every non-test file under root laid out as
// contexts/<context>/<service>/<layer>/... and reports forbidden imports in
// file and line order.
func collectViolations(root string) ([]violation, error) {
	var violations []violation
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		parts := strings.Split(filepath.ToSlash(path), "/")
		start := slices.Index(parts, "contexts")
		if start < 0 || len(parts) < start+5 {
			return nil
		}
		service := strings.Join([]string{moduleName, "contexts", parts[start+1], parts[start+2]}, "/")
		found, err := checkFile(path, service, parts[start+3])
		violations = append(violations, found...)
		return err
	})
	return violations, err
}

func checkFile(path string, service string, layer string) ([]violation, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return nil, err
	}

	var violations []violation
	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, `"`)
		if rule := checkImport(importPath, service, layer); rule != "" {
			violations = append(violations, violation{
				File:   filepath.ToSlash(path),
				Line:   fset.Position(imp.Pos()).Line,
				Import: importPath,
				Rule:   rule,
			})
		}
	}
	return violations, nil
}

// checkImport returns the broken rule, or "" when importPath is allowed.
func checkImport(importPath string, service string, layer string) string {
	if hasPrefix(importPath, moduleName+"/contexts") && !hasPrefix(importPath, service) {
		return "imports another service"
	}
	allowed, restricted := layerImports[layer]
	if !restricted || isStdlib(importPath) {
		return ""
	}
	for _, entry := range allowed {
		prefix := entry
		if !strings.HasPrefix(entry, moduleName+"/") {
			prefix = service + "/" + entry
		}
		if hasPrefix(importPath, prefix) {
			return ""
		}
	}
	return fmt.Sprintf("%s may only import %s", layer, strings.Join(allowed, ", "))
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isStdlib(importPath string) bool {
	first, _, _ := strings.Cut(importPath, "/")
	return first != moduleName && !strings.Contains(first, ".")
}
