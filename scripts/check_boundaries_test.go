package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testService = "ballotbox/contexts/governance/election-service"

func writeSource(t *testing.T, root string, rel string, imports ...string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	src := "package x\n\nimport (\n"
	for _, imp := range imports {
		src += "\t_ \"" + imp + "\"\n"
	}
	src += ")\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
}

func TestCollectViolations(t *testing.T) {
	root := filepath.Join(t.TempDir(), "contexts")

	writeSource(t, root, "governance/election-service/domain/services/ok.go", "fmt", testService+"/domain/entities")
	writeSource(t, root, "governance/election-service/domain/services/bad.go", "github.com/google/uuid")
	writeSource(t, root, "governance/election-service/application/commands/ok.go", testService+"/ports", "ballotbox/internal/shared/events")
	writeSource(t, root, "governance/election-service/application/commands/bad.go", testService+"/adapters/memory", "ballotbox/internal/platform/db")
	writeSource(t, root, "governance/election-service/ports/x/bad.go", testService+"/application")
	writeSource(t, root, "governance/election-service/adapters/memory/cross.go", "ballotbox/contexts/other/service/ports", "gorm.io/gorm")
	writeSource(t, root, "governance/election-service/adapters/memory/test_test.go", "ballotbox/contexts/other/service/ports")

	violations, err := collectViolations(root)
	require.NoError(t, err)

	got := map[string][]string{}
	for _, v := range violations {
		rel, err := filepath.Rel(root, filepath.FromSlash(v.File))
		require.NoError(t, err)
		got[filepath.ToSlash(rel)] = append(got[filepath.ToSlash(rel)], v.Import)
	}
	assert.Equal(t, map[string][]string{
		"governance/election-service/domain/services/bad.go":      {"github.com/google/uuid"},
		"governance/election-service/application/commands/bad.go": {testService + "/adapters/memory", "ballotbox/internal/platform/db"},
		"governance/election-service/ports/x/bad.go":              {testService + "/application"},
		"governance/election-service/adapters/memory/cross.go":    {"ballotbox/contexts/other/service/ports"},
	}, got)
}

func TestCheckImportRules(t *testing.T) {
	assert.Equal(t, "domain may only import domain", checkImport("gorm.io/gorm", testService, "domain"))
	assert.Equal(t, "imports another service", checkImport("ballotbox/contexts/x/y/domain", testService, "adapters"))
	assert.Empty(t, checkImport("ballotbox/internal/shared/outbox", testService, "ports"))
	assert.Empty(t, checkImport("ballotbox/internal/platform/db", testService, "adapters"))
}

func TestIsStdlib(t *testing.T) {
	assert.True(t, isStdlib("net/http"))
	assert.False(t, isStdlib("github.com/google/uuid"))
	assert.False(t, isStdlib("ballotbox/internal/shared/events"))
	assert.False(t, isStdlib("ballotbox"))
}
