package architecture_test

import (
	"bufio"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// layers maps a directory prefix under the module root to the internal
// packages it may not import. The first matching prefix wins.
var layers = []struct {
	prefix     string
	disallowed []string
}{
	{"internal/platform/", []string{"internal/domain/", "internal/sku/", "internal/data/", "internal/services/", "internal/http/", "internal/app/", "internal/export/"}},
	{"internal/pkg/", []string{"internal/platform/", "internal/domain/", "internal/sku/", "internal/data/", "internal/services/", "internal/http/", "internal/app/"}},
	{"internal/domain/", []string{"internal/sku/", "internal/data/", "internal/services/", "internal/http/", "internal/app/", "internal/export/"}},
	{"internal/sku/derive/", []string{"internal/sku/collection/", "internal/data/", "internal/services/", "internal/http/", "internal/app/", "internal/platform/"}},
	{"internal/sku/", []string{"internal/services/", "internal/http/", "internal/app/", "internal/export/"}},
	{"internal/export/", []string{"internal/data/", "internal/services/", "internal/http/", "internal/app/"}},
	{"internal/data/", []string{"internal/sku/", "internal/services/", "internal/http/", "internal/app/"}},
	{"internal/services/", []string{"internal/http/", "internal/app/"}},
	{"internal/http/", []string{"internal/app/", "internal/data/db/"}},
	{"cmd/", []string{"internal/data/", "internal/sku/"}},
}

func TestImportBoundaries(t *testing.T) {
	start, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	root, err := findModuleRoot(start)
	if err != nil {
		t.Fatalf("find module root: %v", err)
	}
	modulePath, err := readModulePath(filepath.Join(root, "go.mod"))
	if err != nil {
		t.Fatalf("read module path: %v", err)
	}

	fset := token.NewFileSet()
	var violations []string
	for _, dir := range []string{"internal", "cmd"} {
		walkErr := filepath.WalkDir(filepath.Join(root, dir), func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, ".go") {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			disallowed := disallowedFor(rel)
			if len(disallowed) == 0 {
				return nil
			}

			f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
			if err != nil {
				return err
			}
			for _, spec := range f.Imports {
				imp, err := strconv.Unquote(spec.Path.Value)
				if err != nil || !strings.HasPrefix(imp, modulePath+"/") {
					continue
				}
				local := strings.TrimPrefix(imp, modulePath+"/") + "/"
				for _, bad := range disallowed {
					if strings.HasPrefix(local, bad) {
						violations = append(violations, fmt.Sprintf("%s imports %q (disallowed: %s)", rel, imp, bad))
						break
					}
				}
			}
			return nil
		})
		if walkErr != nil {
			t.Fatalf("walk %s/: %v", dir, walkErr)
		}
	}

	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n- %s", strings.Join(violations, "\n- "))
	}
}

func TestLayersCoverSKUPackages(t *testing.T) {
	for _, rel := range []string{
		"internal/sku/derive/derive.go",
		"internal/sku/collection/store.go",
		"internal/data/blob/sql.go",
		"internal/platform/logger/logger.go",
		"cmd/skuctl/main.go",
	} {
		if len(disallowedFor(rel)) == 0 {
			t.Fatalf("%s is not covered by any layer", rel)
		}
	}
}

func disallowedFor(rel string) []string {
	for _, l := range layers {
		if strings.HasPrefix(rel, l.prefix) {
			return l.disallowed
		}
	}
	return nil
}

func findModuleRoot(start string) (string, error) {
	for dir := start; ; {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found from %s", start)
		}
		dir = parent
	}
}

func readModulePath(goModPath string) (string, error) {
	f, err := os.Open(goModPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if mp, ok := strings.CutPrefix(line, "module "); ok {
			if mp = strings.TrimSpace(mp); mp != "" {
				return mp, nil
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("module path not found in %s", goModPath)
}
