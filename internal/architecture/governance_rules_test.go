package architecture_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const modulePath = "icare"

func collectGoFiles(root string) ([]string, error) {
	files := make([]string, 0)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".go") {
			files = append(files, filepath.ToSlash(path))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func repoRootDir() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "."
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}

func hasPathPrefix(value string, prefix string) bool {
	return value == prefix || strings.HasPrefix(value, prefix+"/")
}

func packageImportPath(file string) string {
	rel := relToRepoRoot(filepath.Dir(file))
	return modulePath + "/" + rel
}

func isTestFile(path string) bool {
	return strings.HasSuffix(filepath.Base(path), "_test.go")
}

func relToRepoRoot(path string) string {
	rel, err := filepath.Rel(repoRootDir(), path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// serviceMethod is an exported method with a context parameter on a
// *Service receiver.
type serviceMethod struct {
	key  string
	name string
	body *ast.BlockStmt
}

func serviceMethods(t *testing.T) []serviceMethod {
	t.Helper()

	files, err := collectGoFiles(filepath.Join(repoRootDir(), "internal", "service"))
	require.NoError(t, err)

	out := make([]serviceMethod, 0)
	for _, file := range files {
		if isTestFile(file) {
			continue
		}
		parsed, parseErr := parser.ParseFile(token.NewFileSet(), file, nil, 0)
		require.NoErrorf(t, parseErr, "parse %s", file)

		for _, decl := range parsed.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv == nil || fn.Body == nil || !fn.Name.IsExported() {
				continue
			}
			receiver := receiverTypeName(fn)
			if !strings.HasSuffix(receiver, "Service") || !hasContextParam(fn) {
				continue
			}
			out = append(out, serviceMethod{
				key:  relToRepoRoot(file) + ":" + receiver + "." + fn.Name.Name,
				name: fn.Name.Name,
				body: fn.Body,
			})
		}
	}
	return out
}

func receiverTypeName(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return ""
	}

	switch rt := fn.Recv.List[0].Type.(type) {
	case *ast.StarExpr:
		if id, ok := rt.X.(*ast.Ident); ok {
			return id.Name
		}
	case *ast.Ident:
		return rt.Name
	}

	return ""
}

func hasContextParam(fn *ast.FuncDecl) bool {
	if fn.Type == nil || fn.Type.Params == nil {
		return false
	}

	for _, field := range fn.Type.Params.List {
		t, ok := field.Type.(*ast.SelectorExpr)
		if !ok {
			continue
		}

		pkg, ok := t.X.(*ast.Ident)
		if ok && pkg.Name == "context" && t.Sel.Name == "Context" {
			return true
		}
	}

	return false
}

// containsCall reports whether body calls pkg.fn, or x.y.fn when pkg is a
// selector path such as "s.guard".
func containsCall(body *ast.BlockStmt, target string, names ...string) bool {
	found := false
	ast.Inspect(body, func(n ast.Node) bool {
		if found {
			return false
		}
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok || exprString(sel.X) != target {
			return true
		}
		for _, name := range names {
			if sel.Sel.Name == name {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

func exprString(expr ast.Expr) string {
	switch v := expr.(type) {
	case *ast.Ident:
		return v.Name
	case *ast.SelectorExpr:
		return exprString(v.X) + "." + v.Sel.Name
	}
	return ""
}
