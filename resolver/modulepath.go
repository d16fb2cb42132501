package resolver

import (
	"strings"

	"github.com/redchew/horse64/pathutil"
)

const h64Extension = ".h64"

// deriveModulePath computes a dotted module path from a file URI relative
// to projectRoot (spec.md §4.5 step 1): strip the ".h64" extension,
// normalize, reject paths containing additional dots, and replace
// directory separators with ".".
//
// hasDots reports the ModulePathHasDots failure case; notInProject
// reports FileNotInProject.
func deriveModulePath(fileURI, projectRoot string) (path string, hasDots, notInProject bool) {
	rel := fileURI
	root := pathutil.Normalize(projectRoot)
	normalized := pathutil.Normalize(fileURI)
	if root != "" && root != "." {
		prefix := root + "/"
		if normalized == root {
			rel = ""
		} else if strings.HasPrefix(normalized, prefix) {
			rel = strings.TrimPrefix(normalized, prefix)
		} else {
			return "", false, true
		}
	} else {
		rel = normalized
	}

	if !strings.HasSuffix(rel, h64Extension) {
		return "", false, true
	}
	rel = strings.TrimSuffix(rel, h64Extension)
	rel = pathutil.Normalize(rel)

	for _, seg := range strings.Split(rel, "/") {
		if strings.Contains(seg, ".") {
			return "", true, false
		}
	}

	return strings.ReplaceAll(rel, "/", "."), false, false
}
