// Package pathutil implements the small path-normalization routine the
// module-path deriver and the file-URI interner both need (spec.md §8
// Round-trip / idempotence properties).
package pathutil

import "strings"

// Normalize collapses repeated separators and resolves ".." segments
// against the segments already collected, without ever treating a
// leading ".." as reaching outside the normalized path (it is kept
// literally once the stack is empty). The result is separator-normalized
// to "/".
//
// normalize(normalize(p)) == normalize(p) for every p: once collapsed
// there are no empty or "." segments left, and every ".." either popped
// a real segment (so it cannot appear mid-stack again) or sits at the
// front of the stack where a second pass has nothing left to collapse.
func Normalize(p string) string {
	raw := strings.Split(strings.ReplaceAll(p, "\\", "/"), "/")
	stack := make([]string, 0, len(raw))
	for _, seg := range raw {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(stack) > 0 && stack[len(stack)-1] != ".." {
				stack = stack[:len(stack)-1]
			} else {
				stack = append(stack, "..")
			}
		default:
			stack = append(stack, seg)
		}
	}
	return strings.Join(stack, "/")
}
