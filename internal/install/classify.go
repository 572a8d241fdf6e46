package install

import "path/filepath"

// fileKind is the closed set of installation strategies. Dispatch is a
// tagged variant rather than scattered extension checks so the policy stays
// exhaustive and testable.
type fileKind int

const (
	// kindSource is a text source file: its package declaration determines
	// the destination and declared find/replace rules apply.
	kindSource fileKind = iota
	// kindNativeLib is a native shared library, duplicated unmodified into
	// both per-architecture library directories.
	kindNativeLib
	// kindVerbatim is any other file, copied as-is with its relative path
	// preserved under the target main source tree.
	kindVerbatim
)

// classify picks the installation strategy for a file.
func classify(path string) fileKind {
	switch filepath.Ext(path) {
	case ".java", ".aidl":
		return kindSource
	case ".so":
		return kindNativeLib
	default:
		return kindVerbatim
	}
}
