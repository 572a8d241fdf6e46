// Package model holds the shared value types of a build invocation: the
// immutable BuildContext that replaces ad-hoc global path state, and the
// BuildError type that separates expected, user-facing failures from
// internal ones.
package model
