package project

import (
	"fmt"
	"os"
	"sort"

	hcljson "github.com/hashicorp/hcl/v2/json"

	"github.com/vk/droidkit/internal/ctyutil"
)

// transformEntry is one row of a transform descriptor: a literal placeholder
// token and the dotted key its replacement value is looked up by.
type transformEntry struct {
	Token string
	Key   string
}

// loadTransform parses a transform descriptor: a JSON object mapping
// placeholder tokens to dotted lookup keys. Entries are returned sorted by
// token so application order is deterministic.
func loadTransform(path string) ([]transformEntry, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transform %s: %w", path, err)
	}
	file, diags := hcljson.Parse(src, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse transform %s: %w", path, diags)
	}
	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to read transform %s: %w", path, diags)
	}

	var entries []transformEntry
	for token, attr := range attrs {
		val, valueDiags := attr.Expr.Value(nil)
		if valueDiags.HasErrors() {
			return nil, fmt.Errorf("failed to evaluate transform entry %q: %w", token, valueDiags)
		}
		key, ok := ctyutil.StringValue(val)
		if !ok {
			return nil, fmt.Errorf("transform entry %q must map to a string key", token)
		}
		entries = append(entries, transformEntry{Token: token, Key: key})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Token < entries[j].Token })
	return entries, nil
}
