package descriptor

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/droidkit/internal/ctyutil"
)

func stringField(name string, v cty.Value) (string, error) {
	s, ok := ctyutil.StringValue(v)
	if !ok {
		return "", fmt.Errorf("descriptor field %q must be a string, got %s", name, v.Type().FriendlyName())
	}
	return s, nil
}

func stringListField(name string, v cty.Value) ([]string, error) {
	out, err := ctyutil.StringList(v)
	if err != nil {
		return nil, fmt.Errorf("descriptor field %q: %w", name, err)
	}
	return out, nil
}

// fileSpecsField accepts a single entry or a list; each entry is either a
// bare path string or an object {"path": ..., "replace": [{"pattern","key"}]}.
func fileSpecsField(name string, v cty.Value) ([]FileSpec, error) {
	var specs []FileSpec
	for _, entry := range elements(v) {
		if s, ok := ctyutil.StringValue(entry); ok {
			specs = append(specs, FileSpec{Path: s})
			continue
		}
		if !entry.Type().IsObjectType() {
			return nil, fmt.Errorf("descriptor field %q entries must be paths or objects, got %s", name, entry.Type().FriendlyName())
		}
		path, ok := ctyutil.StringValue(ctyutil.Attr(entry, "path"))
		if !ok {
			return nil, fmt.Errorf("descriptor field %q entry is missing its path", name)
		}
		spec := FileSpec{Path: path}
		for _, rule := range elements(ctyutil.Attr(entry, "replace")) {
			pattern, pok := ctyutil.StringValue(ctyutil.Attr(rule, "pattern"))
			key, kok := ctyutil.StringValue(ctyutil.Attr(rule, "key"))
			if !pok || !kok {
				return nil, fmt.Errorf("descriptor field %q replace rules need pattern and key", name)
			}
			spec.Replace = append(spec.Replace, ReplaceRule{Pattern: pattern, Key: key})
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func customFilesField(name string, v cty.Value) ([]CustomFile, error) {
	var files []CustomFile
	for _, entry := range elements(v) {
		from, fok := ctyutil.StringValue(ctyutil.Attr(entry, "from"))
		to, tok := ctyutil.StringValue(ctyutil.Attr(entry, "to"))
		if !fok || !tok {
			return nil, fmt.Errorf("descriptor field %q entries need from and to", name)
		}
		files = append(files, CustomFile{From: from, To: to})
	}
	return files, nil
}

// elements flattens a value into its list elements; a non-collection value
// is its own single element, and null contributes none.
func elements(v cty.Value) []cty.Value {
	if v == cty.NilVal || v.IsNull() {
		return nil
	}
	if !v.Type().IsTupleType() && !v.Type().IsListType() {
		return []cty.Value{v}
	}
	var out []cty.Value
	for it := v.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		out = append(out, ev)
	}
	return out
}
