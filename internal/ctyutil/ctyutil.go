// Package ctyutil converts between the cty values produced by parsing JSON
// configuration bodies and the plain Go shapes the build components consume.
// Descriptor fields and the app's android configuration both tolerate loose
// shapes (a single string where a list is allowed, numbers where strings are
// expected), so conversion lives here in one place.
package ctyutil

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// StringValue converts a primitive cty value to its string form. Numbers and
// bools are stringified; null, unknown and non-primitive values report false.
func StringValue(v cty.Value) (string, bool) {
	if v == cty.NilVal || v.IsNull() || !v.IsKnown() {
		return "", false
	}
	conv, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", false
	}
	return conv.AsString(), true
}

// Lookup traverses an object/map value by a dot-joined key path and returns
// the value found there.
func Lookup(v cty.Value, dotted string) (cty.Value, bool) {
	cur := v
	for _, seg := range strings.Split(dotted, ".") {
		if cur == cty.NilVal || cur.IsNull() || !cur.IsKnown() {
			return cty.NilVal, false
		}
		ty := cur.Type()
		switch {
		case ty.IsObjectType():
			if !ty.HasAttribute(seg) {
				return cty.NilVal, false
			}
			cur = cur.GetAttr(seg)
		case ty.IsMapType():
			if !cur.HasIndex(cty.StringVal(seg)).True() {
				return cty.NilVal, false
			}
			cur = cur.Index(cty.StringVal(seg))
		default:
			return cty.NilVal, false
		}
	}
	return cur, true
}

// LookupString resolves a dot-joined key path to a string value.
func LookupString(v cty.Value, dotted string) (string, bool) {
	found, ok := Lookup(v, dotted)
	if !ok {
		return "", false
	}
	return StringValue(found)
}

// StringList accepts either a single string or a list/tuple of strings.
func StringList(v cty.Value) ([]string, error) {
	if v == cty.NilVal || v.IsNull() {
		return nil, nil
	}
	if v.Type() == cty.String {
		return []string{v.AsString()}, nil
	}
	if !v.Type().IsTupleType() && !v.Type().IsListType() {
		return nil, fmt.Errorf("expected a string or list of strings, got %s", v.Type().FriendlyName())
	}
	var out []string
	for it := v.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		s, ok := StringValue(ev)
		if !ok {
			return nil, fmt.Errorf("expected a string list element, got %s", ev.Type().FriendlyName())
		}
		out = append(out, s)
	}
	return out, nil
}

// Attr returns the named attribute of an object value, or NilVal when the
// value has no such attribute.
func Attr(v cty.Value, name string) cty.Value {
	if v == cty.NilVal || v.IsNull() || !v.Type().IsObjectType() || !v.Type().HasAttribute(name) {
		return cty.NilVal
	}
	return v.GetAttr(name)
}

// Flatten writes every leaf of a nested object/map value into out under
// dot-joined keys. List and tuple leaves become a comma-joined string of
// their stringified elements; keys of nested collections recurse with the
// prefix extended. Keys are visited in sorted order so the result is
// deterministic.
func Flatten(prefix string, v cty.Value, out map[string]string) {
	if v == cty.NilVal || v.IsNull() || !v.IsKnown() {
		return
	}
	ty := v.Type()
	switch {
	case ty.IsObjectType(), ty.IsMapType():
		keys := collectionKeys(v)
		for _, k := range keys {
			child := cty.NilVal
			if ty.IsObjectType() {
				child = v.GetAttr(k)
			} else {
				child = v.Index(cty.StringVal(k))
			}
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			Flatten(key, child, out)
		}
	case ty.IsTupleType(), ty.IsListType():
		var parts []string
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			if s, ok := StringValue(ev); ok {
				parts = append(parts, s)
			}
		}
		if prefix != "" {
			out[prefix] = strings.Join(parts, ",")
		}
	default:
		if s, ok := StringValue(v); ok && prefix != "" {
			out[prefix] = s
		}
	}
}

func collectionKeys(v cty.Value) []string {
	var keys []string
	if v.Type().IsObjectType() {
		for name := range v.Type().AttributeTypes() {
			keys = append(keys, name)
		}
	} else {
		for it := v.ElementIterator(); it.Next(); {
			kv, _ := it.Element()
			keys = append(keys, kv.AsString())
		}
	}
	sort.Strings(keys)
	return keys
}
