package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
)

// digestLen is the number of hex characters of the digest kept in a key.
const digestLen = 8

// Args is the logical call signature a cache key is derived from.
type Args struct {
	Positional []any
	Keyword    map[string]any
}

// Pos builds Args from positional values.
func Pos(v ...any) Args { return Args{Positional: v} }

// KW builds Args from keyword values.
func KW(kw map[string]any) Args { return Args{Keyword: kw} }

// Key derives the cache key for prefix.
func (a Args) Key(prefix string) string { return DeriveKey(prefix, a.Positional, a.Keyword) }

// DeriveKey builds "prefix:<8 hex>" from md5("prefix:arg1:...:k1=v1:...").
// Keyword names are sorted so the key does not depend on their order.
// Distinct argument sets sharing a prefix may collide once in 2^32.
func DeriveKey(prefix string, args []any, kwargs map[string]any) string {
	parts := make([]string, 0, 1+len(args)+len(kwargs))
	parts = append(parts, prefix)
	for _, a := range args {
		parts = append(parts, stringify(a))
	}
	if len(kwargs) > 0 {
		names := make([]string, 0, len(kwargs))
		for k := range kwargs {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			parts = append(parts, k+"="+stringify(kwargs[k]))
		}
	}
	sum := md5.Sum([]byte(strings.Join(parts, ":")))
	return prefix + ":" + hex.EncodeToString(sum[:])[:digestLen]
}

// stringify renders a key argument by value, never by address.
func stringify(v any) string {
	if v == nil {
		return "None"
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "None"
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return "None"
		}
		items := make([]string, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items[i] = stringify(rv.Index(i).Interface())
		}
		return "[" + strings.Join(items, " ") + "]"
	}
	if !rv.CanInterface() {
		return fmt.Sprint(rv)
	}
	switch t := rv.Interface().(type) {
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
