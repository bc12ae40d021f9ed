package codegen

import (
	"strings"

	"github.com/pkg/errors"
)

// These renames only apply to field accessor names that would otherwise
// collide with a method every generated Reader/Builder/Pipeline carries.
// Not a complete list: "ToPtr", "SetNull" and the like are too unusual to
// burden codegen with, so a schema field actually named that way will still
// collide. See SPEC_FULL.md §4 for the rationale.
var reservedAccessorNames = map[string]bool{
	"Which":   true,
	"String":  true,
	"Message": true,
	"IsValid": true,
	"Segment": true,
}

// assertAlphanumeric enforces the fatal assertion from spec §7: an
// identifier carrying anything other than ASCII letters/digits is a
// malformed-schema condition the generator refuses to paper over.
func assertAlphanumeric(s string) error {
	if s == "" {
		return errors.New("identifier must not be empty")
	}
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		default:
			return errors.Errorf("identifier %q is not alphanumeric", s)
		}
	}
	return nil
}

// capitalize upper-cases the first byte of s, leaving the rest untouched.
// It is idempotent on input that is already capitalized.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-('a'-'A')) + s[1:]
	}
	return s
}

// snakeCase implements spec §4.3.1's fooBarBaz -> foo_bar_baz conversion:
// an uppercase ASCII letter introduces an underscore and is then
// lowercased. Ported directly from codegen.rs's camel_to_snake_case.
func snakeCase(s string) (string, error) {
	if err := assertAlphanumeric(s); err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, c := range s {
		if c >= 'A' && c <= 'Z' {
			b.WriteByte('_')
			b.WriteRune(c - 'A' + 'a')
		} else {
			b.WriteRune(c)
		}
	}
	return b.String(), nil
}

// upperSnakeCase implements fooBarBaz -> FOO_BAR_BAZ, ported from
// codegen.rs's camel_to_upper_case.
func upperSnakeCase(s string) (string, error) {
	if err := assertAlphanumeric(s); err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, c := range s {
		switch {
		case c >= 'A' && c <= 'Z':
			b.WriteByte('_')
			b.WriteRune(c)
		case c >= 'a' && c <= 'z':
			b.WriteRune(c - 'a' + 'A')
		default:
			b.WriteRune(c)
		}
	}
	return b.String(), nil
}

// goAccessorName renders the Go-idiomatic PascalCase accessor name for a
// schema field, applying the reserved-identifier suffix the teacher's
// renameIdents table enforces for its own (unsplit) generated type.
func goAccessorName(fieldName string) string {
	name := capitalize(fieldName)
	if reservedAccessorNames[name] {
		return name + "_"
	}
	return name
}

// flattenScope renders a fully qualified scope path (spec §3's ordered
// name segments) as a single Go identifier, the way the teacher's
// resolveName flattens nested capnp modules into underscore-joined
// exported Go names within one package per file
// (base + "_" + name, see nodes.go resolveName). The file-root segment
// (always "<stem>_capnp" or an import's absolute form) is dropped: it is
// the package, not part of any identifier inside it.
func flattenScope(path []string) string {
	if len(path) <= 1 {
		return ""
	}
	return strings.Join(path[1:], "_")
}
