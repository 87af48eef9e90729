package codegen

import (
	"crypto/rand"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Separator splits secret names into prefix and components, e.g.
// "all_api_key" is prefix "all" plus components "api", "key".
const Separator = "_"

// acronyms are components rendered in full caps when they are not the
// leading component: api_url becomes apiURL, shopify_api_key shopifyAPIKey.
var acronyms = map[string]bool{
	"api": true,
	"url": true,
	"uri": true,
}

// Target is one generated source file.
type Target struct {
	Path  string
	Class string
}

// SourceUnit is a generated file: its output path and full text. Units are
// created fresh on every run; there is no incremental state.
type SourceUnit struct {
	Path string
	Text string
}

// entry is one secret retained after prefix filtering.
type entry struct {
	identifier string
	literal    []byte
}

// Generate turns a plaintext secret map into obfuscated Dart source.
//
// Only entries whose name starts with one of prefixes followed by the
// separator are retained; the prefix is stripped and the remainder is
// turned into a Dart identifier. Entries matching no prefix are dropped
// silently, and zero retained entries still produce a valid empty class.
// No plaintext value appears anywhere in the output.
func Generate(secrets map[string]string, prefixes []string, scope string) (string, error) {
	return generateClass(secrets, prefixes, scope, "Secrets")
}

// GenerateUnits runs Generate once per configured target.
func GenerateUnits(secrets map[string]string, prefixes []string, scope string, targets []Target) ([]SourceUnit, error) {
	units := make([]SourceUnit, 0, len(targets))
	for _, target := range targets {
		class := target.Class
		if class == "" {
			class = "Secrets"
		}
		text, err := generateClass(secrets, prefixes, scope, class)
		if err != nil {
			return nil, err
		}
		units = append(units, SourceUnit{Path: target.Path, Text: text})
	}
	return units, nil
}

func generateClass(secrets map[string]string, prefixes []string, scope, class string) (string, error) {
	entries, err := retain(secrets, prefixes)
	if err != nil {
		return "", err
	}
	return emitDart(entries, scope, class), nil
}

func retain(secrets map[string]string, prefixes []string) ([]entry, error) {
	names := make([]string, 0, len(secrets))
	for name := range secrets {
		names = append(names, name)
	}
	sort.Strings(names)

	seen := map[string]bool{}
	var entries []entry
	for _, name := range names {
		stripped, ok := stripPrefix(name, prefixes)
		if !ok {
			continue
		}
		identifier := Identifier(stripped)
		if identifier == "" || seen[identifier] {
			continue
		}
		seen[identifier] = true

		literal, err := Obfuscate([]byte(secrets[name]))
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry{identifier: identifier, literal: literal})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].identifier < entries[j].identifier })
	return entries, nil
}

func stripPrefix(name string, prefixes []string) (string, bool) {
	for _, prefix := range prefixes {
		if strings.HasPrefix(name, prefix+Separator) {
			return name[len(prefix)+len(Separator):], true
		}
	}
	return "", false
}

// Identifier derives a camelCase identifier from a stripped secret name.
// The leading component is lower-cased even when it is an acronym
// (api_url → apiURL); later components are upper-cased when they are
// acronyms and capitalized otherwise.
func Identifier(name string) string {
	var b strings.Builder
	first := true
	for _, component := range strings.Split(name, Separator) {
		if component == "" {
			continue
		}
		switch {
		case first:
			b.WriteString(strings.ToLower(component))
			first = false
		case acronyms[strings.ToLower(component)]:
			b.WriteString(strings.ToUpper(component))
		default:
			b.WriteString(strings.ToUpper(component[:1]))
			b.WriteString(component[1:])
		}
	}
	return b.String()
}

// Obfuscate masks a value with a fresh random key of the same length and
// returns masked ++ key, twice the value's length. Reconstruct reverses it.
func Obfuscate(value []byte) ([]byte, error) {
	key := make([]byte, len(value))
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("failed to generate obfuscation key: %w", err)
	}

	literal := make([]byte, 0, 2*len(value))
	for i, v := range value {
		literal = append(literal, v^key[i])
	}
	return append(literal, key...), nil
}

// Reconstruct splits a stored literal into two equal halves and XORs them,
// yielding the original bytes. Mirrors the logic emitted into generated
// accessors.
func Reconstruct(literal []byte) []byte {
	half := len(literal) / 2
	value := make([]byte, half)
	for i := 0; i < half; i++ {
		value[i] = literal[i] ^ literal[half+i]
	}
	return value
}
