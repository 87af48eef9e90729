package codegen

import (
	"fmt"
	"strings"
)

// emitDart renders one self-contained Dart unit. Each retained entry gets a
// private obfuscated literal and a public getter that reconstructs the
// value on access; nothing is decoded at load time. Entries are already in
// lexicographic order, so output is reproducible apart from the masks.
func emitDart(entries []entry, scope, class string) string {
	var b strings.Builder

	b.WriteString("// GENERATED CODE - do not modify by hand.\n")
	fmt.Fprintf(&b, "// Generated by kowhai for the %q environment.\n\n", scope)

	if len(entries) == 0 {
		fmt.Fprintf(&b, "class %s {\n", class)
		fmt.Fprintf(&b, "  %s._();\n", class)
		b.WriteString("}\n")
		return b.String()
	}

	b.WriteString("import 'dart:convert';\n\n")
	fmt.Fprintf(&b, "class %s {\n", class)
	fmt.Fprintf(&b, "  %s._();\n\n", class)

	for _, e := range entries {
		fmt.Fprintf(&b, "  static String get %s => _reveal(_%s);\n", e.identifier, e.identifier)
	}
	b.WriteString("\n")

	for _, e := range entries {
		fmt.Fprintf(&b, "  static const List<int> _%s = <int>[%s];\n", e.identifier, dartIntList(e.literal))
	}

	b.WriteString("\n")
	b.WriteString("  static String _reveal(List<int> data) {\n")
	b.WriteString("    final half = data.length ~/ 2;\n")
	b.WriteString("    final bytes = List<int>.generate(half, (i) => data[i] ^ data[half + i]);\n")
	b.WriteString("    return utf8.decode(bytes);\n")
	b.WriteString("  }\n")
	b.WriteString("}\n")

	return b.String()
}

func dartIntList(data []byte) string {
	parts := make([]string, len(data))
	for i, v := range data {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}
