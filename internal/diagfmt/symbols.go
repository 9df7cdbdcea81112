package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"ploy/internal/symbols"
)

// FormatScopes prints the scope tree, indented by depth.
func FormatScopes(w io.Writer, syms *symbols.Tree) error {
	var sb strings.Builder
	syms.Walk(func(s *symbols.Table, depth int) bool {
		name := s.Name
		if s.ID == symbols.RootScope {
			name = "<root>"
		}
		fmt.Fprintf(&sb, "%s%d %s [%s] %d symbol(s)\n", strings.Repeat("  ", depth), s.ID, name, s.Barrier, s.Len())
		return true
	})
	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatSymbols prints every symbol with its scope, declaring node and
// compile-time value.
func FormatSymbols(w io.Writer, syms *symbols.Tree) error {
	var sb strings.Builder
	syms.Walk(func(s *symbols.Table, _ int) bool {
		for _, id := range s.Symbols() {
			info, ok := syms.SymbolInfo(symbols.Ref{Scope: s.ID, Symbol: id})
			if !ok {
				continue
			}
			fmt.Fprintf(&sb, "%-24s %-8s decl=#%d", info.FQN, info.Ref, info.Decl)
			if info.Value != nil {
				sb.WriteString(" = " + info.Value.String())
			}
			sb.WriteByte('\n')
		}
		return true
	})
	_, err := io.WriteString(w, sb.String())
	return err
}
