package symbols

import (
	"errors"
	"fmt"
	"slices"
)

// Validate checks structural invariants: parent/child backlinks, monotonic
// ids and consistency between scope tables and the symbol info map.
func (t *Tree) Validate() error {
	var errs []error
	if len(t.scopes) == 0 || t.scopes[0].Parent.IsValid() {
		errs = append(errs, errors.New("root scope missing or has a parent"))
	}
	for idx, s := range t.scopes {
		if int(s.ID) != idx {
			errs = append(errs, fmt.Errorf("scope at %d carries id %d", idx, s.ID))
		}
		if idx > 0 {
			if int(s.Parent) >= idx {
				errs = append(errs, fmt.Errorf("scope %d has parent %d allocated after it", idx, s.Parent))
				continue
			}
			if !slices.Contains(t.scopes[s.Parent].Children, s.ID) {
				errs = append(errs, fmt.Errorf("scope %d parent %d missing backlink", idx, s.Parent))
			}
		}
		for name, sym := range s.names {
			info, ok := t.info[Ref{Scope: s.ID, Symbol: sym}]
			if !ok {
				errs = append(errs, fmt.Errorf("symbol %q in scope %d has no info", name, idx))
				continue
			}
			if info.Name != name {
				errs = append(errs, fmt.Errorf("symbol %d named %q, table says %q", sym, info.Name, name))
			}
			if sym >= t.nextSymbol {
				errs = append(errs, fmt.Errorf("symbol %d beyond allocator %d", sym, t.nextSymbol))
			}
		}
	}
	if len(t.info) != int(t.nextSymbol)-1 {
		errs = append(errs, fmt.Errorf("%d symbol infos, %d allocated", len(t.info), t.nextSymbol-1))
	}
	return errors.Join(errs...)
}
