package retrodisasm

import "sort"

// BranchSet is an ordered set of instruction-index branch targets,
// discovered across the two label-discovery sweeps. Go's standard library
// has no ordered-set container, so this wraps a map with a sort-on-read
// path: targets collect into a plain map and only get sorted when label
// text is actually needed.
type BranchSet map[uint64]struct{}

// Insert adds target to the set.
func (bs BranchSet) Insert(target uint64) {
	bs[target] = struct{}{}
}

// Contains reports whether target has been recorded as a branch target.
func (bs BranchSet) Contains(target uint64) bool {
	_, ok := bs[target]
	return ok
}

// Sorted returns every recorded target in ascending order.
func (bs BranchSet) Sorted() []uint64 {
	out := make([]uint64, 0, len(bs))
	for k := range bs {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CollectUpwardBranches performs the first label-discovery sweep: it
// decodes every word in wr and records the absolute instruction index of
// every FieldUbranch target, every FieldIbranch target at or behind the
// current index, and every FieldSbranch target strictly behind it — the
// backward cases a single forward emit sweep cannot discover on its own,
// since a label line has to be written before the emitter reaches that
// index.
//
// FieldDbranch targets are always at or ahead of the current index, so
// they are left for the emit pass to discover inline. FieldIbranch and
// FieldSbranch may point either way, so both passes check them. A
// FieldDbranch or FieldSbranch whose target equals its own index is not
// recorded here; the emit pass inserts it only after that index's label
// check, so no label line is written for it.
//
// wr is rewound on success so the caller can immediately begin the emit
// sweep; it is left at its current position on error.
func CollectUpwardBranches(wr *WordReader, is *InstructionSet) (BranchSet, error) {
	bs := make(BranchSet)

	for idx := uint64(0); idx < wr.Count; idx++ {
		word, err := wr.Next()
		if err != nil {
			return nil, &IOReadError{Index: idx, Cause: err}
		}

		_, tmpl, _, ok := Decode(word, is)
		if !ok {
			return nil, &UnknownInstructionError{Index: idx, Word: word}
		}

		for _, ft := range tmpl.Fields {
			minimized, width := Minimize(word, ft.Mask)
			v := ApplyOps(minimized, ft.Ops)

			switch ft.Kind {
			case FieldUbranch:
				if v > idx {
					return nil, &BranchUnderflowError{Index: idx, Delta: v}
				}
				bs.Insert(idx - v)
			case FieldSbranch:
				if v < idx {
					bs.Insert(v)
				}
			case FieldIbranch:
				signed := TwosComplement(v, width)
				if signed <= 0 {
					d := uint64(-signed)
					if d > idx {
						return nil, &BranchUnderflowError{Index: idx, Delta: v}
					}
					bs.Insert(idx - d)
				}
			}
		}
	}

	if err := wr.Rewind(); err != nil {
		return nil, &IORewindError{Cause: err}
	}
	return bs, nil
}
