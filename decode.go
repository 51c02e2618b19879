package retrodisasm

// Decode walks the instruction set's trie against word, accumulating the
// cumulative opcode mask consulted along the path (cum), and returns the
// matched instruction template. ok is false when no trie path matches,
// meaning word is not a recognized instruction.
//
// A Branch node accumulates its own mask into the running total and
// recurses into the child keyed by w&mask; a Leaf stops the walk.
func Decode(word Word, is *InstructionSet) (mnemonic string, tmpl *InstrTemplate, cum Bitmask, ok bool) {
	node := is.Root
	for {
		if node == nil {
			return "", nil, cum, false
		}
		if node.IsLeaf {
			return node.Leaf.Mnemonic, node.Leaf, cum, true
		}

		cum |= node.Mask
		key := word & node.Mask
		child, found := node.Children[key]
		if !found {
			return "", nil, cum, false
		}
		node = child
	}
}

// DecodedField is one formatted operand produced from a field template
// against a specific word and instruction index.
type DecodedField struct {
	Kind  FieldKind
	Value Word   // post-ops minimized value, before FieldKind interpretation
	Text  string // rendered operand text
}

// DecodeFields extracts and renders every field of tmpl against word, read
// at instruction index idx. Branch field kinds are not resolved to a target
// here: their Text is the hex of the post-ops value, and idx does not
// affect the result (Disassemble renders branch operands itself).
func DecodeFields(word Word, idx uint64, tmpl *InstrTemplate) []DecodedField {
	out := make([]DecodedField, 0, len(tmpl.Fields))
	for _, ft := range tmpl.Fields {
		minimized, _ := Minimize(word, ft.Mask)
		v := ApplyOps(minimized, ft.Ops)
		out = append(out, DecodedField{
			Kind:  ft.Kind,
			Value: v,
			Text:  formatField(ft, v, idx),
		})
	}
	return out
}

// UncoveredMask returns the bits of word not consulted by the trie walk
// (cum) nor claimed by any of tmpl's fields. The emitter renders these, if
// nonzero, as a trailing hex tail.
func UncoveredMask(cum Bitmask, tmpl *InstrTemplate, wordMask Bitmask) Bitmask {
	covered := cum
	for _, ft := range tmpl.Fields {
		covered |= ft.Mask
	}
	return wordMask &^ covered
}

// branchTarget computes the absolute instruction index a branch field
// refers to, per its FieldKind. ok is false when the computed target would
// underflow idx; the caller reports this as a BranchUnderflowError rather
// than silently clamping it.
func branchTarget(kind FieldKind, v Word, width uint, idx uint64) (target uint64, ok bool) {
	switch kind {
	case FieldUbranch:
		if v > idx {
			return 0, false
		}
		return idx - v, true
	case FieldDbranch:
		return idx + v, true
	case FieldIbranch:
		signed := TwosComplement(v, width)
		if signed < 0 {
			d := uint64(-signed)
			if d > idx {
				return 0, false
			}
			return idx - d, true
		}
		return idx + uint64(signed), true
	case FieldSbranch:
		return v, true
	default:
		return 0, false
	}
}

// formatField renders a non-branch field's value. Branch kinds always
// render as a "label_0x<hex>" operand and additionally mutate the shared
// BranchSet, so Disassemble (emit.go) renders them directly rather than
// through this helper.
func formatField(ft FieldTemplate, v Word, idx uint64) string {
	_, width := Minimize(^Word(0), ft.Mask) // popcount(mask); value side unused
	switch ft.Kind {
	case FieldAddr:
		return formatHex(v)
	case FieldUint:
		return formatUint(v)
	case FieldSint:
		return formatInt(TwosComplement(v, width))
	case FieldBin:
		return formatBin(v, width)
	case FieldIgnore:
		return ""
	default:
		return formatHex(v)
	}
}
