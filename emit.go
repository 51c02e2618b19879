package retrodisasm

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

func formatHex(v Word) string {
	return fmt.Sprintf("0x%x", v)
}

func formatUint(v Word) string {
	return strconv.FormatUint(v, 10)
}

func formatInt(v Signed) string {
	return strconv.FormatInt(int64(v), 10)
}

func formatBin(v Word, width uint) string {
	s := strconv.FormatUint(v, 2)
	if uint(len(s)) < width {
		s = strings.Repeat("0", int(width)-len(s)) + s
	}
	return "0b" + s
}

func labelText(idx uint64) string {
	return fmt.Sprintf("label_%s:", formatHex(idx))
}

// Disassemble performs the emit pass: it drives wr from its current
// position (the caller must have already run CollectUpwardBranches and
// rewound it), decoding one instruction per line and writing the listing
// to out. labels carries the backward/absolute targets already discovered
// by the label pass; Disassemble mutates it in place as it discovers
// forward targets (FieldDbranch always, FieldSbranch and FieldIbranch when
// they point ahead), so a label line is still emitted when the emitter
// later reaches that index.
//
// diag receives non-fatal warnings (out-of-range branch targets, optional
// progress reports); it is never written to for anything that aborts the
// run.
func Disassemble(is *InstructionSet, wr *WordReader, labels BranchSet, out io.Writer, diag io.Writer, cfg *Config) error {
	wordMask := is.WordMask()

	for idx := uint64(0); idx < wr.Count; idx++ {
		if cfg.Progress.ReportIntervalWords > 0 && idx > 0 && idx%cfg.Progress.ReportIntervalWords == 0 {
			fmt.Fprintf(diag, "decoded %d/%d words\n", idx, wr.Count)
		}

		word, err := wr.Next()
		if err != nil {
			return &IOReadError{Index: idx, Cause: err}
		}

		if labels.Contains(idx) {
			if _, err := fmt.Fprintln(out, labelText(idx)); err != nil {
				return err
			}
			delete(labels, idx)
		}

		mnemonic, tmpl, cum, ok := Decode(word, is)
		if !ok {
			return &UnknownInstructionError{Index: idx, Word: word}
		}

		parts := make([]string, 0, len(tmpl.Fields)+2)
		parts = append(parts, mnemonic)

		for _, ft := range tmpl.Fields {
			if ft.Kind == FieldIgnore {
				continue
			}

			minimized, width := Minimize(word, ft.Mask)
			v := ApplyOps(minimized, ft.Ops)

			switch ft.Kind {
			case FieldUbranch, FieldDbranch, FieldIbranch, FieldSbranch:
				target, ok := branchTarget(ft.Kind, v, width, idx)
				if !ok {
					return &BranchUnderflowError{Index: idx, Delta: v}
				}

				inRange := target < wr.Count
				if !inRange {
					if !cfg.Disassembly.WarnOutOfRangeBranch {
						return fmt.Errorf("at %s: branch target %s is out of range", formatHex(idx), formatHex(target))
					}
					fmt.Fprintf(diag, "warning: at %s: branch target %s is out of range\n", formatHex(idx), formatHex(target))
				}

				// UBRANCH targets were already registered by the label
				// pass and only need emitting here; DBRANCH is always
				// forward and always inserted; IBRANCH inserts only its
				// forward case (the backward case was registered by the
				// label pass); SBRANCH inserts only when its target is at
				// or ahead of the current index (the strictly-behind case
				// was registered by the label pass). An out-of-range
				// target is never inserted, so a label line is never
				// written past the end of the binary.
				if inRange {
					switch ft.Kind {
					case FieldDbranch:
						labels.Insert(target)
					case FieldIbranch:
						if target > idx {
							labels.Insert(target)
						}
					case FieldSbranch:
						if target >= idx {
							labels.Insert(target)
						}
					}
				}

				parts = append(parts, "label_"+formatHex(target))
			case FieldAddr:
				parts = append(parts, formatHex(v+cfg.Disassembly.LoadAddr))
			default:
				parts = append(parts, formatField(ft, v, idx))
			}
		}

		if tail := UncoveredMask(cum, tmpl, wordMask); tail != 0 {
			tailVal, _ := Minimize(word, tail)
			parts = append(parts, formatHex(tailVal))
		}

		if _, err := fmt.Fprintln(out, strings.Join(parts, " ")); err != nil {
			return err
		}
	}

	return nil
}
