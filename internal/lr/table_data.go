package lr

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/dekarrin/rezi"

	"github.com/piilip/neon/internal/grammar"
)

// neonTable is the process-wide singleton built once at package init from
// grammar.Neon(), so every caller of NeonTable reuses the same precomputed
// table rather than rebuilding the automaton per module. It is also the
// value (de)serialized by SaveCache/LoadCache below.
var neonTable *Table

func init() {
	neonTable = BuildTable(Build(grammar.Neon()))
}

// NeonTable returns the precomputed ACTION/GOTO table for the Neon grammar.
func NeonTable() *Table {
	return neonTable
}

// MarshalBinary implements encoding.BinaryMarshaler over Table, using a
// hand-rolled length-prefixed binary encoding rather than a struct-tag
// reflection codec: each production, then each state's ACTION and GOTO
// rows, as flat integer records.
func (t *Table) MarshalBinary() ([]byte, error) {
	var data []byte

	data = appendInt(data, len(t.Grammar.Productions))
	for _, p := range t.Grammar.Productions {
		data = appendInt(data, int(p.Left))
		data = appendInt(data, len(p.Right))
		for _, s := range p.Right {
			data = appendInt(data, int(s))
		}
	}

	data = appendInt(data, len(t.Action))
	for i := range t.Action {
		data = appendInt(data, len(t.Action[i]))
		for sym, act := range t.Action[i] {
			data = appendInt(data, int(sym))
			data = appendInt(data, int(act.Type))
			data = appendInt(data, act.Shift)
			data = appendInt(data, act.Prod)
		}

		data = appendInt(data, len(t.Goto[i]))
		for sym, target := range t.Goto[i] {
			data = appendInt(data, int(sym))
			data = appendInt(data, target)
		}
	}

	return data, nil
}

// UnmarshalBinary rebuilds a Table from bytes produced by MarshalBinary. It
// reconstructs the grammar's FIRST/FOLLOW sets via grammar.New rather than
// serializing them, since they're cheaply derived from the production list.
func (t *Table) UnmarshalBinary(data []byte) error {
	var productions []grammar.Production

	prodCount, n, err := readInt(data)
	if err != nil {
		return fmt.Errorf("production count: %w", err)
	}
	data = data[n:]

	for i := 0; i < prodCount; i++ {
		left, n, err := readInt(data)
		if err != nil {
			return fmt.Errorf("production %d left: %w", i, err)
		}
		data = data[n:]

		rightLen, n, err := readInt(data)
		if err != nil {
			return fmt.Errorf("production %d right length: %w", i, err)
		}
		data = data[n:]

		right := make([]grammar.Symbol, rightLen)
		for j := 0; j < rightLen; j++ {
			s, n, err := readInt(data)
			if err != nil {
				return fmt.Errorf("production %d symbol %d: %w", i, j, err)
			}
			data = data[n:]
			right[j] = grammar.Symbol(s)
		}

		productions = append(productions, grammar.Production{Left: grammar.Symbol(left), Right: right})
	}

	t.Grammar = grammar.New(grammar.NTAugmentedStart, productions)

	stateCount, n, err := readInt(data)
	if err != nil {
		return fmt.Errorf("state count: %w", err)
	}
	data = data[n:]

	t.Action = make([]map[grammar.Symbol]Action, stateCount)
	t.Goto = make([]map[grammar.Symbol]int, stateCount)

	for i := 0; i < stateCount; i++ {
		actionCount, n, err := readInt(data)
		if err != nil {
			return fmt.Errorf("state %d action count: %w", i, err)
		}
		data = data[n:]

		t.Action[i] = map[grammar.Symbol]Action{}
		for j := 0; j < actionCount; j++ {
			sym, n, err := readInt(data)
			if err != nil {
				return err
			}
			data = data[n:]
			typ, n, err := readInt(data)
			if err != nil {
				return err
			}
			data = data[n:]
			shift, n, err := readInt(data)
			if err != nil {
				return err
			}
			data = data[n:]
			prod, n, err := readInt(data)
			if err != nil {
				return err
			}
			data = data[n:]

			t.Action[i][grammar.Symbol(sym)] = Action{Type: ActionType(typ), Shift: shift, Prod: prod}
		}

		gotoCount, n, err := readInt(data)
		if err != nil {
			return fmt.Errorf("state %d goto count: %w", i, err)
		}
		data = data[n:]

		t.Goto[i] = map[grammar.Symbol]int{}
		for j := 0; j < gotoCount; j++ {
			sym, n, err := readInt(data)
			if err != nil {
				return err
			}
			data = data[n:]
			target, n, err := readInt(data)
			if err != nil {
				return err
			}
			data = data[n:]

			t.Goto[i][grammar.Symbol(sym)] = target
		}
	}

	return nil
}

func appendInt(data []byte, i int) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(int64(i)))
	return append(data, buf...)
}

func readInt(data []byte) (int, int, error) {
	if len(data) < 8 {
		return 0, 0, fmt.Errorf("unexpected end of data")
	}
	return int(int64(binary.BigEndian.Uint64(data[:8]))), 8, nil
}

// SaveCache writes the precomputed Neon table to path using rezi's binary
// envelope around Table's hand-rolled MarshalBinary.
func SaveCache(path string) error {
	enc := rezi.EncBinary(neonTable)
	return os.WriteFile(path, enc, 0o644)
}

// LoadCache reads a table previously written by SaveCache, verifying that
// every byte of the file was consumed.
func LoadCache(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read table cache: %w", err)
	}

	t := &Table{}
	n, err := rezi.DecBinary(data, t)
	if err != nil {
		return nil, fmt.Errorf("decode table cache: %w", err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("table cache decode consumed %d/%d bytes", n, len(data))
	}
	return t, nil
}
