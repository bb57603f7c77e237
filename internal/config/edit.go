package config

import (
	"fmt"
	"slices"

	"gitconf/internal/config/configfile"
)

// EditOp is the kind of a pending change.
type EditOp int

const (
	OpSet EditOp = iota
	OpAdd
	OpDelete
	OpDeleteAll
)

func (op EditOp) String() string {
	switch op {
	case OpSet:
		return "set"
	case OpAdd:
		return "add"
	case OpDelete:
		return "delete"
	case OpDeleteAll:
		return "delete-all"
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// Edit is one mutation of a backend's entry list.
type Edit struct {
	Op    EditOp
	Key   string // canonical form
	Value string // unused by deletes
}

func (e Edit) String() string {
	if e.Op == OpDelete || e.Op == OpDeleteAll {
		return e.Op.String() + " " + e.Key
	}
	return fmt.Sprintf("%s %s = %s", e.Op, e.Key, e.Value)
}

func newEdit(op EditOp, key, value string) (Edit, error) {
	k, err := configfile.ParseKey(key)
	if err != nil {
		return Edit{}, err
	}
	return Edit{Op: op, Key: k.String(), Value: value}, nil
}

// apply returns entries with e applied. entries is not modified.
func (e Edit) apply(entries []configfile.Entry) ([]configfile.Entry, error) {
	k, err := configfile.ParseKey(e.Key)
	if err != nil {
		return nil, err
	}

	var idx []int
	for i, ent := range entries {
		if ent.Key == k {
			idx = append(idx, i)
		}
	}

	out := slices.Clone(entries)
	switch e.Op {
	case OpSet:
		switch len(idx) {
		case 0:
			return insert(out, configfile.Entry{Key: k, Value: e.Value}), nil
		case 1:
			out[idx[0]].Value = e.Value
			return out, nil
		default:
			return nil, fmt.Errorf("cannot set %s: %w (%d values)", e.Key, ErrMultivarAmbiguous, len(idx))
		}

	case OpAdd:
		return insert(out, configfile.Entry{Key: k, Value: e.Value}), nil

	case OpDelete:
		switch len(idx) {
		case 0:
			return nil, fmt.Errorf("cannot delete %s: %w", e.Key, ErrNotFound)
		case 1:
			return slices.Delete(out, idx[0], idx[0]+1), nil
		default:
			return nil, fmt.Errorf("cannot delete %s: %w: %w (%d values)", e.Key, ErrNotFound, ErrMultivarAmbiguous, len(idx))
		}

	case OpDeleteAll:
		if len(idx) == 0 {
			return nil, fmt.Errorf("cannot delete %s: %w", e.Key, ErrNotFound)
		}
		return slices.DeleteFunc(out, func(ent configfile.Entry) bool {
			return ent.Key == k
		}), nil
	}
	return nil, fmt.Errorf("unknown edit operation %v", e.Op)
}

// insert places ent after the last entry of its section so the section keeps
// a single header, or at the end when the section is new.
func insert(entries []configfile.Entry, ent configfile.Entry) []configfile.Entry {
	at := -1
	for i, e := range entries {
		if e.Key.Section == ent.Key.Section && e.Key.Subsection == ent.Key.Subsection {
			at = i
		}
	}
	if at < 0 {
		return append(entries, ent)
	}
	return slices.Insert(entries, at+1, ent)
}
