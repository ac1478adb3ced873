package kinematics

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/piwi3910/dh-calculator/internal/symbolic"
)

// Naming selects how registry entries are displayed.
type Naming int

const (
	// ChainNaming labels entries T01, T12, ... as consecutive frame
	// transforms of a kinematic chain.
	ChainNaming Naming = iota
	// FreeNaming labels entries M0, M1, ... as standalone matrices.
	FreeNaming
)

// IndexError reports an out-of-range registry access.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("matrix index %d out of range (have %d)", e.Index, e.Len)
}

type entry struct {
	id     string
	name   string
	matrix *symbolic.Matrix
	params *JointParams
}

// Registry is an ordered store of named matrices. Names are positional
// and recomputed whenever the order changes, so after a delete the
// remaining entries close ranks with no gap in the numbering.
type Registry struct {
	naming  Naming
	entries []*entry
}

func NewRegistry(naming Naming) *Registry {
	return &Registry{naming: naming}
}

// Add appends an identity placeholder and returns its index.
func (r *Registry) Add() int {
	r.entries = append(r.entries, &entry{
		id:     uuid.New().String()[:8],
		matrix: symbolic.Identity(4),
	})
	r.renumber()
	return len(r.entries) - 1
}

// AddMatrix appends a ready matrix and returns its index.
func (r *Registry) AddMatrix(m *symbolic.Matrix) int {
	i := r.Add()
	r.entries[i].matrix = m
	return i
}

// Set replaces the matrix at index. params, when non-nil, records the
// source DH parameters the matrix was built from.
func (r *Registry) Set(index int, m *symbolic.Matrix, params *JointParams) error {
	if index < 0 || index >= len(r.entries) {
		return &IndexError{Index: index, Len: len(r.entries)}
	}
	r.entries[index].matrix = m
	r.entries[index].params = params
	return nil
}

// Get returns the matrix at index.
func (r *Registry) Get(index int) (*symbolic.Matrix, error) {
	if index < 0 || index >= len(r.entries) {
		return nil, &IndexError{Index: index, Len: len(r.entries)}
	}
	return r.entries[index].matrix, nil
}

// Params returns the source DH parameters recorded at index, which may
// be nil for matrices not built from a DH row.
func (r *Registry) Params(index int) (*JointParams, error) {
	if index < 0 || index >= len(r.entries) {
		return nil, &IndexError{Index: index, Len: len(r.entries)}
	}
	return r.entries[index].params, nil
}

// ID returns the stable identity of the entry at index, independent of
// its positional display name.
func (r *Registry) ID(index int) (string, error) {
	if index < 0 || index >= len(r.entries) {
		return "", &IndexError{Index: index, Len: len(r.entries)}
	}
	return r.entries[index].id, nil
}

// IndexOf returns the current index of the entry with the given ID, or
// -1 when no entry has it. Indices shift on delete, so callers holding
// a reference across edits resolve it here rather than caching the
// position.
func (r *Registry) IndexOf(id string) int {
	for i, e := range r.entries {
		if e.id == id {
			return i
		}
	}
	return -1
}

// Delete removes the entry at index and renumbers the rest.
func (r *Registry) Delete(index int) error {
	if index < 0 || index >= len(r.entries) {
		return &IndexError{Index: index, Len: len(r.entries)}
	}
	r.entries = append(r.entries[:index], r.entries[index+1:]...)
	r.renumber()
	return nil
}

// Reset drops every entry.
func (r *Registry) Reset() {
	r.entries = nil
}

func (r *Registry) Len() int { return len(r.entries) }

// Name returns the positional display name of the entry at index.
func (r *Registry) Name(index int) (string, error) {
	if index < 0 || index >= len(r.entries) {
		return "", &IndexError{Index: index, Len: len(r.entries)}
	}
	return r.entries[index].name, nil
}

// Names returns the display names in order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.name
	}
	return out
}

// Lookup resolves a display name to its matrix.
func (r *Registry) Lookup(name string) (*symbolic.Matrix, bool) {
	for _, e := range r.entries {
		if e.name == name {
			return e.matrix, true
		}
	}
	return nil, false
}

// Matrices returns the stored matrices in order.
func (r *Registry) Matrices() []*symbolic.Matrix {
	out := make([]*symbolic.Matrix, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.matrix
	}
	return out
}

// renumber recomputes every display name from the entry's position.
// It is the only place names are assigned.
func (r *Registry) renumber() {
	for i, e := range r.entries {
		switch r.naming {
		case ChainNaming:
			e.name = fmt.Sprintf("T%d%d", i, i+1)
		default:
			e.name = fmt.Sprintf("M%d", i)
		}
	}
}
