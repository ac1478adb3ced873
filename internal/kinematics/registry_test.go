package kinematics

import (
	"errors"
	"testing"

	"github.com/piwi3910/dh-calculator/internal/symbolic"
)

func TestChainNamingSequence(t *testing.T) {
	r := NewRegistry(ChainNaming)
	r.Add()
	r.Add()
	r.Add()
	want := []string{"T01", "T12", "T23"}
	got := r.Names()
	if len(got) != len(want) {
		t.Fatalf("names = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("name[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestFreeNamingSequence(t *testing.T) {
	r := NewRegistry(FreeNaming)
	r.Add()
	r.Add()
	names := r.Names()
	if names[0] != "M0" || names[1] != "M1" {
		t.Errorf("names = %v", names)
	}
}

func TestAddSeedsIdentity(t *testing.T) {
	r := NewRegistry(ChainNaming)
	i := r.Add()
	m, err := r.Get(i)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Equal(symbolic.Identity(4)) {
		t.Errorf("placeholder = %s", m)
	}
}

func TestDeleteRenumbers(t *testing.T) {
	r := NewRegistry(ChainNaming)
	r.Add()
	r.Add()
	r.Add()
	marker := symbolic.Identity(4)
	marker.Set(0, 3, symbolic.S("x"))
	if err := r.Set(2, marker, nil); err != nil {
		t.Fatal(err)
	}
	if err := r.Delete(0); err != nil {
		t.Fatal(err)
	}
	names := r.Names()
	if names[0] != "T01" || names[1] != "T12" {
		t.Errorf("names after delete = %v", names)
	}
	// The surviving matrix moved up with its entry.
	m, err := r.Get(1)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Equal(marker) {
		t.Error("matrix did not follow its entry through renumbering")
	}
}

func TestIDSurvivesRenumbering(t *testing.T) {
	r := NewRegistry(ChainNaming)
	r.Add()
	r.Add()
	id, err := r.ID(1)
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("empty entry id")
	}
	if err := r.Delete(0); err != nil {
		t.Fatal(err)
	}
	moved, err := r.ID(0)
	if err != nil {
		t.Fatal(err)
	}
	if moved != id {
		t.Errorf("id changed across delete: %s -> %s", id, moved)
	}
}

func TestIndexOfTracksEntryAcrossDelete(t *testing.T) {
	r := NewRegistry(ChainNaming)
	r.Add()
	r.Add()
	r.Add()
	id, err := r.ID(2)
	if err != nil {
		t.Fatal(err)
	}
	if got := r.IndexOf(id); got != 2 {
		t.Fatalf("IndexOf before delete = %d, want 2", got)
	}
	if err := r.Delete(0); err != nil {
		t.Fatal(err)
	}
	if got := r.IndexOf(id); got != 1 {
		t.Errorf("IndexOf after delete = %d, want 1", got)
	}
	deleted, _ := r.ID(0)
	if err := r.Delete(0); err != nil {
		t.Fatal(err)
	}
	if got := r.IndexOf(deleted); got != -1 {
		t.Errorf("IndexOf on deleted id = %d, want -1", got)
	}
}

func TestOutOfRangeAccess(t *testing.T) {
	r := NewRegistry(ChainNaming)
	r.Add()
	for _, idx := range []int{-1, 1, 5} {
		_, err := r.Get(idx)
		var indexErr *IndexError
		if !errors.As(err, &indexErr) {
			t.Errorf("Get(%d): want IndexError, got %v", idx, err)
		}
	}
	if err := r.Delete(3); err == nil {
		t.Error("Delete out of range should fail")
	}
	if err := r.Set(9, symbolic.Identity(4), nil); err == nil {
		t.Error("Set out of range should fail")
	}
}

func TestFailedSetLeavesEntryUnchanged(t *testing.T) {
	r := NewRegistry(ChainNaming)
	r.Add()
	before, _ := r.Get(0)
	if err := r.Set(1, symbolic.NewMatrix(4, 4), nil); err == nil {
		t.Fatal("expected index error")
	}
	after, _ := r.Get(0)
	if !before.Equal(after) {
		t.Error("failed set modified an existing entry")
	}
}

func TestResetClearsEverything(t *testing.T) {
	r := NewRegistry(FreeNaming)
	r.Add()
	r.Add()
	r.Reset()
	if r.Len() != 0 {
		t.Errorf("len after reset = %d", r.Len())
	}
	r.Add()
	if name, _ := r.Name(0); name != "M0" {
		t.Errorf("numbering should restart at M0, got %s", name)
	}
}

func TestLookupByName(t *testing.T) {
	r := NewRegistry(ChainNaming)
	r.Add()
	if _, ok := r.Lookup("T01"); !ok {
		t.Error("T01 should resolve")
	}
	if _, ok := r.Lookup("T99"); ok {
		t.Error("T99 should not resolve")
	}
}

func TestParamsRecorded(t *testing.T) {
	r := NewRegistry(ChainNaming)
	r.Add()
	p := &JointParams{Alpha: "0", A: "a1", D: "0", Theta: "t1"}
	if err := r.Set(0, symbolic.Identity(4), p); err != nil {
		t.Fatal(err)
	}
	got, err := r.Params(0)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Theta != "t1" {
		t.Errorf("params = %+v", got)
	}
}
