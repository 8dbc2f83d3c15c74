package form

import (
	"errors"
	"testing"

	"docsmith/internal/domain"
)

func TestStatisticListCapsAtTen(t *testing.T) {
	list := NewStatisticList()
	for i := 0; i < domain.MaxStatistics; i++ {
		if _, err := list.Add(); err != nil {
			t.Fatalf("Add %d failed: %v", i+1, err)
		}
	}
	if _, err := list.Add(); !errors.Is(err, domain.ErrStatisticLimit) {
		t.Fatalf("expected ErrStatisticLimit on 11th entry, got %v", err)
	}
	if got := list.Len(); got != domain.MaxStatistics {
		t.Fatalf("count changed after rejected add: %d", got)
	}
}

func TestStatisticListUpdateKeepsID(t *testing.T) {
	list := NewStatisticList()
	id, err := list.Add()
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	ok := list.Update(id, func(s *domain.Statistic) {
		s.Name = "Revenue"
		s.Value = 12.5
		s.Unit = "M"
		s.Visualization = domain.VisualizationLine
		s.ID = "tampered"
	})
	if !ok {
		t.Fatalf("Update reported unknown id")
	}
	entries := list.Materialize()
	if entries[0].ID != id {
		t.Fatalf("entry id changed across edit: %s", entries[0].ID)
	}
	if entries[0].Name != "Revenue" || entries[0].Value != 12.5 {
		t.Fatalf("edit not applied: %+v", entries[0])
	}
}

func TestStatisticListRemovePreservesOrder(t *testing.T) {
	list := NewStatisticList()
	var ids []string
	for i := 0; i < 3; i++ {
		id, err := list.Add()
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		ids = append(ids, id)
	}
	if !list.Remove(ids[1]) {
		t.Fatalf("Remove reported unknown id")
	}
	entries := list.Materialize()
	if len(entries) != 2 || entries[0].ID != ids[0] || entries[1].ID != ids[2] {
		t.Fatalf("unexpected order after remove: %+v", entries)
	}
	if list.Remove("missing") {
		t.Fatalf("Remove succeeded for unknown id")
	}
}

func TestStatisticListMaterializeCopies(t *testing.T) {
	list := NewStatisticList()
	if _, err := list.Add(); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	snapshot := list.Materialize()
	snapshot[0].Name = "mutated"
	if list.Materialize()[0].Name == "mutated" {
		t.Fatalf("Materialize must return a copy")
	}
}

func TestThemePicker(t *testing.T) {
	picker := NewThemePicker()
	if got := picker.Materialize(); got != domain.DefaultTheme() {
		t.Fatalf("picker must start on default theme, got %+v", got)
	}
	name := domain.Themes()[2].Name
	if err := picker.Select(name); err != nil {
		t.Fatalf("Select(%q) failed: %v", name, err)
	}
	if got := picker.Materialize().Name; got != name {
		t.Fatalf("selected theme mismatch: %s", got)
	}
	if err := picker.Select("nope"); !errors.Is(err, domain.ErrUnknownTheme) {
		t.Fatalf("expected ErrUnknownTheme, got %v", err)
	}
	if got := picker.Materialize().Name; got != name {
		t.Fatalf("failed select must not change the current theme: %s", got)
	}
}
