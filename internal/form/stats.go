// Package form holds the input collectors feeding the submission workflow.
// Each collector owns its slice of the draft and exposes a Materialize method
// the orchestrator calls synchronously at submission time; nothing is pushed.
package form

import (
	"github.com/google/uuid"

	"docsmith/internal/domain"
)

// StatisticList collects the repeatable statistics entries. Entries keep a
// stable id across edits within a session and are mutated in place.
type StatisticList struct {
	entries []domain.Statistic
}

// NewStatisticList returns an empty collector.
func NewStatisticList() *StatisticList {
	return &StatisticList{}
}

// Add appends a new entry with placeholder values and returns its id. Adding
// beyond domain.MaxStatistics is refused; the count cap lives here so the
// validation pipeline never has to re-check it.
func (l *StatisticList) Add() (string, error) {
	if len(l.entries) >= domain.MaxStatistics {
		return "", domain.ErrStatisticLimit
	}
	entry := domain.Statistic{
		ID:            uuid.NewString(),
		Visualization: domain.VisualizationBar,
	}
	l.entries = append(l.entries, entry)
	return entry.ID, nil
}

// Update mutates the entry with the given id in place. Unknown ids are a
// no-op returning false.
func (l *StatisticList) Update(id string, fn func(*domain.Statistic)) bool {
	for i := range l.entries {
		if l.entries[i].ID == id {
			fn(&l.entries[i])
			l.entries[i].ID = id // ids are not editable
			return true
		}
	}
	return false
}

// Remove deletes the entry with the given id, preserving order of the rest.
func (l *StatisticList) Remove(id string) bool {
	for i := range l.entries {
		if l.entries[i].ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the current entry count.
func (l *StatisticList) Len() int {
	return len(l.entries)
}

// Materialize returns a defensive copy of the current entries in input order.
func (l *StatisticList) Materialize() []domain.Statistic {
	out := make([]domain.Statistic, len(l.entries))
	copy(out, l.entries)
	return out
}
