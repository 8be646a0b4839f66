package form

import "github.com/mamadbah2/damagelog/internal/domain/models"

// MaxRows caps the number of module rows on one submission.
const MaxRows = 10

// RowList is the ordered set of module rows. Once built through NewRowList or
// RowsFromEntries it always holds between 1 and MaxRows entries.
type RowList struct {
	rows []models.ModuleEntry
}

// NewRowList returns a list seeded with one blank row.
func NewRowList() *RowList {
	l := &RowList{}
	l.ClearAll()
	return l
}

// RowsFromEntries rebuilds a list from posted rows. Entries past MaxRows are
// dropped and an empty input yields one blank row.
func RowsFromEntries(entries []models.ModuleEntry) *RowList {
	l := &RowList{rows: make([]models.ModuleEntry, 0, MaxRows)}
	for _, e := range entries {
		if !l.Add(e) {
			break
		}
	}
	if l.Len() == 0 {
		l.ClearAll()
	}
	return l
}

// Len returns the current row count.
func (l *RowList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.rows)
}

// Rows returns a copy of the rows in insertion order.
func (l *RowList) Rows() []models.ModuleEntry {
	if l == nil {
		return nil
	}
	out := make([]models.ModuleEntry, len(l.rows))
	copy(out, l.rows)
	return out
}

// Add appends a row, blank unless a prefill is given. It is a no-op that
// returns false once the list holds MaxRows rows.
func (l *RowList) Add(prefill ...models.ModuleEntry) bool {
	if len(l.rows) >= MaxRows {
		return false
	}
	var entry models.ModuleEntry
	if len(prefill) > 0 {
		entry = prefill[0]
	}
	l.rows = append(l.rows, entry)
	return true
}

// Remove deletes the row at index i. The last remaining row cannot be removed.
func (l *RowList) Remove(i int) error {
	if i < 0 || i >= len(l.rows) {
		return ErrRowNotFound
	}
	if len(l.rows) <= 1 {
		return ErrMinimumRows
	}
	l.rows = append(l.rows[:i], l.rows[i+1:]...)
	return nil
}

// ClearAll resets the list to exactly one blank row.
func (l *RowList) ClearAll() {
	l.rows = make([]models.ModuleEntry, 1, MaxRows)
}

// CanAdd reports whether the add-row affordance should be shown.
func (l *RowList) CanAdd() bool {
	return l.Len() < MaxRows
}

// CanRemove reports whether per-row remove affordances should be shown.
func (l *RowList) CanRemove() bool {
	return l.Len() > 1
}
