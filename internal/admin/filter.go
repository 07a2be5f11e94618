package admin

import "github.com/WailSalutem-Health-Care/care-portal/internal/entity"

// FilterRecords keeps the records whose name or email contains term,
// ignoring case. The input is not modified.
func FilterRecords(records []entity.Record, term string) []entity.Record {
	out := make([]entity.Record, 0, len(records))
	for _, rec := range records {
		if rec.Matches(term) {
			out = append(out, rec)
		}
	}
	return out
}

// Rows renders records for a tab.
func Rows(tab Tab, records []entity.Record) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		id, _ := rec.ID(tab.Kind())
		rows = append(rows, Row{
			ID:     id,
			Name:   rec.Name(),
			Email:  rec.Email(),
			Info:   rec.Info(),
			Record: rec,
		})
	}
	return rows
}
