package postgres

import (
	"github.com/jackc/pgx/v5/pgtype"
)

// Nullable column helpers. The schema allows NULL on most free-text
// columns; the domain treats absent as the empty string.

func textOrEmpty(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

func textOf(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func intOrZero(i pgtype.Int4) int {
	if !i.Valid {
		return 0
	}
	return int(i.Int32)
}

func stringsOrEmpty(a pgtype.FlatArray[pgtype.Text]) []string {
	if len(a) == 0 {
		return nil
	}
	out := make([]string, 0, len(a))
	for _, t := range a {
		out = append(out, textOrEmpty(t))
	}
	return out
}
