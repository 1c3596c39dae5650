package sqlite

import "database/sql"

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull stores "" as NULL
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// blobToNull stores an empty blob as NULL so it scans back as nil.
func blobToNull(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
