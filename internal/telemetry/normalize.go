package telemetry

// Normalize rewrites source headers onto canonical channel names using the
// alias table. For each canonical name the first source column whose header
// appears verbatim in the alias list is claimed; remaining columns pass
// through unchanged and are ignored by downstream numeric logic. Matching is
// exact-string only. The input table is not modified.
func Normalize(t *RawTable) *RawTable {
	columns := make([]string, len(t.Columns))
	copy(columns, t.Columns)

	claimed := make(map[int]bool, len(canonicalFields))
	for _, field := range canonicalFields {
		for i, header := range t.Columns {
			if claimed[i] || !containsExact(field.aliases, header) {
				continue
			}
			columns[i] = field.name
			claimed[i] = true
			break
		}
	}

	return &RawTable{Columns: columns, Rows: t.Rows}
}

func containsExact(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
