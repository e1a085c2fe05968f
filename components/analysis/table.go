package analysis

// TableRenderer resolves a table payload into a TableBlock.
type TableRenderer interface {
	BuildTable(headers []string, rows []TableRow) TableBlock
}

// BasicTableRenderer is the default table renderer: it normalizes nil
// payloads to empty slices so a missing table renders as an empty table
// instead of failing the tree.
type BasicTableRenderer struct{}

// BuildTable assembles the header row plus data rows.
func (BasicTableRenderer) BuildTable(headers []string, rows []TableRow) TableBlock {
	if headers == nil {
		headers = []string{}
	}
	if rows == nil {
		rows = []TableRow{}
	}
	return TableBlock{Headers: headers, Rows: rows}
}
