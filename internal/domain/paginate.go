package domain

// Row is a reading with its 1-based sequence number inside a month.
type Row struct {
	Seq int `json:"seq"`
	Reading
}

// Page is one physical table page: a left column and a right column of up
// to rowsPerHalfPage rows each. Right may be shorter than Left or empty.
type Page struct {
	Number int   `json:"number"`
	Left   []Row `json:"left"`
	Right  []Row `json:"right"`
}

// NumberRows assigns sequence numbers 1..n in the given order.
func NumberRows(readings []Reading) []Row {
	rows := make([]Row, len(readings))
	for i, r := range readings {
		rows[i] = Row{Seq: i + 1, Reading: r}
	}
	return rows
}

// PlanPages splits rows into pages of two columns. The page count is
// ceil(len(rows) / (2*rowsPerHalfPage)). Columns are sub-slices of rows.
func PlanPages(rows []Row, rowsPerHalfPage int) ([]Page, error) {
	if rowsPerHalfPage <= 0 {
		return nil, ErrInvalidPageCapacity
	}

	perPage := 2 * rowsPerHalfPage
	pages := make([]Page, 0, (len(rows)+perPage-1)/perPage)
	for start := 0; start < len(rows); start += perPage {
		mid := min(start+rowsPerHalfPage, len(rows))
		end := min(start+perPage, len(rows))
		pages = append(pages, Page{
			Number: len(pages) + 1,
			Left:   rows[start:mid:mid],
			Right:  rows[mid:end:end],
		})
	}
	return pages, nil
}
