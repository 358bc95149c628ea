package schedule

import "time"

const (
	GridRows = 6
	GridCols = 7
)

// MonthGrid is a Sunday-first calendar matrix. Zero cells are empty.
type MonthGrid [GridRows][GridCols]int

// BuildMonthGrid lays out the days of the given month in a fixed 6x7 matrix.
// The first row is front-padded up to the weekday of the 1st; cells after the
// last day stay empty, so short months end with one or two blank rows.
func BuildMonthGrid(year int, month time.Month) MonthGrid {
	var grid MonthGrid

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := int(first.Weekday())
	days := DaysInMonth(year, month)

	for day := 1; day <= days; day++ {
		pos := offset + day - 1
		grid[pos/GridCols][pos%GridCols] = day
	}

	return grid
}

// DaysInMonth returns the number of days in month of year
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the following month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Cells counts the non-empty cells
func (g MonthGrid) Cells() int {
	count := 0
	for _, row := range g {
		for _, day := range row {
			if day != 0 {
				count++
			}
		}
	}
	return count
}

// Position returns the row and column holding day
func (g MonthGrid) Position(day int) (row, col int, ok bool) {
	for r, cells := range g {
		for c, d := range cells {
			if d == day && day != 0 {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// TrimmedRows returns the grid without its trailing all-empty rows
func (g MonthGrid) TrimmedRows() [][GridCols]int {
	last := GridRows
	for last > 0 && g[last-1] == [GridCols]int{} {
		last--
	}
	rows := make([][GridCols]int, last)
	copy(rows, g[:last])
	return rows
}
