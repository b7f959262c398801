package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// column describes one table column. Numeric columns are right aligned.
type column struct {
	Title   string
	Numeric bool
}

func columns(titles ...string) []column {
	out := make([]column, len(titles))
	for i, title := range titles {
		out[i] = column{Title: title}
	}
	return out
}

func numeric(title string) column { return column{Title: title, Numeric: true} }

// renderTable lays rows out under cols. Short rows are padded and long rows
// are cut to the column count. A non-nil footer is rendered below a rule.
func renderTable(cols []column, rows [][]string, footer []string) string {
	if len(cols) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(fitRow(len(cols), func(i int) string { return cols[i].Title }))
	for _, row := range rows {
		tw.AppendRow(fitRow(len(cols), cellAt(row)))
	}
	if footer != nil {
		tw.AppendFooter(fitRow(len(cols), cellAt(footer)))
	}

	configs := make([]table.ColumnConfig, len(cols))
	for i, col := range cols {
		align := text.AlignLeft
		if col.Numeric {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{
			Number:           i + 1,
			Align:            align,
			AlignFooter:      align,
			AlignHeader:      text.AlignLeft,
			WidthMax:         48,
			WidthMaxEnforcer: text.Trim,
		}
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func fitRow(width int, value func(int) string) table.Row {
	row := make(table.Row, width)
	for i := range width {
		row[i] = value(i)
	}
	return row
}

func cellAt(values []string) func(int) string {
	return func(i int) string {
		if i < len(values) {
			return values[i]
		}
		return ""
	}
}
