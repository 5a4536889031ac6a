package scene

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

// Render writes a plain-text rendering of sc.
func Render(w io.Writer, sc Scene) error {
	if sc.Kind != KindWeather || sc.Weather == nil {
		_, err := fmt.Fprintln(w, "Loading…")
		return err
	}

	ws := sc.Weather
	cur := ws.Current

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", cur.Location, cur.UpdatedLabel)
	fmt.Fprintf(&b, "%d°\n", cur.AverageTemperature)
	fmt.Fprintf(&b, " %s°  /  %s°\n", formatTemp(cur.DayLowTemperature), formatTemp(cur.DayHighTemperature))
	if cur.IsRefreshing {
		b.WriteString("(refreshing)\n")
	}
	if ws.LastError != "" {
		fmt.Fprintf(&b, "(last refresh failed: %s)\n", ws.LastError)
	}
	b.WriteString("\n")
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, day := range ws.Days {
		marker := " "
		if day.IsSelected {
			marker = ">"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d°\n", marker, day.DayName, day.Glyph, day.AverageTemperature)
	}
	return tw.Flush()
}

func formatTemp(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
