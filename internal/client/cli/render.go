package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/dmitrijs2005/cinecollection/internal/client/models"
)

const titleWidth = 40

func renderEntries(w io.Writer, entries []models.Entry) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tTYPE\tDIRECTOR\tYEAR")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.ID, truncate(e.Title, titleWidth), e.Type, e.Director, e.YearTime)
	}
	_ = tw.Flush()
}

func renderEntry(w io.Writer, e *models.Entry) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	row := func(k, v string) {
		if v != "" {
			fmt.Fprintf(tw, "%s:\t%s\n", k, v)
		}
	}
	row("ID", fmt.Sprint(e.ID))
	row("Title", e.Title)
	row("Type", e.Type)
	row("Director", e.Director)
	row("Budget", e.Budget)
	row("Location", e.Location)
	row("Duration", e.Duration)
	row("Year/Time", e.YearTime)
	row("Poster", e.PosterURL)
	if !e.CreatedAt.IsZero() {
		row("Added", e.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	_ = tw.Flush()
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
