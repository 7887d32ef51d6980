package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/cinecollection/internal/client/listing"
	"github.com/dmitrijs2005/cinecollection/internal/client/models"
	"github.com/dmitrijs2005/cinecollection/internal/filex"
)

// readImage is a seam for filex.ReadImage.
var readImage = filex.ReadImage

// List shows the first page for the current search term.
func (a *App) List(ctx context.Context) error {
	a.list.Start(ctx)
	a.list.Wait()
	return a.showPage(0)
}

// More loads and shows the next page.
func (a *App) More(ctx context.Context) error {
	before := len(a.list.Snapshot().Entries)
	if !a.list.LoadMore(ctx) {
		switch a.list.Snapshot().State {
		case listing.Exhausted:
			fmt.Fprintln(a.out, "All entries loaded")
		case listing.Loading:
			fmt.Fprintln(a.out, "Still loading, try again")
		default:
			fmt.Fprintln(a.out, "Slow down a little")
		}
		return nil
	}
	a.list.Wait()
	return a.showPage(before)
}

// Search restarts the listing with term; an empty term clears the filter.
func (a *App) Search(ctx context.Context, term string) error {
	a.list.Search(ctx, term)
	a.list.Wait()
	return a.showPage(0)
}

func (a *App) showPage(from int) error {
	s := a.list.Snapshot()
	if s.LastErr != nil {
		return s.LastErr
	}
	if from > len(s.Entries) {
		from = len(s.Entries)
	}
	if len(s.Entries) == 0 {
		if s.Search != "" {
			fmt.Fprintf(a.out, "No entries match %q\n", s.Search)
		} else {
			fmt.Fprintln(a.out, "Your collection is empty")
		}
		return nil
	}

	renderEntries(a.out, s.Entries[from:])
	footer := fmt.Sprintf("%d of %d entries", len(s.Entries), s.TotalEntries)
	if s.State == listing.Exhausted {
		footer += ", all loaded"
	} else {
		footer += ", type 'more' for the next page"
	}
	fmt.Fprintln(a.out, footer)
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := parseID("show", args)
	if err != nil {
		return err
	}
	e, err := a.api.GetEntry(ctx, id)
	if err != nil {
		return err
	}
	renderEntry(a.out, e)
	return nil
}

func (a *App) Add(ctx context.Context) error {
	in, err := a.promptEntry(models.EntryInput{})
	if err != nil {
		return err
	}
	e, err := a.api.CreateEntry(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added #%d %s\n", e.ID, e.Title)
	return nil
}

// Edit prompts for every field, keeping the current value on empty input.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := parseID("edit", args)
	if err != nil {
		return err
	}
	cur, err := a.api.GetEntry(ctx, id)
	if err != nil {
		return err
	}
	in, err := a.promptEntry(inputOf(cur))
	if err != nil {
		return err
	}
	e, err := a.api.UpdateEntry(ctx, id, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated #%d %s\n", e.ID, e.Title)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := parseID("delete", args)
	if err != nil {
		return err
	}
	if err := a.api.DeleteEntry(ctx, id); err != nil {
		return err
	}
	a.list.Remove(id)
	fmt.Fprintln(a.out, "Entry deleted successfully")
	return nil
}

// Poster uploads an image file to object storage and points the entry at it.
func (a *App) Poster(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: poster <id> <file>", errUsage)
	}
	id, err := parseID("poster", args[:1])
	if err != nil {
		return err
	}
	path, err := filex.ExpandHome(args[1])
	if err != nil {
		return err
	}
	data, contentType, err := readImage(path)
	if err != nil {
		return err
	}

	cur, err := a.api.GetEntry(ctx, id)
	if err != nil {
		return err
	}
	up, err := a.api.PosterUpload(ctx, contentType)
	if err != nil {
		return err
	}
	if err := a.api.UploadPoster(ctx, up, contentType, data); err != nil {
		return err
	}

	in := inputOf(cur)
	in.PosterURL = up.PosterURL
	if _, err := a.api.UpdateEntry(ctx, id, in); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Poster set for #%d: %s\n", id, up.PosterURL)
	return nil
}

func (a *App) promptEntry(cur models.EntryInput) (models.EntryInput, error) {
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Title", &cur.Title},
		{"Type (Movie or TV Show)", &cur.Type},
		{"Director", &cur.Director},
		{"Budget", &cur.Budget},
		{"Location", &cur.Location},
		{"Duration", &cur.Duration},
		{"Year / time", &cur.YearTime},
	}
	for _, f := range fields {
		v, err := getWithDefault(a.reader, f.prompt, *f.dst, a.out)
		if err != nil {
			return models.EntryInput{}, err
		}
		*f.dst = v
	}
	if t, ok := models.CanonicalType(cur.Type); ok {
		cur.Type = t
	}
	return cur, nil
}

func inputOf(e *models.Entry) models.EntryInput {
	return models.EntryInput{
		Title:     e.Title,
		Type:      e.Type,
		Director:  e.Director,
		Budget:    e.Budget,
		Location:  e.Location,
		Duration:  e.Duration,
		YearTime:  e.YearTime,
		PosterURL: e.PosterURL,
	}
}

func parseID(cmd string, args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: %s <id>", errUsage, cmd)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s <id>, id must be a positive number", errUsage, cmd)
	}
	return id, nil
}
