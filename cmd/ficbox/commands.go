package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/theLastOfCats/ficbox/internal/app"
	"github.com/theLastOfCats/ficbox/internal/catalog"
	"github.com/theLastOfCats/ficbox/internal/model"
	"github.com/theLastOfCats/ficbox/internal/recommend"
	"github.com/theLastOfCats/ficbox/internal/status"
)

type cli struct {
	components  *app.Components
	out         io.Writer
	revealDelay time.Duration
	rng         recommend.Rand
}

func (c *cli) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	query := fs.String("q", "", "search title, author and tags")
	rating := fs.String("rating", "", "G, T, M or E")
	pubStatus := fs.String("status", "", "completed or ongoing")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := catalog.Filter{
		Query:  *query,
		Rating: model.Rating(strings.ToUpper(*rating)),
		Status: model.PublicationStatus(*pubStatus),
	}
	if filter.Rating != "" && !filter.Rating.Valid() {
		return fmt.Errorf("unknown rating %q", *rating)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return fmt.Errorf("unknown publication status %q", *pubStatus)
	}

	fics, err := c.components.Catalog.Fics(ctx)
	if err != nil {
		return err
	}
	statuses := status.NewTracker(c.components.Store).Snapshot(ctx)

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tRATING\tKUDOS\tSTATUS")
	for _, f := range filter.Apply(fics) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n", f.ID, f.Title, f.Author, f.Rating, f.Stats.Kudos, statuses.Get(f.ID))
	}
	return tw.Flush()
}

// status prints the whole map, one fic's status, or sets it.
func (c *cli) status(ctx context.Context, args []string) error {
	tracker := status.NewTracker(c.components.Store)

	switch len(args) {
	case 0:
		snap := tracker.Snapshot(ctx)
		for _, id := range slices.Sorted(maps.Keys(snap)) {
			fmt.Fprintf(c.out, "%s\t%s\n", id, snap[id])
		}
		return nil
	case 1:
		fmt.Fprintln(c.out, tracker.Status(ctx, args[0]))
		return nil
	case 2:
		id := args[0]
		st, err := model.ParseReadingStatus(args[1])
		if err != nil {
			return err
		}
		fics, err := c.components.Catalog.Fics(ctx)
		if err != nil {
			return err
		}
		if _, ok := catalog.Find(fics, id); !ok {
			return fmt.Errorf("fic %q not found", id)
		}
		if err := tracker.Update(ctx, id, st); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s\t%s\n", id, st)
		return nil
	default:
		return fmt.Errorf("usage: ficbox status [id [status]]")
	}
}

func (c *cli) blindbox(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: ficbox blindbox fluff|angst|spicy")
	}
	mood, err := model.ParseMood(args[0])
	if err != nil {
		return err
	}

	fics, err := c.components.Catalog.Fics(ctx)
	if err != nil {
		return err
	}

	selector := recommend.NewSelector(c.components.Store, c.rng)
	fmt.Fprintln(c.out, "Opening the box...")
	fic, err := recommend.Reveal(ctx, c.revealDelay, func() *model.Fic {
		return selector.Pick(ctx, mood, fics)
	})
	if err != nil {
		return err
	}
	if fic == nil {
		fmt.Fprintln(c.out, "The box is empty. Nothing left to read for this mood.")
		return nil
	}

	fmt.Fprintf(c.out, "%s by %s [%s]\n", fic.Title, fic.Author, fic.Rating)
	if fic.Quote != "" {
		fmt.Fprintf(c.out, "  %q\n", fic.Quote)
	}
	fmt.Fprintf(c.out, "  %s\n", fic.OriginLink)
	return nil
}

func (c *cli) cache(ctx context.Context, args []string) error {
	if len(args) != 1 || args[0] != "clear" {
		return fmt.Errorf("usage: ficbox cache clear")
	}
	fics, err := c.components.Catalog.Refresh(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "cache reloaded with %d fics\n", len(fics))
	return nil
}
