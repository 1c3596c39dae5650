package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/kawabatas/olympics-catalog/internal/app/usecase"
	"github.com/kawabatas/olympics-catalog/internal/domain/model"
)

const tabSpacing = 2

// kind binds one catalogue form to its table rendering.
type kind struct {
	header []string
	list   func(ctx context.Context) ([][]string, error)
	show   func(ctx context.Context, id int64) ([]string, bool, error)
	delete func(ctx context.Context, id int64) (usecase.Outcome, error)
}

func newKind[T model.Entity](f *usecase.Form[T], header []string, row func(T) []string) kind {
	return kind{
		header: header,
		list: func(ctx context.Context) ([][]string, error) {
			items, err := f.Load(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([][]string, 0, len(items))
			for _, it := range items {
				rows = append(rows, row(it))
			}
			return rows, nil
		},
		show: func(ctx context.Context, id int64) ([]string, bool, error) {
			it, err := f.Get(ctx, id)
			if err != nil {
				return nil, false, err
			}
			sel := f.Select(ctx, it)
			return row(sel.Item), sel.Deletable, nil
		},
		delete: func(ctx context.Context, id int64) (usecase.Outcome, error) {
			it, err := f.Get(ctx, id)
			if err != nil {
				return usecase.Outcome{}, err
			}
			return f.Delete(ctx, it), nil
		},
	}
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

func kinds(c *usecase.Catalog) map[string]kind {
	return map[string]kind{
		"sports": newKind(c.Sports, []string{"ID", "NAME"}, func(s model.Sport) []string {
			return []string{id(s.ID), s.Name}
		}),
		"teams": newKind(c.Teams, []string{"ID", "NAME", "INITIALS"}, func(t model.Team) []string {
			return []string{id(t.ID), t.Name, t.Initials}
		}),
		"games": newKind(c.Games, []string{"ID", "NAME", "YEAR", "SEASON", "CITY"}, func(g model.Games) []string {
			return []string{id(g.ID), g.Name, strconv.Itoa(g.Year), string(g.Season), g.City}
		}),
		"athletes": newKind(c.Athletes, []string{"ID", "NAME", "SEX", "WEIGHT", "HEIGHT", "PHOTO"}, func(a model.Athlete) []string {
			photo := "-"
			if a.HasPhoto() {
				photo = strconv.Itoa(len(a.Photo)) + "B"
			}
			return []string{id(a.ID), a.Name, string(a.Sex), strconv.Itoa(a.Weight), strconv.Itoa(a.Height), photo}
		}),
		"events": newKind(c.Events, []string{"ID", "NAME", "GAMES_ID", "SPORT_ID"}, func(e model.Event) []string {
			return []string{id(e.ID), e.Name, id(e.GamesID), id(e.SportID)}
		}),
	}
}

func lookupKind(c *usecase.Catalog, name string) (kind, error) {
	all := kinds(c)
	k, ok := all[strings.ToLower(name)]
	if !ok {
		names := make([]string, 0, len(all))
		for n := range all {
			names = append(names, n)
		}
		sort.Strings(names)
		return kind{}, fmt.Errorf("unknown kind %q (want one of %s)", name, strings.Join(names, ", "))
	}
	return k, nil
}

func writeTable(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabSpacing, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}

func parseID(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return v, nil
}
