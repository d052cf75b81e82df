package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/surveykeeper/internal/server/session"
	"github.com/dmitrijs2005/surveykeeper/internal/survey"
)

// Submit asks every field of the schema in order, then the comment.
func (a *App) Submit(ctx context.Context) error {
	if a.controller.Screen(a.state) != session.ScreenSurvey {
		// Not logged in or already voted: let the controller say which.
		a.printOutcome(a.controller.Submit(ctx, a.state, nil))
		return nil
	}

	schema := a.controller.Schema()
	raw := make(map[string]string, len(schema.Fields)+1)

	group := ""
	for _, f := range schema.Fields {
		if f.Group != "" && f.Group != group {
			group = f.Group
			fmt.Fprintf(a.out, "-- %s --\n", group)
		}

		var (
			v   string
			err error
		)
		switch f.Type {
		case survey.FieldChoice:
			v, err = a.choose(f.Label, f.Options)
		case survey.FieldSlider:
			v, err = a.ask(fmt.Sprintf("%s [%d-%d, Entrée = %d]", f.Label, f.Min, f.Max, f.Default))
			if v == "" {
				v = fmt.Sprint(f.Default)
			}
		}
		if err != nil {
			return err
		}
		raw[f.Name] = v
	}

	comment, err := a.ask(schema.Comment.Label)
	if err != nil {
		return err
	}
	raw[schema.Comment.Name] = comment

	a.printOutcome(a.controller.Submit(ctx, a.state, raw))
	return nil
}

func (a *App) Results(ctx context.Context) error {
	sum, err := a.controller.Results(ctx, a.state)
	if err != nil {
		return err
	}
	printSummary(a.out, sum)
	return nil
}

func printSummary(w io.Writer, sum *survey.Summary) {
	fmt.Fprintf(w, "%s (%d réponses)\n", sum.Title, sum.Total)
	for _, c := range sum.Counts {
		fmt.Fprintf(w, "  %-12s %3d  %5.1f%%  %s\n", c.Label, c.Count, c.Percent, strings.Repeat("#", int(c.Percent/5)))
	}

	for _, ax := range sum.Axes {
		mine := "-"
		if ax.Mine != nil {
			mine = fmt.Sprintf("%.0f", *ax.Mine)
		}
		fmt.Fprintf(w, "  %-28s moyenne %6.2f  vous %s\n", ax.Label, ax.Average, mine)
	}
}
