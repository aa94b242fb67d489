package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/maya-kin/internal/calendar"
	"github.com/zapponejosh/maya-kin/internal/cli/ui"
	"github.com/zapponejosh/maya-kin/internal/lookup"
	"github.com/zapponejosh/maya-kin/internal/table"
)

func newKinCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "kin <n>",
		Short: "show the matrix row for a KIN",
		Example: `  $ mayactl kin 164
  $ mayactl kin 260`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showKin(cmd.OutOrStdout(), a.svc, args[0])
		},
	}
}

func newBirthdayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "birthday <MM/DD|YYYY-MM-DD>",
		Short: "show the Maya birthday for a calendar date",
		Long: `Show every Maya birthday row for a month and day.

The year of a full date is ignored. Month and day may be written with or
without leading zeros.`,
		Example: `  $ mayactl birthday 07/26
  $ mayactl birthday 1987-7-26`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showBirthday(cmd.OutOrStdout(), a.svc, args[0])
		},
	}
}

func newCalcCmd(a *app) *cobra.Command {
	var secondHalf bool

	cmd := &cobra.Command{
		Use:   "calc <YYYY-MM-DD>",
		Short: "compute the KIN of a date",
		Long: `Compute the KIN of a date and show its matrix row when the matrix
table is loaded.

Day 29 can be split in two; --second-half selects the second half, whose
day count restarts at 1.`,
		Example: `  $ mayactl calc 2013-07-26
  $ mayactl calc 2016-02-29 --second-half`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showCalc(cmd.OutOrStdout(), a.svc, args[0], secondHalf)
		},
	}
	cmd.Flags().BoolVar(&secondHalf, "second-half", false, "use the second half of day 29")
	return cmd
}

func newTablesCmd(a *app) *cobra.Command {
	var preview int

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "list the loaded reference tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if preview < 0 {
				return fmt.Errorf("--preview must not be negative")
			}
			return showTables(cmd.OutOrStdout(), a.svc, preview)
		},
	}
	cmd.Flags().IntVarP(&preview, "preview", "p", 5, "rows to preview per table")
	return cmd
}

// showKin prints the matrix row for the KIN written in raw.
func showKin(w io.Writer, svc *lookup.Service, raw string) error {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid KIN %q: must be an integer", raw)
	}
	k, err := calendar.NewKin(n)
	if err != nil {
		return err
	}

	rec, err := svc.Kin(k)
	if err != nil {
		return err
	}

	body := ui.RenderFields(matrixColumns(svc), ui.Stringify(rec))
	fmt.Fprintln(w, ui.RenderKinCard(ui.KinHeadline(k.Int(), k.Tone(), k.Seal()), body))
	return nil
}

// showBirthday prints the birthday rows for the date written in raw.
func showBirthday(w io.Writer, svc *lookup.Service, raw string) error {
	month, day, ok := table.ParseMonthDay(raw)
	if !ok {
		return fmt.Errorf("invalid date %q: use MM/DD or YYYY-MM-DD", raw)
	}

	rows, err := svc.Birthdays(month, day)
	if err != nil {
		return err
	}
	key := table.MonthDayKey(month, day)
	if len(rows) == 0 {
		ui.PrintWarning(w, "no Maya birthday for %s", key)
		return nil
	}

	opts := svc.Options()
	label := opts.BirthdayLabelColumn
	if _, ok := rows[0][label]; ok {
		for _, row := range rows {
			ui.PrintSuccess(w, "%s  %s", key, row[label])
		}
	} else {
		ui.PrintWarning(w, "label column %q not found in table %q", label, opts.BirthdayTable)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.RenderTable(birthdayColumns(svc), toMaps(rows)))
	return nil
}

// showCalc prints the KIN of the date written in raw.
func showCalc(w io.Writer, svc *lookup.Service, raw string, secondHalf bool) error {
	date, err := calendar.ParseDateString(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid date %q: use YYYY-MM-DD", raw)
	}

	res, err := svc.KinForDate(calendar.KeyFromDate(date, secondHalf))
	if err != nil {
		return err
	}

	headline := ui.KinHeadline(res.Kin.Int(), res.Tone, res.Seal)
	body := ""
	if res.Record != nil {
		body = ui.RenderFields(matrixColumns(svc), ui.Stringify(res.Record))
	}
	fmt.Fprintf(w, "%s\n", calendar.FormatDate(date))
	fmt.Fprintln(w, ui.RenderKinCard(headline, body))
	return nil
}

// showTables prints every loaded table with up to preview rows.
func showTables(w io.Writer, svc *lookup.Service, preview int) error {
	summaries := svc.Tables()
	if len(summaries) == 0 {
		ui.PrintWarning(w, "no reference tables loaded")
		return nil
	}

	ui.PrintInfo(w, "%d tables loaded", len(summaries))
	for _, s := range summaries {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s %s\n",
			ui.Styles.Title.Render(s.Name),
			ui.Styles.Muted.Render(fmt.Sprintf("(%d rows × %d columns, %s)", s.Rows, len(s.Columns), s.Source)),
		)
		if preview == 0 {
			continue
		}

		t, err := svc.Table(s.Name)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, ui.RenderTable(t.Columns, toMaps(t.Head(preview))))
	}
	return nil
}

// matrixColumns returns the matrix table's column order, if loaded.
func matrixColumns(svc *lookup.Service) []string {
	t, err := svc.Table(svc.Options().MatrixTable)
	if err != nil {
		return nil
	}
	return t.Columns
}

func birthdayColumns(svc *lookup.Service) []string {
	t, err := svc.Table(svc.Options().BirthdayTable)
	if err != nil {
		return nil
	}
	return t.Columns
}

func toMaps(rows []table.Row) []map[string]string {
	out := make([]map[string]string, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}
