package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/fhop/bookclub/pkg/config"
	"github.com/fhop/bookclub/pkg/plan"
	"github.com/fhop/bookclub/pkg/store"
	"github.com/fhop/bookclub/pkg/tui"
)

const logFileName = "bookclub.log"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries everything a command needs.
type app struct {
	store   *store.Store
	plans   *plan.Cache
	cfg     *config.Config
	logger  *slog.Logger
	jsonOut bool
	now     func() time.Time
	out     io.Writer
}

func run(args []string) error {
	var dirFlag string
	var jsonOut bool

	flagSet := pflag.NewFlagSet("bookclub", pflag.ContinueOnError)
	flagSet.SetInterspersed(false)
	flagSet.StringVar(&dirFlag, "dir", "", "data directory (default: $BOOKCLUB_DIR or the platform data dir)")
	flagSet.BoolVar(&jsonOut, "json", false, "print machine-readable JSON")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	dataDir := getDataDir(dirFlag)
	cfg, err := config.Load(dataDir)
	if err != nil {
		return err
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}

	rest := flagSet.Args()

	// The TUI owns the terminal, so its logs go to a file.
	logOut := io.Writer(os.Stderr)
	if len(rest) == 0 {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return err
		}
		f, err := os.OpenFile(filepath.Join(dataDir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))

	s, err := store.NewStore(dataDir, logger)
	if err != nil {
		return err
	}

	a := &app{
		store:   s,
		plans:   plan.NewCache(nil),
		cfg:     cfg,
		logger:  logger,
		jsonOut: jsonOut,
		now:     time.Now,
		out:     os.Stdout,
	}

	if len(rest) == 0 {
		return a.runTUI()
	}
	return a.dispatch(rest[0], rest[1:])
}

func (a *app) dispatch(cmd string, args []string) error {
	switch cmd {
	case "plan":
		return a.cmdPlan(args)
	case "today":
		return a.cmdToday(args)
	case "done":
		return a.cmdMark("done", args, markDone)
	case "undo":
		return a.cmdMark("undo", args, markUndo)
	case "toggle":
		return a.cmdMark("toggle", args, markToggle)
	case "progress":
		return a.cmdProgress(args)
	case "reset":
		return a.cmdReset(args)
	default:
		return fmt.Errorf("unknown command: %s\nUsage: bookclub [plan|today|done|undo|toggle|progress|reset]", cmd)
	}
}

func getDataDir(dirFlag string) string {
	if dir := os.Getenv("BOOKCLUB_DIR"); dir != "" {
		return dir
	}
	if dirFlag != "" {
		return dirFlag
	}
	return store.DefaultDataDir()
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `bookclub: daily Bible reading plan for the book club.

With no command, opens the interactive tracker.

Usage:
  bookclub [flags] [command] [command flags]

Commands:
  plan      print the schedule, grouped by month
  today     show the reading scheduled for a date
  done ID   mark a reading done
  undo ID   mark a reading not done
  toggle ID flip a reading's done state
  progress  show completion per month
  reset     clear all progress for a plan

Command flags:
  --mode year|six_months   plan to use (default from config)
  --year YYYY              plan year (default from config or the current year)
  --month LABEL            plan: only print this month
  --date YYYY-MM-DD        today: look up another date

Flags:
`)
	fmt.Fprint(os.Stderr, flagSet.FlagUsages())
}

func (a *app) runTUI() error {
	now := a.now()
	m := tui.NewModel(a.store, a.plans, tui.Options{
		Duration:     a.cfg.Duration(),
		Year:         a.cfg.PlanYear(now),
		PollInterval: a.cfg.PollInterval,
		Now:          a.now,
		Logger:       a.logger,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())

	cleanup, err := tui.StartWatcher(a.store.ProgressDir(), p)
	if err != nil {
		a.logger.Warn("file watcher failed, relying on polling", "error", err)
	} else {
		defer cleanup()
	}

	_, err = p.Run()
	return err
}

// planFlags holds the flags shared by every command that selects a plan.
type planFlags struct {
	mode string
	year int
}

func (a *app) newFlagSet(name string, pf *planFlags) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.StringVar(&pf.mode, "mode", a.cfg.Mode, "plan: year or six_months")
	flagSet.IntVar(&pf.year, "year", 0, "plan year")
	return flagSet
}

func (a *app) resolve(pf planFlags) (*plan.Plan, error) {
	d, err := plan.ParseDuration(pf.mode)
	if err != nil {
		return nil, err
	}
	year := pf.year
	if year == 0 {
		year = a.cfg.PlanYear(a.now())
	}
	return a.plans.Get(d, year)
}

// CLI Commands

func (a *app) cmdPlan(args []string) error {
	var pf planFlags
	var month string
	flagSet := a.newFlagSet("plan", &pf)
	flagSet.StringVar(&month, "month", "", "only print this month")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	p, err := a.resolve(pf)
	if err != nil {
		return err
	}
	progress, err := a.store.LoadProgress(p.Duration.Mode())
	if err != nil {
		return err
	}

	months := p.Months
	if month != "" {
		mo, ok := p.Month(month)
		if !ok {
			return fmt.Errorf("no month %q in %s", month, p.Title())
		}
		months = []plan.Month{mo}
	}

	if a.jsonOut {
		return a.outputJSON(monthsToJSON(months, progress))
	}

	fmt.Fprintf(a.out, "%s (%d)\n", p.Title(), p.Year)
	for _, mo := range months {
		fmt.Fprintf(a.out, "\n%s  %d%%\n", mo.Label, mo.Progress(progress.IsDone))
		if len(mo.Entries) == 0 {
			fmt.Fprintln(a.out, "  No readings scheduled")
			continue
		}
		for _, e := range mo.Entries {
			fmt.Fprintf(a.out, "  %s %3d  %s  [%s]\n", statusIcon(progress.IsDone(e.ID)), e.Day, e.Chapters(), e.ID)
		}
	}
	return nil
}

func (a *app) cmdToday(args []string) error {
	var pf planFlags
	var date string
	flagSet := a.newFlagSet("today", &pf)
	flagSet.StringVar(&date, "date", "", "date to look up (YYYY-MM-DD)")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	when := a.now()
	if date != "" {
		t, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		when = t
		if pf.year == 0 {
			pf.year = t.Year()
		}
	}

	p, err := a.resolve(pf)
	if err != nil {
		return err
	}
	progress, err := a.store.LoadProgress(p.Duration.Mode())
	if err != nil {
		return err
	}

	e, ok := p.EntryForDate(when)
	if !ok {
		if a.jsonOut {
			return a.outputJSON(nil)
		}
		fmt.Fprintf(a.out, "Nothing scheduled for %s.\n", when.Format("Jan 2"))
		return nil
	}
	e.Completed = progress.IsDone(e.ID)

	if a.jsonOut {
		return a.outputJSON(e)
	}
	fmt.Fprintf(a.out, "%s %s, day %d: %s\n", statusIcon(e.Completed), p.Months[e.MonthIndex].Label, e.Day, e.Chapters())
	return nil
}

type markOp int

const (
	markDone markOp = iota
	markUndo
	markToggle
)

func (a *app) cmdMark(name string, args []string, op markOp) error {
	var pf planFlags
	flagSet := a.newFlagSet(name, &pf)
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() < 1 {
		return fmt.Errorf("usage: bookclub %s <reading-id>", name)
	}
	id := flagSet.Arg(0)

	p, err := a.resolve(pf)
	if err != nil {
		return err
	}
	e, err := p.Entry(id)
	if err != nil {
		return err
	}

	mode := p.Duration.Mode()
	var progress *store.Progress
	switch op {
	case markDone:
		progress, err = a.store.SetDone(mode, p.Year, id, true)
	case markUndo:
		progress, err = a.store.SetDone(mode, p.Year, id, false)
	default:
		progress, err = a.store.Toggle(mode, p.Year, id)
	}
	if err != nil {
		return err
	}
	if progress.StaleYear(p.Year) {
		a.logger.Warn("progress was recorded for another year", "mode", mode, "recorded", progress.Year, "plan", p.Year)
	}
	e.Completed = progress.IsDone(id)

	if a.jsonOut {
		return a.outputJSON(e)
	}
	state := "not done"
	if e.Completed {
		state = "done"
	}
	fmt.Fprintf(a.out, "%s → %s\n", e.Chapters(), state)
	return nil
}

func (a *app) cmdProgress(args []string) error {
	var pf planFlags
	flagSet := a.newFlagSet("progress", &pf)
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	p, err := a.resolve(pf)
	if err != nil {
		return err
	}
	progress, err := a.store.LoadProgress(p.Duration.Mode())
	if err != nil {
		return err
	}

	type monthProgress struct {
		Month   string `json:"month"`
		Done    int    `json:"done"`
		Total   int    `json:"total"`
		Percent int    `json:"percent"`
	}
	var rows []monthProgress
	done, total := 0, 0
	for _, mo := range p.Months {
		c := mo.Completed(progress.IsDone)
		done += c
		total += len(mo.Entries)
		rows = append(rows, monthProgress{mo.Label, c, len(mo.Entries), mo.Progress(progress.IsDone)})
	}
	overall := p.Progress(progress.IsDone)

	if a.jsonOut {
		return a.outputJSON(map[string]interface{}{
			"mode":    p.Duration.Mode(),
			"year":    p.Year,
			"done":    done,
			"total":   total,
			"percent": overall,
			"months":  rows,
		})
	}

	fmt.Fprintf(a.out, "%s (%d): %d/%d readings, %d%%\n", p.Title(), p.Year, done, total, overall)
	for _, r := range rows {
		if r.Total == 0 {
			fmt.Fprintf(a.out, "  %-10s  no readings\n", r.Month)
			continue
		}
		fmt.Fprintf(a.out, "  %-10s %3d%%  (%d/%d)\n", r.Month, r.Percent, r.Done, r.Total)
	}
	return nil
}

func (a *app) cmdReset(args []string) error {
	var pf planFlags
	flagSet := a.newFlagSet("reset", &pf)
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	d, err := plan.ParseDuration(pf.mode)
	if err != nil {
		return err
	}
	if err := a.store.ResetProgress(d.Mode()); err != nil {
		return err
	}

	if a.jsonOut {
		return a.outputJSON(map[string]string{"reset": d.Mode()})
	}
	fmt.Fprintf(a.out, "Progress cleared for %s\n", d.Mode())
	return nil
}

func statusIcon(done bool) string {
	if done {
		return "✓"
	}
	return "○"
}

// JSON helpers

func (a *app) outputJSON(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type monthJSON struct {
	Month    string            `json:"month"`
	Progress int               `json:"progress"`
	Entries  []plan.DailyEntry `json:"entries"`
}

// monthsToJSON keeps month order, which a JSON object would not.
func monthsToJSON(months []plan.Month, progress *store.Progress) []monthJSON {
	result := make([]monthJSON, 0, len(months))
	for _, mo := range months {
		entries := make([]plan.DailyEntry, len(mo.Entries))
		for i, e := range mo.Entries {
			e.Completed = progress.IsDone(e.ID)
			entries[i] = e
		}
		result = append(result, monthJSON{
			Month:    mo.Label,
			Progress: mo.Progress(progress.IsDone),
			Entries:  entries,
		})
	}
	return result
}
