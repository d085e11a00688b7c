package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-possession-log/internal/report"
	"github.com/pable/go-possession-log/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the event-log database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, _ []string) error {
	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	cGreeting.Println("eventlog shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("eventlog")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]

		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			shellList(db)
		case "show":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: show <run-id-prefix>")
				continue
			}
			shellErr(showRun(os.Stdout, db, args[0]))
		case "cases":
			if len(args) < 2 {
				cError.Fprintln(os.Stderr, "usage: cases <run-id-prefix> <match-id> [--goals]")
				continue
			}
			goals := len(args) > 2 && args[2] == "--goals"
			shellErr(showCases(os.Stdout, db, args[0], args[1], goals))
		case "sql":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: sql <query>")
				continue
			}
			shellSQL(db, strings.TrimSpace(strings.TrimPrefix(line, name)))
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
	}
	return scanner.Err()
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored runs"},
		{"show <run-id-prefix>", "per-match results and breakdowns of a run"},
		{"cases <run-id-prefix> <match-id>", "cases of one match"},
		{"cases <run-id-prefix> <match-id> --goals", "same, goal-ending cases only"},
		{"sql <query>", "raw query against the database"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-44s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellList(db *storage.DB) {
	runs, err := db.ListRuns()
	if err != nil {
		shellErr(err)
		return
	}
	if len(runs) == 0 {
		cMuted.Println("No runs stored yet.")
		return
	}
	report.PrintRunList(os.Stdout, runs)
}

func shellSQL(db *storage.DB, query string) {
	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		shellErr(err)
		return
	}
	if len(rows) == 0 {
		cMuted.Println("(no rows)")
		return
	}
	report.PrintQueryResult(os.Stdout, cols, rows)
}

func shellErr(err error) {
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
	}
}
