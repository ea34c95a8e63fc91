package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"jtr/internal/domain"
	"jtr/internal/storage"
)

// Viewer displays test results in an interactive TUI
type Viewer interface {
	View(results *domain.TestResultsOutput) error
}

const maxStackLines = 10

// ErrorViewer displays test failures in an interactive TUI
type ErrorViewer struct {
	storage storage.Storage
}

// NewErrorViewer creates a new ErrorViewer; resolved marks are written back through st
func NewErrorViewer(st storage.Storage) *ErrorViewer {
	return &ErrorViewer{storage: st}
}

// View displays test failures in an interactive TUI
func (ev *ErrorViewer) View(results *domain.TestResultsOutput) error {
	if len(results.Details) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	for i, failure := range results.Details {
		list.AddItem(listItemText(i, failure), "", 0, nil)
	}
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)
	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)
	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	updateHeader := func() {
		headerView.SetText(headerText(results.Details))
	}
	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(results.Details) {
			failure := results.Details[index]
			statsView.SetText(formatFailureStats(failure, index+1))
			detailsView.SetText(formatFailureDetails(failure))
			detailsView.ScrollToBeginning()
		}
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				index := list.GetCurrentItem()
				if index >= 0 && index < len(results.Details) {
					results.Details[index].Resolved = !results.Details[index].Resolved
					list.SetItemText(index, listItemText(index, results.Details[index]), "")
					updateHeader()
					if err := ev.storage.SaveOutput(results); err != nil {
						log.Warn().Err(err).Msg("cannot save resolved status")
					}
				}
				return nil
			}
			if event.Rune() == 'q' {
				app.Stop()
				return nil
			}
		}
		return event
	})
	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		}
		return event
	})
	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})

	updateHeader()
	updateDetails()

	detailsContainer := tview.NewFlex().
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)
	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)
	body := tview.NewFlex().
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)
	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(body, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func listItemText(index int, failure domain.TestFailure) string {
	name := failure.TestName
	if name == "" {
		name = fmt.Sprintf("Test %d", index+1)
	}
	name = tview.Escape(name)
	if failure.Resolved {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, name)
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, name)
}

func headerText(failures []domain.TestFailure) string {
	unresolved := 0
	for _, f := range failures {
		if !f.Resolved {
			unresolved++
		}
	}
	return fmt.Sprintf(" Test Failures (%d total, %d unresolved) | ↑↓ navigate, [yellow]r[white] mark resolved, → details, ← back, [yellow]q[white] quit ",
		len(failures), unresolved)
}

// formatFailureDetails formats a test failure using tview color tags; jest text is escaped.
func formatFailureDetails(failure domain.TestFailure) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[red]✗ %s[white]\n\n", tview.Escape(failure.TestName))
	fmt.Fprintf(&b, "[cyan]File: %s[white]\n", tview.Escape(failure.FilePath))
	if failure.File != "" && failure.Line > 0 {
		fmt.Fprintf(&b, "[yellow]Location: %s:%d:%d[white]\n", tview.Escape(failure.File), failure.Line, failure.Column)
	}
	b.WriteString("\n")

	if failure.Message != "" {
		fmt.Fprintf(&b, "[yellow]Message:[white]\n%s\n\n", tview.Escape(failure.Message))
	}

	if len(failure.StackTrace) > 0 {
		b.WriteString("[yellow]Stack Trace:[white]\n")
		for i, trace := range failure.StackTrace {
			if i == maxStackLines {
				fmt.Fprintf(&b, "  [gray]... and %d more lines[white]\n", len(failure.StackTrace)-maxStackLines)
				break
			}
			fmt.Fprintf(&b, "  %s\n", tview.Escape(trace))
		}
	}
	return b.String()
}

// formatFailureStats formats the header line above the details
func formatFailureStats(failure domain.TestFailure, number int) string {
	path := failure.FilePath
	if path == "" {
		path = "Unknown path"
	}
	name := failure.TestName
	if name == "" {
		name = fmt.Sprintf("Test %d", number)
	}
	return fmt.Sprintf("[cyan]path:[white] [yellow]%s[white]\n[cyan]test:[white] [yellow]%s[white]\n",
		tview.Escape(path), tview.Escape(name))
}
