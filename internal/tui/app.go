// ABOUTME: Root bubbletea model for the interactive task list
// ABOUTME: Routes keys to list navigation, add input, and record mutations

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mstanton/taskstash/internal/api"
	"github.com/mstanton/taskstash/internal/auth"
	"github.com/mstanton/taskstash/internal/records"
	"github.com/mstanton/taskstash/internal/tui/styles"
)

// pageLoadedMsg is sent when a page of records has been fetched
type pageLoadedMsg struct {
	recs []api.Record
	page records.PageState
	err  error
}

// mutatedMsg is sent when a create/toggle/delete completed
type mutatedMsg struct {
	verb string
	recs []api.Record
	page records.PageState
	err  error
	// reload requests a fresh page fetch after the mutation
	reload bool
}

// notice is the single terminal outcome of the last action
type notice struct {
	text    string
	isError bool
}

// App is the root model for the TUI
type App struct {
	flow  *auth.Flow
	ctrl  *records.Controller
	email string

	recs   []api.Record
	page   records.PageState
	filter records.Filter
	cursor int

	adding  bool
	busy    bool
	loaded  bool
	notice  notice
	spinner spinner.Model
	input   textinput.Model
	width   int
}

// New creates the TUI application over the wired controllers.
func New(flow *auth.Flow, ctrl *records.Controller, email string) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	in := textinput.New()
	in.Placeholder = "New task title"
	in.CharLimit = 200

	return &App{
		flow:    flow,
		ctrl:    ctrl,
		email:   email,
		filter:  records.FilterAll,
		spinner: sp,
		input:   in,
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.loadPage(1))
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case pageLoadedMsg:
		a.busy = false
		a.loaded = true
		if msg.err != nil {
			a.notice = notice{text: msg.err.Error(), isError: true}
			return a, nil
		}
		a.recs = msg.recs
		a.page = msg.page
		a.clampCursor()
		return a, nil

	case mutatedMsg:
		a.busy = false
		if msg.err != nil {
			a.notice = notice{text: msg.err.Error(), isError: true}
			return a, nil
		}
		a.notice = notice{text: msg.verb}
		if msg.reload {
			return a, a.loadPage(1)
		}
		a.recs = msg.recs
		a.page = msg.page
		a.clampCursor()
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.adding {
			return a.updateAdding(msg)
		}
		return a.updateList(msg)
	}

	return a, nil
}

// updateAdding handles keys while the new-task input is focused
func (a *App) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.adding = false
		a.input.Blur()
		a.input.SetValue("")
		return a, nil
	case "enter":
		title := strings.TrimSpace(a.input.Value())
		a.adding = false
		a.input.Blur()
		a.input.SetValue("")
		if title == "" {
			a.notice = notice{text: "title is required", isError: true}
			return a, nil
		}
		a.busy = true
		return a, a.create(title)
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// updateList handles keys on the task list
func (a *App) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// One action at a time: the triggering keys are ignored while busy
	// rather than queued or cancelled.
	key := msg.String()
	a.notice = notice{}

	switch key {
	case "q":
		return a, tea.Quit
	case "j", "down":
		if a.cursor < len(a.visible())-1 {
			a.cursor++
		}
	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
	case "f":
		a.filter = nextFilter(a.filter)
		a.clampCursor()
	case "r":
		if !a.busy {
			a.busy = true
			return a, a.loadPage(a.page.Page)
		}
	case "n", "right":
		if !a.busy && a.page.Page < a.page.Pages {
			a.busy = true
			return a, a.loadPage(a.page.Page + 1)
		}
	case "p", "left":
		if !a.busy && a.page.Page > 1 {
			a.busy = true
			return a, a.loadPage(a.page.Page - 1)
		}
	case "a":
		if !a.busy {
			a.adding = true
			return a, a.input.Focus()
		}
	case "x", " ":
		if rec, ok := a.selected(); ok && !a.busy {
			a.busy = true
			return a, a.toggle(rec)
		}
	case "d":
		if rec, ok := a.selected(); ok && !a.busy {
			a.busy = true
			return a, a.remove(rec.ID)
		}
	}
	return a, nil
}

// View implements tea.Model
func (a *App) View() string {
	var b strings.Builder

	header := "taskstash"
	if a.email != "" {
		header += "  ·  " + a.email
	}
	b.WriteString(styles.Title.Render(header))
	b.WriteString("\n\n")

	if !a.loaded {
		b.WriteString(a.spinner.View() + " loading…\n")
		return b.String()
	}

	visible := a.visible()
	if len(visible) == 0 {
		b.WriteString(styles.Help.Render("no tasks on this page") + "\n")
	}
	for i, rec := range visible {
		b.WriteString(a.renderLine(rec, i == a.cursor))
		b.WriteString("\n")
	}

	if a.adding {
		b.WriteString("\n" + a.input.View() + "\n")
	}

	footer := fmt.Sprintf("page %d/%d · %d records · filter: %s",
		a.page.Page, a.page.Pages, a.page.Total, a.filter)
	if a.busy {
		footer = a.spinner.View() + " " + footer
	}
	b.WriteString(styles.Footer.Render(footer))
	b.WriteString("\n")

	if a.notice.text != "" {
		style := styles.Notice
		if a.notice.isError {
			style = styles.ErrorNotice
		}
		b.WriteString(style.Render(a.notice.text) + "\n")
	}

	b.WriteString(styles.Help.Render("a add · x toggle · d delete · f filter · n/p page · r refresh · q quit"))
	b.WriteString("\n")
	return b.String()
}

// renderLine renders one record row
func (a *App) renderLine(rec api.Record, selected bool) string {
	mark := "[ ]"
	if rec.Completed {
		mark = "[x]"
	}
	line := mark + " " + rec.Title
	if rec.Notes != "" {
		line += styles.Help.Render("  " + rec.Notes)
	}
	switch {
	case selected:
		return styles.Selected.Render("> ") + line
	case rec.Completed:
		return "  " + styles.Done.Render(line)
	default:
		return "  " + line
	}
}

// visible applies the local completion filter to the loaded page
func (a *App) visible() []api.Record {
	return records.Apply(a.recs, a.filter)
}

// selected returns the record under the cursor
func (a *App) selected() (api.Record, bool) {
	visible := a.visible()
	if a.cursor < 0 || a.cursor >= len(visible) {
		return api.Record{}, false
	}
	return visible[a.cursor], true
}

func (a *App) clampCursor() {
	if n := len(a.visible()); a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) loadPage(page int) tea.Cmd {
	return func() tea.Msg {
		recs, state, err := a.ctrl.List(context.Background(), page, records.DefaultLimit, records.OrderDesc)
		return pageLoadedMsg{recs: recs, page: state, err: err}
	}
}

func (a *App) create(title string) tea.Cmd {
	return func() tea.Msg {
		_, err := a.ctrl.Create(context.Background(), api.Fields{Title: title})
		return mutatedMsg{verb: "added", err: err, reload: err == nil}
	}
}

func (a *App) toggle(rec api.Record) tea.Cmd {
	return func() tea.Msg {
		_, err := a.ctrl.Toggle(context.Background(), rec)
		return mutatedMsg{verb: "updated", recs: a.ctrl.Records(), page: a.ctrl.Page(), err: err}
	}
}

func (a *App) remove(id string) tea.Cmd {
	return func() tea.Msg {
		recs, state, err := a.ctrl.Delete(context.Background(), id)
		return mutatedMsg{verb: "removed", recs: recs, page: state, err: err}
	}
}

func nextFilter(f records.Filter) records.Filter {
	switch f {
	case records.FilterAll:
		return records.FilterActive
	case records.FilterActive:
		return records.FilterCompleted
	default:
		return records.FilterAll
	}
}
