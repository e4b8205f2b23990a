// ABOUTME: Tests for the root TUI model
// ABOUTME: Drives Update with synthetic messages and asserts on state and View output

package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mstanton/taskstash/internal/api"
	"github.com/mstanton/taskstash/internal/records"
)

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedApp(recs []api.Record) *App {
	app := New(nil, nil, "a@b.com")
	model, _ := app.Update(pageLoadedMsg{
		recs: recs,
		page: records.PageState{Page: 1, Limit: 20, Total: len(recs), Pages: 1},
	})
	return model.(*App)
}

func TestAppInitialState(t *testing.T) {
	app := New(nil, nil, "a@b.com")

	if app.loaded {
		t.Error("expected app to start unloaded")
	}
	if app.filter != records.FilterAll {
		t.Errorf("expected initial filter all, got %s", app.filter)
	}
	if !strings.Contains(app.View(), "loading") {
		t.Errorf("expected loading view, got %q", app.View())
	}
}

func TestAppPageLoaded(t *testing.T) {
	app := loadedApp([]api.Record{
		{ID: "1", Title: "Write report", Completed: false},
		{ID: "2", Title: "Ship release", Completed: true},
	})

	if !app.loaded || app.busy {
		t.Errorf("expected loaded and idle, got loaded=%v busy=%v", app.loaded, app.busy)
	}
	view := app.View()
	if !strings.Contains(view, "[ ] Write report") {
		t.Errorf("expected open task rendered, got %q", view)
	}
	if !strings.Contains(view, "[x] Ship release") {
		t.Errorf("expected completed task rendered, got %q", view)
	}
	if !strings.Contains(view, "page 1/1 · 2 records") {
		t.Errorf("expected footer with page state, got %q", view)
	}
	if !strings.Contains(view, "a@b.com") {
		t.Errorf("expected signed-in email in header, got %q", view)
	}
}

func TestAppPageLoadedError(t *testing.T) {
	app := New(nil, nil, "")
	model, _ := app.Update(pageLoadedMsg{err: errors.New("access expired, sign in again")})
	app = model.(*App)

	if !strings.Contains(app.View(), "access expired") {
		t.Errorf("expected error notice in view, got %q", app.View())
	}
}

func TestAppCursorMovement(t *testing.T) {
	app := loadedApp([]api.Record{{ID: "1", Title: "a"}, {ID: "2", Title: "b"}})

	model, _ := app.Update(keyMsg("j"))
	app = model.(*App)
	if app.cursor != 1 {
		t.Errorf("expected cursor 1, got %d", app.cursor)
	}

	// Cursor stops at the last visible row.
	model, _ = app.Update(keyMsg("j"))
	app = model.(*App)
	if app.cursor != 1 {
		t.Errorf("expected cursor to stay at 1, got %d", app.cursor)
	}

	model, _ = app.Update(keyMsg("k"))
	app = model.(*App)
	if app.cursor != 0 {
		t.Errorf("expected cursor 0, got %d", app.cursor)
	}
}

func TestAppFilterCyclesAndClampsCursor(t *testing.T) {
	app := loadedApp([]api.Record{
		{ID: "1", Title: "open one"},
		{ID: "2", Title: "open two"},
		{ID: "3", Title: "done one", Completed: true},
	})
	app.cursor = 2

	model, _ := app.Update(keyMsg("f"))
	app = model.(*App)
	if app.filter != records.FilterActive {
		t.Errorf("expected active filter, got %s", app.filter)
	}
	// Two visible rows remain, so the cursor clamps to the last one.
	if app.cursor != 1 {
		t.Errorf("expected cursor clamped to 1, got %d", app.cursor)
	}
	if strings.Contains(app.View(), "done one") {
		t.Error("expected completed task hidden under active filter")
	}

	model, _ = app.Update(keyMsg("f"))
	app = model.(*App)
	if app.filter != records.FilterCompleted {
		t.Errorf("expected completed filter, got %s", app.filter)
	}

	model, _ = app.Update(keyMsg("f"))
	app = model.(*App)
	if app.filter != records.FilterAll {
		t.Errorf("expected filter to cycle back to all, got %s", app.filter)
	}
}

func TestAppBusyIgnoresMutationKeys(t *testing.T) {
	app := loadedApp([]api.Record{{ID: "1", Title: "a"}})
	app.busy = true

	for _, key := range []string{"x", "d", "a", "r"} {
		model, cmd := app.Update(keyMsg(key))
		app = model.(*App)
		if cmd != nil {
			t.Errorf("expected key %q ignored while busy", key)
		}
		if app.adding {
			t.Errorf("expected key %q not to open the add input while busy", key)
		}
	}
}

func TestAppToggleMarksBusy(t *testing.T) {
	app := loadedApp([]api.Record{{ID: "1", Title: "a"}})

	model, cmd := app.Update(keyMsg("x"))
	app = model.(*App)
	if cmd == nil {
		t.Fatal("expected toggle command")
	}
	if !app.busy {
		t.Error("expected app busy while the toggle is in flight")
	}
}

func TestAppAddFlow(t *testing.T) {
	app := loadedApp(nil)

	model, _ := app.Update(keyMsg("a"))
	app = model.(*App)
	if !app.adding {
		t.Fatal("expected add input to open")
	}

	// Esc abandons the input.
	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app = model.(*App)
	if app.adding {
		t.Error("expected esc to close the add input")
	}

	// Enter with an empty title reports an error without submitting.
	model, _ = app.Update(keyMsg("a"))
	app = model.(*App)
	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(*App)
	if cmd != nil {
		t.Error("expected no command for an empty title")
	}
	if !strings.Contains(app.View(), "title is required") {
		t.Errorf("expected validation notice, got %q", app.View())
	}

	// A real title submits and marks the app busy.
	model, _ = app.Update(keyMsg("a"))
	app = model.(*App)
	app.input.SetValue("  Buy milk  ")
	model, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(*App)
	if cmd == nil {
		t.Fatal("expected create command")
	}
	if !app.busy || app.adding {
		t.Errorf("expected busy submit, got busy=%v adding=%v", app.busy, app.adding)
	}
}

func TestAppMutationOutcome(t *testing.T) {
	app := loadedApp([]api.Record{{ID: "1", Title: "a"}, {ID: "2", Title: "b"}})
	app.cursor = 1
	app.busy = true

	model, _ := app.Update(mutatedMsg{
		verb: "removed",
		recs: []api.Record{{ID: "1", Title: "a"}},
		page: records.PageState{Page: 1, Limit: 20, Total: 1, Pages: 1},
	})
	app = model.(*App)

	if app.busy {
		t.Error("expected busy cleared after mutation")
	}
	if app.cursor != 0 {
		t.Errorf("expected cursor clamped after shrink, got %d", app.cursor)
	}
	if !strings.Contains(app.View(), "removed") {
		t.Errorf("expected outcome notice, got %q", app.View())
	}

	model, _ = app.Update(mutatedMsg{verb: "updated", err: errors.New("request failed (500)")})
	app = model.(*App)
	if !strings.Contains(app.View(), "request failed") {
		t.Errorf("expected error notice, got %q", app.View())
	}
}

func TestAppMutationReloadRequestsFetch(t *testing.T) {
	app := loadedApp(nil)

	// ctrl is nil, so only assert the command is issued, not run.
	_, cmd := app.Update(mutatedMsg{verb: "added", reload: true})
	if cmd == nil {
		t.Error("expected a reload command after create")
	}
}
