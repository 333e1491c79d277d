package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"todoctl/internal/service"
	"todoctl/internal/store"
	"todoctl/internal/testutil"
)

func newModel(t *testing.T, svc *testutil.FakeService) *Model {
	t.Helper()
	m := New(context.Background(), store.New(svc))
	settle(t, m, m.Init())
	return m
}

// settle runs a store command and feeds its result back into the model.
func settle(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	if _, ok := msg.(syncedMsg); !ok {
		t.Fatalf("expected syncedMsg, got %T", msg)
	}
	m.Update(msg)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, s string) tea.Cmd {
	_, cmd := m.Update(key(s))
	return cmd
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestInit_LoadsTasks(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(1, "Buy milk", false)
	svc.AddTask(2, "Walk dog", true)

	m := newModel(t, svc)

	view := m.View()
	for _, want := range []string{"Buy milk", "Walk dog", "1 of 2 done", "50%"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q, got:\n%s", want, view)
		}
	}
	if m.pending != 0 {
		t.Errorf("expected no pending operations, got %d", m.pending)
	}
}

func TestInit_EmptyList(t *testing.T) {
	m := newModel(t, testutil.NewFakeService())

	if !strings.Contains(m.View(), "No tasks yet") {
		t.Errorf("expected empty hint, got:\n%s", m.View())
	}
}

func TestInit_ErrorShown(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListErr = &service.RemoteError{Status: 500}

	m := newModel(t, svc)

	if !strings.Contains(m.View(), "Error: server returned status 500") {
		t.Errorf("expected error line, got:\n%s", m.View())
	}
}

func TestInit_ShowsLoadingBeforeSettle(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(1, "Buy milk", false)
	m := New(context.Background(), store.New(svc))

	cmd := m.Init()
	view := m.View()
	if !strings.Contains(view, "Loading...") {
		t.Errorf("expected loading line before the first load settles, got:\n%s", view)
	}
	for _, unwanted := range []string{"No tasks yet", "Saving..."} {
		if strings.Contains(view, unwanted) {
			t.Errorf("expected no %q while loading, got:\n%s", unwanted, view)
		}
	}

	settle(t, m, cmd)
	view = m.View()
	if strings.Contains(view, "Loading...") || !strings.Contains(view, "Buy milk") {
		t.Errorf("expected loaded list, got:\n%s", view)
	}
}

func TestRefresh_ShowsLoadingUntilSettled(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(1, "a", false)
	m := newModel(t, svc)

	cmd := press(m, "r")
	view := m.View()
	if !strings.Contains(view, "Loading...") || strings.Contains(view, "Saving...") {
		t.Errorf("expected loading line during refresh, got:\n%s", view)
	}
	if !strings.Contains(view, "[ ] a") {
		t.Errorf("expected current tasks to stay visible, got:\n%s", view)
	}

	settle(t, m, cmd)
	if strings.Contains(m.View(), "Loading...") {
		t.Errorf("expected no loading line after refresh, got:\n%s", m.View())
	}
	if m.loading != 0 || m.pending != 0 {
		t.Errorf("expected counters back at zero, got loading=%d pending=%d", m.loading, m.pending)
	}
}

func TestAdd(t *testing.T) {
	svc := testutil.NewFakeService()
	m := newModel(t, svc)

	press(m, "a")
	if m.mode != modeAdd {
		t.Fatalf("expected add mode, got %v", m.mode)
	}
	typeText(m, "Buy milk")
	settle(t, m, press(m, "enter"))

	if m.mode != modeList {
		t.Errorf("expected list mode after submit")
	}
	if len(m.tasks) != 1 || m.tasks[0].Title != "Buy milk" {
		t.Errorf("unexpected tasks %+v", m.tasks)
	}
	if svc.Calls("create") != 1 {
		t.Errorf("expected 1 create call, got %d", svc.Calls("create"))
	}
}

func TestAdd_BlankSkipsRequest(t *testing.T) {
	svc := testutil.NewFakeService()
	m := newModel(t, svc)

	press(m, "a")
	typeText(m, "   ")
	settle(t, m, press(m, "enter"))

	if svc.Calls("create") != 0 {
		t.Errorf("expected no create call, got %d", svc.Calls("create"))
	}
	if len(m.tasks) != 0 {
		t.Errorf("expected no tasks, got %+v", m.tasks)
	}
}

func TestAdd_EscCancels(t *testing.T) {
	svc := testutil.NewFakeService()
	m := newModel(t, svc)

	press(m, "a")
	typeText(m, "draft")
	if cmd := press(m, "esc"); cmd != nil {
		t.Error("expected no command on cancel")
	}

	if m.mode != modeList || m.input.Value() != "" {
		t.Errorf("expected cleared list mode, got mode %v value %q", m.mode, m.input.Value())
	}
	if svc.TotalCalls() != 1 {
		t.Errorf("expected only the initial list call, got %d", svc.TotalCalls())
	}
}

func TestToggle(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(1, "a", false)
	svc.AddTask(2, "b", false)
	m := newModel(t, svc)

	press(m, "down")
	settle(t, m, press(m, " "))

	if m.tasks[0].Completed || !m.tasks[1].Completed {
		t.Errorf("expected only the second task completed, got %+v", m.tasks)
	}
	if m.stats.Completed != 1 {
		t.Errorf("expected 1 completed, got %d", m.stats.Completed)
	}
}

func TestEdit(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(7, "old", false)
	m := newModel(t, svc)

	press(m, "e")
	if m.mode != modeEdit || m.input.Value() != "old" {
		t.Fatalf("expected edit mode prefilled with title, got mode %v value %q", m.mode, m.input.Value())
	}
	m.input.SetValue("new")
	settle(t, m, press(m, "enter"))

	if m.tasks[0].Title != "new" {
		t.Errorf("expected renamed task, got %+v", m.tasks[0])
	}
}

func TestDelete_ClampsCursor(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(1, "a", false)
	svc.AddTask(2, "b", false)
	m := newModel(t, svc)

	press(m, "j")
	settle(t, m, press(m, "d"))

	if len(m.tasks) != 1 || m.tasks[0].ID != 1 {
		t.Errorf("unexpected tasks %+v", m.tasks)
	}
	if m.cursor != 0 {
		t.Errorf("expected cursor clamped to 0, got %d", m.cursor)
	}
}

func TestKeysOnEmptyList(t *testing.T) {
	svc := testutil.NewFakeService()
	m := newModel(t, svc)

	for _, k := range []string{" ", "x", "d", "e", "j", "k"} {
		if cmd := press(m, k); cmd != nil {
			t.Errorf("expected no command for %q on empty list", k)
		}
	}
	if m.mode != modeList {
		t.Errorf("expected list mode, got %v", m.mode)
	}
}

func TestRefresh_PicksUpServerChanges(t *testing.T) {
	svc := testutil.NewFakeService()
	m := newModel(t, svc)

	svc.AddTask(3, "from elsewhere", false)
	settle(t, m, press(m, "r"))

	if len(m.tasks) != 1 || m.tasks[0].Title != "from elsewhere" {
		t.Errorf("unexpected tasks %+v", m.tasks)
	}
}

func TestPendingShowsSaving(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(1, "a", false)
	m := newModel(t, svc)

	cmd := press(m, "x")
	if !strings.Contains(m.View(), "Saving...") {
		t.Errorf("expected saving indicator while pending, got:\n%s", m.View())
	}
	settle(t, m, cmd)
	if strings.Contains(m.View(), "Saving...") {
		t.Errorf("expected no saving indicator after settle, got:\n%s", m.View())
	}
}

func TestQuit(t *testing.T) {
	m := newModel(t, testutil.NewFakeService())

	cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
