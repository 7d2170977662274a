package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"[B][COLOR=FF03F12F]10.03.2024 14:30[/COLOR]:[/B] Kisa", "10.03.2024 14:30: Kisa"},
		{"[B][COLOR=FF03F12F]MTV3[/COLOR] [COLOR=FF03F12F]18:30[/COLOR][/B]: Uutiset", "MTV3 18:30: Uutiset"},
		{"[b]not markup[/b]", "[b]not markup[/b]"},
		{"[COLOR=XYZ]bad[/COLOR]", "[COLOR=XYZ]bad"},
	}

	for _, tt := range tests {
		if got := Strip(tt.in); got != tt.want {
			t.Errorf("Strip(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderKeepsText(t *testing.T) {
	in := "[B][COLOR=FFF16C00]01.01.2099 14:00[/COLOR]:[/B] Finaali"
	got := Render(in)
	for _, part := range []string{"01.01.2099 14:00", ":", "Finaali"} {
		if !strings.Contains(got, part) {
			t.Errorf("Render(%q) = %q, missing %q", in, got, part)
		}
	}
	if strings.Contains(got, "[COLOR") || strings.Contains(got, "[B]") {
		t.Errorf("Render(%q) left markup behind: %q", in, got)
	}
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		out     string
		n       int
		want    int
		wantErr bool
	}{
		{"2\tThird\n", 3, 2, false},
		{"0\tFirst", 1, 0, false},
		{"", 3, -1, true},
		{"7\tOut of range", 3, -1, true},
		{"x\tGarbage", 3, -1, true},
	}

	for _, tt := range tests {
		got, err := parseSelection(tt.out, tt.n)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseSelection(%q) = %d, %v; want %d, err %v", tt.out, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestPickModel(t *testing.T) {
	m := tea.Model(newPickModel("Valitse", []string{"Elokuvat", "Sarjat", "Urheilu"}))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should quit the picker")
	}
	if got := m.(pickModel).chosen; got != 1 {
		t.Errorf("chosen = %d, want 1", got)
	}
}

func TestPickModelCancel(t *testing.T) {
	m := tea.Model(newPickModel("Valitse", []string{"Elokuvat"}))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if got := m.(pickModel).chosen; got != -1 {
		t.Errorf("chosen = %d, want -1", got)
	}
}

func TestAskModel(t *testing.T) {
	m := tea.Model(newAskModel("Haku"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("uutiset")})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	am := m.(askModel)
	if !am.done || am.input.Value() != "uutiset" {
		t.Errorf("done = %v, value = %q", am.done, am.input.Value())
	}
}
