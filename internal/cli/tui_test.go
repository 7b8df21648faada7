package cli

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "shift+right":
		return tea.KeyMsg{Type: tea.KeyShiftRight}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestRangeModelSliders(t *testing.T) {
	var calls [][2]float64
	update := func(lo, hi float64) ([]int, error) {
		calls = append(calls, [2]float64{lo, hi})
		return []int{len(calls)}, nil
	}

	var model tea.Model = NewRangeModel("Islands", 0, 0.1, update)
	if len(calls) != 1 {
		t.Fatalf("initial limits applied %d times", len(calls))
	}

	for _, k := range []string{"right", "right", "tab", "shift+right", "l", "h"} {
		model, _ = model.Update(key(k))
	}
	m := model.(RangeModel)
	if m.Lower != 0.02 || m.Upper != 0.2 {
		t.Errorf("limits = (%v, %v), want (0.02, 0.2)", m.Lower, m.Upper)
	}
	if len(calls) != 6 {
		t.Errorf("update called %d times, want 6", len(calls))
	}
	if got := calls[len(calls)-1]; got != [2]float64{0.02, 0.2} {
		t.Errorf("last update = %v", got)
	}

	model, cmd := model.Update(key("enter"))
	if !model.(RangeModel).Applied || cmd == nil {
		t.Error("enter should apply and quit")
	}
}

func TestRangeModelCancelAndError(t *testing.T) {
	fail := errors.New("boom")
	var model tea.Model = NewRangeModel("Range", 0, 1, func(lo, hi float64) ([]int, error) {
		return nil, fail
	})

	if !strings.Contains(model.View(), "boom") {
		t.Error("view should show the update error")
	}
	model, _ = model.Update(key("enter"))
	if model.(RangeModel).Applied {
		t.Error("a failing range must not be applied")
	}

	model = NewRangeModel("Range", 0, 1, func(lo, hi float64) ([]int, error) { return nil, nil })
	model, cmd := model.Update(key("esc"))
	if model.(RangeModel).Applied || cmd == nil {
		t.Error("esc should quit without applying")
	}
}

func TestFactorModel(t *testing.T) {
	var last float64
	var model tea.Model = NewFactorModel("Paste", 0.5, func(f float64) error {
		last = f
		return nil
	})
	if last != 0.5 {
		t.Fatalf("initial factor applied as %v", last)
	}

	model, _ = model.Update(key("left"))
	model, _ = model.Update(key("left"))
	if f := model.(FactorModel).Factor; f != 0.48 || last != 0.48 {
		t.Errorf("factor = %v, last update = %v", f, last)
	}

	for range 10 {
		model, _ = model.Update(key("L"))
	}
	if f := model.(FactorModel).Factor; f != 1 {
		t.Errorf("factor should clamp at 1, got %v", f)
	}

	model, _ = model.Update(key("x"))
	model, _ = model.Update(key("enter"))
	if !model.(FactorModel).Applied {
		t.Error("enter should apply")
	}
}

func TestStepValue(t *testing.T) {
	tests := []struct {
		v, delta, want float64
	}{
		{0, 0.01, 0.01},
		{0.1, 0.01, 0.11},
		{0.99, 0.1, 1},
		{0.05, -0.1, 0},
		{0.3, 0.01 * 3, 0.33},
	}
	for _, tt := range tests {
		if got := stepValue(tt.v, tt.delta); got != tt.want {
			t.Errorf("stepValue(%v, %v) = %v, want %v", tt.v, tt.delta, got, tt.want)
		}
	}
}
