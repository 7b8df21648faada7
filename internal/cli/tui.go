package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Slider styles
var (
	sliderFocusStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	sliderNormalStyle = lipgloss.NewStyle().Foreground(colorWhite)
	sliderDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	sliderErrStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

const (
	sliderWidth = 40
	sliderStep  = 0.01
)

// =============================================================================
// RangeModel - Interactive lower/upper limit selection
// =============================================================================

// RangeFunc applies a lower/upper limit pair and returns the resulting
// selection.
type RangeFunc func(lower, upper float64) ([]int, error)

// RangeModel is the bubbletea model for the island and vertex range sliders.
// Every change re-runs the update function, so the mesh selection follows
// the sliders live.
type RangeModel struct {
	Title    string
	Lower    float64
	Upper    float64
	Selected []int
	Applied  bool
	Err      error

	// Detail renders extra text under the sliders, such as an island table.
	Detail func(lower, upper float64) string

	focus  int
	update RangeFunc
}

// NewRangeModel creates a range model and applies the initial limits once.
func NewRangeModel(title string, lower, upper float64, update RangeFunc) RangeModel {
	m := RangeModel{Title: title, Lower: lower, Upper: upper, update: update}
	m.Selected, m.Err = update(lower, upper)
	return m
}

func (m RangeModel) Init() tea.Cmd {
	return nil
}

func (m RangeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	delta := 0.0
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		m.Applied = m.Err == nil
		return m, tea.Quit
	case "tab", "up", "down", "k", "j":
		m.focus = 1 - m.focus
		return m, nil
	case "left", "h":
		delta = -sliderStep
	case "right", "l":
		delta = sliderStep
	case "shift+left", "H":
		delta = -10 * sliderStep
	case "shift+right", "L":
		delta = 10 * sliderStep
	default:
		return m, nil
	}

	if m.focus == 0 {
		m.Lower = stepValue(m.Lower, delta)
	} else {
		m.Upper = stepValue(m.Upper, delta)
	}
	m.Selected, m.Err = m.update(m.Lower, m.Upper)
	return m, nil
}

func (m RangeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(sliderDimStyle.Render("←/→ adjust  shift faster  tab switch  ⏎ apply  q cancel"))
	b.WriteString("\n\n")
	b.WriteString(sliderLine("Lower", m.Lower, m.focus == 0))
	b.WriteString("\n")
	b.WriteString(sliderLine("Upper", m.Upper, m.focus == 1))
	b.WriteString("\n\n")

	if m.Err != nil {
		b.WriteString(sliderErrStyle.Render(m.Err.Error()))
	} else {
		b.WriteString(fmt.Sprintf("%s selected  %s",
			StyleNumber.Render(fmt.Sprint(len(m.Selected))),
			sliderDimStyle.Render(formatIndices(m.Selected))))
	}
	b.WriteString("\n")
	if m.Detail != nil {
		b.WriteString("\n")
		b.WriteString(m.Detail(m.Lower, m.Upper))
		b.WriteString("\n")
	}
	return b.String()
}

// =============================================================================
// FactorModel - Interactive blend factor
// =============================================================================

// FactorFunc applies a blend factor.
type FactorFunc func(t float64) error

// FactorModel is the bubbletea model for the paste blend slider.
type FactorModel struct {
	Title   string
	Factor  float64
	Applied bool
	Err     error

	update FactorFunc
}

// NewFactorModel creates a factor model and applies the initial factor once.
func NewFactorModel(title string, factor float64, update FactorFunc) FactorModel {
	m := FactorModel{Title: title, Factor: factor, update: update}
	m.Err = update(factor)
	return m
}

func (m FactorModel) Init() tea.Cmd {
	return nil
}

func (m FactorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	delta := 0.0
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		m.Applied = m.Err == nil
		return m, tea.Quit
	case "left", "h":
		delta = -sliderStep
	case "right", "l":
		delta = sliderStep
	case "shift+left", "H":
		delta = -10 * sliderStep
	case "shift+right", "L":
		delta = 10 * sliderStep
	default:
		return m, nil
	}
	m.Factor = stepValue(m.Factor, delta)
	m.Err = m.update(m.Factor)
	return m, nil
}

func (m FactorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(sliderDimStyle.Render("←/→ adjust  shift faster  ⏎ apply  q cancel"))
	b.WriteString("\n\n")
	b.WriteString(sliderLine("Factor", m.Factor, true))
	b.WriteString("\n")
	if m.Err != nil {
		b.WriteString("\n")
		b.WriteString(sliderErrStyle.Render(m.Err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// stepValue moves v by delta, clamps it to [0,1] and rounds away float drift
// from repeated steps.
func stepValue(v, delta float64) float64 {
	v = math.Round((v+delta)*1000) / 1000
	return min(max(v, 0), 1)
}

func sliderLine(label string, v float64, focused bool) string {
	filled := int(math.Round(v * sliderWidth))
	bar := strings.Repeat("━", filled) + "●" + strings.Repeat("─", sliderWidth-filled)
	style := sliderNormalStyle
	cursor := "  "
	if focused {
		style = sliderFocusStyle
		cursor = "▸ "
	}
	return fmt.Sprintf("%s%-6s %s %s", cursor, label, style.Render(bar), StyleNumber.Render(fmt.Sprintf("%.3f", v)))
}
