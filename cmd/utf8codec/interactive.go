package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/utf8codec/codec"
	"github.com/wippyai/utf8codec/transcoder"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB")).
			Width(10)

	unitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type inputMode int

const (
	modeText inputMode = iota
	modeUnits
	modeBytes
)

func (m inputMode) String() string {
	switch m {
	case modeUnits:
		return "utf-16 units (hex)"
	case modeBytes:
		return "utf-8 bytes (hex)"
	default:
		return "text"
	}
}

type interactiveModel struct {
	facade *codec.Facade
	input  textinput.Model
	mode   inputMode
	view   conversion
}

// conversion is the state shown for the current input.
type conversion struct {
	err   error
	units []uint16
	bytes []byte
	text  string
}

func newInteractiveModel(f *codec.Facade) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "type text"
	ti.Prompt = "> "
	ti.Width = 60
	ti.Focus()
	return &interactiveModel{facade: f, input: ti}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.mode = (m.mode + 1) % 3
			m.input.Placeholder = "type " + m.mode.String()
			m.input.SetValue("")
			m.view = conversion{}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.view = m.convert(m.input.Value())
	return m, cmd
}

// convert runs the input through the selected strategy in both directions.
func (m *interactiveModel) convert(value string) conversion {
	ctx := context.Background()
	var c conversion

	switch m.mode {
	case modeBytes:
		data, err := parseBytes(value)
		if err != nil {
			return conversion{err: err}
		}
		if c.units, c.err = m.facade.Decode(ctx, data); c.err != nil {
			return c
		}
		c.bytes, c.err = m.facade.Encode(ctx, c.units)
	default:
		if m.mode == modeUnits {
			units, err := parseUnits(value)
			if err != nil {
				return conversion{err: err}
			}
			c.units = units
		} else {
			c.units = transcoder.Units(value)
		}
		if c.bytes, c.err = m.facade.Encode(ctx, c.units); c.err != nil {
			return c
		}
	}

	back, err := m.facade.DecodeString(ctx, c.bytes)
	if err != nil {
		c.err = err
		return c
	}
	c.text = back
	return c
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("UTF-8 Codec"))
	b.WriteString(" ")
	b.WriteString(m.facade.Strategy().Name())
	b.WriteString(" • input: ")
	b.WriteString(m.mode.String())
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.view.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.view.err)))
		b.WriteString("\n\n")
	}

	b.WriteString(labelStyle.Render("UTF-16"))
	b.WriteString(unitStyle.Render(formatUnits(m.view.units)))
	b.WriteString(fmt.Sprintf("  (%d units)\n", len(m.view.units)))

	b.WriteString(labelStyle.Render("UTF-8"))
	b.WriteString(unitStyle.Render(formatBytes(m.view.bytes)))
	b.WriteString(fmt.Sprintf("  (%d bytes)\n", len(m.view.bytes)))

	b.WriteString(labelStyle.Render("Text"))
	b.WriteString(resultStyle.Render(m.view.text))
	if n := countReplacements(transcoder.Units(m.view.text)); n > 0 {
		b.WriteString(errorStyle.Render(fmt.Sprintf("  %d U+FFFD", n)))
	}
	b.WriteString("\n\n")

	b.WriteString(helpStyle.Render("tab switch input • esc quit"))
	return b.String()
}

func runInteractive(f *codec.Facade) error {
	p := tea.NewProgram(newInteractiveModel(f), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
