package mapview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Feedback overlay: presentational only. The hint flag tracks focus/blur of
// the trigger control and is independent of the detection state.

var (
	buttonStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("28")).Padding(0, 1)
	buttonDisabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Background(lipgloss.Color("238")).Padding(0, 1)
	hintStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	errorStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("124")).Padding(0, 1)
)

const idleGlyph = "◎"

// FocusButton marks the trigger control focused, revealing the privacy
// notice.
func (m *Model) FocusButton() { m.showHint = true }

// BlurButton hides the privacy notice.
func (m *Model) BlurButton() { m.showHint = false }

// HintVisible reports whether the privacy notice is showing.
func (m *Model) HintVisible() bool { return m.showHint }

// View renders the map plus the feedback overlay: trigger control, privacy
// hint, and the error banner bound to the detection error.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.mapPrimitive.View())

	if m.opts.ShowCurrentLocationButton {
		b.WriteByte('\n')
		b.WriteString(m.buttonView())
	}
	if m.showHint {
		b.WriteByte('\n')
		b.WriteString(hintStyle.Render(m.lookup("map.privacyNotice")))
	}
	if m.errText != "" {
		b.WriteByte('\n')
		b.WriteString(errorStyle.Render(m.errText))
	}
	return b.String()
}

// buttonView renders the detection trigger: spinner glyph and disabled
// styling while locating, idle glyph otherwise.
func (m *Model) buttonView() string {
	if m.state == StateLocating {
		return buttonDisabledStyle.Render(m.spin.View() + m.lookup("map.detecting"))
	}
	return buttonStyle.Render(idleGlyph + " " + m.lookup("map.detectButton"))
}

func (m *Model) lookup(key string) string {
	if m.tr == nil {
		return key
	}
	return m.tr.Lookup(key)
}
