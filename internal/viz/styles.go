package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffff"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(22)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	focusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff00ff"))

	canvasStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3d5afe"))

	graphStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("49"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666688")).
			Italic(true)

	statusStyles = map[string]lipgloss.Style{
		"idle":      lipgloss.NewStyle().Foreground(lipgloss.Color("#888899")),
		"running":   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88")),
		"stopped":   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00")),
		"completed": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ccff")),
	}

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#00ccff")).
			Padding(1, 3)

	errorDialogStyle = dialogStyle.
				BorderForeground(lipgloss.Color("#ff4444"))
)

func statusBadge(phase string) string {
	style, ok := statusStyles[phase]
	if !ok {
		style = statusStyles["idle"]
	}
	return style.Render(strings.ToUpper(phase))
}

// Dialog renders a titled modal box.
func Dialog(title, body string, isError bool) string {
	style := dialogStyle
	if isError {
		style = errorDialogStyle
	}
	content := titleStyle.Render(title) + "\n\n" + body + "\n\n" + helpStyle.Render("press enter to dismiss")
	return style.Render(content)
}
