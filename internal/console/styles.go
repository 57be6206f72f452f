package console

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorSecondary = lipgloss.Color("#10B981")
	colorError     = lipgloss.Color("#EF4444")
	colorMuted     = lipgloss.Color("#6B7280")
	colorFg        = lipgloss.Color("#F9FAFB")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	PromptStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	EchoStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	ReplyStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	CandidateStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Italic(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)
