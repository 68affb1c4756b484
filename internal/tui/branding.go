package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const AppName = "riffle"

// ASCII art logo lines for riffle - canonical definition
var LogoLines = []string{
	"        ▄▄  ▄████ ▄████ ▄▄",
	"██▄██▄  ██  ██▄   ██▄   ██   ▄████▄",
	"███▀    ██  ██▀   ██▀   ██   ██▄▄██",
	"██      ██  ██    ██    ██   ██▄▄▄▄",
	"██      ██  ██    ██    ▀█▄  ▀████▀",
}

// Banner gradient colors
var BannerColors = []lipgloss.Color{
	lipgloss.Color("#7D56F4"),
	lipgloss.Color("#9D7BF4"),
	lipgloss.Color("#95E1D3"),
	lipgloss.Color("#4ECDC4"),
	lipgloss.Color("#7D56F4"),
}

// Brand colors. The tab strip takes its colors from the config so users can
// retheme it; everything here is the built-in default palette.
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Violet
	SecondaryColor = lipgloss.Color("#4ECDC4") // Teal
	AccentColor    = lipgloss.Color("#95E1D3") // Mint

	BackgroundColor = lipgloss.Color("#1A1A2E") // Deep night
	SurfaceColor    = lipgloss.Color("#16213E") // Midnight blue
	TextColor       = lipgloss.Color("#EAEAEA") // Soft white
	MutedColor      = lipgloss.Color("#94A3B8") // Muted gray-blue

	UnreadColor  = lipgloss.Color("#FFE66D") // Bright yellow - new/unread
	ReadColor    = lipgloss.Color("#64748B") // Slate - read/past
	ErrorColor   = lipgloss.Color("#F38181") // Soft red
	SuccessColor = lipgloss.Color("#98FB98") // Pale green
)

// Styled components
var (
	LogoStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	TitleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(SurfaceColor).
			Bold(true).
			Padding(0, 2)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	UnreadItemStyle = lipgloss.NewStyle().
			Foreground(UnreadColor).
			Bold(true)

	ReadItemStyle = lipgloss.NewStyle().
			Foreground(ReadColor)

	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	TimeStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Faint(true)

	SeparatorStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// Status styles by severity
	StatusInfoStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	StatusSuccessStyle = lipgloss.NewStyle().
				Foreground(SuccessColor)

	StatusWarnStyle = lipgloss.NewStyle().
			Foreground(UnreadColor)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true)
)

// GetWelcomeMessage renders the first-run banner for an empty source list.
// addKey is the configured add-source binding.
func GetWelcomeMessage(addKey string) string {
	return GetCompactBanner(fmt.Sprintf("Press %s to add your first feed", addKey))
}

func GetCompactBanner(message string) string {
	var coloredLines []string
	for _, line := range LogoLines {
		coloredLines = append(coloredLines, LogoStyle.Render(line))
	}

	logo := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		logo,
		"",
		HelpStyle.Render(message),
	)
}

// ShowBanner prints the startup banner to stdout. Only the CLI calls this;
// inside the TUI stdout belongs to Bubble Tea.
func ShowBanner(version string) {
	lines := make([]string, len(LogoLines)+1)
	copy(lines, LogoLines)
	lines[len(LogoLines)] = ""

	versionTag := version
	if versionTag != "" && versionTag != "dev" {
		if versionTag[0] != 'v' && versionTag[0] != 'V' {
			versionTag = "v" + versionTag
		}
		lines = append(lines, fmt.Sprintf("    Swipeable Feed Reader %s", versionTag))
	} else {
		lines = append(lines, "    Swipeable Feed Reader")
	}

	var coloredLines []string
	for i, line := range lines {
		if line == "" {
			coloredLines = append(coloredLines, line)
			continue
		}

		colorIdx := i % len(BannerColors)
		style := lipgloss.NewStyle().
			Foreground(BannerColors[colorIdx]).
			Bold(i < len(LogoLines))

		coloredLines = append(coloredLines, style.Render(line))
	}

	borderChars := lipgloss.Border{
		Top:         "═",
		Bottom:      "═",
		Left:        "║",
		Right:       "║",
		TopLeft:     "╔",
		TopRight:    "╗",
		BottomLeft:  "╚",
		BottomRight: "╝",
	}

	borderStyle := lipgloss.NewStyle().
		Border(borderChars).
		BorderForeground(SecondaryColor).
		Padding(1, 3).
		MarginTop(1)

	banner := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)
	output := borderStyle.Render(banner)

	fmt.Println(lipgloss.NewStyle().
		Width(70).
		Align(lipgloss.Center).
		Render(output))

	separator := lipgloss.NewStyle().
		Foreground(AccentColor).
		Render("◆ ◇ ◆ ◇ ◆")

	fmt.Println(lipgloss.NewStyle().
		Width(70).
		Align(lipgloss.Center).
		MarginBottom(1).
		Render(separator))
}
