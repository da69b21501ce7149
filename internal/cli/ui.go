package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// UI styles
var (
	agentStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		PaddingLeft(1)

	promptLabelStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#3B82F6"))

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)

	infoStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280"))

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#3B82F6")).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#3B82F6")).
		Padding(0, 2)
)

// DisplayWelcomeBanner shows the welcome banner
func DisplayWelcomeBanner() {
	banner := `
███████╗██╗███╗   ██╗ ██████╗██╗  ██╗ █████╗ ████████╗
██╔════╝██║████╗  ██║██╔════╝██║  ██║██╔══██╗╚══██╔══╝
█████╗  ██║██╔██╗ ██║██║     ███████║███████║   ██║
██╔══╝  ██║██║╚██╗██║██║     ██╔══██║██╔══██║   ██║
██║     ██║██║ ╚████║╚██████╗██║  ██║██║  ██║   ██║
╚═╝     ╚═╝╚═╝  ╚═══╝ ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝
`

	welcomeStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true).
		Align(lipgloss.Center).
		Width(60)

	taglineStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3B82F6")).
		Italic(true).
		Align(lipgloss.Center).
		Width(60).
		MarginBottom(1)

	fmt.Print(welcomeStyle.Render(banner))
	fmt.Println()
	fmt.Println(taglineStyle.Render("💬 Conversational Financial Analysis Assistant 💬"))
}

// DisplayAgentReply prints the assistant's reply for one turn.
func DisplayAgentReply(reply string) {
	fmt.Println()
	fmt.Println(agentStyle.Render(reply))
	fmt.Println()
}

// DisplaySessionHeader shows which session the chat is attached to.
func DisplaySessionHeader(sessionID string, companies []string) {
	header := fmt.Sprintf("💼 Session: %s", sessionID)
	if len(companies) > 0 {
		header += fmt.Sprintf(" | 📊 Context: %s", strings.Join(companies, ", "))
	}
	fmt.Println(headerStyle.Render(header))
	fmt.Println()
}

// DisplayError prints an error line.
func DisplayError(err error) {
	fmt.Println(errorStyle.Render(fmt.Sprintf("❌ %v", err)))
}

// DisplayInfo prints a muted status line.
func DisplayInfo(msg string) {
	fmt.Println(infoStyle.Render(msg))
}
