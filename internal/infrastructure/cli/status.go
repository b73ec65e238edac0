package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/doeshing/shellm/internal/domain"
)

const (
	statusTag    = "[SheLLM]"
	inputPrompt  = "> "
	statusLayout = "15:04:05"
)

var (
	tagStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	timeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	userStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	gitStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	venvStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// FormatStatus renders the line printed above each prompt:
// [SheLLM] [HH:MM:SS] user@host: path (branch | N changes) (venv:name)
func FormatStatus(info domain.PromptInfo) string {
	var b strings.Builder
	b.WriteString(tagStyle.Render(statusTag))
	b.WriteString(" ")
	b.WriteString(timeStyle.Render("[" + info.Time.Format(statusLayout) + "]"))
	b.WriteString(" ")
	b.WriteString(userStyle.Render(info.User + "@" + info.Host))
	b.WriteString(": ")
	b.WriteString(pathStyle.Render(info.Path))
	if info.Git != nil {
		b.WriteString(" ")
		b.WriteString(gitStyle.Render(formatGit(*info.Git)))
	}
	if info.VirtualEnv != "" {
		b.WriteString(" ")
		b.WriteString(venvStyle.Render("(venv:" + info.VirtualEnv + ")"))
	}
	return b.String()
}

func formatGit(git domain.GitStatus) string {
	return fmt.Sprintf("(%s | %d changes)", git.Branch, git.ChangedFiles)
}
