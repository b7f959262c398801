package main

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"rcg/internal/gender"
)

var (
	maleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
	femaleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#EC4899"))
	nonBinaryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	collectiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	mutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	headingStyle    = lipgloss.NewStyle().Bold(true)
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// genderLabel renders a label as "m (male)", coloured on terminals.
func genderLabel(value string, colorize bool) string {
	label := gender.Label(value)
	text := value + " (" + label.Describe() + ")"
	if value == "" {
		label = gender.Unknown
		text = "- (unclassified)"
	}
	if !colorize {
		return text
	}
	switch {
	case label == gender.Male:
		return maleStyle.Render(text)
	case label == gender.Female:
		return femaleStyle.Render(text)
	case label == gender.NonBinary:
		return nonBinaryStyle.Render(text)
	case label == gender.Collective:
		return collectiveStyle.Render(text)
	default:
		return mutedStyle.Render(text)
	}
}

func heading(text string, colorize bool) string {
	if colorize {
		return headingStyle.Render(text)
	}
	return text
}
