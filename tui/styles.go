package tui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdrpinto/pathfinding"
	"github.com/pdrpinto/pathfinding/grid"
)

var (
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	CurrentStyle    = lipgloss.NewStyle().Background(lipgloss.Color("214")).Foreground(lipgloss.Color("16")).Bold(true)
	DiscoveredStyle = lipgloss.NewStyle().Background(lipgloss.Color("75")).Foreground(lipgloss.Color("16"))
	ProcessedStyle  = lipgloss.NewStyle().Background(lipgloss.Color("42")).Foreground(lipgloss.Color("16"))
	PathStyle       = lipgloss.NewStyle().Background(lipgloss.Color("226")).Foreground(lipgloss.Color("16")).Bold(true)
	WallStyle       = lipgloss.NewStyle().Background(lipgloss.Color("232"))
	EndpointStyle   = lipgloss.NewStyle().Background(lipgloss.Color("170")).Foreground(lipgloss.Color("231")).Bold(true)
	OverlayStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)
	ResultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	FailedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	HelpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// StyleForState returns the cell style of a searched node.
func StyleForState(state pathfinding.NodeState) lipgloss.Style {
	switch state {
	case pathfinding.StateCurrent:
		return CurrentStyle
	case pathfinding.StateDiscovered:
		return DiscoveredStyle
	case pathfinding.StateProcessed:
		return ProcessedStyle
	default:
		return lipgloss.NewStyle()
	}
}

// terrainStyle shades untouched cells from light (low) to dark (high) greys.
func terrainStyle(height int) lipgloss.Style {
	shade := 254 - height*16/grid.HeightSteps
	return lipgloss.NewStyle().
		Background(lipgloss.Color(strconv.Itoa(shade))).
		Foreground(lipgloss.Color("16"))
}
