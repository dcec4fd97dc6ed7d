package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ChannelStatus is the state of one pipeline stage (feed, telegram, stream).
type ChannelStatus struct {
	Name   string
	State  string
	Active bool
}

// StatusComponent renders pipeline status.
type StatusComponent struct {
	channels []ChannelStatus
}

// NewStatusComponent creates a new status component.
func NewStatusComponent() *StatusComponent {
	return &StatusComponent{
		channels: make([]ChannelStatus, 0),
	}
}

// Update updates a channel's status.
func (s *StatusComponent) Update(status ChannelStatus) {
	for i, ch := range s.channels {
		if ch.Name == status.Name {
			s.channels[i] = status
			return
		}
	}
	s.channels = append(s.channels, status)
}

// Get returns the status of a channel.
func (s *StatusComponent) Get(name string) (ChannelStatus, bool) {
	for _, ch := range s.channels {
		if ch.Name == name {
			return ch, true
		}
	}
	return ChannelStatus{}, false
}

// View renders the status component on one line.
func (s *StatusComponent) View() string {
	if len(s.channels) == 0 {
		return ""
	}

	on := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	off := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	parts := make([]string, 0, len(s.channels))
	for _, ch := range s.channels {
		if ch.Active {
			parts = append(parts, on.Render("● "+ch.Name+" "+ch.State))
		} else {
			parts = append(parts, off.Render("○ "+ch.Name+" "+ch.State))
		}
	}
	return strings.Join(parts, "  │  ")
}
