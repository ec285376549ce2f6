package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ukern/kernel"
)

var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

type tickMsg time.Time

type tuiModel struct {
	k      *kernel.Kernel_t
	table  table.Model
	paused bool
	nprocs int
	height int
}

func initialModel(k *kernel.Kernel_t) tuiModel {
	columns := []table.Column{
		{Title: "PID", Width: 6},
		{Title: "Name", Width: 20},
		{Title: "State", Width: 12},
		{Title: "Open FDs", Width: 10},
		{Title: "Status", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(true)
	t.SetStyles(s)

	return tuiModel{k: k, table: t}
}

func tick() tea.Cmd {
	return tea.Tick(*interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	return tick()
}

func (m *tuiModel) refresh() {
	procs := m.k.Proclist()
	m.nprocs = len(procs)
	rows := make([]table.Row, 0, len(procs))
	for _, pi := range procs {
		status := "-"
		if pi.State == "terminated" {
			status = strconv.Itoa(pi.Status)
		}
		rows = append(rows, table.Row{
			strconv.Itoa(pi.Pid),
			pi.Name,
			pi.State,
			strconv.Itoa(pi.Nfds),
			status,
		})
	}
	m.table.SetRows(rows)
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "p":
			m.paused = !m.paused
			return m, nil
		}
	case tickMsg:
		if !m.paused {
			m.refresh()
		}
		return m, tick()
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.table.SetHeight(m.height - 8)
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m tuiModel) View() string {
	title := "ukmon: process table"
	if m.paused {
		title += " (PAUSED)"
	}
	out := lipgloss.NewStyle().Foreground(lipgloss.Color("57")).Bold(true).Render(title) + "\n\n"
	out += baseStyle.Render(m.table.View()) + "\n"
	out += lipgloss.NewStyle().Foreground(lipgloss.Color("240")).
		Render(fmt.Sprintf("\n  %d processes • q: quit • p: pause", m.nprocs)) + "\n"
	return out
}

func run(k *kernel.Kernel_t) error {
	p := tea.NewProgram(initialModel(k), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
