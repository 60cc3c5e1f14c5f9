package gb

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
)

// debugModel is a bubbletea model stepping one whole frame (RunFrame) of
// execution per keypress, a direct generalization of hejops-gone's NES
// CPU/page-table viewer to the Gb's register file and page cache.
type debugModel struct {
	gb *Gb

	lastErr error
}

func (m debugModel) Init() tea.Cmd { return nil }

func (m debugModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "n":
			func() {
				defer func() {
					if r := recover(); r != nil {
						m.lastErr = fmt.Errorf("panic entering block: %v", r)
					}
				}()
				m.gb.RunFrame()
			}()
		}
	}
	return m, nil
}

// renderPage renders one 16-byte row of the page currently containing pc.
func (m debugModel) renderPage(start uint16) string {
	s := fmt.Sprintf("%04x | ", start)
	for i := uint16(0); i < 16; i++ {
		b := m.gb.wrapped.Read(start + i)
		if start+i == m.gb.Cpu.PC {
			s += fmt.Sprintf("[%02x] ", b)
		} else {
			s += fmt.Sprintf(" %02x  ", b)
		}
	}
	return s
}

func (m debugModel) pageTable() string {
	base := m.gb.Cpu.PC &^ 0xF
	var rows []string
	for i := -2; i <= 2; i++ {
		start := uint16(int(base) + i*16)
		rows = append(rows, m.renderPage(start))
	}
	return strings.Join(rows, "\n")
}

func (m debugModel) status() string {
	s := fmt.Sprintf("%s\nclk: %d  ppu-line: %d  halted-ish: %v",
		m.gb.Cpu.String(), m.gb.cycles.Cycle(), m.gb.ppu.line, m.gb.ifPending != 0)
	if m.lastErr != nil {
		s += "\nerror: " + m.lastErr.Error()
	}
	return s
}

func (m debugModel) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, m.pageTable(), "  "+m.status()),
		"",
		spew.Sdump(m.gb.execState),
	)
}

// Debug starts an interactive TUI over g: space/n steps one frame, q quits.
func Debug(g *Gb) error {
	_, err := tea.NewProgram(debugModel{gb: g}).Run()
	return err
}
