package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"coursemap/internal/domain"
	"coursemap/internal/service"
)

// The TUI caps its own retrieval depth; the matcher itself does not.
const maxTopK = 10

// MatchPort is the TUI-facing subset of the pipeline.
type MatchPort interface {
	Match(ctx context.Context, name, description string, credits, topK int) (service.MatchResult, error)
}

const (
	fieldName = iota
	fieldDescription
	fieldCredits
	fieldCount
)

// Model is the Bubble Tea model for the interactive course-matching form.
type Model struct {
	pipeline MatchPort
	topK     int

	inputs   [fieldCount]textinput.Model
	focus    int
	viewport viewport.Model
	result   *service.MatchResult
	status   string
	ready    bool
}

// New creates a new TUI model instance.
func New(pipeline MatchPort, topK int) Model {
	if topK <= 0 || topK > maxTopK {
		topK = 5
	}
	var inputs [fieldCount]textinput.Model
	name := textinput.New()
	name.Prompt = "Nom du cours > "
	name.Placeholder = "Ex: Data Structures"
	name.Focus()
	inputs[fieldName] = name

	desc := textinput.New()
	desc.Prompt = "Description  > "
	desc.Placeholder = "optional"
	inputs[fieldDescription] = desc

	credits := textinput.New()
	credits.Prompt = "Crédits      > "
	credits.Placeholder = "6"
	credits.CharLimit = 2
	inputs[fieldCredits] = credits

	vp := viewport.New(0, 0)
	return Model{
		pipeline: pipeline,
		topK:     topK,
		inputs:   inputs,
		viewport: vp,
		status:   "Fill the form and press Enter to search. Tab switches fields.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		reserved := fieldCount + 3 // form lines + header + status + spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderResult())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "tab", "shift+tab":
			if msg.String() == "tab" {
				m.focus = (m.focus + 1) % fieldCount
			} else {
				m.focus = (m.focus - 1 + fieldCount) % fieldCount
			}
			for i := range m.inputs {
				if i == m.focus {
					m.inputs[i].Focus()
				} else {
					m.inputs[i].Blur()
				}
			}
			return m, nil
		case "enter":
			name := strings.TrimSpace(m.inputs[fieldName].Value())
			if name == "" {
				m.status = "Course name is required."
				return m, nil
			}
			description := strings.TrimSpace(m.inputs[fieldDescription].Value())
			credits, _ := strconv.Atoi(strings.TrimSpace(m.inputs[fieldCredits].Value()))
			res, err := m.pipeline.Match(context.Background(), name, description, credits, m.topK)
			if err != nil {
				m.status = "Error: " + err.Error()
				m.result = nil
			} else {
				m.status = fmt.Sprintf("Top %d UV for %q", len(res.Candidates), name)
				m.result = &res
			}
			m.viewport.SetContent(m.renderResult())
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// View renders the form, the verdict and the candidate list.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("UTC Course Mapper")
	var form strings.Builder
	for i := range m.inputs {
		form.WriteString(m.inputs[i].View())
		if i < fieldCount-1 {
			form.WriteString("\n")
		}
	}
	results := resultBoxStyle.Render(m.viewport.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + form.String() + "\n" + results + "\n" + status
}

func (m Model) renderResult() string {
	if m.result == nil {
		return "No results yet."
	}
	var b strings.Builder
	switch {
	case m.result.Verdict != nil && m.result.Verdict.IsMatch:
		v := m.result.Verdict
		b.WriteString(verdictStyle.Render(fmt.Sprintf("Recommandation: [%s] %s", v.Code, v.Name)))
		b.WriteString("\n" + v.Justification + "\n\n")
	case m.result.Verdict != nil:
		b.WriteString(verdictStyle.Render("Aucune correspondance trouvée"))
		b.WriteString("\n" + m.result.Verdict.Justification + "\n\n")
	default:
		b.WriteString(warnStyle.Render(adjudicationNotice(m.result.AdjudicationErr)))
		b.WriteString("\n\n")
	}
	for _, c := range m.result.Candidates {
		b.WriteString(fmt.Sprintf("#%d [%s] %s  %d%%\n", c.Rank, c.Code, c.Name, int(c.Score*100)))
		b.WriteString(fmt.Sprintf("   Type: %s | Crédits: %d | Semestre: %s\n", c.Kind, c.Credits, c.Term))
		if c.Description != "" {
			b.WriteString("   " + c.Description + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func adjudicationNotice(err error) string {
	var parseErr *domain.VerdictParseError
	switch {
	case errors.Is(err, domain.ErrCompleterUnavailable):
		return "Adjudication unavailable, showing raw candidates."
	case errors.As(err, &parseErr):
		return "Verdict unparseable, showing raw candidates.\nRaw: " + parseErr.Raw
	case err != nil:
		return "Adjudication failed: " + err.Error()
	}
	return ""
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	verdictStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)
