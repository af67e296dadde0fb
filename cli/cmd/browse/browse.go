// Package browse implements an interactive terminal explorer for parsed
// documents.
//
// The explorer lists the keys of one block at a time. Blocks are opened with
// enter and closed with backspace, and the listing can be narrowed with a
// fuzzy filter.
package browse

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/pconf/lang"
)

// chromeLines is the number of view lines not used by the listing.
const chromeLines = 4

type entry struct {
	key     string
	value   lang.Value
	matched []int
}

type styles struct {
	path     lipgloss.Style
	cursor   lipgloss.Style
	key      lipgloss.Style
	match    lipgloss.Style
	text     lipgloss.Style
	null     lipgloss.Style
	block    lipgloss.Style
	help     lipgloss.Style
	selected lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		path:     lipgloss.NewStyle().Bold(true),
		cursor:   lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true),
		key:      lipgloss.NewStyle(),
		match:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Underline(true),
		text:     lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		null:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		block:    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		help:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		selected: lipgloss.NewStyle().Bold(true),
	}
}

// Model is the explorer state. It implements [tea.Model].
type Model struct {
	root    *lang.Map
	path    []string
	entries []entry
	filter  textinput.Model
	styles  styles
	cursor  int
	height  int
}

// New returns a Model positioned at the top level of doc.
func New(doc *lang.Map) Model {
	if doc == nil {
		doc = lang.NewMap()
	}

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "filter"

	m := Model{
		root:   doc,
		filter: ti,
		styles: defaultStyles(),
	}

	return m.refresh()
}

// Run starts the explorer on doc and blocks until the user quits or ctx
// is done.
func Run(ctx context.Context, doc *lang.Map, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)

	_, err := tea.NewProgram(New(doc), opts...).Run()

	return err
}

// Path returns the keys leading to the block being listed.
func (m Model) Path() []string { return slices.Clone(m.path) }

// Keys returns the keys currently listed, in display order.
func (m Model) Keys() []string {
	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.key
	}

	return keys
}

// Selected returns the entry under the cursor.
func (m Model) Selected() (string, lang.Value, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return "", lang.Value{}, false
	}

	e := m.entries[m.cursor]

	return e.key, e.value, true
}

// Init implements [tea.Model].
func (m Model) Init() tea.Cmd { return nil }

// Update implements [tea.Model].
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height

		return m, nil

	case tea.KeyMsg:
		if m.filter.Focused() {
			return m.updateFilter(msg)
		}

		return m.updateList(msg)
	}

	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.filter.SetValue("")
		m.filter.Blur()

		return m.refresh(), nil

	case "enter":
		m.filter.Blur()

		return m, nil

	case "up", "down":
		return m.move(msg.String()), nil
	}

	var cmd tea.Cmd

	m.filter, cmd = m.filter.Update(msg)

	return m.refresh(), cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k", "down", "j", "home", "g", "end", "G":
		return m.move(key), nil

	case "enter", "right", "l":
		return m.descend(), nil

	case "backspace", "left", "h":
		return m.ascend(), nil

	case "/":
		cmd := m.filter.Focus()

		return m, cmd

	case "esc":
		m.filter.SetValue("")

		return m.refresh(), nil
	}

	return m, nil
}

func (m Model) move(key string) Model {
	switch key {
	case "up", "k":
		m.cursor--
	case "down", "j":
		m.cursor++
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(m.entries) - 1
	}

	return m.clamp()
}

func (m Model) descend() Model {
	key, val, ok := m.Selected()
	if !ok || val.Kind != lang.KindBlock {
		return m
	}

	m.path = append(slices.Clone(m.path), key)
	m.cursor = 0
	m.filter.SetValue("")

	return m.refresh()
}

func (m Model) ascend() Model {
	if len(m.path) == 0 {
		return m
	}

	last := m.path[len(m.path)-1]
	m.path = slices.Clone(m.path[:len(m.path)-1])
	m.filter.SetValue("")
	m = m.refresh()
	m.cursor = max(0, slices.Index(m.Keys(), last))

	return m
}

// current returns the block being listed.
func (m Model) current() *lang.Map {
	block := m.root

	for _, key := range m.path {
		v, ok := block.Get(key)
		if !ok || v.Kind != lang.KindBlock {
			return lang.NewMap()
		}

		block = v.Block
	}

	return block
}

// refresh rebuilds the listing from the current block and filter.
func (m Model) refresh() Model {
	block := m.current()
	query := strings.TrimSpace(m.filter.Value())

	m.entries = m.entries[:0:0]

	if query == "" {
		for k, v := range block.All() {
			m.entries = append(m.entries, entry{key: k, value: v})
		}
	} else {
		for _, match := range fuzzy.Find(query, block.Keys()) {
			v, _ := block.Get(match.Str)
			m.entries = append(m.entries, entry{
				key:     match.Str,
				value:   v,
				matched: match.MatchedIndexes,
			})
		}
	}

	return m.clamp()
}

func (m Model) clamp() Model {
	m.cursor = max(0, min(m.cursor, len(m.entries)-1))

	return m
}

// View implements [tea.Model].
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.path.Render(m.breadcrumb()))
	sb.WriteByte('\n')
	sb.WriteString(m.filter.View())
	sb.WriteByte('\n')

	first, last := m.window()

	if len(m.entries) == 0 {
		sb.WriteString(m.styles.null.Render("  (empty)"))
		sb.WriteByte('\n')
	}

	for i := first; i < last; i++ {
		sb.WriteString(m.renderEntry(i))
		sb.WriteByte('\n')
	}

	sb.WriteString(m.styles.help.Render(
		"↑/↓ move · enter open · backspace up · / filter · q quit"))

	return sb.String()
}

func (m Model) breadcrumb() string {
	return strings.Join(append([]string{"."}, m.path...), " ▸ ")
}

// window returns the range of entries that fit the terminal height, keeping
// the cursor visible.
func (m Model) window() (int, int) {
	n := len(m.entries)
	rows := m.height - chromeLines

	if m.height <= 0 || rows >= n {
		return 0, n
	}

	rows = max(1, rows)
	first := max(0, min(m.cursor-rows/2, n-rows))

	return first, first + rows
}

func (m Model) renderEntry(i int) string {
	e := m.entries[i]

	prefix := "  "
	key := m.renderKey(e)

	if i == m.cursor {
		prefix = m.styles.cursor.Render("> ")
		key = m.styles.selected.Render(key)
	}

	switch e.value.Kind {
	case lang.KindBlock:
		return prefix + key + " " +
			m.styles.block.Render(fmt.Sprintf("{%d}", e.value.Block.Len()))
	case lang.KindString:
		return prefix + key + " = " +
			m.styles.text.Render(fmt.Sprintf("%q", e.value.Text))
	default:
		return prefix + key + " " + m.styles.null.Render("(null)")
	}
}

func (m Model) renderKey(e entry) string {
	if len(e.matched) == 0 {
		return m.styles.key.Render(e.key)
	}

	var sb strings.Builder

	for i, r := range e.key {
		if slices.Contains(e.matched, i) {
			sb.WriteString(m.styles.match.Render(string(r)))
		} else {
			sb.WriteRune(r)
		}
	}

	return sb.String()
}
