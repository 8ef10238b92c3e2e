// Package tui provides the Bubble Tea progress dashboard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/clock"
	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/model"
	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/pace"
	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/stats"
	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/store"
	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/watch"
)

const (
	modeView = iota
	modeEdit
	modeConfirmReset
)

const (
	inputPage = iota
	inputLine
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	modalStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))

	statusStyles = map[model.Status]lipgloss.Style{
		model.StatusAhead:   lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true),
		model.StatusOnTrack: lipgloss.NewStyle().Foreground(lipgloss.Color("#FAAD14")).Bold(true),
		model.StatusBehind:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true),
	}
)

// TickMsg carries the time of a scheduler tick into the program.
type TickMsg time.Time

type dbChangedMsg watch.Event

// Model implements the Bubble Tea dashboard.
type Model struct {
	store  *store.Store
	prefs  model.Preferences
	clock  *clock.Cell
	events <-chan watch.Event
	log    zerolog.Logger

	state  stats.State
	snap   stats.Snapshot
	errMsg string
	notice string

	width  int
	height int

	totalBar progress.Model
	hatamBar progress.Model

	mode       int
	inputs     []textinput.Model
	inputIndex int
	inputError string
}

// NewModel constructs a dashboard model. The cell is refreshed by an
// external scheduler which also sends TickMsg; events may be nil when file
// watching is unavailable.
func NewModel(st *store.Store, prefs model.Preferences, cell *clock.Cell, events <-chan watch.Event, log zerolog.Logger) *Model {
	if prefs.Location == nil {
		prefs.Location = time.Local
	}
	if cell == nil {
		cell = clock.NewCell(time.Now())
	}
	m := &Model{
		store:    st,
		prefs:    prefs,
		clock:    cell,
		events:   events,
		log:      log.With().Str("component", "tui").Logger(),
		totalBar: newBar(),
		hatamBar: newBar(),
	}
	m.initInputs()
	m.reload()
	return m
}

func newBar() progress.Model {
	return progress.New(
		progress.WithScaledGradient("#8C6A2A", "#C89A3A"),
		progress.WithoutPercentage(),
		progress.WithWidth(30),
	)
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m *Model) waitForChange() tea.Cmd {
	if m.events == nil {
		return nil
	}
	events := m.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return dbChangedMsg(ev)
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case TickMsg:
		m.clock.Set(time.Time(msg))
		m.recompute()
		return m, nil
	case dbChangedMsg:
		m.log.Debug().Str("path", msg.Path).Str("op", msg.Op).Msg("database changed")
		m.reload()
		return m, m.waitForChange()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeEdit:
			return m.updateEdit(msg)
		case modeConfirmReset:
			return m.updateConfirmReset(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "r":
			m.reload()
			m.notice = "Data dimuat ulang."
			return m, nil
		case "e":
			if !m.state.HasConfig {
				return m, nil
			}
			return m.startEdit()
		case "x":
			m.clearPosition()
			return m, nil
		case "R":
			m.mode = modeConfirmReset
			return m, nil
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.mode {
	case modeEdit:
		body = m.renderEditModal()
	case modeConfirmReset:
		body = m.renderResetModal()
	default:
		body = m.renderDashboard()
	}
	if m.width == 0 || m.height == 0 {
		return body + "\n" + m.renderFooter()
	}
	if m.mode != modeView {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	bodyHeight := m.height - 1
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return fitLines(body, m.width, bodyHeight) + "\n" + fitLines(m.renderFooter(), m.width, 1)
}

func (m *Model) reload() {
	state, err := stats.LoadState(context.Background(), m.store, m.prefs.Location)
	if err != nil {
		m.log.Error().Err(err).Msg("failed to load tracker state")
		m.errMsg = fmt.Sprintf("Gagal memuat data: %v", err)
		return
	}
	m.errMsg = ""
	m.state = state
	m.recompute()
}

func (m *Model) recompute() {
	if !m.state.HasConfig {
		m.snap = stats.Snapshot{}
		return
	}
	m.snap = stats.BuildSnapshot(m.state.Config, m.state.Actual, m.clock.Now().In(m.prefs.Location))
}

func (m *Model) updateLayout() {
	barWidth := stats.BarWidthFor(m.width)
	m.totalBar.Width = barWidth
	m.hatamBar.Width = barWidth
	for i := range m.inputs {
		m.inputs[i].Width = 6
	}
}

func (m *Model) initInputs() {
	m.inputs = []textinput.Model{
		newPositionInput("Halaman: ", "1-604", 3),
		newPositionInput("Baris:   ", "1-15", 2),
	}
}

func newPositionInput(prompt, placeholder string, limit int) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Placeholder = placeholder
	input.CharLimit = limit
	input.Validate = digitsOnly
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func digitsOnly(s string) error {
	for _, r := range s {
		if r < '0' || r > '9' {
			return errors.New("hanya angka")
		}
	}
	return nil
}

func (m *Model) startEdit() (tea.Model, tea.Cmd) {
	m.mode = modeEdit
	m.inputError = ""
	m.notice = ""
	page, line := "", ""
	if m.state.Actual != nil {
		page = strconv.Itoa(m.state.Actual.Page)
		line = strconv.Itoa(m.state.Actual.Line)
	}
	m.inputs[inputPage].SetValue(page)
	m.inputs[inputLine].SetValue(line)
	return m, m.setInputIndex(inputPage)
}

func (m *Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeView
		m.inputError = ""
		return m, nil
	case tea.KeyEnter:
		if m.inputIndex == inputPage && strings.TrimSpace(m.inputs[inputLine].Value()) == "" {
			return m, m.setInputIndex(inputLine)
		}
		if err := m.applyEdit(); err != nil {
			m.inputError = err.Error()
			return m, nil
		}
		m.mode = modeView
		m.inputError = ""
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.setInputIndex(m.inputIndex + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.setInputIndex(m.inputIndex - 1)
	}
	var cmd tea.Cmd
	m.inputs[m.inputIndex], cmd = m.inputs[m.inputIndex].Update(msg)
	return m, cmd
}

func (m *Model) setInputIndex(idx int) tea.Cmd {
	count := len(m.inputs)
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.inputIndex = idx
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == m.inputIndex {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyEdit() error {
	page, line, err := parsePosition(m.inputs[inputPage].Value(), m.inputs[inputLine].Value())
	if err != nil {
		return err
	}
	pos := model.ActualPosition{Page: page, Line: line, UpdatedAt: m.clock.Now()}
	if err := m.store.SaveActualPosition(context.Background(), pos); err != nil {
		m.log.Error().Err(err).Msg("failed to save position")
		return fmt.Errorf("gagal menyimpan posisi: %v", err)
	}
	m.log.Info().Int("page", page).Int("line", line).Msg("position saved")
	m.reload()
	m.notice = "Posisi disimpan: " + pace.FormatPageLine(model.Position{Page: page, Line: line})
	return nil
}

func parsePosition(pageInput, lineInput string) (int, int, error) {
	page, err := strconv.Atoi(strings.TrimSpace(pageInput))
	if err != nil || page < 1 || page > pace.TotalPages {
		return 0, 0, fmt.Errorf("halaman harus antara 1 dan %d", pace.TotalPages)
	}
	line, err := strconv.Atoi(strings.TrimSpace(lineInput))
	if err != nil || line < 1 || line > pace.LinesPerPage {
		return 0, 0, fmt.Errorf("baris harus antara 1 dan %d", pace.LinesPerPage)
	}
	return page, line, nil
}

func (m *Model) clearPosition() {
	if m.state.Actual == nil {
		return
	}
	if err := m.store.Position().Clear(context.Background()); err != nil {
		m.log.Error().Err(err).Msg("failed to clear position")
		m.errMsg = fmt.Sprintf("Gagal menghapus posisi: %v", err)
		return
	}
	m.reload()
	m.notice = "Posisi aktual dihapus."
}

func (m *Model) updateConfirmReset(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = modeView
		if err := m.store.ClearAll(context.Background()); err != nil {
			m.log.Error().Err(err).Msg("failed to reset data")
			m.errMsg = fmt.Sprintf("Gagal mereset data: %v", err)
			return m, nil
		}
		m.log.Info().Msg("tracker data reset")
		m.reload()
		m.notice = "Semua data dihapus."
	case "n", "N", "esc":
		m.mode = modeView
	}
	return m, nil
}

func (m *Model) renderDashboard() string {
	title := titleStyle.Render("Quran Tracker")
	if !m.state.HasConfig {
		lines := []string{
			title,
			"",
			"Belum ada target. Jalankan `quran-tracker setup --start YYYY-MM-DD --target N`.",
		}
		if m.errMsg != "" {
			lines = append(lines, errorStyle.Render(m.errMsg))
		}
		return strings.Join(lines, "\n")
	}
	snap := m.snap
	s := snap.Stats
	header := headerStyle.Render(fmt.Sprintf("%s  |  %d kali hatam  |  %s - %s",
		stats.FormatDateTime(snap.Now),
		snap.TargetCount,
		stats.FormatDate(snap.StartDate),
		stats.FormatDate(snap.EndDate),
	))
	sections := []string{
		title + "  " + header,
		renderCards(s, m.width),
		m.renderProgress(s),
		m.renderActual(),
	}
	if m.notice != "" {
		sections = append(sections, noticeStyle.Render(m.notice))
	}
	if m.errMsg != "" {
		sections = append(sections, errorStyle.Render(m.errMsg))
	}
	return strings.Join(sections, "\n\n")
}

func renderCards(s model.TargetStats, width int) string {
	cards := []string{
		metricCard("Posisi target", pace.FormatPageLine(s.TargetPosition)),
		metricCard("Hatam ke", fmt.Sprintf("%d", s.CurrentHatam)),
		metricCard("Pace", fmt.Sprintf("%.2f hal/jam", s.PacePerHour)),
		metricCard("Waktu berjalan", stats.FormatHours(s.HoursElapsed)),
		metricCard("Sisa waktu", stats.FormatHours(s.HoursRemaining)),
		metricCard("Sisa hari", fmt.Sprintf("%d hari", s.DaysRemaining)),
	}
	if width > 0 && width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func (m *Model) renderProgress(s model.TargetStats) string {
	lines := []string{
		fmt.Sprintf("%s  %s %5.1f%%", cardTitleStyle.Render("Total    "), m.totalBar.ViewAs(s.TotalProgressPercent/100), s.TotalProgressPercent),
		fmt.Sprintf("%s  %s %5.1f%%", cardTitleStyle.Render("Hatam ini"), m.hatamBar.ViewAs(s.CurrentHatamPercent/100), s.CurrentHatamPercent),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderActual() string {
	actual := m.snap.Actual
	if actual == nil || m.snap.Comparison == nil {
		return cardStyle.Render(cardTitleStyle.Render("Posisi aktual") + "\n" + "Belum diisi. Tekan e untuk mengisi.")
	}
	cmp := m.snap.Comparison
	style, ok := statusStyles[cmp.Status]
	if !ok {
		style = cardValueStyle
	}
	content := strings.Join([]string{
		cardTitleStyle.Render("Posisi aktual"),
		cardValueStyle.Render(pace.FormatPageLine(actual.Position())),
		style.Render(cmp.Message),
		headerStyle.Render("Diperbarui " + stats.FormatRelative(actual.UpdatedAt, m.snap.Now)),
	}, "\n")
	return cardStyle.Render(content)
}

func (m *Model) renderEditModal() string {
	body := []string{
		cardValueStyle.Render("Perbarui Posisi"),
		m.inputs[inputPage].View(),
		m.inputs[inputLine].View(),
		headerStyle.Render("Tab: pindah kolom / Enter: simpan / Esc: batal"),
	}
	for _, input := range m.inputs {
		if input.Err != nil {
			body = append(body, errorStyle.Render(input.Prompt+input.Err.Error()))
		}
	}
	if m.inputError != "" {
		body = append(body, errorStyle.Render(m.inputError))
	}
	return modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
}

func (m *Model) renderResetModal() string {
	body := []string{
		cardValueStyle.Render("Reset Data"),
		"Hapus semua data tracker?",
		headerStyle.Render("y: ya / n: batal"),
	}
	return modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
}

func (m *Model) renderFooter() string {
	segments := []string{"e: ubah posisi", "x: hapus posisi", "R: reset", "r: muat ulang", "q: keluar"}
	if m.state.HasConfig {
		segments = append([]string{fmt.Sprintf("Progres %.1f%%", m.snap.Stats.TotalProgressPercent)}, segments...)
	}
	return footerStyle.Render(truncateLine(strings.Join(segments, "  "), m.width))
}
