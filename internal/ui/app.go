// Package ui is the bubbletea front end: it translates terminal input into
// controller events and draws the frames the controller renders. All chart
// logic lives below it; the App only routes messages.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jainsamta1990/TradingPro/internal/chart"
	"github.com/jainsamta1990/TradingPro/internal/model"
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#787b86"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f5c542"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef5350"))
)

// tickInterval drives the live-update drain while a stream is attached.
const tickInterval = time.Second

// loadMsg delivers a completed fetch to Update.
type loadMsg chart.LoadResult

// liveTickMsg fires the periodic live-update drain.
type liveTickMsg time.Time

// searchMsg delivers symbol search results.
type searchMsg struct {
	query   string
	results []model.Symbol
}

// App is the bubbletea model.
type App struct {
	ctrl *chart.Controller

	timeframes   []model.Timeframe
	tfIndex      int
	fetchTimeout time.Duration
	liveUpdates  bool

	// Symbol entry overlay state.
	entering bool
	input    string
	results  []model.Symbol

	width  int
	height int
}

// New creates the App around a controller. timeframes is the shortcut cycle;
// liveUpdates enables the periodic tick drain.
func New(ctrl *chart.Controller, timeframes []model.Timeframe, fetchTimeout time.Duration, liveUpdates bool) *App {
	if len(timeframes) == 0 {
		timeframes = model.DefaultTimeframes
	}
	a := &App{
		ctrl:         ctrl,
		timeframes:   timeframes,
		fetchTimeout: fetchTimeout,
		liveUpdates:  liveUpdates,
	}
	for i, tf := range timeframes {
		if tf == ctrl.Timeframe() {
			a.tfIndex = i
		}
	}
	return a
}

// Init starts the initial fetch and, when streaming, the drain ticker.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.loadCmd(a.ctrl.Symbol(), a.ctrl.Timeframe())}
	if a.liveUpdates {
		cmds = append(cmds, a.tickCmd())
	}
	return tea.Batch(cmds...)
}

// loadCmd runs a fetch off the update goroutine. The generation token is
// captured before the goroutine starts so the result can be matched against
// the view that requested it.
func (a *App) loadCmd(symbol string, tf model.Timeframe) tea.Cmd {
	gen := a.ctrl.BeginLoad(symbol, tf)
	symbol = a.ctrl.Symbol()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), a.fetchTimeout)
		defer cancel()
		return loadMsg(a.ctrl.Load(ctx, gen, symbol, tf))
	}
}

func (a *App) tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return liveTickMsg(t) })
}

// Update routes one terminal event.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// The bottom row is the status line; the chart gets the rest.
		a.ctrl.SetSize(msg.Width, msg.Height-1)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.MouseMsg:
		a.handleMouse(msg)
		return a, nil

	case loadMsg:
		a.ctrl.Apply(chart.LoadResult(msg))
		return a, nil

	case liveTickMsg:
		a.ctrl.DrainTicks()
		return a, a.tickCmd()

	case searchMsg:
		if a.entering && strings.EqualFold(msg.query, a.input) {
			a.results = msg.results
		}
		return a, nil
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.entering {
		return a.handleEntryKey(msg)
	}

	res := a.ctrl.Resolver()
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "/", "s":
		a.entering = true
		a.input = ""
		a.results = nil

	case "left", "h":
		res.Wheel(-8, 0, false)
	case "right", "l":
		res.Wheel(8, 0, false)
	case "+", "=", "up", "k":
		res.Wheel(0, -1, true)
	case "-", "_", "down", "j":
		res.Wheel(0, 1, true)
	case "0":
		res.SetState(res.State().WithZoom(1).WithPan(0))

	case "[":
		a.tfIndex = (a.tfIndex - 1 + len(a.timeframes)) % len(a.timeframes)
		return a, a.loadCmd(a.ctrl.Symbol(), a.timeframes[a.tfIndex])
	case "]":
		a.tfIndex = (a.tfIndex + 1) % len(a.timeframes)
		return a, a.loadCmd(a.ctrl.Symbol(), a.timeframes[a.tfIndex])

	case "r":
		return a, a.loadCmd(a.ctrl.Symbol(), a.ctrl.Timeframe())

	case "esc":
		a.ctrl.ClearPointer()
	}
	return a, nil
}

// handleEntryKey edits the symbol entry overlay.
func (a *App) handleEntryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.entering = false
		a.input = ""
		a.results = nil
		return a, nil

	case "enter":
		symbol := strings.TrimSpace(a.input)
		a.entering = false
		a.input = ""
		a.results = nil
		if symbol == "" {
			return a, nil
		}
		return a, a.loadCmd(symbol, a.ctrl.Timeframe())

	case "backspace":
		if len(a.input) > 0 {
			a.input = a.input[:len(a.input)-1]
		}
		return a, a.searchCmd()

	default:
		if len(msg.String()) == 1 {
			a.input += strings.ToUpper(msg.String())
			return a, a.searchCmd()
		}
	}
	return a, nil
}

// searchCmd kicks off a symbol search for the current input. Results for an
// input the user has since edited are dropped in Update.
func (a *App) searchCmd() tea.Cmd {
	query := a.input
	if len(query) < 2 {
		a.results = nil
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), a.fetchTimeout)
		defer cancel()
		results, err := a.ctrl.Search(ctx, query)
		if err != nil {
			return searchMsg{query: query}
		}
		return searchMsg{query: query, results: results}
	}
}

func (a *App) handleMouse(msg tea.MouseMsg) {
	res := a.ctrl.Resolver()
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		a.ctrl.RecordGesture("wheel")
		res.Wheel(0, -1, msg.Ctrl)
		return
	case tea.MouseButtonWheelDown:
		a.ctrl.RecordGesture("wheel")
		res.Wheel(0, 1, msg.Ctrl)
		return
	case tea.MouseButtonWheelLeft:
		a.ctrl.RecordGesture("wheel")
		res.Wheel(-4, 0, false)
		return
	case tea.MouseButtonWheelRight:
		a.ctrl.RecordGesture("wheel")
		res.Wheel(4, 0, false)
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			a.ctrl.RecordGesture("drag")
			res.MouseDown(float64(msg.X), float64(msg.Y))
		}
	case tea.MouseActionMotion:
		a.ctrl.SetPointer(msg.X, msg.Y)
		res.MouseMove(float64(msg.X), float64(msg.Y))
	case tea.MouseActionRelease:
		res.MouseUp()
	}
}

// View draws the chart frame plus the status line.
func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "loading..."
	}

	frame := a.ctrl.Frame()

	var status string
	switch {
	case a.entering:
		line := promptStyle.Render("symbol> "+a.input+"▌") + "  "
		if len(a.results) > 0 {
			names := make([]string, 0, 4)
			for i, r := range a.results {
				if i == 4 {
					break
				}
				names = append(names, r.ID)
			}
			line += statusStyle.Render("matches: " + strings.Join(names, "  "))
		}
		status = line
	case a.ctrl.Loading():
		status = statusStyle.Render(fmt.Sprintf("loading %s %s ...", a.ctrl.Symbol(), a.ctrl.Timeframe()))
	case a.ctrl.Err() != nil:
		status = errorStyle.Render(a.ctrl.Err().Error()) + "  " +
			statusStyle.Render("r retry · / symbol · q quit")
	default:
		status = statusStyle.Render("drag/wheel navigate · +/- zoom · [ ] timeframe · / symbol · 0 reset · q quit")
	}

	return frame.Text + "\n" + status
}
