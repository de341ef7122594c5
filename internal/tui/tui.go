package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Joseda-hg/focuspal/internal/assistant"
	"github.com/Joseda-hg/focuspal/internal/focus"
	"github.com/Joseda-hg/focuspal/internal/model"
	"github.com/Joseda-hg/focuspal/internal/repo"
	"github.com/Joseda-hg/focuspal/internal/stats"
	"github.com/Joseda-hg/focuspal/internal/voice"
	"github.com/Joseda-hg/focuspal/internal/wellness"
	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"
)

const (
	viewHeader    = "header"
	viewFooter    = "footer"
	viewChat      = "chat"
	viewInput     = "input"
	viewTasks     = "tasks"
	viewReminders = "reminders"
	viewToday     = "today"
	viewForm      = "form"
	viewHelp      = "help"
)

const maxChatLines = 200

// Deps is everything the console drives.
type Deps struct {
	Assistant  *assistant.Assistant
	Controller *focus.Controller
	Scheduler  *focus.Scheduler
	// Listener and Speaker default to voice.Unsupported.
	Listener voice.Transcriber
	Speaker  voice.Speaker
	// Notifier, when set, starts forwarding notifications into the UI.
	Notifier *Notifier
}

type UI struct {
	assistant  *assistant.Assistant
	repo       *repo.Repository
	controller *focus.Controller
	scheduler  *focus.Scheduler
	listener   voice.Transcriber
	speaker    voice.Speaker
	gui        *gocui.Gui

	tasks     []model.Task
	reminders []model.Reminder
	summary   model.StatusSummary
	scores    stats.Scores
	report    wellness.Report

	chat         []chatLine
	commands     []string
	commandIndex int
	input        string

	selectedTasks     int
	selectedReminders int
	focus             string

	form        *formState
	formEditor  *formEditor
	inputEditor *inputEditor
	helpActive  bool
	badge       string
	status      string
}

type formState struct {
	fields []formField
	index  int
}

type formEditor struct {
	ui *UI
}

type inputEditor struct {
	ui *UI
}

func newUI(deps Deps) *UI {
	ui := &UI{
		assistant:  deps.Assistant,
		repo:       deps.Assistant.Repository(),
		controller: deps.Controller,
		scheduler:  deps.Scheduler,
		listener:   deps.Listener,
		speaker:    deps.Speaker,
		focus:      viewInput,
	}
	if ui.listener == nil {
		ui.listener = voice.Unsupported{}
	}
	if ui.speaker == nil {
		ui.speaker = voice.Unsupported{}
	}
	ui.formEditor = &formEditor{ui: ui}
	ui.inputEditor = &inputEditor{ui: ui}
	ui.appendChat(fromAssistant, "Hi! Try \"add a task ...\", \"remind me to ... in 20 minutes\" or \"how am I doing\".")
	return ui
}

func Run(deps Deps) error {
	gui, err := gocui.NewGui(gocui.NewGuiOpts{OutputMode: gocui.OutputNormal})
	if err != nil {
		return err
	}
	defer gui.Close()

	ui := newUI(deps)
	ui.gui = gui
	gui.Mouse = false

	gui.SetManagerFunc(ui.layout)
	if err := ui.bindKeys(gui); err != nil {
		return err
	}
	if err := ui.loadPanels(); err != nil {
		return err
	}
	if deps.Notifier != nil {
		deps.Notifier.attach(ui)
		defer deps.Notifier.attach(nil)
	}

	if err := gui.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}

	return nil
}

func (u *UI) bindKeys(gui *gocui.Gui) error {
	if err := gui.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, u.quit); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'q', gocui.ModNone, u.quit); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'r', gocui.ModNone, u.reload); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'i', gocui.ModNone, u.focusInput); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'x', gocui.ModNone, u.toggleDone); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'd', gocui.ModNone, u.deleteTask); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'f', gocui.ModNone, u.toggleFocusMode); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'b', gocui.ModNone, u.takeBreak); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 's', gocui.ModNone, u.stopTimer); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'p', gocui.ModNone, u.togglePause); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'm', gocui.ModNone, u.openMood); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'v', gocui.ModNone, u.listen); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '?', gocui.ModNone, u.toggleHelp); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", gocui.KeyTab, gocui.ModNone, u.switchFocus); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '1', gocui.ModNone, u.focusChat); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '2', gocui.ModNone, u.focusTasks); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '3', gocui.ModNone, u.focusReminders); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '4', gocui.ModNone, u.focusToday); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'j', gocui.ModNone, u.moveDown); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'k', gocui.ModNone, u.moveUp); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", gocui.KeyArrowDown, gocui.ModNone, u.moveDown); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", gocui.KeyArrowUp, gocui.ModNone, u.moveUp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewInput, gocui.KeyEnter, gocui.ModNone, u.submitCommand); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewInput, gocui.KeyEsc, gocui.ModNone, u.leaveInput); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewInput, gocui.KeyTab, gocui.ModNone, u.switchFocus); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyEnter, gocui.ModNone, u.submitForm); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyEsc, gocui.ModNone, u.cancelForm); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyTab, gocui.ModNone, u.nextFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyArrowDown, gocui.ModNone, u.nextFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyArrowUp, gocui.ModNone, u.prevFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewHelp, gocui.KeyEsc, gocui.ModNone, u.closeHelp); err != nil {
		return err
	}
	return nil
}

func (u *UI) layout(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	if maxX <= 0 || maxY <= 0 {
		return nil
	}

	headerView, err := gui.SetView(viewHeader, 0, 0, maxX-1, 0, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	headerView.Frame = false
	headerView.Wrap = true
	headerView.FgColor = gocui.ColorDefault
	u.renderHeader(headerView)

	footerY1 := max(maxY-2, 1)
	footerY0 := max(footerY1-2, 1)
	footerView, err := gui.SetView(viewFooter, 0, footerY0, maxX-1, footerY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	footerView.Title = ""
	footerView.Frame = false
	footerView.Wrap = true
	footerView.FgColor = gocui.ColorDefault | gocui.AttrDim
	footerView.BgColor = gocui.ColorDefault
	u.renderFooter(footerView)

	bodyTop := 1
	bodyBottom := footerY0 - 1
	if bodyBottom < bodyTop {
		return nil
	}

	layout := computeLayout(maxX, bodyBottom-bodyTop+1)
	leftX0 := 0
	leftX1 := leftX0 + layout.leftWidth - 1
	rightX0 := leftX1 + 1
	if rightX0 >= maxX {
		rightX0 = leftX1
	}
	rightX1 := maxX - 1

	chatY0 := bodyTop
	chatY1 := chatY0 + layout.chatHeight - 1
	inputY0 := chatY1 + 1
	inputY1 := bodyBottom

	tasksY0 := bodyTop
	tasksY1 := tasksY0 + layout.tasksHeight - 1
	remindersY0 := tasksY1 + 1
	remindersY1 := remindersY0 + layout.remindersHeight - 1
	todayY0 := remindersY1 + 1
	todayY1 := bodyBottom

	chatView, err := gui.SetView(viewChat, leftX0, chatY0, leftX1, chatY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		chatView.Title = "1 Assistant"
		chatView.TitleColor = gocui.ColorMagenta
		chatView.Wrap = true
		chatView.Autoscroll = true
	}
	applyViewStyle(chatView, u.focus == viewChat, false)
	u.renderChat(chatView)

	inputView, err := gui.SetView(viewInput, leftX0, inputY0, leftX1, inputY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		inputView.Title = "Command"
	}
	inputView.Editable = u.focus == viewInput && u.form == nil
	inputView.KeybindOnEdit = true
	inputView.Editor = u.inputEditor
	applyViewStyle(inputView, u.focus == viewInput, false)
	u.renderInput(inputView)

	tasksView, err := gui.SetView(viewTasks, rightX0, tasksY0, rightX1, tasksY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		tasksView.Title = "2 Tasks"
		tasksView.TitleColor = gocui.ColorRed
	}
	applyViewStyle(tasksView, u.focus == viewTasks, true)
	u.renderTasks(tasksView, u.focus == viewTasks)

	remindersView, err := gui.SetView(viewReminders, rightX0, remindersY0, rightX1, remindersY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		remindersView.Title = "3 Reminders"
		remindersView.TitleColor = gocui.ColorYellow
	}
	applyViewStyle(remindersView, u.focus == viewReminders, true)
	u.renderReminders(remindersView, u.focus == viewReminders)

	todayView, err := gui.SetView(viewToday, rightX0, todayY0, rightX1, todayY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		todayView.Title = "4 Today"
		todayView.TitleColor = gocui.ColorGreen
		todayView.Wrap = true
	}
	applyViewStyle(todayView, u.focus == viewToday, false)
	u.renderToday(todayView)

	_, _ = gui.SetViewOnTop(viewHeader)
	_, _ = gui.SetViewOnTop(viewFooter)

	if u.form != nil {
		if err := u.showForm(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewForm)
	}

	if u.helpActive {
		if err := u.showHelp(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewHelp)
	}

	if u.form == nil && !u.helpActive {
		_, _ = gui.SetCurrentView(u.focus)
	}

	gui.Cursor = u.form != nil || (u.focus == viewInput && !u.helpActive)

	return nil
}

type layout struct {
	leftWidth       int
	chatHeight      int
	inputHeight     int
	tasksHeight     int
	remindersHeight int
	todayHeight     int
}

func computeLayout(width, height int) layout {
	safeWidth := max(width-2, 20)
	safeHeight := max(height, 12)

	leftWidth := safeWidth * 55 / 100
	if leftWidth < 30 {
		leftWidth = 30
	}
	if leftWidth > safeWidth-24 {
		leftWidth = safeWidth / 2
	}

	inputHeight := 3
	chatHeight := safeHeight - inputHeight

	tasksHeight := int(float64(safeHeight) * 0.4)
	if tasksHeight < 4 {
		tasksHeight = 4
	}
	remindersHeight := int(float64(safeHeight) * 0.25)
	if remindersHeight < 3 {
		remindersHeight = 3
	}
	todayHeight := safeHeight - tasksHeight - remindersHeight
	if todayHeight < 6 {
		todayHeight = 6
		remindersHeight = max(safeHeight-tasksHeight-todayHeight, 3)
	}

	return layout{
		leftWidth:       leftWidth,
		chatHeight:      chatHeight,
		inputHeight:     inputHeight,
		tasksHeight:     tasksHeight,
		remindersHeight: remindersHeight,
		todayHeight:     todayHeight,
	}
}

func (u *UI) loadPanels() error {
	ctx := context.Background()
	now := u.assistant.Now()

	tasks, err := u.repo.Tasks(ctx)
	if err != nil {
		return err
	}
	u.tasks = tasks

	if u.scheduler != nil {
		u.reminders, err = u.scheduler.Upcoming(ctx)
	} else {
		u.reminders, err = u.upcomingReminders(ctx, now)
	}
	if err != nil {
		return err
	}

	h, err := u.repo.Histories(ctx)
	if err != nil {
		return err
	}
	u.summary = stats.Summarize(h.Focus, h.Tasks, h.Moods, now)
	u.scores = stats.Score(h.Focus, h.Tasks, h.Moods, now)
	u.report = wellness.BuildReport(h.Focus, h.Tasks, h.Moods, now)

	u.selectedTasks = clampIndex(u.selectedTasks, len(u.tasks))
	u.selectedReminders = clampIndex(u.selectedReminders, len(u.reminders))
	return nil
}

func (u *UI) upcomingReminders(ctx context.Context, now time.Time) ([]model.Reminder, error) {
	all, err := u.repo.Reminders(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.Reminder
	for _, reminder := range all {
		if reminder.Time.After(now) {
			out = append(out, reminder)
		}
	}
	return out, nil
}

func clampIndex(index, length int) int {
	if length == 0 {
		return 0
	}
	return min(max(index, 0), length-1)
}

func (u *UI) renderHeader(view *gocui.View) {
	view.Clear()
	focusLabel := "off"
	if u.controller.Active() {
		focusLabel = "ON"
	}
	timerLabel := formatCountdown(u.controller.Countdown())
	if timerLabel == "" {
		timerLabel = "idle"
	} else if u.controller.Paused() {
		timerLabel += " (paused)"
	}
	fmt.Fprintf(view, "focuspal | Focus: %s | Timer: %s | Pending: %d | Mood: %s",
		focusLabel, timerLabel, pendingCount(u.tasks), u.summary.CurrentMood)
	if u.badge != "" {
		fmt.Fprintf(view, " | [%s]", u.badge)
	}
}

func (u *UI) renderFooter(view *gocui.View) {
	view.Clear()
	view.SetOrigin(0, 0)
	view.SetCursor(0, 0)

	fmt.Fprintln(view, "enter send | esc leave | i type | x done | d delete | f focus mode | b break | s stop | p pause")
	fmt.Fprintln(view, "m mood | v voice | r reload | ? help | tab cycle | 1-4 panes | q quit")
	if u.status != "" {
		fmt.Fprint(view, u.status)
	}
}

func (u *UI) renderChat(view *gocui.View) {
	view.Clear()
	for _, line := range u.chat {
		fmt.Fprintln(view, formatChatLine(line))
	}
}

func (u *UI) renderInput(view *gocui.View) {
	if view == nil {
		return
	}
	view.Clear()
	fmt.Fprintf(view, "> %s", u.input)
	if u.focus == viewInput {
		view.SetCursor(len([]rune(u.input))+2, 0)
	}
}

func (u *UI) renderTasks(view *gocui.View, focused bool) {
	view.Clear()
	for i, task := range u.tasks {
		prefix := " "
		if i == u.selectedTasks {
			if focused {
				prefix = ">"
			} else {
				prefix = "*"
			}
		}
		fmt.Fprintf(view, "%s %s\n", prefix, formatTaskSummary(task))
	}
	if len(u.tasks) == 0 {
		fmt.Fprint(view, "  no tasks yet")
	}
	if focused {
		view.SetCursor(0, min(u.selectedTasks, len(u.tasks)-1))
	}
}

func (u *UI) renderReminders(view *gocui.View, focused bool) {
	view.Clear()
	now := u.assistant.Now()
	for i, reminder := range u.reminders {
		prefix := " "
		if i == u.selectedReminders {
			if focused {
				prefix = ">"
			} else {
				prefix = "*"
			}
		}
		fmt.Fprintf(view, "%s %s\n", prefix, formatReminder(reminder, now))
	}
	if len(u.reminders) == 0 {
		fmt.Fprint(view, "  nothing scheduled")
	}
	if focused {
		view.SetCursor(0, min(u.selectedReminders, len(u.reminders)-1))
	}
}

func (u *UI) renderToday(view *gocui.View) {
	view.Clear()
	lines := []string{
		fmt.Sprintf("Focus: %s | Done: %d | Mood: %s",
			formatMinutes(u.summary.FocusMinutes), u.summary.CompletedTasks, u.summary.CurrentMood),
		strings.TrimSpace(u.summary.Message),
		"",
		fmt.Sprintf("Focus        %s %3.0f", scoreBar(u.scores.Focus), u.scores.Focus),
		fmt.Sprintf("Tasks        %s %3.0f", scoreBar(u.scores.Tasks), u.scores.Tasks),
		fmt.Sprintf("Wellness     %s %3.0f", scoreBar(u.scores.Wellness), u.scores.Wellness),
		fmt.Sprintf("Productivity %s %3.0f", scoreBar(u.scores.Productivity), u.scores.Productivity),
		"",
		fmt.Sprintf("Stress: %d | Balance: %s", u.report.Overview.StressLevel, u.report.Overview.WorkLifeBalance),
	}
	for _, rec := range u.report.Recommendations {
		lines = append(lines, fmt.Sprintf("- %s", rec.Message))
	}
	fmt.Fprint(view, strings.Join(lines, "\n"))
}

func (u *UI) appendChat(from, text string) {
	u.chat = append(u.chat, chatLine{From: from, Text: text, At: u.assistant.Now()})
	if len(u.chat) > maxChatLines {
		u.chat = u.chat[len(u.chat)-maxChatLines:]
	}
}

// post runs fn on the UI goroutine.
func (u *UI) post(fn func()) {
	if u.gui == nil {
		fn()
		return
	}
	u.gui.Update(func(*gocui.Gui) error {
		fn()
		return nil
	})
}

func (u *UI) submitCommand(gui *gocui.Gui, view *gocui.View) error {
	text := strings.TrimSpace(u.input)
	u.input = ""
	u.renderInput(view)
	if text == "" {
		return nil
	}
	u.commands = append(u.commands, text)
	u.commandIndex = len(u.commands)

	u.appendChat(fromYou, text)
	u.respond(u.assistant.Interpret(context.Background(), text))
	return nil
}

func (u *UI) respond(resp model.Response) {
	u.appendChat(fromAssistant, resp.Message)
	u.status = ""
	if err := u.controller.Apply(context.Background(), resp); err != nil {
		u.status = err.Error()
	}
	if err := u.loadPanels(); err != nil {
		u.status = err.Error()
	}
}

func (u *UI) listen(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	transcript, resp, err := voice.Command(context.Background(), u.listener, u.speaker, u.assistant)
	if transcript != "" {
		u.appendChat(fromYou, transcript)
	}
	if err != nil && resp.Message == "" {
		u.status = err.Error()
		return nil
	}
	u.respond(resp)
	if err != nil {
		u.status = err.Error()
	}
	return nil
}

func (u *UI) toggleFocusMode(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	ctx := context.Background()
	if u.controller.Active() {
		if err := u.controller.Disable(ctx); err != nil {
			u.status = err.Error()
			return nil
		}
		return u.loadPanels()
	}
	settings, err := u.repo.Settings(ctx)
	if err != nil {
		u.status = err.Error()
		return nil
	}
	u.controller.StartFocus(ctx, settings.FocusMinutes)
	return nil
}

func (u *UI) takeBreak(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	ctx := context.Background()
	settings, err := u.repo.Settings(ctx)
	if err != nil {
		u.status = err.Error()
		return nil
	}
	if err := u.controller.StartBreak(ctx, settings.BreakMinutes); err != nil {
		u.status = err.Error()
		return nil
	}
	return u.loadPanels()
}

func (u *UI) stopTimer(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.controller.StopTimer()
	u.status = "Timer stopped"
	return nil
}

func (u *UI) togglePause(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	switch {
	case u.controller.Paused():
		u.controller.ResumeTimer()
		u.status = "Timer resumed"
	case u.controller.PauseTimer():
		u.status = "Timer paused"
	default:
		u.status = "No timer running"
	}
	return nil
}

func (u *UI) selectedTask() *model.Task {
	if u.selectedTasks >= 0 && u.selectedTasks < len(u.tasks) {
		return &u.tasks[u.selectedTasks]
	}
	return nil
}

func (u *UI) toggleDone(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.focus != viewTasks {
		return nil
	}
	selected := u.selectedTask()
	if selected == nil {
		return nil
	}
	if _, err := u.repo.SetTaskCompleted(context.Background(), selected.ID, !selected.Completed, u.assistant.Now()); err != nil {
		u.status = err.Error()
		return nil
	}
	return u.loadPanels()
}

func (u *UI) deleteTask(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.focus != viewTasks {
		return nil
	}
	selected := u.selectedTask()
	if selected == nil {
		return nil
	}
	if err := u.repo.DeleteTask(context.Background(), selected.ID); err != nil {
		u.status = err.Error()
		return nil
	}
	u.status = fmt.Sprintf("Deleted %q", selected.Text)
	return u.loadPanels()
}

func (u *UI) openMood(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.form = &formState{fields: buildMoodFields(u.summary.CurrentMood)}
	return nil
}

func (u *UI) showForm(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(50, maxX/3)
	height := 3
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2
	x1 := x0 + width
	y1 := y0 + height

	view, err := gui.SetView(viewForm, x0, y0, x1, y1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Title = "How are you feeling?"
		view.Wrap = true
	}
	view.Editable = true
	view.KeybindOnEdit = true
	view.Editor = u.formEditor
	u.renderForm(view)
	_, _ = gui.SetCurrentView(viewForm)
	return nil
}

func (u *UI) renderForm(view *gocui.View) {
	if u.form == nil || view == nil {
		return
	}
	view.Clear()
	for index, field := range u.form.fields {
		prefix := "  "
		if index == u.form.index {
			prefix = "> "
		}
		fmt.Fprintf(view, "%s%s: %s\n", prefix, field.Label, field.Value)
	}
	label := u.form.fields[u.form.index].Label + ": "
	cursorX := len([]rune(label)) + len([]rune(u.form.fields[u.form.index].Value)) + 2
	view.SetCursor(cursorX, u.form.index)
}

func (u *UI) submitForm(gui *gocui.Gui, _ *gocui.View) error {
	if u.form == nil {
		return nil
	}
	entry, err := parseMoodFields(u.form.fields, u.assistant.Now())
	if err != nil {
		u.status = err.Error()
		return nil
	}
	if err := u.repo.TrackMood(context.Background(), entry); err != nil {
		u.status = err.Error()
		return nil
	}
	u.status = fmt.Sprintf("Mood recorded: %s", entry.Mood)
	return u.closeForm(gui)
}

func (u *UI) cancelForm(gui *gocui.Gui, _ *gocui.View) error {
	return u.closeForm(gui)
}

func (u *UI) closeForm(gui *gocui.Gui) error {
	u.form = nil
	if gui != nil {
		_ = gui.DeleteView(viewForm)
		_, _ = gui.SetCurrentView(u.focus)
	}
	return u.loadPanels()
}

func (u *UI) nextFormField(gui *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index < len(u.form.fields)-1 {
		u.form.index++
	}
	u.renderForm(view)
	return nil
}

func (u *UI) prevFormField(gui *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index > 0 {
		u.form.index--
	}
	u.renderForm(view)
	return nil
}

func (u *UI) switchFocus(gui *gocui.Gui, _ *gocui.View) error {
	if u.form != nil || u.helpActive {
		return nil
	}
	switch u.focus {
	case viewInput:
		u.focus = viewChat
	case viewChat:
		u.focus = viewTasks
	case viewTasks:
		u.focus = viewReminders
	case viewReminders:
		u.focus = viewToday
	default:
		u.focus = viewInput
	}
	return u.applyFocus(gui)
}

func (u *UI) focusInput(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, viewInput)
}

func (u *UI) focusChat(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, viewChat)
}

func (u *UI) focusTasks(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, viewTasks)
}

func (u *UI) focusReminders(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, viewReminders)
}

func (u *UI) focusToday(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, viewToday)
}

func (u *UI) leaveInput(gui *gocui.Gui, _ *gocui.View) error {
	u.focus = viewChat
	return u.applyFocus(gui)
}

func (u *UI) setFocus(gui *gocui.Gui, name string) error {
	if u.inputActive() {
		return nil
	}
	u.focus = name
	return u.applyFocus(gui)
}

func (u *UI) applyFocus(gui *gocui.Gui) error {
	if gui != nil {
		_, _ = gui.SetCurrentView(u.focus)
	}
	return nil
}

func (u *UI) moveDown(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	switch u.focus {
	case viewTasks:
		if u.selectedTasks < len(u.tasks)-1 {
			u.selectedTasks++
		}
	case viewReminders:
		if u.selectedReminders < len(u.reminders)-1 {
			u.selectedReminders++
		}
	}
	return nil
}

func (u *UI) moveUp(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	switch u.focus {
	case viewTasks:
		if u.selectedTasks > 0 {
			u.selectedTasks--
		}
	case viewReminders:
		if u.selectedReminders > 0 {
			u.selectedReminders--
		}
	}
	return nil
}

func (u *UI) reload(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.status = ""
	return u.loadPanels()
}

func (u *UI) toggleHelp(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() && !u.helpActive {
		return nil
	}
	u.helpActive = !u.helpActive
	return nil
}

func (u *UI) closeHelp(gui *gocui.Gui, _ *gocui.View) error {
	u.helpActive = false
	if gui != nil {
		_ = gui.DeleteView(viewHelp)
		_, _ = gui.SetCurrentView(u.focus)
	}
	return nil
}

func (u *UI) showHelp(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(60, maxX/2)
	height := 14
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2
	x1 := x0 + width
	y1 := y0 + height

	view, err := gui.SetView(viewHelp, x0, y0, x1, y1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Title = "Help"
		view.Wrap = true
	}
	view.Clear()
	fmt.Fprint(view, helpText())
	_, _ = gui.SetCurrentView(viewHelp)
	return nil
}

// inputActive is true while keystrokes belong to the command line or a form.
func (u *UI) inputActive() bool {
	return u.focus == viewInput || u.form != nil
}

func (u *UI) quit(_ *gocui.Gui, _ *gocui.View) error {
	return gocui.ErrQuit
}

func helpText() string {
	lines := []string{
		"Type a command and press enter:",
		"  remind me to <task> at 3pm | on friday at 9am | in 20 minutes",
		"  add a task <text>",
		"  start a focus session for <n> minutes",
		"  take a break for <n> minutes",
		"  how am I doing",
		"",
		"esc leaves the command line so single-key shortcuts work:",
		"  f focus mode on/off | b break | s stop timer | p pause/resume | m log mood",
		"  x toggle done | d delete task | v voice command",
		"  tab cycle panes | 1-4 jump | j/k move | r reload | q quit",
		"",
		"? or esc closes this help",
	}
	return strings.Join(lines, "\n")
}

// Notifier shows controller and scheduler notifications in the console.
// It may be handed to them before the console starts; calls made while no
// console is attached are dropped.
type Notifier struct {
	mu sync.Mutex
	ui *UI
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) attach(ui *UI) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ui = ui
}

func (n *Notifier) current() *UI {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ui
}

func (n *Notifier) Notify(title, message string) {
	ui := n.current()
	if ui == nil {
		return
	}
	ui.post(func() {
		ui.status = fmt.Sprintf("%s: %s", title, message)
		ui.appendChat(fromNotice, ui.status)
		if err := ui.loadPanels(); err != nil {
			ui.status = err.Error()
		}
	})
}

func (n *Notifier) SetBadge(text string) {
	ui := n.current()
	if ui == nil {
		return
	}
	ui.post(func() {
		ui.badge = text
	})
}

func applyViewStyle(view *gocui.View, focused bool, highlight bool) {
	view.Frame = true
	view.Highlight = focused && highlight
	view.HighlightInactive = false
	view.SelBgColor = gocui.ColorBlue
	view.SelFgColor = gocui.ColorBlack
	view.InactiveViewSelBgColor = gocui.ColorDefault
	if focused {
		view.FrameColor = gocui.ColorCyan
		view.TitleColor = gocui.ColorCyan
	} else {
		view.FrameColor = gocui.ColorDefault
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
