package chat

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// Config holds the fixed chat panel limits
type Config struct {
	MaxMessages         int
	PinThreshold        int // px from the bottom that still counts as pinned
	InlineColors        bool
	MaxInputLength      int // runes
	AllowPlayerSettings bool
}

// DefaultConfig returns the stock panel limits
func DefaultConfig() Config {
	return Config{
		MaxMessages:         120,
		PinThreshold:        10,
		InlineColors:        true,
		MaxInputLength:      256,
		AllowPlayerSettings: true,
	}
}

// CharCountLevel grades how full the input line is
type CharCountLevel int

const (
	CharCountNormal CharCountLevel = iota
	CharCountWarn                  // at least 80% of the limit
	CharCountFull
)

// Controller is the chat panel state machine. Handle must be called from a
// single goroutine; nothing else mutates the state.
type Controller struct {
	cfg       Config
	settings  Settings
	transport Transport
	store     SettingsStore
	scheduler Scheduler
	post      func(Event)
	history   *History
	now       func() time.Time
	log       zerolog.Logger

	visible      bool
	settingsOpen bool
	pinned       bool
	unread       int
	messages     []Message
	input        string
	sending      bool
	fadedOut     bool

	scrollPending bool

	cancelHide func()
	hideGen    uint64
}

// NewController creates a closed panel. Settings are loaded from store; post
// is how timer firings get back onto the caller's event loop.
func NewController(cfg Config, transport Transport, store SettingsStore, scheduler Scheduler, post func(Event), logger zerolog.Logger) *Controller {
	c := &Controller{
		cfg:       cfg,
		settings:  DefaultSettings(),
		transport: transport,
		store:     store,
		scheduler: scheduler,
		post:      post,
		history:   NewHistory(),
		now:       time.Now,
		log:       logger.With().Str("component", "chat-ui").Logger(),
		pinned:    true,
	}

	if store != nil {
		s, err := store.Load()
		if err != nil {
			c.log.Error().Err(err).Msg("failed to load chat settings, using defaults")
		}
		c.settings = s
	}

	c.resetHideTimer()
	return c
}

// Handle processes one event to completion and returns the boundary call to
// run, if any
func (c *Controller) Handle(ev Event) Op {
	if fired, ok := ev.(HideTimerFired); ok {
		c.hideTimerFired(fired.Gen)
		return nil
	}

	op := c.handle(ev)
	c.resetHideTimer()
	return op
}

func (c *Controller) handle(ev Event) Op {
	switch e := ev.(type) {
	case OpenRequest:
		c.open()

	case InboundToggle:
		if e.Visible {
			c.open()
		} else {
			c.closeNow()
		}

	case CloseRequest:
		return c.closeOp()

	case CloseResult:
		if e.Err != nil {
			c.log.Error().Err(e.Err).Msg("failed to close chat")
			return nil
		}
		c.closeNow()

	case SendRequest:
		return c.send()

	case SendResult:
		c.sending = false
		if e.Err != nil {
			c.log.Error().Err(e.Err).Msg("failed to send message")
			return nil
		}
		c.input = ""
		c.history.Reset()
		if !e.Command {
			return c.closeOp()
		}

	case InboundMessage:
		c.addMessage(e.Message)

	case InboundClear:
		c.messages = nil
		c.unread = 0

	case UserScroll:
		distance := e.ScrollHeight - (e.ScrollTop + e.ViewportHeight)
		c.pinned = distance <= c.cfg.PinThreshold
		if c.pinned {
			c.unread = 0
		}

	case SettingsChange:
		c.applySettings(e.Patch)

	case InboundSettings:
		c.applySettings(e.Patch)

	case ToggleSettings:
		if c.visible && c.cfg.AllowPlayerSettings {
			c.settingsOpen = !c.settingsOpen
		}

	case HistoryNavigate:
		if val, ok := c.history.Navigate(e.Direction, c.input); ok {
			c.input = c.truncate(val)
		}

	case InputChanged:
		c.input = c.truncate(e.Value)

	case JumpToBottom:
		c.scrollToBottom()

	default:
		c.log.Debug().Str("event", fmt.Sprintf("%T", ev)).Msg("unhandled chat event")
	}
	return nil
}

func (c *Controller) open() {
	c.visible = true
	if !c.cfg.AllowPlayerSettings {
		c.settingsOpen = false
	}
	c.scrollToBottom()
}

func (c *Controller) closeNow() {
	c.visible = false
	c.settingsOpen = false
	c.history.Reset()
}

func (c *Controller) scrollToBottom() {
	c.scrollPending = true
	c.pinned = true
	c.unread = 0
}

func (c *Controller) send() Op {
	msg := strings.TrimSpace(c.input)
	if msg == "" || c.sending {
		return nil
	}

	c.history.Push(msg)
	c.sending = true

	isCommand := strings.HasPrefix(msg, "/")
	t := c.transport
	return func(ctx context.Context) Event {
		return SendResult{Command: isCommand, Err: t.SendMessage(ctx, msg)}
	}
}

func (c *Controller) closeOp() Op {
	t := c.transport
	return func(ctx context.Context) Event {
		return CloseResult{Err: t.CloseChat(ctx)}
	}
}

func (c *Controller) addMessage(m Message) {
	m = Normalize(m, c.now())
	if m.Body == "" {
		return
	}

	c.messages = append(c.messages, m)
	if over := len(c.messages) - c.cfg.MaxMessages; over > 0 {
		c.messages = c.messages[over:]
	}

	if c.pinned {
		c.scrollPending = true
	} else {
		c.unread++
	}
}

func (c *Controller) applySettings(p SettingsPatch) {
	c.settings = c.settings.Apply(p)
	if c.store == nil {
		return
	}
	if err := c.store.Save(c.settings); err != nil {
		c.log.Error().Err(err).Msg("failed to save chat settings")
	}
}

func (c *Controller) truncate(s string) string {
	if utf8.RuneCountInString(s) <= c.cfg.MaxInputLength {
		return s
	}
	return string([]rune(s)[:c.cfg.MaxInputLength])
}

// resetHideTimer cancels any pending hide and, while the panel is closed with
// auto-hide on, schedules a new one
func (c *Controller) resetHideTimer() {
	if c.cancelHide != nil {
		c.cancelHide()
		c.cancelHide = nil
	}
	c.hideGen++
	c.fadedOut = false

	if !c.settings.AutoHide || c.visible || c.scheduler == nil {
		return
	}

	gen := c.hideGen
	post := c.post
	c.cancelHide = c.scheduler.Schedule(time.Duration(c.settings.HideDuration)*time.Millisecond, func() {
		if post != nil {
			post(HideTimerFired{Gen: gen})
		}
	})
}

func (c *Controller) hideTimerFired(gen uint64) {
	if gen != c.hideGen {
		return
	}
	c.cancelHide = nil
	if !c.visible {
		c.fadedOut = true
	}
}

// Visible reports whether the panel is open
func (c *Controller) Visible() bool { return c.visible }

// SettingsOpen reports whether the settings dropdown is shown
func (c *Controller) SettingsOpen() bool { return c.settingsOpen }

// Pinned reports whether the log follows new messages
func (c *Controller) Pinned() bool { return c.pinned }

// Unread is the number of messages received since the log was unpinned
func (c *Controller) Unread() int { return c.unread }

// FadedOut reports whether the auto-hide timer has hidden the closed log
func (c *Controller) FadedOut() bool { return c.fadedOut }

// Sending reports whether a sendMessage call is outstanding
func (c *Controller) Sending() bool { return c.sending }

// Input returns the current input line
func (c *Controller) Input() string { return c.input }

// Settings returns the active settings
func (c *Controller) Settings() Settings { return c.settings }

// Config returns the panel limits
func (c *Controller) Config() Config { return c.cfg }

// Messages returns a copy of the log, oldest first
func (c *Controller) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Lines renders the log for display
func (c *Controller) Lines() []Line {
	lines := make([]Line, len(c.messages))
	for i, m := range c.messages {
		lines[i] = RenderLine(m, c.cfg.InlineColors)
	}
	return lines
}

// ConsumeScroll reports whether the view should scroll to the bottom, once
func (c *Controller) ConsumeScroll() bool {
	pending := c.scrollPending
	c.scrollPending = false
	return pending
}

// Indicator is the unread notice shown while unpinned; empty when nothing is unread
func (c *Controller) Indicator() string {
	if c.unread <= 0 {
		return ""
	}
	return fmt.Sprintf("New messages (%d) • Click or End", c.unread)
}

// CharCount returns the input length in runes and the limit
func (c *Controller) CharCount() (int, int) {
	return utf8.RuneCountInString(c.input), c.cfg.MaxInputLength
}

// CharCountLevel grades the input length against the limit
func (c *Controller) CharCountLevel() CharCountLevel {
	n, limit := c.CharCount()
	switch {
	case n >= limit:
		return CharCountFull
	case n*5 >= limit*4:
		return CharCountWarn
	}
	return CharCountNormal
}

// CharCountText is the "n / max" counter
func (c *Controller) CharCountText() string {
	n, limit := c.CharCount()
	return fmt.Sprintf("%d / %d", n, limit)
}
