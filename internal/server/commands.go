package server

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yourusername/xchat/internal/color"
)

// Caller is the player executing a command
type Caller interface {
	Player
	Rank() int
}

type command struct {
	name    string
	usage   string // shown on missing arguments, empty for commands without any
	minRank int
	handler func(c *Commands, caller Caller, args []string)
}

// Commands is the server's chat command table
type Commands struct {
	chat     *ChatService
	dir      *Directory
	handlers map[string]command
	log      zerolog.Logger
}

var (
	colorMe       = color.RGB{R: 194, G: 162, B: 218}
	colorDo       = color.RGB{R: 163, G: 190, B: 140}
	colorLocalOOC = color.RGB{R: 150, G: 150, B: 150}
	colorOOC      = color.RGB{R: 100, G: 149, B: 237}
	colorPM       = color.RGB{R: 255, G: 200, B: 0}
	colorShout    = color.RGB{R: 255, G: 87, B: 87}
	colorWhisper  = color.RGB{R: 180, G: 180, B: 180}
	colorAnnounce = color.RGB{R: 255, G: 215, B: 0}
)

const announceAuthor = "📢 ANNOUNCEMENT"

// NewCommands builds the command table
func NewCommands(chat *ChatService, dir *Directory, logger zerolog.Logger) *Commands {
	c := &Commands{
		chat:     chat,
		dir:      dir,
		handlers: make(map[string]command),
		log:      logger.With().Str("component", "commands").Logger(),
	}

	for _, cmd := range []command{
		{name: "say", usage: "Usage: /say [message]", handler: (*Commands).say},
		{name: "me", handler: (*Commands).me},
		{name: "do", usage: "Usage: /do [description]", handler: (*Commands).do},
		{name: "ooc", usage: "Usage: /ooc [message]", handler: (*Commands).ooc},
		{name: "b", usage: "Usage: /b [message]", handler: (*Commands).localOOC},
		{name: "pm", usage: "Usage: /pm [playerId|name] [message]", handler: (*Commands).pm},
		{name: "clear", handler: (*Commands).clear},
		{name: "shout", usage: "Usage: /shout [message]", handler: (*Commands).shout},
		{name: "whisper", usage: "Usage: /whisper [message]", handler: (*Commands).whisper},
		{name: "announce", usage: "Usage: /announce [message]", minRank: RankAdmin, handler: (*Commands).announce},
	} {
		c.handlers[cmd.name] = cmd
	}
	return c
}

// Names lists the registered commands in alphabetical order
func (c *Commands) Names() []string {
	names := make([]string, 0, len(c.handlers))
	for name := range c.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs a command for caller. Problems are reported to the caller as
// error notifications.
func (c *Commands) Execute(caller Caller, name string, args []string) {
	cmd, ok := c.handlers[name]
	if !ok {
		c.chat.Notify(caller, fmt.Sprintf("Unknown command: /%s", name), NotifyError)
		return
	}
	if caller.Rank() < cmd.minRank {
		c.log.Info().Str("player", caller.Name()).Str("command", name).Msg("permission denied")
		c.chat.Notify(caller, fmt.Sprintf("You do not have permission to use /%s", name), NotifyError)
		return
	}

	c.log.Debug().Str("player", caller.Name()).Str("command", name).Int("args", len(args)).Msg("executing command")
	cmd.handler(c, caller, args)
}

func (c *Commands) usage(caller Caller, name string) {
	c.chat.Notify(caller, c.handlers[name].usage, NotifyError)
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func (c *Commands) say(caller Caller, args []string) {
	msg := joinArgs(args)
	if msg == "" {
		c.usage(caller, "say")
		return
	}
	c.chat.BroadcastProximal(caller, msg, caller.Name(), color.White, RadiusNormal)
}

func (c *Commands) me(caller Caller, args []string) {
	action := joinArgs(args)
	if action == "" {
		return
	}
	c.chat.BroadcastProximal(caller, fmt.Sprintf("* %s %s", caller.Name(), action), "", colorMe, RadiusNormal)
}

func (c *Commands) do(caller Caller, args []string) {
	desc := joinArgs(args)
	if desc == "" {
		c.usage(caller, "do")
		return
	}
	c.chat.BroadcastProximal(caller, fmt.Sprintf("** %s ((%s))", desc, caller.Name()), "", colorDo, RadiusNormal)
}

func (c *Commands) ooc(caller Caller, args []string) {
	msg := joinArgs(args)
	if msg == "" {
		c.usage(caller, "ooc")
		return
	}
	c.chat.Broadcast(msg, "[OOC] "+caller.Name(), colorOOC)
}

func (c *Commands) localOOC(caller Caller, args []string) {
	msg := joinArgs(args)
	if msg == "" {
		c.usage(caller, "b")
		return
	}
	c.chat.BroadcastProximal(caller, fmt.Sprintf("(( %s: %s ))", caller.Name(), msg), "", colorLocalOOC, RadiusNormal)
}

func (c *Commands) pm(caller Caller, args []string) {
	if len(args) < 2 {
		c.usage(caller, "pm")
		return
	}
	msg := joinArgs(args[1:])
	if msg == "" {
		c.usage(caller, "pm")
		return
	}

	// a non-numeric target is taken as a player name
	targetID, err := strconv.Atoi(args[0])
	if err != nil {
		p, ok := c.dir.FindByName(args[0])
		if !ok {
			c.chat.Notify(caller, fmt.Sprintf("Player %s not found", args[0]), NotifyError)
			return
		}
		targetID = p.ClientID()
	}

	target, err := c.chat.SendPrivate(targetID, fmt.Sprintf("From %s: %s", caller.Name(), msg), "Private Message", colorPM)
	if errors.Is(err, ErrPlayerNotFound) {
		c.chat.Notify(caller, fmt.Sprintf("Player with ID %d not found", targetID), NotifyError)
		return
	}
	if err != nil {
		c.log.Warn().Err(err).Int("target", targetID).Msg("private message delivery failed")
	}

	c.chat.Notify(caller, fmt.Sprintf("To %s: %s", target.Name(), msg), NotifySuccess)
}

func (c *Commands) clear(caller Caller, _ []string) {
	c.chat.ClearChat(caller)
	c.chat.Notify(caller, "Chat cleared", NotifySuccess)
}

func (c *Commands) shout(caller Caller, args []string) {
	msg := joinArgs(args)
	if msg == "" {
		c.usage(caller, "shout")
		return
	}
	c.chat.BroadcastProximal(caller, fmt.Sprintf("%s shouts: %s!", caller.Name(), msg), "", colorShout, RadiusShout)
}

func (c *Commands) whisper(caller Caller, args []string) {
	msg := joinArgs(args)
	if msg == "" {
		c.usage(caller, "whisper")
		return
	}
	c.chat.BroadcastProximal(caller, fmt.Sprintf("%s whispers: %s", caller.Name(), msg), "", colorWhisper, RadiusWhisper)
}

func (c *Commands) announce(caller Caller, args []string) {
	msg := joinArgs(args)
	if msg == "" {
		c.usage(caller, "announce")
		return
	}
	c.chat.Broadcast(msg, announceAuthor, colorAnnounce)
}
