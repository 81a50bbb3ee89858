package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"strings"
	"time"
)

const (
	GenericFailureMessage = "There was an error while executing this command!"
	StoreFailureMessage   = "An error occurred while processing your request. Please try again later."
	DisabledMessage       = "This command is currently disabled!"
	PermissionMessage     = "You don't have the required permissions to use this command!"

	guildOnlyText        = "This command can only be used in a server."
	guildOnlyInteraction = "This command can only be used in a server!"
	wrongChannelMessage  = "This command can only be used in the #%s channel."
	cooldownMessage      = "Please wait %.1f more second(s) before reusing the `%s` command."
)

// Dispatcher owns two registries, one for prefixed chat commands and one
// for slash commands, which share a single cooldown tracker.
type Dispatcher struct {
	text       *Registry
	slash      *Registry
	cooldowns  *CooldownTracker
	prefixes   []string
	middleware []Middleware
}

type DispatcherOpt func(d *Dispatcher)

func WithPrefixes(prefixes ...string) DispatcherOpt {
	return func(d *Dispatcher) {
		d.prefixes = append(d.prefixes, prefixes...)
	}
}

func WithMiddleware(mw ...Middleware) DispatcherOpt {
	return func(d *Dispatcher) {
		d.middleware = append(d.middleware, mw...)
	}
}

func WithCooldowns(c *CooldownTracker) DispatcherOpt {
	return func(d *Dispatcher) {
		d.cooldowns = c
	}
}

func NewDispatcher(text, slash *Registry, opts ...DispatcherOpt) *Dispatcher {
	d := &Dispatcher{text: text, slash: slash}
	for _, opt := range opts {
		opt(d)
	}
	if d.text == nil {
		d.text = NewRegistry()
	}
	if d.slash == nil {
		d.slash = NewRegistry()
	}
	if d.cooldowns == nil {
		d.cooldowns = NewCooldownTracker()
	}
	// longest first so "!!" wins over "!"
	sort.SliceStable(d.prefixes, func(i, j int) bool { return len(d.prefixes[i]) > len(d.prefixes[j]) })
	return d
}

func (d *Dispatcher) Text() *Registry             { return d.text }
func (d *Dispatcher) Slash() *Registry            { return d.slash }
func (d *Dispatcher) Cooldowns() *CooldownTracker { return d.cooldowns }

// Parse strips the first matching prefix and splits the rest on whitespace.
func (d *Dispatcher) Parse(text string) (name string, args []string, ok bool) {
	for _, prefix := range d.prefixes {
		if prefix == "" || !strings.HasPrefix(text, prefix) {
			continue
		}
		fields := strings.Fields(text[len(prefix):])
		if len(fields) == 0 {
			return "", nil, false
		}
		return strings.ToLower(fields[0]), fields[1:], true
	}
	return "", nil, false
}

// HasPrefix reports whether a chat message is addressed to the bot.
func (d *Dispatcher) HasPrefix(text string) bool {
	_, _, ok := d.Parse(text)
	return ok
}

func (d *Dispatcher) Dispatch(ctx context.Context, ev *Event) Result {
	var (
		desc *Descriptor
		name string
		args []string
		ok   bool
	)

	switch ev.Source {
	case SourceInteraction:
		name = strings.ToLower(ev.CommandName)
		desc, ok = d.slash.Resolve(name)
	default:
		if name, args, ok = d.Parse(ev.RawText); ok {
			desc, ok = d.text.Resolve(name)
		}
	}
	if !ok {
		return NotFound()
	}

	if res, rejected := d.check(ev, desc); rejected {
		slog.Debug("Command rejected",
			slog.String("type", "cmd"),
			slog.String("name", desc.Name),
			slog.String("user_id", ev.SenderID.String()),
			slog.String("status", string(res.Kind)))
		return res
	}

	return d.invoke(ctx, &Invocation{Event: ev, Command: desc, Name: name, Args: args})
}

func (d *Dispatcher) check(ev *Event, desc *Descriptor) (Result, bool) {
	if desc.Disabled {
		return Reject(KindDisabled, DisabledMessage), true
	}

	if desc.GuildOnly && !ev.InGuild() {
		msg := guildOnlyText
		if ev.Source == SourceInteraction {
			msg = guildOnlyInteraction
		}
		return Reject(KindGuildOnly, msg), true
	}

	if desc.Channel != nil && desc.Channel.ID != 0 && ev.ChannelID != desc.Channel.ID {
		return Reject(KindWrongChannel, fmt.Sprintf(wrongChannelMessage, desc.Channel.Name)), true
	}

	if missing := desc.Permissions &^ ev.Permissions; missing != 0 {
		return Reject(KindPermission, PermissionMessage).WithDetail(fmt.Sprintf("%d", int64(missing))), true
	}

	if desc.Cooldown > 0 {
		if remaining, ok := d.cooldowns.Acquire(desc.Name, ev.SenderID.String(), desc.Cooldown); !ok {
			res := Reject(KindCooldown, fmt.Sprintf(cooldownMessage, remaining.Seconds(), desc.Name))
			res.Remaining = remaining
			return res, true
		}
	}

	return Result{}, false
}

func (d *Dispatcher) invoke(ctx context.Context, inv *Invocation) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Command panicked",
				slog.String("type", "cmd"),
				slog.String("name", inv.Command.Name),
				slog.String("user_id", inv.UserID()),
				slog.Any("error", r),
				slog.String("stack", string(debug.Stack())))
			res = Failed(KindInternal, GenericFailureMessage)
		}
	}()

	h := inv.Command.Handler
	for i := len(d.middleware) - 1; i >= 0; i-- {
		h = d.middleware[i](inv.Command.Name, h)
	}

	start := time.Now()
	res, err := h(ctx, inv)
	if err != nil {
		if errors.Is(err, ErrStore) {
			slog.Error("Command store failure",
				slog.String("type", "db"),
				slog.String("name", inv.Command.Name),
				slog.Any("error", err),
				slog.Duration("took", time.Since(start)))
			return Failed(KindStore, StoreFailureMessage)
		}
		slog.Error("Command failed",
			slog.String("type", "cmd"),
			slog.String("name", inv.Command.Name),
			slog.Any("error", err),
			slog.Duration("took", time.Since(start)))
		return Failed(KindInternal, GenericFailureMessage)
	}
	return res
}
