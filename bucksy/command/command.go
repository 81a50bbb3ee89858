// Package command routes chat messages and slash interactions to handlers
// after running the guild, channel, permission and cooldown checks.
package command

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

type HandlerFunc func(ctx context.Context, inv *Invocation) (Result, error)

// Middleware decorates every handler the dispatcher invokes.
type Middleware func(name string, next HandlerFunc) HandlerFunc

// Channel restricts a command to one channel; Name is used in the rejection.
type Channel struct {
	ID   snowflake.ID
	Name string
}

type Descriptor struct {
	Name        string
	Aliases     []string
	Description string
	Usage       string
	Category    string
	GuildOnly   bool
	Disabled    bool
	Channel     *Channel
	Cooldown    time.Duration
	Permissions discord.Permissions
	Handler     HandlerFunc
	// Autocomplete answers focused slash options; nil means none.
	Autocomplete AutocompleteFunc
}

// Choice is one autocomplete suggestion.
type Choice struct {
	Name  string
	Value string
}

type AutocompleteFunc func(ctx context.Context, option, query string) ([]Choice, error)

// Tokens is the primary name followed by every alias, lowercased.
func (d *Descriptor) Tokens() []string {
	tokens := make([]string, 0, len(d.Aliases)+1)
	tokens = append(tokens, strings.ToLower(d.Name))
	for _, alias := range d.Aliases {
		tokens = append(tokens, strings.ToLower(alias))
	}
	return tokens
}

type Source int

const (
	SourceMessage Source = iota
	SourceInteraction
)

func (s Source) String() string {
	if s == SourceInteraction {
		return "interaction"
	}
	return "message"
}

// Event is the platform independent view of an incoming message or slash
// command interaction.
type Event struct {
	Source        Source
	RawText       string
	CommandName   string
	InteractionID snowflake.ID
	Options       Options
	// UserNames resolves user options to their usernames.
	UserNames   map[snowflake.ID]string
	SenderID    snowflake.ID
	SenderName  string
	GuildID     *snowflake.ID
	ChannelID   snowflake.ID
	Permissions discord.Permissions
	RoleIDs     []snowflake.ID

	// Respond is set for interactions so handlers can drive a paginator.
	Respond func(responseType discord.InteractionResponseType, data discord.InteractionResponseData, opts ...rest.RequestOpt) error
}

func (e *Event) InGuild() bool {
	return e.GuildID != nil && *e.GuildID != 0
}

// Options are interaction options flattened to their string form.
type Options map[string]string

func (o Options) String(name string) (string, bool) {
	v, ok := o[name]
	return v, ok && v != ""
}

func (o Options) Int(name string) (int64, bool) {
	v, ok := o[name]
	if !ok {
		return 0, false
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}

func (o Options) Snowflake(name string) (snowflake.ID, bool) {
	v, ok := o[name]
	if !ok {
		return 0, false
	}
	id, err := snowflake.Parse(v)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Invocation is what a handler receives once every check has passed.
type Invocation struct {
	Event   *Event
	Command *Descriptor
	// Name is the token the sender typed, which may be an alias.
	Name string
	Args []string
}

func (inv *Invocation) UserID() string {
	return inv.Event.SenderID.String()
}

// Arg returns the positional argument at index for chat commands and the
// named option for interactions.
func (inv *Invocation) Arg(index int, option string) (string, bool) {
	if inv.Event.Source == SourceInteraction {
		return inv.Event.Options.String(option)
	}
	if index < len(inv.Args) {
		return inv.Args[index], true
	}
	return "", false
}

// Rest is Arg with every positional argument from index on joined by spaces.
func (inv *Invocation) Rest(index int, option string) (string, bool) {
	if inv.Event.Source == SourceInteraction {
		return inv.Event.Options.String(option)
	}
	if index < len(inv.Args) {
		return strings.Join(inv.Args[index:], " "), true
	}
	return "", false
}

// User reads a user option as its ID and resolved username.
func (inv *Invocation) User(option string) (snowflake.ID, string, bool) {
	id, ok := inv.Event.Options.Snowflake(option)
	if !ok {
		return 0, "", false
	}
	name := inv.Event.UserNames[id]
	if name == "" {
		name = "<@" + id.String() + ">"
	}
	return id, name, true
}

func (inv *Invocation) GuildID() snowflake.ID {
	if inv.Event.GuildID == nil {
		return 0
	}
	return *inv.Event.GuildID
}
