package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/bucksy-bot/bucksy/bucksy/command"
	"github.com/bucksy-bot/bucksy/bucksy/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

// deferAfter is how long a slash command may run before its response is
// deferred. Discord drops interactions not acknowledged within 3 seconds.
var deferAfter = 2 * time.Second

const autocompleteTimeout = 2 * time.Second

var errAcknowledged = errors.New("interaction already acknowledged")

type respondFunc = func(responseType discord.InteractionResponseType, data discord.InteractionResponseData, opts ...rest.RequestOpt) error

// responder lets exactly one of the handler and the deferral timer
// acknowledge an interaction.
type responder struct {
	mu      sync.Mutex
	acked   bool
	respond respondFunc
}

func (r *responder) Respond(responseType discord.InteractionResponseType, data discord.InteractionResponseData, opts ...rest.RequestOpt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.acked {
		return errAcknowledged
	}
	r.acked = true
	return r.respond(responseType, data, opts...)
}

// Interactions routes slash commands and autocomplete through the
// dispatcher's slash registry.
type Interactions struct {
	dispatcher *command.Dispatcher
}

func NewInteractions(d *command.Dispatcher) *Interactions {
	return &Interactions{dispatcher: d}
}

func (i *Interactions) Register(r handler.Router) {
	for _, desc := range i.dispatcher.Slash().All() {
		r.Command("/"+desc.Name, i.HandleCommand)
		if desc.Autocomplete != nil {
			r.Autocomplete("/"+desc.Name, autocompleteHandler(desc))
		}
	}
}

func (i *Interactions) HandleCommand(e *handler.CommandEvent) error {
	data := e.SlashCommandInteractionData()
	ev := &command.Event{
		Source:        command.SourceInteraction,
		CommandName:   data.CommandName(),
		InteractionID: e.ID(),
		Options:       FlattenOptions(data.Options),
		UserNames:     resolvedNames(data.Resolved.Users),
		SenderID:      e.User().ID,
		SenderName:    e.User().Username,
		GuildID:       e.GuildID(),
		ChannelID:     e.ChannelID(),
	}
	if member := e.Member(); member != nil {
		ev.Permissions = member.Permissions
		ev.RoleIDs = member.RoleIDs
	}

	return i.Handle(context.Background(), ev, e.Respond, func(msg discord.MessageCreate) error {
		_, err := e.CreateFollowupMessage(msg)
		return err
	})
}

// Handle dispatches ev and answers the interaction. Slow handlers get a
// deferred response followed by a followup message.
func (i *Interactions) Handle(ctx context.Context, ev *command.Event, respond respondFunc, followup func(discord.MessageCreate) error) error {
	r := &responder{respond: respond}
	ev.Respond = r.Respond

	done := make(chan command.Result, 1)
	go func() {
		done <- i.dispatcher.Dispatch(ctx, ev)
	}()

	var res command.Result
	select {
	case res = <-done:
		if res.Responded {
			return nil
		}
		err := r.Respond(discord.InteractionResponseTypeCreateMessage, render(res))
		if errors.Is(err, errAcknowledged) {
			return nil
		}
		return err

	case <-time.After(deferAfter):
	}

	deferErr := r.Respond(discord.InteractionResponseTypeDeferredCreateMessage, discord.MessageCreate{})
	res = <-done
	if errors.Is(deferErr, errAcknowledged) || res.Responded {
		// the handler answered first
		return nil
	}
	if deferErr != nil {
		return deferErr
	}
	return followup(render(res))
}

func render(res command.Result) discord.MessageCreate {
	if res.Outcome == command.OutcomeNotFound {
		return discord.MessageCreate{Content: "Unknown command.", Flags: discord.MessageFlagEphemeral}
	}
	return utils.EH.Render(res, true)
}

func autocompleteHandler(desc *command.Descriptor) handler.AutocompleteHandler {
	return func(e *handler.AutocompleteEvent) error {
		focused := e.Data.Focused()
		query, _ := decodeOption(focused.Value)

		ctx, cancel := context.WithTimeout(context.Background(), autocompleteTimeout)
		defer cancel()

		choices, err := desc.Autocomplete(ctx, focused.Name, query)
		if err != nil {
			slog.Error("Autocomplete failed",
				slog.String("type", "cmd"),
				slog.String("name", desc.Name),
				slog.String("option", focused.Name),
				slog.Any("error", err))
			return e.AutocompleteResult([]discord.AutocompleteChoice{})
		}
		return e.AutocompleteResult(AutocompleteChoices(choices))
	}
}

func AutocompleteChoices(choices []command.Choice) []discord.AutocompleteChoice {
	out := make([]discord.AutocompleteChoice, 0, min(len(choices), utils.MaxChoices))
	for _, c := range choices {
		if len(out) == utils.MaxChoices {
			break
		}
		out = append(out, discord.AutocompleteChoiceString{Name: c.Name, Value: c.Value})
	}
	return out
}

// FlattenOptions renders each top level option value as a string; user
// and channel options become their snowflake.
func FlattenOptions(options map[string]discord.SlashCommandOption) command.Options {
	out := make(command.Options, len(options))
	for name, opt := range options {
		if v, ok := decodeOption(opt.Value); ok {
			out[name] = v
		}
	}
	return out
}

func decodeOption(raw []byte) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

func resolvedNames(users map[snowflake.ID]discord.User) map[snowflake.ID]string {
	if len(users) == 0 {
		return nil
	}
	names := make(map[snowflake.ID]string, len(users))
	for id, u := range users {
		names[id] = u.Username
	}
	return names
}
