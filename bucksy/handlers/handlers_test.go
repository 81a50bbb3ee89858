package handlers

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bucksy-bot/bucksy/bucksy/command"
	imock "github.com/bucksy-bot/bucksy/bucksy/interfaces/mock"
	"github.com/bucksy-bot/bucksy/bucksy/notify"
	"github.com/bucksy-bot/bucksy/bucksy/wtp"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/mock/gomock"
)

func handlerFunc(res command.Result, err error) command.HandlerFunc {
	return func(context.Context, *command.Invocation) (command.Result, error) {
		return res, err
	}
}

func invocation() *command.Invocation {
	return &command.Invocation{
		Event:   &command.Event{SenderID: 1, SenderName: "ash", ChannelID: 2},
		Command: &command.Descriptor{Name: "test"},
	}
}

func TestWrapWithLogging(t *testing.T) {
	want := command.OK("pong")
	got, err := WrapWithLogging("ping", handlerFunc(want, nil))(context.Background(), invocation())
	if err != nil || !reflect.DeepEqual(got, want) {
		t.Errorf("wrapped = %+v, %v; want %+v", got, err, want)
	}

	failure := errors.New("boom")
	if _, err = WrapWithLogging("ping", handlerFunc(command.Result{}, failure))(context.Background(), invocation()); !errors.Is(err, failure) {
		t.Errorf("wrapped error = %v, want %v", err, failure)
	}
}

func TestWrapWithLogging_Timeout(t *testing.T) {
	defer func(old time.Duration) { commandTimeout = old }(commandTimeout)
	commandTimeout = 20 * time.Millisecond

	release := make(chan struct{})
	defer close(release)
	slow := func(ctx context.Context, _ *command.Invocation) (command.Result, error) {
		<-release
		return command.OK("late"), nil
	}

	_, err := WrapWithLogging("slow", slow)(context.Background(), invocation())
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Errorf("error = %v, want timeout", err)
	}
}

func TestWrapWithLogging_PanicReachesDispatcher(t *testing.T) {
	slash := command.NewRegistry()
	err := slash.Register(&command.Descriptor{
		Name: "explode",
		Handler: func(context.Context, *command.Invocation) (command.Result, error) {
			panic("kaboom")
		},
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	d := command.NewDispatcher(nil, slash, command.WithMiddleware(WrapWithLogging))

	res := d.Dispatch(context.Background(), &command.Event{Source: command.SourceInteraction, CommandName: "explode"})
	if res.Outcome != command.OutcomeFailed || res.Message != command.GenericFailureMessage {
		t.Errorf("Dispatch() = %+v, want generic failure", res)
	}
}

type fakeREST struct {
	calls    []string
	opts     []int
	ban      time.Duration
	timedOut bool
}

func (f *fakeREST) record(call string, opts []rest.RequestOpt) {
	f.calls = append(f.calls, call)
	f.opts = append(f.opts, len(opts))
}

func (f *fakeREST) GetRoles(guildID snowflake.ID, opts ...rest.RequestOpt) ([]discord.Role, error) {
	f.record("GetRoles", opts)
	return []discord.Role{{ID: 5, Name: "valor"}}, nil
}

func (f *fakeREST) GetMember(guildID, userID snowflake.ID, opts ...rest.RequestOpt) (*discord.Member, error) {
	f.record("GetMember", opts)
	return &discord.Member{}, nil
}

func (f *fakeREST) AddMemberRole(guildID, userID, roleID snowflake.ID, opts ...rest.RequestOpt) error {
	f.record("AddMemberRole", opts)
	return nil
}

func (f *fakeREST) RemoveMemberRole(guildID, userID, roleID snowflake.ID, opts ...rest.RequestOpt) error {
	f.record("RemoveMemberRole", opts)
	return nil
}

func (f *fakeREST) RemoveMember(guildID, userID snowflake.ID, opts ...rest.RequestOpt) error {
	f.record("RemoveMember", opts)
	return nil
}

func (f *fakeREST) AddBan(guildID, userID snowflake.ID, deleteMessageDuration time.Duration, opts ...rest.RequestOpt) error {
	f.record("AddBan", opts)
	f.ban = deleteMessageDuration
	return nil
}

func (f *fakeREST) UpdateMember(guildID, userID snowflake.ID, update discord.MemberUpdate, opts ...rest.RequestOpt) (*discord.Member, error) {
	f.record("UpdateMember", opts)
	f.timedOut = update.CommunicationDisabledUntil != nil
	return &discord.Member{}, nil
}

func TestRestGuild(t *testing.T) {
	f := &fakeREST{}
	g := NewRestGuild(f)
	ctx := context.Background()
	until := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	if roles, _ := g.Roles(ctx, 1); len(roles) != 1 {
		t.Errorf("Roles() = %v", roles)
	}
	_, _ = g.Member(ctx, 1, 2)
	_ = g.AddRole(ctx, 1, 2, 5, "self-assigned")
	_ = g.RemoveRole(ctx, 1, 2, 5, "self-assigned")
	_ = g.Kick(ctx, 1, 2, "spam")
	_ = g.Ban(ctx, 1, 2, "spam")
	_ = g.Timeout(ctx, 1, 2, until, "caps")

	wantCalls := []string{"GetRoles", "GetMember", "AddMemberRole", "RemoveMemberRole", "RemoveMember", "AddBan", "UpdateMember"}
	if !reflect.DeepEqual(f.calls, wantCalls) {
		t.Errorf("calls = %v, want %v", f.calls, wantCalls)
	}
	// context only for reads, context and audit reason for writes
	wantOpts := []int{1, 1, 2, 2, 2, 2, 2}
	if !reflect.DeepEqual(f.opts, wantOpts) {
		t.Errorf("opts = %v, want %v", f.opts, wantOpts)
	}
	if f.ban != 0 {
		t.Errorf("ban deleted %v of messages, want none", f.ban)
	}
	if !f.timedOut {
		t.Error("Timeout() did not set communication_disabled_until")
	}
}

func TestFlattenOptions(t *testing.T) {
	got := FlattenOptions(map[string]discord.SlashCommandOption{
		"amount": {Name: "amount", Type: discord.ApplicationCommandOptionTypeInt, Value: []byte(`25`)},
		"user":   {Name: "user", Type: discord.ApplicationCommandOptionTypeUser, Value: []byte(`"123456789012345678"`)},
		"public": {Name: "public", Type: discord.ApplicationCommandOptionTypeBool, Value: []byte(`true`)},
		"empty":  {Name: "empty", Type: discord.ApplicationCommandOptionTypeString},
	})
	want := command.Options{"amount": "25", "user": "123456789012345678", "public": "true"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FlattenOptions() = %v, want %v", got, want)
	}
}

func TestAutocompleteChoices(t *testing.T) {
	in := make([]command.Choice, 30)
	for i := range in {
		in[i] = command.Choice{Name: "n", Value: "v"}
	}
	got := AutocompleteChoices(in)
	if len(got) != 25 {
		t.Fatalf("len = %d, want 25", len(got))
	}
	if c, ok := got[0].(discord.AutocompleteChoiceString); !ok || c.Value != "v" {
		t.Errorf("choice = %#v", got[0])
	}
}

type response struct {
	kind discord.InteractionResponseType
	data discord.InteractionResponseData
}

type recorder struct {
	mu        sync.Mutex
	responses []response
	followups []discord.MessageCreate
}

func (r *recorder) respond(kind discord.InteractionResponseType, data discord.InteractionResponseData, _ ...rest.RequestOpt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses = append(r.responses, response{kind: kind, data: data})
	return nil
}

func (r *recorder) followup(msg discord.MessageCreate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.followups = append(r.followups, msg)
	return nil
}

func slashDispatcher(t *testing.T, descriptors ...*command.Descriptor) *command.Dispatcher {
	t.Helper()
	slash := command.NewRegistry()
	if err := slash.Register(descriptors...); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return command.NewDispatcher(nil, slash)
}

func TestInteractions_Handle(t *testing.T) {
	defer func(old time.Duration) { deferAfter = old }(deferAfter)
	deferAfter = 20 * time.Millisecond

	release := make(chan struct{})
	i := NewInteractions(slashDispatcher(t,
		&command.Descriptor{Name: "fast", Handler: handlerFunc(command.OK("quick"), nil)},
		&command.Descriptor{Name: "slow", Handler: func(context.Context, *command.Invocation) (command.Result, error) {
			<-release
			return command.OK("finally"), nil
		}},
		&command.Descriptor{Name: "pages", Handler: func(_ context.Context, inv *command.Invocation) (command.Result, error) {
			err := inv.Event.Respond(discord.InteractionResponseTypeCreateMessage, discord.MessageCreate{Content: "page 1"})
			return command.Responded(), err
		}},
	))
	ev := func(name string) *command.Event {
		return &command.Event{Source: command.SourceInteraction, CommandName: name}
	}

	t.Run("fast", func(t *testing.T) {
		r := &recorder{}
		// the gateway hands over an events.InteractionResponderFunc
		if err := i.Handle(context.Background(), ev("fast"), events.InteractionResponderFunc(r.respond), r.followup); err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		if len(r.responses) != 1 || r.responses[0].kind != discord.InteractionResponseTypeCreateMessage {
			t.Fatalf("responses = %+v", r.responses)
		}
		if msg := r.responses[0].data.(discord.MessageCreate); msg.Content != "quick" {
			t.Errorf("content = %q", msg.Content)
		}
	})

	t.Run("slow is deferred", func(t *testing.T) {
		r := &recorder{}
		go func() {
			time.Sleep(60 * time.Millisecond)
			close(release)
		}()
		if err := i.Handle(context.Background(), ev("slow"), r.respond, r.followup); err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		if len(r.responses) != 1 || r.responses[0].kind != discord.InteractionResponseTypeDeferredCreateMessage {
			t.Fatalf("responses = %+v, want one deferral", r.responses)
		}
		if len(r.followups) != 1 || r.followups[0].Content != "finally" {
			t.Errorf("followups = %+v", r.followups)
		}
	})

	t.Run("handler responds itself", func(t *testing.T) {
		r := &recorder{}
		if err := i.Handle(context.Background(), ev("pages"), r.respond, r.followup); err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		if len(r.responses) != 1 || len(r.followups) != 0 {
			t.Errorf("responses = %+v, followups = %+v", r.responses, r.followups)
		}
	})
}

type fakeGame struct {
	channel snowflake.ID
	guesses []wtp.Guess
}

func (g *fakeGame) ChannelID() snowflake.ID { return g.channel }

func (g *fakeGame) Guess(_ context.Context, guess wtp.Guess) (wtp.GuessResult, error) {
	g.guesses = append(g.guesses, guess)
	return wtp.GuessResult{}, nil
}

func TestMessages_Handle(t *testing.T) {
	text := command.NewRegistry()
	if err := text.Register(&command.Descriptor{Name: "bal", Handler: handlerFunc(command.OK("You have 10 points."), nil)}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	d := command.NewDispatcher(text, nil, command.WithPrefixes("!"))

	ctrl := gomock.NewController(t)
	sender := imock.NewMockMessageSender(ctrl)
	game := &fakeGame{channel: 70}
	m := NewMessages(d, sender, game, nil)

	sender.EXPECT().SendMessage(gomock.Any(), snowflake.ID(70), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ snowflake.ID, msg discord.MessageCreate) (*discord.Message, error) {
			if msg.Content != "You have 10 points." {
				t.Errorf("reply = %q", msg.Content)
			}
			if msg.MessageReference == nil || *msg.MessageReference.MessageID != 900 {
				t.Errorf("reply reference = %+v", msg.MessageReference)
			}
			return &discord.Message{}, nil
		})

	ctx := context.Background()
	m.Handle(ctx, &command.Event{RawText: "!bal", SenderID: 1, ChannelID: 70}, 900)
	m.Handle(ctx, &command.Event{RawText: "!unknown", SenderID: 1, ChannelID: 70}, 901)
	m.Handle(ctx, &command.Event{RawText: "Pikachu", SenderID: 1, ChannelID: 70}, 902)
	m.Handle(ctx, &command.Event{RawText: "pikachu", SenderID: 1, ChannelID: 71}, 903)

	want := []wtp.Guess{{UserID: "1", ChannelID: 70, MessageID: 902, Content: "Pikachu"}}
	if !reflect.DeepEqual(game.guesses, want) {
		t.Errorf("guesses = %+v, want %+v", game.guesses, want)
	}
}

type fakeRares struct {
	channel   snowflake.ID
	sightings []notify.Sighting
}

func (r *fakeRares) ChannelID() snowflake.ID { return r.channel }

func (r *fakeRares) Notify(_ context.Context, s notify.Sighting) (bool, error) {
	r.sightings = append(r.sightings, s)
	return true, nil
}

func TestMessages_HandleMessage(t *testing.T) {
	const (
		selfID   = snowflake.ID(1)
		spawnBot = snowflake.ID(2)
		trainer  = snowflake.ID(3)
		rares    = snowflake.ID(80)
		pvp      = snowflake.ID(81)
	)
	text := command.NewRegistry()
	var ran []snowflake.ID
	if err := text.Register(&command.Descriptor{Name: "bal", Handler: func(_ context.Context, inv *command.Invocation) (command.Result, error) {
		ran = append(ran, inv.Event.ChannelID)
		return command.OK("You have 10 points."), nil
	}}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	d := command.NewDispatcher(text, nil, command.WithPrefixes("!"))

	sender := imock.NewMockMessageSender(gomock.NewController(t))
	sender.EXPECT().SendMessage(gomock.Any(), rares, gomock.Any()).Return(&discord.Message{}, nil)
	notifier := &fakeRares{channel: rares}
	m := NewMessages(d, sender, nil, nil).WithRares(notifier).WithoutCommandsIn(pvp, 0)

	ctx := context.Background()
	bot := discord.User{ID: spawnBot, Username: "spawnbot", Bot: true}
	human := discord.User{ID: trainer, Username: "ash"}
	m.HandleMessage(ctx, discord.Message{ID: 1, ChannelID: rares, Author: bot, Content: "A wild Lugia appeared!"}, selfID)
	m.HandleMessage(ctx, discord.Message{ID: 2, ChannelID: rares, Author: discord.User{ID: selfID, Bot: true}, Content: "shiny"}, selfID)
	m.HandleMessage(ctx, discord.Message{ID: 3, ChannelID: 70, Author: bot, Content: "A wild Mew appeared!"}, selfID)
	m.HandleMessage(ctx, discord.Message{ID: 4, ChannelID: rares, Author: bot, Content: "!bal"}, selfID)
	m.HandleMessage(ctx, discord.Message{ID: 5, ChannelID: pvp, Author: human, Content: "!bal"}, selfID)
	m.HandleMessage(ctx, discord.Message{ID: 6, ChannelID: rares, Author: human, Content: "!bal"}, selfID)

	if len(notifier.sightings) != 2 || notifier.sightings[0].Content != "A wild Lugia appeared!" || notifier.sightings[1].Content != "!bal" {
		t.Errorf("sightings = %+v", notifier.sightings)
	}
	if want := []snowflake.ID{rares}; !reflect.DeepEqual(ran, want) {
		t.Errorf("commands ran in %v, want %v", ran, want)
	}
}

type fakeCache struct {
	owner snowflake.ID
	roles map[snowflake.ID]discord.Permissions
}

func (c fakeCache) Guild(guildID snowflake.ID) (discord.Guild, bool) {
	return discord.Guild{ID: guildID, OwnerID: c.owner}, true
}

func (c fakeCache) Role(_ snowflake.ID, roleID snowflake.ID) (discord.Role, bool) {
	p, ok := c.roles[roleID]
	return discord.Role{ID: roleID, Permissions: p}, ok
}

func TestMemberPermissions(t *testing.T) {
	c := fakeCache{owner: 99, roles: map[snowflake.ID]discord.Permissions{
		1:  discord.PermissionSendMessages,
		10: discord.PermissionManageRoles,
		11: discord.PermissionAdministrator,
	}}

	tests := []struct {
		name  string
		user  snowflake.ID
		roles []snowflake.ID
		want  discord.Permissions
	}{
		{"everyone only", 5, nil, discord.PermissionSendMessages},
		{"with role", 5, []snowflake.ID{10}, discord.PermissionSendMessages | discord.PermissionManageRoles},
		{"administrator", 5, []snowflake.ID{11}, discord.PermissionsAll},
		{"owner", 99, nil, discord.PermissionsAll},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MemberPermissions(c, 1, tt.user, tt.roles); got != tt.want {
				t.Errorf("MemberPermissions() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGreeter(t *testing.T) {
	ctrl := gomock.NewController(t)
	sender := imock.NewMockMessageSender(ctrl)
	g := NewGreeter(sender, 50, "Bucksy", func(snowflake.ID) (string, int) { return "Pallet Town", 42 })

	var sent []discord.Embed
	sender.EXPECT().SendMessage(gomock.Any(), snowflake.ID(50), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ snowflake.ID, msg discord.MessageCreate) (*discord.Message, error) {
			sent = append(sent, msg.Embeds...)
			return &discord.Message{}, nil
		}).Times(2)

	user := discord.User{ID: 7, Username: "misty"}
	g.Welcome(context.Background(), 1, user)
	g.Farewell(context.Background(), user)

	if len(sent) != 2 {
		t.Fatalf("sent %d embeds, want 2", len(sent))
	}
	if sent[0].Title != "Welcome to Pallet Town!" || !strings.Contains(sent[0].Description, "<@7>") {
		t.Errorf("welcome = %+v", sent[0])
	}
	if sent[0].Fields[0].Value != "You are member #42!" {
		t.Errorf("member count field = %q", sent[0].Fields[0].Value)
	}
	if sent[1].Title != "A Member Has Left" || !strings.HasPrefix(sent[1].Description, "misty") {
		t.Errorf("farewell = %+v", sent[1])
	}
}

func TestGreeter_NoChannel(t *testing.T) {
	sender := imock.NewMockMessageSender(gomock.NewController(t))
	g := NewGreeter(sender, 0, "Bucksy", nil)
	g.Welcome(context.Background(), 1, discord.User{ID: 7})
}
