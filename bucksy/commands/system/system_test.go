package system

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bucksy-bot/bucksy/bucksy/command"
)

func newDispatcher(t *testing.T, probe Probe) *command.Dispatcher {
	t.Helper()
	text := command.NewRegistry()
	err := text.Register(Descriptors(Deps{
		Probe:     probe,
		StartTime: time.Now().Add(-26 * time.Hour),
		Version:   "1.2.0",
		Commit:    "abc123",
		Commands:  text,
		Prefix:    "!",
	})...)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return command.NewDispatcher(text, nil, command.WithPrefixes("!"))
}

func message(text string) *command.Event {
	return &command.Event{Source: command.SourceMessage, RawText: text, SenderID: 1}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{90 * time.Second, "1m"},
		{3*time.Hour + 5*time.Minute, "3h 5m"},
		{50*time.Hour + 30*time.Minute, "2d 2h 30m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStatus(t *testing.T) {
	probe := func(context.Context) (Stats, error) {
		return Stats{CPUPercent: 12.5, CPUCount: 4, MemPercent: 50, MemUsed: 1 << 30, MemTotal: 2 << 30, HostUptime: time.Hour}, nil
	}
	d := newDispatcher(t, probe)

	res := d.Dispatch(context.Background(), message("!status"))
	if !res.Success() || len(res.Embeds) != 1 {
		t.Fatalf("Dispatch() = %+v, want one embed", res)
	}
	embed := res.Embeds[0]
	fields := map[string]string{}
	for _, f := range embed.Fields {
		fields[f.Name] = f.Value
	}
	if got := fields["🔥 CPU"]; got != "12.5% of 4 cores" {
		t.Errorf("cpu field = %q", got)
	}
	if got := fields["🧠 Memory"]; got != "50.0% (1024 MB / 2048 MB)" {
		t.Errorf("memory field = %q", got)
	}
	if got := fields["⏰ Uptime"]; !strings.HasPrefix(got, "1d 2h") {
		t.Errorf("uptime field = %q", got)
	}
	if embed.Footer == nil || embed.Footer.Text != "Version 1.2.0" {
		t.Errorf("footer = %+v", embed.Footer)
	}
}

func TestStatus_ProbeFailure(t *testing.T) {
	d := newDispatcher(t, func(context.Context) (Stats, error) { return Stats{}, errors.New("no /proc") })

	res := d.Dispatch(context.Background(), message("!status"))
	if res.Outcome != command.OutcomeFailed {
		t.Errorf("Dispatch() = %+v, want failure", res)
	}
}

func TestHelp(t *testing.T) {
	d := newDispatcher(t, nil)

	res := d.Dispatch(context.Background(), message("!help"))
	if !res.Success() || len(res.Embeds) != 1 {
		t.Fatalf("Dispatch() = %+v", res)
	}
	fields := res.Embeds[0].Fields
	if len(fields) != 1 || fields[0].Name != "⚙️ System" {
		t.Fatalf("fields = %+v, want only the system category", fields)
	}
	if want := "`!help` • `!status` • `!version`"; fields[0].Value != want {
		t.Errorf("system field = %q, want %q", fields[0].Value, want)
	}

	res = d.Dispatch(context.Background(), message("!commands system"))
	desc := res.Embeds[0].Description
	if !strings.Contains(desc, "`!help [category]` - ") || !strings.Contains(desc, "(aliases: commands)") {
		t.Errorf("category description = %q", desc)
	}

	res = d.Dispatch(context.Background(), message("!help cards"))
	if res.Outcome != command.OutcomeRejected || res.Message != "Unknown category `cards`." {
		t.Errorf("unknown category = %+v", res)
	}
}

func TestVersion(t *testing.T) {
	d := newDispatcher(t, nil)

	res := d.Dispatch(context.Background(), message("!version"))
	if res.Message != "Version: 1.2.0\nCommit: abc123" {
		t.Errorf("Dispatch() message = %q", res.Message)
	}
}
