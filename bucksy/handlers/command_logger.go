package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bucksy-bot/bucksy/bucksy/command"
)

var (
	slowThreshold  = 2 * time.Second
	commandTimeout = 10 * time.Second
)

type outcome struct {
	res      command.Result
	err      error
	panicked any
}

// WrapWithLogging is a command.Middleware that logs every invocation and
// fails it once it runs past the command timeout.
func WrapWithLogging(name string, next command.HandlerFunc) command.HandlerFunc {
	return func(ctx context.Context, inv *command.Invocation) (command.Result, error) {
		start := time.Now()
		ev := inv.Event

		slog.Info("Command started",
			slog.String("type", "cmd"),
			slog.String("name", name),
			slog.String("source", ev.Source.String()),
			slog.String("user_id", ev.SenderID.String()),
			slog.String("user_name", ev.SenderName),
			slog.String("guild_id", guildString(ev)),
			slog.String("channel_id", ev.ChannelID.String()),
		)

		ctx, cancel := context.WithTimeout(ctx, commandTimeout)
		defer cancel()

		done := make(chan outcome, 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					done <- outcome{panicked: r}
				}
			}()
			res, err := next(ctx, inv)
			done <- outcome{res: res, err: err}
		}()

		select {
		case out := <-done:
			if out.panicked != nil {
				// re-raised here so the dispatcher's recover sees it
				panic(out.panicked)
			}
			duration := time.Since(start)

			attrs := []any{
				slog.String("type", "cmd"),
				slog.String("name", name),
				slog.String("user_id", ev.SenderID.String()),
				slog.String("user_name", ev.SenderName),
				slog.Duration("took", duration),
			}

			switch {
			case out.err != nil:
				slog.Error("Command failed", append(attrs,
					slog.Any("error", out.err),
					slog.String("status", "failed"),
				)...)
			case duration > slowThreshold:
				slog.Warn("Command executed slowly", append(attrs,
					slog.String("status", "slow"),
				)...)
			default:
				slog.Info("Command completed", append(attrs,
					slog.String("status", "success"),
				)...)
			}
			return out.res, out.err

		case <-ctx.Done():
			slog.Error("Command timed out",
				slog.String("type", "cmd"),
				slog.String("name", name),
				slog.String("user_id", ev.SenderID.String()),
				slog.String("user_name", ev.SenderName),
				slog.String("status", "timeout"),
				slog.Duration("timeout", commandTimeout),
			)
			return command.Result{}, fmt.Errorf("command timed out after %s", commandTimeout)
		}
	}
}

func guildString(ev *command.Event) string {
	if ev.GuildID == nil {
		return ""
	}
	return ev.GuildID.String()
}
