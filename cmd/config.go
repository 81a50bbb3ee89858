package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bucksy-bot/bucksy/bucksy"
	"github.com/bucksy-bot/bucksy/bucksy/scheduler"
	"github.com/spf13/cobra"
)

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "validate the config and print the resolved schedules",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return checkConfig(cmd.OutOrStdout(), cfg, time.Now())
	},
}

func init() {
	rootCmd.AddCommand(checkConfigCmd)
}

func checkConfig(w io.Writer, cfg *bucksy.Config, now time.Time) error {
	var problems []string

	poster := scheduler.New(cfg.Location(), scheduler.WithClock(func() time.Time { return now }))
	noop := func(context.Context) error { return nil }
	specs := []struct {
		kind scheduler.Kind
		spec string
	}{
		{scheduler.KindQOTD, cfg.QOTD.Schedule},
		{scheduler.KindWTP, cfg.WTP.Schedule},
	}

	fmt.Fprintf(w, "prefixes: %s\n", strings.Join(cfg.Bot.Prefixes, " "))
	fmt.Fprintf(w, "timezone: %s\n", cfg.Location())
	for _, s := range specs {
		if err := poster.Start(s.kind, s.spec, noop); err != nil {
			problems = append(problems, err.Error())
			continue
		}
		next, _ := poster.Next(s.kind)
		fmt.Fprintf(w, "%s: %q next at %s\n", s.kind, s.spec, next.Format(time.RFC1123))
	}

	channels := []struct {
		name string
		c    bucksy.Channel
	}{
		{"admin", cfg.Channels.Admin},
		{"qotd", cfg.Channels.QOTD},
		{"slots", cfg.Channels.Slots},
		{"guess", cfg.Channels.Guess},
		{"welcome", cfg.Channels.Welcome},
		{"rares", cfg.Channels.Rares},
		{"pvp", cfg.Channels.PvP},
	}
	for _, ch := range channels {
		if ch.c.ID == 0 {
			fmt.Fprintf(w, "warning: channels.%s is not set\n", ch.name)
		}
	}
	if !cfg.Spaces.Enabled() {
		fmt.Fprintln(w, "spaces: disabled, silhouettes are attached")
	}
	if cfg.API.SessionSecret == "" {
		fmt.Fprintln(w, "api: disabled, no session secret")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	fmt.Fprintln(w, "config ok")
	return nil
}
