package system

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/bucksy-bot/bucksy/bucksy/command"
	"github.com/bucksy-bot/bucksy/bucksy/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

var Status = discord.SlashCommandCreate{
	Name:        "status",
	Description: "📊 View bot uptime and host resource usage",
}

var Version = discord.SlashCommandCreate{
	Name:        "version",
	Description: "Show the running build",
}

// Stats is a snapshot of the host the bot runs on.
type Stats struct {
	CPUPercent float64
	CPUCount   int
	MemPercent float64
	MemUsed    uint64
	MemTotal   uint64
	HostUptime time.Duration
	Goroutines int
	HeapAlloc  uint64
}

type Probe func(ctx context.Context) (Stats, error)

// HostProbe samples CPU over a short window, so it blocks for about 200ms.
func HostProbe(ctx context.Context) (Stats, error) {
	var s Stats

	percents, err := cpu.PercentWithContext(ctx, 200*time.Millisecond, false)
	if err != nil {
		return s, fmt.Errorf("failed to read cpu usage: %w", err)
	}
	if len(percents) > 0 {
		s.CPUPercent = percents[0]
	}
	if s.CPUCount, err = cpu.CountsWithContext(ctx, true); err != nil {
		return s, fmt.Errorf("failed to count cpus: %w", err)
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return s, fmt.Errorf("failed to read memory: %w", err)
	}
	s.MemPercent, s.MemUsed, s.MemTotal = vm.UsedPercent, vm.Used, vm.Total

	uptime, err := host.UptimeWithContext(ctx)
	if err != nil {
		return s, fmt.Errorf("failed to read host uptime: %w", err)
	}
	s.HostUptime = time.Duration(uptime) * time.Second

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	s.HeapAlloc = m.HeapAlloc
	s.Goroutines = runtime.NumGoroutine()
	return s, nil
}

func StatusHandler(d Deps) command.HandlerFunc {
	return func(ctx context.Context, inv *command.Invocation) (command.Result, error) {
		stats, err := d.Probe(ctx)
		if err != nil {
			return command.Result{}, err
		}
		return command.OKEmbed(StatusEmbed(stats, time.Since(d.StartTime), d.Version)), nil
	}
}

func StatusEmbed(s Stats, uptime time.Duration, version string) discord.Embed {
	inline := true
	embed := discord.Embed{
		Title: "📊 Bucksy Status",
		Color: utils.InfoColor,
		Fields: []discord.EmbedField{
			{Name: "⏰ Uptime", Value: FormatDuration(uptime), Inline: &inline},
			{Name: "🖥️ Host Uptime", Value: FormatDuration(s.HostUptime), Inline: &inline},
			{Name: "🔥 CPU", Value: fmt.Sprintf("%.1f%% of %d cores", s.CPUPercent, s.CPUCount), Inline: &inline},
			{Name: "🧠 Memory", Value: fmt.Sprintf("%.1f%% (%d MB / %d MB)", s.MemPercent, s.MemUsed/1024/1024, s.MemTotal/1024/1024), Inline: &inline},
			{Name: "💾 Heap", Value: fmt.Sprintf("%.2f MB", float64(s.HeapAlloc)/1024/1024), Inline: &inline},
			{Name: "🚀 Goroutines", Value: fmt.Sprintf("%d", s.Goroutines), Inline: &inline},
		},
	}
	if version != "" {
		embed.Footer = &discord.EmbedFooter{Text: "Version " + version}
	}
	return embed
}

// FormatDuration renders d as "2d 3h 4m", dropping leading zero units.
func FormatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

func VersionHandler(version, commit string) command.HandlerFunc {
	return func(context.Context, *command.Invocation) (command.Result, error) {
		return command.OK(fmt.Sprintf("Version: %s\nCommit: %s", version, commit)), nil
	}
}
