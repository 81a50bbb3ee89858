package api

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bucksy-bot/bucksy/bucksy/scheduler"
	"github.com/gofiber/fiber/v2"
)

var scheduleKinds = []scheduler.Kind{scheduler.KindQOTD, scheduler.KindWTP}

type scheduleView struct {
	Kind     scheduler.Kind `json:"kind"`
	Schedule string         `json:"schedule"`
	Timezone string         `json:"timezone"`
	Next     *time.Time     `json:"next,omitempty"`
}

type settingsRequest struct {
	Kind scheduler.Kind `json:"kind"`
	// Time is a daily "HH:MM"; Schedule is a raw cron spec and wins when set.
	Time     string `json:"time"`
	Schedule string `json:"schedule"`
	Timezone string `json:"timezone"`
}

func (s *Server) getSettings(c *fiber.Ctx) error {
	views := make([]scheduleView, 0, len(scheduleKinds))
	for _, kind := range scheduleKinds {
		if v, ok := s.schedule(kind); ok {
			views = append(views, v)
		}
	}
	return SendSuccess(c, views, "")
}

func (s *Server) schedule(kind scheduler.Kind) (scheduleView, bool) {
	spec, ok := s.deps.Schedules.Spec(kind)
	if !ok {
		return scheduleView{}, false
	}
	v := scheduleView{Kind: kind, Schedule: spec, Timezone: specTimezone(spec, s.deps.Schedules.Location())}
	if next, ok := s.deps.Schedules.Next(kind); ok {
		v.Next = &next
	}
	return v, true
}

func (s *Server) updateSettings(c *fiber.Ctx) error {
	var req settingsRequest
	if err := c.BodyParser(&req); err != nil {
		return SendBadRequest(c, "Invalid request body", nil)
	}
	if req.Kind == "" {
		req.Kind = scheduler.KindQOTD
	}
	if _, ok := s.deps.Schedules.Spec(req.Kind); !ok {
		return SendNotFound(c, fmt.Sprintf("No schedule for %s", req.Kind))
	}

	spec, err := BuildSpec(req.Time, req.Schedule, req.Timezone, s.deps.Schedules.Location())
	if err != nil {
		return SendBadRequest(c, err.Error(), nil)
	}
	if err = s.deps.Schedules.Reschedule(req.Kind, spec); err != nil {
		return SendBadRequest(c, err.Error(), nil)
	}

	session, _ := CurrentSession(c)
	slog.Info("Schedule updated",
		slog.String("type", "api"),
		slog.String("kind", string(req.Kind)),
		slog.String("spec", spec),
		slog.String("user_name", session.Username))

	v, _ := s.schedule(req.Kind)
	return SendSuccess(c, v, "Settings updated successfully")
}

func (s *Server) triggerPost(c *fiber.Ctx) error {
	kind := scheduler.Kind(c.Params("kind"))
	if _, ok := s.deps.Schedules.Spec(kind); !ok {
		return SendNotFound(c, fmt.Sprintf("No schedule for %s", kind))
	}
	if err := s.deps.Schedules.Trigger(c.UserContext(), kind); err != nil {
		slog.Error("Manual post failed",
			slog.String("type", "api"),
			slog.String("kind", string(kind)),
			slog.Any("error", err))
		return SendInternalServerError(c, "Failed to post")
	}
	return SendSuccess(c, nil, "Posted")
}

// BuildSpec turns a daily "HH:MM" (or a raw cron spec) into a cron spec,
// pinning a timezone that differs from the poster's own location.
func BuildSpec(clock, raw, timezone string, location *time.Location) (string, error) {
	spec := strings.TrimSpace(raw)
	if spec == "" {
		if clock == "" {
			return "", fmt.Errorf("time or schedule is required")
		}
		t, err := time.Parse("15:04", strings.TrimSpace(clock))
		if err != nil {
			return "", fmt.Errorf("time %q must be HH:MM", clock)
		}
		spec = fmt.Sprintf("0 %d %d * * *", t.Minute(), t.Hour())
	}

	if timezone == "" || (location != nil && timezone == location.String()) {
		return spec, nil
	}
	if strings.HasPrefix(spec, "CRON_TZ=") || strings.HasPrefix(spec, "TZ=") {
		return "", fmt.Errorf("schedule already names a timezone")
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return "", fmt.Errorf("timezone %q is invalid", timezone)
	}
	return "CRON_TZ=" + timezone + " " + spec, nil
}

func specTimezone(spec string, location *time.Location) string {
	for _, prefix := range []string{"CRON_TZ=", "TZ="} {
		if rest, ok := strings.CutPrefix(spec, prefix); ok {
			tz, _, _ := strings.Cut(rest, " ")
			return tz
		}
	}
	if location == nil {
		return time.Local.String()
	}
	return location.String()
}
