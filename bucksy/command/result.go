package command

import (
	"time"

	"github.com/disgoorg/disgo/discord"
)

type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeNotFound
	OutcomeRejected
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNotFound:
		return "not-found"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// Kind says why a command was rejected or failed.
type Kind string

const (
	KindNone         Kind = ""
	KindDisabled     Kind = "disabled"
	KindGuildOnly    Kind = "guild-only"
	KindWrongChannel Kind = "wrong-channel"
	KindPermission   Kind = "missing-permission"
	KindCooldown     Kind = "cooldown"
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not-found"
	KindStore        Kind = "store-failure"
	KindInternal     Kind = "internal"
)

type Result struct {
	Outcome   Outcome
	Kind      Kind
	Message   string
	Detail    string
	Remaining time.Duration
	Embeds    []discord.Embed
	Files     []*discord.File
	Ephemeral bool
	// Responded means the handler already answered the interaction itself.
	Responded bool
}

func (r Result) Success() bool {
	return r.Outcome == OutcomeSuccess
}

func OK(message string) Result {
	return Result{Outcome: OutcomeSuccess, Message: message}
}

func OKEmbed(embeds ...discord.Embed) Result {
	return Result{Outcome: OutcomeSuccess, Embeds: embeds}
}

// Responded is returned by handlers that sent their own response.
func Responded() Result {
	return Result{Outcome: OutcomeSuccess, Responded: true}
}

func NotFound() Result {
	return Result{Outcome: OutcomeNotFound, Kind: KindNotFound}
}

func Reject(kind Kind, message string) Result {
	return Result{Outcome: OutcomeRejected, Kind: kind, Message: message, Ephemeral: true}
}

// Invalid is a handler level validation rejection.
func Invalid(message string) Result {
	return Reject(KindValidation, message)
}

func Failed(kind Kind, message string) Result {
	return Result{Outcome: OutcomeFailed, Kind: kind, Message: message, Ephemeral: true}
}

func (r Result) WithDetail(detail string) Result {
	r.Detail = detail
	return r
}

func (r Result) Public() Result {
	r.Ephemeral = false
	return r
}
