package utils

import (
	"github.com/bucksy-bot/bucksy/bucksy/command"
	"github.com/disgoorg/disgo/discord"
)

// ResponseHandler turns command results into Discord messages.
type ResponseHandler struct{}

var EH = &ResponseHandler{}

// Render builds the reply for res. Ephemeral only applies to interactions.
func (h *ResponseHandler) Render(res command.Result, interaction bool) discord.MessageCreate {
	msg := discord.MessageCreate{
		Content: res.Message,
		Embeds:  res.Embeds,
		Files:   res.Files,
	}
	if interaction && res.Ephemeral {
		msg.Flags = discord.MessageFlagEphemeral
	}
	return msg
}
