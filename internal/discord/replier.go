package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/ytget/soundpack/internal/prompt"
	"github.com/ytget/soundpack/internal/ui"
)

// Responder is the part of a discordgo session answering interactions
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// replier answers one component or modal interaction
type replier struct {
	responder   Responder
	interaction *discordgo.Interaction
}

var _ prompt.Replier = (*replier)(nil)

func (r *replier) OpenForm(ctx context.Context, form ui.Form) error {
	return r.responder.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: toModal(form),
	}, discordgo.WithContext(ctx))
}

func (r *replier) Acknowledge(ctx context.Context) error {
	return r.responder.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}, discordgo.WithContext(ctx))
}

func (r *replier) Notify(ctx context.Context, text string) error {
	return r.responder.InteractionRespond(r.interaction, ephemeral(text, nil), discordgo.WithContext(ctx))
}

func ephemeral(content string, embed *ui.Embed) *discordgo.InteractionResponse {
	data := &discordgo.InteractionResponseData{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	}
	if embed != nil {
		data.Embeds = toEmbeds(embed)
	}
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}
}
