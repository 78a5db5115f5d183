package discord

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/ytget/soundpack/internal/model"
	"github.com/ytget/soundpack/internal/pack"
	"github.com/ytget/soundpack/internal/prompt"
	"github.com/ytget/soundpack/internal/ui"
)

// Controller is what the router drives
type Controller interface {
	Manage(ctx context.Context, userID, link string) pack.Outcome
	Post() ui.Message
	HandlePanel(ctx context.Context, r prompt.Response) bool
	SetPackLink(ctx context.Context, link, sha1 string) (*ui.Embed, error)
	ShowCommand(ctx context.Context, userID, channelID string, clip *model.ClipEntry) (*ui.Embed, error)
	Ping(latency time.Duration) *ui.Embed
}

// Router dispatches interactions: commands to the controller, component and
// modal interactions to the panel or the prompt broker.
type Router struct {
	ctx         context.Context
	cancel      context.CancelFunc
	responder   Responder
	controller  Controller
	broker      *prompt.Broker
	text        *ui.Localization
	adminRoleID string
	latency     func() time.Duration
	log         logrus.FieldLogger

	wg sync.WaitGroup
}

// NewRouter creates a router. Sessions run under ctx until Stop; latency
// reports the gateway heartbeat latency for /ping.
func NewRouter(ctx context.Context, responder Responder, controller Controller, broker *prompt.Broker, adminRoleID string, latency func() time.Duration, log logrus.FieldLogger) *Router {
	ctx, cancel := context.WithCancel(ctx)
	return &Router{
		ctx:         ctx,
		cancel:      cancel,
		responder:   responder,
		controller:  controller,
		broker:      broker,
		text:        ui.NewLocalization(),
		adminRoleID: adminRoleID,
		latency:     latency,
		log:         log,
	}
}

// Handle is the InteractionCreate handler
func (r *Router) Handle(_ *discordgo.Session, ic *discordgo.InteractionCreate) {
	r.Dispatch(ic.Interaction)
}

// Dispatch routes one interaction
func (r *Router) Dispatch(i *discordgo.Interaction) {
	user := interactionUser(i)
	if user == nil {
		r.log.WithField("interaction", i.ID).Debug("Ignoring an interaction without user")
		return
	}

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		r.command(i, user)
	case discordgo.InteractionMessageComponent:
		data := i.MessageComponentData()
		r.respond(i, prompt.Response{
			CustomID: data.CustomID,
			UserID:   user.ID,
			Values:   data.Values,
		})
	case discordgo.InteractionModalSubmit:
		data := i.ModalSubmitData()
		r.respond(i, prompt.Response{
			CustomID: data.CustomID,
			UserID:   user.ID,
			Fields:   formFields(data.Components),
		})
	}
}

// Wait blocks until the sessions started by the router end
func (r *Router) Wait() {
	r.wg.Wait()
}

// Stop cancels the running sessions and waits for them to end
func (r *Router) Stop() {
	r.cancel()
	r.wg.Wait()
}

func (r *Router) respond(i *discordgo.Interaction, resp prompt.Response) {
	resp.Reply = &replier{responder: r.responder, interaction: i}
	log := r.log.WithFields(logrus.Fields{"user": resp.UserID, "custom_id": resp.CustomID})

	if isPanelID(resp.CustomID) {
		r.goSession(func(ctx context.Context) {
			r.controller.HandlePanel(ctx, resp)
		})
		return
	}

	if r.broker.Resolve(resp) {
		return
	}

	log.Debug("No prompt is waiting for this interaction")
	if err := resp.Reply.Notify(r.ctx, r.text.GetText(ui.KeyPromptExpired)); err != nil {
		log.WithError(err).Debug("Failed to answer an expired prompt")
	}
}

func (r *Router) command(i *discordgo.Interaction, user *discordgo.User) {
	data := i.ApplicationCommandData()
	line := commandLine(data)
	log := r.log.WithField("user", user.ID)
	log.Infof("%s used /%s (ID: %s)", user.Username, line, user.ID)
	defer log.Debugf("/%s ended (ID: %s)", line, user.ID)

	switch data.Name {
	case CommandPack:
		if len(data.Options) == 0 {
			return
		}
		if !r.isAdmin(i) {
			r.reply(i, ephemeral("", ui.ErrorEmbed(ui.IconLock+" "+r.text.GetText(ui.KeyNotAllowed))))
			return
		}
		sub := data.Options[0]
		r.pack(i, sub.Name, optionValues(sub.Options))
	case CommandPing:
		r.reply(i, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{Embeds: toEmbeds(r.controller.Ping(r.latency()))},
		})
	case CommandShowCommand:
		r.showCommand(i, user, data)
	}
}

func (r *Router) pack(i *discordgo.Interaction, sub string, values map[string]string) {
	switch sub {
	case SubcommandManage:
		userID := values[OptionUser]
		if userID == "" {
			r.reply(i, ephemeral("", ui.ErrorEmbed(r.text.GetText(ui.KeyManageUserRequired))))
			return
		}
		r.reply(i, ephemeral(r.text.Textf(ui.KeyStarting, userID), nil))
		link := values[OptionLink]
		r.goSession(func(ctx context.Context) {
			r.controller.Manage(ctx, userID, link)
		})
	case SubcommandPost:
		msg := r.controller.Post()
		r.reply(i, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Embeds:     toEmbeds(msg.Embed),
				Components: toComponents(msg),
			},
		})
	case SubcommandSet:
		embed, err := r.controller.SetPackLink(r.ctx, values[OptionLink], values[OptionSHA1])
		if err != nil {
			r.log.WithError(err).Warn("Failed to set the pack link")
		}
		r.reply(i, ephemeral("", embed))
	}
}

func (r *Router) showCommand(i *discordgo.Interaction, user *discordgo.User, data discordgo.ApplicationCommandInteractionData) {
	var target *discordgo.Message
	if data.Resolved != nil {
		target = data.Resolved.Messages[data.TargetID]
	}

	var clip *model.ClipEntry
	channelID := i.ChannelID
	if target != nil && len(target.Attachments) > 0 {
		c := toClip(target, target.Attachments[0])
		clip = &c
		if target.ChannelID != "" {
			channelID = target.ChannelID
		}
	}

	r.reply(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})

	r.goSession(func(ctx context.Context) {
		embed, err := r.controller.ShowCommand(ctx, user.ID, channelID, clip)
		if err != nil {
			r.log.WithError(err).WithField("user", user.ID).Warn("Failed to show the sound commands")
		}
		_, err = r.responder.FollowupMessageCreate(i, false, &discordgo.WebhookParams{
			Embeds: toEmbeds(embed),
			Flags:  discordgo.MessageFlagsEphemeral,
		}, discordgo.WithContext(ctx))
		if err != nil {
			r.log.WithError(err).Debug("Failed to send the followup message")
		}
	})
}

func (r *Router) reply(i *discordgo.Interaction, resp *discordgo.InteractionResponse) {
	if err := r.responder.InteractionRespond(i, resp, discordgo.WithContext(r.ctx)); err != nil {
		r.log.WithError(err).WithField("interaction", i.ID).Warn("Failed to respond to the interaction")
	}
}

func (r *Router) goSession(fn func(ctx context.Context)) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		fn(r.ctx)
	}()
}

// isAdmin checks the optional admin role on top of the command permissions
func (r *Router) isAdmin(i *discordgo.Interaction) bool {
	if r.adminRoleID == "" {
		return true
	}
	if i.Member == nil {
		return false
	}
	if i.Member.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return slices.Contains(i.Member.Roles, r.adminRoleID)
}

func isPanelID(id string) bool {
	switch id {
	case ui.PanelUploadID, ui.PanelRemoveID, ui.PanelFormID:
		return true
	}
	return false
}
