// Package discord adapts the pack controller to Discord through discordgo:
// it renders ui messages as Discord components, implements the controller's
// Platform, declares the application commands and routes interactions.
package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/ytget/soundpack/internal/model"
	"github.com/ytget/soundpack/internal/ui"
)

// JumpURLFormat links to a message; the guild is "@me" for DMs
const JumpURLFormat = "https://discord.com/channels/%s/%s/%s"

var buttonStyles = map[ui.ButtonStyle]discordgo.ButtonStyle{
	ui.StylePrimary:   discordgo.PrimaryButton,
	ui.StyleSecondary: discordgo.SecondaryButton,
	ui.StyleSuccess:   discordgo.SuccessButton,
	ui.StyleDanger:    discordgo.DangerButton,
}

func jumpURL(guildID, channelID, messageID string) string {
	if guildID == "" {
		guildID = "@me"
	}
	return fmt.Sprintf(JumpURLFormat, guildID, channelID, messageID)
}

// ToEmbed renders a ui embed
func ToEmbed(e *ui.Embed) *discordgo.MessageEmbed {
	if e == nil {
		return nil
	}

	embed := &discordgo.MessageEmbed{
		Title:       e.Title,
		URL:         e.URL,
		Description: e.Description,
		Color:       e.Colour,
	}
	if e.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: e.Thumbnail}
	}
	if e.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer, IconURL: e.FooterIcon}
	}
	if !e.Timestamp.IsZero() {
		embed.Timestamp = e.Timestamp.Format(time.RFC3339)
	}
	for _, f := range e.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	return embed
}

func toEmbeds(e *ui.Embed) []*discordgo.MessageEmbed {
	if e == nil {
		return []*discordgo.MessageEmbed{}
	}
	return []*discordgo.MessageEmbed{ToEmbed(e)}
}

// toComponents lays buttons out in one row and the dropdown in another
func toComponents(m ui.Message) []discordgo.MessageComponent {
	components := []discordgo.MessageComponent{}

	if len(m.Buttons) > 0 {
		row := discordgo.ActionsRow{}
		for _, b := range m.Buttons {
			style, ok := buttonStyles[b.Style]
			if !ok {
				style = discordgo.PrimaryButton
			}
			row.Components = append(row.Components, discordgo.Button{
				CustomID: b.ID,
				Label:    b.Label,
				Style:    style,
				Disabled: b.Disabled,
			})
		}
		components = append(components, row)
	}

	if m.Select != nil {
		minValues := 1
		menu := discordgo.SelectMenu{
			MenuType:    discordgo.StringSelectMenu,
			CustomID:    m.Select.ID,
			Placeholder: m.Select.Placeholder,
			MinValues:   &minValues,
			MaxValues:   1,
		}
		for _, o := range m.Select.Options {
			menu.Options = append(menu.Options, discordgo.SelectMenuOption{
				Label:       o.Label,
				Value:       o.Value,
				Description: o.Description,
			})
		}
		components = append(components, discordgo.ActionsRow{Components: []discordgo.MessageComponent{menu}})
	}

	return components
}

func toMessageSend(m ui.Message) *discordgo.MessageSend {
	send := &discordgo.MessageSend{Content: m.Content}
	if m.Embed != nil {
		send.Embeds = toEmbeds(m.Embed)
	}
	if m.HasComponents() {
		send.Components = toComponents(m)
	}
	return send
}

// toMessageEdit replaces content, embed and components of a message
func toMessageEdit(channelID, messageID string, m ui.Message) *discordgo.MessageEdit {
	content := m.Content
	embeds := toEmbeds(m.Embed)
	components := toComponents(m)
	return &discordgo.MessageEdit{
		ID:         messageID,
		Channel:    channelID,
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
	}
}

func toModal(f ui.Form) *discordgo.InteractionResponseData {
	rows := make([]discordgo.MessageComponent, 0, len(f.Inputs))
	for _, in := range f.Inputs {
		rows = append(rows, discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.TextInput{
				CustomID:    in.ID,
				Label:       in.Label,
				Style:       discordgo.TextInputShort,
				Placeholder: in.Placeholder,
				Value:       in.Value,
				Required:    in.Required,
				MinLength:   in.MinLength,
				MaxLength:   in.MaxLength,
			},
		}})
	}
	return &discordgo.InteractionResponseData{
		CustomID:   f.ID,
		Title:      f.Title,
		Components: rows,
	}
}

// formFields collects text input values of a submitted modal by custom ID
func formFields(components []discordgo.MessageComponent) map[string]string {
	fields := make(map[string]string)

	var walk func([]discordgo.MessageComponent)
	walk = func(cs []discordgo.MessageComponent) {
		for _, c := range cs {
			switch v := c.(type) {
			case *discordgo.ActionsRow:
				walk(v.Components)
			case discordgo.ActionsRow:
				walk(v.Components)
			case *discordgo.TextInput:
				fields[v.CustomID] = v.Value
			case discordgo.TextInput:
				fields[v.CustomID] = v.Value
			}
		}
	}
	walk(components)

	return fields
}

// clipsFromMessages lists every attachment of messages, newest message first
func clipsFromMessages(messages []*discordgo.Message) []model.ClipEntry {
	var clips []model.ClipEntry
	for _, m := range messages {
		if m == nil {
			continue
		}
		for _, a := range m.Attachments {
			if a == nil {
				continue
			}
			clips = append(clips, toClip(m, a))
		}
	}
	return clips
}

func toClip(m *discordgo.Message, a *discordgo.MessageAttachment) model.ClipEntry {
	return model.ClipEntry{
		ChannelID:   m.ChannelID,
		MessageID:   m.ID,
		Filename:    a.Filename,
		ContentType: strings.TrimSpace(strings.SplitN(a.ContentType, ";", 2)[0]),
		Size:        int64(a.Size),
		URL:         a.URL,
		PostedAt:    m.Timestamp,
	}
}

// interactionUser returns the user behind an interaction, in guilds or DMs
func interactionUser(i *discordgo.Interaction) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// commandLine renders an application command as typed, e.g. "pack manage [42 link]"
func commandLine(data discordgo.ApplicationCommandInteractionData) string {
	name := data.Name
	var args []string

	options := data.Options
	for len(options) > 0 {
		next := options[:0:0]
		for _, opt := range options {
			switch opt.Type {
			case discordgo.ApplicationCommandOptionSubCommand, discordgo.ApplicationCommandOptionSubCommandGroup:
				name += " " + opt.Name
				next = append(next, opt.Options...)
			default:
				args = append(args, fmt.Sprint(opt.Value))
			}
		}
		options = next
	}

	if len(args) == 0 {
		return name
	}
	return fmt.Sprintf("%s [%s]", name, strings.Join(args, " "))
}
