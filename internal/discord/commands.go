package discord

import "github.com/bwmarrin/discordgo"

// Command and option names
const (
	CommandPack        = "pack"
	CommandPing        = "ping"
	CommandShowCommand = "Show Command"

	SubcommandManage = "manage"
	SubcommandPost   = "post"
	SubcommandSet    = "set"

	OptionUser = "user"
	OptionLink = "link"
	OptionSHA1 = "sha1"
)

// Commands returns the application commands of the bot
func Commands() []*discordgo.ApplicationCommand {
	admin := int64(discordgo.PermissionAdministrator)

	return []*discordgo.ApplicationCommand{
		{
			Name:                     CommandPack,
			Description:              "Manage the ressource pack.",
			DefaultMemberPermissions: &admin,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        SubcommandManage,
					Description: "Manually start the pack managing process for a given user.",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        OptionUser,
							Description: "The user running the process.",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        OptionLink,
							Description: "The link to add. Leave empty to remove a sound file.",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        SubcommandPost,
					Description: "Post the pack to the server.",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        SubcommandSet,
					Description: "Set the ressource pack link.",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        OptionLink,
							Description: "The ressource pack download link.",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        OptionSHA1,
							Description: "The sha1 hash of the pack, taken from the link when empty.",
						},
					},
				},
			},
		},
		{
			Name:        CommandPing,
			Description: "Ping the bot to see its latency.",
		},
		{
			Name: CommandShowCommand,
			Type: discordgo.MessageApplicationCommand,
		},
	}
}

// optionValues flattens the options of a subcommand by name
func optionValues(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]string {
	values := make(map[string]string, len(options))
	for _, opt := range options {
		switch opt.Type {
		case discordgo.ApplicationCommandOptionString:
			values[opt.Name] = opt.StringValue()
		case discordgo.ApplicationCommandOptionUser:
			if id, ok := opt.Value.(string); ok {
				values[opt.Name] = id
			}
		}
	}
	return values
}
