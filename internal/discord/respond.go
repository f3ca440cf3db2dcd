package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Discord limits for string select menus and modal text inputs.
const (
	maxSelectOptions  = 25
	maxOptionLabelLen = 100
	maxTagInputLen    = 100
)

func pongResponse() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{Type: discordgo.InteractionResponsePong}
}

func deferredEphemeralResponse() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}
}

func deferredUpdateResponse() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}
}

func errorResponse(msg string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("**Error:** %s", msg),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}
}

// configResponse renders the settings UI as a new ephemeral message.
func configResponse(userID string, userTags []string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    tagsContent(userTags),
			Flags:      discordgo.MessageFlagsEphemeral,
			Components: configComponents(userID, userTags),
		},
	}
}

// configUpdateResponse rewrites the settings UI in place.
func configUpdateResponse(userID string, userTags []string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    tagsContent(userTags),
			Components: configComponents(userID, userTags),
		},
	}
}

func addTagModal(userID string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: "add_tag_modal_" + userID,
			Title:    "Add Tag",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:    "tag_input",
							Label:       "Tag",
							Style:       discordgo.TextInputShort,
							Placeholder: "Enter tag to add",
							Required:    true,
							MaxLength:   maxTagInputLen,
						},
					},
				},
			},
		},
	}
}

func gifEdit(userID, gifURL string) *discordgo.WebhookEdit {
	content := gifURL
	components := []discordgo.MessageComponent{refreshRow(userID)}
	return &discordgo.WebhookEdit{
		Content:    &content,
		Components: &components,
	}
}

func errorEdit(msg string, components ...discordgo.MessageComponent) *discordgo.WebhookEdit {
	content := fmt.Sprintf("**Error:** %s", msg)
	edit := &discordgo.WebhookEdit{Content: &content}
	if len(components) > 0 {
		edit.Components = &components
	}
	return edit
}

func tagsContent(userTags []string) string {
	if len(userTags) == 0 {
		return "**Current Tags**\nNo tags configured"
	}
	quoted := make([]string, len(userTags))
	for i, tag := range userTags {
		quoted[i] = "`" + tag + "`"
	}
	return "**Current Tags**\n" + strings.Join(quoted, "\n")
}

func configComponents(userID string, userTags []string) []discordgo.MessageComponent {
	var components []discordgo.MessageComponent
	if row := tagSelectRow(userID, userTags); row != nil {
		components = append(components, row)
	}
	components = append(components, configButtonsRow(userID))
	return components
}

// tagSelectRow builds the removal select menu, or nil when there is nothing
// to remove.
func tagSelectRow(userID string, userTags []string) discordgo.MessageComponent {
	if len(userTags) == 0 {
		return nil
	}
	if len(userTags) > maxSelectOptions {
		userTags = userTags[:maxSelectOptions]
	}
	options := make([]discordgo.SelectMenuOption, len(userTags))
	for i, tag := range userTags {
		label := tag
		if runes := []rune(label); len(runes) > maxOptionLabelLen {
			label = string(runes[:maxOptionLabelLen-3]) + "..."
		}
		options[i] = discordgo.SelectMenuOption{
			Label:       label,
			Value:       tag,
			Description: "Click to remove this tag",
		}
	}
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				MenuType:    discordgo.StringSelectMenu,
				CustomID:    "tag_select_" + userID,
				Placeholder: "Select a tag to remove",
				Options:     options,
			},
		},
	}
}

func configButtonsRow(userID string) discordgo.MessageComponent {
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Style:    discordgo.PrimaryButton,
				CustomID: "config_add_" + userID,
				Label:    "Add Tag",
			},
			discordgo.Button{
				Style:    discordgo.SecondaryButton,
				CustomID: "config_view_" + userID,
				Label:    "Refresh",
			},
			discordgo.Button{
				Style:    discordgo.DangerButton,
				CustomID: "config_reset_" + userID,
				Label:    "Reset to Defaults",
			},
		},
	}
}

func refreshRow(userID string) discordgo.MessageComponent {
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Style:    discordgo.PrimaryButton,
				CustomID: "refresh_" + userID,
				Label:    "Refresh",
			},
		},
	}
}
