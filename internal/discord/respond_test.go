package discord

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
)

func TestConfigResponse_WithTags(t *testing.T) {
	resp := configResponse("user123", []string{"a", "b"})

	if resp.Type != discordgo.InteractionResponseChannelMessageWithSource {
		t.Fatalf("unexpected response type %d", resp.Type)
	}
	if resp.Data.Flags&discordgo.MessageFlagsEphemeral == 0 {
		t.Fatalf("config response must be ephemeral")
	}
	if !strings.Contains(resp.Data.Content, "`a`") || !strings.Contains(resp.Data.Content, "`b`") {
		t.Fatalf("tags missing from content: %q", resp.Data.Content)
	}
	if len(resp.Data.Components) != 2 {
		t.Fatalf("want select + buttons rows, got %d", len(resp.Data.Components))
	}
}

func TestConfigResponse_NoTags(t *testing.T) {
	resp := configResponse("user123", nil)

	if !strings.Contains(resp.Data.Content, "No tags configured") {
		t.Fatalf("missing empty-state text: %q", resp.Data.Content)
	}
	// no select menu when there is nothing to remove
	if len(resp.Data.Components) != 1 {
		t.Fatalf("want buttons row only, got %d", len(resp.Data.Components))
	}
}

func TestConfigUpdateResponse_Type(t *testing.T) {
	resp := configUpdateResponse("user123", []string{"a"})
	if resp.Type != discordgo.InteractionResponseUpdateMessage {
		t.Fatalf("unexpected response type %d", resp.Type)
	}
}

func TestTagSelectRow_CapsOptions(t *testing.T) {
	many := make([]string, 30)
	for i := range many {
		many[i] = strings.Repeat("x", i+1)
	}

	row, ok := tagSelectRow("u", many).(discordgo.ActionsRow)
	if !ok {
		t.Fatalf("want actions row")
	}
	menu, ok := row.Components[0].(discordgo.SelectMenu)
	if !ok {
		t.Fatalf("want select menu")
	}
	if len(menu.Options) != maxSelectOptions {
		t.Fatalf("want %d options, got %d", maxSelectOptions, len(menu.Options))
	}
	if !strings.HasPrefix(menu.CustomID, "tag_select_") {
		t.Fatalf("unexpected custom id %q", menu.CustomID)
	}
}

func TestTagSelectRow_TruncatesLabels(t *testing.T) {
	long := strings.Repeat("y", 150)

	row := tagSelectRow("u", []string{long}).(discordgo.ActionsRow)
	menu := row.Components[0].(discordgo.SelectMenu)

	label := menu.Options[0].Label
	if len(label) != maxOptionLabelLen {
		t.Fatalf("want label of %d chars, got %d", maxOptionLabelLen, len(label))
	}
	if !strings.HasSuffix(label, "...") {
		t.Fatalf("want ellipsis marker, got %q", label)
	}
	// the value stays untruncated so removal still matches exactly
	if menu.Options[0].Value != long {
		t.Fatalf("value must keep full tag")
	}
}

func TestTagSelectRow_TruncatesMultiByteLabels(t *testing.T) {
	long := strings.Repeat("日", 150)

	row := tagSelectRow("u", []string{long}).(discordgo.ActionsRow)
	menu := row.Components[0].(discordgo.SelectMenu)

	label := menu.Options[0].Label
	if !utf8.ValidString(label) {
		t.Fatalf("truncation split a rune: %q", label)
	}
	if n := utf8.RuneCountInString(label); n != maxOptionLabelLen {
		t.Fatalf("want %d chars, got %d", maxOptionLabelLen, n)
	}
	if !strings.HasSuffix(label, "...") {
		t.Fatalf("want ellipsis marker, got %q", label)
	}
}

func TestAddTagModal(t *testing.T) {
	resp := addTagModal("user123")

	if resp.Type != discordgo.InteractionResponseModal {
		t.Fatalf("unexpected response type %d", resp.Type)
	}
	if resp.Data.CustomID != "add_tag_modal_user123" {
		t.Fatalf("unexpected custom id %q", resp.Data.CustomID)
	}
	row := resp.Data.Components[0].(discordgo.ActionsRow)
	input := row.Components[0].(discordgo.TextInput)
	if input.CustomID != "tag_input" || !input.Required || input.MaxLength != maxTagInputLen {
		t.Fatalf("unexpected text input: %+v", input)
	}
}

func TestErrorResponse(t *testing.T) {
	resp := errorResponse("boom")

	if !strings.HasPrefix(resp.Data.Content, "**Error:**") {
		t.Fatalf("unexpected content %q", resp.Data.Content)
	}
	if resp.Data.Flags&discordgo.MessageFlagsEphemeral == 0 {
		t.Fatalf("error response must be ephemeral")
	}
}

func TestGifEdit(t *testing.T) {
	edit := gifEdit("user123", "https://example.com/gif.gif")

	if *edit.Content != "https://example.com/gif.gif" {
		t.Fatalf("unexpected content %q", *edit.Content)
	}
	row := (*edit.Components)[0].(discordgo.ActionsRow)
	button := row.Components[0].(discordgo.Button)
	if button.CustomID != "refresh_user123" {
		t.Fatalf("unexpected refresh id %q", button.CustomID)
	}
}

func TestCommands_MatchRegisteredSurface(t *testing.T) {
	if len(Commands) != 2 {
		t.Fatalf("want 2 commands, got %d", len(Commands))
	}
	names := map[string]bool{}
	for _, c := range Commands {
		names[c.Name] = true
	}
	if !names["send"] || !names["config"] {
		t.Fatalf("unexpected command set: %v", names)
	}
}
