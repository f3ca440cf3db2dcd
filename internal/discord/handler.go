package discord

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"discord-giff/internal/audit"
	"discord-giff/internal/e621"
	"discord-giff/internal/tags"
)

// Fetcher yields one random matching result for a user's tag list.
type Fetcher interface {
	FetchRandomGif(ctx context.Context, userID string) (*e621.Gif, error)
}

// Editor delivers the follow-up edit of a deferred interaction response.
// *discordgo.Session satisfies it.
type Editor interface {
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Handler is the single inbound endpoint for Discord interaction events.
// It verifies the request signature, classifies the event and routes it to
// the store, the fetcher and the response builders. Each event is handled
// independently; the deferred flows continue in their own goroutine after
// the synchronous acknowledgement.
type Handler struct {
	store     tags.Store
	fetcher   Fetcher
	editor    Editor
	publicKey ed25519.PublicKey
	recorder  *audit.Recorder // optional
	log       *zap.Logger
}

func NewHandler(store tags.Store, fetcher Fetcher, editor Editor, publicKey ed25519.PublicKey, recorder *audit.Recorder, log *zap.Logger) *Handler {
	return &Handler{
		store:     store,
		fetcher:   fetcher,
		editor:    editor,
		publicKey: publicKey,
		recorder:  recorder,
		log:       log,
	}
}

// ParsePublicKey decodes the hex-encoded ed25519 verification key Discord
// shows on the application page.
func ParsePublicKey(hexKey string) (ed25519.PublicKey, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decode public key: %w", err)
	}
	if len(key) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(key))
	}
	return key, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !discordgo.VerifyInteraction(r, h.publicKey) {
		h.log.Warn("invalid request signature", zap.String("remote", r.RemoteAddr))
		writeError(w, http.StatusUnauthorized, "invalid request signature")
		return
	}

	var interaction discordgo.Interaction
	if err := json.NewDecoder(r.Body).Decode(&interaction); err != nil {
		h.log.Error("failed to decode interaction", zap.Error(err))
		writeError(w, http.StatusBadRequest, "malformed interaction")
		return
	}

	h.dispatch(w, &interaction)
}

func (h *Handler) dispatch(w http.ResponseWriter, i *discordgo.Interaction) {
	userID := resolveUserID(i)
	if userID == "" && i.Type != discordgo.InteractionPing {
		h.log.Error("could not determine user id", zap.Int("type", int(i.Type)))
		writeError(w, http.StatusBadRequest, "could not determine user id")
		return
	}

	switch i.Type {
	case discordgo.InteractionPing:
		h.respond(w, pongResponse())

	case discordgo.InteractionApplicationCommand:
		h.handleCommand(w, i, userID)

	case discordgo.InteractionMessageComponent:
		h.handleComponent(w, i, userID)

	case discordgo.InteractionModalSubmit:
		h.handleModalSubmit(w, i, userID)

	default:
		h.log.Error("unknown interaction type",
			zap.Int("type", int(i.Type)),
			zap.String("user_id", userID))
		writeError(w, http.StatusBadRequest, "unknown interaction")
	}
}

func (h *Handler) handleCommand(w http.ResponseWriter, i *discordgo.Interaction, userID string) {
	data := i.ApplicationCommandData()
	switch data.Name {
	case "config":
		cfg := h.store.Get(userID)
		h.record(userID, "config", nil)
		h.respond(w, configResponse(userID, cfg.Tags))

	case "send":
		// Acknowledge within the response-time budget, deliver the real
		// content via follow-up edit.
		h.respond(w, deferredEphemeralResponse())
		go h.deliverGif(i, userID, "send")

	default:
		h.log.Error("unknown command",
			zap.String("name", data.Name),
			zap.String("user_id", userID))
		writeError(w, http.StatusBadRequest, "unknown interaction")
	}
}

func (h *Handler) handleComponent(w http.ResponseWriter, i *discordgo.Interaction, userID string) {
	data := i.MessageComponentData()
	customID := data.CustomID

	switch {
	case strings.HasPrefix(customID, "refresh_"):
		h.respond(w, deferredUpdateResponse())
		go h.deliverGif(i, userID, "refresh")

	case strings.HasPrefix(customID, "config_view_"):
		cfg := h.store.Get(userID)
		h.record(userID, "config_view", nil)
		h.respond(w, configUpdateResponse(userID, cfg.Tags))

	case strings.HasPrefix(customID, "config_reset_"):
		cfg := h.store.Reset(userID)
		h.record(userID, "config_reset", nil)
		h.respond(w, configUpdateResponse(userID, cfg.Tags))

	case strings.HasPrefix(customID, "config_add_"):
		h.respond(w, addTagModal(userID))

	case strings.HasPrefix(customID, "tag_select_"):
		if len(data.Values) == 0 {
			h.log.Error("tag select without values", zap.String("user_id", userID))
			h.respond(w, errorResponse("no tag selected"))
			return
		}
		cfg := h.store.Remove(userID, data.Values[0])
		h.record(userID, "tag_remove", nil)
		h.respond(w, configUpdateResponse(userID, cfg.Tags))

	default:
		h.log.Error("unknown component",
			zap.String("custom_id", customID),
			zap.String("user_id", userID))
		writeError(w, http.StatusBadRequest, "unknown interaction")
	}
}

func (h *Handler) handleModalSubmit(w http.ResponseWriter, i *discordgo.Interaction, userID string) {
	data := i.ModalSubmitData()
	if !strings.HasPrefix(data.CustomID, "add_tag_modal_") {
		h.log.Error("unknown modal",
			zap.String("custom_id", data.CustomID),
			zap.String("user_id", userID))
		writeError(w, http.StatusBadRequest, "unknown interaction")
		return
	}

	value, ok := modalInputValue(data, "tag_input")
	if !ok {
		h.log.Error("modal submit without tag input", zap.String("user_id", userID))
		h.respond(w, errorResponse("missing tag input"))
		return
	}
	cfg := h.store.Add(userID, value)
	h.record(userID, "tag_add", nil)
	h.respond(w, configResponse(userID, cfg.Tags))
}

// deliverGif is the asynchronous half of the send/refresh flows. It runs
// detached from the inbound request and delivers result or failure through
// a best-effort follow-up edit.
func (h *Handler) deliverGif(i *discordgo.Interaction, userID, action string) {
	gif, err := h.fetcher.FetchRandomGif(context.Background(), userID)
	h.record(userID, action, err)
	if err != nil {
		h.log.Error("failed to fetch gif",
			zap.String("action", action),
			zap.String("user_id", userID),
			zap.Error(err))
		edit := errorEdit(err.Error())
		if action == "refresh" {
			edit = errorEdit(err.Error(), refreshRow(userID))
		}
		if _, editErr := h.editor.InteractionResponseEdit(i, edit); editErr != nil {
			h.log.Error("failed to deliver error message",
				zap.String("action", action),
				zap.String("user_id", userID),
				zap.Error(editErr))
		}
		return
	}

	if _, err := h.editor.InteractionResponseEdit(i, gifEdit(userID, gif.URL)); err != nil {
		h.log.Error("failed to edit interaction response",
			zap.String("action", action),
			zap.String("user_id", userID),
			zap.Error(err))
	}
}

func (h *Handler) respond(w http.ResponseWriter, resp *discordgo.InteractionResponse) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.Error("failed to write interaction response", zap.Error(err))
	}
}

func (h *Handler) record(userID, action string, actionErr error) {
	if h.recorder == nil {
		return
	}
	ev := audit.Event{
		Timestamp: time.Now().UTC(),
		UserID:    userID,
		Action:    action,
	}
	if actionErr != nil {
		ev.Error = actionErr.Error()
	}
	if err := h.recorder.Append(ev); err != nil {
		h.log.Warn("failed to append audit event", zap.Error(err))
	}
}

func resolveUserID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	if i.Message != nil && i.Message.Interaction != nil && i.Message.Interaction.User != nil {
		return i.Message.Interaction.User.ID
	}
	return ""
}

// modalInputValue walks the submitted modal rows for the named text input.
func modalInputValue(data discordgo.ModalSubmitInteractionData, customID string) (string, bool) {
	for _, c := range data.Components {
		row, ok := c.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, rc := range row.Components {
			if input, ok := rc.(*discordgo.TextInput); ok && input.CustomID == customID {
				return input.Value, true
			}
		}
	}
	return "", false
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
