package handlers

import (
	"context"
	"log"
	"strings"

	"github.com/ad/go-telegram-wordwizard/internal/db"
	"github.com/ad/go-telegram-wordwizard/internal/services"
)

type AdminHandler struct {
	msgManager   *services.MessageManager
	adminID      int64
	payments     *services.PaymentService
	settingsRepo *db.SettingsRepository
}

func NewAdminHandler(msgManager *services.MessageManager, adminID int64, payments *services.PaymentService, settingsRepo *db.SettingsRepository) *AdminHandler {
	return &AdminHandler{
		msgManager:   msgManager,
		adminID:      adminID,
		payments:     payments,
		settingsRepo: settingsRepo,
	}
}

// HandleCommand reports whether cmd was an admin command. text is the raw
// message the command came from.
func (h *AdminHandler) HandleCommand(ctx context.Context, chatID int64, cmd string, args []string, text string) bool {
	switch cmd {
	case "/gateway":
		h.handleGateway(ctx, chatID, args)
	case "/setmessage":
		h.handleSetMessage(ctx, chatID, args, textAfterFields(text, 2))
	default:
		return false
	}
	return true
}

func (h *AdminHandler) handleGateway(ctx context.Context, chatID int64, args []string) {
	action, gateway, err := parseGatewayArgs(args)
	if err != nil {
		h.msgManager.SendText(ctx, chatID, "Usage: /gateway show|mock|reset|stripe &lt;api&gt; &lt;secret&gt;|paypal &lt;client&gt; &lt;secret&gt;")
		return
	}

	switch action {
	case gatewaySet:
		_, err = h.payments.UpdateGateway(gateway)
	case gatewayReset:
		_, err = h.payments.ResetGateway()
	}
	if err != nil {
		log.Printf("[ADMIN] Gateway update failed: %v", err)
		h.msgManager.SendText(ctx, chatID, "⚠️ "+services.FormatItalic(err.Error()))
		return
	}

	config, err := h.payments.GatewayConfig()
	if err != nil {
		log.Printf("[ADMIN] Failed to load gateway config: %v", err)
		h.msgManager.SendText(ctx, chatID, "⚠️ Could not load the gateway config")
		return
	}
	h.msgManager.SendText(ctx, chatID, services.FormatPaymentConfig(config))
}

func (h *AdminHandler) handleSetMessage(ctx context.Context, chatID int64, args []string, value string) {
	if len(args) < 2 {
		h.msgManager.SendText(ctx, chatID, "Usage: /setmessage welcome|correct|wrong|reminder|exhausted &lt;text&gt;")
		return
	}
	key, ok := settingKeys[strings.ToLower(args[0])]
	if !ok {
		h.msgManager.SendText(ctx, chatID, "⚠️ Unknown message name")
		return
	}
	if err := h.settingsRepo.Set(key, value); err != nil {
		log.Printf("[ADMIN] Failed to save %s: %v", key, err)
		h.msgManager.SendText(ctx, chatID, "⚠️ Could not save the message")
		return
	}
	h.msgManager.SendText(ctx, chatID, "✅ Saved")
}
