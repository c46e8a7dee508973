package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ad/go-telegram-wordwizard/internal/db"
	"github.com/ad/go-telegram-wordwizard/internal/models"
	"github.com/ad/go-telegram-wordwizard/internal/services"
)

// ParentHandler serves the commands reserved for parent accounts.
type ParentHandler struct {
	msgManager *services.MessageManager
	dashboards *services.DashboardService
	payments   *services.PaymentService
	userRepo   *db.UserRepository
	now        func() time.Time
}

func NewParentHandler(msgManager *services.MessageManager, dashboards *services.DashboardService, payments *services.PaymentService, userRepo *db.UserRepository) *ParentHandler {
	return &ParentHandler{
		msgManager: msgManager,
		dashboards: dashboards,
		payments:   payments,
		userRepo:   userRepo,
		now:        time.Now,
	}
}

func (h *ParentHandler) HandleCommand(ctx context.Context, user *models.User, chatID int64, cmd string, args []string) bool {
	switch cmd {
	case "/dashboard", "/link", "/subscribe":
	default:
		return false
	}

	if !user.IsParent {
		h.msgManager.SendText(ctx, chatID, "🔒 This command is for parent accounts.")
		return true
	}

	switch cmd {
	case "/dashboard":
		h.showDashboard(ctx, user, chatID)
	case "/link":
		h.linkChild(ctx, user, chatID, args)
	case "/subscribe":
		h.subscribe(ctx, user, chatID, args)
	}
	return true
}

func (h *ParentHandler) showDashboard(ctx context.Context, parent *models.User, chatID int64) {
	dashboards, err := h.dashboards.ForParent(parent.ID)
	if errors.Is(err, services.ErrNotParent) {
		h.msgManager.SendText(ctx, chatID, "🔒 This command is for parent accounts.")
		return
	}
	if err != nil {
		log.Printf("[PARENT] Failed to build dashboards for %d: %v", parent.ID, err)
		h.msgManager.SendText(ctx, chatID, "⚠️ Could not load the dashboard")
		return
	}
	if len(dashboards) == 0 {
		h.msgManager.SendText(ctx, chatID, "No linked children yet. Use /link &lt;child_id&gt;.")
		return
	}

	now := h.now()
	for _, d := range dashboards {
		h.msgManager.SendText(ctx, chatID, services.FormatDashboard(d, now))
	}
}

func (h *ParentHandler) linkChild(ctx context.Context, parent *models.User, chatID int64, args []string) {
	if len(args) != 1 {
		h.msgManager.SendText(ctx, chatID, "Usage: /link &lt;child_id&gt;")
		return
	}
	childID, err := parseUserID(args[0])
	if err != nil || childID == parent.ID {
		h.msgManager.SendText(ctx, chatID, "⚠️ Invalid child id")
		return
	}

	child, err := h.userRepo.GetByID(childID)
	if errors.Is(err, db.ErrUserNotFound) {
		h.msgManager.SendText(ctx, chatID, "⚠️ The child must send /start to the bot first")
		return
	}
	if err != nil {
		log.Printf("[PARENT] Failed to load child %d: %v", childID, err)
		h.msgManager.SendText(ctx, chatID, "⚠️ Could not link the account")
		return
	}
	if child.IsParent {
		h.msgManager.SendText(ctx, chatID, "⚠️ Parent accounts cannot be linked as children")
		return
	}

	if err := h.userRepo.LinkChild(parent.ID, childID); err != nil {
		log.Printf("[PARENT] Failed to link %d -> %d: %v", parent.ID, childID, err)
		h.msgManager.SendText(ctx, chatID, "⚠️ Could not link the account")
		return
	}
	log.Printf("[PARENT] %d linked child %d", parent.ID, childID)
	h.msgManager.SendText(ctx, chatID, fmt.Sprintf("✅ Linked %s", services.FormatBold(child.DisplayName())))
}

func (h *ParentHandler) subscribe(ctx context.Context, parent *models.User, chatID int64, args []string) {
	if len(args) == 0 {
		h.showSubscription(ctx, parent, chatID)
		return
	}
	if len(args) < 2 {
		h.msgManager.SendText(ctx, chatID, "Usage: /subscribe &lt;Basic|Family|Premium&gt; &lt;card number&gt;")
		return
	}
	plan, err := services.ParsePlan(args[0])
	if err != nil {
		h.msgManager.SendText(ctx, chatID, "⚠️ Unknown plan. Choose Basic, Family or Premium.")
		return
	}

	details := models.PaymentDetails{
		CardName:   parent.DisplayName(),
		CardNumber: strings.Join(args[1:], ""),
	}
	sub, err := h.payments.Subscribe(ctx, parent.ID, plan, details)
	switch {
	case errors.Is(err, services.ErrPaymentDeclined):
		h.msgManager.SendText(ctx, chatID, "❌ Payment declined. Please check the card number.")
	case errors.Is(err, services.ErrGatewayUnsupported), errors.Is(err, models.ErrGatewayMisconfigured):
		log.Printf("[PAYMENT] Gateway unavailable for %d: %v", parent.ID, err)
		h.msgManager.SendText(ctx, chatID, "⚠️ Payments are temporarily unavailable.")
	case err != nil:
		log.Printf("[PAYMENT] Subscription failed for %d: %v", parent.ID, err)
		h.msgManager.SendText(ctx, chatID, "⚠️ Could not complete the payment")
	default:
		h.msgManager.SendText(ctx, chatID, fmt.Sprintf("🎉 %s plan active: %.2f %s\nTransaction: %s",
			services.FormatBold(string(sub.Plan)), sub.Amount, sub.Currency, services.FormatCode(sub.TransactionID)))
	}
}

func (h *ParentHandler) showSubscription(ctx context.Context, parent *models.User, chatID int64) {
	sub, err := h.payments.CurrentSubscription(parent.ID)
	if err != nil {
		log.Printf("[PAYMENT] Failed to load subscription for %d: %v", parent.ID, err)
		h.msgManager.SendText(ctx, chatID, "⚠️ Could not load your subscription")
		return
	}
	if sub == nil {
		h.msgManager.SendText(ctx, chatID, "No subscription yet.\nUsage: /subscribe &lt;Basic|Family|Premium&gt; &lt;card number&gt;")
		return
	}
	h.msgManager.SendText(ctx, chatID, fmt.Sprintf("💳 %s plan, %.2f %s\nSince %s",
		services.FormatBold(string(sub.Plan)), sub.Amount, sub.Currency, sub.CreatedAt.Format("2 Jan 2006")))
}
