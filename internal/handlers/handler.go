package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ad/go-telegram-wordwizard/internal/db"
	"github.com/ad/go-telegram-wordwizard/internal/fsm"
	"github.com/ad/go-telegram-wordwizard/internal/models"
	"github.com/ad/go-telegram-wordwizard/internal/services"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

// BotClient is the subset of *bot.Bot the handlers call.
type BotClient interface {
	services.BotAPI
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

const helpText = `🪄 Word Wizard

/play &lt;animals|cars&gt; [easy|medium|hard] start spelling
/hint repeat the hint
/skip skip the current word
/progress your progress

Parents:
/link &lt;child_id&gt; link a child account
/dashboard progress of linked children
/subscribe &lt;Basic|Family|Premium&gt; &lt;card number&gt;
/subscribe current plan`

type BotHandler struct {
	bot           BotClient
	adminID       int64
	parentIDs     map[int64]bool
	errorManager  *services.ErrorManager
	msgManager    *services.MessageManager
	game          *services.GameService
	dashboards    *services.DashboardService
	userRepo      *db.UserRepository
	settingsRepo  *db.SettingsRepository
	chatStateRepo *db.ChatStateRepository
	parentHandler *ParentHandler
	adminHandler  *AdminHandler
	now           func() time.Time
}

func NewBotHandler(
	b BotClient,
	adminID int64,
	parentIDs []int64,
	errorManager *services.ErrorManager,
	msgManager *services.MessageManager,
	game *services.GameService,
	dashboards *services.DashboardService,
	payments *services.PaymentService,
	userRepo *db.UserRepository,
	settingsRepo *db.SettingsRepository,
	chatStateRepo *db.ChatStateRepository,
) *BotHandler {
	parents := make(map[int64]bool, len(parentIDs))
	for _, id := range parentIDs {
		parents[id] = true
	}

	return &BotHandler{
		bot:           b,
		adminID:       adminID,
		parentIDs:     parents,
		errorManager:  errorManager,
		msgManager:    msgManager,
		game:          game,
		dashboards:    dashboards,
		userRepo:      userRepo,
		settingsRepo:  settingsRepo,
		chatStateRepo: chatStateRepo,
		parentHandler: NewParentHandler(msgManager, dashboards, payments, userRepo),
		adminHandler:  NewAdminHandler(msgManager, adminID, payments, settingsRepo),
		now:           time.Now,
	}
}

func (h *BotHandler) HandleUpdate(ctx context.Context, _ *bot.Bot, update *tgmodels.Update) {
	defer h.recoverPanic(ctx, update)

	if update.Message != nil {
		h.handleMessage(ctx, update.Message)
	} else if update.CallbackQuery != nil {
		h.handleCallback(ctx, update.CallbackQuery)
	}
}

func (h *BotHandler) recoverPanic(ctx context.Context, update *tgmodels.Update) {
	if r := recover(); r != nil {
		log.Printf("[HANDLER] Recovered panic: %v", r)
		h.errorManager.NotifyAdmin(ctx, r, update)
	}
}

func (h *BotHandler) handleMessage(ctx context.Context, msg *tgmodels.Message) {
	if msg.From == nil {
		return
	}

	user, err := h.registerUser(msg.From)
	if err != nil {
		log.Printf("[HANDLER] Failed to register user %d: %v", msg.From.ID, err)
		h.sendError(ctx, msg.Chat.ID, "Could not register you, please try again later")
		return
	}

	cmd, args := parseCommand(msg.Text)
	if cmd == "" {
		if msg.Text != "" {
			h.handleAnswer(ctx, user, msg.Text)
		}
		return
	}

	if user.ID == h.adminID && h.adminHandler.HandleCommand(ctx, msg.Chat.ID, cmd, args, msg.Text) {
		return
	}
	if h.parentHandler.HandleCommand(ctx, user, msg.Chat.ID, cmd, args) {
		return
	}

	switch cmd {
	case "/start":
		h.handleStart(ctx, user)
	case "/play":
		h.handlePlay(ctx, user, args)
	case "/hint":
		h.handleHint(ctx, user.ID)
	case "/skip":
		h.handleSkip(ctx, user.ID)
	case "/progress":
		h.handleProgress(ctx, user)
	default:
		h.msgManager.SendText(ctx, msg.Chat.ID, helpText)
	}
}

// registerUser refreshes the profile and grants the parent role to
// configured parent ids.
func (h *BotHandler) registerUser(from *tgmodels.User) (*models.User, error) {
	user := &models.User{
		ID:        from.ID,
		FirstName: from.FirstName,
		LastName:  from.LastName,
		Username:  from.Username,
		IsParent:  h.parentIDs[from.ID],
	}
	if err := h.userRepo.CreateOrUpdate(user); err != nil {
		return nil, err
	}
	if user.IsParent {
		if err := h.userRepo.SetParentRole(user.ID, true); err != nil {
			return nil, err
		}
	}
	return h.userRepo.GetByID(user.ID)
}

func (h *BotHandler) handleCallback(ctx context.Context, callback *tgmodels.CallbackQuery) {
	h.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callback.ID,
	})

	user, err := h.registerUser(&callback.From)
	if err != nil {
		log.Printf("[CALLBACK] Failed to register user %d: %v", callback.From.ID, err)
		return
	}

	data := callback.Data
	switch {
	case data == "hint":
		h.handleHint(ctx, user.ID)
	case data == "skip":
		h.handleSkip(ctx, user.ID)
	case strings.HasPrefix(data, "category:"):
		category, ok := parseCategoryCallback(data)
		if !ok {
			return
		}
		h.startWord(ctx, user.ID, category, models.DifficultyAny)
	case strings.HasPrefix(data, "difficulty:"):
		category, difficulty, ok := parseDifficultyCallback(data)
		if !ok {
			return
		}
		h.startWord(ctx, user.ID, category, difficulty)
	}
}

func (h *BotHandler) settings() *models.Settings {
	settings, err := h.settingsRepo.GetAll()
	if err != nil || settings == nil {
		return &models.Settings{}
	}
	return settings
}

func (h *BotHandler) handleStart(ctx context.Context, user *models.User) {
	welcome := h.settings().WelcomeMessage
	if welcome == "" {
		welcome = "Welcome to Word Wizard!"
	}

	if err := h.chatStateRepo.Save(&models.ChatState{UserID: user.ID, State: fsm.StateChoosingCategory}); err != nil {
		log.Printf("[HANDLER] Failed to reset state for user %d: %v", user.ID, err)
	}
	h.msgManager.SendWithKeyboard(ctx, user.ID, welcome, services.CategoryKeyboard())
}

func (h *BotHandler) handlePlay(ctx context.Context, user *models.User, args []string) {
	if len(args) == 0 {
		h.msgManager.SendWithKeyboard(ctx, user.ID, "Choose a category:", services.CategoryKeyboard())
		return
	}
	category, difficulty, err := parsePlayArgs(args)
	if err != nil {
		h.sendError(ctx, user.ID, "Usage: /play <animals|cars> [easy|medium|hard]")
		return
	}
	h.startWord(ctx, user.ID, category, difficulty)
}

// startWord picks the next word and makes it the pending one.
func (h *BotHandler) startWord(ctx context.Context, userID int64, category models.Category, difficulty models.Difficulty) {
	word, ok, err := h.game.NextWord(userID, category, difficulty)
	if err != nil {
		log.Printf("[GAME] Failed to select word for user %d: %v", userID, err)
		h.sendError(ctx, userID, "Something went wrong, please try again")
		return
	}

	previous, err := h.chatStateRepo.Get(userID)
	if err != nil {
		log.Printf("[GAME] Failed to load state for user %d: %v", userID, err)
		previous = &models.ChatState{UserID: userID}
	}

	if !ok {
		previous.State = fsm.StateExhausted
		previous.CurrentWordID = ""
		if err := h.chatStateRepo.Save(previous); err != nil {
			log.Printf("[GAME] Failed to save state for user %d: %v", userID, err)
		}

		text := h.settings().ExhaustedMessage
		if text == "" {
			text = "No words here yet."
		}
		h.msgManager.SendWithKeyboard(ctx, userID, text, services.CategoryKeyboard())
		return
	}

	state := &models.ChatState{
		UserID:            userID,
		State:             fsm.StateAwaitingSpelling,
		CurrentWordID:     word.ID,
		CurrentCategory:   category,
		CurrentDifficulty: difficulty,
		LastTaskMessageID: previous.LastTaskMessageID,
	}
	if err := h.chatStateRepo.Save(state); err != nil {
		log.Printf("[GAME] Failed to save state for user %d: %v", userID, err)
		h.sendError(ctx, userID, "Something went wrong, please try again")
		return
	}

	if err := h.msgManager.SendWordTask(ctx, userID, word); err != nil {
		log.Printf("[GAME] Failed to send word %s to user %d: %v", word.ID, userID, err)
	}
}

func (h *BotHandler) handleAnswer(ctx context.Context, user *models.User, answer string) {
	state, err := h.chatStateRepo.Get(user.ID)
	if err != nil {
		log.Printf("[GAME] Failed to load state for user %d: %v", user.ID, err)
		return
	}
	if state.State != fsm.StateAwaitingSpelling || !state.HasPendingWord() {
		h.msgManager.SendWithKeyboard(ctx, user.ID, "Pick a category to get a word:", services.CategoryKeyboard())
		return
	}

	outcome, err := h.game.SubmitAnswer(user.ID, state.CurrentWordID, answer)
	if errors.Is(err, services.ErrUnknownWord) {
		// The catalog changed under a pending word.
		if err := h.chatStateRepo.ClearCurrentWord(user.ID); err != nil {
			log.Printf("[GAME] Failed to clear word for user %d: %v", user.ID, err)
		}
		h.startWord(ctx, user.ID, state.CurrentCategory, state.CurrentDifficulty)
		return
	}
	if err != nil {
		log.Printf("[GAME] Failed to submit answer for user %d: %v", user.ID, err)
		h.sendError(ctx, user.ID, "Could not save your answer, please try again")
		return
	}

	settings := h.settings()
	if !outcome.Correct {
		text := settings.WrongAnswerMessage
		if text == "" {
			text = "❌ Not quite, try again"
		}
		h.msgManager.SendText(ctx, user.ID, text)
		return
	}

	h.msgManager.SendText(ctx, user.ID, formatCorrectAnswer(settings.CorrectAnswerMessage, outcome))
	if err := h.chatStateRepo.ClearCurrentWord(user.ID); err != nil {
		log.Printf("[GAME] Failed to clear word for user %d: %v", user.ID, err)
	}
	h.startWord(ctx, user.ID, state.CurrentCategory, state.CurrentDifficulty)
}

func formatCorrectAnswer(prefix string, outcome *services.AnswerOutcome) string {
	if prefix == "" {
		prefix = "✅ Correct!"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %s\n", prefix, services.FormatBold(outcome.Word.Text)))
	for _, b := range outcome.NewBadges {
		sb.WriteString(fmt.Sprintf("🏅 New badge: %s\n", services.FormatBold(b.Title())))
	}
	if outcome.LeveledUp() {
		sb.WriteString(fmt.Sprintf("⭐ Level up! You are now level %d (%s)\n",
			outcome.Progress.Level, models.LevelTitle(outcome.Progress.Level)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (h *BotHandler) handleHint(ctx context.Context, userID int64) {
	state, err := h.chatStateRepo.Get(userID)
	if err != nil || !state.HasPendingWord() {
		h.msgManager.SendText(ctx, userID, "There is no word to hint right now.")
		return
	}
	hint, ok := h.game.Hint(state.CurrentWordID)
	if !ok || hint == "" {
		h.msgManager.SendText(ctx, userID, "No hint for this word, you can do it!")
		return
	}
	h.msgManager.SendText(ctx, userID, "💡 "+services.FormatItalic(hint))
}

func (h *BotHandler) handleSkip(ctx context.Context, userID int64) {
	state, err := h.chatStateRepo.Get(userID)
	if err != nil || !state.HasPendingWord() {
		h.msgManager.SendWithKeyboard(ctx, userID, "Choose a category:", services.CategoryKeyboard())
		return
	}
	if err := h.chatStateRepo.ClearCurrentWord(userID); err != nil {
		log.Printf("[GAME] Failed to skip word for user %d: %v", userID, err)
	}
	h.startWord(ctx, userID, state.CurrentCategory, state.CurrentDifficulty)
}

func (h *BotHandler) handleProgress(ctx context.Context, user *models.User) {
	d, err := h.dashboards.ForUser(user)
	if err != nil {
		log.Printf("[HANDLER] Failed to build progress for user %d: %v", user.ID, err)
		h.sendError(ctx, user.ID, "Could not load your progress")
		return
	}
	h.msgManager.SendText(ctx, user.ID, services.FormatDashboard(d, h.now()))
}

func (h *BotHandler) sendError(ctx context.Context, chatID int64, text string) {
	h.msgManager.SendText(ctx, chatID, "⚠️ "+services.FormatItalic(text))
}
