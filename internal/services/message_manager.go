package services

import (
	"context"
	"fmt"

	"github.com/ad/go-telegram-wordwizard/internal/models"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

// TaskMessageStore remembers the last word prompt so it can be replaced.
type TaskMessageStore interface {
	Get(userID int64) (*models.ChatState, error)
	UpdateTaskMessageID(userID int64, messageID int) error
}

type MessageManager struct {
	bot      BotAPI
	states   TaskMessageStore
	errMgr   *ErrorManager
	maxRetry int
}

func NewMessageManager(b BotAPI, states TaskMessageStore, errMgr *ErrorManager) *MessageManager {
	return &MessageManager{
		bot:      b,
		states:   states,
		errMgr:   errMgr,
		maxRetry: 2,
	}
}

func (m *MessageManager) SendWithRetry(ctx context.Context, params *bot.SendMessageParams) (*tgmodels.Message, error) {
	var lastErr error
	for attempt := 0; attempt < m.maxRetry; attempt++ {
		msg, err := m.bot.SendMessage(ctx, params)
		if err == nil {
			return msg, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	chatID, _ := params.ChatID.(int64)
	if m.errMgr != nil {
		m.errMgr.NotifyAdminWithCurl(ctx, chatID, params, lastErr)
	}
	return nil, lastErr
}

func (m *MessageManager) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := m.SendWithRetry(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: tgmodels.ParseModeHTML,
	})
	return err
}

func (m *MessageManager) SendWithKeyboard(ctx context.Context, chatID int64, text string, keyboard *tgmodels.InlineKeyboardMarkup) error {
	_, err := m.SendWithRetry(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   tgmodels.ParseModeHTML,
		ReplyMarkup: keyboard,
	})
	return err
}

// SendWordTask replaces the previous prompt with a new one for word.
func (m *MessageManager) SendWordTask(ctx context.Context, userID int64, word models.Word) error {
	m.DeletePreviousTask(ctx, userID)

	msg, err := m.SendWithRetry(ctx, &bot.SendMessageParams{
		ChatID:      userID,
		Text:        FormatWordTask(word),
		ParseMode:   tgmodels.ParseModeHTML,
		ReplyMarkup: WordTaskKeyboard(word.Category),
	})
	if err != nil {
		return err
	}
	return m.states.UpdateTaskMessageID(userID, msg.ID)
}

func (m *MessageManager) DeletePreviousTask(ctx context.Context, userID int64) {
	state, err := m.states.Get(userID)
	if err != nil || state == nil || state.LastTaskMessageID == 0 {
		return
	}
	_ = m.DeleteMessage(ctx, userID, state.LastTaskMessageID)
}

func (m *MessageManager) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	_, err := m.bot.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	})
	return err
}

func FormatWordTask(word models.Word) string {
	text := fmt.Sprintf("🪄 %s · %s · %d letters\n\n", FormatBold(word.Category.Title()), word.Difficulty.String(), len(word.Text))
	if word.HasHint() {
		text += "Hint: " + FormatItalic(word.Hint) + "\n\n"
	}
	return text + "Type the word:"
}

// WordTaskKeyboard carries hint and skip plus a row switching the tier
// within the word's category.
func WordTaskKeyboard(category models.Category) *tgmodels.InlineKeyboardMarkup {
	return &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
			{
				{Text: "💡 Hint", CallbackData: "hint"},
				{Text: "⏭ Skip", CallbackData: "skip"},
			},
			DifficultyKeyboard(category).InlineKeyboard[0],
		},
	}
}

func CategoryKeyboard() *tgmodels.InlineKeyboardMarkup {
	row := make([]tgmodels.InlineKeyboardButton, 0, len(models.Categories))
	for _, c := range models.Categories {
		row = append(row, tgmodels.InlineKeyboardButton{
			Text:         c.Title(),
			CallbackData: "category:" + string(c),
		})
	}
	return &tgmodels.InlineKeyboardMarkup{InlineKeyboard: [][]tgmodels.InlineKeyboardButton{row}}
}

// DifficultyKeyboard offers an explicit tier for category.
func DifficultyKeyboard(category models.Category) *tgmodels.InlineKeyboardMarkup {
	row := make([]tgmodels.InlineKeyboardButton, 0, len(models.Difficulties))
	for _, d := range models.Difficulties {
		row = append(row, tgmodels.InlineKeyboardButton{
			Text:         d.String(),
			CallbackData: fmt.Sprintf("difficulty:%s:%d", category, d),
		})
	}
	return &tgmodels.InlineKeyboardMarkup{InlineKeyboard: [][]tgmodels.InlineKeyboardButton{row}}
}
