package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/ad/go-telegram-wordwizard/internal/models"
)

var errUsage = errors.New("wrong command usage")

// parseCommand splits "/play@WizardBot cars 2" into "/play" and its arguments.
// Plain text yields an empty command.
func parseCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil
	}
	cmd := strings.ToLower(fields[0])
	if at := strings.Index(cmd, "@"); at > 0 {
		cmd = cmd[:at]
	}
	return cmd, fields[1:]
}

// textAfterFields drops the first n whitespace-separated fields of text and
// returns the rest with its inner spacing and line breaks intact.
func textAfterFields(text string, n int) string {
	rest := strings.TrimLeftFunc(text, unicode.IsSpace)
	for i := 0; i < n; i++ {
		end := strings.IndexFunc(rest, unicode.IsSpace)
		if end < 0 {
			return ""
		}
		rest = strings.TrimLeftFunc(rest[end:], unicode.IsSpace)
	}
	return strings.TrimRightFunc(rest, unicode.IsSpace)
}

func parseCategory(s string) (models.Category, error) {
	c := models.Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// parsePlayArgs reads "<category> [tier]" where tier is 1-3 or easy/medium/hard.
func parsePlayArgs(args []string) (models.Category, models.Difficulty, error) {
	if len(args) == 0 || len(args) > 2 {
		return "", models.DifficultyAny, errUsage
	}
	category, err := parseCategory(args[0])
	if err != nil {
		return "", models.DifficultyAny, err
	}
	if len(args) == 1 {
		return category, models.DifficultyAny, nil
	}
	difficulty, ok := models.ParseDifficulty(strings.ToLower(args[1]))
	if !ok {
		return "", models.DifficultyAny, fmt.Errorf("unknown difficulty %q", args[1])
	}
	return category, difficulty, nil
}

func parseCategoryCallback(data string) (models.Category, bool) {
	name, ok := strings.CutPrefix(data, "category:")
	if !ok {
		return "", false
	}
	category, err := parseCategory(name)
	return category, err == nil
}

func parseDifficultyCallback(data string) (models.Category, models.Difficulty, bool) {
	rest, ok := strings.CutPrefix(data, "difficulty:")
	if !ok {
		return "", models.DifficultyAny, false
	}
	name, tier, ok := strings.Cut(rest, ":")
	if !ok {
		return "", models.DifficultyAny, false
	}
	category, err := parseCategory(name)
	if err != nil {
		return "", models.DifficultyAny, false
	}
	difficulty, ok := models.ParseDifficulty(tier)
	if !ok {
		return "", models.DifficultyAny, false
	}
	return category, difficulty, true
}

func parseUserID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	return id, nil
}

type gatewayAction int

const (
	gatewayShow gatewayAction = iota
	gatewaySet
	gatewayReset
)

// parseGatewayArgs reads "show", "reset", "mock", "stripe <api> <secret>" or
// "paypal <client> <secret>".
func parseGatewayArgs(args []string) (gatewayAction, models.GatewayConfig, error) {
	if len(args) == 0 {
		return gatewayShow, nil, nil
	}
	switch strings.ToLower(args[0]) {
	case "show":
		return gatewayShow, nil, nil
	case "reset":
		return gatewayReset, nil, nil
	case "mock":
		key := "mock_api_key"
		if len(args) > 1 {
			key = args[1]
		}
		return gatewaySet, models.MockGateway{APIKey: key}, nil
	case "stripe":
		if len(args) != 3 {
			return 0, nil, errUsage
		}
		return gatewaySet, models.StripeGateway{APIKey: args[1], SecretKey: args[2]}, nil
	case "paypal":
		if len(args) != 3 {
			return 0, nil, errUsage
		}
		return gatewaySet, models.PayPalGateway{ClientID: args[1], Secret: args[2]}, nil
	}
	return 0, nil, errUsage
}

// settingKeys maps /setmessage names to settings rows.
var settingKeys = map[string]string{
	"welcome":   "welcome_message",
	"correct":   "correct_answer_message",
	"wrong":     "wrong_answer_message",
	"reminder":  "reminder_message",
	"exhausted": "exhausted_message",
}
