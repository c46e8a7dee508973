package models

type Settings struct {
	WelcomeMessage       string
	CorrectAnswerMessage string
	WrongAnswerMessage   string
	ReminderMessage      string
	ExhaustedMessage     string
}
