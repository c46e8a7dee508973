package fsm

const (
	StateInit             = "init"
	StateChoosingCategory = "choosing_category"
	StateAwaitingSpelling = "awaiting_spelling"
	StateExhausted        = "exhausted"
)
