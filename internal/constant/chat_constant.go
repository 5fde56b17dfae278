package constant

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
	MessageRoleSystem    = "system"
	MessageRoleTool      = "tool"
)

// ChatType is the closed set of conversational modes. The type is fixed at
// chat creation and fully determines the prompt strategy for the chat's
// lifetime.
type ChatType string

const (
	ChatTypeNormal   ChatType = "normal"
	ChatTypeQuiz     ChatType = "quiz"
	ChatTypeDeepdive ChatType = "deepdive"
)

// ParseChatType validates a raw chat type string. Unknown values are rejected
// at chat-creation time so the orchestrator never sees them.
func ParseChatType(raw string) (ChatType, bool) {
	switch ChatType(raw) {
	case ChatTypeNormal, ChatTypeQuiz, ChatTypeDeepdive:
		return ChatType(raw), true
	default:
		return "", false
	}
}

// SourceType is the closed set of ingestable source kinds.
type SourceType string

const (
	SourceTypeYoutube SourceType = "youtube"
	SourceTypePDF     SourceType = "pdf"
	SourceTypeWebPage SourceType = "web_page"
)

func ParseSourceType(raw string) (SourceType, bool) {
	switch SourceType(raw) {
	case SourceTypeYoutube, SourceTypePDF, SourceTypeWebPage:
		return SourceType(raw), true
	default:
		return "", false
	}
}

// MindmapSchemaVersion is stored alongside every serialized tree so the node
// shape can evolve without breaking stored mindmaps.
const MindmapSchemaVersion = "v1"

// QuizSeedInstruction is the synthetic user instruction used to generate the
// first assistant message of every quiz chat.
const QuizSeedInstruction = "Generate a question"
