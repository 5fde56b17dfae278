package prompt

import (
	"strings"

	"synaptiq-be/internal/apperror"
	"synaptiq-be/internal/constant"
)

// Builder assembles the system prompt for one chat turn: the guidelines
// of the chat mode, the mindmap node under discussion, the serialized
// session tree, and the retrieved context fragments.
type Builder struct {
	chatType        constant.ChatType
	nodeTitle       string
	nodeDescription string
	mindmap         string
	context         string
}

func NewBuilder(chatType constant.ChatType, nodeTitle, nodeDescription, mindmap, context string) *Builder {
	return &Builder{
		chatType:        chatType,
		nodeTitle:       nodeTitle,
		nodeDescription: nodeDescription,
		mindmap:         mindmap,
		context:         context,
	}
}

func (b *Builder) Build() (string, error) {
	guidelines, err := b.guidelines()
	if err != nil {
		return "", err
	}

	var prompt strings.Builder
	prompt.WriteString(guidelines)
	prompt.WriteString("\n\n")
	b.writeTopic(&prompt)
	// Deepdive prompts carry no tree; that mode works from the retrieved
	// documents and the search tool.
	if b.chatType != constant.ChatTypeDeepdive {
		b.writeMindmap(&prompt)
	}
	b.writeContext(&prompt)
	return prompt.String(), nil
}

// guidelines maps the chat mode to its instruction block. The switch is
// exhaustive over the known modes; anything else is rejected.
func (b *Builder) guidelines() (string, error) {
	switch b.chatType {
	case constant.ChatTypeNormal:
		return constant.NormalChatGuidelines, nil
	case constant.ChatTypeQuiz:
		return constant.QuizChatGuidelines, nil
	case constant.ChatTypeDeepdive:
		return constant.DeepdiveChatGuidelines, nil
	default:
		return "", apperror.NewValidation("unknown chat type: %s", string(b.chatType))
	}
}

func (b *Builder) writeTopic(prompt *strings.Builder) {
	prompt.WriteString("<topic>\n")
	prompt.WriteString("Title: ")
	prompt.WriteString(b.nodeTitle)
	prompt.WriteString("\nDescription: ")
	prompt.WriteString(b.nodeDescription)
	prompt.WriteString("\n</topic>\n\n")
}

func (b *Builder) writeMindmap(prompt *strings.Builder) {
	prompt.WriteString("<mindmap>\n")
	if b.mindmap != "" {
		prompt.WriteString(b.mindmap)
		prompt.WriteString("\n")
	}
	prompt.WriteString("</mindmap>\n\n")
}

func (b *Builder) writeContext(prompt *strings.Builder) {
	prompt.WriteString("<context>\n")
	if b.context != "" {
		prompt.WriteString(b.context)
		prompt.WriteString("\n")
	}
	prompt.WriteString("</context>\n")
}
