// Package ai generates companion replies through an eino chain over the
// configured Ark chat model. The dev backend runs without it when no
// credentials are present.
package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/auralab/companion/internal/config"
	"github.com/auralab/companion/internal/model/emotion"
	"github.com/auralab/companion/internal/model/persona"
)

// Exchange is one prior user/assistant turn fed back as history.
type Exchange struct {
	UserText string
	AIText   string
}

// Service wraps the compiled chat chain.
type Service struct {
	chatModel model.ChatModel
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the reply chain against the configured model.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("compiling chat chain: %w", err)
	}

	return &Service{chatModel: chatModel, chain: runnable}, nil
}

// GenerateReply produces the companion's next message.
func (s *Service) GenerateReply(ctx context.Context, p persona.Persona, mood emotion.Vector, history []Exchange, userMessage string) (string, error) {
	input := map[string]any{
		"system":  BuildSystemPrompt(p, mood),
		"history": buildHistoryMessages(history),
		"query":   userMessage,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("running reply chain: %w", err)
	}

	log.Printf("[ai] generated reply for persona=%s, length=%d", p.ID, len(response.Content))
	return response.Content, nil
}

func buildHistoryMessages(history []Exchange) []*schema.Message {
	const historyLimit = 10

	if len(history) == 0 {
		return nil
	}

	startIdx := 0
	if len(history) > historyLimit {
		startIdx = len(history) - historyLimit
	}

	messages := make([]*schema.Message, 0, 2*(len(history)-startIdx))
	for _, ex := range history[startIdx:] {
		if ex.UserText != "" {
			messages = append(messages, schema.UserMessage(ex.UserText))
		}
		if ex.AIText != "" {
			messages = append(messages, schema.AssistantMessage(ex.AIText, nil))
		}
	}

	return messages
}
