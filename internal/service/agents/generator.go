package agents

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/edallison777/vitracka-sub001/internal/model/session"
)

// Generator produces reply text for a system prompt, conversation history
// and user query. The production implementation wraps the configured chat
// model; tests and the no-credentials path use stubs instead.
type Generator interface {
	Generate(ctx context.Context, system string, history []session.Turn, query string) (string, error)
}

// ChainGenerator runs a compiled prompt-template -> chat-model chain.
type ChainGenerator struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewChainGenerator compiles the shared chain for all responders.
func NewChainGenerator(ctx context.Context, chatModel model.ChatModel) (*ChainGenerator, error) {
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
		return nil, fmt.Errorf("compile responder chain: %w", err)
	}

	return &ChainGenerator{chain: runnable}, nil
}

// Generate invokes the chain and returns the model's reply text.
func (g *ChainGenerator) Generate(ctx context.Context, system string, history []session.Turn, query string) (string, error) {
	input := map[string]any{
		"system":  system,
		"history": historyMessages(history),
		"query":   query,
	}

	response, err := g.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("run responder chain: %w", err)
	}
	return response.Content, nil
}

// historyMessages converts recent turns into chat-model messages.
func historyMessages(history []session.Turn) []*schema.Message {
	const historyLimit = 10

	if len(history) == 0 {
		return nil
	}

	startIdx := 0
	if len(history) > historyLimit {
		startIdx = len(history) - historyLimit
	}

	messages := make([]*schema.Message, 0, len(history)-startIdx)
	for _, turn := range history[startIdx:] {
		switch turn.Sender {
		case "user":
			messages = append(messages, schema.UserMessage(turn.Content))
		case "assistant":
			messages = append(messages, schema.AssistantMessage(turn.Content, nil))
		}
	}
	return messages
}
