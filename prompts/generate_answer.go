package prompts

import (
	"context"

	"github.com/SaiNageswarS/go-collection-boot/async"

	"github.com/hannahmacd/portfolio-core/llm"
)

const (
	answerTemperature = 0.3
	answerMaxTokens   = 1024 // replies are short, recruiter-facing paragraphs
)

// GenerateAnswer sends the persona prompt, prior turns and the
// question-plus-context user message to the chat model and collects the
// reply. History must already be bounded by the caller.
func GenerateAnswer(ctx context.Context, client llm.LLMClient, ownerName, question, contextBlock string, history []llm.Message) <-chan async.Result[string] {
	return async.Go(func() (string, error) {
		systemPrompt, err := loadPrompt("templates/system_prompt.md", map[string]string{
			"OwnerName": ownerName,
		})
		if err != nil {
			return "", err
		}

		userPrompt, err := loadPrompt("templates/answer_user.md", map[string]string{
			"Question": question,
			"Context":  contextBlock,
		})
		if err != nil {
			return "", err
		}

		messages := make([]llm.Message, 0, len(history)+1)
		messages = append(messages, history...)
		messages = append(messages, llm.Message{Role: "user", Content: userPrompt})

		var response string
		err = client.GenerateInference(ctx, messages, func(chunk string) error {
			response += chunk
			return nil
		},
			llm.WithTemperature(answerTemperature),
			llm.WithMaxTokens(answerMaxTokens),
			llm.WithSystemPrompt(systemPrompt),
		)

		return response, err
	})
}
