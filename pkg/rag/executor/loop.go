// Package executor drives the tool-use conversation loop: model rounds,
// sequential tool execution and the bounded retry around each model call.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"

	"course-assistant-be/internal/pkg/logger"
	"course-assistant-be/pkg/llm"
	"course-assistant-be/pkg/rag/tools"
)

const fallbackAnswer = "I was unable to produce an answer for this question. Please try rephrasing it."

// Loop runs the tool-use state machine for one query.
type Loop struct {
	provider   llm.Provider
	logger     logger.ILogger
	maxRounds  int
	maxRetries int
}

func NewLoop(provider llm.Provider, log logger.ILogger, maxRounds, maxRetries int) *Loop {
	if maxRounds <= 0 {
		maxRounds = 2
	}
	if maxRetries <= 0 {
		maxRetries = 1
	}
	return &Loop{
		provider:   provider,
		logger:     log,
		maxRounds:  maxRounds,
		maxRetries: maxRetries,
	}
}

// Result is the outcome of one completed loop.
type Result struct {
	Answer  string
	Sources []tools.Source
	// Degraded marks answers produced after the round cap cut the model off
	// or after it returned empty text.
	Degraded bool
	Rounds   int
}

// Run executes model rounds until the model answers or the round cap is hit.
// Tool calls within a round run sequentially in the order the model issued
// them. A model failure after all retries aborts the whole query.
func (l *Loop) Run(ctx context.Context, system string, history []llm.Message, manager *tools.Manager) (*Result, error) {
	messages := make([]llm.Message, len(history))
	copy(messages, history)
	definitions := manager.Definitions()

	result := &Result{}
	for round := 0; round < l.maxRounds; round++ {
		response, err := l.callModel(ctx, system, messages, definitions)
		if err != nil {
			return nil, fmt.Errorf("model call failed: %w", err)
		}
		result.Rounds++

		if response.IsFinal() {
			result.Answer = response.Text
			result.Sources = manager.Sources()
			l.finalize(result)
			return result, nil
		}

		messages = append(messages, llm.Message{
			Role:      "assistant",
			Content:   response.Text,
			ToolCalls: response.ToolCalls,
		})
		for _, call := range response.ToolCalls {
			evidence := manager.Execute(ctx, call)
			messages = append(messages, llm.Message{
				Role:       "tool",
				Content:    evidence,
				ToolCallID: call.ID,
				ToolName:   call.Name,
			})
		}
	}

	// Round cap reached with tools still requested: one last call without
	// tools forces a text answer from the evidence gathered so far.
	response, err := l.callModel(ctx, system, messages, nil)
	if err != nil {
		return nil, fmt.Errorf("final model call failed: %w", err)
	}
	result.Rounds++
	result.Answer = response.Text
	result.Sources = manager.Sources()
	result.Degraded = true
	l.finalize(result)
	return result, nil
}

func (l *Loop) callModel(ctx context.Context, system string, messages []llm.Message, definitions []llm.Tool) (*llm.Response, error) {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 200 * time.Millisecond

	return backoff.Retry(ctx, func() (*llm.Response, error) {
		response, err := l.provider.ChatWithTools(ctx, system, messages, definitions)
		if err != nil {
			l.logger.Warn("executor", "Model call failed, retrying", map[string]interface{}{"error": err.Error()})
			return nil, err
		}
		return response, nil
	}, backoff.WithBackOff(expo), backoff.WithMaxTries(uint(l.maxRetries)))
}

func (l *Loop) finalize(result *Result) {
	if result.Answer == "" {
		result.Answer = fallbackAnswer
		result.Degraded = true
	}
}
