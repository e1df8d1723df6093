package exa

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const defaultResultMaxLen = 2048

// ChatCompleter is the slice of an OpenAI client the completion wrapper
// needs. Pass &client.Chat.Completions.
type ChatCompleter interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

var _ ChatCompleter = (*openai.ChatCompletionService)(nil)

// CompletionSearchOptions configures the automatic search behind
// CompleteWithSearch.
type CompletionSearchOptions struct {
	Search   *SearchOptions
	Contents *ContentsOptions

	// ResultMaxLen truncates each result's text before it is pasted into the
	// chat. Defaults to 2048 characters; negative disables truncation.
	ResultMaxLen int
}

// CompleteWithSearch runs a chat completion with a web "search" tool
// attached. When the model calls the tool, the query is executed via
// SearchAndContents, the formatted results are fed back as the tool response,
// and the completion is re-invoked. Stale tool messages from earlier rounds
// are stripped so the history does not accumulate old search results.
//
// The returned SearchResponse is nil when the model answered without
// searching.
func (c *Client) CompleteWithSearch(ctx context.Context, chat ChatCompleter, params openai.ChatCompletionNewParams, options *CompletionSearchOptions) (*openai.ChatCompletion, *SearchResponse, error) {
	if options == nil {
		options = new(CompletionSearchOptions)
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(params.Messages))

	for _, m := range params.Messages {
		if m.OfTool != nil {
			continue
		}

		messages = append(messages, m)
	}

	params.Messages = messages
	params.Tools = append(params.Tools, searchTool())

	completion, err := chat.New(ctx, params)

	if err != nil {
		return nil, nil, err
	}

	query, callID := searchCall(completion)

	if query == "" {
		return completion, nil, nil
	}

	search := options.Search

	if search == nil {
		search = &SearchOptions{NumResults: 3}
	}

	result, err := c.SearchAndContents(ctx, query, search, options.Contents)

	if err != nil {
		return nil, nil, err
	}

	maxLen := options.ResultMaxLen

	if maxLen == 0 {
		maxLen = defaultResultMaxLen
	}

	params.Messages = append(params.Messages,
		completion.Choices[0].Message.ToParam(),
		openai.ToolMessage(formatResults(result, maxLen), callID),
	)

	completion, err = chat.New(ctx, params)

	if err != nil {
		return nil, nil, err
	}

	return completion, result, nil
}

func searchTool() openai.ChatCompletionToolUnionParam {
	return openai.ChatCompletionToolUnionParam{
		OfFunction: &openai.ChatCompletionFunctionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        "search",
				Description: openai.String("Search the web for relevant information."),

				Parameters: openai.FunctionParameters{
					"type": "object",

					"properties": map[string]any{
						"query": map[string]any{
							"type":        "string",
							"description": "The query to search for.",
						},
					},

					"required": []string{"query"},
				},
			},
		},
	}
}

func searchCall(completion *openai.ChatCompletion) (query, callID string) {
	if len(completion.Choices) == 0 {
		return "", ""
	}

	for _, call := range completion.Choices[0].Message.ToolCalls {
		if call.Function.Name != "search" {
			continue
		}

		var args struct {
			Query string `json:"query"`
		}

		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			continue
		}

		return args.Query, call.ID
	}

	return "", ""
}

func formatResults(response *SearchResponse, maxLen int) string {
	var sb strings.Builder

	for i, result := range response.Results {
		if i > 0 {
			sb.WriteString("\n")
		}

		text := result.Text

		if maxLen > 0 && len(text) > maxLen {
			cut := maxLen

			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}

			text = text[:cut]
		}

		sb.WriteString("Url: " + result.URL + "\n")
		sb.WriteString("Title: " + result.Title + "\n")
		sb.WriteString(text + "\n")
	}

	return sb.String()
}
