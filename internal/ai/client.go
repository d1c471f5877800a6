package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"scoresight/internal/backoff"
	"scoresight/internal/data"
)

const (
	defaultMaxTokens = 850
	topicsMaxTokens  = 2500

	askRetries      = 5
	visionRetries   = 6
	visionBaseDelay = 16 * time.Second
)

// Client kapselt alle Aufrufe an die OpenAI-API.
type Client struct {
	api         *openai.Client
	model       string
	visionModel string
}

// New baut einen Client mit API-Key und den konfigurierten Modellen.
func New(apiKey, model, visionModel string) *Client {
	return NewWithClient(openai.NewClient(apiKey), model, visionModel)
}

// NewWithClient erlaubt das Unterschieben eines vorkonfigurierten API-Clients,
// etwa mit abweichender BaseURL in Tests.
func NewWithClient(api *openai.Client, model, visionModel string) *Client {
	return &Client{api: api, model: model, visionModel: visionModel}
}

// askJSON stellt eine Frage an das Textmodell und erwartet JSON in der Antwort.
// HTTP- und Parse-Fehler werden mit exponentiellem Backoff samt Jitter wiederholt.
func (c *Client) askJSON(ctx context.Context, prompt string, maxTokens int) (json.RawMessage, error) {
	var lastErr error
	for attempt := 0; attempt < askRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, backoff.ExponentialBackoff(attempt-1)+backoff.Jitter(time.Second)); err != nil {
				return nil, err
			}
		}

		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			MaxTokens: maxTokens,
		})
		if err != nil {
			lastErr = err
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("no choices in response")
			continue
		}

		raw, err := ExtractJSON(resp.Choices[0].Message.Content)
		if err != nil {
			lastErr = err
			continue
		}
		if !json.Valid([]byte(raw)) {
			lastErr = fmt.Errorf("invalid JSON in response")
			continue
		}
		return json.RawMessage(raw), nil
	}
	return nil, lastErr
}

// CommonMisconceptions destilliert aus den falschen Antworten einer Frage die
// häufigste Fehlvorstellung samt Anzahl.
func (c *Client) CommonMisconceptions(ctx context.Context, question string, wrongAnswers, correctSample []string) (string, int, error) {
	wrong := make([]string, 0, len(wrongAnswers))
	for _, ans := range wrongAnswers {
		if ans != "" {
			wrong = append(wrong, ans)
		}
	}
	seen := make(map[string]bool)
	sample := make([]string, 0, len(correctSample))
	for _, ans := range correctSample {
		if ans == "" || seen[ans] {
			continue
		}
		seen[ans] = true
		sample = append(sample, ans)
	}

	prompt, err := renderPrompt(misconceptionTpl, misconceptionPromptData{
		Question:       question,
		WrongAnswers:   strings.Join(wrong, "\n"),
		CorrectAnswers: strings.Join(sample, "\n"),
	})
	if err != nil {
		return "", 0, err
	}

	raw, err := c.askJSON(ctx, prompt, defaultMaxTokens)
	if err != nil {
		return "", 0, err
	}

	var result struct {
		Misconception string      `json:"misconception"`
		Count         json.Number `json:"count"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", 0, err
	}
	count := 0
	if f, err := result.Count.Float64(); err == nil {
		count = int(f)
	}
	return result.Misconception, count, nil
}

// QuestionTopics klassifiziert einen Fragen-Batch in die vorgegebenen Themen.
func (c *Client) QuestionTopics(ctx context.Context, questions []data.QuestionItem, subjectName string, topics []string) ([]data.TopicClassification, error) {
	prompt, err := renderPrompt(topicsTpl, topicsPromptData{
		SubjectName: subjectName,
		Topics:      strings.Join(topics, ", "),
		Questions:   questions,
	})
	if err != nil {
		return nil, err
	}

	raw, err := c.askJSON(ctx, prompt, topicsMaxTokens)
	if err != nil {
		return nil, err
	}

	var classifications []data.TopicClassification
	if err := json.Unmarshal(raw, &classifications); err != nil {
		return nil, err
	}
	return classifications, nil
}

// TranscribePage schickt eine gerenderte Prüfungsseite an das Vision-Modell
// und erwartet Schülername plus transkribierte Einträge zurück. Die Wartezeit
// zwischen den Versuchen verdoppelt sich, Vision-Aufrufe sind teuer.
func (c *Client) TranscribePage(ctx context.Context, base64Image, lastKnownStudentName string) (*data.PageTranscription, error) {
	prompt, err := renderPrompt(visionTpl, visionPromptData{LastKnownStudentName: lastKnownStudentName})
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < visionRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, backoff.DoublingBackoff(visionBaseDelay, attempt-1)); err != nil {
				return nil, err
			}
		}

		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.visionModel,
			Messages: []openai.ChatCompletionMessage{
				{
					Role: openai.ChatMessageRoleUser,
					MultiContent: []openai.ChatMessagePart{
						{Type: openai.ChatMessagePartTypeText, Text: prompt},
						{
							Type: openai.ChatMessagePartTypeImageURL,
							ImageURL: &openai.ChatMessageImageURL{
								URL:    "data:image/jpeg;base64," + base64Image,
								Detail: openai.ImageURLDetailHigh,
							},
						},
					},
				},
			},
			MaxTokens: defaultMaxTokens,
		})
		if err != nil {
			lastErr = err
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("no choices in response")
			continue
		}

		raw, err := extractPageObject(resp.Choices[0].Message.Content)
		if err != nil {
			lastErr = err
			continue
		}

		var keys map[string]json.RawMessage
		if err := json.Unmarshal([]byte(raw), &keys); err != nil {
			lastErr = err
			continue
		}
		if _, ok := keys["studentName"]; !ok {
			lastErr = fmt.Errorf("response missing required keys")
			continue
		}
		if _, ok := keys["entries"]; !ok {
			lastErr = fmt.Errorf("response missing required keys")
			continue
		}

		var page data.PageTranscription
		if err := json.Unmarshal([]byte(raw), &page); err != nil {
			lastErr = err
			continue
		}
		return &page, nil
	}
	return nil, lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
