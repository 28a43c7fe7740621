package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/clipforge/clipforge-agent/internal/clip"
	"github.com/clipforge/clipforge-agent/internal/sampler"
)

const analysisPrompt = `You are analyzing evenly spaced frames from a video to find its most
engaging short segments. Propose 2-4 non-overlapping clips of 5-30 seconds.
Respond with JSON: {"clips": [{"start_time": <seconds>, "end_time": <seconds>,
"description": "<one sentence>", "score": <0-100 virality estimate>}]}.
The video is %.1f seconds long; all times must fit inside it.`

const captionPrompt = `Write a punchy word-by-word caption script for a %.1f second video clip
described as: %q. Respond with JSON: {"words": [{"word": "<one word>",
"start": <seconds>, "end": <seconds>}]}. Times are relative to the clip start,
each word has start < end, and all times fit inside the clip.`

// OpenAIClient implements Client against an OpenAI-compatible API.
type OpenAIClient struct {
	api        *openai.Client
	model      string
	imageModel string
	logger     *slog.Logger
}

func NewOpenAIClient(apiKey, baseURL, model, imageModel string, logger *slog.Logger) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{
		api:        openai.NewClientWithConfig(cfg),
		model:      model,
		imageModel: imageModel,
		logger:     logger,
	}
}

func (c *OpenAIClient) AnalyzeFrames(ctx context.Context, stills []sampler.Still, sourceDuration float64) ([]clip.VideoClip, error) {
	parts := []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: fmt.Sprintf(analysisPrompt, sourceDuration)},
	}
	for _, st := range stills {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(st.JPEG),
				Detail: openai.ImageURLDetailLow,
			},
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, MultiContent: parts},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrAnalysisUnavailable
	}

	raw := decodeClips(resp.Choices[0].Message.Content, c.logger)
	return toClips(raw, sourceDuration), nil
}

func (c *OpenAIClient) GenerateCaptions(ctx context.Context, vc *clip.VideoClip) (clip.CaptionTrack, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(captionPrompt, vc.Duration, vc.Description),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptionUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrCaptionUnavailable
	}

	raw := decodeWords(resp.Choices[0].Message.Content, c.logger)
	return toTrack(raw, vc.Duration), nil
}

// EditImage routes a screenshot plus instruction through the image edit
// endpoint, which wants its input as a file on disk.
func (c *OpenAIClient) EditImage(ctx context.Context, png []byte, prompt string) ([]byte, error) {
	tmp, err := os.CreateTemp("", "clipforge-edit-*.png")
	if err != nil {
		return nil, fmt.Errorf("stage screenshot: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := tmp.Write(png); err != nil {
		return nil, fmt.Errorf("stage screenshot: %w", err)
	}
	if _, err := tmp.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("stage screenshot: %w", err)
	}

	resp, err := c.api.CreateEditImage(ctx, openai.ImageEditRequest{
		Image:          tmp,
		Prompt:         prompt,
		Model:          c.imageModel,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("image edit: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, ErrNoResult
	}

	out, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode edited image: %w", err)
	}
	return out, nil
}
