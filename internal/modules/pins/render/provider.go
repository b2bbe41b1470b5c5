package render

import (
	"context"
	"errors"

	"github.com/yungbote/pinforge-backend/internal/platform/openai"
	"github.com/yungbote/pinforge-backend/internal/platform/replicate"
)

const AspectRatio = "2:3"

// Output is either a hosted URL to download or inline bytes.
type Output struct {
	URL      string
	Bytes    []byte
	MimeType string
}

type ImageProvider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (Output, error)
}

type replicateProvider struct {
	client replicate.Client
}

func NewReplicateProvider(c replicate.Client) ImageProvider {
	return &replicateProvider{client: c}
}

func (p *replicateProvider) Name() string { return "replicate" }

func (p *replicateProvider) Generate(ctx context.Context, prompt string) (Output, error) {
	url, err := p.client.GenerateImage(ctx, prompt, AspectRatio)
	if err != nil {
		return Output{}, err
	}
	return Output{URL: url}, nil
}

type openAIProvider struct {
	client openai.Client
}

// NewOpenAIProvider expects the client to be configured for a portrait size such as 1024x1536.
func NewOpenAIProvider(c openai.Client) ImageProvider {
	return &openAIProvider{client: c}
}

func (p *openAIProvider) Name() string { return "openai" }

func (p *openAIProvider) Generate(ctx context.Context, prompt string) (Output, error) {
	img, err := p.client.GenerateImage(ctx, prompt)
	if err != nil {
		return Output{}, err
	}
	if len(img.Bytes) == 0 {
		return Output{}, errors.New("openai returned an empty image")
	}
	return Output{Bytes: img.Bytes, MimeType: img.MimeType}, nil
}
