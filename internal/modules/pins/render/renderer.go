package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	types "github.com/yungbote/pinforge-backend/internal/domain"
	"github.com/yungbote/pinforge-backend/internal/modules/pins/styles"
	"github.com/yungbote/pinforge-backend/internal/platform/httpx"
	"github.com/yungbote/pinforge-backend/internal/platform/logger"
)

const maxImageBytes = 20 << 20

// Store is the durable blob store rendered images are copied into.
type Store interface {
	UploadFile(ctx context.Context, key, contentType string, data []byte) error
	GetPublicURL(key string) string
}

type Request struct {
	OwnerUserID      uuid.UUID
	Variation        types.TextVariation
	Style            styles.Key
	NicheImagePrompt string
	SourceDomain     string
}

type Result struct {
	ImageURL   string
	StorageKey string
	MimeType   string
	Width      int
	Height     int
	Prompt     string
}

type Renderer struct {
	log             *logger.Logger
	provider        ImageProvider
	store           Store
	client          *http.Client
	providerTimeout time.Duration
	newKey          func() uuid.UUID
}

func NewRenderer(baseLog *logger.Logger, provider ImageProvider, store Store, providerTimeout, downloadTimeout time.Duration) *Renderer {
	if providerTimeout <= 0 {
		providerTimeout = 120 * time.Second
	}
	if downloadTimeout <= 0 {
		downloadTimeout = 30 * time.Second
	}
	return &Renderer{
		log:             baseLog.With("module", "ImageRenderer", "provider", provider.Name()),
		provider:        provider,
		store:           store,
		client:          &http.Client{Timeout: downloadTimeout},
		providerTimeout: providerTimeout,
		newKey:          uuid.New,
	}
}

// BuildPrompt concatenates the variation text, the style preset, the niche image fragment and
// optional branding. The niche fragment is appended, never substituted for the preset.
func BuildPrompt(req Request) string {
	parts := []string{
		"Vertical Pinterest pin, 2:3 portrait format.",
		fmt.Sprintf("Headline text on the image: %q.", strings.TrimSpace(req.Variation.Title)),
	}
	if d := strings.TrimSpace(req.Variation.Description); d != "" {
		parts = append(parts, "Theme: "+d)
	}
	parts = append(parts, "Style: "+req.Style.Prompt()+".")
	if n := strings.TrimSpace(req.NicheImagePrompt); n != "" {
		parts = append(parts, "Niche style: "+n+".")
	}
	if d := strings.TrimSpace(req.SourceDomain); d != "" {
		parts = append(parts, fmt.Sprintf("Small unobtrusive branding text %q near the bottom.", d))
	}
	parts = append(parts, "Legible typography, high quality, no watermarks.")
	return strings.Join(parts, " ")
}

// Render synthesizes one image and copies it into durable storage. It returns ErrRender when no
// image was produced and ErrStorage when the copy failed.
func (r *Renderer) Render(ctx context.Context, req Request) (Result, error) {
	prompt := BuildPrompt(req)
	res := Result{Prompt: prompt}

	pctx, cancel := context.WithTimeout(ctx, r.providerTimeout)
	out, err := r.provider.Generate(pctx, prompt)
	cancel()
	if err != nil {
		return res, fmt.Errorf("%w: %v", types.ErrRender, err)
	}
	if out.URL == "" && len(out.Bytes) == 0 {
		return res, fmt.Errorf("%w: provider returned no image", types.ErrRender)
	}

	data, mime := out.Bytes, out.MimeType
	if len(data) == 0 {
		var ct string
		data, ct, err = httpx.Download(ctx, r.client, out.URL, maxImageBytes)
		if err != nil {
			return res, fmt.Errorf("%w: download: %v", types.ErrStorage, err)
		}
		if mime == "" {
			mime = strings.TrimSpace(strings.Split(ct, ";")[0])
		}
	}

	info := Inspect(data)
	if info.MimeType != "" {
		mime = info.MimeType
	}
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(data)
	}
	res.MimeType = mime
	res.Width, res.Height = info.Width, info.Height
	res.StorageKey = fmt.Sprintf("pins/%s/%s%s", req.OwnerUserID, r.newKey(), extensionFor(mime))

	if err := r.store.UploadFile(ctx, res.StorageKey, mime, data); err != nil {
		return res, fmt.Errorf("%w: upload: %v", types.ErrStorage, err)
	}
	res.ImageURL = r.store.GetPublicURL(res.StorageKey)
	r.log.Debug("pin image stored", "key", res.StorageKey, "mime", mime, "bytes", len(data))
	return res, nil
}

type ImageInfo struct {
	MimeType string
	Width    int
	Height   int
}

// Inspect decodes only the image header. Unknown formats yield a zero ImageInfo.
func Inspect(data []byte) ImageInfo {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageInfo{}
	}
	return ImageInfo{MimeType: "image/" + format, Width: cfg.Width, Height: cfg.Height}
}

func extensionFor(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".bin"
	}
}
