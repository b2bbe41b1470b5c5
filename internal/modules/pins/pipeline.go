package pins

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	types "github.com/yungbote/pinforge-backend/internal/domain"
	"github.com/yungbote/pinforge-backend/internal/jobs/background"
	"github.com/yungbote/pinforge-backend/internal/modules/pins/content"
	"github.com/yungbote/pinforge-backend/internal/modules/pins/entitlement"
	"github.com/yungbote/pinforge-backend/internal/modules/pins/render"
	"github.com/yungbote/pinforge-backend/internal/modules/pins/styles"
	"github.com/yungbote/pinforge-backend/internal/modules/pins/textgen"
	"github.com/yungbote/pinforge-backend/internal/observability"
	"github.com/yungbote/pinforge-backend/internal/platform/logger"
)

type Stage string

const (
	StageValidatingEntitlement Stage = "validating_entitlement"
	StageAnalyzingContent      Stage = "analyzing_content"
	StageGeneratingText        Stage = "generating_text"
	StageRenderingImages       Stage = "rendering_images"
	StagePersisting            Stage = "persisting"
	StageCompleted             Stage = "completed"
	StageFailed                Stage = "failed"
)

const MaxCustomTextRunes = 10000

type EntitlementSource interface {
	// Load returns nil state (not an error) for users without a profile.
	Load(ctx context.Context, userID uuid.UUID) (*entitlement.State, error)
}

type UsageRecorder interface {
	RecordGeneration(ctx context.Context, userID uuid.UUID) error
}

// InflightGuard serializes generations per user. Acquire fails with ErrGenerationInProgress.
type InflightGuard interface {
	Acquire(ctx context.Context, userID uuid.UUID) (release func(), err error)
}

type ContentAnalyzer interface {
	Analyze(ctx context.Context, url string) (*types.ContentAnalysis, error)
}

type TextGenerator interface {
	Generate(ctx context.Context, src textgen.Source, specializedPrompt string) []types.TextVariation
}

type ImageRenderer interface {
	Render(ctx context.Context, req render.Request) (render.Result, error)
}

type PinWriter interface {
	Create(ctx context.Context, tx *gorm.DB, items []*types.Pin) ([]*types.Pin, error)
}

type PipelineDeps struct {
	Log          *logger.Logger
	Entitlements EntitlementSource
	Usage        UsageRecorder
	Guard        InflightGuard
	Analyzer     ContentAnalyzer
	Text         TextGenerator
	Renderer     ImageRenderer
	Pins         PinWriter
	Background   background.Dispatcher
	Niches       *styles.Catalog
}

type Pipeline struct {
	log  *logger.Logger
	deps PipelineDeps
	now  func() time.Time
}

func NewPipeline(deps PipelineDeps) *Pipeline {
	if deps.Niches == nil {
		deps.Niches = styles.DefaultCatalog()
	}
	if deps.Background == nil {
		deps.Background = &background.Inline{}
	}
	return &Pipeline{
		log:  deps.Log.With("module", "PinPipeline"),
		deps: deps,
		now:  time.Now,
	}
}

type variationOutcome struct {
	style  styles.Key
	result render.Result
	err    error
}

// Generate runs one generation request end to end. Partial render failures are not errors; the
// request fails only when it is invalid, denied, already running, unfetchable, or nothing rendered.
func (p *Pipeline) Generate(ctx context.Context, req types.GenerationRequest) (*types.GenerationResult, error) {
	log := p.log.With("user_id", req.UserID.String(), "source_kind", string(req.SourceKind))
	niche, err := p.validate(&req)
	if err != nil {
		return nil, p.fail(log, StageValidatingEntitlement, "validation", err)
	}

	var release func()
	err = p.stage(ctx, log, StageValidatingEntitlement, func(ctx context.Context) error {
		state, err := p.deps.Entitlements.Load(ctx, req.UserID)
		if err != nil {
			return fmt.Errorf("load entitlement: %w", err)
		}
		if !entitlement.CanGenerate(state) {
			return types.ErrEntitlementDenied
		}
		if p.deps.Guard != nil {
			release, err = p.deps.Guard.Acquire(ctx, req.UserID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, p.fail(log, StageValidatingEntitlement, outcomeFor(err), err)
	}
	if release != nil {
		defer release()
	}

	analysis := &types.ContentAnalysis{}
	if req.SourceKind == types.SourceURL {
		err = p.stage(ctx, log, StageAnalyzingContent, func(ctx context.Context) error {
			a, err := p.deps.Analyzer.Analyze(ctx, req.SourceValue)
			if err != nil {
				return err
			}
			analysis = a
			return nil
		})
		if err != nil {
			return nil, p.fail(log, StageAnalyzingContent, outcomeFor(err), err)
		}
	}

	var variations []types.TextVariation
	_ = p.stage(ctx, log, StageGeneratingText, func(ctx context.Context) error {
		src := textgen.Source{Analysis: analysis}
		if req.SourceKind == types.SourceCustomText {
			src = textgen.Source{CustomText: req.SourceValue}
		}
		variations = p.deps.Text.Generate(ctx, src, niche.SpecializedPrompt)
		return nil
	})

	outcomes := make([]variationOutcome, len(variations))
	_ = p.stage(ctx, log, StageRenderingImages, func(ctx context.Context) error {
		domain := sourceDomain(req)
		g, gctx := errgroup.WithContext(ctx)
		for i := range variations {
			i := i
			g.Go(func() error {
				style := styles.ForVariation(req.TemplateStyle, i)
				res, err := p.deps.Renderer.Render(gctx, render.Request{
					OwnerUserID:      req.UserID,
					Variation:        variations[i],
					Style:            style,
					NicheImagePrompt: niche.ImageStylePrompt,
					SourceDomain:     domain,
				})
				outcomes[i] = variationOutcome{style: style, result: res, err: err}
				return nil
			})
		}
		return g.Wait()
	})

	successes := 0
	for i, o := range outcomes {
		if o.err != nil {
			reason := failureReason(o.err)
			log.Warn("variation failed", "variation_index", i, "reason", reason, "error", o.err)
			observability.Current().IncVariationFailure(reason)
			continue
		}
		successes++
	}
	if successes == 0 {
		err := fmt.Errorf("%w: all %d variations failed", types.ErrGenerationFailed, len(outcomes))
		return nil, p.fail(log, StageRenderingImages, "failed", err)
	}

	views := make([]types.PinView, 0, successes)
	_ = p.stage(ctx, log, StagePersisting, func(ctx context.Context) error {
		views = p.persist(ctx, log, req, variations, outcomes)
		return nil
	})

	userID := req.UserID
	p.deps.Background.Go(ctx, "usage_increment", func(ctx context.Context) error {
		return p.deps.Usage.RecordGeneration(ctx, userID)
	})

	outcome := "completed"
	if successes < len(outcomes) {
		outcome = "partial"
	}
	observability.Current().IncGeneration(outcome)
	log.Info("pipeline stage", "stage", StageCompleted, "success_count", successes, "requested_count", len(outcomes))

	return &types.GenerationResult{
		Pins:            views,
		ContentAnalysis: analysis,
		SuccessCount:    successes,
		RequestedCount:  len(outcomes),
	}, nil
}

// persist writes one row per rendered variation. A failed insert keeps the pin in the result
// with Saved=false.
func (p *Pipeline) persist(ctx context.Context, log *logger.Logger, req types.GenerationRequest, variations []types.TextVariation, outcomes []variationOutcome) []types.PinView {
	var sourceURL *string
	if req.SourceKind == types.SourceURL {
		u := req.SourceValue
		sourceURL = &u
	}
	views := make([]types.PinView, 0, len(outcomes))
	for i, o := range outcomes {
		if o.err != nil {
			continue
		}
		pin := &types.Pin{
			ID:              uuid.New(),
			OwnerUserID:     req.UserID,
			SourceURL:       sourceURL,
			Title:           variations[i].Title,
			Description:     variations[i].Description,
			ImageURL:        o.result.ImageURL,
			ImageStorageKey: o.result.StorageKey,
			ImageMimeType:   o.result.MimeType,
			ImageWidth:      o.result.Width,
			ImageHeight:     o.result.Height,
			StylePromptUsed: o.result.Prompt,
			TemplateStyle:   string(o.style),
			VariationIndex:  i,
			Status:          types.PinStatusCompleted,
		}
		saved := true
		if _, err := p.deps.Pins.Create(ctx, nil, []*types.Pin{pin}); err != nil {
			log.Error("pin insert failed", "variation_index", i, "pin_id", pin.ID.String(), "error", err)
			observability.Current().IncVariationFailure("persist")
			saved = false
		}
		if pin.CreatedAt.IsZero() {
			pin.CreatedAt = p.now()
		}
		views = append(views, types.PinView{Pin: *pin, Saved: saved})
	}
	return views
}

// validate normalizes req in place and resolves the niche block against the catalog.
func (p *Pipeline) validate(req *types.GenerationRequest) (types.NicheSpecialization, error) {
	var niche types.NicheSpecialization
	if req.UserID == uuid.Nil {
		return niche, fmt.Errorf("%w: user is required", types.ErrValidation)
	}
	req.SourceValue = strings.TrimSpace(req.SourceValue)
	switch req.SourceKind {
	case types.SourceURL:
		if _, err := content.ValidateURL(req.SourceValue); err != nil {
			return niche, err
		}
	case types.SourceCustomText:
		if req.SourceValue == "" {
			return niche, fmt.Errorf("%w: custom content is empty", types.ErrValidation)
		}
		if utf8.RuneCountInString(req.SourceValue) > MaxCustomTextRunes {
			return niche, fmt.Errorf("%w: custom content exceeds %d characters", types.ErrValidation, MaxCustomTextRunes)
		}
	default:
		return niche, fmt.Errorf("%w: unknown source kind %q", types.ErrValidation, req.SourceKind)
	}
	if req.Niche == nil {
		return niche, nil
	}
	niche = *req.Niche
	if id := strings.TrimSpace(niche.NicheID); id != "" {
		n, ok := p.deps.Niches.Get(id)
		if !ok {
			return niche, fmt.Errorf("%w: unknown niche %q", types.ErrValidation, id)
		}
		niche.NicheID = n.ID
		if strings.TrimSpace(niche.SpecializedPrompt) == "" {
			niche.SpecializedPrompt = n.SpecializedPrompt
		}
		if strings.TrimSpace(niche.ImageStylePrompt) == "" {
			niche.ImageStylePrompt = n.ImageStylePrompt
		}
	}
	return niche, nil
}

func (p *Pipeline) stage(ctx context.Context, log *logger.Logger, stage Stage, fn func(ctx context.Context) error) error {
	ctx, span := observability.StartSpan(ctx, "pins."+string(stage), attribute.String("pins.stage", string(stage)))
	defer span.End()
	log.Debug("pipeline stage", "stage", stage)
	start := time.Now()
	err := fn(ctx)
	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	observability.Current().ObserveStage(string(stage), status, time.Since(start))
	return err
}

func (p *Pipeline) fail(log *logger.Logger, from Stage, outcome string, err error) error {
	log.Warn("pipeline stage", "stage", StageFailed, "from", from, "outcome", outcome, "error", err)
	observability.Current().IncGeneration(outcome)
	return err
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, types.ErrValidation):
		return "validation"
	case errors.Is(err, types.ErrEntitlementDenied):
		return "denied"
	case errors.Is(err, types.ErrGenerationInProgress):
		return "in_progress"
	case errors.Is(err, types.ErrFetch):
		return "fetch_failed"
	default:
		return "error"
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, types.ErrStorage):
		return "storage"
	case errors.Is(err, types.ErrRender):
		return "render"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "unknown"
	}
}

func sourceDomain(req types.GenerationRequest) string {
	if req.SourceKind != types.SourceURL {
		return ""
	}
	u, err := url.Parse(req.SourceValue)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
