package app

import (
	"github.com/yungbote/pinforge-backend/internal/data/repos"
	"github.com/yungbote/pinforge-backend/internal/jobs/background"
	"github.com/yungbote/pinforge-backend/internal/modules/pins"
	"github.com/yungbote/pinforge-backend/internal/modules/pins/content"
	"github.com/yungbote/pinforge-backend/internal/modules/pins/render"
	"github.com/yungbote/pinforge-backend/internal/modules/pins/styles"
	"github.com/yungbote/pinforge-backend/internal/modules/pins/textgen"
	"github.com/yungbote/pinforge-backend/internal/platform/logger"
	"github.com/yungbote/pinforge-backend/internal/services"
)

const contentCacheRedisPrefix = "pinforge:content:"

type Services struct {
	Background *background.Pool
	Auth       services.AuthService
	Usage      services.UsageService
	Pins       services.PinService
	Pipeline   *pins.Pipeline
	Niches     *styles.Catalog
}

func wireServices(log *logger.Logger, cfg Config, reposet repos.Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	auth, err := services.NewAuthService(log, cfg.Auth)
	if err != nil {
		return Services{}, err
	}
	pool := background.NewPool(log, cfg.BackgroundWorkers, cfg.BackgroundTimeout)
	usage := services.NewUsageService(log, reposet.Profile)
	pinService := services.NewPinService(log, reposet.Pin, clients.Bucket, pool)
	niches := styles.DefaultCatalog()

	var cache content.Cache
	if cfg.ContentCacheBackend == "redis" {
		cache = content.NewRedisCache(clients.Redis, contentCacheRedisPrefix)
	} else {
		cache = content.NewRepoCache(reposet.ContentAnalysis)
	}

	var guard pins.InflightGuard
	if clients.Redis != nil {
		guard = services.NewRedisInflightGuard(log, clients.Redis, "", cfg.InflightTTL)
	} else {
		guard = services.NewLocalInflightGuard()
	}

	pipeline := pins.NewPipeline(pins.PipelineDeps{
		Log:          log,
		Entitlements: usage,
		Usage:        usage,
		Guard:        guard,
		Analyzer:     content.NewExtractor(log, cache, pool, content.ConfigFromEnv()),
		Text:         textgen.NewGenerator(log, clients.OpenAI, cfg.TextTimeout),
		Renderer:     render.NewRenderer(log, clients.ImageProvider, clients.Bucket, cfg.RenderTimeout, cfg.DownloadTimeout),
		Pins:         reposet.Pin,
		Background:   pool,
		Niches:       niches,
	})

	return Services{
		Background: pool,
		Auth:       auth,
		Usage:      usage,
		Pins:       pinService,
		Pipeline:   pipeline,
		Niches:     niches,
	}, nil
}
