package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/lumigen/lumigen/modules/account"
	"github.com/lumigen/lumigen/modules/billing"
	"github.com/lumigen/lumigen/modules/generator"
	"github.com/lumigen/lumigen/modules/niche"
	"github.com/lumigen/lumigen/modules/usage"
	"github.com/lumigen/lumigen/pkg/config"
	"github.com/lumigen/lumigen/pkg/email"
	"github.com/lumigen/lumigen/pkg/entitlement"
	"github.com/lumigen/lumigen/pkg/genai"
	"github.com/lumigen/lumigen/pkg/httpserver"
	"github.com/lumigen/lumigen/pkg/httpx"
	"github.com/lumigen/lumigen/pkg/logger"
	"github.com/lumigen/lumigen/pkg/metering"
	"github.com/lumigen/lumigen/pkg/pg"
	"github.com/lumigen/lumigen/pkg/plan"
	"github.com/lumigen/lumigen/pkg/profile"
	"github.com/lumigen/lumigen/pkg/redis"
	"github.com/lumigen/lumigen/pkg/requestid"
	"github.com/lumigen/lumigen/pkg/storage"
	"github.com/lumigen/lumigen/pkg/youtube"
)

type appConfig struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"lumigen"`

	// UsageStore selects the metering backend: "redis" or "postgres".
	UsageStore string `env:"USAGE_STORE" envDefault:"redis"`

	// PlansFile optionally overrides the built-in plan catalog.
	PlansFile string `env:"PLANS_FILE"`

	DigestHourUTC int    `env:"DIGEST_HOUR_UTC" envDefault:"8"`
	DevEmailDir   string `env:"DEV_EMAIL_DIR" envDefault:"./tmp/emails"`
}

func main() {
	ctx := context.Background()

	var app appConfig
	config.MustLoad(&app)

	log := logger.New(
		logger.WithEnvironment(app.Environment, app.ServiceName),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	slog.SetDefault(log)

	if err := run(ctx, app, log); err != nil {
		log.ErrorContext(ctx, "server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, app appConfig, log *slog.Logger) error {
	var (
		pgCfg      pg.Config
		redisCfg   redis.Config
		httpCfg    httpserver.Config
		textCfg    genai.TextConfig
		imageCfg   genai.ImageConfig
		ytCfg      youtube.Config
		s3Cfg      storage.Config
		emailCfg   email.Config
		billingCfg billing.Config
	)
	config.MustLoad(&pgCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&textCfg)
	config.MustLoad(&imageCfg)
	config.MustLoad(&ytCfg)
	config.MustLoad(&s3Cfg)
	config.MustLoad(&emailCfg)
	config.MustLoad(&billingCfg)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return err
	}
	defer rdb.Close()

	catalog := plan.DefaultCatalog()
	if app.PlansFile != "" {
		catalog, err = plan.LoadYAMLCatalog(app.PlansFile)
		if err != nil {
			return err
		}
		log.InfoContext(ctx, "plan catalog loaded", slog.String("path", app.PlansFile))
	}

	var usageStore metering.Store
	switch app.UsageStore {
	case "postgres":
		usageStore = metering.NewPostgresStore(pool)
	default:
		usageStore = metering.NewRedisStore(rdb)
	}
	engine := metering.NewEngine(catalog, usageStore)

	profiles := profile.NewStore(pool)
	resolver := entitlement.NewResolver(catalog)

	textClient := genai.NewTextClient(textCfg)
	imageClient := genai.NewImageClient(imageCfg)

	archiver, err := storage.NewArchiver(ctx, s3Cfg)
	if err != nil {
		return err
	}
	if !archiver.Enabled() {
		log.InfoContext(ctx, "thumbnail archiving disabled, serving upstream URLs")
	}

	ytClient := youtube.New(ytCfg)
	if !ytClient.Enabled() {
		log.InfoContext(ctx, "youtube enrichment disabled, feed uses AI analysis only")
	}

	sender := newSender(emailCfg, app, log)

	genSvc := generator.NewService(engine, resolver, textClient, imageClient, archiver, log)
	nicheSvc := niche.NewService(resolver, textClient, ytClient, niche.NewRedisCache(rdb), log)

	digest := niche.NewDigest(nicheSvc, profiles, sender, log)
	go digest.Run(ctx, app.DigestHourUTC)

	webhook := billing.NewWebhook(billingCfg, billing.NewPaddleVerifier(billingCfg.WebhookSecret), profiles, log)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)

	r.Get("/health", httpserver.HealthHandler(log, pg.Healthcheck(pool), redis.Healthcheck(rdb)))
	r.Mount("/billing", billing.NewHandler(catalog, webhook).Router())

	r.Group(func(r chi.Router) {
		r.Use(httpx.RequireUser)
		r.Mount("/generate", generator.NewHandler(genSvc, profiles, log).Router())
		r.Mount("/niches", niche.NewHandler(nicheSvc, profiles, log).Router())
		r.Mount("/usage", usage.NewHandler(engine, profiles, log).Router())
		r.Mount("/account", account.NewHandler(profiles, log).Router())
	})

	log.InfoContext(ctx, "starting server",
		slog.String("addr", httpCfg.Addr),
		slog.String("environment", app.Environment),
		slog.String("usage_store", app.UsageStore))
	return httpserver.Run(ctx, httpCfg, r, log)
}

func newSender(cfg email.Config, app appConfig, log *slog.Logger) email.Sender {
	if cfg.PostmarkServerToken == "" {
		log.Info("no postmark token, writing emails to disk", slog.String("dir", app.DevEmailDir))
		return email.NewDevSender(app.DevEmailDir)
	}
	sender, err := email.NewPostmarkSender(cfg)
	if err != nil {
		log.Error("postmark sender unavailable, falling back to disk", slog.Any("error", err))
		return email.NewDevSender(app.DevEmailDir)
	}
	return sender
}
