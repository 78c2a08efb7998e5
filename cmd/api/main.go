package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/yathrananda/admin-console/internal/config"
	"github.com/yathrananda/admin-console/internal/logging"
	"github.com/yathrananda/admin-console/internal/media"
	"github.com/yathrananda/admin-console/internal/obs"
	"github.com/yathrananda/admin-console/internal/repository/cloudinary"
	"github.com/yathrananda/admin-console/internal/repository/memory"
	"github.com/yathrananda/admin-console/internal/repository/minio"
	"github.com/yathrananda/admin-console/internal/repository/ports"
	"github.com/yathrananda/admin-console/internal/repository/postgres"
	"github.com/yathrananda/admin-console/internal/repository/redis"
	"github.com/yathrananda/admin-console/internal/service"
	transporthttp "github.com/yathrananda/admin-console/internal/transport/http"
	"github.com/yathrananda/admin-console/internal/util"
)

const serviceName = "yathra-admin"

type repositories struct {
	packages     service.PackageRepositories
	heroMedia    ports.HeroMediaRepository
	faqs         ports.FAQRepository
	testimonials ports.TestimonialRepository
	settings     ports.SettingsRepository
	close        func() error
}

func main() {
	hashPassword := flag.String("hash-password", "", "print an argon2id hash for ADMIN_PASSWORD_HASH and exit")
	swaggerPath := flag.String("swagger", "docs/swagger.yaml", "path to the OpenAPI document served at /swagger")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := util.HashPassword(*hashPassword)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		fmt.Println(hash)
		return
	}

	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	closeLogs := logging.Setup(cfg.LogstashTCPAddr)
	defer closeLogs()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, serviceName, cfg.OTLPEndpoint, cfg.AppEnv)
	if err != nil {
		log.Fatalf("tracing: %v", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(sctx); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	repos, err := openRepositories(cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer repos.close()

	store, err := openMediaStore(ctx, cfg)
	if err != nil {
		log.Fatalf("media: %v", err)
	}

	var cache ports.Cache
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer client.Close()
		cache = redis.NewCache(client)
	} else {
		cache = memory.NewCache()
	}

	mediaSvc := service.NewMediaService(store, service.MediaServiceConfig{
		MaxBytes:     cfg.MediaMaxBytes,
		MaxDimension: cfg.MediaMaxDimension,
		Processor:    media.NewImageProcessor(cfg.MediaMaxDimension),
	})
	authSvc := service.NewAuthService(service.AuthConfig{
		Username:     cfg.AdminUsername,
		Password:     cfg.AdminPassword,
		PasswordHash: cfg.AdminPasswordHash,
	}, util.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL))
	packageSvc := service.NewPackageService(repos.packages, mediaSvc)
	heroSvc := service.NewHeroMediaService(repos.heroMedia, mediaSvc)
	faqSvc := service.NewFAQService(repos.faqs)
	testimonialSvc := service.NewTestimonialService(repos.testimonials, mediaSvc)
	settingsSvc := service.NewSettingsService(repos.settings)

	e := transporthttp.NewRouter(transporthttp.RouterConfig{
		ServiceName:  serviceName,
		AllowOrigins: cfg.AllowOrigins,
	})
	transporthttp.RegisterPages(e)
	transporthttp.RegisterAuth(e, authSvc, transporthttp.AuthRoutesConfig{
		SecureCookie:       cfg.Production(),
		LoginRatePerMinute: cfg.LoginRatePerMin,
	})
	transporthttp.RegisterAdmin(e, transporthttp.AdminServices{
		Auth:         authSvc,
		Packages:     packageSvc,
		HeroMedia:    heroSvc,
		FAQs:         faqSvc,
		Testimonials: testimonialSvc,
		Settings:     settingsSvc,
		Media:        mediaSvc,
	}, cache, cfg.AllowOrigins)
	transporthttp.RegisterPublic(e, transporthttp.PublicConfig{
		APIToken:     cfg.APIToken,
		AllowOrigins: cfg.PublicAllowOrigins,
	}, transporthttp.PublicServices{
		Packages:     packageSvc,
		HeroMedia:    heroSvc,
		FAQs:         faqSvc,
		Testimonials: testimonialSvc,
	}, cache)
	transporthttp.RegisterSwagger(e, *swaggerPath)

	go func() {
		log.Printf("%s listening on :%s (store=%s media=%s)", serviceName, cfg.Port, cfg.StoreBackend, cfg.MediaBackend)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}

func openRepositories(cfg config.Config) (*repositories, error) {
	if cfg.StoreBackend == config.StoreBackendMemory {
		log.Printf("using in-memory store; data is lost on restart")
		s := memory.NewStore()
		return &repositories{
			packages: service.PackageRepositories{
				Packages:     s.Packages(),
				Itinerary:    s.Itinerary(),
				Gallery:      s.Gallery(),
				Rules:        s.Rules(),
				Testimonials: s.Testimonials(),
			},
			heroMedia:    s.HeroMedia(),
			faqs:         s.FAQs(),
			testimonials: s.Testimonials(),
			settings:     s.Settings(),
			close:        func() error { return nil },
		}, nil
	}

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return postgresRepositories(db), nil
}

func postgresRepositories(db *sqlx.DB) *repositories {
	testimonials := postgres.NewTestimonialRepo(db)
	return &repositories{
		packages: service.PackageRepositories{
			Packages:     postgres.NewPackageRepo(db),
			Itinerary:    postgres.NewItineraryRepo(db),
			Gallery:      postgres.NewGalleryRepo(db),
			Rules:        postgres.NewRuleRepo(db),
			Testimonials: testimonials,
		},
		heroMedia:    postgres.NewHeroMediaRepo(db),
		faqs:         postgres.NewFAQRepo(db),
		testimonials: testimonials,
		settings:     postgres.NewSettingsRepo(db),
		close:        db.Close,
	}
}

func openMediaStore(ctx context.Context, cfg config.Config) (ports.MediaStore, error) {
	switch cfg.MediaBackend {
	case config.MediaBackendMinIO:
		client, err := minio.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
		if err != nil {
			return nil, err
		}
		store, err := minio.NewMediaStore(client, minio.StoreConfig{
			Bucket:    cfg.MinIOBucket,
			PublicURL: cfg.MinIOPublicURL,
		})
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return cloudinary.New(cloudinary.Config{
			CloudName:    cfg.CloudinaryCloudName,
			UploadPreset: cfg.CloudinaryUploadPreset,
			APIKey:       cfg.CloudinaryAPIKey,
			APISecret:    cfg.CloudinaryAPISecret,
		})
	}
}
