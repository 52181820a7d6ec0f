package container

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaevor/go-nanoid"
	"github.com/linkdeck/linkdeck/internal/analytics"
	analyticsstore "github.com/linkdeck/linkdeck/internal/analytics/store"
	"github.com/linkdeck/linkdeck/internal/auth"
	"github.com/linkdeck/linkdeck/internal/captcha"
	"github.com/linkdeck/linkdeck/internal/handlers"
	"github.com/linkdeck/linkdeck/internal/health"
	"github.com/linkdeck/linkdeck/internal/link"
	"github.com/linkdeck/linkdeck/internal/messaging"
	"github.com/linkdeck/linkdeck/internal/middleware"
	"github.com/linkdeck/linkdeck/internal/ratelimit"
	"github.com/linkdeck/linkdeck/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// captcha answers avoid ambiguous characters (0/O, 1/I/L)
const captchaAlphabet = "23456789abcdefghjkmnpqrstuvwxyz"

// consumerGroupName is the Redis stream consumer group shared by all
// consumer instances.
const consumerGroupName = "analytics"

// Options holds all service configuration, surfaced as CLI flags and
// environment variables by humacli.
type Options struct {
	Port                 int    `default:"8888"           help:"Port to listen on"                                  short:"p"`
	BaseURL              string `default:""               help:"Public base URL for short links"`
	CodeLength           int    `default:"6"              help:"Length of generated short codes"                    short:"c"`
	RedisAddr            string `default:"localhost:6379" help:"Redis server address"                               short:"r"`
	PostgresDSN          string `default:""               help:"Postgres connection string; in-memory stores when empty"`
	APIToken             string `default:""               help:"Static API token for service-to-service access"`
	AllowAnonymousCreate bool   `default:"false"          help:"Allow link creation without a session"`
	LoginCaptcha         bool   `default:"false"          help:"Require a captcha on login"`
	SessionTTLHours      int    `default:"24"             help:"Session lifetime in hours"`
	LogFormat            string `default:"console"        help:"Log format: console or json"`
}

// LoggerPackage provides the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)

		if options.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides the Redis client.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		options := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{
			Addr: options.RedisAddr,
		}), nil
	})
}

// PostgresPackage provides the pgx pool and runs migrations. Only
// invoked when a DSN is configured.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		options := do.MustInvoke[*Options](i)

		pool, err := pgxpool.New(context.Background(), options.PostgresDSN)
		if err != nil {
			return nil, err
		}

		if err := store.Migrate(context.Background(), pool); err != nil {
			pool.Close()

			return nil, err
		}

		return pool, nil
	})
}

// RepositoryPackage provides the storage implementations: Postgres when
// a DSN is configured, in-memory otherwise. Sessions, captcha, and rate
// limiting always live in Redis.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (link.Repository, error) {
		options := do.MustInvoke[*Options](i)

		if options.PostgresDSN != "" {
			return store.NewPostgresLinkStore(do.MustInvoke[*pgxpool.Pool](i)), nil
		}

		return store.NewMemoryLinkStore(), nil
	})

	do.Provide(injector, func(i *do.Injector) (auth.UserRepository, error) {
		options := do.MustInvoke[*Options](i)

		if options.PostgresDSN != "" {
			return store.NewPostgresUserStore(do.MustInvoke[*pgxpool.Pool](i)), nil
		}

		return store.NewMemoryUserStore(), nil
	})

	do.Provide(injector, func(i *do.Injector) (analytics.Store, error) {
		options := do.MustInvoke[*Options](i)

		if options.PostgresDSN != "" {
			return store.NewPostgresClickStore(do.MustInvoke[*pgxpool.Pool](i)), nil
		}

		return store.NewMemoryClickStore(), nil
	})

	do.Provide(injector, func(i *do.Injector) (auth.SessionStore, error) {
		return store.NewRedisSessionStore(do.MustInvoke[*redis.Client](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (captcha.Store, error) {
		return store.NewRedisCaptchaStore(do.MustInvoke[*redis.Client](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (ratelimit.Store, error) {
		return store.NewRateLimitRedisStore(do.MustInvoke[*redis.Client](i)), nil
	})
}

// ServicePackage provides the domain services.
func ServicePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*link.Service, error) {
		options := do.MustInvoke[*Options](i)

		generator, err := nanoid.Standard(options.CodeLength)
		if err != nil {
			return nil, err
		}

		return link.NewService(do.MustInvoke[link.Repository](i), generator), nil
	})

	do.Provide(injector, func(i *do.Injector) (*captcha.Service, error) {
		answers, err := nanoid.CustomASCII(captchaAlphabet, 5)
		if err != nil {
			return nil, err
		}

		return captcha.NewService(do.MustInvoke[captcha.Store](i), answers, 5*time.Minute), nil
	})

	do.Provide(injector, func(i *do.Injector) (*auth.Service, error) {
		options := do.MustInvoke[*Options](i)

		tokens, err := nanoid.Standard(32)
		if err != nil {
			return nil, err
		}

		return auth.NewService(
			do.MustInvoke[auth.UserRepository](i),
			do.MustInvoke[auth.SessionStore](i),
			do.MustInvoke[*captcha.Service](i),
			tokens,
			auth.Config{
				SessionTTL:   time.Duration(options.SessionTTLHours) * time.Hour,
				LoginCaptcha: options.LoginCaptcha,
			},
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (*analytics.Query, error) {
		return analytics.NewQuery(
			do.MustInvoke[link.Repository](i),
			do.MustInvoke[analytics.Store](i),
		), nil
	})
}

// RateLimitPackage provides the policy limiter and scope resolver.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*ratelimit.PolicyLimiter, error) {
		return ratelimit.NewPolicyLimiter(do.MustInvoke[ratelimit.Store](i), ratelimit.DefaultPolicy()), nil
	})

	do.Provide(injector, func(i *do.Injector) (ratelimit.ScopeResolver, error) {
		return ratelimit.NewOperationScopeResolver(), nil
	})
}

// PublisherGroupPackage provides the watermill publisher and the typed
// publish functions used by the handlers.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: do.MustInvoke[*redis.Client](i),
		}, watermill.NopLogger{})
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.LinkCreatedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[analytics.LinkCreatedEvent](group.Publisher(), analytics.TopicLinkCreated), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.ClickEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[analytics.ClickEvent](group.Publisher(), analytics.TopicLinkClicked), nil
	})
}

// ConsumerGroupPackage provides the analytics consumer group for the
// consumer binary.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (analytics.Store, error) {
		options := do.MustInvoke[*Options](i)

		if options.PostgresDSN != "" {
			return store.NewPostgresClickStore(do.MustInvoke[*pgxpool.Pool](i)), nil
		}

		return analyticsstore.NewNoop(do.MustInvoke[*zap.Logger](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        do.MustInvoke[*redis.Client](i),
			ConsumerGroup: consumerGroupName,
		}, watermill.NopLogger{})
		if err != nil {
			return nil, err
		}

		clickStore := do.MustInvoke[analytics.Store](i)

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicLinkClicked, analytics.NewClickHandler(clickStore, logger), logger))
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicLinkCreated, analytics.NewCreatedHandler(logger), logger))

		return group, nil
	})
}

// HTTPPackage provides the chi router and the huma API with all
// middleware and routes registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)

		api := humachi.New(router, huma.DefaultConfig("LinkDeck", "1.0.0"))

		authSvc := do.MustInvoke[*auth.Service](i)

		api.UseMiddleware(
			middleware.RequestMeta(api),
			middleware.APIToken(api, options.APIToken),
			middleware.Session(authSvc, logger),
			middleware.PolicyRateLimiter(api,
				do.MustInvoke[*ratelimit.PolicyLimiter](i),
				do.MustInvoke[ratelimit.ScopeResolver](i),
				logger,
			),
		)

		baseURL := options.BaseURL
		if baseURL == "" {
			baseURL = fmt.Sprintf("http://localhost:%d", options.Port)
		}

		linkHandler := handlers.NewLinkHandler(
			do.MustInvoke[*link.Service](i),
			do.MustInvoke[analytics.Store](i),
			baseURL,
			options.AllowAnonymousCreate,
			do.MustInvoke[messaging.Publish[analytics.LinkCreatedEvent]](i),
			logger,
		)

		authHandler := handlers.NewAuthHandler(
			authSvc,
			do.MustInvoke[*captcha.Service](i),
			time.Duration(options.SessionTTLHours)*time.Hour,
			logger,
		)

		analyticsHandler := handlers.NewAnalyticsHandler(do.MustInvoke[*analytics.Query](i), logger)

		redirectHandler := handlers.NewRedirectHandler(
			do.MustInvoke[*link.Service](i),
			do.MustInvoke[messaging.Publish[analytics.ClickEvent]](i),
			logger,
		)

		handlers.RegisterRoutes(api, linkHandler, authHandler, analyticsHandler, redirectHandler)

		var postgresCheck health.Checker
		if options.PostgresDSN != "" {
			postgresCheck = health.NewPostgresChecker(do.MustInvoke[*pgxpool.Pool](i))
		}

		health.RegisterRoutes(api, health.NewHandler(
			health.NewRedisChecker(do.MustInvoke[*redis.Client](i)),
			postgresCheck,
		))

		return api, nil
	})
}
