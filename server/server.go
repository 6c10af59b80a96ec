package server

import (
	"context"
	"net/http"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/sealvault/go-sealvault/env"
	"github.com/sealvault/go-sealvault/middleware"
	"github.com/sealvault/go-sealvault/registry"
	"github.com/sealvault/go-sealvault/service/logger"
	"github.com/sealvault/go-sealvault/service/persist"
	sentryutil "github.com/sealvault/go-sealvault/service/sentry"
	"github.com/sealvault/go-sealvault/service/store"
)

func init() {
	env.SetDefault("ENV", "local")
	env.SetDefault("PORT", 4000)
	env.SetDefault("VAULT_STORE", "memory")
	env.SetDefault("VAULT_SQLITE_PATH", "sealvault.db")
	env.SetDefault("VAULT_NAME", "")
	env.SetDefault("VAULT_SYMBOL", "")
	env.SetDefault("VAULT_ADMIN_ADDRESS", "")
	env.SetDefault("VAULT_PUBLIC_TOKEN_SUPPLY", false)
	env.SetDefault("VAULT_PUBLIC_OWNER", false)
	env.SetDefault("VAULT_ENABLE_SEALED_METADATA", false)
	env.SetDefault("VAULT_UNWRAPPED_METADATA_IS_PRIVATE", false)
	env.SetDefault("VAULT_MINTER_MAY_UPDATE_METADATA", true)
	env.SetDefault("VAULT_OWNER_MAY_UPDATE_METADATA", false)
	env.SetDefault("VAULT_ENABLE_BURN", false)
}

// Init initializes the server and registers it on the default mux
func Init() {
	router := CoreInit()
	http.Handle("/", router)
}

// CoreInit initializes the logger, sentry, the store and the registry, and
// returns the wired router
func CoreInit() *gin.Engine {
	logger.InitWithDefaults()
	sentryutil.InitSentry()

	if env.GetString("ENV") != "production" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.ErrLogger(), gin.Recovery())
	if env.GetString("SENTRY_DSN") != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	return HandlersInit(router, newRegistry())
}

func newRegistry() *registry.Registry {
	reg := registry.New(newStore())
	instantiateFromEnv(reg)
	return reg
}

func newStore() store.Store {
	switch backend := env.GetString("VAULT_STORE"); backend {
	case "sqlite":
		path := env.GetString("VAULT_SQLITE_PATH")
		s, err := store.NewSqliteStore(path)
		if err != nil {
			panic(err)
		}
		logger.For(nil).Infof("using sqlite store at %s", path)
		return s
	case "memory":
		logger.For(nil).Info("using in-memory store")
		return store.NewMemoryStore()
	default:
		panic("unknown VAULT_STORE backend: " + backend)
	}
}

// instantiateFromEnv creates the configuration on first boot. A persistent
// store that is already instantiated keeps its stored configuration.
func instantiateFromEnv(reg *registry.Registry) {
	ctx := context.Background()

	instantiated, err := reg.Instantiated(ctx)
	if err != nil {
		panic(err)
	}
	if instantiated {
		return
	}

	name := env.GetString("VAULT_NAME")
	if name == "" {
		logger.For(nil).Warn("VAULT_NAME not set, registry starts uninstantiated")
		return
	}

	admin := persist.Address(env.GetString("VAULT_ADMIN_ADDRESS"))
	ec := registry.ExecCtx{Caller: admin, Time: uint64(time.Now().Unix())}
	err = reg.Instantiate(ctx, ec, registry.InstantiateMsg{
		Name:                    name,
		Symbol:                  env.GetString("VAULT_SYMBOL"),
		Admin:                   admin,
		TokenSupplyIsPublic:     env.GetBool("VAULT_PUBLIC_TOKEN_SUPPLY"),
		OwnerIsPublic:           env.GetBool("VAULT_PUBLIC_OWNER"),
		SealedMetadataIsEnabled: env.GetBool("VAULT_ENABLE_SEALED_METADATA"),
		UnwrapToPrivate:         env.GetBool("VAULT_UNWRAPPED_METADATA_IS_PRIVATE"),
		MinterMayUpdateMetadata: env.GetBool("VAULT_MINTER_MAY_UPDATE_METADATA"),
		OwnerMayUpdateMetadata:  env.GetBool("VAULT_OWNER_MAY_UPDATE_METADATA"),
		BurnIsEnabled:           env.GetBool("VAULT_ENABLE_BURN"),
	})
	if err != nil {
		panic(err)
	}
	logger.For(nil).Infof("instantiated registry %q with admin %s", name, admin)
}
