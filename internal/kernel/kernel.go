// Package kernel is the composition root: it wires repositories, services,
// listeners and transports around one database handle and builds the HTTP
// handler.
package kernel

import (
	"context"
	"net/http"
	"time"

	"github.com/graphql-go/graphql"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/inventory/app/bulk"
	"github.com/shashiranjanraj/inventory/app/controllers"
	appgraphql "github.com/shashiranjanraj/inventory/app/graphql"
	"github.com/shashiranjanraj/inventory/app/listeners"
	"github.com/shashiranjanraj/inventory/app/repositories"
	"github.com/shashiranjanraj/inventory/app/routes"
	"github.com/shashiranjanraj/inventory/app/services"
	"github.com/shashiranjanraj/inventory/config"
	"github.com/shashiranjanraj/inventory/pkg/cache"
	"github.com/shashiranjanraj/inventory/pkg/clock"
	"github.com/shashiranjanraj/inventory/pkg/event"
	gql "github.com/shashiranjanraj/inventory/pkg/graphql"
	"github.com/shashiranjanraj/inventory/pkg/logger"
	"github.com/shashiranjanraj/inventory/pkg/metrics"
	"github.com/shashiranjanraj/inventory/pkg/middleware"
	"github.com/shashiranjanraj/inventory/pkg/reqid"
	"github.com/shashiranjanraj/inventory/pkg/response"
	"github.com/shashiranjanraj/inventory/pkg/router"
	"github.com/shashiranjanraj/inventory/pkg/schedule"
	"github.com/shashiranjanraj/inventory/pkg/sse"
	"github.com/shashiranjanraj/inventory/pkg/storage"
	"github.com/shashiranjanraj/inventory/pkg/ws"
)

// Options overrides the defaults New picks from config.
type Options struct {
	Cache     cache.Store
	Clock     clock.Clock
	RateLimit int

	// ExportSchedule is a cron expression; when set together with
	// ExportDisk, Run writes a catalogue snapshot on that schedule.
	ExportSchedule string
	ExportDisk     storage.Disk
}

// Kernel holds the wired application.
type Kernel struct {
	DB       *gorm.DB
	Cache    cache.Store
	Events   *event.Dispatcher
	Hub      *ws.Hub
	Stream   *sse.Broker
	Jobs     *schedule.Scheduler
	Products *services.ProductService
	Users    *services.UserService

	rateLimit int
	schema    graphql.Schema
	router    *router.Router
}

// New wires the application around db. db is not touched until a request
// arrives, so a nil db is enough to inspect the route table.
func New(db *gorm.DB, opts Options) (*Kernel, error) {
	if opts.Cache == nil {
		opts.Cache = cache.NewMemoryStore()
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = config.RateLimit()
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}

	k := &Kernel{
		DB:        db,
		Cache:     opts.Cache,
		Events:    event.New(),
		Hub:       ws.NewHub(),
		Stream:    sse.NewBroker(),
		Jobs:      schedule.New(),
		rateLimit: opts.RateLimit,
	}
	k.Products = services.NewProductService(repositories.NewProductRepository(db), k.Cache, k.Events, opts.Clock)
	k.Users = services.NewUserService(repositories.NewUserRepository(db))

	listeners.Register(k.Events, k.Hub, k.Stream)

	if opts.ExportSchedule != "" && opts.ExportDisk != nil {
		disk, clk := opts.ExportDisk, opts.Clock
		err := k.Jobs.Cron(opts.ExportSchedule).Name("export").WithoutOverlapping().Run(func(ctx context.Context) error {
			now := clk.Now()
			n, err := bulk.Export(ctx, k.Products, disk, bulk.ExportPath(now), now)
			if err == nil {
				logger.Info("scheduled export written", "products", n)
			}
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	schema, err := appgraphql.NewSchema(k.Products)
	if err != nil {
		return nil, err
	}
	k.schema = schema
	k.router = k.buildRouter()
	return k, nil
}

// Run drives the websocket hub and scheduled jobs until ctx is done, then
// waits for pending event listeners.
func (k *Kernel) Run(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		k.Jobs.Start(ctx)
		close(done)
	}()
	k.Hub.Run(ctx)
	<-done
	k.Events.Wait()
}

func (k *Kernel) Handler() http.Handler { return k.router.Handler() }

func (k *Kernel) Routes() []router.RouteInfo { return k.router.Routes() }

func (k *Kernel) buildRouter() *router.Router {
	r := router.New()

	// Outermost first.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(k.rateLimit, time.Minute))

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/healthz", "health", k.health)
	r.Handle("/graphql", "graphql", gql.Handler(k.schema))
	r.Get("/ws/stock", "ws.stock", k.Hub.Handler())
	r.Get("/api/stock/stream", "stock.stream", k.Stream.Handler())

	routes.RegisterAPI(r, routes.Controllers{
		Products: controllers.NewProductController(k.Products),
		Users:    controllers.NewUserController(k.Users),
	})
	return r
}

func (k *Kernel) health(w http.ResponseWriter, r *http.Request) {
	if k.DB == nil {
		response.Error(w, http.StatusServiceUnavailable, "database not configured")
		return
	}
	sqlDB, err := k.DB.DB()
	if err == nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		response.Error(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	response.Success(w, map[string]interface{}{
		"status":     "ok",
		"ws_clients":  k.Hub.ClientCount(),
		"sse_clients": k.Stream.ClientCount(),
	})
}
