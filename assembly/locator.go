package assembly

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/txix-open/isp-kit/http/httpcli"
	"github.com/txix-open/isp-kit/json"
	"github.com/txix-open/isp-kit/log"
	"chat-gate-service/conf"
	"chat-gate-service/handler"
	"chat-gate-service/middleware"
	"chat-gate-service/repository"
	"chat-gate-service/service"
)

type Locator struct {
	logger log.Logger
	store  service.RateLimitStore
	cfg    conf.Local
}

func NewLocator(logger log.Logger, store service.RateLimitStore, cfg conf.Local) Locator {
	return Locator{
		logger: logger,
		store:  store,
		cfg:    cfg,
	}
}

func (l Locator) Handler() http.Handler {
	rateLimitService := service.NewRateLimit(l.store, l.cfg.RateLimit.MaxRequests, l.cfg.RateLimit.Window())
	completionApi := repository.NewOpenAi(httpcli.New(), l.cfg.Upstream)
	completionService := service.NewCompletion(completionApi)
	chat := handler.NewChat(completionService)

	pipeline := middleware.Chain(
		chat,
		middleware.RequestId(),
		middleware.Logger(l.logger, l.cfg.Logging.RequestLogEnable),
		middleware.ErrorHandler(l.logger),
		middleware.ClientIp(),
		middleware.RateLimit(rateLimitService, l.cfg.RateLimit.MaxRequests),
		middleware.Authenticate(l.cfg.ApiKey),
	)
	entrypoint := middleware.Entrypoint(
		l.cfg.MaxRequestBodySizeInMb*1024*1024, //nolint:gomnd
		pipeline,
		l.logger,
	)

	router := mux.NewRouter()
	router.Handle("/api/chat", entrypoint).Methods(http.MethodPost)
	router.HandleFunc("/health", health).Methods(http.MethodGet)
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	return router
}

func health(writer http.ResponseWriter, _ *http.Request) {
	writer.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(writer).Encode(map[string]string{"status": "ok"})
}

func methodNotAllowed(writer http.ResponseWriter, _ *http.Request) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(http.StatusMethodNotAllowed)
	_ = json.NewEncoder(writer).Encode(map[string]string{"error": "Method not allowed"})
}
