package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/sajadkh/restaurant-panel/auth"
	"github.com/sajadkh/restaurant-panel/handlers"
	"github.com/sajadkh/restaurant-panel/middlewares"
	"github.com/sajadkh/restaurant-panel/models"
	"github.com/sajadkh/restaurant-panel/utils"
)

type Server struct {
	Router *mux.Router
	server *http.Server
}

const (
	readTimeout       = 5 * time.Minute
	readHeaderTimeout = 30 * time.Second
	writeTimeout      = 5 * time.Minute
)

func SetupRoutes(verifier auth.Verifier) *Server {
	router := mux.NewRouter()
	router.Use(middlewares.RequestLogger)

	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, utils.MsgMethodNotAllowed)
	})
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithError(w, http.StatusNotFound, "Not Found!")
	})

	// authed wraps a handler with token verification and an optional role guard;
	// ownership checks stay in the handlers.
	authed := func(h http.HandlerFunc, roles ...models.Role) http.Handler {
		var handler http.Handler = h
		if len(roles) > 0 {
			handler = middlewares.RequireRole(roles...)(handler)
		}
		return middlewares.Authenticate(verifier)(handler)
	}

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"alive": true}`)
	}).Methods("GET")

	router.HandleFunc("/", handlers.ListRestaurants).Methods("GET")
	router.Handle("/status/open", authed(handlers.OpenRestaurant, models.RoleRestaurant)).Methods("PUT")
	router.Handle("/status/close", authed(handlers.CloseRestaurant, models.RoleRestaurant)).Methods("PUT")

	router.HandleFunc("/{username}", handlers.GetRestaurant).Methods("GET")
	router.HandleFunc("/{username}/menu", handlers.GetMenu).Methods("GET")
	router.Handle("/{username}/menu", authed(handlers.AddMenuFoods, models.RoleRestaurant)).Methods("POST")
	router.Handle("/{username}/menu/foods/{foodId}", authed(handlers.UpdateFood, models.RoleRestaurant)).Methods("PUT")

	router.Handle("/{username}/order", authed(handlers.ListOrders, models.RoleRestaurant)).Methods("GET")
	router.Handle("/{username}/order", authed(handlers.CreateOrder, models.RoleInternal)).Methods("POST")
	// both the internal service and the owning restaurant may read an order;
	// the handler decides
	router.Handle("/{username}/order/{orderId}", authed(handlers.GetOrder)).Methods("GET")
	router.Handle("/{username}/order/{orderId}/deliver", authed(handlers.DeliverOrder, models.RoleRestaurant)).Methods("PUT")

	return &Server{
		Router: router,
	}
}

func (svr *Server) Run(port string) error {
	svr.server = &http.Server{
		Addr:              port,
		Handler:           svr.Router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}
	return svr.server.ListenAndServe()
}

func (svr *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return svr.server.Shutdown(ctx)
}
