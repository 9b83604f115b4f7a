// Package routes wires the HTTP surface: controllers onto named routes.
package routes

import (
	"github.com/shashiranjanraj/vastra/app/controllers"
	appgraphql "github.com/shashiranjanraj/vastra/app/graphql"
	"github.com/shashiranjanraj/vastra/app/hub"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/ctx"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/middleware"
	"github.com/shashiranjanraj/vastra/pkg/rbac"
	"github.com/shashiranjanraj/vastra/pkg/router"
	"gorm.io/gorm"
)

// RegisterAPI mounts every endpoint. The hub is shared with the scheduler's
// heartbeat, so it arrives from the caller rather than being built here.
func RegisterAPI(r *router.Router, db *gorm.DB, h *hub.Hub) {
	users := repositories.NewUserRepository(db)
	products := repositories.NewProductRepository(db)
	carts := repositories.NewCartRepository(db)
	counters := repositories.NewCounterRepository(db)
	orders := repositories.NewOrderRepository(db)

	authSvc := services.NewAuthService(users)
	cartSvc := services.NewCartService(carts, products)
	orderSvc := services.NewOrderService(orders, h)
	checkoutSvc := services.NewCheckoutService(carts, counters, orders)

	authCtl := controllers.NewAuthController(authSvc)
	productCtl := controllers.NewProductController(products)
	cartCtl := controllers.NewCartController(cartSvc)
	orderCtl := controllers.NewOrderController(checkoutSvc, orderSvc)
	adminCtl := controllers.NewAdminOrderController(orderSvc)
	streamCtl := controllers.NewStreamController(h, orderSvc)

	api := r.Group("/api")

	// Public
	api.Post("/auth/register", "auth.register", ctx.Wrap(authCtl.Register))
	api.Post("/auth/login", "auth.login", ctx.Wrap(authCtl.Login))
	api.Get("/products", "products.index", ctx.Wrap(productCtl.Index))
	api.Get("/products/{id}", "products.show", ctx.Wrap(productCtl.Show))

	// Streaming: token arrives as ?token=, verified inside the handler so
	// an unauthorized result can be delivered over the stream itself.
	api.Get("/orders/stream", "orders.stream", ctx.Wrap(streamCtl.SSE))
	api.Get("/orders/stream/ws", "orders.stream.ws", ctx.Wrap(streamCtl.WS))

	// Authenticated
	authed := api.Group("", middleware.Auth)
	authed.Get("/cart", "cart.show", ctx.Wrap(cartCtl.Show))
	authed.Post("/cart/items", "cart.add", ctx.Wrap(cartCtl.AddItem))
	authed.Put("/cart/items/{itemId}", "cart.update", ctx.Wrap(cartCtl.UpdateItem))
	authed.Delete("/cart/items/{itemId}", "cart.remove", ctx.Wrap(cartCtl.RemoveItem))

	authed.Post("/orders/checkout", "orders.checkout", ctx.Wrap(orderCtl.Checkout))
	authed.Get("/orders", "orders.index", ctx.Wrap(orderCtl.Index))
	authed.Get("/orders/{idOrCode}", "orders.show", ctx.Wrap(orderCtl.Show))

	// Administrative
	admin := authed.Group("/admin", rbac.HasRole("admin"))
	admin.Get("/orders", "admin.orders.index", ctx.Wrap(adminCtl.Index))
	admin.Get("/orders/stats", "admin.orders.stats", ctx.Wrap(adminCtl.Stats))
	admin.Get("/orders/{idOrCode}", "admin.orders.show", ctx.Wrap(adminCtl.Show))
	admin.Put("/orders/{code}/status", "admin.orders.status", ctx.Wrap(adminCtl.UpdateStatus))

	gqlHandler, err := appgraphql.NewHandler(orderSvc)
	if err != nil {
		logger.Error("graphql schema build failed", "error", err)
	} else {
		admin.Post("/graphql", "admin.graphql", gqlHandler)
	}
}
