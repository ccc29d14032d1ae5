package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vitrinelabs/vitrine-backend/api/controllers"
	"github.com/vitrinelabs/vitrine-backend/api/middleware"
	addrsvc "github.com/vitrinelabs/vitrine-backend/internal/addresses"
	authsvc "github.com/vitrinelabs/vitrine-backend/internal/auth"
	cartsvc "github.com/vitrinelabs/vitrine-backend/internal/cart"
	catalogsvc "github.com/vitrinelabs/vitrine-backend/internal/catalog"
	checkoutsvc "github.com/vitrinelabs/vitrine-backend/internal/checkout"
	contentsvc "github.com/vitrinelabs/vitrine-backend/internal/content"
	couponsvc "github.com/vitrinelabs/vitrine-backend/internal/coupons"
	deliverysvc "github.com/vitrinelabs/vitrine-backend/internal/delivery"
	notificationsvc "github.com/vitrinelabs/vitrine-backend/internal/notifications"
	ordersvc "github.com/vitrinelabs/vitrine-backend/internal/orders"
	productsvc "github.com/vitrinelabs/vitrine-backend/internal/products"
	usersvc "github.com/vitrinelabs/vitrine-backend/internal/users"
	"github.com/vitrinelabs/vitrine-backend/pkg/auth/session"
	"github.com/vitrinelabs/vitrine-backend/pkg/config"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
	"github.com/vitrinelabs/vitrine-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Services groups the wired business services the API exposes.
type Services struct {
	Auth          authsvc.Service
	Addresses     addrsvc.Service
	Products      productsvc.Service
	Catalog       catalogsvc.Service
	Content       contentsvc.Service
	Delivery      deliverysvc.Service
	Coupons       couponsvc.Service
	Cart          cartsvc.Service
	Checkout      checkoutsvc.Service
	Orders        ordersvc.Service
	Notifications notificationsvc.Service
	Users         usersvc.Service
}

// Pingers names the datasources the readiness probe checks. Nil entries are
// skipped.
type Pingers struct {
	DB     pinger
	Redis  pinger
	PubSub pinger
}

// NewRouter assembles the full HTTP surface: public storefront reads, the
// authenticated buyer API, and the admin back office.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	sessions sessionManager,
	svcs Services,
	pings Pingers,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": pings.DB,
			"redis":    pings.Redis,
			"pubsub":   pings.PubSub,
		}))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/public/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", controllers.CatalogProducts(svcs.Products, logg))
			r.Get("/products/{slug}", controllers.CatalogProductDetail(svcs.Products, logg))
			r.Get("/categories", controllers.CatalogCategories(svcs.Catalog, logg))
			r.Get("/brands", controllers.CatalogBrands(svcs.Catalog, logg))
		})
		r.Route("/content", func(r chi.Router) {
			r.Get("/banners", controllers.CatalogBanners(svcs.Content, logg))
			r.Get("/faqs", controllers.CatalogFAQs(svcs.Content, logg))
			r.Get("/instagram", controllers.CatalogInstagramPosts(svcs.Content, logg))
		})
		r.Route("/delivery", func(r chi.Router) {
			r.Get("/options", controllers.CatalogDeliveryOptions(svcs.Delivery, logg))
			r.Get("/pickup-locations", controllers.CatalogPickupLocations(svcs.Delivery, logg))
		})
		r.Get("/address/lookup", controllers.AddressLookup(svcs.Addresses, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.With(
			middleware.AuthRateLimit(registerPolicy, redisClient, logg),
			middleware.Idempotency(redisClient, logg),
		).Post("/register", controllers.AuthRegister(svcs.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/me/address", func(r chi.Router) {
			r.Get("/", controllers.AddressFetch(svcs.Addresses, logg))
			r.Put("/", controllers.AddressUpdate(svcs.Addresses, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(svcs.Cart, logg))
			r.Put("/", controllers.CartSetItem(svcs.Cart, logg))
			r.Delete("/", controllers.CartClear(svcs.Cart, logg))
			r.Post("/coupon", controllers.CartApplyCoupon(svcs.Cart, logg))
			r.Delete("/coupon", controllers.CartRemoveCoupon(svcs.Cart, logg))
		})

		r.Get("/shipping/quote", controllers.ShippingQuote(svcs.Checkout, logg))
		r.Post("/checkout", controllers.Checkout(svcs.Checkout, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(svcs.Orders, logg))
			r.Post("/{orderId}/cancel", controllers.OrderCancel(svcs.Orders, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
			r.Get("/unread-count", controllers.NotificationUnreadCount(svcs.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminListProducts(svcs.Products, logg))
			r.Post("/", controllers.AdminCreateProduct(svcs.Products, logg))
			r.Get("/{productId}", controllers.AdminGetProduct(svcs.Products, logg))
			r.Patch("/{productId}", controllers.AdminUpdateProduct(svcs.Products, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(svcs.Products, logg))
			r.Post("/{productId}/variants", controllers.AdminCreateVariant(svcs.Products, logg))
			r.Patch("/{productId}/variants/{variantId}", controllers.AdminUpdateVariant(svcs.Products, logg))
			r.Delete("/{productId}/variants/{variantId}", controllers.AdminDeleteVariant(svcs.Products, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.AdminListCategories(svcs.Catalog, logg))
			r.Post("/", controllers.AdminCreateCategory(svcs.Catalog, logg))
			r.Patch("/{categoryId}", controllers.AdminUpdateCategory(svcs.Catalog, logg))
			r.Delete("/{categoryId}", controllers.AdminDeleteCategory(svcs.Catalog, logg))
		})

		r.Route("/brands", func(r chi.Router) {
			r.Get("/", controllers.AdminListBrands(svcs.Catalog, logg))
			r.Post("/", controllers.AdminCreateBrand(svcs.Catalog, logg))
			r.Patch("/{brandId}", controllers.AdminUpdateBrand(svcs.Catalog, logg))
			r.Delete("/{brandId}", controllers.AdminDeleteBrand(svcs.Catalog, logg))
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", controllers.AdminListCoupons(svcs.Coupons, logg))
			r.Post("/", controllers.AdminCreateCoupon(svcs.Coupons, logg))
			r.Patch("/{couponId}", controllers.AdminUpdateCoupon(svcs.Coupons, logg))
			r.Delete("/{couponId}", controllers.AdminDeleteCoupon(svcs.Coupons, logg))
		})

		r.Route("/banners", func(r chi.Router) {
			r.Get("/", controllers.AdminListBanners(svcs.Content, logg))
			r.Post("/", controllers.AdminCreateBanner(svcs.Content, logg))
			r.Patch("/{bannerId}", controllers.AdminUpdateBanner(svcs.Content, logg))
			r.Delete("/{bannerId}", controllers.AdminDeleteBanner(svcs.Content, logg))
		})

		r.Route("/faqs", func(r chi.Router) {
			r.Get("/", controllers.AdminListFAQs(svcs.Content, logg))
			r.Post("/", controllers.AdminCreateFAQ(svcs.Content, logg))
			r.Patch("/{faqId}", controllers.AdminUpdateFAQ(svcs.Content, logg))
			r.Delete("/{faqId}", controllers.AdminDeleteFAQ(svcs.Content, logg))
		})

		r.Route("/instagram-posts", func(r chi.Router) {
			r.Get("/", controllers.AdminListInstagramPosts(svcs.Content, logg))
			r.Post("/", controllers.AdminCreateInstagramPost(svcs.Content, logg))
			r.Patch("/{postId}", controllers.AdminUpdateInstagramPost(svcs.Content, logg))
			r.Delete("/{postId}", controllers.AdminDeleteInstagramPost(svcs.Content, logg))
		})

		r.Route("/delivery-options", func(r chi.Router) {
			r.Get("/", controllers.AdminListDeliveryOptions(svcs.Delivery, logg))
			r.Post("/", controllers.AdminCreateDeliveryOption(svcs.Delivery, logg))
			r.Patch("/{optionId}", controllers.AdminUpdateDeliveryOption(svcs.Delivery, logg))
			r.Delete("/{optionId}", controllers.AdminDeleteDeliveryOption(svcs.Delivery, logg))
		})

		r.Route("/pickup-locations", func(r chi.Router) {
			r.Get("/", controllers.AdminListPickupLocations(svcs.Delivery, logg))
			r.Post("/", controllers.AdminCreatePickupLocation(svcs.Delivery, logg))
			r.Patch("/{locationId}", controllers.AdminUpdatePickupLocation(svcs.Delivery, logg))
			r.Delete("/{locationId}", controllers.AdminDeletePickupLocation(svcs.Delivery, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.AdminGetOrder(svcs.Orders, logg))
			r.Post("/{orderId}/status", controllers.AdminUpdateOrderStatus(svcs.Orders, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminListUsers(svcs.Users, logg))
			r.Get("/{userId}", controllers.AdminGetUser(svcs.Users, logg))
			r.Post("/{userId}/active", controllers.AdminSetUserActive(svcs.Users, logg))
			r.Post("/{userId}/role", controllers.AdminSetUserRole(svcs.Users, logg))
		})
	})

	return r
}
