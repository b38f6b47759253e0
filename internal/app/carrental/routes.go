package carrental

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/car-rental/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/car-rental/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/car-rental/internal/http/handlers/auth/register"
	bookingcancel "github.com/magabrotheeeer/car-rental/internal/http/handlers/booking/cancel"
	bookingcreate "github.com/magabrotheeeer/car-rental/internal/http/handlers/booking/create"
	bookinglist "github.com/magabrotheeeer/car-rental/internal/http/handlers/booking/list"
	bookingmy "github.com/magabrotheeeer/car-rental/internal/http/handlers/booking/my"
	bookingread "github.com/magabrotheeeer/car-rental/internal/http/handlers/booking/read"
	bookingstatus "github.com/magabrotheeeer/car-rental/internal/http/handlers/booking/status"
	carcreate "github.com/magabrotheeeer/car-rental/internal/http/handlers/car/create"
	carfeatured "github.com/magabrotheeeer/car-rental/internal/http/handlers/car/featured"
	carread "github.com/magabrotheeeer/car-rental/internal/http/handlers/car/read"
	carremove "github.com/magabrotheeeer/car-rental/internal/http/handlers/car/remove"
	carsearch "github.com/magabrotheeeer/car-rental/internal/http/handlers/car/search"
	carupdate "github.com/magabrotheeeer/car-rental/internal/http/handlers/car/update"
	"github.com/magabrotheeeer/car-rental/internal/http/handlers/health"
	paymentcreate "github.com/magabrotheeeer/car-rental/internal/http/handlers/payment/create"
	paymentlist "github.com/magabrotheeeer/car-rental/internal/http/handlers/payment/list"
	paymentverify "github.com/magabrotheeeer/car-rental/internal/http/handlers/payment/verify"
	profileread "github.com/magabrotheeeer/car-rental/internal/http/handlers/profile/read"
	profileupdate "github.com/magabrotheeeer/car-rental/internal/http/handlers/profile/update"
	settingpublic "github.com/magabrotheeeer/car-rental/internal/http/handlers/setting/public"
	settingread "github.com/magabrotheeeer/car-rental/internal/http/handlers/setting/read"
	settingupdate "github.com/magabrotheeeer/car-rental/internal/http/handlers/setting/update"
	"github.com/magabrotheeeer/car-rental/internal/http/middlewarectx"
	"github.com/magabrotheeeer/car-rental/internal/http/response"
	"github.com/magabrotheeeer/car-rental/internal/lib/jwt"
	"github.com/magabrotheeeer/car-rental/internal/lib/metrics"
	"github.com/magabrotheeeer/car-rental/internal/models"
)

// AuthService регистрация, вход и профиль.
type AuthService interface {
	register.Service
	login.Service
	profileread.Service
	profileupdate.Service
}

// CarService каталог автомобилей.
type CarService interface {
	carsearch.Service
	carfeatured.Service
	carread.Service
	carcreate.Service
	carupdate.Service
	carremove.Service
}

// BookingService бронирования.
type BookingService interface {
	bookingcreate.Service
	bookingmy.Service
	bookingread.Service
	bookingstatus.Service
	bookingcancel.Service
	bookinglist.Service
}

// PaymentService платежи.
type PaymentService interface {
	paymentcreate.Service
	paymentverify.Service
	paymentlist.Service
}

// SettingService настройки компании.
type SettingService interface {
	settingpublic.Service
	settingread.Service
	settingupdate.Service
}

// Routes все, что нужно для сборки маршрутов.
type Routes struct {
	Log      *slog.Logger
	Auth     AuthService
	Cars     CarService
	Bookings BookingService
	Payments PaymentService
	Settings SettingService
	DB       health.Pinger

	// API проверяет токены обработчиков /api, Edge токены Session Gate.
	API  jwt.Verifier
	Edge jwt.Verifier

	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Pages    http.Handler

	CORSOrigins    []string
	CookieTTL      time.Duration
	SecureCookie   bool
	LoginRateLimit float64
	LoginRateBurst int
}

// Register регистрирует все маршруты приложения.
func (rt Routes) Register(r chi.Router) {
	log := rt.Log

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.Metrics(rt.Metrics),
		cors.Handler(cors.Options{
			AllowedOrigins:   rt.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
	)

	anyToken := middlewarectx.Authenticate(rt.API, log, middlewarectx.FromAny)
	bearerOnly := middlewarectx.Authenticate(rt.API, log, middlewarectx.FromBearer)
	admin := middlewarectx.RequireRole(models.RoleAdmin)
	limiter := middlewarectx.NewIPLimiter(rt.LoginRateLimit, rt.LoginRateBurst)

	r.Route("/api", func(r chi.Router) {
		// Промахи по /api тоже отвечают конвертом
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			response.NotFound(w, r, response.MsgNotFound)
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			response.Fail(w, r, http.StatusMethodNotAllowed, "Method not allowed", "")
		})

		// Открытые конечные точки
		r.Post("/auth/register", register.New(log, rt.Auth).ServeHTTP)
		r.With(middlewarectx.RateLimitMiddleware(limiter, log)).
			Post("/auth/login", login.New(log, rt.Auth, rt.CookieTTL, rt.SecureCookie).ServeHTTP)
		r.Post("/auth/logout", logout.New(rt.SecureCookie).ServeHTTP)

		r.Get("/cars/search", carsearch.New(log, rt.Cars).ServeHTTP)
		r.Get("/cars/featured", carfeatured.New(log, rt.Cars).ServeHTTP)
		r.Get("/cars/{id}", carread.New(log, rt.Cars).ServeHTTP)
		r.Get("/settings", settingpublic.New(log, rt.Settings).ServeHTTP)
		r.Get("/settings/public", settingpublic.New(log, rt.Settings).ServeHTTP)

		// Группа с аутентификацией по bearer или cookie
		r.Group(func(r chi.Router) {
			r.Use(anyToken)

			r.Get("/profile", profileread.New(log, rt.Auth).ServeHTTP)
			r.Put("/profile", profileupdate.New(log, rt.Auth).ServeHTTP)

			r.Post("/bookings", bookingcreate.New(log, rt.Bookings).ServeHTTP)
			r.Get("/bookings/my", bookingmy.New(log, rt.Bookings).ServeHTTP)
			r.Get("/bookings/{id}", bookingread.New(log, rt.Bookings).ServeHTTP)
			r.Put("/bookings/{id}/cancel", bookingcancel.New(log, rt.Bookings).ServeHTTP)

			r.Post("/payments", paymentcreate.New(log, rt.Payments).ServeHTTP)
			r.Get("/payments", paymentlist.New(log, rt.Payments).ServeHTTP)

			r.With(admin).Put("/bookings/{id}/status", bookingstatus.New(log, rt.Bookings).ServeHTTP)
			r.With(admin).Post("/payments/verify/{id}", paymentverify.New(log, rt.Payments).ServeHTTP)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(anyToken, admin)

				r.Post("/cars", carcreate.New(log, rt.Cars).ServeHTTP)
				r.Put("/cars/{id}", carupdate.New(log, rt.Cars).ServeHTTP)
				r.Delete("/cars/{id}", carremove.New(log, rt.Cars).ServeHTTP)

				r.Get("/bookings", bookinglist.New(log, rt.Bookings).ServeHTTP)
				r.Put("/bookings/{id}/status", bookingstatus.New(log, rt.Bookings).ServeHTTP)

				r.Get("/payments", paymentlist.New(log, rt.Payments).ServeHTTP)
				r.Put("/payments/{id}/verify", paymentverify.New(log, rt.Payments).ServeHTTP)
			})

			// Настройки принимают только bearer
			r.Group(func(r chi.Router) {
				r.Use(bearerOnly, admin)
				r.Get("/settings", settingread.New(log, rt.Settings).ServeHTTP)
				r.Put("/settings", settingupdate.New(log, rt.Settings).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(log, rt.DB).ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(rt.Gatherer, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)

	// Страницы UI за Session Gate
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.SessionGate(rt.Edge, log))
		r.Handle("/*", rt.Pages)
	})
}
