package httpserver

import (
	"net/http"
	"time"

	"dna-clinic-go/internal/config"
	userdomain "dna-clinic-go/internal/domain/user"
	"dna-clinic-go/internal/transport/httpserver/handler"
	"dna-clinic-go/internal/transport/httpserver/middleware"
	"dna-clinic-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, tokens middleware.TokenParser, imagesDir string, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.NewCORS(cfg.CORSOrigins))

	if imagesDir != "" {
		r.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(imagesDir))))
	}

	jwt := middleware.NewJWTAuth(tokens, log)
	limiter := middleware.NewIPRateLimiter(cfg.RateLimit.AuthPerMinute, cfg.RateLimit.AuthBurst, 10*time.Minute, log)

	staff := middleware.RequireRoles(userdomain.RoleStaff, userdomain.RoleManager, userdomain.RoleAdmin)
	managers := middleware.RequireRoles(userdomain.RoleManager, userdomain.RoleAdmin)
	admins := middleware.RequireRoles(userdomain.RoleAdmin)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Route("/auth", func(r chi.Router) {
			r.With(limiter.Middleware).Post("/login", handlers.Login)
			r.With(limiter.Middleware).Post("/register", handlers.Register)
			r.With(limiter.Middleware).Post("/google", handlers.LoginWithGoogle)
			r.With(jwt.Middleware).Post("/logout", handlers.Logout)
			r.With(jwt.Middleware).Get("/me", handlers.Me)
		})

		r.Route("/user", func(r chi.Router) {
			r.With(limiter.Middleware).Post("/forgot-password", handlers.ForgotPassword)
			r.With(limiter.Middleware).Post("/reset-password", handlers.ResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(jwt.Middleware)
				r.Get("/me", handlers.Me)
				r.Put("/profile", handlers.UpdateProfile)
				r.Post("/change-password", handlers.ChangePassword)
				r.Get("/{id}", handlers.GetUser)
				r.Post("/{id}/image", handlers.UploadUserImage)

				r.With(admins).Get("/", handlers.ListUsers)
				r.With(admins).Post("/", handlers.CreateUser)
				r.With(admins).Put("/{id}", handlers.UpdateUser)
				r.With(admins).Delete("/{id}", handlers.DeleteUser)
			})
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", handlers.ListServices)
			r.Get("/categories", handlers.ServiceCategories)
			r.Get("/{id}", handlers.GetService)

			r.Group(func(r chi.Router) {
				r.Use(jwt.Middleware, managers)
				r.Post("/", handlers.CreateService)
				r.Put("/{id}", handlers.UpdateService)
				r.Delete("/{id}", handlers.DeleteService)
				r.Delete("/{id}/cascade", handlers.DeleteServiceCascade)
			})
		})

		r.Route("/appointments", func(r chi.Router) {
			r.With(jwt.Optional).Post("/", handlers.CreateBooking)

			r.Group(func(r chi.Router) {
				r.Use(jwt.Middleware)
				r.Get("/mine", handlers.ListMyBookings)
				r.Get("/{id}", handlers.GetBooking)

				r.Group(func(r chi.Router) {
					r.Use(staff)
					r.Get("/", handlers.ListBookings)
					r.Get("/schedule", handlers.Schedule)
					r.Get("/by-service/{id}", handlers.ListBookingsByService)
					r.Put("/{id}", handlers.UpdateBooking)
					r.Patch("/{id}/status", handlers.UpdateBookingStatus)
					r.With(managers).Delete("/{id}", handlers.DeleteBooking)
				})
			})
		})

		r.Route("/kit", func(r chi.Router) {
			r.Use(jwt.Middleware)
			r.Get("/tracking", handlers.KitTracking)

			r.Group(func(r chi.Router) {
				r.Use(staff)
				r.Get("/", handlers.ListKits)
				r.Get("/collection", handlers.KitCollection)
				r.Get("/by-booking/{id}", handlers.GetKitByBooking)
				r.Get("/{id}", handlers.GetKit)
				r.Post("/", handlers.CreateKit)
				r.Put("/{id}", handlers.UpdateKit)
				r.Patch("/{id}/status", handlers.UpdateKitStatus)
				r.Delete("/{id}", handlers.DeleteKit)
			})
		})

		r.Route("/results", func(r chi.Router) {
			r.Use(jwt.Middleware)
			r.Get("/mine", handlers.ListMyResults)
			r.Get("/by-booking/{id}", handlers.ListResultsByBooking)
			r.Get("/{id}", handlers.GetResult)
			r.Get("/{id}/assessment", handlers.AssessResult)
			r.Get("/{id}/pdf", handlers.ResultPDF)

			r.Group(func(r chi.Router) {
				r.Use(staff)
				r.Get("/", handlers.ListResults)
				r.Post("/", handlers.CreateResult)
				r.Put("/{id}", handlers.UpdateResult)
				r.Delete("/{id}", handlers.DeleteResult)
			})
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Use(jwt.Middleware)
			r.Get("/by-booking/{id}", handlers.ListInvoicesByBooking)

			r.Group(func(r chi.Router) {
				r.Use(staff)
				r.Get("/", handlers.ListInvoices)
				r.Get("/{id}", handlers.GetInvoice)
				r.Post("/", handlers.CreateInvoice)
				r.Put("/{id}", handlers.UpdateInvoice)
				r.Delete("/{id}", handlers.DeleteInvoice)
			})
		})

		r.Route("/relatives", func(r chi.Router) {
			r.Use(jwt.Middleware)
			r.With(staff).Get("/", handlers.ListRelatives)
			r.Post("/", handlers.CreateRelative)
			r.Get("/by-booking/{id}", handlers.ListRelativesByBooking)
			r.Get("/by-user/{id}", handlers.ListRelativesByUser)
			r.Get("/{id}", handlers.GetRelative)
			r.Put("/{id}", handlers.UpdateRelative)
			r.Delete("/{id}", handlers.DeleteRelative)
		})

		r.Route("/feedbacks", func(r chi.Router) {
			r.Get("/", handlers.ListFeedbacks)
			r.Get("/by-service/{id}", handlers.ListFeedbacksByService)
			r.Get("/{id}", handlers.GetFeedback)

			r.Group(func(r chi.Router) {
				r.Use(jwt.Middleware)
				r.Post("/", handlers.CreateFeedback)
				r.Put("/{id}", handlers.UpdateFeedback)
				r.Delete("/{id}", handlers.DeleteFeedback)
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Use(jwt.Middleware)
			r.Get("/mine", handlers.ListMyNotifications)
			r.Post("/mark-read", handlers.MarkAllNotificationsRead)
			r.Patch("/{id}/mark-read", handlers.MarkNotificationRead)
			r.Get("/{id}", handlers.GetNotification)
			r.Delete("/{id}", handlers.DeleteNotification)

			r.Group(func(r chi.Router) {
				r.Use(staff)
				r.Get("/", handlers.ListNotifications)
				r.Post("/", handlers.CreateNotification)
				r.Put("/{id}", handlers.UpdateNotification)
			})
		})

		r.Route("/stats", func(r chi.Router) {
			r.Use(jwt.Middleware, managers)
			r.Get("/revenue", handlers.Revenue)
			r.Get("/revenue/monthly", handlers.MonthlyRevenue)
			r.Get("/revenue/compare", handlers.CompareRevenue)
			r.Get("/bookings", handlers.BookingsByStatus)
			r.Get("/top-services", handlers.TopServices)
		})

		r.Route("/courses", func(r chi.Router) {
			r.Get("/", handlers.ListCourses)
			r.Get("/{id}", handlers.GetCourse)

			r.Group(func(r chi.Router) {
				r.Use(jwt.Middleware, managers)
				r.Post("/", handlers.CreateCourse)
				r.Put("/{id}", handlers.UpdateCourse)
				r.Delete("/{id}", handlers.DeleteCourse)
			})
		})
	})

	return r
}
