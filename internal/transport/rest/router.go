package rest

import (
	"database/sql"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/omp-platform/learning-backend/internal/auth"
	"github.com/omp-platform/learning-backend/internal/certificate"
	"github.com/omp-platform/learning-backend/internal/course"
	userdm "github.com/omp-platform/learning-backend/internal/core/datamodel/user"
	"github.com/omp-platform/learning-backend/internal/enrollment"
	"github.com/omp-platform/learning-backend/internal/mentor"
	"github.com/omp-platform/learning-backend/internal/payment"
	"github.com/omp-platform/learning-backend/internal/transport/middleware"
	"github.com/omp-platform/learning-backend/internal/transport/swagger"
	"github.com/omp-platform/learning-backend/internal/user"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth        *auth.Handler
	User        *user.Handler
	Course      *course.Handler
	Mentor      *mentor.Handler
	Payment     *payment.Handler
	Enrollment  *enrollment.Handler
	Certificate *certificate.Handler
}

// RegisterAllRoutes wires the API under /api/v1. Reads on the course and
// mentor catalogs are public; everything else sits behind the auth
// middleware, with admin and mentor writes behind a role guard.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, uploadDir string, allowedOrigins []string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Uploaded files (payment proofs, certificates)
	if uploadDir != "" {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(filepath.Clean(uploadDir))))
		router.Handle("/uploads/*", fileServer)
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/register", h.Auth.Register)
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Public catalog reads
		r.Get("/courses", h.Course.GetCourses)
		r.Get("/courses/{courseId}", h.Course.GetCourse)
		r.Get("/mentors", h.Mentor.GetMentors)
		r.Get("/mentors/{mentorId}", h.Mentor.GetMentor)

		// Protected routes
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			pr.Use(middleware.UserContext)

			pr.Get("/users/me", h.User.GetCurrentUser)
			pr.Patch("/users/me", h.User.UpdateCurrentUser)

			// Course and module management
			pr.Group(func(mr chi.Router) {
				mr.Use(h.Auth.RequireRole(userdm.RoleAdmin, userdm.RoleMentor))

				mr.Post("/courses", h.Course.CreateCourse)
				mr.Put("/courses/{courseId}", h.Course.UpdateCourse)
				mr.Delete("/courses/{courseId}", h.Course.DeleteCourse)

				mr.Post("/courses/{courseId}/modules", h.Course.AddModule)
				mr.Put("/courses/{courseId}/modules/{moduleId}", h.Course.UpdateModule)
				mr.Delete("/courses/{courseId}/modules/{moduleId}", h.Course.DeleteModule)
			})
			pr.Get("/courses/{courseId}/modules", h.Course.GetModules)

			// Mentor management (admin only)
			pr.Group(func(ar chi.Router) {
				ar.Use(h.Auth.RequireRole(userdm.RoleAdmin))

				ar.Post("/mentors", h.Mentor.CreateMentor)
				ar.Put("/mentors/{mentorId}", h.Mentor.UpdateMentor)
				ar.Delete("/mentors/{mentorId}", h.Mentor.DeleteMentor)
			})

			// User administration (admin only)
			pr.Route("/admin/users", func(ar chi.Router) {
				ar.Use(h.Auth.RequireRole(userdm.RoleAdmin))

				ar.Get("/", h.User.ListUsers)
				ar.Get("/stats", h.User.GetUserStats)
				ar.Get("/{userId}", h.User.GetUser)
				ar.Patch("/{userId}", h.User.UpdateUser)
				ar.Post("/{userId}/deactivate", h.User.DeactivateUser)
				ar.Post("/{userId}/reactivate", h.User.ReactivateUser)
			})

			// Payment flow
			pr.Route("/payment", func(pmr chi.Router) {
				pmr.Post("/initiate/{courseId}", h.Payment.InitiatePayment)
				pmr.Post("/razorpay/order", h.Payment.CreateOrder)
				pmr.Post("/razorpay/verify", h.Payment.VerifyPayment)
				pmr.Post("/free-enroll/{courseId}", h.Payment.FreeEnroll)
				pmr.Post("/complete/{paymentId}", h.Payment.CompletePayment)
				pmr.Get("/user/payments", h.Payment.GetUserPayments)
				pmr.Get("/check/{courseId}", h.Payment.CheckPaymentStatus)
			})

			// Student learning flow
			pr.Route("/student", func(sr chi.Router) {
				sr.Post("/enroll/{courseId}", h.Enrollment.Enroll)
				sr.Get("/my-courses", h.Enrollment.GetMyCourses)
				sr.Get("/courses/{courseId}/modules", h.Enrollment.GetModules)
				sr.Get("/courses/{courseId}/modules-with-status", h.Enrollment.GetModulesWithStatus)
				sr.Post("/courses/{courseId}/modules/{moduleId}/complete", h.Enrollment.MarkModuleComplete)
				sr.Get("/courses/{courseId}/progress", h.Enrollment.GetProgress)
				sr.Get("/courses/{courseId}/certificate", h.Certificate.GetCertificate)
				sr.Get("/courses/{courseId}/certificate/download", h.Certificate.DownloadCertificate)
			})
		})
	})
}
