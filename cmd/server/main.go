package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/stripe/stripe-go/v82"

	"github.com/parkhub/parkhub-backend/internal/api"
	"github.com/parkhub/parkhub-backend/internal/auth"
	"github.com/parkhub/parkhub-backend/internal/cache"
	"github.com/parkhub/parkhub-backend/internal/db"
	"github.com/parkhub/parkhub-backend/internal/repository"
	"github.com/parkhub/parkhub-backend/internal/service"
)

func main() {
	godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	database, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := database.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	var redisClient *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
	}

	userRepo := repository.NewUserRepository(database)
	slotRepo := repository.NewSlotRepository(database)
	bookingRepo := repository.NewBookingRepository(database)
	tierRepo := repository.NewTierRepository(database)
	paymentRepo := repository.NewPaymentRepository(database)
	jobRepo := repository.NewJobRepository(database)

	authSvc := service.NewAuthService(userRepo)
	pricingSvc := service.NewPricingService(tierRepo, cache.NewTierCache(redisClient))
	senderSvc := service.NewSenderService()
	bookingSvc := service.NewBookingService(bookingRepo, slotRepo, userRepo, pricingSvc, senderSvc)
	paymentSvc := service.NewPaymentService(paymentRepo, bookingRepo, service.NewStripeService(), bookingSvc)
	slotSvc := service.NewSlotService(slotRepo)
	adminSvc := service.NewAdminService(userRepo, slotRepo, bookingRepo, paymentRepo)
	jobSvc := service.NewJobService(jobRepo)

	authHandler := api.NewAuthHandler(authSvc)
	pricingHandler := api.NewPricingHandler(pricingSvc)
	slotHandler := api.NewSlotHandler(slotSvc)
	bookingHandler := api.NewBookingHandler(bookingSvc)
	paymentHandler := api.NewPaymentHandler(paymentSvc, userRepo)
	attendantHandler := api.NewAttendantHandler(bookingSvc, slotSvc)
	adminHandler := api.NewAdminHandler(adminSvc, bookingSvc, slotSvc, pricingSvc, paymentSvc)
	webhookHandler := api.NewStripeWebhookHandler(os.Getenv("STRIPE_WEBHOOK_SECRET"), paymentSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/slots", slotHandler.ListSlots).Methods("GET")
	r.HandleFunc("/api/pricing/quote", pricingHandler.Quote).Methods("POST")
	r.HandleFunc("/api/webhooks/stripe", webhookHandler.HandleWebhook).Methods("POST")

	// Authenticated user endpoints
	user := r.PathPrefix("/api").Subrouter()
	user.Use(auth.Middleware)
	user.HandleFunc("/bookings", bookingHandler.CreateBooking).Methods("POST")
	user.HandleFunc("/bookings", bookingHandler.ListMyBookings).Methods("GET")
	user.HandleFunc("/bookings/{code}", bookingHandler.GetBooking).Methods("GET")
	user.HandleFunc("/bookings/{code}", bookingHandler.CancelBooking).Methods("DELETE")
	user.HandleFunc("/payments", paymentHandler.CreatePayment).Methods("POST")
	user.HandleFunc("/payments", paymentHandler.ListMyPayments).Methods("GET")
	user.HandleFunc("/payments/{id}", paymentHandler.GetPayment).Methods("GET")

	// Attendant endpoints (protected)
	attendant := r.PathPrefix("/attendant").Subrouter()
	attendant.Use(auth.Middleware, auth.RequireRole(db.RoleAttendant))
	attendant.HandleFunc("/bookings/today", attendantHandler.TodayBookings).Methods("GET")
	attendant.HandleFunc("/bookings/{code}/check-in", attendantHandler.CheckIn).Methods("POST")
	attendant.HandleFunc("/bookings/{code}/check-out", attendantHandler.CheckOut).Methods("POST")
	attendant.HandleFunc("/slots/{id}/status", attendantHandler.UpdateSlotStatus).Methods("PUT")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.Middleware, auth.RequireRole(db.RoleAdmin))
	admin.HandleFunc("/dashboard", adminHandler.Dashboard).Methods("GET")
	admin.HandleFunc("/bookings", adminHandler.ListBookings).Methods("GET")
	admin.HandleFunc("/bookings/{id}", adminHandler.DeleteBooking).Methods("DELETE")
	admin.HandleFunc("/slots", adminHandler.CreateSlot).Methods("POST")
	admin.HandleFunc("/slots/{id}", adminHandler.UpdateSlot).Methods("PUT")
	admin.HandleFunc("/slots/{id}", adminHandler.DeleteSlot).Methods("DELETE")
	admin.HandleFunc("/pricing/tiers", adminHandler.ListTiers).Methods("GET")
	admin.HandleFunc("/pricing/tiers", adminHandler.CreateTier).Methods("POST")
	admin.HandleFunc("/pricing/tiers/{id}", adminHandler.UpdateTier).Methods("PUT")
	admin.HandleFunc("/pricing/tiers/{id}/active", adminHandler.SetTierActive).Methods("PUT")
	admin.HandleFunc("/pricing/tiers/{id}", adminHandler.DeleteTier).Methods("DELETE")
	admin.HandleFunc("/payments", adminHandler.ListPayments).Methods("GET")
	admin.HandleFunc("/payments/{id}/complete", adminHandler.MarkPaymentCompleted).Methods("POST")
	admin.HandleFunc("/payments/{id}/refund", adminHandler.RefundPayment).Methods("POST")
	admin.HandleFunc("/users", adminHandler.ListUsers).Methods("GET")
	admin.HandleFunc("/users/{id}/active", adminHandler.SetUserActive).Methods("PUT")

	c := cron.New()
	c.AddFunc("*/5 * * * *", func() {
		if err := jobSvc.CompleteFinishedBookings(); err != nil {
			log.Printf("Error completing finished bookings: %v", err)
		}
	})
	c.AddFunc("*/10 * * * *", func() {
		if err := jobSvc.ExpireStalePendingBookings(30 * time.Minute); err != nil {
			log.Printf("Error expiring stale pending bookings: %v", err)
		}
	})
	c.Start()
	defer c.Stop()

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{os.Getenv("FRONTEND_URL")}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handlers.LoggingHandler(os.Stdout, corsHandler)))
}
