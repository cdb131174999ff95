package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"dentamart/internal/caching"
	"dentamart/internal/handlers"
	"dentamart/internal/jobs/background"
	"dentamart/internal/middleware"
	"dentamart/internal/models"
	"dentamart/internal/repositories"
	"dentamart/internal/services"
	"dentamart/pkg/database"
)

const version = "1.0.0"

func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(context.Background(), databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32)
		log.Printf("WARNING: Using generated JWT secret; tokens will not survive a restart")
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		if db, err := strconv.Atoi(raw); err == nil {
			redisDB = db
		}
	}
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin"
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin"
	}
	minioSvc, err := services.NewMinioService(minioEndpoint, minioAccessKey, minioSecretKey, os.Getenv("MINIO_USE_SSL") == "true")
	if err != nil {
		log.Fatalf("Failed to create MinIO client: %v", err)
	}
	for _, bucket := range []string{services.BucketReceipts, services.BucketProductImages, services.BucketPostImages} {
		if err := minioSvc.EnsureBucketExists(context.Background(), bucket); err != nil {
			log.Printf("WARN: could not ensure bucket %s: %v", bucket, err)
		}
	}

	stripeSvc := services.NewStripeService(os.Getenv("STRIPE_SECRET_KEY"))

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	clinicRepo := repositories.NewClinicRepository(pool)
	planRepo := repositories.NewPlanRepository(pool)
	couponRepo := repositories.NewCouponRepository(pool)
	paymentRepo := repositories.NewSubscriptionPaymentRepository(pool)
	supplierRepo := repositories.NewSupplierRepository(pool)
	settingRepo := repositories.NewCommissionSettingRepository(pool)
	invoiceRepo := repositories.NewCommissionInvoiceRepository(pool)
	productRepo := repositories.NewProductRepository(pool)
	orderRepo := repositories.NewOrderRepository(pool)
	orderItemRepo := repositories.NewOrderItemRepository(pool)
	postRepo := repositories.NewPostRepository(pool)
	notificationRepo := repositories.NewNotificationRepository(pool)

	// Services
	authSvc := services.NewAuthService(userRepo, jwtSecret, 24*time.Hour)
	directorySvc := services.NewDirectoryService(clinicRepo, cacheSvc)
	clinicSvc := services.NewClinicService(clinicRepo, cacheSvc)
	planSvc := services.NewPlanService(planRepo, couponRepo, cacheSvc)
	subscriptionSvc := services.NewSubscriptionService(pool, paymentRepo, planRepo, couponRepo, clinicRepo, notificationRepo, cacheSvc, stripeSvc)
	commissionSvc := services.NewCommissionService(supplierRepo, settingRepo, invoiceRepo, orderItemRepo)
	productSvc := services.NewProductService(productRepo, supplierRepo)
	orderSvc := services.NewOrderService(orderRepo, productRepo, supplierRepo, commissionSvc)
	communitySvc := services.NewCommunityService(postRepo, cacheSvc)
	notificationSvc := services.NewNotificationService(notificationRepo)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authSvc)
	clinicHandlers := handlers.NewClinicHandlers(clinicSvc, directorySvc)
	subscriptionHandlers := handlers.NewSubscriptionHandlers(subscriptionSvc, planSvc, minioSvc)
	commissionHandlers := handlers.NewCommissionHandlers(commissionSvc)
	planAdminHandlers := handlers.NewPlanAdminHandlers(planSvc)
	supplierHandlers := handlers.NewSupplierHandlers(supplierRepo)
	productHandlers := handlers.NewProductHandlers(productSvc, minioSvc)
	orderHandlers := handlers.NewOrderHandlers(orderSvc)
	communityHandlers := handlers.NewCommunityHandlers(communitySvc, minioSvc)
	notificationHandlers := handlers.NewNotificationHandlers(notificationSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, version)

	// Background jobs
	scheduler := background.NewJobScheduler(clinicSvc, invoiceRepo, notificationRepo)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer scheduler.Stop()

	e := echo.New()
	e.HideBanner = true

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/ready", healthHandlers.ReadyCheck)

	api := e.Group("/api")

	// Public surface
	api.POST("/auth/register", authHandlers.Register)
	api.POST("/auth/login", authHandlers.Login)
	api.GET("/clinics", clinicHandlers.Search)
	api.GET("/clinics/nearby", clinicHandlers.Nearby)
	api.GET("/clinics/:id", clinicHandlers.GetClinic)
	api.GET("/plans", subscriptionHandlers.ListPlans)
	api.GET("/products", productHandlers.SearchProducts)
	api.GET("/products/:id", productHandlers.GetProduct)
	api.GET("/suppliers", supplierHandlers.ListSuppliers)
	api.GET("/suppliers/:id", supplierHandlers.GetSupplier)

	// Authenticated surface
	authed := api.Group("")
	authed.Use(middleware.JWT(jwtSecret), middleware.PopulateUserContext())

	authed.POST("/coupons/validate", subscriptionHandlers.ValidateCoupon)
	authed.GET("/notifications", notificationHandlers.List)
	authed.PUT("/notifications/:id/read", notificationHandlers.MarkRead)
	authed.GET("/community/feed", communityHandlers.Feed)
	authed.POST("/community/posts", communityHandlers.CreatePost)
	authed.POST("/community/posts/:id/like", communityHandlers.LikePost)
	authed.DELETE("/community/posts/:id", communityHandlers.DeletePost)
	authed.GET("/clinics/:clinicId/orders", orderHandlers.ListClinicOrders)
	authed.GET("/suppliers/:supplierId/orders", orderHandlers.ListSupplierOrders)
	authed.GET("/orders/:id", orderHandlers.GetOrder)

	// Dentist surface
	doctor := authed.Group("/doctor")
	doctor.Use(middleware.RequireRole(models.RoleDentist))
	doctor.POST("/clinics", clinicHandlers.CreateClinic)
	doctor.PUT("/clinics/:id", clinicHandlers.UpdateClinic)
	doctor.POST("/subscribe", subscriptionHandlers.Subscribe)
	doctor.POST("/orders", orderHandlers.CreateOrder)

	// Supplier surface
	supplier := authed.Group("/supplier")
	supplier.Use(middleware.RequireRole(models.RoleSupplier, models.RoleAdmin))
	supplier.POST("/products", productHandlers.CreateProduct)
	supplier.PUT("/products/:id", productHandlers.UpdateProduct)
	supplier.POST("/products/:id/image", productHandlers.UploadProductImage)
	supplier.PUT("/orders/:id/status", orderHandlers.UpdateOrderStatus)

	// Admin review queue
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	authed.GET("/subscription-requests", subscriptionHandlers.ListPendingRequests, adminOnly)
	authed.POST("/subscription-requests/:id/approve", subscriptionHandlers.ApproveRequest, adminOnly)
	authed.POST("/subscription-requests/:id/reject", subscriptionHandlers.RejectRequest, adminOnly)

	// Admin surface
	admin := authed.Group("/admin")
	admin.Use(adminOnly)
	admin.POST("/plans", planAdminHandlers.CreatePlan)
	admin.PUT("/plans/:id", planAdminHandlers.UpdatePlan)
	admin.POST("/coupons", planAdminHandlers.CreateCoupon)
	admin.GET("/coupons", planAdminHandlers.ListCoupons)
	admin.PUT("/coupons/:id/active", planAdminHandlers.SetCouponActive)
	admin.POST("/suppliers", supplierHandlers.CreateSupplier)
	admin.PUT("/clinics/:id/active", clinicHandlers.SetClinicActive)

	// Platform-owner commission management
	owner := authed.Group("/owner")
	owner.Use(adminOnly)
	owner.PUT("/commission-management/suppliers/:supplierId/commission", commissionHandlers.UpdateSupplierCommission)
	owner.PUT("/commission-management/suppliers/:supplierId/union-endorsement", commissionHandlers.SetUnionEndorsement)
	owner.GET("/commission-management/suppliers/:supplierId/rate", commissionHandlers.GetEffectiveRate)
	owner.POST("/commission-invoices", commissionHandlers.GenerateInvoice)
	owner.GET("/commission-invoices/suppliers/:supplierId", commissionHandlers.ListInvoices)
	owner.POST("/commission-invoices/:id/pay", commissionHandlers.PayInvoice)
	owner.POST("/commission-invoices/:id/cancel", commissionHandlers.CancelInvoice)

	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	go func() {
		log.Printf("Dentamart server v%s starting on port %d", version, port)
		if err := e.Start(fmt.Sprintf(":%d", port)); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}
