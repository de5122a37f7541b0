package container

import (
	"log/slog"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/redis/go-redis/v9"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nestbay/api/internal/cache"
	"github.com/nestbay/api/internal/config"
	"github.com/nestbay/api/internal/models"
	"github.com/nestbay/api/internal/services"
)

const houseCacheTTL = 5 * time.Minute

// Container holds all application dependencies
type Container struct {
	Logger     *slog.Logger
	Cloudinary *cloudinary.Cloudinary
	// Database clients
	SupabaseClient *supabase.Client
	MongoDBClient  *mongo.Client
	RedisClient    *redis.Client

	UserService    *services.UserService
	HouseService   *services.HouseService
	BookingService *services.BookingService
	ReviewService  *services.ReviewService
	PaymentService *services.PaymentService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	logger *slog.Logger,
	cloudinary *cloudinary.Cloudinary,
	supabaseClient *supabase.Client,
	mongoDBClient *mongo.Client,
	redisClient *redis.Client,
	supaUrl, supaKey string,
	cfg *config.Config,
) *Container {
	// Initialize repositories
	supa := models.SupabaseNewRepo(supabaseClient, supaUrl, supaKey)
	store := models.MongodbNewRepo(mongoDBClient)
	houseCache := cache.NewHouseCache(redisClient, houseCacheTTL)

	hold := time.Duration(cfg.BookingHoldMinutes) * time.Minute

	userService := services.NewUserService(supa)
	houseService := services.NewHouseService(store, store, houseCache)
	bookingService := services.NewBookingService(store, store, hold)
	reviewService := services.NewReviewService(store, store)
	paymentService := services.NewPaymentService(
		cfg.StripeSecretKey,
		cfg.StripePublicKey,
		cfg.StripeWebhookSecret,
		cfg.BaseURL,
	)

	return &Container{
		Logger:         logger,
		Cloudinary:     cloudinary,
		SupabaseClient: supabaseClient,
		MongoDBClient:  mongoDBClient,
		RedisClient:    redisClient,
		UserService:    userService,
		HouseService:   houseService,
		BookingService: bookingService,
		ReviewService:  reviewService,
		PaymentService: paymentService,
	}
}
