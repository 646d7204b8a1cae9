package main

import (
	"net/http"

	"github.com/joho/godotenv"

	authhandler "staywise/internal/auth/handler"
	authrepo "staywise/internal/auth/repository"
	authservice "staywise/internal/auth/service"
	bookinghandler "staywise/internal/bookings/handler"
	bookingrepo "staywise/internal/bookings/repository"
	bookingservice "staywise/internal/bookings/service"
	"staywise/internal/events"
	externalhandler "staywise/internal/externalbookings/handler"
	externalrepo "staywise/internal/externalbookings/repository"
	externalservice "staywise/internal/externalbookings/service"
	"staywise/internal/hotels"
	propertyhandler "staywise/internal/properties/handler"
	propertyrepo "staywise/internal/properties/repository"
	propertyservice "staywise/internal/properties/service"
	"staywise/pkg/app"
	"staywise/pkg/config"
	kafka_config "staywise/pkg/kafka/config"
	"staywise/pkg/token"
	"staywise/pkg/validation"
)

const ServiceName = "api"

func main() {
	// Missing .env is fine, the environment may already be populated.
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting StayWise API")

	codec := token.NewCodec(cfg.JWTSecret, cfg.TokenTTL)
	validator := validation.New()
	publisher := events.FromConfig(kafka_config.Load(), ServiceName, cfg.Log)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	}()

	userRepo := authrepo.NewMongoUserRepository(cfg)
	propertyRepo := propertyrepo.NewMongoPropertyRepository(cfg)
	bookingRepo := bookingrepo.NewMongoBookingRepository(cfg)
	externalRepo := externalrepo.NewMongoExternalBookingRepository(cfg)

	authSvc := authservice.NewAuthService(userRepo, codec, validator, cfg)
	propertySvc := propertyservice.NewPropertyService(propertyRepo, validator, cfg)
	bookingSvc := bookingservice.NewBookingService(bookingRepo, propertyRepo, userRepo, publisher, validator, cfg)
	externalSvc := externalservice.NewExternalBookingService(externalRepo, propertyRepo, userRepo, publisher, validator, cfg)

	searchClient := hotels.NewSearchClient(
		cfg.SerpAPIBaseURL,
		cfg.SerpAPIKey,
		&http.Client{Timeout: cfg.SearchTimeout},
		cfg.Log,
	)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		authhandler.NewAuthHandler(authSvc, cfg.Log),
		propertyhandler.NewPropertyHandler(propertySvc, codec, cfg.Log),
		bookinghandler.NewBookingHandler(bookingSvc, codec, cfg.Log),
		externalhandler.NewExternalBookingHandler(externalSvc, codec, cfg.Log),
		hotels.NewHandler(searchClient, cfg.Log),
	)
	serverApp.Run()
}
