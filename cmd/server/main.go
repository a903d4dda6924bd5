package main

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/VZENNN/hrvenomdashboard/internal/config"
	"github.com/VZENNN/hrvenomdashboard/internal/domain/fiber/handler"
	"github.com/VZENNN/hrvenomdashboard/internal/logger"
	"github.com/VZENNN/hrvenomdashboard/internal/middleware"
	"github.com/VZENNN/hrvenomdashboard/internal/model"
	"github.com/VZENNN/hrvenomdashboard/internal/repository"
	"github.com/VZENNN/hrvenomdashboard/internal/service"
	"github.com/VZENNN/hrvenomdashboard/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()
	zlog := logger.New(appConfig.LogLevel, appConfig.LogFormat)
	defer zlog.Sync()

	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError

			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}

			return ctx.Status(code).JSON(fiber.Map{"error": message})
		},
	})
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: appConfig.Env != "production",
	}))

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // 1
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.Env != "production"
		},
	}))
	app.Use(healthcheck.New())

	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	app.Use(middleware.RateLimiter(50, 1*time.Minute))
	app.Use(middleware.IdentityContext())

	db := ConnectDB(zlog)
	rdb := ConnectRedis()

	criterionRepo := repository.NewCriterionRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	sessions := repository.NewSessionStore(rdb)
	directory := service.NewDirectoryService()

	evaluationUC := usecase.NewEvaluationUsecase(evaluationRepo, criterionRepo, directory, zlog)
	assessmentUC := usecase.NewAssessmentUsecase(assessmentRepo, sessions, zlog)

	handler.NewEvaluationHandler(evaluationUC).RegisterRoutes(app)
	handler.NewAssessmentHandler(assessmentUC).RegisterRoutes(app)

	zlog.Info("server starting", zap.String("port", appConfig.Port))
	if err := app.Listen(appConfig.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func ConnectDB(zlog *zap.Logger) *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=Asia/Jakarta",
		dbConfig.Host,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Port,
		dbConfig.SSLMode,
	)

	// TranslateError maps the unique-key violations the engine leans on
	// (evaluation period, assessment result pair) to gorm.ErrDuplicatedKey.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		zlog.Fatal("could not connect to database", zap.Error(err))
	}
	pgDB, err := db.DB()
	if err != nil {
		zlog.Fatal("could not get database instance", zap.Error(err))
	}
	if appConfig.Env != "production" {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	// migrasi tabel
	err = db.AutoMigrate(
		&model.Criterion{},
		&model.Evaluation{},
		&model.EvaluationItem{},
		&model.AssessmentCategory{},
		&model.Question{},
		&model.AssessmentResult{},
	)
	if err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}
	return db
}

func ConnectRedis() *redis.Client {
	redisConfig := config.LoadRedisConfig()
	return redis.NewClient(&redis.Options{
		Addr:     redisConfig.Address,
		Password: redisConfig.Password,
		DB:       redisConfig.DB,
	})
}
