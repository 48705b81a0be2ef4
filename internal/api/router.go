package api

import (
	"expense-tracker/docs"
	"expense-tracker/internal/api/handlers"
	"expense-tracker/internal/dto"
	"expense-tracker/pkg/config"
	"expense-tracker/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func SetupRouter(
	txHandler *handlers.TransactionHandler,
	serverCfg config.ServerConfig,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  serverCfg.ReadTimeout,
		WriteTimeout: serverCfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(dto.ErrorResponse{
				Error: err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept," + middleware.HeaderRequestID,
	}))
	app.Use(middleware.RequestLogger(appLogger))

	// importing docs registers the OpenAPI document with swag in init()
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	transactions := app.Group("/transactions")
	transactions.Post("", txHandler.CreateTransaction)
	transactions.Get("", txHandler.ListTransactions)
	// Must stay ahead of "/:id" or "summary" would be taken as an id.
	transactions.Get("/summary", txHandler.GetSummary)
	transactions.Get("/:id", txHandler.GetTransaction)
	transactions.Put("/:id", txHandler.UpdateTransaction)
	transactions.Delete("/:id", txHandler.DeleteTransaction)

	return app
}
