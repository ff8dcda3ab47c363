package infra

import (
	"github.com/gofiber/fiber/v3"

	"github.com/bowenxiang/blockorder-bsc-service/internal/adapter/http"
)

func InitRoutes(server *fiber.App, handler *http.Handler) {
	server.Get("/health", http.Health)
	server.Get("/blocks/:number/ordering", handler.BlockOrdering)
	server.Get("/contract/values", handler.ContractValues)
}
