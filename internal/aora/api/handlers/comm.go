package handlers

import (
	"strconv"

	"aora_backend/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ConnectCheck check api connect start
// @Summary Check Aora service status
// @Tags Shared
// @Success 200 {string} string "aora service start!"
// @Router / [get]
func ConnectCheck(c *fiber.Ctx) error {
	return c.SendString("aora service start!")
}

// DebugLogFlag toggle debug log flag
// @Summary Toggle Debug Log Flag
// @Tags Shared
// @Param status query bool true "Debug status"
// @Router /debug [post]
func DebugLogFlag(c *fiber.Ctx) error {
	status, err := strconv.ParseBool(c.Query("status"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid status value")
	}

	logger.Log.SetDebugMode(status)
	return c.SendString("debug mode updated")
}
