package main

import (
	"os"

	"github.com/yigit/alumnet/internal/pkg/logger"
)

// @title Alumnet Gateway API
// @version 1.0
// @description Dashboard feed and follow gateway for the alumni portal
// @termsOfService http://swagger.io/terms/

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("Application exited with error")
		os.Exit(1)
	}
}
