package app

import (
	"strings"

	"github.com/testoloji/akademi-backend/internal/logger"
	"github.com/testoloji/akademi-backend/internal/utils"
)

type Config struct {
	JWTSecretKey string
	AllowOrigins []string
	RedisEnabled bool
}

func LoadConfig(log *logger.Logger) Config {
	origins := utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173", log)
	return Config{
		JWTSecretKey: utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		AllowOrigins: strings.Split(origins, ","),
		RedisEnabled: utils.GetEnv("REDIS_ADDR", "", log) != "",
	}
}
