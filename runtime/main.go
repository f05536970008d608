package main

import (
	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/perplexity-school/api/services"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	ctx, err := context.NewCtx(
		&services.DatabaseService{},
		&services.RedisService{},
		&services.MinIOService{},
		&services.JWTService{},
		&services.EmailService{},

		&services.AuthService{},
		&services.UserService{},
		&services.LessonService{},
		&services.NotesService{},
		&services.PromoService{},
		&services.QuizService{},
		&services.AdminService{},
		&services.MediaService{},

		&services.RateLimitService{},
		&services.MonitoringService{},
		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err)
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err)
		return
	}
}
