package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI      string
	MongoDatabase string

	ServerPort string

	JWTSecret string

	AccessTokenMaxAge int
	ResetTokenMaxAge  int

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string

	RedisURL string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	accessTokenMaxAge, err := strconv.Atoi(os.Getenv("ACCESS_TOKEN_MAX_AGE"))
	if err != nil || accessTokenMaxAge <= 0 {
		accessTokenMaxAge = 86400
	}

	resetTokenMaxAge, err := strconv.Atoi(os.Getenv("RESET_TOKEN_MAX_AGE"))
	if err != nil || resetTokenMaxAge <= 0 {
		resetTokenMaxAge = 900
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "5000"
	}

	mongoDatabase := os.Getenv("MONGO_DATABASE")
	if mongoDatabase == "" {
		mongoDatabase = "picstream"
	}

	return &Config{
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: mongoDatabase,

		ServerPort: serverPort,

		JWTSecret: os.Getenv("ACCESS_TOKEN_SECRET"),

		AccessTokenMaxAge: accessTokenMaxAge,
		ResetTokenMaxAge:  resetTokenMaxAge,

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicURL:       os.Getenv("R2_PUBLIC_URL"),

		RedisURL: os.Getenv("REDIS_URL"),
	}, nil
}
