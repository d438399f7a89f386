package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var (
	ServerPort  string
	DatabaseURL string
	AuthBaseURL string
)

func Init() {
	if err := godotenv.Load(); err != nil {
		logrus.Warnf("no .env file loaded: %v", err)
	}

	ServerPort = os.Getenv("SERVER_PORT")
	if ServerPort == "" {
		ServerPort = ":8080"
	}

	DatabaseURL = os.Getenv("DB_URL")
	if DatabaseURL == "" {
		logrus.Fatal("DB_URL not set")
	}

	AuthBaseURL = os.Getenv("AUTH_BASE_URL")
	if AuthBaseURL == "" {
		logrus.Fatal("AUTH_BASE_URL not set")
	}
}
