package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sajadkh/restaurant-panel/auth"
	"github.com/sajadkh/restaurant-panel/config"
	"github.com/sajadkh/restaurant-panel/database"
	"github.com/sajadkh/restaurant-panel/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	config.Init()

	if err := database.ConnectAndMigrate(config.DatabaseURL); err != nil {
		logrus.Panicf("failed to initialize database, error: %v", err)
	}
	logrus.Println("migration is successful")

	verifier := auth.NewClient(config.AuthBaseURL)
	svr := server.SetupRoutes(verifier)

	go func() {
		if err := svr.Run(config.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Panicf("server failed, error: %v", err)
		}
	}()
	logrus.Printf("listening on %s", config.ServerPort)

	<-done

	logrus.Info("shutting down...")
	if err := svr.Shutdown(shutdownTimeout); err != nil {
		logrus.WithError(err).Error("failed to stop server cleanly!")
	}
	if err := database.Shutdown(); err != nil {
		logrus.WithError(err).Error("failed to close database connection!")
	}
	logrus.Info("system is shut ..zzz")
}
