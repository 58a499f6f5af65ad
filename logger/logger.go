package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

func init() {
	// Ensure the log directory exists.
	if err := os.MkdirAll("log/app", os.ModePerm); err != nil {
		fmt.Println("❌ Could not create log directory:", err)
	}

	fileName := fmt.Sprintf("log/app/app_%s.log", time.Now().Format("02-01-2006"))
	logFile, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		fmt.Println("❌ Could not open log file:", err)
	}
	multiWriter := io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(multiWriter)
	log.SetLevel(log.LevelInfo)
	log.Info("🚀 Logger initialized successfully!")
}

// Success logs a success message to both the log file and the console.
func Success(message string) {
	log.Info("✅ " + message)
}

// Error logs an error message with the underlying error.
func Error(message string, err error) {
	if err != nil {
		log.Errorf("❌ %s: %v", message, err)
		return
	}
	log.Error("❌ " + message)
}

// Warning logs a warning message.
func Warning(message string) {
	log.Warn("⚠️ " + message)
}

// Info logs an informational message.
func Info(message string) {
	log.Info("ℹ️ " + message)
}

// Debug logs a debug message.
func Debug(message string) {
	log.Debug("🐞 " + message)
}
