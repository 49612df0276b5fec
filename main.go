package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/studypilot/internal/database"
	"github.com/example/studypilot/internal/excel"
	"github.com/example/studypilot/internal/mastery"
	"github.com/example/studypilot/internal/notify"
	"github.com/example/studypilot/internal/quiz"
	"github.com/example/studypilot/internal/scheduler"
	"github.com/example/studypilot/pkg/models"
	"github.com/joho/godotenv"
)

func main() {
	importFile := flag.String("import", "", "import topic catalog and quiz bank from an xlsx/csv file, then exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if *importFile != "" {
		config := excel.DefaultImportConfig()
		config.FilePath = *importFile
		result, err := excel.ImportCatalog(config)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		log.Printf("Imported %d topic(s) and %d quiz(zes), %d error(s)",
			result.TopicsImported, result.QuizzesImported, len(result.Errors))
		for _, e := range result.Errors {
			log.Printf("  %s", e)
		}
		return
	}

	profile := models.Profile{
		Name:       os.Getenv("PROFILE_NAME"),
		Email:      os.Getenv("PROFILE_EMAIL"),
		TargetExam: os.Getenv("TARGET_EXAM"),
	}
	settings := models.DefaultNotificationSettings()

	store := mastery.New(database.NewMasteryRepository())

	dispatcher := notify.NewDispatcher(database.NewNotificationRepository(),
		func() models.NotificationSettings { return settings })

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		chatID := os.Getenv("TELEGRAM_CHAT_ID")
		channel, err := notify.NewTelegramChannel(token, chatID)
		if err != nil {
			log.Fatalf("Failed to create telegram channel: %v", err)
		}
		dispatcher.AddChannel(channel)
	}

	engine := quiz.New(database.NewQuizRepository(), store)
	engine.SetArchiver(database.NewAttemptRepository())
	engine.SetCompletionListener(dispatcher)

	schedEngine := scheduler.New(database.NewTopicRepository(), store, profile)
	sched := scheduler.NewScheduler(schedEngine, dispatcher)
	sched.Start()
	defer sched.Stop()

	log.Println("StudyPilot scheduler started. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("Received signal: %v, shutting down", sig)
}
