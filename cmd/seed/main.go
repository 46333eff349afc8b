package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"learning-hour/internal/config"
	"learning-hour/internal/database"
	"learning-hour/internal/domain"
	"learning-hour/internal/logger"
	"learning-hour/internal/repository"

	"go.uber.org/zap"
)

const seedFilePath = "config/seed_data/initial_modules.json"

type seedQuestion struct {
	Text               string   `json:"text"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correct_option_index"`
	Points             int      `json:"points"`
}

type seedModule struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	VideoURL    string         `json:"video_url"`
	Questions   []seedQuestion `json:"questions"`
}

type seedProfile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type seedData struct {
	Profiles []seedProfile `json:"profiles"`
	Modules  []seedModule  `json:"modules"`
}

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	log.Info("Starting initial data seeding process...")
	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		log.Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()

	byteValue, err := os.ReadFile(seedFilePath)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", seedFilePath), zap.Error(err))
	}

	var data seedData
	if err := json.Unmarshal(byteValue, &data); err != nil {
		log.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}
	log.Info("Seed data loaded",
		zap.Int("profiles", len(data.Profiles)),
		zap.Int("modules", len(data.Modules)))

	moduleRepo := repository.NewModuleDatabaseAdapter(db)
	profileRepo := repository.NewProfileDatabaseAdapter(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	for _, sp := range data.Profiles {
		existing, err := profileRepo.GetProfileByEmail(ctx, sp.Email)
		if err != nil {
			log.Error("Failed to look up profile", zap.String("email", sp.Email), zap.Error(err))
			continue
		}
		if existing != nil {
			log.Info("Profile already exists, skipping", zap.String("email", sp.Email))
			continue
		}
		profile := domain.NewProfile(sp.Email, sp.Name, domain.Role(sp.Role))
		if err := profileRepo.CreateProfile(ctx, profile); err != nil {
			log.Error("Failed to create profile", zap.String("email", sp.Email), zap.Error(err))
			continue
		}
		log.Info("Profile seeded", zap.String("email", sp.Email), zap.String("role", sp.Role))
	}

	for _, sm := range data.Modules {
		module := domain.NewModule(sm.Title, sm.Description, sm.VideoURL)
		questions := make([]domain.Question, 0, len(sm.Questions))
		for _, sq := range sm.Questions {
			questions = append(questions, domain.Question{
				Text:               sq.Text,
				Options:            sq.Options,
				CorrectOptionIndex: sq.CorrectOptionIndex,
				Points:             sq.Points,
			})
		}

		err := txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := moduleRepo.CreateModule(txCtx, module); err != nil {
				return err
			}
			return moduleRepo.ReplaceQuestions(txCtx, module.ID, questions)
		})
		if err != nil {
			log.Error("Failed to seed module", zap.String("title", sm.Title), zap.Error(err))
			continue
		}
		log.Info("Module seeded", zap.String("title", sm.Title), zap.Int("questions", len(questions)))
	}

	log.Info("Initial data seeding process completed.")
}
