package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

type seedUser struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

type seedItem struct {
	OwnerEmail  string `yaml:"owner_email"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Available   bool   `yaml:"available"`
}

type SeedFile struct {
	Users []seedUser `yaml:"users"`
	Items []seedItem `yaml:"items"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		seedPath = flag.String("seed", "configs/seed.yaml", "path to seed.yaml")
		dbPath   = flag.String("db", "./data/shareit.db", "path to sqlite db")
	)
	flag.Parse()

	data, err := os.ReadFile(*seedPath)
	if err != nil {
		return fmt.Errorf("read seed: %w", err)
	}
	var seed SeedFile
	if err = yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parse seed: %w", err)
	}
	if len(seed.Users) == 0 {
		return fmt.Errorf("no users in yaml")
	}

	db, err := database.NewDB(*dbPath, &logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	owners := make(map[string]int64, len(seed.Users))
	usersCreated := 0
	for _, su := range seed.Users {
		key := strings.ToLower(su.Email)
		existing, err := db.GetUserByEmail(ctx, su.Email)
		switch {
		case err == nil:
			owners[key] = existing.ID
			continue
		case !errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("get user %s: %w", su.Email, err)
		}

		u := &models.User{Name: su.Name, Email: su.Email}
		if err = db.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("create user %s: %w", su.Email, err)
		}
		owners[key] = u.ID
		usersCreated++
	}

	itemsCreated := 0
	for _, si := range seed.Items {
		ownerID, ok := owners[strings.ToLower(si.OwnerEmail)]
		if !ok {
			return fmt.Errorf("item %s: unknown owner %s", si.Name, si.OwnerEmail)
		}

		owned, err := db.GetItemsByOwner(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("list items of %s: %w", si.OwnerEmail, err)
		}
		if hasItem(owned, si.Name) {
			continue
		}

		it := &models.Item{Name: si.Name, Description: si.Description, Available: si.Available, OwnerID: ownerID}
		if err = db.CreateItem(ctx, it); err != nil {
			return fmt.Errorf("create item %s: %w", si.Name, err)
		}
		itemsCreated++
	}

	logger.Info().
		Int("users_created", usersCreated).
		Int("items_created", itemsCreated).
		Str("db", *dbPath).
		Msg("seed completed")
	return nil
}

func hasItem(items []*models.Item, name string) bool {
	for _, it := range items {
		if strings.EqualFold(it.Name, name) {
			return true
		}
	}
	return false
}
