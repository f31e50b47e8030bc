package database

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"sharehub/internal/domain"
	"sharehub/internal/models"
)

// SeedData is the demo data file loaded at server startup.
type SeedData struct {
	Users []SeedUser `yaml:"users"`
	Items []SeedItem `yaml:"items"`
}

type SeedUser struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

type SeedItem struct {
	OwnerEmail  string `yaml:"owner_email"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Available   bool   `yaml:"available"`
}

func LoadSeed(path string) (*SeedData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var seed SeedData
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &seed, nil
}

// ApplySeed inserts missing users and items. Re-running against a
// populated database is a no-op: users are matched by email, items by
// owner and name.
func (db *DB) ApplySeed(ctx context.Context, seed *SeedData) error {
	for _, su := range seed.Users {
		_, err := db.GetUserByEmail(ctx, su.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		user := &models.User{Name: su.Name, Email: su.Email}
		if err := db.CreateUser(ctx, user); err != nil {
			return err
		}
	}

	for _, si := range seed.Items {
		owner, err := db.GetUserByEmail(ctx, si.OwnerEmail)
		if err != nil {
			return fmt.Errorf("seed item %q: %w", si.Name, err)
		}

		existing, err := db.ListItemsByOwner(ctx, owner.ID, 0, 0)
		if err != nil {
			return err
		}
		if hasItemNamed(existing, si.Name) {
			continue
		}

		item := &models.Item{
			OwnerID:     owner.ID,
			Name:        si.Name,
			Description: si.Description,
			Available:   si.Available,
		}
		if err := db.CreateItem(ctx, item); err != nil {
			return err
		}
	}

	db.log.Info().Int("users", len(seed.Users)).Int("items", len(seed.Items)).Msg("seed applied")
	return nil
}

func hasItemNamed(items []models.Item, name string) bool {
	for _, item := range items {
		if item.Name == name {
			return true
		}
	}
	return false
}
