package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/you/clinicgate/domain"
)

// demoPassword is shared by the demo accounts below. They exist for
// local development and platform demos only.
const demoPassword = "demo123"

func demoUsers() []*domain.User {
	now := time.Now()
	return []*domain.User{
		{
			ID:       "demo-patient-1",
			Email:    "patient@demo.com",
			Name:     "John Doe",
			Phone:    "+91 9876543210",
			Role:     domain.RolePatient,
			IsActive: true,
			Profile: map[string]any{
				"age":                35,
				"blood_group":        "O+",
				"allergies":          []string{"Penicillin"},
				"chronic_conditions": []string{"Hypertension"},
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:       "doc-001",
			Email:    "doctor@demo.com",
			Name:     "Dr. Priya Sharma",
			Phone:    "+91 9876543211",
			Role:     domain.RoleDoctor,
			IsActive: true,
			Profile: map[string]any{
				"specialty":        "Cardiology",
				"subspecialty":     "Interventional Cardiology",
				"experience_years": 15,
				"qualifications":   []string{"MBBS", "MD", "DM Cardiology"},
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:       "hospital-1",
			Email:    "admin@hospital.com",
			Name:     "City Hospital Admin",
			Phone:    "+91 9876543212",
			Role:     domain.RoleHospital,
			IsActive: true,
			Profile: map[string]any{
				"hospital_name": "City General Hospital",
				"hospital_id":   "CGH001",
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// SeedDemoUsers installs the demo accounts when the user table is
// empty. It is a no-op against a populated database.
func SeedDemoUsers(ctx context.Context, userRepo domain.UserRepository, passwordSvc domain.PasswordService, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	n, err := userRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if n > 0 {
		return nil
	}

	hash, err := passwordSvc.Hash(demoPassword)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	for _, user := range demoUsers() {
		user.PasswordHash = hash
		if err := userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", user.ID, err)
		}
	}
	log.Info("seeded demo users", zap.Int("count", len(demoUsers())))
	return nil
}
