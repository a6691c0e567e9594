package repositories

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/you/clinicgate/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags). The
// clinical profile payload is stored as a JSON column because its shape
// differs per role.
type DBUser struct {
	ID           string `gorm:"primaryKey;size:64"`
	Email        string `gorm:"uniqueIndex;size:255"`
	Phone        string `gorm:"index;size:32"`
	Name         string `gorm:"size:255"`
	PasswordHash string `gorm:"column:password"`
	Role         string `gorm:"index;size:32"`
	IsActive     bool   `gorm:"index"`
	Profile      string `gorm:"type:jsonb"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser, err := r.domainToDB(user)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(dbUser).Error
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser)
}

// FindByPhone implements domain.UserRepository
func (r *UserRepositoryImpl) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser)
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser)
}

// Update implements domain.UserRepository
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	dbUser, err := r.domainToDB(user)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(dbUser).Error
}

// Count implements domain.UserRepository
func (r *UserRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&DBUser{}).Count(&n).Error
	return n, err
}

func (r *UserRepositoryImpl) domainToDB(user *domain.User) (*DBUser, error) {
	profile := "{}"
	if len(user.Profile) > 0 {
		data, err := json.Marshal(user.Profile)
		if err != nil {
			return nil, err
		}
		profile = string(data)
	}
	return &DBUser{
		ID:           user.ID,
		Email:        user.Email,
		Phone:        user.Phone,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		Role:         user.Role.String(),
		IsActive:     user.IsActive,
		Profile:      profile,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}, nil
}

func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) (*domain.User, error) {
	role, err := domain.ParseRole(dbUser.Role)
	if err != nil {
		return nil, err
	}
	var profile map[string]any
	if dbUser.Profile != "" {
		if err := json.Unmarshal([]byte(dbUser.Profile), &profile); err != nil {
			return nil, err
		}
	}
	return &domain.User{
		ID:           dbUser.ID,
		Email:        dbUser.Email,
		Phone:        dbUser.Phone,
		Name:         dbUser.Name,
		PasswordHash: dbUser.PasswordHash,
		Role:         role,
		IsActive:     dbUser.IsActive,
		Profile:      profile,
		CreatedAt:    dbUser.CreatedAt,
		UpdatedAt:    dbUser.UpdatedAt,
	}, nil
}
