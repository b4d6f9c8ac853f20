package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/M7HZ/bright-clinic/cache"
	"github.com/M7HZ/bright-clinic/models"
	"gorm.io/gorm"
)

const (
	UserCacheExpiry = 7 * 24 * time.Hour
	lookupTimeout   = 5 * time.Second
)

// ErrNoRole is returned when an identity has no user_roles row.
var ErrNoRole = errors.New("no role row for user")

type UserRepository interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateIdentity(ctx context.Context, cred *models.Credential, profile *models.Profile, role *models.UserRole, doctor *models.Doctor) error
	GetCredentialByEmail(ctx context.Context, email string) (*models.Credential, error)
	GetRoleByUserID(ctx context.Context, userID string) (models.AppRole, error)
	GetProfileByUserID(ctx context.Context, userID string) (*models.Profile, error)
	GetProfilesByUserIDs(ctx context.Context, userIDs []string) (map[string]models.Profile, error)
	UpdatePassword(ctx context.Context, email, hashedPassword string) error
	DeleteUserCache(ctx context.Context, email string) error
}

type userRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewUserRepository(db *gorm.DB, cache *cache.Cache) UserRepository {
	return &userRepository{db: db, cache: cache}
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Credential{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

// CreateIdentity creates the credential, profile and role rows in one
// transaction; doctor is non-nil only for staff doctor signups. The role
// row is written exactly once here and never updated afterwards.
func (r *userRepository) CreateIdentity(ctx context.Context, cred *models.Credential, profile *models.Profile, role *models.UserRole, doctor *models.Doctor) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(cred).Error; err != nil {
			return fmt.Errorf("failed to create credential: %w", err)
		}
		if err := tx.Create(profile).Error; err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		if err := tx.Create(role).Error; err != nil {
			return fmt.Errorf("failed to create role row: %w", err)
		}
		if doctor != nil {
			if err := tx.Create(doctor).Error; err != nil {
				return fmt.Errorf("failed to create doctor record: %w", err)
			}
		}
		return nil
	})
}

func (r *userRepository) GetCredentialByEmail(ctx context.Context, email string) (*models.Credential, error) {
	var cred models.Credential
	err := r.db.WithContext(ctx).First(&cred, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}
	return &cred, nil
}

// GetRoleByUserID fetches the single role row for an identity. Returns
// ErrNoRole when the row is absent.
func (r *userRepository) GetRoleByUserID(ctx context.Context, userID string) (models.AppRole, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	cacheKey := "role_cache:" + userID
	var cached models.UserRole
	if err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil && cached.Role != "" {
		return cached.Role, nil
	} else if err != nil && err != cache.ErrMiss {
		log.Printf("Failed to get role from cache: %v", err)
	}

	var row models.UserRole
	err := r.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNoRole
		}
		return "", fmt.Errorf("failed to get role row: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, row, UserCacheExpiry); err != nil {
		log.Printf("Failed to set role in cache: %v", err)
	}
	return row.Role, nil
}

func (r *userRepository) GetProfileByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// GetProfilesByUserIDs fetches profiles for a set of identities in one
// query, keyed by user id. Ids without a profile are simply absent from
// the result.
func (r *userRepository) GetProfilesByUserIDs(ctx context.Context, userIDs []string) (map[string]models.Profile, error) {
	result := make(map[string]models.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	var profiles []models.Profile
	err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to batch-load profiles: %w", err)
	}
	for _, p := range profiles {
		result[p.UserID] = p
	}
	return result, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, email, hashedPassword string) error {
	res := r.db.WithContext(ctx).Model(&models.Credential{}).Where("email = ?", email).Update("password", hashedPassword)
	if res.Error != nil {
		return fmt.Errorf("failed to update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.New("user not found")
	}
	return r.DeleteUserCache(ctx, email)
}

func (r *userRepository) DeleteUserCache(ctx context.Context, email string) error {
	return r.cache.Delete(ctx, "user_cache:"+email)
}
