package services

import (
	stderrors "errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
)

type userService struct {
	db *gorm.DB
}

// NewUserService creates a new user service instance.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// CreateUser registers a new user and provisions the default category set in
// the same transaction.
func (s *userService) CreateUser(email, password, firstName, lastName string) (*models.User, error) {
	log := logger.Get()

	var existing models.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, errors.ErrDuplicateEmail
	}
	if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	user := &models.User{
		Email:     email,
		Password:  string(hashed),
		FirstName: firstName,
		LastName:  lastName,
		IsActive:  true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		for _, name := range models.DefaultCategories {
			category := models.Category{UserID: user.ID, Name: name}
			if err := tx.Create(&category).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	log.Infow("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// GetUserByEmail retrieves a user by email address.
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by primary key.
func (s *userService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}
	return &user, nil
}

// VerifyPassword checks a plaintext password against the stored bcrypt hash.
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}

// StoreRefreshTokenHash persists the SHA-256 hash of the user's current
// refresh token and stamps the login time.
func (s *userService) StoreRefreshTokenHash(userID uint, tokenHash string) error {
	now := gorm.Expr("CURRENT_TIMESTAMP")
	err := s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"refresh_token_hash": tokenHash,
			"last_login_at":      now,
		}).Error
	if err != nil {
		return errors.Wrap(errors.ErrInternalServer, err)
	}
	return nil
}

// GetRefreshTokenHash returns the stored refresh token hash for a user.
func (s *userService) GetRefreshTokenHash(userID uint) (string, error) {
	var user models.User
	if err := s.db.Select("refresh_token_hash").First(&user, userID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return "", errors.ErrUserNotFound
		}
		return "", errors.Wrap(errors.ErrInternalServer, err)
	}
	return user.RefreshTokenHash, nil
}
