package services

import (
	stderrors "errors"

	"gorm.io/gorm"

	"fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new category service instance.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a category for a user. Names are unique per user,
// so two users may each own a category with the same name.
func (s *categoryService) CreateCategory(userID uint, name string) (*models.Category, error) {
	var existing models.Category
	err := s.db.Where("user_id = ? AND name = ?", userID, name).First(&existing).Error
	if err == nil {
		return nil, errors.ErrDuplicateCategory
	}
	if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	category := &models.Category{UserID: userID, Name: name}
	if err := s.db.Create(category).Error; err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}
	return category, nil
}

// EnsureCategory returns the user's category with the given name, creating
// it first if it does not exist yet.
func (s *categoryService) EnsureCategory(userID uint, name string) (*models.Category, error) {
	var category models.Category
	err := s.db.Where("user_id = ? AND name = ?", userID, name).First(&category).Error
	if err == nil {
		return &category, nil
	}
	if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	category = models.Category{UserID: userID, Name: name}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}
	return &category, nil
}

// GetUserCategories returns a page of the user's categories ordered by name.
func (s *categoryService) GetUserCategories(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	page.Defaults()

	var categories []models.Category
	var total int64

	query := s.db.Model(&models.Category{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	err := query.Order("name ASC").Scopes(pagination.Paginate(page)).Find(&categories).Error
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}

	response := pagination.NewPageResponse(categories, page.Page, page.PageSize, total)
	return &response, nil
}

// GetCategoryByID retrieves one of the user's categories by primary key.
func (s *categoryService) GetCategoryByID(userID, categoryID uint) (*models.Category, error) {
	var category models.Category
	err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrCategoryNotFound
		}
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory renames one of the user's categories.
func (s *categoryService) UpdateCategory(userID, categoryID uint, name string) (*models.Category, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	if name != category.Name {
		var existing models.Category
		err := s.db.Where("user_id = ? AND name = ? AND id <> ?", userID, name, categoryID).
			First(&existing).Error
		if err == nil {
			return nil, errors.ErrDuplicateCategory
		}
		if !stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(errors.ErrInternalServer, err)
		}
	}

	category.Name = name
	if err := s.db.Save(category).Error; err != nil {
		return nil, errors.Wrap(errors.ErrInternalServer, err)
	}
	return category, nil
}

// DeleteCategory removes a category. Transactions referencing it are kept
// and detached, while budget limits on the category are removed with it.
func (s *categoryService) DeleteCategory(userID, categoryID uint) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Transaction{}).
			Where("user_id = ? AND category_id = ?", userID, categoryID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND category_id = ?", userID, categoryID).
			Delete(&models.BudgetLimit{}).Error; err != nil {
			return err
		}
		return tx.Delete(category).Error
	})
	if err != nil {
		return errors.Wrap(errors.ErrInternalServer, err)
	}

	logger.Get().Infow("category deleted", "user_id", userID, "category_id", categoryID)
	return nil
}
