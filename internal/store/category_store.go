package store

import (
	"errors"
	"strings"

	"taskboard-api/internal/models"

	"gorm.io/gorm"
)

// CategoryStore owns the flat category collection. Categories have no
// cross-entity side effects: deleting one leaves dangling ids on tasks.
type CategoryStore struct {
	db *gorm.DB
}

// NewCategoryStore creates a category store backed by db.
func NewCategoryStore(db *gorm.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// List returns all categories.
func (s *CategoryStore) List() ([]models.Category, error) {
	var categories []models.Category
	err := s.db.Order("name asc").Find(&categories).Error
	return categories, err
}

// Get returns one category by id.
func (s *CategoryStore) Get(id string) (models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Category{}, &NotFoundError{Kind: "category", ID: id}
		}
		return models.Category{}, err
	}
	return category, nil
}

// Add persists a new category, assigning an id if absent.
func (s *CategoryStore) Add(category models.Category) (models.Category, error) {
	if strings.TrimSpace(category.Name) == "" {
		return models.Category{}, &ValidationError{Msg: "category name is required"}
	}
	if category.ID == "" {
		category.ID = newID("cat")
	}
	if err := s.db.Create(&category).Error; err != nil {
		return models.Category{}, err
	}
	return category, nil
}

// Update replaces a category by id; returns NotFoundError if the id is absent.
func (s *CategoryStore) Update(category models.Category) (models.Category, error) {
	var existing models.Category
	if err := s.db.Where("id = ?", category.ID).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Category{}, &NotFoundError{Kind: "category", ID: category.ID}
		}
		return models.Category{}, err
	}
	category.Model = existing.Model
	if err := s.db.Save(&category).Error; err != nil {
		return models.Category{}, err
	}
	return category, nil
}

// Delete removes a category. Tasks referencing it keep the dangling id.
func (s *CategoryStore) Delete(id string) error {
	var category models.Category
	if err := s.db.Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Kind: "category", ID: id}
		}
		return err
	}
	return s.db.Delete(&category).Error
}
