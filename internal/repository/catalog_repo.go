package repository

import (
	"learnhub/internal/models"

	"gorm.io/gorm"
)

// CatalogRepository reads the purchasable items: published courses and
// active bundles. Prices returned here are the only prices the checkout
// flow trusts.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) GetCourse(id string) (*models.Course, error) {
	var c models.Course
	err := r.db.Where("id = ?", id).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CatalogRepository) ListPublishedCourses() ([]models.Course, error) {
	var courses []models.Course
	err := r.db.Where("is_published = ?", true).Order("created_at DESC").Find(&courses).Error
	return courses, err
}

func (r *CatalogRepository) GetBundle(id string) (*models.Bundle, error) {
	var b models.Bundle
	err := r.db.Preload("Courses", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	}).Preload("Courses.Course").Where("id = ?", id).First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *CatalogRepository) ListActiveBundles() ([]models.Bundle, error) {
	var bundles []models.Bundle
	err := r.db.Preload("Courses").Where("is_active = ?", true).Order("created_at DESC").Find(&bundles).Error
	return bundles, err
}

// GetBundleCourseIDs returns the ids of all courses a bundle fans out to,
// in bundle position order.
func (r *CatalogRepository) GetBundleCourseIDs(bundleID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.BundleCourse{}).
		Where("bundle_id = ?", bundleID).
		Order("position ASC").
		Pluck("course_id", &ids).Error
	return ids, err
}
