package handler

import (
	"errors"
	"log"
	"net/http"

	"learnhub/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CatalogHandler struct {
	catalogRepo *repository.CatalogRepository
}

func NewCatalogHandler(catalogRepo *repository.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{catalogRepo: catalogRepo}
}

func (h *CatalogHandler) ListCourses(c *gin.Context) {
	courses, err := h.catalogRepo.ListPublishedCourses()
	if err != nil {
		log.Printf("[catalog] list courses: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list courses"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

func (h *CatalogHandler) GetCourse(c *gin.Context) {
	course, err := h.catalogRepo.GetCourse(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
			return
		}
		log.Printf("[catalog] get course: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load course"})
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *CatalogHandler) ListBundles(c *gin.Context) {
	bundles, err := h.catalogRepo.ListActiveBundles()
	if err != nil {
		log.Printf("[catalog] list bundles: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bundles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bundles": bundles})
}

func (h *CatalogHandler) GetBundle(c *gin.Context) {
	bundle, err := h.catalogRepo.GetBundle(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "bundle not found"})
			return
		}
		log.Printf("[catalog] get bundle: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load bundle"})
		return
	}
	c.JSON(http.StatusOK, bundle)
}
