package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"plantswap-server/internal/middleware"
	"plantswap-server/internal/models"
	"plantswap-server/internal/utils"
)

// ImageStore is the slice of the image host the plant handler needs.
// A nil ImageStore means image upload is not configured.
type ImageStore interface {
	Upload(ctx context.Context, file io.Reader, publicID string) (string, error)
	Delete(ctx context.Context, publicID string) error
}

// errImageUpload marks a provider failure during plant creation so it
// can be told apart from a store failure after the rollback.
var errImageUpload = fmt.Errorf("image upload failed")

// PlantHandler handles plant ad requests.
type PlantHandler struct {
	DB     *gorm.DB
	Images ImageStore
}

// NewPlantHandler creates a new PlantHandler.
func NewPlantHandler(db *gorm.DB, images ImageStore) *PlantHandler {
	return &PlantHandler{DB: db, Images: images}
}

// CreatePlant handles creating a plant ad from multipart form data:
// name, optional description, optional city, repeated tags and an
// optional image file. The row insert and the image upload share one
// transaction, so a provider failure leaves no partially created ad.
func (h *PlantHandler) CreatePlant(c *gin.Context) {
	owner, ok := middleware.GetCurrentUser(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		utils.BadRequest(c, "Plant name is required.")
		return
	}

	plant := models.Plant{
		OwnerID: owner.ID,
		Name:    name,
		Tags:    nonEmptyTags(c.PostFormArray("tags")),
	}
	if description := c.PostForm("description"); description != "" {
		plant.Description = &description
	}
	if city := c.PostForm("city"); city != "" {
		plant.City = &city
	}

	fileHeader, err := c.FormFile("image")
	hasImage := err == nil && fileHeader != nil

	if hasImage && h.Images == nil {
		utils.BadRequest(c, "Image upload is not configured.")
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&plant).Error; err != nil {
			return err
		}
		if !hasImage {
			return nil
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fmt.Errorf("%w: %v", errImageUpload, err)
		}
		defer file.Close()

		// The plant id doubles as the asset's public id.
		url, err := h.Images.Upload(c.Request.Context(), file, plant.ID)
		if err != nil {
			return fmt.Errorf("%w: %v", errImageUpload, err)
		}
		plant.ImageURL = &url
		return tx.Model(&models.Plant{}).Where("id = ?", plant.ID).Update("image_url", url).Error
	})
	if err != nil {
		if errors.Is(err, errImageUpload) {
			log.Printf("Image upload failed for plant of user %s: %v", owner.ID, err)
			utils.BadGateway(c, "Failed to upload image.")
		} else {
			utils.InternalServerError(c, "Failed to create plant: "+err.Error())
		}
		return
	}

	utils.Created(c, "Plant ad created successfully", plant)
}

// GetPlants handles listing all plant ads, paginated in creation order.
func (h *PlantHandler) GetPlants(c *gin.Context) {
	skip, limit := paginationParams(c)

	plants := []models.Plant{}
	if err := h.DB.Order("created_at ASC").Order("id ASC").Offset(skip).Limit(limit).Find(&plants).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch plants: "+err.Error())
		return
	}

	utils.Success(c, "Plants fetched successfully", ListResponse{
		Data:  plants,
		Count: len(plants),
	})
}

// GetMyPlants handles listing the caller's own plant ads.
func (h *PlantHandler) GetMyPlants(c *gin.Context) {
	owner, ok := middleware.GetCurrentUser(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	skip, limit := paginationParams(c)

	plants := []models.Plant{}
	if err := h.DB.Where("owner_id = ?", owner.ID).
		Order("created_at ASC").Order("id ASC").
		Offset(skip).Limit(limit).
		Find(&plants).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch plants: "+err.Error())
		return
	}

	utils.Success(c, "Plants fetched successfully", ListResponse{
		Data:  plants,
		Count: len(plants),
	})
}

// GetPlantByID handles fetching a single plant ad.
func (h *PlantHandler) GetPlantByID(c *gin.Context) {
	plantID := c.Param("id")

	var plant models.Plant
	if err := h.DB.First(&plant, "id = ?", plantID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "No plant with the given id exists.")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Plant fetched successfully", plant)
}

// DeletePlant handles deleting a plant ad. Only the owner or a
// superuser may delete. The store cascades the deletion to every trade
// request referencing the plant and every message on those requests.
func (h *PlantHandler) DeletePlant(c *gin.Context) {
	caller, ok := middleware.GetCurrentUser(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	plantID := c.Param("id")

	var plant models.Plant
	if err := h.DB.First(&plant, "id = ?", plantID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "No plant with the given id exists.")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if !caller.IsSuperuser && plant.OwnerID != caller.ID {
		utils.Unauthorized(c, "You are not the owner of the plant.")
		return
	}

	if err := h.DB.Delete(&plant).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete plant: "+err.Error())
		return
	}

	// The hosted image is cleaned up outside the transaction; a provider
	// failure here leaves an orphaned asset, not an inconsistent store.
	if plant.ImageURL != nil && h.Images != nil {
		if err := h.Images.Delete(c.Request.Context(), plant.ID); err != nil {
			log.Printf("Failed to delete image for plant %s: %v", plant.ID, err)
		}
	}

	utils.Success(c, "Plant deleted successfully", plant)
}

func nonEmptyTags(tags []string) []string {
	filtered := make([]string, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			filtered = append(filtered, trimmed)
		}
	}
	return filtered
}
