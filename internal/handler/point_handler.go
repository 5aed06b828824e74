package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ColetaApp/coleta_api/internal/models"
	"github.com/ColetaApp/coleta_api/internal/repository"
)

// imageFormField is the multipart field carrying the optional point image.
const imageFormField = "image"

// PointStore is the persistence surface the point handler needs.
type PointStore interface {
	Create(ctx context.Context, point *models.Point, itemIDs []int64) error
	GetByID(ctx context.Context, id int64) (*models.Point, error)
	ItemTitlesByPoint(ctx context.Context, pointID int64) ([]string, error)
	List(ctx context.Context, city, uf string, itemIDs []int64) ([]models.Point, error)
}

// ImageStore persists one uploaded image and returns its stored filename.
type ImageStore interface {
	Save(src io.Reader, originalName string) (string, error)
}

// PointHandler handles collection point HTTP requests.
type PointHandler struct {
	points  PointStore
	images  ImageStore
	baseURL string
}

// NewPointHandler creates a new PointHandler. baseURL is the public prefix
// for stored images.
func NewPointHandler(points PointStore, images ImageStore, baseURL string) *PointHandler {
	return &PointHandler{points: points, images: images, baseURL: baseURL}
}

// CreatePoint handles POST /points. The request is a multipart form with the
// point fields, a comma-joined item id list and an optional image file. All
// field violations are collected into a single 400 response; the point row
// and its item rows are written in one transaction.
func (h *PointHandler) CreatePoint(c *gin.Context) {
	form := map[string]string{
		"name":      c.PostForm("name"),
		"email":     c.PostForm("email"),
		"whatsapp":  c.PostForm("whatsapp"),
		"latitude":  c.PostForm("latitude"),
		"longitude": c.PostForm("longitude"),
		"city":      c.PostForm("city"),
		"uf":        c.PostForm("uf"),
		"items":     c.PostForm("items"),
	}

	in, fieldErrs := parseCreatePoint(form)
	if fieldErrs != nil {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Message: "Validation failed.",
			Errors:  fieldErrs,
		})
		return
	}

	image, err := h.saveImage(c)
	if err != nil {
		log.Error().Err(err).Msg("image upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to store image."})
		return
	}

	point := &models.Point{
		Image:     image,
		Name:      in.Name,
		Email:     in.Email,
		Whatsapp:  in.Whatsapp,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		City:      in.City,
		UF:        in.UF,
	}

	if err := h.points.Create(c.Request.Context(), point, in.ItemIDs); err != nil {
		if errors.Is(err, repository.ErrUnknownItem) {
			c.JSON(http.StatusBadRequest, ValidationErrorResponse{
				Message: "Validation failed.",
				Errors:  []FieldError{{Field: "items", Message: "items contains an unknown item id"}},
			})
			return
		}
		log.Error().Err(err).Msg("point creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create point."})
		return
	}

	log.Info().Int64("point_id", point.ID).Str("city", point.City).Str("uf", point.UF).Msg("point created")
	c.JSON(http.StatusCreated, point.Serialize(h.baseURL))
}

// GetPoint handles GET /points/:id, returning the point and the titles of
// its accepted items.
func (h *PointHandler) GetPoint(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Point not found."})
		return
	}

	ctx := c.Request.Context()
	point, err := h.points.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Point not found."})
			return
		}
		log.Error().Err(err).Int64("point_id", id).Msg("point lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve point."})
		return
	}

	titles, err := h.points.ItemTitlesByPoint(ctx, id)
	if err != nil {
		log.Error().Err(err).Int64("point_id", id).Msg("point items lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve point."})
		return
	}

	items := make([]models.ItemTitleOnly, 0, len(titles))
	for _, title := range titles {
		items = append(items, models.ItemTitleOnly{Title: title})
	}

	c.JSON(http.StatusOK, models.PointDetailResponse{
		Point: point.Serialize(h.baseURL),
		Items: items,
	})
}

// ListPoints handles GET /points with optional city, uf and items filters.
func (h *PointHandler) ListPoints(c *gin.Context) {
	city := c.Query("city")
	uf := c.Query("uf")
	itemIDs := parseItemFilter(c.Query("items"))

	points, err := h.points.List(c.Request.Context(), city, uf, itemIDs)
	if err != nil {
		log.Error().Err(err).Msg("point listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve points."})
		return
	}

	response := make([]models.PointResponse, 0, len(points))
	for _, p := range points {
		response = append(response, p.Serialize(h.baseURL))
	}
	c.JSON(http.StatusOK, response)
}

// saveImage stores the optional uploaded image and returns its filename, or
// an empty string when the request carries no file.
func (h *PointHandler) saveImage(c *gin.Context) (string, error) {
	fileHeader, err := c.FormFile(imageFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", err
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	return h.images.Save(src, fileHeader.Filename)
}
