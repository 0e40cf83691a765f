package handlers

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-shortlister/internal/models"
	"alfredoptarigan/resume-shortlister/internal/services"
)

type ExtractHandler struct {
	extractor   services.DocumentExtractor
	maxFileSize int64
}

func NewExtractHandler(extractor services.DocumentExtractor, maxFileSize int64) *ExtractHandler {
	return &ExtractHandler{
		extractor:   extractor,
		maxFileSize: maxFileSize,
	}
}

// HandleExtract handles POST /extract and returns the raw text of one uploaded
// "resume" file, as the screener sees it before lowercasing.
func (h *ExtractHandler) HandleExtract(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume file is required",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	doc := models.NewDocument(filepath.Base(file.Filename))
	if !doc.Supported() {
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
			"error": fmt.Sprintf("unsupported file format: %s", doc.Filename),
		})
	}

	data, err := readUpload(file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to read %s: %v", file.Filename, err),
		})
	}

	text, err := h.extractor.ExtractText(models.NewDocumentFromBytes(doc.Filename, data))
	if err != nil {
		var extractErr *services.ExtractionError
		if errors.As(err, &extractErr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(models.ExtractResponse{
		Filename: doc.Filename,
		Format:   doc.Format,
		Text:     text,
	})
}
