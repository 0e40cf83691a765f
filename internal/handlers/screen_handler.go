package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-shortlister/internal/models"
	"alfredoptarigan/resume-shortlister/internal/services"
)

type ScreenHandler struct {
	screener     services.BatchScreener
	writer       services.ShortlistWriter
	uploadPath   string
	shortlistDir string
	maxFileSize  int64
	logger       *zap.Logger
}

func NewScreenHandler(
	screener services.BatchScreener,
	writer services.ShortlistWriter,
	uploadPath string,
	shortlistDir string,
	maxFileSize int64,
	logger *zap.Logger,
) *ScreenHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScreenHandler{
		screener:     screener,
		writer:       writer,
		uploadPath:   uploadPath,
		shortlistDir: shortlistDir,
		maxFileSize:  maxFileSize,
		logger:       logger,
	}
}

// HandleScreen handles POST /screen. The multipart form carries the criteria
// (skills, experience, education) and one or more "resumes" files; with save=true
// the shortlist is also written under the upload path.
func (h *ScreenHandler) HandleScreen(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	// Criteria are validated before any uploaded file is read.
	criteria, err := services.ParseCriteria(
		formSkills(form),
		formValue(form, "experience"),
		formValue(form, "education"),
	)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	files := form.File["resumes"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No resumes uploaded. Please upload one or more 'resumes' files (PDF or DOCX).",
		})
	}

	docs := make([]models.Document, 0, len(files))
	seen := make(map[string]struct{}, len(files))
	for _, file := range files {
		name := filepath.Base(file.Filename)
		// Shortlisted copies are stored by file name.
		if _, dup := seen[name]; dup {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("duplicate file name: %s", name),
			})
		}
		seen[name] = struct{}{}

		if file.Size > h.maxFileSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("%s is too large. Max size: %d bytes", file.Filename, h.maxFileSize),
			})
		}

		data, err := readUpload(file)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to read %s: %v", file.Filename, err),
			})
		}
		docs = append(docs, models.NewDocumentFromBytes(name, data))
	}

	ctx := c.UserContext()
	report, err := h.screener.Screen(ctx, services.NewMemorySource(docs), criteria)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	response := models.ScreenResponse{
		RunID:       report.RunID,
		Total:       len(report.Results),
		Shortlisted: nonNil(report.Shortlisted()),
		Rejected:    nonNil(report.Rejected()),
	}

	if save, _ := strconv.ParseBool(formValue(form, "save")); save && len(response.Shortlisted) > 0 {
		store := services.NewLocalStore(filepath.Join(h.uploadPath, report.RunID), h.shortlistDir)
		if err := h.writer.Write(ctx, store, report); err != nil {
			h.logger.Error("failed to save shortlist", zap.String("run_id", report.RunID), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to save shortlist",
			})
		}
		response.SavedTo = store.Location()
	}

	return c.JSON(response)
}

// formSkills accepts either repeated "skills" fields or one comma-separated value.
func formSkills(form *multipart.Form) []string {
	var skills []string
	for _, v := range form.Value["skills"] {
		skills = append(skills, services.SplitSkills(v)...)
	}
	return skills
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return io.ReadAll(src)
}

func nonNil(results []models.MatchResult) []models.MatchResult {
	if results == nil {
		return []models.MatchResult{}
	}
	return results
}
