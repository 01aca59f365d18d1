package menuControllers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/controllers"
	"github.com/junaidrashid-git/cafe-api/menu"
	"github.com/junaidrashid-git/cafe-api/models"
	"github.com/junaidrashid-git/cafe-api/repository"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GET /
func GetMenu(repo repository.Repository[models.Product], logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := repo.List(c.Request.Context())
		if err != nil {
			controllers.RespondError(c, logger, err, "Failed to fetch products")
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GET /menu/export
func ExportMenu(repo repository.Repository[models.Product], logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := repo.List(c.Request.Context())
		if err != nil {
			controllers.RespondError(c, logger, err, "Failed to fetch products")
			return
		}

		// rendered to a buffer so a failure can still answer with JSON
		var buf bytes.Buffer
		if err := menu.Export(&buf, products); err != nil {
			controllers.RespondError(c, logger, err, "Failed to write Excel file")
			return
		}

		c.Header("Content-Disposition", "attachment; filename=menu.xlsx")
		c.Header("Expires", "0")
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	}
}

// POST /menu/import
func ImportMenu(repo repository.Repository[models.Product], logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := header.Open()
		if err != nil {
			controllers.RespondError(c, logger, err, "Failed to open Excel file")
			return
		}
		defer file.Close()

		workbook, err := menu.OpenReaderAt(file, header.Size)
		if err != nil {
			controllers.RespondError(c, logger, err, "Failed to parse Excel file")
			return
		}

		res, err := menu.Import(c.Request.Context(), repo, workbook)
		if err != nil {
			controllers.RespondError(c, logger, err, "Failed to import menu")
			return
		}

		logger.Info("Menu imported",
			zap.Int("created", res.Created),
			zap.Int("updated", res.Updated),
			zap.Int("skipped", res.Skipped))
		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": res.Created,
			"updated_count": res.Updated,
			"skipped_count": res.Skipped,
		})
	}
}
