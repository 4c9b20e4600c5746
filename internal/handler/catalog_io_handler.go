package handler

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/resto-menu-api/internal/service"
	appErrors "github.com/noah-isme/resto-menu-api/pkg/errors"
	"github.com/noah-isme/resto-menu-api/pkg/response"
)

const maxImportBytes = 10 << 20

type catalogIOService interface {
	Export(ctx context.Context, tenantID string, format service.CatalogFormat) (*service.ExportFile, error)
	Import(ctx context.Context, tenantID string, format service.CatalogFormat, body io.Reader) (*service.ImportResult, error)
}

// CatalogIOHandler exports and imports the catalog.
type CatalogIOHandler struct {
	service catalogIOService
}

// NewCatalogIOHandler constructs handler.
func NewCatalogIOHandler(svc catalogIOService) *CatalogIOHandler {
	return &CatalogIOHandler{service: svc}
}

// Export godoc
// @Summary Export the catalog
// @Tags Catalog
// @Produce text/csv
// @Produce application/json
// @Produce application/pdf
// @Param format query string false "csv, json or pdf"
// @Success 200 {file} file
// @Router /catalog/export [get]
func (h *CatalogIOHandler) Export(c *gin.Context) {
	format, err := service.ParseCatalogFormat(c.Query("format"), true)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.service.Export(c.Request.Context(), tenantFromContext(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// Import godoc
// @Summary Import menu items
// @Description Accepts a multipart "file" field or a raw body. Unknown categories are created.
// @Tags Catalog
// @Accept text/csv
// @Accept application/json
// @Accept multipart/form-data
// @Produce json
// @Param format query string false "csv or json, inferred from the upload when omitted"
// @Success 200 {object} response.Envelope
// @Router /catalog/import [post]
func (h *CatalogIOHandler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)

	rawFormat := c.Query("format")
	var body io.Reader = c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("file")
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file is required"))
			return
		}
		f, err := header.Open()
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unable to read upload"))
			return
		}
		defer f.Close()
		body = f
		if rawFormat == "" && strings.HasSuffix(strings.ToLower(header.Filename), ".json") {
			rawFormat = string(service.CatalogFormatJSON)
		}
	} else if rawFormat == "" && c.ContentType() == "application/json" {
		rawFormat = string(service.CatalogFormatJSON)
	}

	format, err := service.ParseCatalogFormat(rawFormat, false)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.Import(c.Request.Context(), tenantFromContext(c), format, body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
