package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/resto-menu-api/internal/service"
	"github.com/noah-isme/resto-menu-api/pkg/logger"
)

type catalogIOServiceMock struct {
	exportFormat service.CatalogFormat
	importFormat service.CatalogFormat
	imported     string
}

func (m *catalogIOServiceMock) Export(ctx context.Context, tenantID string, format service.CatalogFormat) (*service.ExportFile, error) {
	m.exportFormat = format
	return &service.ExportFile{Filename: "catalog-" + tenantID + ".csv", ContentType: "text/csv", Body: []byte("name\nBurger\n")}, nil
}

func (m *catalogIOServiceMock) Import(ctx context.Context, tenantID string, format service.CatalogFormat, body io.Reader) (*service.ImportResult, error) {
	m.importFormat = format
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	m.imported = string(data)
	return &service.ImportResult{Created: 1}, nil
}

func TestCatalogIOHandlerExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &catalogIOServiceMock{}
	handler := NewCatalogIOHandler(svc)

	c, w := newGinContext(http.MethodGet, "/catalog/export?format=pdf", nil)
	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.CatalogFormatPDF, svc.exportFormat)
	assert.Equal(t, `attachment; filename="catalog-tenant-1.csv"`, w.Header().Get("Content-Disposition"))

	c, w = newGinContext(http.MethodGet, "/catalog/export?format=xlsx", nil)
	handler.Export(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogIOHandlerImportRawJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &catalogIOServiceMock{}
	handler := NewCatalogIOHandler(svc)

	c, w := newGinContext(http.MethodPost, "/catalog/import", []byte(`[{"name":"Fries"}]`))
	handler.Import(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.CatalogFormatJSON, svc.importFormat)
	assert.Equal(t, `[{"name":"Fries"}]`, svc.imported)
}

func TestCatalogIOHandlerImportMultipartCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &catalogIOServiceMock{}
	handler := NewCatalogIOHandler(svc)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "menu.csv")
	require.NoError(t, err)
	_, _ = part.Write([]byte("name,category,price\nBurger,mains,12\n"))
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/catalog/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.Request = req
	c.Set(logger.TenantContextKey, "tenant-1")

	handler.Import(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.CatalogFormatCSV, svc.importFormat)
	assert.Contains(t, svc.imported, "Burger,mains,12")
	assert.Contains(t, w.Body.String(), `"created":1`)
}
