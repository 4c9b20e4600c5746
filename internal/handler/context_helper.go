package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/resto-menu-api/internal/middleware"
	appErrors "github.com/noah-isme/resto-menu-api/pkg/errors"
	"github.com/noah-isme/resto-menu-api/pkg/response"
)

func tenantFromContext(c *gin.Context) string {
	return middleware.TenantID(c)
}

// bindJSON decodes the body and writes a validation error on failure.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}

// queryTime parses an RFC3339 query parameter. Missing values yield nil.
// An unescaped "+" offset arrives as a space and is restored.
func queryTime(c *gin.Context, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	raw = strings.ReplaceAll(raw, " ", "+")
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, key+" must be an RFC3339 timestamp")
	}
	return &t, nil
}

func queryBool(c *gin.Context, key string) *bool {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

func queryPaging(c *gin.Context) (page, size int) {
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		size = v
	}
	return page, size
}
