package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sangkips/salon-commission-api/internal/presentation/http/dto/response"
	"github.com/sangkips/salon-commission-api/pkg/pagination"
)

const dateLayout = "2006-01-02"

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserRoles extracts the user roles from the Gin context
func GetUserRoles(c *gin.Context) []string {
	roles, exists := c.Get("user_roles")
	if !exists {
		return nil
	}
	list, _ := roles.([]string)
	return list
}

// parseID reads the :id path parameter, answering 400 itself when malformed
func parseID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid "+what+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUID parses a query value; empty is nil
func optionalUUID(c *gin.Context, key string) (*uuid.UUID, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(c, "Invalid "+key)
		return nil, false
	}
	return &id, true
}

func pageParams(c *gin.Context) *pagination.PaginationParams {
	return pagination.FromStrings(c.Query("page"), c.Query("per_page"))
}

// parseDate parses a YYYY-MM-DD civil date without attaching a zone
func parseDate(raw string) (int, time.Month, int, error) {
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return 0, 0, 0, err
	}
	return d.Year(), d.Month(), d.Day(), nil
}

func monthOf(m int) time.Month {
	return time.Month(m)
}
