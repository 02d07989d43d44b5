package organizations

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SebastianTorreiro/jardineria-crm/internal/middleware"
	"github.com/SebastianTorreiro/jardineria-crm/pkg/response"
)

// ContextOrganizationID is the gin context key for the caller's resolved
// organization ID.
const ContextOrganizationID = "organization_id"

// RequireOrganization resolves the authenticated user to their organization
// and stores the ID in context. Call after JWT. Handlers read the ID from
// context and pass it explicitly into every repository call; nothing below
// the handler layer touches ambient state.
func RequireOrganization(repo *Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
		org, err := repo.GetForUser(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, ErrNoMembership) {
				response.Forbidden(c, "no organization found for this account")
			} else {
				response.Internal(c, "failed to resolve organization")
			}
			c.Abort()
			return
		}
		c.Set(ContextOrganizationID, org.ID)
		c.Next()
	}
}

// OrgID returns the organization ID resolved by RequireOrganization.
func OrgID(c *gin.Context) uuid.UUID {
	return c.MustGet(ContextOrganizationID).(uuid.UUID)
}
