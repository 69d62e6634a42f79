package admin

import (
	"github.com/wedding-candy/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetAuthzMe 获取当前管理员权限快照
func (h *Handler) GetAuthzMe(c *gin.Context) {
	username, ok := getAdminUsername(c)
	if !ok {
		return
	}

	roles, err := h.AuthzService.GetAdminRoles(username)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	policies, err := h.AuthzService.GetAdminPolicies(username)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}

	response.Success(c, gin.H{
		"username": username,
		"role":     c.GetString("admin_role"),
		"roles":    roles,
		"policies": policies,
	})
}
