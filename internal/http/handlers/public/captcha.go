package public

import (
	"errors"

	"github.com/wedding-candy/internal/http/response"
	"github.com/wedding-candy/internal/service"

	"github.com/gin-gonic/gin"
)

// GetImageCaptcha 获取图片验证码，scene 参数对应场景未开启时返回 required=false
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	if scene := c.Query("scene"); scene != "" && !h.CaptchaService.IsSceneEnabled(scene) {
		response.Success(c, gin.H{"required": false})
		return
	}

	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		if errors.Is(err, service.ErrCaptchaConfigInvalid) {
			respondError(c, response.CodeBadRequest, "error.captcha_config_invalid", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}

	response.Success(c, gin.H{
		"required":     true,
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
		"expires_in":   challenge.ExpiresIn,
	})
}
