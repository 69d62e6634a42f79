package public

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/wedding-candy/internal/config"
	"github.com/wedding-candy/internal/constants"
	"github.com/wedding-candy/internal/http/response"
	"github.com/wedding-candy/internal/service"
)

func TestGetImageCaptcha(t *testing.T) {
	r, container := setupPublicHandlerTest(t, 0)
	container.CaptchaService = service.NewCaptchaService(config.CaptchaConfig{
		Provider: constants.CaptchaProviderImage,
		Scenes:   config.CaptchaSceneConfig{Submit: true},
	})
	r.GET("/public/captcha/image", New(container).GetImageCaptcha)

	env := performJSON(t, r, http.MethodGet, "/public/captcha/image?scene=login", nil)
	if env.StatusCode != response.CodeOK || !strings.Contains(string(env.Data), `"required":false`) {
		t.Fatalf("disabled scene should not issue a challenge: %s", env.Data)
	}

	env = performJSON(t, r, http.MethodGet, "/public/captcha/image?scene=submit", nil)
	var challenge struct {
		Required    bool   `json:"required"`
		CaptchaID   string `json:"captcha_id"`
		ImageBase64 string `json:"image_base64"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(env.Data, &challenge); err != nil {
		t.Fatalf("decode challenge failed: %v", err)
	}
	if !challenge.Required || challenge.CaptchaID == "" || challenge.ExpiresIn <= 0 {
		t.Fatalf("unexpected challenge: %+v", challenge)
	}
	if !strings.HasPrefix(challenge.ImageBase64, "data:image/png;base64,") {
		t.Fatalf("image should be a png data url")
	}
}

func TestGetImageCaptchaDisabledProvider(t *testing.T) {
	r, container := setupPublicHandlerTest(t, 0)
	r.GET("/public/captcha/image", New(container).GetImageCaptcha)

	env := performJSON(t, r, http.MethodGet, "/public/captcha/image", nil)
	if env.StatusCode != response.CodeBadRequest {
		t.Fatalf("status want %d got %d", response.CodeBadRequest, env.StatusCode)
	}
}

func TestSubmitRecipientRequiresCaptcha(t *testing.T) {
	r, container := setupPublicHandlerTest(t, 0)
	container.CaptchaService = service.NewCaptchaService(config.CaptchaConfig{
		Provider: constants.CaptchaProviderImage,
		Scenes:   config.CaptchaSceneConfig{Submit: true},
	})

	env := performJSON(t, r, http.MethodPost, "/public/recipients", validSubmitPayload("13800138000"))
	if env.StatusCode != response.CodeBadRequest {
		t.Fatalf("submit without captcha want %d got %d", response.CodeBadRequest, env.StatusCode)
	}
	if container.RecipientService.Count() != 0 {
		t.Fatalf("record should not be created without captcha")
	}
}
