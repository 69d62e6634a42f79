package public

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wedding-candy/internal/config"
	"github.com/wedding-candy/internal/provider"
	"github.com/wedding-candy/internal/repository"
	"github.com/wedding-candy/internal/service"

	"github.com/gin-gonic/gin"
)

type apiEnvelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func setupPublicHandlerTest(t *testing.T, capacity int64) (*gin.Engine, *provider.Container) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewQuotaSlotStore(repository.NewMemorySlotStore(), capacity)
	recipients := service.NewRecipientService(
		repository.NewRecipientRepository(store),
		repository.NewBackupRepository(store),
		store,
		capacity,
		nil,
	)
	container := &provider.Container{
		Config:           &config.Config{},
		SlotStore:        store,
		CaptchaService:   service.NewCaptchaService(config.CaptchaConfig{}),
		FormValidator:    service.NewFormValidator(),
		RecipientService: recipients,
	}
	h := New(container)

	r := gin.New()
	r.GET("/public/form-options", h.GetFormOptions)
	r.POST("/public/recipients", h.SubmitRecipient)
	r.GET("/public/recipients/last", h.GetLastSubmission)
	return r, container
}

func validSubmitPayload(phone string) map[string]interface{} {
	return map[string]interface{}{
		"name":             "张三",
		"phone":            phone,
		"wechat":           "zhang_san88",
		"province":         "广东省",
		"city":             "深圳市",
		"district":         "南山区",
		"address":          "科技园路1号",
		"zipcode":          "518000",
		"relationship":     "friend",
		"delivery_time":    "weekend",
		"message":          "新婚快乐",
		"privacy_accepted": true,
	}
}

func performJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) apiEnvelope {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Version/17.0 Mobile Safari/604.1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("http status want 200 got %d", w.Code)
	}
	var env apiEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response failed: %v body=%s", err, w.Body.String())
	}
	return env
}

func TestSubmitRecipientSuccess(t *testing.T) {
	r, container := setupPublicHandlerTest(t, 0)

	env := performJSON(t, r, http.MethodPost, "/public/recipients", validSubmitPayload("13800138000"))
	if env.StatusCode != 0 {
		t.Fatalf("submit want status 0 got %d msg=%s", env.StatusCode, env.Msg)
	}
	if env.Msg != "提交成功" {
		t.Fatalf("unexpected message: %s", env.Msg)
	}
	var data map[string]interface{}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data failed: %v", err)
	}
	if data["phone"] != "138****8000" {
		t.Fatalf("phone should be masked, got %v", data["phone"])
	}
	if _, ok := data["phone_raw"]; ok {
		t.Fatalf("raw phone must not be returned to the public form")
	}
	if container.RecipientService.Count() != 1 {
		t.Fatalf("record should be stored")
	}

	last := performJSON(t, r, http.MethodGet, "/public/recipients/last", nil)
	if last.StatusCode != 0 {
		t.Fatalf("last submission want status 0 got %d", last.StatusCode)
	}
}

func TestSubmitRecipientDuplicatePhone(t *testing.T) {
	r, _ := setupPublicHandlerTest(t, 0)
	performJSON(t, r, http.MethodPost, "/public/recipients", validSubmitPayload("13800138000"))

	env := performJSON(t, r, http.MethodPost, "/public/recipients", validSubmitPayload("13800138000"))
	if env.StatusCode != 409 {
		t.Fatalf("duplicate want 409 got %d", env.StatusCode)
	}
}

func TestSubmitRecipientFieldErrors(t *testing.T) {
	r, container := setupPublicHandlerTest(t, 0)
	payload := validSubmitPayload("12345")
	payload["privacy_accepted"] = false

	env := performJSON(t, r, http.MethodPost, "/public/recipients", payload)
	if env.StatusCode != 400 {
		t.Fatalf("invalid form want 400 got %d", env.StatusCode)
	}
	var data struct {
		Fields []service.FieldError `json:"fields"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode fields failed: %v", err)
	}
	if len(data.Fields) != 2 || data.Fields[0].Field != "phone" || data.Fields[1].Field != "privacy_accepted" {
		t.Fatalf("unexpected field errors: %+v", data.Fields)
	}
	if container.RecipientService.Count() != 0 {
		t.Fatalf("invalid form must not be stored")
	}
}

func TestSubmitRecipientStorageFull(t *testing.T) {
	r, container := setupPublicHandlerTest(t, 64)
	env := performJSON(t, r, http.MethodPost, "/public/recipients", validSubmitPayload("13800138000"))
	if env.StatusCode != 507 {
		t.Fatalf("quota exceeded want 507 got %d", env.StatusCode)
	}
	if container.RecipientService.Count() != 0 {
		t.Fatalf("list should be unchanged after a failed write")
	}
}

func TestGetFormOptions(t *testing.T) {
	r, _ := setupPublicHandlerTest(t, 0)
	env := performJSON(t, r, http.MethodGet, "/public/form-options", nil)
	var data struct {
		Relations     []OptionItem                 `json:"relations"`
		DeliveryTimes []OptionItem                 `json:"delivery_times"`
		Captcha       service.CaptchaPublicSetting `json:"captcha"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode options failed: %v", err)
	}
	if len(data.Relations) != 5 || data.Relations[0].Value != "family" || data.Relations[0].Label != "家人" {
		t.Fatalf("unexpected relations: %+v", data.Relations)
	}
	if len(data.DeliveryTimes) != 5 || data.Captcha.Provider != "none" {
		t.Fatalf("unexpected options: %+v", data)
	}
}

func TestGetLastSubmissionEmpty(t *testing.T) {
	r, _ := setupPublicHandlerTest(t, 0)
	env := performJSON(t, r, http.MethodGet, "/public/recipients/last", nil)
	if env.StatusCode != 404 {
		t.Fatalf("empty last submission want 404 got %d", env.StatusCode)
	}
}
