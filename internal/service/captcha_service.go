package service

import (
	"strings"
	"sync"
	"time"

	"github.com/wedding-candy/internal/config"
	"github.com/wedding-candy/internal/constants"

	"github.com/mojocn/base64Captcha"
)

const captchaSource = "23456789abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ"

// CaptchaVerifyPayload 验证码校验请求载荷
type CaptchaVerifyPayload struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// CaptchaImageChallenge 图片验证码挑战
type CaptchaImageChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
	ExpiresIn   int    `json:"expires_in"`
}

// CaptchaPublicSetting 前台可见的验证码配置
type CaptchaPublicSetting struct {
	Provider string          `json:"provider"`
	Scenes   map[string]bool `json:"scenes"`
}

// CaptchaService 验证码服务
// 按场景开关决定是否需要验证码，目前仅支持图片验证码
type CaptchaService struct {
	cfg config.CaptchaConfig

	mu         sync.Mutex
	imageStore base64Captcha.Store
}

// NewCaptchaService 创建验证码服务
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	return &CaptchaService{cfg: normalizeCaptchaConfig(cfg)}
}

// PublicSetting 获取公开可下发配置
func (s *CaptchaService) PublicSetting() CaptchaPublicSetting {
	return CaptchaPublicSetting{
		Provider: s.cfg.Provider,
		Scenes: map[string]bool{
			constants.CaptchaSceneLogin:  s.IsSceneEnabled(constants.CaptchaSceneLogin),
			constants.CaptchaSceneSubmit: s.IsSceneEnabled(constants.CaptchaSceneSubmit),
		},
	}
}

// IsSceneEnabled 场景是否需要验证码
func (s *CaptchaService) IsSceneEnabled(scene string) bool {
	if s == nil || s.cfg.Provider != constants.CaptchaProviderImage {
		return false
	}
	switch scene {
	case constants.CaptchaSceneLogin:
		return s.cfg.Scenes.Login
	case constants.CaptchaSceneSubmit:
		return s.cfg.Scenes.Submit
	default:
		return false
	}
}

// GenerateImageChallenge 生成图片验证码
func (s *CaptchaService) GenerateImageChallenge() (*CaptchaImageChallenge, error) {
	if s == nil || s.cfg.Provider != constants.CaptchaProviderImage {
		return nil, ErrCaptchaConfigInvalid
	}
	image := s.cfg.Image
	driver := base64Captcha.NewDriverString(
		image.Height,
		image.Width,
		image.NoiseCount,
		image.ShowLine,
		image.Length,
		captchaSource,
		nil,
		base64Captcha.DefaultEmbeddedFonts,
		nil,
	)
	captcha := base64Captcha.NewCaptcha(driver, s.store())
	id, b64s, _, err := captcha.Generate()
	if err != nil {
		return nil, err
	}
	return &CaptchaImageChallenge{
		CaptchaID:   strings.TrimSpace(id),
		ImageBase64: strings.TrimSpace(b64s),
		ExpiresIn:   image.ExpireSeconds,
	}, nil
}

// Verify 按场景校验验证码，场景未开启时直接通过
func (s *CaptchaService) Verify(scene string, payload CaptchaVerifyPayload) error {
	if !s.IsSceneEnabled(scene) {
		return nil
	}
	captchaID := strings.TrimSpace(payload.CaptchaID)
	captchaCode := strings.TrimSpace(payload.CaptchaCode)
	if captchaID == "" || captchaCode == "" {
		return ErrCaptchaRequired
	}
	if !s.store().Verify(captchaID, captchaCode, true) {
		return ErrCaptchaInvalid
	}
	return nil
}

func (s *CaptchaService) store() base64Captcha.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.imageStore == nil {
		s.imageStore = base64Captcha.NewMemoryStore(s.cfg.Image.MaxStore, time.Duration(s.cfg.Image.ExpireSeconds)*time.Second)
	}
	return s.imageStore
}

// normalizeCaptchaConfig 归一化验证码配置
func normalizeCaptchaConfig(cfg config.CaptchaConfig) config.CaptchaConfig {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider != constants.CaptchaProviderImage {
		provider = constants.CaptchaProviderNone
	}
	cfg.Provider = provider

	image := &cfg.Image
	if image.Length < 4 || image.Length > 8 {
		image.Length = 4
	}
	if image.Width < 80 || image.Width > 600 {
		image.Width = 240
	}
	if image.Height < 30 || image.Height > 200 {
		image.Height = 80
	}
	if image.NoiseCount < 0 || image.NoiseCount > 20 {
		image.NoiseCount = 2
	}
	if image.ShowLine < 0 || image.ShowLine > 20 {
		image.ShowLine = 2
	}
	if image.ExpireSeconds < 30 || image.ExpireSeconds > 3600 {
		image.ExpireSeconds = 300
	}
	if image.MaxStore < 100 || image.MaxStore > 100000 {
		image.MaxStore = 10240
	}
	return cfg
}
