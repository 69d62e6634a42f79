package shared

import "github.com/wedding-candy/internal/service"

// CaptchaPayloadRequest 登录与提交接口共用的验证码字段
type CaptchaPayloadRequest struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// Verify 按场景校验，未配置验证码服务时直接通过
func (r CaptchaPayloadRequest) Verify(svc *service.CaptchaService, scene string) error {
	if svc == nil {
		return nil
	}
	return svc.Verify(scene, service.CaptchaVerifyPayload{
		CaptchaID:   r.CaptchaID,
		CaptchaCode: r.CaptchaCode,
	})
}
