package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/wedding-candy/internal/config"
	"github.com/wedding-candy/internal/constants"
)

func TestCaptchaServiceDisabledPassesThrough(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{Provider: "turnstile", Scenes: config.CaptchaSceneConfig{Login: true}})
	if svc.IsSceneEnabled(constants.CaptchaSceneLogin) {
		t.Fatalf("unknown provider should disable captcha")
	}
	if err := svc.Verify(constants.CaptchaSceneLogin, CaptchaVerifyPayload{}); err != nil {
		t.Fatalf("disabled scene should pass, got %v", err)
	}
	if _, err := svc.GenerateImageChallenge(); !errors.Is(err, ErrCaptchaConfigInvalid) {
		t.Fatalf("generate without image provider want ErrCaptchaConfigInvalid got %v", err)
	}
	setting := svc.PublicSetting()
	if setting.Provider != constants.CaptchaProviderNone || setting.Scenes[constants.CaptchaSceneLogin] {
		t.Fatalf("unexpected public setting: %+v", setting)
	}
}

func TestCaptchaServiceImageChallenge(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{
		Provider: "IMAGE",
		Scenes:   config.CaptchaSceneConfig{Submit: true},
	})
	if !svc.IsSceneEnabled(constants.CaptchaSceneSubmit) || svc.IsSceneEnabled(constants.CaptchaSceneLogin) {
		t.Fatalf("only submit scene should be enabled")
	}

	challenge, err := svc.GenerateImageChallenge()
	if err != nil {
		t.Fatalf("generate challenge failed: %v", err)
	}
	if challenge.CaptchaID == "" || !strings.HasPrefix(challenge.ImageBase64, "data:image/png;base64,") {
		t.Fatalf("unexpected challenge: id=%q image prefix=%q", challenge.CaptchaID, challenge.ImageBase64[:16])
	}

	if err := svc.Verify(constants.CaptchaSceneSubmit, CaptchaVerifyPayload{}); !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("missing code want ErrCaptchaRequired got %v", err)
	}
	payload := CaptchaVerifyPayload{CaptchaID: challenge.CaptchaID, CaptchaCode: "0000"}
	if err := svc.Verify(constants.CaptchaSceneSubmit, payload); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("wrong code want ErrCaptchaInvalid got %v", err)
	}
	if err := svc.Verify(constants.CaptchaSceneLogin, CaptchaVerifyPayload{}); err != nil {
		t.Fatalf("disabled login scene should pass, got %v", err)
	}
}

func TestCaptchaServiceVerifyAcceptsStoredAnswer(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{
		Provider: constants.CaptchaProviderImage,
		Scenes:   config.CaptchaSceneConfig{Login: true},
	})
	if err := svc.store().Set("fixed-id", "ab12"); err != nil {
		t.Fatalf("seed captcha failed: %v", err)
	}
	payload := CaptchaVerifyPayload{CaptchaID: "fixed-id", CaptchaCode: "ab12"}
	if err := svc.Verify(constants.CaptchaSceneLogin, payload); err != nil {
		t.Fatalf("correct code should pass, got %v", err)
	}
	if err := svc.Verify(constants.CaptchaSceneLogin, payload); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("captcha should be single use, got %v", err)
	}
}
