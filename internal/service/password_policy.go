package service

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/wedding-candy/internal/constants"
)

const passwordSpecialChars = `!@#$%^&*(),.?":{}|<>`

// PasswordStrengthResult 密码强度评估结果
type PasswordStrengthResult struct {
	Valid    bool   `json:"valid"`
	Strength string `json:"strength"`
	Key      string `json:"key"`
}

type passwordPolicyError struct {
	key  string
	args []interface{}
}

func (e passwordPolicyError) Error() string {
	return e.key
}

func (e passwordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword
}

func (e passwordPolicyError) Key() string {
	return e.key
}

func (e passwordPolicyError) Args() []interface{} {
	return e.args
}

// EvaluatePasswordStrength 评估密码强度
// 少于 6 位无效；少于 8 位为弱；同时包含数字、字母、特殊字符为强；包含其中两类为中
func EvaluatePasswordStrength(password string) PasswordStrengthResult {
	length := utf8.RuneCountInString(password)
	if length < constants.AdminPasswordMinLength {
		return PasswordStrengthResult{
			Valid:    false,
			Strength: constants.AdminPasswordStrengthWeak,
			Key:      "error.password_min_length",
		}
	}
	if length < 8 {
		return PasswordStrengthResult{Valid: true, Strength: constants.AdminPasswordStrengthWeak, Key: "password.strength_weak"}
	}

	var hasNumber, hasLetter, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasNumber = true
		case r < unicode.MaxASCII && unicode.IsLetter(r):
			hasLetter = true
		case strings.ContainsRune(passwordSpecialChars, r):
			hasSpecial = true
		}
	}

	kinds := 0
	for _, ok := range []bool{hasNumber, hasLetter, hasSpecial} {
		if ok {
			kinds++
		}
	}
	switch kinds {
	case 3:
		return PasswordStrengthResult{Valid: true, Strength: constants.AdminPasswordStrengthStrong, Key: "password.strength_strong"}
	case 2:
		return PasswordStrengthResult{Valid: true, Strength: constants.AdminPasswordStrengthMedium, Key: "password.strength_medium"}
	default:
		return PasswordStrengthResult{Valid: true, Strength: constants.AdminPasswordStrengthWeak, Key: "password.strength_weak"}
	}
}

func validatePassword(password string) error {
	result := EvaluatePasswordStrength(password)
	if !result.Valid {
		return passwordPolicyError{key: result.Key, args: []interface{}{constants.AdminPasswordMinLength}}
	}
	return nil
}
