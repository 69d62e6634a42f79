package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/wedding-candy/internal/constants"
)

var (
	namePattern    = regexp.MustCompile(`^[\p{Han}a-zA-Z·\s]{2,20}$`)
	phonePattern   = regexp.MustCompile(`^1[3-9]\d{9}$`)
	wechatPattern  = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]{5,19}$`)
	zipcodePattern = regexp.MustCompile(`^\d{6}$`)
	maskPattern    = regexp.MustCompile(`^(\d{3})(\d{4})(\d{4})$`)
)

const (
	addressMinLength = 3
	addressMaxLength = 200
	messageMaxLength = 200
)

// RecipientInput 领取表单输入
type RecipientInput struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Wechat          string `json:"wechat"`
	Province        string `json:"province"`
	City            string `json:"city"`
	District        string `json:"district"`
	Address         string `json:"address"`
	Zipcode         string `json:"zipcode"`
	Relationship    string `json:"relationship"`
	DeliveryTime    string `json:"delivery_time"`
	Message         string `json:"message"`
	PrivacyAccepted bool   `json:"privacy_accepted"`
}

// Normalize 去除首尾空白
func (in RecipientInput) Normalize() RecipientInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Wechat = strings.TrimSpace(in.Wechat)
	in.Province = strings.TrimSpace(in.Province)
	in.City = strings.TrimSpace(in.City)
	in.District = strings.TrimSpace(in.District)
	in.Address = strings.TrimSpace(in.Address)
	in.Zipcode = strings.TrimSpace(in.Zipcode)
	in.Relationship = strings.TrimSpace(in.Relationship)
	in.DeliveryTime = strings.TrimSpace(in.DeliveryTime)
	in.Message = strings.TrimSpace(in.Message)
	return in
}

// FieldError 单个字段错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FormValidationError 表单校验错误集合
type FormValidationError struct {
	Fields []FieldError
}

func (e *FormValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrFormInvalid.Error()
	}
	return e.Fields[0].Message
}

// Is 支持 errors.Is(err, ErrFormInvalid)
func (e *FormValidationError) Is(target error) bool {
	return target == ErrFormInvalid
}

// FormValidator 领取表单校验器
type FormValidator struct{}

// NewFormValidator 创建表单校验器
func NewFormValidator() *FormValidator {
	return &FormValidator{}
}

// Validate 校验完整表单，返回全部字段错误
func (v *FormValidator) Validate(input RecipientInput) error {
	in := input.Normalize()
	fields := make([]FieldError, 0)
	add := func(field, message string) {
		fields = append(fields, FieldError{Field: field, Message: message})
	}

	if msg := ValidateName(in.Name); msg != "" {
		add("name", msg)
	}
	if in.Relationship == "" {
		add("relationship", "请选择您与新人的关系")
	} else if !IsValidRelation(in.Relationship) {
		add("relationship", "请选择有效的关系")
	}
	if msg := ValidatePhone(in.Phone); msg != "" {
		add("phone", msg)
	}
	if in.Wechat != "" && !wechatPattern.MatchString(in.Wechat) {
		add("wechat", "微信号应以字母开头，包含字母、数字、下划线或连字符")
	}
	if in.Province == "" {
		add("province", "请选择省份")
	}
	if in.City == "" {
		add("city", "请选择城市")
	}
	if in.District == "" {
		add("district", "请选择区县")
	}
	switch length := utf8.RuneCountInString(in.Address); {
	case length == 0:
		add("address", "请输入详细地址")
	case length < addressMinLength:
		add("address", "详细地址至少需要3个字符")
	case length > addressMaxLength:
		add("address", "详细地址不能超过200个字符")
	}
	if in.Zipcode != "" && !zipcodePattern.MatchString(in.Zipcode) {
		add("zipcode", "邮政编码应为6位数字")
	}
	if in.DeliveryTime == "" {
		add("delivery_time", "请选择期望配送时间")
	} else if !IsValidDeliveryTime(in.DeliveryTime) {
		add("delivery_time", "请选择有效的配送时间")
	}
	if utf8.RuneCountInString(in.Message) > messageMaxLength {
		add("message", "留言不能超过200个字符")
	}
	if !in.PrivacyAccepted {
		add("privacy_accepted", "请阅读并同意隐私政策")
	}

	if len(fields) > 0 {
		return &FormValidationError{Fields: fields}
	}
	return nil
}

// ValidateName 校验姓名，返回错误文案（空串表示通过）
func ValidateName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "请输入姓名"
	}
	length := utf8.RuneCountInString(name)
	if length < 2 {
		return "姓名至少需要2个字符"
	}
	if length > 20 {
		return "姓名不能超过20个字符"
	}
	if !namePattern.MatchString(name) {
		return "姓名只能包含中文、英文、间隔号(·)和空格"
	}
	return ""
}

// ValidatePhone 校验手机号，返回错误文案（空串表示通过）
func ValidatePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "请输入手机号码"
	}
	if !phonePattern.MatchString(phone) {
		return "请输入正确的11位手机号码"
	}
	return ""
}

// IsValidRelation 判断关系是否合法
func IsValidRelation(relation string) bool {
	_, ok := constants.RelationTexts[relation]
	return ok
}

// IsValidDeliveryTime 判断配送时间是否合法
func IsValidDeliveryTime(value string) bool {
	_, ok := constants.DeliveryTimeTexts[value]
	return ok
}

// DigitsOnly 去除所有非数字字符
func DigitsOnly(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MaskPhone 手机号脱敏：11 位数字时隐藏中间 4 位，否则原样返回
func MaskPhone(phone string) string {
	digits := DigitsOnly(phone)
	if len(digits) != 11 {
		return phone
	}
	return maskPattern.ReplaceAllString(digits, "$1****$3")
}

// DeviceInfoFromUserAgent 根据 User-Agent 推断设备类型与浏览器，格式 "<设备> | <浏览器>"
func DeviceInfoFromUserAgent(userAgent string) string {
	device := "Desktop"
	switch {
	case strings.Contains(userAgent, "iPad"):
		device = "iPad"
	case strings.Contains(userAgent, "iPhone"):
		device = "iPhone"
	case strings.Contains(userAgent, "Android"):
		device = "Android"
	case strings.Contains(userAgent, "Mobile") || strings.Contains(userAgent, "iPod"):
		device = "Mobile"
	}
	return device + " | " + browserFromUserAgent(userAgent)
}

func browserFromUserAgent(userAgent string) string {
	switch {
	case strings.Contains(userAgent, "MicroMessenger"):
		return "WeChat"
	case strings.Contains(userAgent, "Edg/") || strings.Contains(userAgent, "Edge"):
		return "Edge"
	case strings.Contains(userAgent, "Chrome"):
		return "Chrome"
	case strings.Contains(userAgent, "Safari"):
		return "Safari"
	case strings.Contains(userAgent, "Firefox"):
		return "Firefox"
	case strings.Contains(userAgent, "MSIE") || strings.Contains(userAgent, "Trident"):
		return "IE"
	default:
		return "Unknown"
	}
}
