package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// 支持的语言
const (
	LocaleZH = "zh-CN"
	LocaleEN = "en-US"
)

// DefaultLocale 默认语言
const DefaultLocale = LocaleZH

// LangQueryParam 通过查询参数指定语言
const LangQueryParam = "lang"

var supportedTags = []language.Tag{
	language.SimplifiedChinese,
	language.AmericanEnglish,
}

var matcher = language.NewMatcher(supportedTags)

// T 翻译消息，当前语言缺失时回退默认语言，仍缺失时返回 key
func T(locale, key string) string {
	if msg, ok := lookup(locale, key); ok {
		return msg
	}
	if msg, ok := lookup(DefaultLocale, key); ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化消息
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

// ResolveLocale 解析请求语言：lang 参数优先，其次 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	if lang := strings.TrimSpace(c.Query(LangQueryParam)); lang != "" {
		return NormalizeLocale(lang)
	}
	accept := strings.TrimSpace(c.GetHeader("Accept-Language"))
	if accept == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	return localeForTags(tags...)
}

// NormalizeLocale 将任意语言标记归一到支持的语言
func NormalizeLocale(value string) string {
	tag, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return DefaultLocale
	}
	return localeForTags(tag)
}

func localeForTags(tags ...language.Tag) string {
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	switch supportedTags[index] {
	case language.AmericanEnglish:
		return LocaleEN
	default:
		return LocaleZH
	}
}

func lookup(locale, key string) (string, bool) {
	table, ok := catalog[locale]
	if !ok {
		return "", false
	}
	msg, ok := table[key]
	return msg, ok
}
