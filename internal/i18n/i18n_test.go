package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestResolveLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		target string
		accept string
		want   string
	}{
		{"/", "", LocaleZH},
		{"/", "en-GB,en;q=0.9", LocaleEN},
		{"/", "zh-TW,zh;q=0.9", LocaleZH},
		{"/?lang=en", "zh-CN", LocaleEN},
		{"/", "not a header!!", LocaleZH},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", tc.target, nil)
		if tc.accept != "" {
			c.Request.Header.Set("Accept-Language", tc.accept)
		}
		if got := ResolveLocale(c); got != tc.want {
			t.Fatalf("target=%s accept=%q want %s got %s", tc.target, tc.accept, tc.want, got)
		}
	}
}

func TestTranslate(t *testing.T) {
	if got := T(LocaleEN, "error.login_invalid"); got != "Invalid username or password" {
		t.Fatalf("unexpected en message: %s", got)
	}
	if got := T("fr-FR", "error.login_invalid"); got != "用户名或密码错误" {
		t.Fatalf("unknown locale should fall back to zh-CN, got %s", got)
	}
	if got := T(LocaleZH, "missing.key"); got != "missing.key" {
		t.Fatalf("missing key should be returned as is, got %s", got)
	}
	if got := Sprintf(LocaleZH, "error.rate_limited", 30); got != "请求过于频繁，请 30 秒后再试" {
		t.Fatalf("unexpected formatted message: %s", got)
	}
}

func TestCatalogKeysMatch(t *testing.T) {
	for key := range catalog[LocaleZH] {
		if _, ok := catalog[LocaleEN][key]; !ok {
			t.Fatalf("key %s missing in %s", key, LocaleEN)
		}
	}
}
