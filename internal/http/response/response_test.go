package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorAttachesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "wc-req-1")

	ErrorWithData(c, CodeBadRequest, "表单有误", gin.H{"errors": []string{"name"}})

	if w.Code != http.StatusOK {
		t.Fatalf("business errors should use http 200, got %d", w.Code)
	}
	var body struct {
		StatusCode int                    `json:"status_code"`
		Data       map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if body.StatusCode != CodeBadRequest || body.Data["request_id"] != "wc-req-1" || body.Data["errors"] == nil {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestContentDisposition(t *testing.T) {
	cases := []struct {
		filename string
		fallback string
	}{
		{"婚礼喜糖领取记录_20240520_090000.csv", `filename="20240520_090000.csv"`},
		{"记录.json", `filename="export.json"`},
		{`a"b.csv`, `filename="a_b.csv"`},
	}
	for _, tc := range cases {
		got := ContentDisposition(tc.filename)
		if !strings.HasPrefix(got, "attachment; ") || !strings.Contains(got, tc.fallback) {
			t.Fatalf("filename %q want fallback %s got %s", tc.filename, tc.fallback, got)
		}
	}
	if got := ContentDisposition("记录.json"); !strings.HasSuffix(got, "filename*=UTF-8''%E8%AE%B0%E5%BD%95.json") {
		t.Fatalf("utf-8 filename not encoded: %s", got)
	}
}

func TestAttachment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Attachment(c, "records.csv", ContentTypeCSV, []byte("a,b\n"))

	if w.Header().Get("Content-Type") != ContentTypeCSV || w.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("unexpected headers: %v", w.Header())
	}
	if w.Body.String() != "a,b\n" {
		t.Fatalf("unexpected body: %q", w.Body.String())
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapError(CodeInsufficientStorage, "error.storage_full", "存储空间不足", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("wrapped error should unwrap to cause")
	}
	if err.Error() != "存储空间不足: disk full" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
	if WrapError(CodeNotFound, "", "不存在", nil).Error() != "不存在" {
		t.Fatalf("message without cause should be returned as is")
	}
}
