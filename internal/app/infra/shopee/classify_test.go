package shopee

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_TransientStatus(t *testing.T) {
	for _, status := range []int{408, 409, 425, 429, 500, 502, 504, 520, 526} {
		e := Classify(status, nil)
		require.NotNil(t, e, "status %d", status)
		assert.True(t, e.Retryable, "status %d", status)
		assert.Equal(t, status, e.Code, "status %d", status)
	}
}

func TestClassify_AuthStatus(t *testing.T) {
	for _, status := range []int{401, 403} {
		e := Classify(status, []byte(`{}`))
		require.NotNil(t, e)
		assert.False(t, e.Retryable, "status %d", status)
		assert.Equal(t, 401, e.Code, "status %d", status)
	}
}

func TestClassify_BodyHints(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		wantRetryable bool
		wantCode      int
	}{
		{"please login", `{"error": 1, "message": "please login again"}`, false, 401},
		{"token expired", `{"error": 1, "msg": "Token Expired"}`, false, 401},
		{"vietnamese login hint", `{"error": 1, "msg": "Vui lòng đăng nhập lại"}`, false, 401},
		{"banned account", `{"error": 5, "msg": "account banned"}`, false, 401},
		{"rate limited", `{"error": 1, "msg": "too many requests"}`, true, 429},
		{"captcha wall", `{"error": 1, "msg": "captcha required"}`, true, 429},
		{"system busy defaults to temporary", `{"error": 1, "message": "system busy"}`, true, 503},
		{"unknown error code", `{"error": 77}`, true, 503},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Classify(200, []byte(tt.body))
			require.NotNil(t, e)
			assert.Equal(t, tt.wantRetryable, e.Retryable)
			assert.Equal(t, tt.wantCode, e.Code)
		})
	}
}

func TestClassify_MalformedBody(t *testing.T) {
	// 非 JSON 响应体：只做原始文本的提示词匹配
	e := Classify(200, []byte(`<html>Session expired, please login</html>`))
	require.NotNil(t, e)
	assert.False(t, e.Retryable)

	e = Classify(200, []byte(`<html>Gateway maintenance page</html>`))
	require.NotNil(t, e)
	assert.True(t, e.Retryable)
	assert.Equal(t, 503, e.Code)

	// 非 JSON 响应体不做限流匹配，直接走兜底
	e = Classify(200, []byte(`<html>captcha required</html>`))
	require.NotNil(t, e)
	assert.True(t, e.Retryable)
	assert.Equal(t, 503, e.Code)
}

func TestClassify_NeverAuthByDefault(t *testing.T) {
	// 未识别的失败必须判成临时错误，误判会让调用方丢弃有效会话
	e := Classify(418, []byte(`{"weird": true}`))
	require.NotNil(t, e)
	assert.True(t, e.Retryable)
	assert.Equal(t, 503, e.Code)
}

func TestClassify_HintBeyondTruncationIgnored(t *testing.T) {
	// 提示词出现在 2000 字节之后且消息字段无法提取时不计入匹配
	long := make([]byte, 3000)
	for i := range long {
		long[i] = 'x'
	}
	body := append(long, []byte(" please login")...)
	e := Classify(200, body)
	require.NotNil(t, e)
	assert.True(t, e.Retryable)
}
