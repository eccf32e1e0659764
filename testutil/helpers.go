// =============================================================================
// 🧪 测试辅助函数
// =============================================================================
// 提供通用的上下文与 JSON 辅助函数
// =============================================================================
package testutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/BaSui01/genbridge/apiclient"
	"github.com/BaSui01/genbridge/retry"

	"go.uber.org/zap"
)

// =============================================================================
// 🎯 上下文辅助
// =============================================================================

// TestContext 返回带超时的测试上下文
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// CancelledContext 返回已取消的上下文
func CancelledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

// =============================================================================
// 📦 数据辅助
// =============================================================================

// MustJSON 序列化为 JSON 字符串，失败时 panic
func MustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// MustParseJSON 解析 JSON 字符串，失败时 panic
func MustParseJSON[T any](s string) T {
	var v T
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		panic(err)
	}
	return v
}

// =============================================================================
// 🔌 客户端辅助
// =============================================================================

// ClientOptions 返回测试用客户端选项：静默日志、不等待退避
func ClientOptions() []apiclient.Option {
	return []apiclient.Option{
		apiclient.WithLogger(zap.NewNop()),
		apiclient.WithSleep(retry.NoSleep),
	}
}
