// Copyright (c) GenBridge Authors.
// Licensed under the MIT License.

/*
Package testutil 提供 GenBridge 测试的共享工具和辅助函数。

# 核心能力

  - 上下文辅助: TestContext / CancelledContext，自动注册 Cleanup 防止泄漏
  - 数据工具: MustJSON / MustParseJSON
  - 脚本化 API 服务器: APIServer 按路由依次返回预设响应并记录请求，
    用于适配器与执行器测试
  - 客户端选项: ClientOptions 返回静默日志、跳过退避等待的选项

# 使用示例

	srv := testutil.NewAPIServer(t).
		On("GET", "/jobs/result/abc", testutil.JSON(200, map[string]any{"progress": 10}))
	reg := registry.New(testutil.ClientOptions()...)
	reg.Register("thirdparty", apiclient.Config{BaseURL: srv.URL})
*/
package testutil
