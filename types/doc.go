// Copyright (c) GenBridge Authors.
// Licensed under the MIT License.

/*
Package types 定义 GenBridge 各包共享的结构化错误。

# 核心类型

  - ErrorCode：稳定的错误码字符串，调用方通过 IsErrorCode 判断。
  - Error：错误码、消息、HTTP 状态、是否可重试、来源 provider 与底层 cause。

# 用法

	err := types.NewError(types.ErrInvalidRequest, "prompt is required").
		WithProvider("thirdparty")
	if types.IsErrorCode(err, types.ErrInvalidRequest) { ... }

Error 实现 Unwrap，可与 errors.Is / errors.As 配合使用。
*/
package types
