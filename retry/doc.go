// Copyright (c) GenBridge Authors.
// Licensed under the MIT License.

/*
包 retry 提供有界重试循环，供 apiclient 的请求执行器复用。

# 概述

Retryer 以显式循环代替递归重试：第 attempt 次失败（从 0 开始）后，如果
attempt < MaxRetries，则等待 min(BaseDelay*2^attempt + jitter, MaxDelay)
再重试，jitter 每次重新抽取。所有错误一律视为可重试，重试耗尽后原样
返回最后一次错误，调用方可直接 errors.As。

# 可注入依赖

  - SleepFunc：等待函数，测试中可替换为 NoSleep 或模拟时钟
  - JitterFunc：抖动函数，测试中可固定为 0
  - Policy.OnRetry：每次重试前的回调（用于指标）
*/
package retry
