// Copyright (c) GenBridge Authors.
// Licensed under the MIT License.

/*
Package apiclient 提供绑定单一 base URL 的 HTTP 请求执行器。

# 概述

Client 负责 URL 拼接、查询参数编码、请求头合并（默认 < 配置 < 调用方）、
按 Content-Type 解析响应体，以及基于 retry 包的指数退避重试。
每次尝试使用独立的超时计时器；非 2xx 状态统一返回 *RequestError，
携带状态码与已解析的响应体。

# 可观测性

每次逻辑调用生成一个 OpenTelemetry span；每次尝试通过 Recorder
上报状态码与耗时，重试次数单独计数。
*/
package apiclient
