// Copyright (c) GenBridge Authors.
// Licensed under the MIT License.

/*
包 metrics 提供基于 Prometheus 的指标采集能力，覆盖上游 API 请求、
异步任务轮询、缓存与数据库四个维度。

# 概述

Collector 通过 promauto.With 注册到调用方提供的 Registerer，
同时实现 apiclient.Recorder 与 jobs.Recorder，可直接作为选项注入。

# 主要指标

  - api_requests_total{client,method,status}：状态码归类为 2xx/3xx/4xx/5xx，429 单列，传输失败记为 error
  - api_request_duration_seconds{client,method}
  - api_retries_total{client}
  - job_polls_total{provider,phase}
  - cache_hits_total / cache_misses_total{cache_type}
  - db_connections_open / db_connections_idle{database}
*/
package metrics
