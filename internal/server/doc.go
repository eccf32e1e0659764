// Copyright (c) GenBridge Authors.
// Licensed under the MIT License.

/*
包 server 为命令行进程提供后台 HTTP 端点，用于暴露 Prometheus 指标与健康检查。

# 核心类型

  - Manager：封装 net/http.Server 与 net.Listener，非阻塞启动，
    Shutdown 在超时内排空连接。
  - Config：监听地址、读写超时与优雅关闭超时。

# 路由

  - /metrics：promhttp 导出给定的 prometheus.Gatherer。
  - /healthz：返回 200 与 "ok"。
*/
package server
