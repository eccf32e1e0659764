// Copyright (c) GenBridge Authors.
// Licensed under the MIT License.

/*
包 cache 提供基于 Redis 的 JSON 缓存，主要用于缓存 Stock 搜索结果。

# 核心类型

  - Manager：缓存管理器，提供 Get/Set/Delete/Exists/Expire 等基础操作，
    以及 GetJSON/SetJSON 便捷方法，满足 stock.Cache 接口。
  - Config：地址、键前缀、默认 TTL、连接池与健康检查间隔。
  - Stats：进程内命中/未命中计数与当前键数量。

# 主要能力

  - 所有键自动加上 KeyPrefix。
  - 命中与未命中通过 Recorder 上报，internal/metrics.Collector 可直接注入。
  - 后台健康检查在 Close 时停止。
  - ErrCacheMiss 哨兵错误与 IsCacheMiss 判断函数。
*/
package cache
