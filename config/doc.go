// Copyright (c) GenBridge Authors.
// Licensed under the MIT License.

// Package config 提供 GenBridge 的配置加载功能。
//
// 配置优先级: 默认值 → YAML 文件 → 环境变量（GENBRIDGE_ 前缀）。
// apis 段按注册名覆盖 providers 中的默认端点。
package config
