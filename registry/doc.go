// Copyright (c) GenBridge Authors.
// Licensed under the MIT License.

// Package registry 维护 API 名称到客户端配置的映射，按需惰性构建并缓存
// apiclient.Client。重新注册同名 API 会丢弃已缓存的客户端。
package registry
