// Copyright (c) GenBridge Authors.
// Licensed under the MIT License.

// Package jobs 实现异步任务轮询：按固定间隔获取任务状态，直到完成、
// 协议不匹配或达到最大尝试次数。
package jobs
