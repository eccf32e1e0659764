// Package telemetry 封装 OpenTelemetry SDK 初始化逻辑，
// 为 GenBridge 提供 TracerProvider 和 MeterProvider 配置。
// apiclient 的每次上游调用都会生成 span；遥测禁用时返回 noop tracer。
package telemetry
