// Copyright (c) GenBridge Authors.
// Licensed under the MIT License.

/*
Package summary 基于 Responses API 生成帮助文章的 AI 摘要，并记录用户反馈。

# 流程

 1. 按 token 预算截断过长的文章正文（TokenCounter）
 2. 组装 system + user 两条 Responses 消息
 3. 调用 SendResponsesMessage 获取摘要文本
 4. 相关链接与常见问题原样透传到 Summary

# Token 计数

  - EstimatorCounter：按字符估算，区分 CJK 与 ASCII，无需下载编码数据
  - TiktokenCounter：基于 tiktoken-go，首次使用时惰性加载编码，失败时回退到估算
*/
package summary
