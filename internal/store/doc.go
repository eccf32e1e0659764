// Copyright (c) GenBridge Authors.
// Licensed under the MIT License.

/*
包 store 基于 GORM 持久化异步生成任务台账与摘要反馈。

# 核心类型

  - Store：实现 jobs.Ledger 与 summary.FeedbackStore
  - Job：一次异步生成任务（提交时写入，终态时更新）
  - Feedback：摘要的点赞/点踩记录

# 驱动

postgres、mysql 使用官方 GORM 驱动；sqlite 使用纯 Go 的 glebarez/sqlite，
sqlite3 使用基于 cgo 的 gorm.io/driver/sqlite。Open 会自动迁移表结构。
*/
package store
