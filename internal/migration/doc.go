// Copyright (c) GenBridge Authors.
// Licensed under the MIT License.

/*
包 migration 管理任务台账与摘要反馈两张表的版本化 Schema，
基于 golang-migrate，支持 PostgreSQL、MySQL 与 SQLite。

# 概述

各方言的 SQL 文件通过 embed.FS 内嵌。Migrator 复用 store 已打开的
*sql.DB，因此迁移与业务共用同一连接池与驱动。

# 核心类型

  - Migrator：封装 golang-migrate 实例，提供 Up/Down/Steps/Force/
    Version/Status/Info。
  - DatabaseType：数据库方言（postgres/mysql/sqlite）。
  - MigrationStatus / MigrationInfo：单个迁移的状态与整体摘要。
  - CLI：把 Migrator 的结果格式化到 io.Writer，供 genbridge migrate 使用。
*/
package migration
