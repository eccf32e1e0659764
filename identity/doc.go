// Copyright (c) GenBridge Authors.
// Licensed under the MIT License.

/*
Package identity 提供身份会话协作者。

# 概述

Session 只暴露调用方需要的三样东西：一个就绪信号、当前 token 和用户资料。
登录、登出与 token 刷新由外部身份 SDK 负责，本包只接收其结果。

# 核心类型

  - Settings：client_id、scope、environment、locale 等身份 SDK 配置
  - TokenInfo：访问 token 及可选过期时间
  - Profile：用户资料
  - Session：就绪信号 + token/profile 存取 + 凭证头构造

# 过期判断

Expired 先以不校验签名的方式读取 JWT 的 exp 声明，
读取失败或无 exp 时回退到 TokenInfo.ExpiresAt。
*/
package identity
