// Copyright (c) GenBridge Authors.
// Licensed under the MIT License.

/*
Package thirdparty 适配第三方图像/视频模型网关（flux、imagen、gemini-flash、
veo、pika、luma 等）。

提交接口返回 links.result.href，任务 id 取自 /jobs/result/<id> 后缀；
状态查询结果按 contentType 与 progress 字段分类为进行中、图像、视频或未知。
GenerateImageAndWait / GenerateVideoAndWait 组合提交、轮询与类型校验。
*/
package thirdparty
