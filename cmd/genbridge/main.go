// =============================================================================
// GenBridge 命令行入口
// =============================================================================
//
// 使用方法:
//
//	genbridge apis                                  # 列出已注册的 API
//	genbridge summarize --file article.json         # 生成文章摘要
//	genbridge summarize feedback <article> up       # 记录反馈
//	genbridge stock search "red car" --limit 10     # Stock 搜索
//	genbridge generate image "a cat" --wait         # 3P 网关生成图片
//	genbridge generate video "waves" --wait         # 3P 网关生成视频
//	genbridge firefly generate "a cat" --version v3 # Firefly 生成图片
//	genbridge migrate up                            # 执行数据库迁移
//	genbridge version                               # 显示版本信息
// =============================================================================
package main

import (
	"fmt"
	"os"
)

// 版本信息（构建时注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	a := &app{}
	err := newRootCmd(a).Execute()
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
