// Package main 实现 cinerec 命令行：加载电影 CSV，按类型与年份推荐、按内容找相似电影。
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// 存在 .env 时先加载，CINEREC_ 环境变量可以写在里面
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
