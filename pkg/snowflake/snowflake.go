package snowflake

import "github.com/bwmarrin/snowflake"

var node *snowflake.Node

func init() {
	node, _ = snowflake.NewNode(1)
}

// GenID 积分流水、打卡记录共用的全局递增 ID
func GenID() int64 {
	return node.Generate().Int64()
}

// GenString 字符串形式的 ID，用于对外暴露
func GenString() string {
	return node.Generate().String()
}
