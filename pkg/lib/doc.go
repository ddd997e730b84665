// Package lib 包含基础设施工具库
//
// 本目录包含与协议组件无关的通用工具库：
//
//   - codec: 规范二进制编码（版本 + 对象类型 + protowire 消息体）
//   - crypto: 密码学原语（密钥、域分隔签名）
//   - log: 日志封装
//
// # 与 pkg/ 其他目录的关系
//
//   - interfaces/: 外部协作方接口（传输、账本、持久化）
//   - types/: 公共类型定义（名字、地址、金额、错误分类）
//   - archive/: 文件归档
//   - lib/: 基础设施工具库（本目录）
//
// # 使用示例
//
//	import (
//	    "github.com/dep2p/go-dsn/pkg/lib/codec"
//	    "github.com/dep2p/go-dsn/pkg/lib/crypto"
//	    "github.com/dep2p/go-dsn/pkg/lib/log"
//	)
package lib
