package metrics

// Stats 写入统计快照
//
// Accepted/Rejected 统计记录校验的通过与拒绝次数，
// AcceptedBytes 是被接受写入的累计字节数，
// ByteRate 是最近 60 秒被接受字节的平均速率（字节/秒）。
type Stats struct {
	Accepted      int64   // 校验通过次数
	Rejected      int64   // 校验拒绝次数
	AcceptedBytes int64   // 被接受写入的累计字节
	ByteRate      float64 // 最近 60 秒平均速率
}
