package eventbus

// defaultBufSize 订阅缓冲区默认大小
const defaultBufSize = 16

// settings 订阅设置
type settings struct {
	bufSize int
}

// Option 订阅选项
type Option func(*settings)

// BufSize 设置订阅缓冲区大小，不大于 0 时使用默认值
func BufSize(size int) Option {
	return func(s *settings) {
		if size > 0 {
			s.bufSize = size
		}
	}
}
