package ordered

import "go.uber.org/zap"

type config struct {
	coin     Coin
	logger   *zap.Logger
	capacity int
}

// Option 設定 List 的建構參數
type Option func(*config)

// WithSeed 以固定 seed 產生層級，方便重現結構
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.coin = NewRandCoin(seed)
	}
}

// WithCoin 注入層級策略使用的亂數來源
func WithCoin(coin Coin) Option {
	return func(c *config) {
		if coin != nil {
			c.coin = coin
		}
	}
}

// WithLogger 設定結構變化（高度增減、Clear）的 debug log
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCapacity 預先配置 n 個節點的 arena 空間
func WithCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.capacity = n
		}
	}
}
