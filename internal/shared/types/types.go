package types

import (
	"context"

	"cafe_task/internal/payload"
)

// TaskInput 是传给业务逻辑的一次任务调用的输入。
type TaskInput struct {
	Params   *payload.Map // 宿主下发的原始参数
	URL      string       // Params 中的 "url" 字段, 缺失时为空
	ProxyURL string       // socks5://cred@host:port, 无凭证时为空
}

// Processor is the business-logic slot of a task invocation. The returned map is
// pushed to the host as the success payload; a returned error triggers the
// failure payload.
type Processor interface {
	Process(ctx context.Context, in TaskInput) (*payload.Map, error)
}

// ProcessorFunc adapts a plain function to the Processor interface.
type ProcessorFunc func(ctx context.Context, in TaskInput) (*payload.Map, error)

func (f ProcessorFunc) Process(ctx context.Context, in TaskInput) (*payload.Map, error) {
	return f(ctx, in)
}
