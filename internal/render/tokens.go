package render

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/tiktoken-go/tokenizer"

	"github.com/phobologic/repodigest/internal/model"
)

// Counter counts model tokens in a text.
type Counter interface {
	Count(text string) (int, error)
}

// CounterFunc adapts a function to Counter.
type CounterFunc func(text string) (int, error)

// Count calls f.
func (f CounterFunc) Count(text string) (int, error) {
	return f(text)
}

// cl100k counts tokens with the cl100k_base BPE. The codec is loaded on
// first use and shared.
type cl100k struct {
	once  sync.Once
	codec tokenizer.Codec
	err   error
}

func (c *cl100k) Count(text string) (int, error) {
	c.once.Do(func() {
		c.codec, c.err = tokenizer.Get(tokenizer.Cl100kBase)
	})
	if c.err != nil {
		return 0, fmt.Errorf("loading cl100k_base: %w", c.err)
	}
	ids, _, err := c.codec.Encode(text)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// DefaultCounter is the cl100k-compatible counter used by Render.
var DefaultCounter Counter = &cl100k{}

// countTokens never fails: errors and panics from the tokenizer produce an
// unavailable count.
func countTokens(c Counter, text string) (tc model.TokenCount) {
	if c == nil {
		return tc
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Default().Warn("token counting panicked", "component", "render", "panic", r)
			tc = model.TokenCount{}
		}
	}()
	n, err := c.Count(text)
	if err != nil {
		slog.Default().Warn("token counting failed", "component", "render", "err", err)
		return model.TokenCount{}
	}
	return model.TokenCount{N: n, OK: true}
}
