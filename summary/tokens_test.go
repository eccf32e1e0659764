package summary

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestEstimatorCounter(t *testing.T) {
	c := EstimatorCounter{}
	assert.Equal(t, 0, c.CountTokens(""))
	assert.Equal(t, 1, c.CountTokens("a"))
	assert.Equal(t, 2, c.CountTokens("abcdefgh"))
	assert.Equal(t, 2, c.CountTokens("打印机"))
}

func TestEncodingForModel(t *testing.T) {
	assert.Equal(t, "o200k_base", EncodingForModel("gpt-5"))
	assert.Equal(t, "o200k_base", EncodingForModel("gpt-4o-mini"))
	assert.Equal(t, "cl100k_base", EncodingForModel("gpt-4"))
	assert.Equal(t, "cl100k_base", EncodingForModel("unknown"))
}

func TestTruncate_NoBudget(t *testing.T) {
	out, cut := Truncate(EstimatorCounter{}, "hello world", 0)
	assert.Equal(t, "hello world", out)
	assert.False(t, cut)
}

// ===== 🧪 属性测试 =====

func TestProperty_TruncateFitsBudget(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.String().Draw(t, "text")
		budget := rapid.IntRange(1, 50).Draw(t, "budget")
		c := EstimatorCounter{}

		out, cut := Truncate(c, text, budget)
		if !utf8.ValidString(text) {
			return
		}
		if cut {
			if c.CountTokens(out) > budget {
				t.Fatalf("truncated text uses %d tokens, budget %d", c.CountTokens(out), budget)
			}
			if len(out) >= len(text) || text[:len(out)] != out {
				t.Fatalf("output is not a strict prefix")
			}
		} else if out != text {
			t.Fatalf("untruncated text changed")
		}
	})
}
