package logger

import (
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

// TestProgressBarRender verifies correct ASCII bar rendering
func TestProgressBarRender(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		total    int
		width    int
		expected string
	}{
		{name: "empty progress", current: 0, total: 10, width: 10, expected: "[          ] 0/10 (0%)"},
		{name: "half progress", current: 5, total: 10, width: 10, expected: "[=====     ] 5/10 (50%)"},
		{name: "full progress", current: 10, total: 10, width: 10, expected: "[==========] 10/10 (100%)"},
		{name: "quarter progress", current: 2, total: 8, width: 8, expected: "[==      ] 2/8 (25%)"},
		{name: "large width", current: 30, total: 100, width: 20, expected: "[======              ] 30/100 (30%)"},
		{name: "overflow clamps", current: 12, total: 10, width: 10, expected: "[==========] 12/10 (100%)"},
		{name: "zero total", current: 0, total: 0, width: 4, expected: "[    ] 0/0 (0%)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pb := NewProgressBar(tt.total, tt.width, false)
			pb.Update(tt.current)
			assert.Equal(t, tt.expected, pb.Render())
		})
	}
}

func TestProgressBarDefaultWidth(t *testing.T) {
	pb := NewProgressBar(2, 0, false)
	pb.Update(1)
	assert.Equal(t, "[=====     ] 1/2 (50%)", pb.Render())
}

func TestProgressBarColors(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = prev })

	pb := NewProgressBar(10, 10, true)
	pb.Update(5)
	assert.Contains(t, pb.Render(), "\033[")

	plain := NewProgressBar(10, 10, false)
	plain.Update(5)
	assert.NotContains(t, plain.Render(), "\033[")
}

func TestProgressBarNegativeClamps(t *testing.T) {
	pb := NewProgressBar(3, 3, false)
	pb.Update(-1)
	assert.Equal(t, "[   ] -1/3 (0%)", pb.Render())
}

// TestProgressBarConcurrency tests thread-safe concurrent updates
func TestProgressBarConcurrency(t *testing.T) {
	pb := NewProgressBar(100, 10, false)
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				pb.Update(j + 1)
				_ = pb.Render()
			}
		}()
	}

	wg.Wait()
	pb.Update(100)
	assert.True(t, strings.HasSuffix(pb.Render(), "(100%)"))
}
