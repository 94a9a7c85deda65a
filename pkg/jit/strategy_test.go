package jit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectStrategy(t *testing.T) {
	tests := []struct {
		version string
		method  string
	}{
		{"17.0", MethodMemoryPermissionToggle},
		{"17.4.1", MethodMemoryPermissionToggle},
		{"18.2", MethodMemoryPermissionToggle},
		{"16.7", MethodCsDebuggedFlag},
		{"15.8.3", MethodLegacy},
		{"14.8", MethodGeneric},
		{"unknown", MethodGeneric},
		{"", MethodGeneric},
		{"seventeen", MethodGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			assert.Equal(t, tt.method, SelectStrategy(tt.version).Method)
		})
	}
}

func TestStrategyInstructions(t *testing.T) {
	ins := SelectStrategy("17.0").Instructions()
	assert.Equal(t, true, ins["set_cs_debugged"])
	assert.Contains(t, ins, "memory_regions")

	ins = SelectStrategy("15.0").Instructions()
	assert.Equal(t, true, ins["toggle_wx_memory"])
}
