// Package jit selects the enablement method for a reported iOS version and
// runs it against the external enablement capability.
package jit

import (
	"strconv"
	"strings"
)

// Method names as they appear on the wire and in session records
const (
	MethodMemoryPermissionToggle = "memory_permission_toggle"
	MethodCsDebuggedFlag         = "cs_debugged_flag"
	MethodLegacy                 = "legacy"
	MethodGeneric                = "generic"
)

// Strategy describes one named enablement procedure and the client-side
// instructions that go with it
type Strategy struct {
	Method string
}

// Instructions returns the method-specific payload the client needs to apply
// on its side.
func (s *Strategy) Instructions() map[string]any {
	switch s.Method {
	case MethodMemoryPermissionToggle:
		return map[string]any{
			"set_cs_debugged": true,
			"memory_regions": []map[string]string{
				{"address": "dynamic", "size": "dynamic", "permissions": "rwx"},
			},
		}
	case MethodCsDebuggedFlag:
		return map[string]any{
			"set_cs_debugged":  true,
			"toggle_wx_memory": false,
		}
	case MethodLegacy:
		return map[string]any{
			"set_cs_debugged":  true,
			"toggle_wx_memory": true,
		}
	default:
		return map[string]any{
			"set_cs_debugged":  true,
			"toggle_wx_memory": true,
		}
	}
}

// SelectStrategy maps a reported OS version to a strategy. Unknown or
// unparseable versions fall back to the generic strategy, it never fails.
func SelectStrategy(osVersion string) *Strategy {
	major, err := strconv.Atoi(strings.SplitN(osVersion, ".", 2)[0])
	if err != nil {
		return &Strategy{Method: MethodGeneric}
	}

	switch {
	case major >= 17:
		return &Strategy{Method: MethodMemoryPermissionToggle}
	case major == 16:
		return &Strategy{Method: MethodCsDebuggedFlag}
	case major == 15:
		return &Strategy{Method: MethodLegacy}
	default:
		return &Strategy{Method: MethodGeneric}
	}
}
