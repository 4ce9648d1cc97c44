package rt_test

import (
	"testing"

	"github.com/shadcore/shad/rt"
	"github.com/shadcore/shad/rtcfg"
)

func TestPolicyOrDefaultHonorsConfig(t *testing.T) {
	saved := rtcfg.Global()
	defer rtcfg.SetGlobal(saved)

	cfg := *saved
	cfg.DefaultPolicyParallel = false
	rtcfg.SetGlobal(&cfg)
	if got := rt.PolicyOrDefault(nil); got != rt.Sequential {
		t.Fatalf("DefaultPolicyParallel=false: PolicyOrDefault(nil) = %v, want Sequential", got)
	}

	cfg2 := *saved
	cfg2.DefaultPolicyParallel = true
	rtcfg.SetGlobal(&cfg2)
	if got := rt.PolicyOrDefault(nil); got != rt.Parallel {
		t.Fatalf("DefaultPolicyParallel=true: PolicyOrDefault(nil) = %v, want Parallel", got)
	}

	if got := rt.PolicyOrDefault([]rt.Policy{rt.Sequential}); got != rt.Sequential {
		t.Fatalf("explicit policy overrides config default: got %v, want Sequential", got)
	}
}
