package ratelimit

import "testing"

func TestAllowRespectsBurst(t *testing.T) {
	krl := New(1, 3)
	defer krl.Stop()

	for i := 0; i < 3; i++ {
		if !krl.Allow("10.0.0.1") {
			t.Fatalf("request %d within burst should be allowed", i+1)
		}
	}
	if krl.Allow("10.0.0.1") {
		t.Error("request beyond burst should be denied")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	krl := New(1, 1)
	defer krl.Stop()

	if !krl.Allow("10.0.0.1") {
		t.Fatal("first key should be allowed")
	}
	if krl.Allow("10.0.0.1") {
		t.Error("first key should now be limited")
	}
	if !krl.Allow("10.0.0.2") {
		t.Error("a different key gets its own bucket")
	}
}
