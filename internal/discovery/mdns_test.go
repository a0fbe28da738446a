// ABOUTME: Tests for mDNS advertisement
// ABOUTME: Manager construction and local IP enumeration
package discovery

import (
	"testing"
)

func TestNewManager(t *testing.T) {
	config := Config{
		PlayerName: "Test Player",
		Port:       8942,
	}

	mgr := NewManager(config)
	if mgr == nil {
		t.Fatal("expected manager to be created")
	}
	mgr.Stop()
}

func TestGetLocalIPs(t *testing.T) {
	ips, err := getLocalIPs()
	if err != nil {
		t.Fatalf("getLocalIPs failed: %v", err)
	}

	for _, ip := range ips {
		if ip.To4() == nil {
			t.Errorf("expected only IPv4 addresses, got %s", ip)
		}
		if ip.IsLoopback() {
			t.Errorf("loopback address %s should be excluded", ip)
		}
	}
}
