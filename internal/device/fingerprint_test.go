package device

import (
	"errors"
	"runtime"
	"testing"

	"github.com/jaypipes/ghw"
	"github.com/jaypipes/ghw/pkg/cpu"
)

func fakeFingerprinter(id string, idErr, hwErr error) *Fingerprinter {
	return &Fingerprinter{
		machineID: func() (string, error) { return id, idErr },
		cpu: func() (*ghw.CPUInfo, error) {
			if hwErr != nil {
				return nil, hwErr
			}
			return &ghw.CPUInfo{Processors: []*cpu.Processor{{Model: "Test CPU", Vendor: "Acme"}}}, nil
		},
		memory: func() (*ghw.MemoryInfo, error) {
			if hwErr != nil {
				return nil, hwErr
			}
			info := &ghw.MemoryInfo{}
			info.TotalPhysicalBytes = 8 << 30
			return info, nil
		},
	}
}

func TestGetHostInfo(t *testing.T) {
	f := fakeFingerprinter("abc123", nil, nil)
	info, err := f.GetHostInfo()
	if err != nil {
		t.Fatalf("GetHostInfo() error = %v", err)
	}
	if len(info.HostID) != 16 {
		t.Errorf("HostID length = %d, want 16", len(info.HostID))
	}
	if info.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Errorf("Platform = %q", info.Platform)
	}
	if info.Fingerprint["cpu_model"] != "Test CPU" {
		t.Errorf("cpu_model = %q", info.Fingerprint["cpu_model"])
	}
	if info.Fingerprint["total_memory"] != "8589934592" {
		t.Errorf("total_memory = %q", info.Fingerprint["total_memory"])
	}

	again, _ := fakeFingerprinter("abc123", nil, nil).GetHostInfo()
	if again.HostID != info.HostID {
		t.Error("HostID is not stable for the same machine")
	}
	other, _ := fakeFingerprinter("def456", nil, nil).GetHostInfo()
	if other.HostID == info.HostID {
		t.Error("different machines share a HostID")
	}
}

func TestGetHostInfo_HardwareUnavailable(t *testing.T) {
	info, err := fakeFingerprinter("abc123", nil, errors.New("no /sys")).GetHostInfo()
	if err != nil {
		t.Fatalf("GetHostInfo() error = %v", err)
	}
	if _, ok := info.Fingerprint["cpu_model"]; ok {
		t.Error("cpu_model reported without CPU info")
	}
	if info.HostID == "" {
		t.Error("HostID empty")
	}
}

func TestHostID_MachineIDFailure(t *testing.T) {
	id, err := fakeFingerprinter("", errors.New("no machine id"), nil).HostID()
	if err == nil {
		t.Error("HostID() should report the machine ID failure")
	}
	if id != UnknownHost {
		t.Errorf("HostID() = %q, want %q", id, UnknownHost)
	}
}
