package device

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/denisbrodbeck/machineid"
	"github.com/jaypipes/ghw"
)

// UnknownHost is reported when the machine cannot be fingerprinted.
const UnknownHost = "unknown"

// HostInfo identifies the machine a run executed on. It is recorded alongside
// mirrored artifacts so an operator can tell which host produced them.
type HostInfo struct {
	HostID      string            // Short hardware hash
	Platform    string            // GOOS/GOARCH
	Hostname    string
	Fingerprint map[string]string // CPU and memory details
}

// Fingerprinter generates device-specific information
type Fingerprinter struct {
	machineID func() (string, error)
	cpu       func() (*ghw.CPUInfo, error)
	memory    func() (*ghw.MemoryInfo, error)
}

// New creates a Fingerprinter backed by the real machine.
func New() *Fingerprinter {
	return &Fingerprinter{
		machineID: func() (string, error) { return machineid.ProtectedID("medcrypt") },
		cpu:       func() (*ghw.CPUInfo, error) { return ghw.CPU() },
		memory:    func() (*ghw.MemoryInfo, error) { return ghw.Memory() },
	}
}

// GetHostInfo collects hardware information. The machine ID is only used
// through an app-specific HMAC, never reported raw.
func (f *Fingerprinter) GetHostInfo() (HostInfo, error) {
	machineID, err := f.machineID()
	if err != nil {
		return HostInfo{}, fmt.Errorf("failed to get machine ID: %w", err)
	}

	fingerprints := map[string]string{
		"os":   runtime.GOOS,
		"arch": runtime.GOARCH,
	}
	hashInput := []string{machineID, runtime.GOOS, runtime.GOARCH}

	// CPU and memory are best-effort; containers often hide them.
	if cpu, err := f.cpu(); err == nil && cpu != nil && len(cpu.Processors) > 0 {
		fingerprints["cpu_model"] = cpu.Processors[0].Model
		fingerprints["cpu_vendor"] = cpu.Processors[0].Vendor
		hashInput = append(hashInput, cpu.Processors[0].Model)
	}
	if memory, err := f.memory(); err == nil && memory != nil {
		fingerprints["total_memory"] = fmt.Sprintf("%d", memory.TotalPhysicalBytes)
		hashInput = append(hashInput, fmt.Sprintf("%d", memory.TotalPhysicalBytes))
	}

	return HostInfo{
		HostID:      generateHash(strings.Join(hashInput, "|"))[:16],
		Platform:    fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		Hostname:    getHostname(),
		Fingerprint: fingerprints,
	}, nil
}

// HostID returns the short host identifier, or UnknownHost on failure.
func (f *Fingerprinter) HostID() (string, error) {
	info, err := f.GetHostInfo()
	if err != nil {
		return UnknownHost, err
	}
	return info.HostID, nil
}

func generateHash(input string) string {
	hash := sha256.New()
	hash.Write([]byte(input))
	return hex.EncodeToString(hash.Sum(nil))
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return UnknownHost
	}
	return hostname
}
