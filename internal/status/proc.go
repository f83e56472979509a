package status

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"syscall"
)

// ProcCollector reads telemetry from the Linux proc filesystem.
//
// It keeps the CPU counters of the previous collection so per-core usage
// can be computed as a delta; a mutex guards that state, everything else
// is read fresh on every call.
type ProcCollector struct {
	procPath string

	mu      sync.Mutex
	prevCPU []cpuCounters
}

// cpuCounters are the cumulative jiffies of one core.
type cpuCounters struct {
	busy  uint64
	total uint64
}

// NewProcCollector creates a collector reading from /proc.
func NewProcCollector() *ProcCollector {
	return &ProcCollector{procPath: "/proc"}
}

// Collect gathers a telemetry snapshot.
func (c *ProcCollector) Collect() (*DeviceStatus, error) {
	cpu, err := c.cpuUsage()
	if err != nil {
		return nil, fmt.Errorf("status: reading CPU usage: %w", err)
	}

	mem, swap, err := c.memUsage()
	if err != nil {
		return nil, fmt.Errorf("status: reading memory usage: %w", err)
	}

	disks, err := c.diskUsage()
	if err != nil {
		return nil, fmt.Errorf("status: reading disk usage: %w", err)
	}

	uptime, err := c.uptime()
	if err != nil {
		return nil, fmt.Errorf("status: reading uptime: %w", err)
	}

	loadAvg, err := c.loadAverage()
	if err != nil {
		return nil, fmt.Errorf("status: reading load average: %w", err)
	}

	return &DeviceStatus{
		CPUUsage:    cpu,
		MemUsage:    mem,
		SwapUsage:   swap,
		Disks:       disks,
		Uptime:      uptime,
		LoadAverage: loadAvg,
	}, nil
}

// cpuUsage returns the per-core busy fraction since the previous call.
func (c *ProcCollector) cpuUsage() ([]float32, error) {
	data, err := os.ReadFile(c.procPath + "/stat")
	if err != nil {
		return nil, err
	}
	current := parseCPUCounters(string(data))

	c.mu.Lock()
	prev := c.prevCPU
	c.prevCPU = current
	c.mu.Unlock()

	usage := make([]float32, len(current))
	for i, cur := range current {
		var base cpuCounters
		if i < len(prev) {
			base = prev[i]
		}
		busy := cur.busy - base.busy
		total := cur.total - base.total
		if total > 0 {
			usage[i] = float32(busy) / float32(total)
		}
	}
	return usage, nil
}

// parseCPUCounters extracts per-core counters from /proc/stat content.
// The aggregate "cpu" line is skipped; only "cpuN" lines count.
func parseCPUCounters(stat string) []cpuCounters {
	var counters []cpuCounters
	scanner := bufio.NewScanner(strings.NewReader(stat))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 5 || !strings.HasPrefix(fields[0], "cpu") || fields[0] == "cpu" {
			continue
		}
		// Fields: user nice system idle iowait irq softirq steal ...
		var counter cpuCounters
		for i, field := range fields[1:] {
			v, err := strconv.ParseUint(field, 10, 64)
			if err != nil {
				continue
			}
			counter.total += v
			// idle and iowait are positions 3 and 4
			if i != 3 && i != 4 {
				counter.busy += v
			}
		}
		counters = append(counters, counter)
	}
	return counters
}

// memUsage reads /proc/meminfo. Swap is nil on systems without swap.
func (c *ProcCollector) memUsage() (MemStatus, *MemStatus, error) {
	data, err := os.ReadFile(c.procPath + "/meminfo")
	if err != nil {
		return MemStatus{}, nil, err
	}
	fields := parseMeminfo(string(data))

	total := fields["MemTotal"]
	available := fields["MemAvailable"]
	mem := NewMemStatus(total, available, total-available)

	swapTotal := fields["SwapTotal"]
	if swapTotal == 0 {
		return mem, nil, nil
	}
	swapFree := fields["SwapFree"]
	swap := NewMemStatus(swapTotal, swapFree, swapTotal-swapFree)
	return mem, &swap, nil
}

// parseMeminfo converts "MemTotal:  16384 kB" lines into a byte-valued map.
func parseMeminfo(meminfo string) map[string]uint64 {
	fields := make(map[string]uint64)
	scanner := bufio.NewScanner(strings.NewReader(meminfo))
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) < 2 {
			continue
		}
		name := strings.TrimSuffix(parts[0], ":")
		v, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			continue
		}
		// Values are reported in kibibytes.
		fields[name] = v * 1024
	}
	return fields
}

// diskUsage lists mounted block devices with statfs figures, sorted by
// device file so output is stable between calls.
func (c *ProcCollector) diskUsage() ([]DiskStatus, error) {
	data, err := os.ReadFile(c.procPath + "/mounts")
	if err != nil {
		return nil, err
	}

	disks := []DiskStatus{}
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 || !strings.HasPrefix(fields[0], "/dev/") {
			continue
		}
		device, mountPoint, fsName := fields[0], fields[1], fields[2]

		var fs syscall.Statfs_t
		if err := syscall.Statfs(mountPoint, &fs); err != nil {
			continue
		}
		total := fs.Blocks * uint64(fs.Bsize)
		available := fs.Bavail * uint64(fs.Bsize)

		usage := float32(1.0)
		if total > 0 {
			usage = 1.0 - float32(available)/float32(total)
		}
		disks = append(disks, DiskStatus{
			Device:         device,
			FileSystem:     fsName,
			TotalSpace:     total,
			MountPoint:     mountPoint,
			AvailableSpace: available,
			Usage:          usage,
		})
	}

	sort.Slice(disks, func(i, j int) bool {
		return disks[i].Device < disks[j].Device
	})
	return disks, nil
}

// uptime reads the first value of /proc/uptime, in seconds.
func (c *ProcCollector) uptime() (uint64, error) {
	data, err := os.ReadFile(c.procPath + "/uptime")
	if err != nil {
		return 0, err
	}
	fields := strings.Fields(string(data))
	if len(fields) < 1 {
		return 0, fmt.Errorf("unexpected /proc/uptime content %q", data)
	}
	seconds, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, err
	}
	return uint64(seconds), nil
}

// loadAverage reads the 1, 5 and 15 minute values from /proc/loadavg.
func (c *ProcCollector) loadAverage() ([3]float32, error) {
	var loadAvg [3]float32
	data, err := os.ReadFile(c.procPath + "/loadavg")
	if err != nil {
		return loadAvg, err
	}
	fields := strings.Fields(string(data))
	if len(fields) < 3 {
		return loadAvg, fmt.Errorf("unexpected /proc/loadavg content %q", data)
	}
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return loadAvg, err
		}
		loadAvg[i] = float32(v)
	}
	return loadAvg, nil
}
