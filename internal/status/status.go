package status

// MemStatus describes memory usage in bytes.
type MemStatus struct {
	// Total memory in bytes.
	Total uint64 `json:"total"`

	// Free memory in bytes. For RAM this is the available memory rather
	// than strictly free memory, as that is what users expect to see.
	Free uint64 `json:"free"`

	// Used memory in bytes.
	Used uint64 `json:"used"`

	// Usage between zero and one, where one is 100%.
	Usage float32 `json:"usage"`
}

// NewMemStatus calculates the usage fraction from total and used.
func NewMemStatus(total, free, used uint64) MemStatus {
	var usage float32
	if total > 0 {
		usage = float32(used) / float32(total)
	}
	return MemStatus{
		Total: total,
		Free:  free,
		Used:  used,
		Usage: usage,
	}
}

// DiskStatus describes one mounted filesystem.
type DiskStatus struct {
	// Device file, such as /dev/sda1.
	Device string `json:"device"`

	// Filesystem name.
	FileSystem string `json:"file_system"`

	// Total disk space in bytes.
	TotalSpace uint64 `json:"total_space"`

	// Mount point of the disk.
	MountPoint string `json:"mount_point"`

	// Available disk space in bytes.
	AvailableSpace uint64 `json:"available_space"`

	// Usage between zero and one, where one is 100%.
	Usage float32 `json:"usage"`
}

// DeviceStatus is the full telemetry snapshot sent to the client.
type DeviceStatus struct {
	// CPUUsage holds the busy fraction per core, zero to one.
	CPUUsage []float32 `json:"cpu_usage"`

	// MemUsage describes RAM usage.
	MemUsage MemStatus `json:"mem_usage"`

	// SwapUsage describes swap usage; omitted on systems without swap.
	SwapUsage *MemStatus `json:"swap_usage,omitempty"`

	// Disks lists mounted filesystems sorted by device file.
	Disks []DiskStatus `json:"disks"`

	// Uptime is the system uptime in seconds.
	Uptime uint64 `json:"uptime"`

	// LoadAverage holds the 1, 5 and 15 minute load averages.
	LoadAverage [3]float32 `json:"load_average"`
}

// Collector produces telemetry snapshots.
type Collector interface {
	Collect() (*DeviceStatus, error)
}
