package util

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// SysInfo 进程与主机内存信息
type SysInfo struct {
	GOOS             string  `json:"goos"`
	NumGoroutine     int     `json:"numGoroutine"`
	ProcessRSS       uint64  `json:"processRss"`
	HostMemTotal     uint64  `json:"hostMemTotal"`
	HostMemUsedRatio float64 `json:"hostMemUsedPercent"`
}

// GetSysInfo collects memory figures; fields that cannot be read stay zero
// GetSysInfo 采集内存信息，无法读取的字段保持零值
func GetSysInfo() SysInfo {
	info := SysInfo{
		GOOS:         runtime.GOOS,
		NumGoroutine: runtime.NumGoroutine(),
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.HostMemTotal = vm.Total
		info.HostMemUsedRatio = vm.UsedPercent
	}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mi, err := p.MemoryInfo(); err == nil {
			info.ProcessRSS = mi.RSS
		}
	}
	return info
}
