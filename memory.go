package main

import (
	"bufio"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"descriptive_stats/report"
)

const samplingInterval = 10 * time.Millisecond

var rssBytesFunc = rssBytes

// runMetrics is what one analysis cost.
type runMetrics struct {
	Duration time.Duration
	PeakRSS  float64
}

// measureRun runs fn while sampling resident memory and reports the elapsed
// time and the highest reading seen.
func measureRun(fn func() (report.Document, error)) (report.Document, runMetrics, error) {
	baseline := rssBytesFunc()
	peak := baseline

	stop := make(chan struct{})
	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(samplingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				current := rssBytesFunc()
				mu.Lock()
				if current > peak {
					peak = current
				}
				mu.Unlock()
			case <-stop:
				return
			}
		}
	}()

	start := time.Now()
	doc, err := fn()
	elapsed := time.Since(start)
	close(stop)
	wg.Wait()

	if final := rssBytesFunc(); final > peak {
		peak = final
	}
	return doc, runMetrics{Duration: elapsed, PeakRSS: peak}, err
}

func rssBytes() float64 {
	if runtime.GOOS == "linux" {
		if v := rssFromProcStatm(); v > 0 {
			return v
		}
		if v := rssFromProcStatus(); v > 0 {
			return v
		}
	}
	// best available figure elsewhere: memory obtained from the OS by the runtime
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return float64(ms.Sys)
}

func rssFromProcStatm() float64 {
	data, err := os.ReadFile("/proc/self/statm")
	if err != nil {
		return 0
	}
	fields := strings.Fields(string(data))
	if len(fields) < 2 {
		return 0
	}
	pages, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0
	}
	return float64(pages * uint64(os.Getpagesize()))
}

func rssFromProcStatus() float64 {
	file, err := os.Open("/proc/self/status")
	if err != nil {
		return 0
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || fields[0] != "VmRSS:" {
			continue
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return 0
		}
		return float64(kb * 1024)
	}
	return 0
}
