package main

import (
	"encoding/json"
	"fmt"
	"strconv"
)

var acceptedJobClasses = map[string]bool{
	"StatsWorker": true,
	"GoWorker":    true,
}

// parseInt64 extracts an int64 from a Sidekiq payload argument that may be encoded
// either as a JSON number or as a quoted string.
func parseInt64(raw json.RawMessage) (int64, error) {
	var asNumber int64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return asNumber, nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if asString == "" {
			return 0, fmt.Errorf("empty string")
		}
		return strconv.ParseInt(asString, 10, 64)
	}

	return 0, fmt.Errorf("unsupported arg: %s", string(raw))
}

// jobTestRunID returns the test run a job asks for, or an error saying why
// the job cannot be processed.
func jobTestRunID(job *sidekiqJob) (int64, error) {
	if !acceptedJobClasses[job.Class] {
		return 0, fmt.Errorf("unsupported job class %q", job.Class)
	}
	if len(job.Args) == 0 {
		return 0, fmt.Errorf("job missing test_run_id")
	}
	id, err := parseInt64(job.Args[0])
	if err != nil {
		return 0, fmt.Errorf("job test_run_id: %w", err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("job test_run_id must be positive, got %d", id)
	}
	return id, nil
}
