package service

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"sort"
	"time"
)

// RequestLogLayout is the timestamp layout inside the request log. The
// producer middleware and this parser must agree on the full line shape
const RequestLogLayout = "2006-01-02 15:04:05"

// RequestLogLine renders one request log entry
func RequestLogLine(t time.Time, path, method string) string {
	return fmt.Sprintf("[in %s] INFO: request path='%s' method='%s'", t.Format(RequestLogLayout), path, method)
}

var requestLineRe = regexp.MustCompile(`^\[in (\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})\] INFO: request path='([^']*)' method='([^']*)'`)

// The dashboard shows a trailing window of per-minute request counts
const statsWindowMinutes = 15

type MinuteCount struct {
	Minute string `json:"minute"`
	Count  int    `json:"count"`
}

type PathCount struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

type RequestStats struct {
	Series   []MinuteCount `json:"series"`
	TopPaths []PathCount   `json:"top_paths"`
}

// ReadRequestStats tails the request log and buckets entries per minute
// over the trailing window, ranking the five busiest paths. A missing log
// file yields an all-zero series instead of an error
func ReadRequestStats(path string, now time.Time) (*RequestStats, error) {
	buckets := make(map[string]int, statsWindowMinutes)
	pathCounts := make(map[string]int)

	windowStart := now.Add(-statsWindowMinutes * time.Minute)

	f, err := os.Open(path)
	if err == nil {
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			m := requestLineRe.FindStringSubmatch(scanner.Text())
			if m == nil {
				continue
			}

			ts, err := time.ParseInLocation(RequestLogLayout, m[1], now.Location())
			if err != nil {
				continue
			}

			if ts.Before(windowStart) || ts.After(now) {
				continue
			}

			buckets[ts.Truncate(time.Minute).Format(RequestLogLayout)]++
			pathCounts[m[2]]++
		}

		if err := scanner.Err(); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	stats := &RequestStats{
		Series:   make([]MinuteCount, 0, statsWindowMinutes),
		TopPaths: []PathCount{},
	}

	// Oldest minute first
	for i := statsWindowMinutes - 1; i >= 0; i-- {
		minute := now.Add(-time.Duration(i) * time.Minute).Truncate(time.Minute)
		key := minute.Format(RequestLogLayout)

		stats.Series = append(stats.Series, MinuteCount{
			Minute: key,
			Count:  buckets[key],
		})
	}

	for p, n := range pathCounts {
		stats.TopPaths = append(stats.TopPaths, PathCount{Path: p, Count: n})
	}

	sort.Slice(stats.TopPaths, func(i, j int) bool {
		if stats.TopPaths[i].Count != stats.TopPaths[j].Count {
			return stats.TopPaths[i].Count > stats.TopPaths[j].Count
		}
		return stats.TopPaths[i].Path < stats.TopPaths[j].Path
	})

	if len(stats.TopPaths) > 5 {
		stats.TopPaths = stats.TopPaths[:5]
	}

	return stats, nil
}
