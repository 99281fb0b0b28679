package main

import (
	"FlatDB/internal/platform/api/zmq"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type RequestResult struct {
	Duration time.Duration
	Success  bool
	TimedOut bool
}

type BenchmarkStats struct {
	TotalRequests      int64
	SuccessfulRequests int64
	TimeoutRequests    int64
	ErrorRequests      int64
	ResponseTimes      []time.Duration
	StartTime          time.Time
	EndTime            time.Time
	mu                 sync.Mutex
}

func (b *BenchmarkStats) AddResult(result RequestResult) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.TotalRequests++
	switch {
	case result.TimedOut:
		b.TimeoutRequests++
	case result.Success:
		b.SuccessfulRequests++
	default:
		b.ErrorRequests++
	}
	b.ResponseTimes = append(b.ResponseTimes, result.Duration)
}

func (b *BenchmarkStats) CalculatePercentiles() map[string]time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.ResponseTimes) == 0 {
		return make(map[string]time.Duration)
	}
	sort.Slice(b.ResponseTimes, func(i, j int) bool {
		return b.ResponseTimes[i] < b.ResponseTimes[j]
	})
	at := func(q float64) time.Duration {
		return b.ResponseTimes[int(float64(len(b.ResponseTimes)-1)*q)]
	}
	return map[string]time.Duration{
		"p50": at(0.50),
		"p90": at(0.90),
		"p99": at(0.99),
	}
}

func (b *BenchmarkStats) GetRPS() float64 {
	duration := b.EndTime.Sub(b.StartTime).Seconds()
	if duration == 0 {
		return 0
	}
	return float64(b.TotalRequests) / duration
}

func (b *BenchmarkStats) GetSuccessRate() float64 {
	if b.TotalRequests == 0 {
		return 0
	}
	return float64(b.SuccessfulRequests) / float64(b.TotalRequests) * 100
}

// loadNames reads every key of the database so workers can look them up.
func loadNames(client *zmq.ZmqClient) ([]string, error) {
	resp, err := client.SendRequest(zmq.ApiRequest{Action: zmq.STATS})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, errors.New(resp.Error)
	}
	names := make([]string, 0, resp.Stats.NumRecords)
	for i := 0; i < resp.Stats.NumRecords; i++ {
		r, err := client.SendRequest(zmq.ApiRequest{Action: zmq.READ, RecordNum: i})
		if err != nil {
			return nil, err
		}
		if r.Success && r.Record.Record.Name != "" {
			names = append(names, r.Record.Record.Name)
		}
	}
	return names, nil
}

// prepare fills in what an action needs before it is timed. An UPDATE
// writes back the current fields of the record, fetched with a FIND.
func prepare(client *zmq.ZmqClient, req zmq.ApiRequest, numRecords int) (zmq.ApiRequest, error) {
	switch req.Action {
	case zmq.READ:
		req.RecordNum = rand.Intn(numRecords)
	case zmq.UPDATE:
		current, err := client.SendRequest(zmq.ApiRequest{Action: zmq.FIND, Name: req.Name})
		if err != nil {
			return req, err
		}
		if !current.Success {
			return req, errors.Errorf("find %s: %s", req.Name, current.Error)
		}
		req.Record = current.Record.Record
	}
	return req, nil
}

// worker mixes lookups by name, reads by record number and rewrites of a
// record with its own current fields, so the database ends unchanged.
func worker(id int, address string, timeout, duration time.Duration, names []string,
	stats *BenchmarkStats, wg *sync.WaitGroup) {
	defer wg.Done()

	client, err := zmq.NewZmqClient(address, timeout)
	if err != nil {
		logrus.WithError(err).WithField("worker", id).Error("create client")
		return
	}
	defer client.Close()

	actions := []string{zmq.FIND, zmq.FIND, zmq.READ, zmq.UPDATE}
	endTime := time.Now().Add(duration)
	for time.Now().Before(endTime) {
		req := zmq.ApiRequest{
			Action: actions[rand.Intn(len(actions))],
			Name:   names[rand.Intn(len(names))],
		}
		req, err := prepare(client, req, len(names))
		if errors.Is(err, zmq.ErrRequestTimeout) {
			stats.AddResult(RequestResult{TimedOut: true})
			logrus.WithField("worker", id).Warn("request timed out, stopping worker")
			return
		}
		if err != nil {
			continue
		}

		start := time.Now()
		resp, err := client.SendRequest(req)
		stats.AddResult(RequestResult{
			Duration: time.Since(start),
			Success:  err == nil && resp.Success,
			TimedOut: errors.Is(err, zmq.ErrRequestTimeout),
		})
		if errors.Is(err, zmq.ErrRequestTimeout) {
			// A REQ socket that missed a reply cannot send again.
			logrus.WithField("worker", id).Warn("request timed out, stopping worker")
			return
		}
	}
}

func printResults(stats *BenchmarkStats) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("BENCHMARK RESULTS")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("Duration: %v\n", stats.EndTime.Sub(stats.StartTime))
	fmt.Printf("Total Requests: %d\n", stats.TotalRequests)
	fmt.Printf("Successful Requests: %d\n", stats.SuccessfulRequests)
	fmt.Printf("Failed Requests: %d\n", stats.ErrorRequests)
	fmt.Printf("Timeout Requests: %d\n", stats.TimeoutRequests)
	fmt.Printf("Success Rate: %.2f%%\n", stats.GetSuccessRate())
	fmt.Printf("RPS: %.2f\n", stats.GetRPS())

	percentiles := stats.CalculatePercentiles()
	for _, p := range []string{"p50", "p90", "p99"} {
		if d, ok := percentiles[p]; ok {
			fmt.Printf("%s: %v\n", p, d)
		}
	}

	if n := len(stats.ResponseTimes); n > 0 {
		var sum time.Duration
		for _, rt := range stats.ResponseTimes {
			sum += rt
		}
		avg := sum / time.Duration(n)
		var variance float64
		for _, rt := range stats.ResponseTimes {
			diff := float64(rt - avg)
			variance += diff * diff
		}
		fmt.Printf("Average: %v, stddev: %v, min: %v, max: %v\n",
			avg, time.Duration(math.Sqrt(variance/float64(n))),
			stats.ResponseTimes[0], stats.ResponseTimes[n-1])
	}
	fmt.Println(strings.Repeat("=", 60))
}

func main() {
	var (
		address  = flag.String("address", "tcp://localhost:5555", "flatdb ZMQ API address")
		workers  = flag.Int("workers", 10, "Number of worker goroutines")
		duration = flag.Duration("duration", 30*time.Second, "Test duration")
		timeout  = flag.Duration("timeout", 5*time.Second, "Request timeout")
	)
	flag.Parse()

	setup, err := zmq.NewZmqClient(*address, *timeout)
	if err != nil {
		logrus.Fatal(err)
	}
	names, err := loadNames(setup)
	setup.Close()
	if err != nil {
		logrus.Fatal(err)
	}
	if len(names) == 0 {
		logrus.Fatal("database has no records")
	}
	logrus.WithFields(logrus.Fields{
		"workers":  *workers,
		"duration": *duration,
		"records":  len(names),
	}).Info("starting benchmark")

	stats := &BenchmarkStats{StartTime: time.Now()}
	var wg sync.WaitGroup
	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go worker(i, *address, *timeout, *duration, names, stats, &wg)
	}
	wg.Wait()
	stats.EndTime = time.Now()

	printResults(stats)
}
