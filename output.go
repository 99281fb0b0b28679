package main

import (
	"FlatDB/internal/application/service"
	"FlatDB/internal/domain"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

func printLookups(w io.Writer, lookups ...domain.Lookup) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tRANK\tCITY\tSTATE\tZIP\tEMPLOYEES")
	for _, l := range lookups {
		r := l.Record
		if r.IsTombstone() {
			fmt.Fprintf(tw, "%d\t%s\t(deleted)\t\t\t\t\n", l.RecordNum, r.Name)
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			l.RecordNum, r.Name, r.Rank, r.City, r.State, r.Zip, r.Employees)
	}
	return tw.Flush()
}

func printVerifyReport(w io.Writer, report service.VerifyReport) {
	s := report.Stats
	fmt.Fprintf(w, "%s: %d sorted, %d unsorted, record size %d\n",
		s.Prefix, s.NumSorted, s.NumUnsorted, s.RecordSize)
	if report.Sorted() {
		fmt.Fprintln(w, "sorted region is in key order")
	} else {
		fmt.Fprintf(w, "out of order records: %s\n", joinInts(report.OrderViolations))
	}
	for _, d := range report.DuplicateKeys {
		fmt.Fprintf(w, "duplicate key %s at records %s\n", d.Key, joinInts(d.RecordNums))
	}
	fmt.Fprintf(w, "%d deleted records\n", report.Tombstones)
}

func printChange(w io.Writer, event domain.ChangeEvent) {
	fmt.Fprintf(w, "%s %s record %d %s\n", event.Kind, event.Prefix, event.RecordNum, event.Record.Name)
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
