// Package divelog replays a recorded dive computer log against the ZHL-16
// engine to find how close the diver came to their ascent ceiling, and how
// far short of it they stayed. It parses the Shearwater XML log format
// purely to feed that replay; it is not a general dive-plan serialization
// format.
package divelog

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/the-emerald/capra/gas"
	"github.com/the-emerald/capra/segment"
	"github.com/the-emerald/capra/units"
	"github.com/the-emerald/capra/zhl16"
)

// Sample is one recorded point of a dive log: elapsed time since the start
// of the dive, depth, and the average ppO2 over the sampling interval (used
// only for diagnostics, not fed into the model).
type Sample struct {
	Offset time.Duration
	Depth  units.Depth
	PPO2   float64
}

// swLogRecord mirrors one <diveLogRecord> entry of a Shearwater XML log.
type swLogRecord struct {
	Time        int     `xml:"currentTime"`
	Depth       float64 `xml:"currentDepth"`
	AveragePPO2 float64 `xml:"averagePPO2"`
}

type swLogRecords struct {
	Record []swLogRecord `xml:"diveLogRecord"`
}

type swLog struct {
	DiveLogRecords swLogRecords `xml:"diveLogRecords"`
}

type swDive struct {
	XMLName xml.Name `xml:"dive"`
	DiveLog swLog    `xml:"diveLog"`
}

// ParseShearwaterXML parses a Shearwater dive-log XML document into a flat
// list of samples, in the order the records appear in the document; they
// are not sorted by elapsed time.
func ParseShearwaterXML(r io.Reader) ([]Sample, error) {
	d := xml.NewDecoder(bufio.NewReader(r))

	var dive swDive
	if err := d.Decode(&dive); err != nil {
		return nil, fmt.Errorf("divelog: decode Shearwater XML: %w", err)
	}

	records := dive.DiveLog.DiveLogRecords.Record
	samples := make([]Sample, len(records))
	for i, r := range records {
		samples[i] = Sample{
			Offset: time.Duration(r.Time) * time.Second,
			Depth:  units.Depth(math.Round(r.Depth)),
			PPO2:   r.AveragePPO2,
		}
	}
	return samples, nil
}

// ReplayResult summarizes how a recorded log compares to the model's
// computed ascent ceiling: the closest the diver came to violating it
// (MinClearance, which is negative if they actually did), and the most
// conservative moment of the dive (MaxClearance).
type ReplayResult struct {
	MaxClearance units.Pressure
	MinClearance units.Pressure
	Violated     bool
}

// Replay drives the engine through a recorded log, applying a flat segment
// per sample interval (the log's resolution is usually much finer than a
// whole minute, unlike a planned dive's segments) and tracking the gap
// between ambient pressure and the model's ascent ceiling at each sample.
func Replay(engine zhl16.Engine, samples []Sample, g gas.Gas, env units.Environment) ReplayResult {
	var result ReplayResult
	first := true

	e := engine.Copy()
	lastOffset := time.Duration(0)
	for _, s := range samples {
		interval := s.Offset - lastOffset
		if interval < 0 {
			interval = 0
		}
		lastOffset = s.Offset

		seg, err := segment.New(segment.Bottom, s.Depth, s.Depth, units.Duration(interval.Seconds()), 0, 0)
		if err != nil {
			continue
		}
		e = e.Apply(seg, g, env)

		ceiling := e.AscentCeiling(nil)
		clearance := env.Pressure(s.Depth) - ceiling
		if clearance < 0 {
			result.Violated = true
		}
		if first || clearance > result.MaxClearance {
			result.MaxClearance = clearance
		}
		if first || clearance < result.MinClearance {
			result.MinClearance = clearance
		}
		first = false
	}
	return result
}
