package divelog

import (
	"strings"
	"testing"

	"github.com/the-emerald/capra/gas"
	"github.com/the-emerald/capra/tissue"
	"github.com/the-emerald/capra/units"
	"github.com/the-emerald/capra/zhl16"
)

const sampleXML = `<?xml version="1.0"?>
<dive>
  <diveLog>
    <diveLogRecords>
      <diveLogRecord>
        <currentTime>0</currentTime>
        <currentDepth>0</currentDepth>
        <averagePPO2>0.21</averagePPO2>
      </diveLogRecord>
      <diveLogRecord>
        <currentTime>60</currentTime>
        <currentDepth>18</currentDepth>
        <averagePPO2>0.74</averagePPO2>
      </diveLogRecord>
      <diveLogRecord>
        <currentTime>120</currentTime>
        <currentDepth>18</currentDepth>
        <averagePPO2>0.74</averagePPO2>
      </diveLogRecord>
    </diveLogRecords>
  </diveLog>
</dive>`

func TestParseShearwaterXML(t *testing.T) {
	samples, err := ParseShearwaterXML(strings.NewReader(sampleXML))
	if err != nil {
		t.Fatalf("ParseShearwaterXML: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("got %d samples, want 3", len(samples))
	}
	if samples[1].Depth != 18 {
		t.Errorf("samples[1].Depth = %v, want 18", samples[1].Depth)
	}
	if samples[1].Offset.Seconds() != 60 {
		t.Errorf("samples[1].Offset = %v, want 60s", samples[1].Offset)
	}
}

func TestReplay(t *testing.T) {
	env := units.StandardEnvironment(units.SaltWater)
	samples, err := ParseShearwaterXML(strings.NewReader(sampleXML))
	if err != nil {
		t.Fatalf("ParseShearwaterXML: %v", err)
	}

	e := zhl16.New(tissue.Surfaced(env), zhl16.ZHL16B, 100, 100)
	result := Replay(e, samples, gas.Air(), env)

	if result.Violated {
		t.Error("short shallow dive should not violate the ascent ceiling")
	}
	if result.MaxClearance < result.MinClearance {
		t.Errorf("MaxClearance %v < MinClearance %v", result.MaxClearance, result.MinClearance)
	}
}
