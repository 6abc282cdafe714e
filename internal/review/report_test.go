package review

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"
)

func sampleReportInput() ReportInput {
	tr := NewTracker()
	clock := newFakeClock()
	tr.SetClock(clock.now)

	tr.RegisterItem("a.mp4", "/d/a.mp4", "/d/a.wav", "video")
	tr.StartPrompt("a.mp4")
	clock.advanceSec(2.0)
	tr.RecordResponse("a.mp4", true, MethodMouse, false, false)

	tr.RegisterItem("cat.jpg", "/d/cat.jpg", "/d/cat.jpg.wav", "image")
	tr.StartPrompt("cat.jpg")
	clock.advanceSec(1.0)
	tr.RecordResponse("cat.jpg", false, MethodKeyboard, false, false)
	clock.advanceSec(1.0)
	tr.RecordResponse("cat.jpg", true, MethodKeyboard, false, false)

	seed := int64(5)
	q := BuildQueue([]Prompt{
		{ItemID: "a.mp4", MediaPath: "/d/a.mp4", WavPath: "/d/a.wav"},
		{ItemID: "cat.jpg", MediaPath: "/d/cat.jpg", WavPath: "/d/cat.jpg.wav"},
	}, 1, &seed)

	return ReportInput{
		SessionID:   "3e2a6f0c-0000-0000-0000-000000000001",
		Language:    "en",
		AppVersion:  "1.4.0",
		Settings:    DefaultSettings(),
		QueueMeta:   q.Metadata(),
		Tracker:     tr,
		FFmpegPath:  "/usr/bin/ffmpeg",
		FFprobePath: "/usr/bin/ffprobe",
	}
}

func TestReportStructure(t *testing.T) {
	in := sampleReportInput()
	now := time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC)
	report := BuildReport(in, now)

	if report["schema_version"] != ReportSchemaVersion {
		t.Errorf("schema_version = %v", report["schema_version"])
	}

	session := report["session"].(map[string]any)
	if session["id"] != in.SessionID {
		t.Errorf("session id = %v", session["id"])
	}
	if session["timestamp"] != "2025-06-01T12:30:45Z" {
		t.Errorf("timestamp = %v", session["timestamp"])
	}

	settings := report["settings"].(map[string]any)
	if _, ok := settings["grading_thresholds"]; !ok {
		t.Error("settings missing grading_thresholds")
	}

	rnd := report["randomization"].(map[string]any)
	if rnd["strategy"] != StrategyName {
		t.Errorf("strategy = %v", rnd["strategy"])
	}

	items := report["items"].([]map[string]any)
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0]["label"] != "a.mp4" || items[0]["type"] != "video" {
		t.Errorf("item 0 = %v", items[0])
	}

	trouble := report["trouble_items"].([]string)
	if len(trouble) != 2 {
		t.Errorf("trouble_items = %v", trouble)
	}

	env := report["environment"].(map[string]any)
	if env["ffmpeg_path"] != "/usr/bin/ffmpeg" {
		t.Errorf("environment = %v", env)
	}

	if _, ok := report["export"]; ok {
		t.Error("export section present without export metadata")
	}
}

func TestReportReproducible(t *testing.T) {
	in := sampleReportInput()
	now := time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC)

	a, err := json.MarshalIndent(BuildReport(in, now), "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.MarshalIndent(BuildReport(in, now), "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("identical inputs produced different report bytes")
	}
}

func TestWriteReportFileName(t *testing.T) {
	dir := t.TempDir()
	in := sampleReportInput()
	now := time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC)

	path, err := WriteReport(dir, in, now)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "review_session_20250601_123045.json" {
		t.Errorf("filename = %q", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}

	re := regexp.MustCompile(`^review_session_\d{8}_\d{6}\.json$`)
	if !re.MatchString(filepath.Base(path)) {
		t.Errorf("filename pattern mismatch: %q", filepath.Base(path))
	}
}

func TestReportWithExportMetadata(t *testing.T) {
	in := sampleReportInput()
	in.Export = map[string]any{"grouped_mode": "items_per_folder", "total_groups": 3}
	report := BuildReport(in, time.Now())
	exp, ok := report["export"].(map[string]any)
	if !ok || exp["total_groups"] != 3 {
		t.Errorf("export = %v", report["export"])
	}
}
