package e2e

import (
	"bytes"
	"encoding/json"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/karenhsieh75/med-it-easy/internal/analysis"
	"github.com/karenhsieh75/med-it-easy/internal/detector"
	"github.com/karenhsieh75/med-it-easy/internal/imaging"
	"github.com/karenhsieh75/med-it-easy/internal/server"
	"github.com/karenhsieh75/med-it-easy/internal/store"
)

// facePNG encodes a two-tone 200x200 frame as PNG: rows above split get
// top, the rest get bottom. The preset frontal mesh places the under-eye
// bands in the top half and the cheeks in the bottom half.
func facePNG(t *testing.T, split int, top, bottom imaging.RGB) []byte {
	t.Helper()

	im := imaging.New(200, 200)
	for y := 0; y < 200; y++ {
		c := top
		if y >= split {
			c = bottom
		}
		for x := 0; x < 200; x++ {
			im.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, im.ToRGBA()); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func multipartUpload(t *testing.T, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "photo.png")
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()

	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	rules, err := analysis.LoadRuleTable("../assets/doctor.json")
	if err != nil {
		t.Fatalf("LoadRuleTable() error = %v", err)
	}

	mockDetector := detector.NewMockDetector()
	mockDetector.SetFaces([]detector.FaceLandmarks{detector.FrontalFaceLandmarks()})
	engine := analysis.NewEngine(mockDetector, rules, analysis.Config{DarkCircle: true})

	srv := server.New(server.Config{Store: s, Engine: engine})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	var recordID string

	t.Run("AnalyzeUpload", func(t *testing.T) {
		data := facePNG(t, 200,
			imaging.RGB{R: 220, G: 180, B: 160}, imaging.RGB{})
		body, contentType := multipartUpload(t, data)

		resp, err := client.Post(ts.URL+"/api/analyze", contentType, body)
		if err != nil {
			t.Fatalf("analyze request error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var result analysis.Result
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if result.Status != analysis.StatusComplete {
			t.Fatalf("status = %q, want %q", result.Status, analysis.StatusComplete)
		}
		if result.Rule == nil || result.Rule.RuleID == "" {
			t.Error("response has no matched rule")
		}
		if result.DarkCircle == nil {
			t.Error("response has no dark circle data")
		}
	})

	t.Run("AnalyzeOverride", func(t *testing.T) {
		// A markedly darker under-eye half pushes the score past the
		// override threshold.
		data := facePNG(t, 100,
			imaging.RGB{R: 150, G: 120, B: 110},
			imaging.RGB{R: 220, G: 180, B: 160})
		body, contentType := multipartUpload(t, data)

		resp, err := client.Post(ts.URL+"/api/analyze", contentType, body)
		if err != nil {
			t.Fatalf("analyze request error = %v", err)
		}
		defer resp.Body.Close()

		var result analysis.Result
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if result.Rule == nil || result.Rule.RuleID != "dark_circle_override" {
			t.Errorf("rule = %+v, want dark_circle_override", result.Rule)
		}
	})

	t.Run("ListRecords", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/records")
		if err != nil {
			t.Fatalf("list records error = %v", err)
		}
		defer resp.Body.Close()

		var records []struct {
			ID       string          `json:"id"`
			BestTone string          `json:"best_tone"`
			RuleID   string          `json:"rule_id"`
			Result   json.RawMessage `json:"result"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("got %d records, want 2", len(records))
		}
		if records[0].BestTone == "" {
			t.Error("record has no denormalized tone name")
		}
		recordID = records[0].ID
	})

	t.Run("GetRecord", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/records/" + recordID)
		if err != nil {
			t.Fatalf("get record error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var rec struct {
			ID     string          `json:"id"`
			Result json.RawMessage `json:"result"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if rec.ID != recordID {
			t.Errorf("id = %q, want %q", rec.ID, recordID)
		}

		var stored analysis.Result
		if err := json.Unmarshal(rec.Result, &stored); err != nil {
			t.Fatalf("stored result is not valid JSON: %v", err)
		}
		if stored.Status != analysis.StatusComplete {
			t.Errorf("stored status = %q, want %q", stored.Status, analysis.StatusComplete)
		}
	})

	t.Run("DeleteRecord", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/records/"+recordID, nil)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("delete record error = %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusNoContent {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNoContent)
		}
	})

	t.Run("APIStillWorks", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/health")
		if err != nil {
			t.Fatalf("health check error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health check failed after analysis operations")
		}
	})
}

func TestE2E_NoFaceUpload(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	rules, err := analysis.LoadRuleTable("../assets/doctor.json")
	if err != nil {
		t.Fatalf("LoadRuleTable() error = %v", err)
	}

	mockDetector := detector.NewMockDetector()
	engine := analysis.NewEngine(mockDetector, rules, analysis.Config{})

	srv := server.New(server.Config{Engine: engine})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	data := facePNG(t, 200, imaging.RGB{R: 50, G: 50, B: 50}, imaging.RGB{})
	body, contentType := multipartUpload(t, data)

	resp, err := ts.Client().Post(ts.URL+"/api/analyze", contentType, body)
	if err != nil {
		t.Fatalf("analyze request error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	var result analysis.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Status != analysis.StatusError {
		t.Errorf("status = %q, want %q", result.Status, analysis.StatusError)
	}
}
