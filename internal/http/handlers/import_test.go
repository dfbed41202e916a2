package handlers

import (
	"bytes"
	"mime/multipart"
	"testing"
	"time"

	"github.com/binroute/backend/internal/models"
)

func TestParseCollectorsCSV(t *testing.T) {
	content := "collector_id,name,service_areas,status\n" +
		"C1,Arjun,W1;W2;W1,Available\n" +
		"C2,Meera,\"W3, W4\",unavailable\n"
	fh := makeMultipartFile(t, "collectors", "collectors.csv", content)
	collectors, errs := parseCollectorsCSV(fh)
	if len(errs) > 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if len(collectors) != 2 {
		t.Fatalf("expected 2 collectors, got %d", len(collectors))
	}
	if got := collectors[0].ServiceAreas; len(got) != 2 || got[0] != "W1" || got[1] != "W2" {
		t.Fatalf("expected deduplicated areas [W1 W2], got %v", got)
	}
	if collectors[1].Status != models.CollectorNotAvailable {
		t.Fatalf("expected normalized Not-Available, got %s", collectors[1].Status)
	}
}

func TestParseCollectorsCSV_MissingRequired(t *testing.T) {
	content := "id,name,service_areas\nC1,,W1\n"
	fh := makeMultipartFile(t, "collectors", "collectors.csv", content)
	collectors, errs := parseCollectorsCSV(fh)
	if len(collectors) != 0 {
		t.Fatalf("expected no collectors, got %d", len(collectors))
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
}

func TestParseGrievancesCSV(t *testing.T) {
	content := "grievance_id,area_id,severity,status,assigned_to,is_escalated,created_at\n" +
		"G1,W1,critical,open,,true,2026-03-01T09:00:00Z\n" +
		"G2,W1,medium,open,C1,,2026-03-01\n"
	fh := makeMultipartFile(t, "grievances", "grievances.csv", content)
	grievances, errs := parseGrievancesCSV(fh)
	if len(errs) > 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if len(grievances) != 2 {
		t.Fatalf("expected 2 grievances, got %d", len(grievances))
	}

	g1 := grievances[0]
	if g1.Severity != models.SeverityCritical || !g1.IsEscalated {
		t.Fatalf("expected escalated critical, got %+v", g1)
	}
	if g1.PriorityScore != 4 {
		t.Fatalf("expected derived priority score 4, got %d", g1.PriorityScore)
	}
	want := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	if !g1.CreatedAt.Equal(want) {
		t.Fatalf("expected created_at %v, got %v", want, g1.CreatedAt)
	}

	g2 := grievances[1]
	if g2.AssignedTo == nil || *g2.AssignedTo != "C1" {
		t.Fatalf("expected assignee C1, got %+v", g2.AssignedTo)
	}
	if g2.Status != models.GrievanceInProgress {
		t.Fatalf("expected assigned open grievance promoted to In Progress, got %s", g2.Status)
	}
}

func TestParseGrievancesCSV_HeaderAliasesAndBOM(t *testing.T) {
	content := "\ufeffid,ward,priority\ng9,W7,urgent\n"
	fh := makeMultipartFile(t, "grievances", "grievances.csv", content)
	grievances, errs := parseGrievancesCSV(fh)
	if len(errs) > 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if len(grievances) != 1 {
		t.Fatalf("expected 1 grievance, got %d", len(grievances))
	}
	if grievances[0].AreaID != "W7" {
		t.Fatalf("expected ward alias to map to area, got %s", grievances[0].AreaID)
	}
	if grievances[0].Severity != models.SeverityCritical {
		t.Fatalf("expected urgent mapped to Critical, got %s", grievances[0].Severity)
	}
	if grievances[0].Status != models.GrievanceOpen {
		t.Fatalf("expected default Open status, got %s", grievances[0].Status)
	}
}

func TestValidateExt(t *testing.T) {
	if !validateExt("grievances.CSV") {
		t.Fatalf("expected .CSV to be accepted")
	}
	if validateExt("grievances.xlsx") {
		t.Fatalf("expected .xlsx to be rejected")
	}
}

func makeMultipartFile(t *testing.T, fieldName, filename, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fieldName, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write content: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(int64(buf.Len()))
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	files := form.File[fieldName]
	if len(files) == 0 {
		t.Fatalf("no file headers found")
	}
	return files[0]
}
