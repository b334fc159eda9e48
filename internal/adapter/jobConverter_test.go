package adapter

import (
	"testing"

	"github.com/avuppal/driveRAG/internal/domain/commonModels"
	"github.com/avuppal/driveRAG/internal/domain/jobModel"
)

func TestToIngestReport_CarriesPageDetail(t *testing.T) {
	results := []commonModels.ExtractionResult{
		{
			Filename:  "scan.pdf",
			Success:   true,
			PageCount: 2,
			Pages: []commonModels.Page{
				{Index: 0, Text: "native page text", CharCount: 16},
				{Index: 1, Text: "hdr\nrecognized", CharCount: 14, OCRUsed: true, OriginalCharCount: 3},
			},
		},
	}

	report := ToIngestReport(results)

	if len(report) != 1 || len(report[0].Pages) != 2 {
		t.Fatalf("Unexpected report shape: %+v", report)
	}

	native := report[0].Pages[0]
	if native.Text != "native page text" || native.CharCount != 16 || native.OCRUsed {
		t.Errorf("Native page mapped wrong: %+v", native)
	}

	ocr := report[0].Pages[1]
	if ocr.Text != "hdr\nrecognized" {
		t.Errorf("Page text missing from report: %+v", ocr)
	}
	if !ocr.OCRUsed || ocr.OriginalCharCount != 3 {
		t.Errorf("OCR detail missing from report: %+v", ocr)
	}
}

func TestToAPIResponse_QueryAnswer(t *testing.T) {
	job := jobModel.Job{
		Id:     "job-1",
		Status: jobModel.JobStatusComplete,
		JobPayload: jobModel.JobPayload{
			Query: &commonModels.QueryContext{Question: "what is the budget?"},
			Answer: &commonModels.QueryAnswer{
				Answer:           "40k",
				Citations:        []string{"report.pdf"},
				SourcesUsed:      1,
				GenerationMethod: commonModels.GenerationLLM,
			},
		},
	}

	res := ToAPIResponse(job)

	if res.Result.QueryResponse == nil {
		t.Fatal("Completed query job should carry a query response")
	}
	if res.Result.QueryResponse.Question != "what is the budget?" || res.Result.QueryResponse.Answer != "40k" {
		t.Errorf("Query response mapped wrong: %+v", res.Result.QueryResponse)
	}
	if res.Error != nil {
		t.Errorf("No error was set on the job, got %+v", res.Error)
	}
}
