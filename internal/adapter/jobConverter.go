package adapter

import (
	"fmt"
	"time"

	"github.com/avuppal/driveRAG/internal/api"
	"github.com/avuppal/driveRAG/internal/domain/commonModels"
	"github.com/avuppal/driveRAG/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id), //pass "status/job.Id"
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status:        string(job.Status),
		QueryResponse: ToQueryExternalStatus(job.JobPayload),
		IngestReport:  ToIngestReport(job.JobPayload.IngestReport),
	}

	return api.JobResponse{
		Id:        job.Id,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func ToQueryExternalStatus(payload jobModel.JobPayload) *api.QueryResponse {
	if payload.Answer == nil {
		return nil
	}

	question := ""
	if payload.Query != nil {
		question = payload.Query.Question
	}

	return &api.QueryResponse{
		Question:         question,
		Answer:           payload.Answer.Answer,
		Citations:        payload.Answer.Citations,
		SourcesUsed:      payload.Answer.SourcesUsed,
		GenerationMethod: payload.Answer.GenerationMethod,
	}
}

func ToIngestReport(results []commonModels.ExtractionResult) []api.FileResult {
	if len(results) == 0 {
		return nil
	}

	report := make([]api.FileResult, len(results))
	for i, r := range results {
		pages := make([]api.PageResult, len(r.Pages))
		for j, p := range r.Pages {
			pages[j] = api.PageResult{
				Page:              p.Index,
				Text:              p.Text,
				CharCount:         p.CharCount,
				OCRUsed:           p.OCRUsed,
				OriginalCharCount: p.OriginalCharCount,
				OCRError:          p.OCRError,
				Error:             p.Error,
			}
		}
		report[i] = api.FileResult{
			Filename:      r.Filename,
			Success:       r.Success,
			PageCount:     r.PageCount,
			CharCount:     r.CharCount,
			WordCount:     r.WordCount,
			OCRPagesCount: r.OCRPagesCount,
			ChunkCount:    r.ChunkCount,
			Pages:         pages,
			Error:         r.Error,
		}
	}
	return report
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
