package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/avuppal/driveRAG/internal/adapter"
	"github.com/avuppal/driveRAG/internal/adapter/utils"
	"github.com/avuppal/driveRAG/internal/api"
	"github.com/avuppal/driveRAG/internal/config"
	"github.com/avuppal/driveRAG/internal/domain/commonModels"
	"github.com/avuppal/driveRAG/internal/domain/jobModel"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response: %v", err)
	}
}

func validateId(id string, traceId string) (result jobModel.Job, isFound bool) {
	if id == "" {
		logRH.Warn("Empty Job ID")
		return jobModel.Job{}, false
	}
	return GetJobStatus(id, traceId)
}

func validateContext(ctx context.Context) bool {
	logRH.With("traceId:", ctx.Value(config.TRACE_ID_KEY).(string))
	if ctx.Err() != nil {
		logRH.Warn("context error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		logRH.Warn("context cancelled")
		return false
	default:
		return true

	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, error string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, error, httpCode))
}

func getTargetDirectory() (string, string) {
	root, err := os.Getwd()
	if err != nil {
		return "", "Storage Error"
	}

	targetDir := filepath.Join(root, "temporary_data")
	if err := os.MkdirAll(targetDir, 0750); err != nil {
		return "", "Storage Error"
	}
	return targetDir, ""
}

// toQueryContext fills the retrieval defaults the caller left out.
func toQueryContext(requestData api.QueryRequest) *commonModels.QueryContext {
	size := requestData.Size
	if size == 0 {
		size = config.DefaultResultSize
	}
	k := requestData.RRFK
	if k == 0 {
		k = config.DefaultRRFK
	}
	mode := commonModels.SearchMode(requestData.Mode)
	if mode == "" {
		mode = commonModels.SearchModeHybrid
	}
	useLLM := true
	if requestData.UseLLM != nil {
		useLLM = *requestData.UseLLM
	}
	return &commonModels.QueryContext{
		Question: requestData.Question,
		Mode:     mode,
		Size:     size,
		RRFK:     k,
		UseLLM:   useLLM,
	}
}

func processQueryJob(request *http.Request, w http.ResponseWriter, requestData api.QueryRequest) {
	newJob := newJobData{
		id:      utils.GetNewUUID(),
		traceId: request.Context().Value(config.TRACE_ID_KEY).(string),
		query:   toQueryContext(requestData),
	}
	CreateNewJob(newJob)
	res := adapter.ToInitJobResponse(newJob.id)
	writeJsonResponse(w, http.StatusAccepted, res)
}

func processIngestJob(request *http.Request, w http.ResponseWriter, docName string, docPath string, folderURL string) {
	newJob := newJobData{
		id:               utils.GetNewUUID(),
		traceId:          request.Context().Value(config.TRACE_ID_KEY).(string),
		isDocumentIngest: true,
		documentName:     docName,
		documentSource:   docPath,
		folderURL:        folderURL,
	}
	CreateNewJob(newJob)
	res := adapter.ToInitJobResponse(newJob.id)
	writeJsonResponse(w, http.StatusAccepted, res)
}
