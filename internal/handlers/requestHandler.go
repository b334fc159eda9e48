package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avuppal/driveRAG/internal/adapter"
	"github.com/avuppal/driveRAG/internal/adapter/utils"
	"github.com/avuppal/driveRAG/internal/api"
	"github.com/avuppal/driveRAG/internal/config"
	"github.com/avuppal/driveRAG/internal/domain/commonModels"
	"github.com/avuppal/driveRAG/internal/drive"
	"github.com/avuppal/driveRAG/pkg/logger_i"
)

var logRH *logger_i.Logger

// technically i dont need this
// but i want to eventually move job creation out of handlers
// so in anticipation for that this struct exists
type newJobData struct {
	id               string
	traceId          string
	isDocumentIngest bool
	query            *commonModels.QueryContext
	documentName     string
	documentSource   string
	folderURL        string
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	return
}

// PostQueryHandler godoc
// @Summary      Start a new query job
// @Description  Accepts a question, initializes a background retrieval job, and returns a job ID to track status.
// @Tags         Query
// @Accept       json
// @Produce      json
// @Param        request  body      api.QueryRequest     true  "Question and optional retrieval parameters"
// @Success      202      {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400      {object}  api.JobResponse      "Invalid request data"
// @Router       /query [post]
func PostQueryHandler(w http.ResponseWriter, request *http.Request) {

	if validateContext(request.Context()) {

		var requestData api.QueryRequest
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logRH.Error("Couldn't close the Query handler reader :", err)
			}
		}(request.Body)
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || !ValidateQueryRequest(requestData) {
			logRH.Warn("Bad Query Request: ", "error:", err, "request data:", requestData)
			WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
			return
		}

		processQueryJob(request, w, requestData)
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a specific job using its ID.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID "
// @Success      200  {object}  api.JobResponse   "The current status of the job"
// @Failure      404  {object}  api.JobResponse   "Job not found (returns Error object within JobResponse)"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		//use chi get the url id
		idString := utils.GetChiURLParam(r, "id")
		result, isFound := validateId(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
	}
}

// PostIngestHandler handles document ingestion requests.
// @Summary      Ingest documents
// @Description  Receives a file via multipart/form-data or a public folder URL via JSON and queues an ingestion job.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Accept       json
// @Produce      json
// @Param        document_name  formData  string  false  "The display name of the document"
// @Param        document       formData  file    false  "The PDF, DOCX or TXT file to upload"
// @Success      202  {object}  api.InitJobResponse "Job successfully created"
// @Failure      400  {object}  api.JobResponse "Bad Request - Missing fields or file too large"
// @Failure      500  {object}  api.JobResponse "Internal Server Error - Storage or Write Error"
// @Router       /ingest [post]
func PostIngestHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			ingestFolder(w, r)
			return
		}
		ingestUpload(w, r)
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

func ingestFolder(w http.ResponseWriter, r *http.Request) {
	var requestData api.IngestFolderRequest
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			logRH.Error("Couldn't close the Ingest handler reader :", err)
		}
	}(r.Body)

	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || requestData.FolderURL == "" {
		logRH.Warn("Bad Ingest Request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "folder_url is required")
		return
	}
	if drive.ExtractFolderID(requestData.FolderURL) == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Not a shared folder link")
		return
	}

	processIngestJob(r, w, "", "", requestData.FolderURL)
}

func ingestUpload(w http.ResponseWriter, r *http.Request) {
	targetDir, errString := getTargetDirectory()

	if errString != "" {
		logRH.Error("Couldn't get target directory :", "err", errString)
		WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
		return
	}

	const maxUploadSize = 32 << 20 //32mb
	err := r.ParseMultipartForm(maxUploadSize)
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	//process request
	docName := r.FormValue("document_name")
	if docName == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "document_name is required")
		return
	}

	//get the document the user uploads
	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, docName, "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileMetadata.Filename)
	tempFilePath := filepath.Join(targetDir, filename)
	destinationFileWriter, err := os.Create(tempFilePath)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, docName, "Storage error")
		return
	}
	defer destinationFileWriter.Close()

	if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, docName, "Write error")
		return
	}
	processIngestJob(r, w, docName, tempFilePath, "")
}
