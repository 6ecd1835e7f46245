package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	logs "github.com/wwpdb/onedep-io/logs"
	"github.com/wwpdb/onedep-io/module_store"
	server_handlers "github.com/wwpdb/onedep-io/server/handlers"
)

func FileUploadHandler(s *module_store.StoreHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logs.WithContext(ctx).Debug("FileUploadHandler - Start")
		vars := mux.Vars(r)
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		defer file.Close()
		docType := r.FormValue("doctype")
		folderPath := r.FormValue("folderpath")
		docId, err := s.Store.UploadFile(ctx, vars["site"], vars["storagename"], file, header, docType, folderPath)
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(map[string]string{"doc_id": docId})
	}
}

type fileDownloadJson struct {
	FolderPath string `json:"folder_path"`
	FileName   string `json:"file_name"`
}

func FileDownloadHandler(s *module_store.StoreHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logs.WithContext(ctx).Debug("FileDownloadHandler - Start")
		vars := mux.Vars(r)
		req := fileDownloadJson{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		file, mime, err := s.Store.DownloadFile(ctx, vars["site"], vars["storagename"], req.FolderPath, req.FileName)
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"file_name": req.FileName,
			"mime_type": mime,
			"file_b64":  base64.StdEncoding.EncodeToString(file),
		})
	}
}
