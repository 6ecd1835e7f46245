package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wwpdb/onedep-io/locator"
	logs "github.com/wwpdb/onedep-io/logs"
	"github.com/wwpdb/onedep-io/module_store"
	server_handlers "github.com/wwpdb/onedep-io/server/handlers"
)

type filePathJson struct {
	DataSetId    string `json:"data_set_id"`
	WfInstanceId string `json:"wf_instance_id"`
	ContentType  string `json:"content_type"`
	FormatType   string `json:"format_type"`
	FileSource   string `json:"file_source"`
	VersionId    string `json:"version_id"`
	PartNumber   int    `json:"part_number"`
	MileStone    string `json:"milestone"`
	SessionPath  string `json:"session_path"`
}

func FilePathHandler(s *module_store.StoreHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logs.WithContext(ctx).Debug("FilePathHandler - Start")
		vars := mux.Vars(r)
		req := filePathJson{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		site, err := s.Store.GetSiteConfig(ctx, vars["site"])
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		pi := locator.NewPathInfo(site, req.SessionPath)
		filePath, err := pi.FilePath(ctx, req.DataSetId, req.WfInstanceId, req.ContentType, req.FormatType,
			req.FileSource, req.VersionId, req.PartNumber, req.MileStone)
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(map[string]string{"file_path": filePath})
	}
}

func FileNameParseHandler(s *module_store.StoreHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logs.WithContext(ctx).Debug("FileNameParseHandler - Start")
		vars := mux.Vars(r)
		site, err := s.Store.GetSiteConfig(ctx, vars["site"])
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		rfc, err := locator.ParseReferenceFileName(ctx, site, vars["filename"])
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(rfc)
	}
}

func ReleaseNameHandler(s *module_store.StoreHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logs.WithContext(ctx).Debug("ReleaseNameHandler - Start")
		vars := mux.Vars(r)
		rfn := locator.NewReleaseFileNames()
		publicName, err := rfn.PublicName(ctx, vars["kind"], vars["accession"])
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		releaseName, err := rfn.ReleaseName(ctx, vars["kind"], vars["accession"])
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"public_name":  publicName,
			"release_name": releaseName,
		})
	}
}

func ReleasePathHandler(s *module_store.StoreHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logs.WithContext(ctx).Debug("ReleasePathHandler - Start")
		vars := mux.Vars(r)
		site, err := s.Store.GetSiteConfig(ctx, vars["site"])
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		q := r.URL.Query()
		version := q.Get("version")
		if version == "" {
			version = locator.ReleaseCurrent
		}
		releasePath, err := locator.NewReleasePathInfo(site).ForReleasePath(ctx, version, q.Get("subdir"), q.Get("accession"))
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(map[string]string{"release_path": releasePath})
	}
}

func ChemRefPathHandler(s *module_store.StoreHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logs.WithContext(ctx).Debug("ChemRefPathHandler - Start")
		vars := mux.Vars(r)
		site, err := s.Store.GetSiteConfig(ctx, vars["site"])
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		crpi := locator.NewChemRefPathInfo(site)
		idType, err := crpi.IdType(ctx, vars["id"])
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		filePath, err := crpi.FilePath(ctx, vars["id"])
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(map[string]string{"id_type": idType, "file_path": filePath})
	}
}
