package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wwpdb/onedep-io/coldarchive"
	"github.com/wwpdb/onedep-io/datasync"
	logs "github.com/wwpdb/onedep-io/logs"
	"github.com/wwpdb/onedep-io/maintenance"
	"github.com/wwpdb/onedep-io/module_store"
	server_handlers "github.com/wwpdb/onedep-io/server/handlers"
)

func coldArchiveFor(s *module_store.StoreHolder, w http.ResponseWriter, r *http.Request) *coldarchive.ColdArchive {
	ctx := r.Context()
	vars := mux.Vars(r)
	site, err := s.Store.GetSiteConfig(ctx, vars["site"])
	if err != nil {
		server_handlers.FormatResponse(w, 400)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return nil
	}
	var checker coldarchive.StatusChecker
	if site.StatusDb != "" {
		checker, err = coldarchive.NewDbStatusChecker(ctx, site)
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return nil
		}
	}
	ca, err := coldarchive.NewColdArchive(ctx, site, checker)
	if err != nil {
		server_handlers.FormatResponse(w, 400)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return nil
	}
	return ca
}

func ArchiveCompressHandler(s *module_store.StoreHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logs.WithContext(ctx).Debug("ArchiveCompressHandler - Start")
		ca := coldArchiveFor(s, w, r)
		if ca == nil {
			return
		}
		vars := mux.Vars(r)
		overwrite := r.URL.Query().Get("overwrite") == "true"
		if err := ca.Compress(ctx, vars["dataset"], overwrite); err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "data set compressed"})
	}
}

func ArchiveDecompressHandler(s *module_store.StoreHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logs.WithContext(ctx).Debug("ArchiveDecompressHandler - Start")
		ca := coldArchiveFor(s, w, r)
		if ca == nil {
			return
		}
		vars := mux.Vars(r)
		overwrite := r.URL.Query().Get("overwrite") == "true"
		if err := ca.Decompress(ctx, vars["dataset"], overwrite); err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "data set restored"})
	}
}

func ArchiveCountHandler(s *module_store.StoreHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logs.WithContext(ctx).Debug("ArchiveCountHandler - Start")
		ca := coldArchiveFor(s, w, r)
		if ca == nil {
			return
		}
		count, err := ca.CompressedCount(ctx)
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(map[string]int{"compressed_count": count})
	}
}

type syncJson struct {
	RemoteRoot string   `json:"remote_root"`
	Patterns   []string `json:"patterns"`
	DryRun     bool     `json:"dry_run"`
	Delete     bool     `json:"delete"`
}

func SyncSingleHandler(s *module_store.StoreHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logs.WithContext(ctx).Debug("SyncSingleHandler - Start")
		vars := mux.Vars(r)
		req := syncJson{}
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
		ds := datasync.NewDepositSync(site, req.RemoteRoot, nil)
		results, err := ds.SyncSingle(ctx, vars["dataset"], vars["direction"],
			datasync.SyncOptions{Patterns: req.Patterns, DryRun: req.DryRun, Delete: req.Delete})
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(results)
	}
}

func SyncExpiredHandler(s *module_store.StoreHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logs.WithContext(ctx).Debug("SyncExpiredHandler - Start")
		vars := mux.Vars(r)
		req := syncJson{}
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
		cutoffHours, err := strconv.Atoi(r.URL.Query().Get("cutoff_hours"))
		if err != nil || cutoffHours < 1 {
			cutoffHours = 24
		}
		sessions, err := datasync.NewDbSessionQuerier(ctx, site)
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		ds := datasync.NewDepositSync(site, req.RemoteRoot, sessions)
		results, err := ds.SyncExpired(ctx, cutoffHours,
			datasync.SyncOptions{Patterns: req.Patterns, DryRun: req.DryRun, Delete: req.Delete})
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(results)
	}
}

type purgeJson struct {
	ContentType string `json:"content_type"`
	FormatType  string `json:"format_type"`
	PartNumber  int    `json:"part_number"`
	TestMode    bool   `json:"test_mode"`
}

func MaintenancePurgeHandler(s *module_store.StoreHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logs.WithContext(ctx).Debug("MaintenancePurgeHandler - Start")
		vars := mux.Vars(r)
		req := purgeJson{}
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
		if req.PartNumber < 1 {
			req.PartNumber = 1
		}
		dm := maintenance.NewDataMaintenance(site, req.TestMode)
		result, err := dm.PurgeVersions(ctx, vars["dataset"], req.ContentType, req.FormatType, req.PartNumber)
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(result)
	}
}

func MaintenancePurgeLogsHandler(s *module_store.StoreHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logs.WithContext(ctx).Debug("MaintenancePurgeLogsHandler - Start")
		vars := mux.Vars(r)
		site, err := s.Store.GetSiteConfig(ctx, vars["site"])
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		testMode := r.URL.Query().Get("test_mode") == "true"
		dm := maintenance.NewDataMaintenance(site, testMode)
		removed, err := dm.PurgeLogs(ctx, vars["dataset"])
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(map[string][]string{"removed": removed})
	}
}
