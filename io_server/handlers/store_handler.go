package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	logs "github.com/wwpdb/onedep-io/logs"
	"github.com/wwpdb/onedep-io/module_store"
	server_handlers "github.com/wwpdb/onedep-io/server/handlers"
	"github.com/wwpdb/onedep-io/site_model"
	"github.com/wwpdb/onedep-io/storage"
)

func SiteSaveHandler(s *module_store.StoreHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logs.WithContext(ctx).Debug("SiteSaveHandler - Start")
		site := &site_model.Site{}
		if err := json.NewDecoder(r.Body).Decode(site); err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		if err := s.Store.SaveSite(ctx, site, s.Store, true); err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "site config saved"})
	}
}

func SiteRemoveHandler(s *module_store.StoreHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logs.WithContext(ctx).Debug("SiteRemoveHandler - Start")
		vars := mux.Vars(r)
		if err := s.Store.RemoveSite(ctx, vars["site"], s.Store); err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "site config removed"})
	}
}

func SiteGetHandler(s *module_store.StoreHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logs.WithContext(ctx).Debug("SiteGetHandler - Start")
		vars := mux.Vars(r)
		site, err := s.Store.GetSiteConfig(ctx, vars["site"])
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(site)
	}
}

func SiteListHandler(s *module_store.StoreHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logs.WithContext(ctx).Debug("SiteListHandler - Start")
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(map[string][]string{"sites": s.Store.GetSiteList(ctx)})
	}
}

func SiteCompareHandler(s *module_store.StoreHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logs.WithContext(ctx).Debug("SiteCompareHandler - Start")
		vars := mux.Vars(r)
		compareSite := site_model.Site{}
		if err := json.NewDecoder(r.Body).Decode(&compareSite); err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		storeCompare, err := s.Store.CompareSite(ctx, vars["site"], compareSite)
		if err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(storeCompare)
	}
}

// storageJson carries the wire form of one storage definition.
type storageJson struct {
	StorageType string          `json:"storage_type"`
	Storage     json.RawMessage `json:"storage"`
}

func StorageSaveHandler(s *module_store.StoreHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logs.WithContext(ctx).Debug("StorageSaveHandler - Start")
		vars := mux.Vars(r)
		sj := storageJson{}
		if err := json.NewDecoder(r.Body).Decode(&sj); err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		storageObj := storage.GetStorage(sj.StorageType)
		if storageObj == nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unknown storage type " + sj.StorageType})
			return
		}
		rj := json.RawMessage(sj.Storage)
		if err := storageObj.MakeFromJson(ctx, &rj); err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		if err := s.Store.SaveStorage(ctx, storageObj, vars["site"], s.Store, true); err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "storage saved"})
	}
}

func StorageRemoveHandler(s *module_store.StoreHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logs.WithContext(ctx).Debug("StorageRemoveHandler - Start")
		vars := mux.Vars(r)
		if err := s.Store.RemoveStorage(ctx, vars["site"], vars["storagename"], s.Store); err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "storage removed"})
	}
}

func TransferServerSaveHandler(s *module_store.StoreHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logs.WithContext(ctx).Debug("TransferServerSaveHandler - Start")
		vars := mux.Vars(r)
		ts := site_model.TransferServer{}
		if err := json.NewDecoder(r.Body).Decode(&ts); err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		if err := s.Store.SaveTransferServer(ctx, vars["site"], vars["servername"], ts, s.Store, true); err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "transfer server saved"})
	}
}

func TransferServerRemoveHandler(s *module_store.StoreHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logs.WithContext(ctx).Debug("TransferServerRemoveHandler - Start")
		vars := mux.Vars(r)
		if err := s.Store.RemoveTransferServer(ctx, vars["site"], vars["servername"], s.Store); err != nil {
			server_handlers.FormatResponse(w, 400)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		server_handlers.FormatResponse(w, 200)
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "transfer server removed"})
	}
}
