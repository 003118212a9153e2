package handlers

import (
	"itam-backend/internal/auth"
	"itam-backend/internal/inventory"
	"itam-backend/internal/storage"
)

// Handler holds the stores every endpoint dispatches to.
type Handler struct {
	Assets    *inventory.AssetStore
	Importer  *inventory.Importer
	Services  *inventory.ServiceStore
	Logs      *inventory.LogStore
	Directory *inventory.Directory
	Dashboard *inventory.Dashboard
	Auth      *auth.Service
	Avatars   *storage.Avatars

	ImportMaxBytes int64
}
