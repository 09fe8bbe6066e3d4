package handlers

import (
	"net/http"

	"gallery-backend/gallery"
	"gallery-backend/models"
)

type PortfolioHandler struct {
	Scanner *gallery.Scanner
}

func (h *PortfolioHandler) Get(w http.ResponseWriter, r *http.Request) {
	images := h.Scanner.Portfolio(r.Context())
	writeJSON(w, http.StatusOK, struct {
		Images []models.ImageInfo `json:"images"`
	}{Images: images})
}
