package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	apperrors "contacts-manager/internal/errors"
	"contacts-manager/internal/models"
	"contacts-manager/internal/services"
	"contacts-manager/internal/utils"
)

const (
	maxBodyBytes         = 1 << 20
	defaultActivityLimit = 50
	maxActivityLimit     = 500
)

type HTTPHandler struct {
	service *services.ContactService
}

func NewHTTPHandler(service *services.ContactService) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// RegisterRoutes mounts the API on router, which is expected to be the
// /api/v1 subrouter.
func (h *HTTPHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/contacts", h.ListContacts).Methods("GET", "OPTIONS")
	router.HandleFunc("/contacts", h.CreateContact).Methods("POST", "OPTIONS")
	router.HandleFunc("/contacts/bulk", h.BulkUpdateContacts).Methods("PUT", "OPTIONS")
	router.HandleFunc("/contacts/{id:[0-9]+}", h.GetContact).Methods("GET", "OPTIONS")
	router.HandleFunc("/contacts/{id:[0-9]+}", h.UpdateContact).Methods("PUT", "OPTIONS")
	router.HandleFunc("/contacts/{id:[0-9]+}", h.DeleteContact).Methods("DELETE", "OPTIONS")
	router.HandleFunc("/contacts/{id:[0-9]+}/vcard", h.GetContactVCard).Methods("GET", "OPTIONS")
	router.HandleFunc("/contacts/{id:[0-9]+}/qrcode", h.GetContactQRCode).Methods("GET", "OPTIONS")

	router.HandleFunc("/categories", h.ListCategories).Methods("GET", "OPTIONS")
	router.HandleFunc("/categories", h.AddCategory).Methods("POST", "OPTIONS")

	router.HandleFunc("/export", h.ExportContacts).Methods("GET", "OPTIONS")
	router.HandleFunc("/export/archive", h.ArchiveExport).Methods("POST", "OPTIONS")

	router.HandleFunc("/stats", h.GetStats).Methods("GET", "OPTIONS")
	router.HandleFunc("/activity", h.ListActivity).Methods("GET", "OPTIONS")

	router.HandleFunc("/ws", WebSocketHandler)
}

// @Summary List contacts
// @Description List contacts matching the optional filters. Archived contacts are excluded unless archived=true.
// @Tags contacts
// @Produce json
// @Param category query string false "Category name, or all"
// @Param important query bool false "Only important contacts"
// @Param archived query bool false "Include archived contacts"
// @Param search query string false "Case-insensitive text in name, full name or organization"
// @Param selected query string false "Comma separated contact ids"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /contacts [get]
func (h *HTTPHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		utils.LogError("Invalid filter in /contacts: %v", err)
		models.RespondWithError(w, err)
		return
	}

	contacts := h.service.ListContacts(filter)
	models.RespondWithJSON(w, http.StatusOK,
		models.NewSuccessResponse(fmt.Sprintf("%d contacts found", len(contacts)), contacts))
}

// @Summary Get a contact
// @Tags contacts
// @Produce json
// @Param id path int true "Contact ID"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /contacts/{id} [get]
func (h *HTTPHandler) GetContact(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		models.RespondWithError(w, err)
		return
	}

	contact, err := h.service.GetContact(id)
	if err != nil {
		models.RespondWithError(w, err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Contact found", contact))
}

// @Summary Create a contact
// @Description Fields left out get their defaults; the id and timestamps are assigned by the server.
// @Tags contacts
// @Accept json
// @Produce json
// @Param request body models.ContactFields true "Contact fields"
// @Success 201 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /contacts [post]
func (h *HTTPHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var fields models.ContactFields
	if err := decodeBody(w, r, &fields); err != nil {
		utils.LogError("Error decoding /contacts request: %v", err)
		models.RespondWithError(w, err)
		return
	}

	contact, err := h.service.CreateContact(fields)
	if err != nil {
		models.RespondWithError(w, err)
		return
	}
	models.RespondWithJSON(w, http.StatusCreated, models.NewSuccessResponse("Contact created", contact))
}

// @Summary Update a contact
// @Description Only the fields present in the body are changed.
// @Tags contacts
// @Accept json
// @Produce json
// @Param id path int true "Contact ID"
// @Param request body models.ContactFields true "Fields to change"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /contacts/{id} [put]
func (h *HTTPHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		models.RespondWithError(w, err)
		return
	}

	var fields models.ContactFields
	if err := decodeBody(w, r, &fields); err != nil {
		utils.LogError("Error decoding /contacts/%d request: %v", id, err)
		models.RespondWithError(w, err)
		return
	}

	contact, err := h.service.UpdateContact(id, fields)
	if err != nil {
		models.RespondWithError(w, err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Contact updated", contact))
}

// @Summary Bulk update contacts
// @Description Applies the same field changes to every listed contact in one write.
// @Tags contacts
// @Accept json
// @Produce json
// @Param request body models.BulkUpdateRequest true "Contact ids and field changes"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse "No contact ids provided"
// @Failure 404 {object} models.APIResponse "No contacts found to update"
// @Router /contacts/bulk [put]
func (h *HTTPHandler) BulkUpdateContacts(w http.ResponseWriter, r *http.Request) {
	var req models.BulkUpdateRequest
	if err := decodeBody(w, r, &req); err != nil {
		utils.LogError("Error decoding /contacts/bulk request: %v", err)
		models.RespondWithError(w, err)
		return
	}

	count, err := h.service.BulkUpdateContacts(req.ContactIDs, req.Updates)
	if err != nil {
		models.RespondWithError(w, err)
		return
	}

	data := map[string]interface{}{
		"updated_count": count,
	}
	models.RespondWithJSON(w, http.StatusOK,
		models.NewSuccessResponse(fmt.Sprintf("Successfully updated %d contacts", count), data))
}

// @Summary Delete a contact
// @Tags contacts
// @Produce json
// @Param id path int true "Contact ID"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /contacts/{id} [delete]
func (h *HTTPHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		models.RespondWithError(w, err)
		return
	}

	contact, err := h.service.DeleteContact(id)
	if err != nil {
		models.RespondWithError(w, err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Contact deleted", contact))
}

// @Summary Download a contact as vCard
// @Tags contacts
// @Produce text/vcard
// @Param id path int true "Contact ID"
// @Success 200 {string} string "vCard 3.0"
// @Failure 404 {object} models.APIResponse
// @Router /contacts/{id}/vcard [get]
func (h *HTTPHandler) GetContactVCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		models.RespondWithError(w, err)
		return
	}

	card, err := h.service.ContactVCard(id)
	if err != nil {
		models.RespondWithError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/vcard; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=contact_%d.vcf", id))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(card))
}

// @Summary Contact QR code
// @Description PNG QR code holding the contact's vCard, for scanning into a phone.
// @Tags contacts
// @Produce image/png
// @Param id path int true "Contact ID"
// @Param size query int false "Image size in pixels (64-1024)" default(256)
// @Success 200 {file} file
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /contacts/{id}/qrcode [get]
func (h *HTTPHandler) GetContactQRCode(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		models.RespondWithError(w, err)
		return
	}

	size := services.DefaultQRSize
	if v := r.URL.Query().Get("size"); v != "" {
		size, err = strconv.Atoi(v)
		if err != nil {
			models.RespondWithError(w, apperrors.NewInvalidInputError("size must be a number"))
			return
		}
	}

	png, err := h.service.ContactQRCode(id, size)
	if err != nil {
		utils.LogError("Error generating qr code for contact %d: %v", id, err)
		models.RespondWithError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /categories [get]
func (h *HTTPHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	models.RespondWithJSON(w, http.StatusOK,
		models.NewSuccessResponse("Categories", h.service.ListCategories()))
}

// @Summary Add a category
// @Tags categories
// @Accept json
// @Produce json
// @Param request body models.CategoryRequest true "Category name"
// @Success 201 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse "Category already exists or invalid name"
// @Router /categories [post]
func (h *HTTPHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	var req models.CategoryRequest
	if err := decodeBody(w, r, &req); err != nil {
		utils.LogError("Error decoding /categories request: %v", err)
		models.RespondWithError(w, err)
		return
	}

	name, err := h.service.AddCategory(req.Name)
	if err != nil {
		models.RespondWithError(w, err)
		return
	}
	models.RespondWithJSON(w, http.StatusCreated,
		models.NewSuccessResponse("Category added", map[string]string{"name": name}))
}

// @Summary Export contacts to CSV
// @Description Accepts the same filters as the contact list.
// @Tags export
// @Produce text/csv
// @Param category query string false "Category name, or all"
// @Param important query bool false "Only important contacts"
// @Param archived query bool false "Include archived contacts"
// @Param search query string false "Case-insensitive text in name, full name or organization"
// @Param selected query string false "Comma separated contact ids"
// @Success 200 {file} file
// @Failure 400 {object} models.APIResponse
// @Router /export [get]
func (h *HTTPHandler) ExportContacts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		models.RespondWithError(w, err)
		return
	}

	var buf bytes.Buffer
	count, err := h.service.ExportCSV(&buf, filter)
	if err != nil {
		utils.LogError("Error exporting contacts: %v", err)
		models.RespondWithError(w, err)
		return
	}

	fileName := services.ExportFileName(time.Now())
	utils.LogInfo("Exporting %d contacts as %s", count, fileName)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", fileName))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// @Summary Archive a CSV export
// @Description Uploads the filtered CSV export to the configured S3 bucket.
// @Tags export
// @Produce json
// @Param category query string false "Category name, or all"
// @Param important query bool false "Only important contacts"
// @Param archived query bool false "Include archived contacts"
// @Param selected query string false "Comma separated contact ids"
// @Success 201 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse "Archive storage not configured"
// @Router /export/archive [post]
func (h *HTTPHandler) ArchiveExport(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		models.RespondWithError(w, err)
		return
	}

	archive, err := h.service.ArchiveExport(filter)
	if err != nil {
		models.RespondWithError(w, err)
		return
	}
	models.RespondWithJSON(w, http.StatusCreated, models.NewSuccessResponse("Export archived", archive))
}

// @Summary Dashboard statistics
// @Tags stats
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /stats [get]
func (h *HTTPHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Statistics", h.service.Stats()))
}

// @Summary Recent activity
// @Tags stats
// @Produce json
// @Param limit query int false "Number of entries (1-500)" default(50)
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse
// @Router /activity [get]
func (h *HTTPHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	limit := defaultActivityLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxActivityLimit {
			models.RespondWithError(w, apperrors.NewInvalidInputError(
				fmt.Sprintf("limit must be a number between 1 and %d", maxActivityLimit)))
			return
		}
		limit = n
	}

	activity, err := h.service.RecentActivity(limit)
	if err != nil {
		utils.LogError("Error listing activity: %v", err)
		models.RespondWithError(w, err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Recent activity", activity))
}

// parseFilter reads the list filters. important and archived are only
// enabled by the literal value "true".
func parseFilter(r *http.Request) (models.ContactFilter, error) {
	q := r.URL.Query()
	filter := models.ContactFilter{
		Category:        q.Get("category"),
		ImportantOnly:   q.Get("important") == "true",
		IncludeArchived: q.Get("archived") == "true",
		Search:          q.Get("search"),
	}

	if selected := q.Get("selected"); selected != "" {
		for _, part := range strings.Split(selected, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return filter, apperrors.NewInvalidInputError(fmt.Sprintf("invalid contact id %q in selected", part))
			}
			filter.IDs = append(filter.IDs, id)
		}
	}
	return filter, nil
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return 0, apperrors.NewInvalidInputError("contact id must be a number")
	}
	return id, nil
}

// decodeBody reads a JSON body into v and validates it.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.NewInvalidInputError("invalid request body: " + err.Error()).WithCause(err)
	}
	return utils.ValidateStruct(v)
}
