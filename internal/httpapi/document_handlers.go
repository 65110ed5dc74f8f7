package httpapi

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"lexora.org/internal/audit"
	"lexora.org/internal/auth"
	"lexora.org/internal/docsec"
	"lexora.org/internal/ids"
)

type uploadDocumentRequest struct {
	FileName          string `json:"file_name"`
	ContentType       string `json:"content_type"`
	Content           string `json:"content"` // base64
	SecurityLevel     string `json:"security_level"`
	WatermarkText     string `json:"watermark_text"`
	WatermarkPosition string `json:"watermark_position"`
}

type updateSecurityRequest struct {
	SecurityLevel     *string `json:"security_level"`
	WatermarkText     *string `json:"watermark_text"`
	WatermarkPosition *string `json:"watermark_position"`
}

func (a *API) handleDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if !a.ensurePermissions(w, r, auth.PermDocumentUpload) {
		return
	}
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req uploadDocumentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	level, ok := docsec.ParseLevel(req.SecurityLevel)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "unknown security level")
		return
	}
	position, ok := docsec.ParsePosition(req.WatermarkPosition)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "unknown watermark position")
		return
	}
	content, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "content is not valid base64")
		return
	}
	if len(content) == 0 {
		writeError(w, r, http.StatusBadRequest, "content is required")
		return
	}

	documentID := ids.New()
	meta := &docsec.Metadata{
		DocumentID:        documentID,
		OwnerID:           principal.UserID,
		SecurityLevel:     level,
		EncryptedAtRest:   a.docs.Encrypted(),
		WatermarkText:     req.WatermarkText,
		WatermarkPosition: position,
	}
	if err := a.docs.Register(r.Context(), meta); err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to register document")
		return
	}
	if err := a.docs.StoreContent(r.Context(), documentID, req.ContentType, content); err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to store document")
		return
	}

	a.docs.LogDocumentAccess(r.Context(), documentID, principal.UserID, "document.upload")
	writeJSON(w, http.StatusCreated, map[string]any{
		"document_id":       documentID,
		"security_level":    string(level),
		"encrypted_at_rest": meta.EncryptedAtRest,
	})
}

func (a *API) handleDocumentByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	if rest == "" {
		http.NotFound(w, r)
		return
	}
	if id, found := strings.CutSuffix(rest, "/security"); found {
		a.handleDocumentSecurity(w, r, id)
		return
	}
	if strings.Contains(rest, "/") {
		http.NotFound(w, r)
		return
	}
	a.handleDocumentDownload(w, r, rest)
}

func (a *API) handleDocumentDownload(w http.ResponseWriter, r *http.Request, documentID string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if !a.ensurePermissions(w, r, auth.PermDocumentView) {
		return
	}
	principal, _ := auth.PrincipalFromContext(r.Context())

	if !a.docs.CheckDocumentAccess(r.Context(), documentID, principal.UserID) {
		a.docs.LogDocumentAccess(r.Context(), documentID, principal.UserID, "document.access.denied")
		writeError(w, r, http.StatusForbidden, "access denied")
		return
	}

	meta, err := a.docs.Metadata(r.Context(), documentID)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "document not found")
		return
	}
	content, contentType, err := a.docs.FetchContent(r.Context(), documentID)
	if err != nil {
		if errors.Is(err, docsec.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "document not found")
			return
		}
		// Never leak whether the key or the stored bytes were at fault.
		writeError(w, r, http.StatusInternalServerError, "failed to read document")
		return
	}
	content, err = a.docs.ApplyWatermark(content, contentType, meta)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to prepare document")
		return
	}

	a.docs.LogDocumentAccess(r.Context(), documentID, principal.UserID, "document.download")
	writeJSON(w, http.StatusOK, map[string]any{
		"document_id":  documentID,
		"content_type": contentType,
		"content":      base64.StdEncoding.EncodeToString(content),
	})
}

func (a *API) handleDocumentSecurity(w http.ResponseWriter, r *http.Request, documentID string) {
	if r.Method != http.MethodPatch {
		methodNotAllowed(w, r, http.MethodPatch)
		return
	}
	if !a.ensurePermissions(w, r, auth.PermDocumentManageSecurity) {
		return
	}
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req updateSecurityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var upd docsec.SecurityUpdate
	if req.SecurityLevel != nil {
		level, ok := docsec.ParseLevel(*req.SecurityLevel)
		if !ok {
			writeError(w, r, http.StatusBadRequest, "unknown security level")
			return
		}
		upd.SecurityLevel = &level
	}
	if req.WatermarkText != nil {
		upd.WatermarkText = req.WatermarkText
	}
	if req.WatermarkPosition != nil {
		position, ok := docsec.ParsePosition(*req.WatermarkPosition)
		if !ok {
			writeError(w, r, http.StatusBadRequest, "unknown watermark position")
			return
		}
		upd.WatermarkPosition = &position
	}

	if err := a.docs.UpdateSecurity(r.Context(), documentID, upd); err != nil {
		if errors.Is(err, docsec.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "document not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "failed to update security")
		return
	}

	a.trail.Record(r.Context(), audit.Entry{
		UserID:     principal.UserID,
		Action:     "document.security.update",
		EntityType: "document",
		EntityID:   documentID,
	})
	writeJSON(w, http.StatusOK, map[string]any{"document_id": documentID})
}
