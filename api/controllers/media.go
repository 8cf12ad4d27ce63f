package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/scoutdeskhq/scoutdesk-backend/api/middleware"
	"github.com/scoutdeskhq/scoutdesk-backend/api/responses"
	"github.com/scoutdeskhq/scoutdesk-backend/api/validators"
	"github.com/scoutdeskhq/scoutdesk-backend/internal/deletion"
	"github.com/scoutdeskhq/scoutdesk-backend/internal/moderation"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/enums"
	pkgerrors "github.com/scoutdeskhq/scoutdesk-backend/pkg/errors"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/logger"
)

// MediaList serves one filtered, sorted page of the aggregated collection.
func MediaList(svc *moderation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := pageRequestFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.GetPage(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type transitionRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note" validate:"max=500"`
}

// MediaTransition moves one item to a new moderation status.
func MediaTransition(svc *moderation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body transitionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseMediaStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		item, err := svc.Transition(
			r.Context(),
			chi.URLParam(r, "mediaId"),
			status,
			middleware.ActorFromContext(r.Context()),
			body.Note,
		)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// MediaDelete runs the cascade delete for one item. `notify=true` texts the
// owner after the delete commits.
func MediaDelete(svc *deletion.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mediaID := chi.URLParam(r, "mediaId")
		notifyOwner := strings.EqualFold(r.URL.Query().Get("notify"), "true")

		if err := svc.Delete(r.Context(), mediaID, notifyOwner, middleware.ActorFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"id": mediaID, "status": "deleted"})
	}
}

type bulkDeleteRequest struct {
	IDs    []string `json:"ids" validate:"required,min=1,max=100"`
	Notify bool     `json:"notify"`
}

// MediaBulkDelete deletes each id independently and always reports the full
// partition, so a partial failure still returns 200 with the failed members.
func MediaBulkDelete(svc *deletion.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body bulkDeleteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.BulkDelete(r.Context(), body.IDs, body.Notify, middleware.ActorFromContext(r.Context()))
		if err != nil {
			logg.Warn(r.Context(), "bulk delete finished with failures: "+err.Error())
		}
		responses.WriteSuccess(w, result)
	}
}

// MediaAudit returns the full audit trail for one item, oldest first.
func MediaAudit(svc *moderation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.Trail(r.Context(), chi.URLParam(r, "mediaId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

// MediaRefresh re-runs the source adapters now. A degraded pass still
// replaces the collections, so it reports ok with a partial marker instead
// of failing the request.
func MediaRefresh(svc *moderation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		if err := svc.Session().RefreshAll(r.Context()); err != nil {
			logg.Warn(r.Context(), "refresh pass degraded: "+err.Error())
			status = "partial"
		}
		responses.WriteSuccess(w, map[string]string{"status": status})
	}
}

// MediaStorageReport returns the byte totals from the last aggregation pass.
func MediaStorageReport(svc *moderation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.StorageReport())
	}
}

func pageRequestFromQuery(r *http.Request) (moderation.PageRequest, error) {
	q := r.URL.Query()
	req := moderation.PageRequest{
		Kind: enums.MediaKindVideo,
		Sort: moderation.SortNewest,
		Page: 1,
	}

	if raw := q.Get("kind"); raw != "" {
		kind, err := enums.ParseMediaKind(raw)
		if err != nil {
			return req, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid kind")
		}
		req.Kind = kind
	}
	if raw := q.Get("sort"); raw != "" {
		req.Sort = moderation.SortOrder(raw)
	}
	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return req, pkgerrors.New(pkgerrors.CodeValidation, "page must be an integer")
		}
		req.Page = page
	}

	req.Filters.Search = q.Get("search")
	if raw := q.Get("status"); raw != "" {
		status, err := enums.ParseMediaStatus(raw)
		if err != nil {
			return req, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		req.Filters.Status = &status
	}
	if raw := q.Get("account_type"); raw != "" {
		accountType, err := enums.ParseAccountType(raw)
		if err != nil {
			return req, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid account_type")
		}
		req.Filters.AccountType = &accountType
	}
	if raw := q.Get("source"); raw != "" {
		source, err := enums.ParseSourceType(raw)
		if err != nil {
			return req, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid source")
		}
		req.Filters.Source = &source
	}
	if raw := q.Get("subtype"); raw != "" {
		subtype, err := enums.ParseImageSubtype(raw)
		if err != nil {
			return req, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid subtype")
		}
		req.Filters.Subtype = &subtype
	}
	if raw := q.Get("last_action"); raw != "" {
		action, err := enums.ParseAuditAction(raw)
		if err != nil {
			return req, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid last_action")
		}
		req.Filters.LastAction = &action
	}
	if raw := q.Get("action_taken"); raw != "" {
		taken, err := strconv.ParseBool(raw)
		if err != nil {
			return req, pkgerrors.New(pkgerrors.CodeValidation, "action_taken must be a boolean")
		}
		req.Filters.ActionTaken = &taken
	}
	if raw := q.Get("notified"); raw != "" {
		notified, err := strconv.ParseBool(raw)
		if err != nil {
			return req, pkgerrors.New(pkgerrors.CodeValidation, "notified must be a boolean")
		}
		req.Filters.Notified = &notified
	}

	return req, nil
}
