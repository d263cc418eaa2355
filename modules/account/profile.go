package account

import (
	"errors"

	"github.com/dmitrymomot/carematch/handler"
	"github.com/dmitrymomot/carematch/svc/profile"
)

type profileHandlers struct {
	directory ProfileDirectory
}

// get handles GET /profiles/{id}. Sensitive fields are masked.
func (h *profileHandlers) get(ctx handler.Context, req ProfileRequest) handler.Response {
	p, err := h.directory.Lookup(ctx, req.ID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return handler.Error(handler.ErrNotFound)
		}
		return handler.Error(err)
	}
	return handler.JSON(p.Public())
}

type photoHandlers struct {
	svc PhotoService
}

// presign handles GET /profiles/{id}/photo/presign.
func (h *photoHandlers) presign(ctx handler.Context, req ProfileRequest) handler.Response {
	up, err := h.svc.Presign(ctx, req.ID)
	if err != nil {
		return handler.Error(photoError(err))
	}
	return handler.JSON(up)
}

// upload handles POST /profiles/{id}/photo with a multipart "photo" file.
func (h *photoHandlers) upload(ctx handler.Context, req PhotoUploadRequest) handler.Response {
	role, err := parseFormRole(req.Role)
	if err != nil {
		return handler.Error(err)
	}

	url, err := h.svc.Upload(ctx, req.ID, role, req.Photo)
	if err != nil {
		return handler.Error(photoError(err))
	}
	return handler.JSON(PhotoResponse{URL: url})
}

// confirm handles PUT /profiles/{id}/photo after a direct upload.
func (h *photoHandlers) confirm(ctx handler.Context, req PhotoConfirmRequest) handler.Response {
	role, err := parseFormRole(req.Role)
	if err != nil {
		return handler.Error(err)
	}

	url, err := h.svc.Confirm(ctx, req.ID, role, req.URL)
	if err != nil {
		return handler.Error(photoError(err))
	}
	return handler.JSON(PhotoResponse{URL: url})
}
