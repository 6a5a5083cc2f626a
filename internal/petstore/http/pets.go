package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/fourpaws/petstore/internal/petstore/domain"
	"github.com/fourpaws/petstore/internal/petstore/service"
	"github.com/fourpaws/petstore/internal/petstore/store"
	"github.com/fourpaws/petstore/pkg/httpx"
	"github.com/fourpaws/petstore/pkg/slogx"
)

// PetsHandler serves the /pet resource.
type PetsHandler struct {
	PetService *service.PetService
}

// HandleCreate serves POST /pet.
func (h *PetsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var dto petDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeStatus(w, http.StatusBadRequest, "invalid pet payload")
		return
	}

	pet, err := h.PetService.AddPet(ctx, petFromDTO(dto))
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			writeStatus(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error("failed to add pet", slogx.Err(err))
		writeStatus(w, http.StatusInternalServerError, "failed to add pet")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, petToDTO(pet))
}

// HandleUpdate serves PUT /pet.
func (h *PetsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var dto petDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeStatus(w, http.StatusBadRequest, "invalid pet payload")
		return
	}

	pet, err := h.PetService.UpdatePet(ctx, petFromDTO(dto))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			writeStatus(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrNotFound):
			writeStatus(w, http.StatusNotFound, "pet not found")
		default:
			log.Error("failed to update pet", slogx.Err(err))
			writeStatus(w, http.StatusInternalServerError, "failed to update pet")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, petToDTO(pet))
}

// HandleGet serves GET /pet/{petId}.
func (h *PetsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := pathID(w, r, "petId")
	if !ok {
		return
	}

	pet, err := h.PetService.GetPetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeStatus(w, http.StatusNotFound, "pet not found")
			return
		}
		log.Error("failed to load pet", slogx.PetID(id), slogx.Err(err))
		writeStatus(w, http.StatusInternalServerError, "failed to load pet")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, petToDTO(pet))
}

// HandleFormUpdate serves POST /pet/{petId} with form-encoded name/status.
func (h *PetsHandler) HandleFormUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := pathID(w, r, "petId")
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		writeStatus(w, http.StatusBadRequest, "invalid form body")
		return
	}

	err := h.PetService.UpdatePetWithForm(ctx, id, r.Form.Get("name"), r.Form.Get("status"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			writeStatus(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrNotFound):
			writeStatus(w, http.StatusNotFound, "pet not found")
		default:
			log.Error("failed to update pet", slogx.PetID(id), slogx.Err(err))
			writeStatus(w, http.StatusInternalServerError, "failed to update pet")
		}
		return
	}

	writeStatus(w, http.StatusOK, strconv.FormatInt(id, 10))
}

// HandleDelete serves DELETE /pet/{petId}.
func (h *PetsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := pathID(w, r, "petId")
	if !ok {
		return
	}

	if err := h.PetService.DeletePet(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeStatus(w, http.StatusNotFound, "pet not found")
			return
		}
		log.Error("failed to delete pet", slogx.PetID(id), slogx.Err(err))
		writeStatus(w, http.StatusInternalServerError, "failed to delete pet")
		return
	}

	writeStatus(w, http.StatusOK, strconv.FormatInt(id, 10))
}

// maxUploadBytes caps pet image uploads at 8 MiB.
const maxUploadBytes = 8 << 20

// HandleUpload serves POST /pet/{petId}/uploadImage. The file part is named
// "file"; its filename is recorded on the pet's photoUrls. The optional
// additionalMetadata field is echoed back in the status message.
func (h *PetsHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := pathID(w, r, "petId")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeStatus(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeStatus(w, http.StatusBadRequest, "missing file part")
		return
	}
	defer func() { _ = file.Close() }()

	size, err := io.Copy(io.Discard, file)
	if err != nil {
		writeStatus(w, http.StatusBadRequest, "unreadable file part")
		return
	}

	if _, err := h.PetService.AttachPhoto(ctx, id, header.Filename); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			writeStatus(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrNotFound):
			writeStatus(w, http.StatusNotFound, "pet not found")
		default:
			log.Error("failed to attach photo", slogx.PetID(id), slogx.Err(err))
			writeStatus(w, http.StatusInternalServerError, "failed to attach photo")
		}
		return
	}

	msg := fmt.Sprintf("additionalMetadata: %s\nFile uploaded to %s, %d bytes",
		r.FormValue("additionalMetadata"), header.Filename, size)
	writeStatus(w, http.StatusOK, msg)
}

// HandleFindByStatus serves GET /pet/findByStatus?status=...&status=...
func (h *PetsHandler) HandleFindByStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	statuses := splitMulti(r.URL.Query()["status"])
	pets, err := h.PetService.FindPetsByStatus(ctx, statuses)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			writeStatus(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error("failed to find pets by status", slogx.Err(err))
		writeStatus(w, http.StatusInternalServerError, "failed to find pets")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, petsToDTOs(pets))
}

// HandleFindByTags serves GET /pet/findByTags?tags=...&tags=...
func (h *PetsHandler) HandleFindByTags(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	tags := splitMulti(r.URL.Query()["tags"])
	pets, err := h.PetService.FindPetsByTags(ctx, tags)
	if err != nil {
		log.Error("failed to find pets by tags", slogx.Err(err))
		writeStatus(w, http.StatusInternalServerError, "failed to find pets")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, petsToDTOs(pets))
}

func petsToDTOs(pets []domain.Pet) []petDTO {
	out := make([]petDTO, 0, len(pets))
	for _, p := range pets {
		out = append(out, petToDTO(p))
	}
	return out
}

// pathID parses a numeric path segment, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		writeStatus(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// splitMulti accepts both repeated query parameters and comma-separated
// values within a single parameter.
func splitMulti(values []string) []string {
	var out []string
	for _, v := range values {
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				out = append(out, f)
			}
		}
	}
	return out
}
